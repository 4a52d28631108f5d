package service

import (
	"math"
	"testing"
)

func boolPtr(b bool) *bool { return &b }

func assertOutcome(t *testing.T, got QuestionOutcome, wantMarks float64, wantCorrect *bool) {
	t.Helper()
	if got.MarksObtained != wantMarks {
		t.Errorf("marksObtained = %v, want %v", got.MarksObtained, wantMarks)
	}
	if (got.IsCorrect == nil) != (wantCorrect == nil) {
		t.Fatalf("isCorrect = %v, want %v", got.IsCorrect, wantCorrect)
	}
	if got.IsCorrect != nil && *got.IsCorrect != *wantCorrect {
		t.Errorf("isCorrect = %v, want %v", *got.IsCorrect, *wantCorrect)
	}
}

func TestScore_PerQuestionOutcomes(t *testing.T) {
	scheme := []SchemeEntry{
		{QuestionID: 1, CorrectAnswer: "A", Marks: 2, NegativeMarks: 0.5},
	}

	tests := []struct {
		name        string
		answers     map[uint]string
		wantMarks   float64
		wantCorrect *bool
	}{
		{name: "correct answer earns full marks", answers: map[uint]string{1: "A"}, wantMarks: 2, wantCorrect: boolPtr(true)},
		{name: "wrong answer earns negative marks", answers: map[uint]string{1: "B"}, wantMarks: -0.5, wantCorrect: boolPtr(false)},
		{name: "unanswered earns zero and nil correctness", answers: map[uint]string{}, wantMarks: 0, wantCorrect: nil},
		{name: "empty selection treated as unanswered", answers: map[uint]string{1: ""}, wantMarks: 0, wantCorrect: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NewScoringService().Score(scheme, tc.answers, 60)
			if len(got.Outcomes) != 1 {
				t.Fatalf("outcomes = %d, want 1", len(got.Outcomes))
			}
			assertOutcome(t, got.Outcomes[0], tc.wantMarks, tc.wantCorrect)
		})
	}
}

func TestScore_ExampleScenario(t *testing.T) {
	// Two questions: Q1 {1, -0.25, A}, Q2 {2, -0.5, B}; submit Q1=A, Q2=C.
	scheme := []SchemeEntry{
		{QuestionID: 1, CorrectAnswer: "A", Marks: 1, NegativeMarks: 0.25},
		{QuestionID: 2, CorrectAnswer: "B", Marks: 2, NegativeMarks: 0.5},
	}
	answers := map[uint]string{1: "A", 2: "C"}

	got := NewScoringService().Score(scheme, answers, 120)

	assertOutcome(t, got.Outcomes[0], 1, boolPtr(true))
	assertOutcome(t, got.Outcomes[1], -0.5, boolPtr(false))
	if got.TotalMarks != 0.5 {
		t.Errorf("totalMarks = %v, want 0.5", got.TotalMarks)
	}
	if got.MaxPossibleMarks != 3 {
		t.Errorf("maxPossibleMarks = %v, want 3", got.MaxPossibleMarks)
	}
	if math.Abs(got.Percentage-16.666666) > 0.001 {
		t.Errorf("percentage = %v, want ~16.67", got.Percentage)
	}
	if got.CorrectAnswers != 1 {
		t.Errorf("correctAnswers = %d, want 1", got.CorrectAnswers)
	}
	if got.TotalQuestions != 2 {
		t.Errorf("totalQuestions = %d, want 2", got.TotalQuestions)
	}
}

func TestScore_PercentageClampedAtZero(t *testing.T) {
	scheme := []SchemeEntry{
		{QuestionID: 1, CorrectAnswer: "A", Marks: 1, NegativeMarks: 1},
		{QuestionID: 2, CorrectAnswer: "A", Marks: 1, NegativeMarks: 1},
	}
	answers := map[uint]string{1: "B", 2: "B"}

	got := NewScoringService().Score(scheme, answers, 30)

	if got.TotalMarks != -2 {
		t.Errorf("totalMarks = %v, want -2 (reported unclamped)", got.TotalMarks)
	}
	if got.Percentage != 0 {
		t.Errorf("percentage = %v, want 0 (clamped)", got.Percentage)
	}
}

func TestScore_EmptyScheme(t *testing.T) {
	got := NewScoringService().Score(nil, map[uint]string{1: "A"}, 45)
	if got.Percentage != 0 || got.TotalMarks != 0 || got.TotalQuestions != 0 {
		t.Errorf("empty scheme should score to zero, got %+v", got)
	}
}

func TestScore_TimeSplitEvenlyAcrossSnapshot(t *testing.T) {
	scheme := []SchemeEntry{
		{QuestionID: 1, CorrectAnswer: "A", Marks: 1},
		{QuestionID: 2, CorrectAnswer: "B", Marks: 1},
		{QuestionID: 3, CorrectAnswer: "C", Marks: 1},
	}

	got := NewScoringService().Score(scheme, map[uint]string{1: "A"}, 90)

	for _, outcome := range got.Outcomes {
		if outcome.TimeSpentSeconds != 30 {
			t.Errorf("question %d timeSpent = %v, want 30", outcome.QuestionID, outcome.TimeSpentSeconds)
		}
	}
}

func TestScore_IgnoresAnswersOutsideScheme(t *testing.T) {
	scheme := []SchemeEntry{
		{QuestionID: 1, CorrectAnswer: "A", Marks: 1},
	}
	// Question 99 is not in the snapshot; the scorer only walks scheme entries.
	got := NewScoringService().Score(scheme, map[uint]string{1: "A", 99: "D"}, 10)

	if len(got.Outcomes) != 1 {
		t.Fatalf("outcomes = %d, want 1", len(got.Outcomes))
	}
	if got.TotalMarks != 1 {
		t.Errorf("totalMarks = %v, want 1", got.TotalMarks)
	}
}
