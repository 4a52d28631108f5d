package service

// The scoring engine is deterministic and storage-free: the attempt service
// hands it the marking scheme already restricted to the attempt's frozen
// question snapshot, plus whatever the user submitted.

// SchemeEntry is one marking-scheme row as the scorer sees it.
type SchemeEntry struct {
	QuestionID    uint
	CorrectAnswer string
	Marks         float64
	NegativeMarks float64
}

// QuestionOutcome is the scored result for a single snapshot question.
// IsCorrect is nil iff the question was not answered.
type QuestionOutcome struct {
	QuestionID       uint
	SelectedAnswer   *string
	IsCorrect        *bool
	MarksObtained    float64
	TimeSpentSeconds float64
}

// ScoreResult aggregates the outcomes of one submission. TotalMarks is reported
// unclamped; Percentage is clamped to a minimum of 0.
type ScoreResult struct {
	Outcomes         []QuestionOutcome
	TotalMarks       float64
	MaxPossibleMarks float64
	Percentage       float64
	CorrectAnswers   int
	TotalQuestions   int
}

type ScoringService interface {
	Score(scheme []SchemeEntry, answers map[uint]string, totalTimeSeconds float64) ScoreResult
}

type scoringService struct{}

func NewScoringService() ScoringService {
	return &scoringService{}
}

// Score walks the scheme in snapshot order. Unanswered questions earn 0 and are
// counted neither correct nor incorrect; wrong answers earn -NegativeMarks.
// Per-question time is the submitted total divided evenly across the snapshot,
// a documented approximation since the client does not track per-question timers.
func (s *scoringService) Score(scheme []SchemeEntry, answers map[uint]string, totalTimeSeconds float64) ScoreResult {
	result := ScoreResult{
		Outcomes:       make([]QuestionOutcome, 0, len(scheme)),
		TotalQuestions: len(scheme),
	}

	perQuestionTime := 0.0
	if len(scheme) > 0 {
		perQuestionTime = totalTimeSeconds / float64(len(scheme))
	}

	for _, entry := range scheme {
		outcome := QuestionOutcome{
			QuestionID:       entry.QuestionID,
			TimeSpentSeconds: perQuestionTime,
		}
		result.MaxPossibleMarks += entry.Marks

		selected, answered := answers[entry.QuestionID]
		if !answered || selected == "" {
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}

		sel := selected
		outcome.SelectedAnswer = &sel
		correct := selected == entry.CorrectAnswer
		outcome.IsCorrect = &correct
		if correct {
			outcome.MarksObtained = entry.Marks
			result.CorrectAnswers++
		} else {
			outcome.MarksObtained = -entry.NegativeMarks
		}
		result.TotalMarks += outcome.MarksObtained
		result.Outcomes = append(result.Outcomes, outcome)
	}

	if result.MaxPossibleMarks > 0 {
		result.Percentage = 100 * result.TotalMarks / result.MaxPossibleMarks
	}
	if result.Percentage < 0 {
		result.Percentage = 0
	}
	return result
}
