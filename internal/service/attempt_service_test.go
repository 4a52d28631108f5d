package service

import (
	"testing"

	"github.com/prepforge/prepforge/internal/dto"
	"github.com/prepforge/prepforge/internal/model"
	"github.com/prepforge/prepforge/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAttemptService(db *gorm.DB) AttemptService {
	creditSvc := newCreditService(db)
	return NewAttemptService(
		repository.NewExamRepository(db),
		repository.NewAttemptRepository(db),
		creditSvc,
		NewScoringService(),
		db,
	)
}

func TestStartAttempt_DebitsAndFreezesSnapshot(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(db)
	user := seedUser(t, db, 10)
	exam := seedExam(t, db, 3, false, 2, 1, 0.25)

	resp, err := svc.StartAttempt(user.ID, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptStatusInProgress, resp.Status)
	assert.Len(t, resp.Questions, 2)

	var reloadedUser model.User
	require.NoError(t, db.First(&reloadedUser, user.ID).Error)
	assert.Equal(t, 7, reloadedUser.Credits)

	var txn model.CreditTransaction
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&txn).Error)
	assert.Equal(t, model.TransactionTypeExamDebit, txn.Type)
	assert.Equal(t, -3, txn.Credits)
	assert.Equal(t, model.TransactionStatusCompleted, txn.Status)

	var attempt model.ExamAttempt
	require.NoError(t, db.First(&attempt, resp.AttemptID).Error)
	ids, err := attempt.ServedQuestionIDs()
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestStartAttempt_InsufficientCredits(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(db)
	user := seedUser(t, db, 2)
	exam := seedExam(t, db, 5, false, 1, 1, 0)

	_, err := svc.StartAttempt(user.ID, exam.ID)
	assert.ErrorIs(t, err, ErrInsufficientCredits)

	var reloadedUser model.User
	require.NoError(t, db.First(&reloadedUser, user.ID).Error)
	assert.Equal(t, 2, reloadedUser.Credits, "a rejected start must not debit")

	var count int64
	require.NoError(t, db.Model(&model.ExamAttempt{}).Count(&count).Error)
	assert.Zero(t, count, "a rejected start must not create an attempt")
}

func TestStartAttempt_FreeExamSkipsDebit(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(db)
	user := seedUser(t, db, 0)
	exam := seedExam(t, db, 0, true, 1, 1, 0)

	_, err := svc.StartAttempt(user.ID, exam.ID)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.CreditTransaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestStartAttempt_DuplicateInProgress(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(db)
	user := seedUser(t, db, 10)
	exam := seedExam(t, db, 0, true, 1, 1, 0)

	_, err := svc.StartAttempt(user.ID, exam.ID)
	require.NoError(t, err)

	_, err = svc.StartAttempt(user.ID, exam.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestStartAttempt_InactiveExam(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(db)
	user := seedUser(t, db, 10)
	exam := seedExam(t, db, 0, true, 1, 1, 0)
	require.NoError(t, db.Model(&model.Exam{}).Where("id = ?", exam.ID).Update("active", false).Error)

	_, err := svc.StartAttempt(user.ID, exam.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitAttempt_ScoresAndCompletes(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(db)
	user := seedUser(t, db, 10)
	// Two questions, correct option "A": {1, -0.25} and {1, -0.25}.
	exam := seedExam(t, db, 0, true, 2, 1, 0.25)

	started, err := svc.StartAttempt(user.ID, exam.ID)
	require.NoError(t, err)

	q1 := started.Questions[0].ID
	q2 := started.Questions[1].ID
	result, err := svc.SubmitAttempt(user.ID, exam.ID, dto.SubmitAttemptRequest{
		Answers:          map[uint]string{q1: "A", q2: "B"},
		TimeSpentSeconds: 120,
	})
	require.NoError(t, err)

	assert.Equal(t, model.AttemptStatusCompleted, result.Status)
	assert.Equal(t, 0.75, result.TotalMarks)
	assert.InDelta(t, 37.5, result.Percentage, 0.001)
	assert.Equal(t, 1, result.CorrectAnswers)
	assert.Equal(t, 2, result.TotalQuestions)
	assert.Equal(t, 120, result.TimeSpent)

	var attempt model.ExamAttempt
	require.NoError(t, db.Preload("Answers").First(&attempt, result.AttemptID).Error)
	assert.Equal(t, model.AttemptStatusCompleted, attempt.Status)
	require.NotNil(t, attempt.TotalMarks)
	assert.Equal(t, 0.75, *attempt.TotalMarks)
	require.NotNil(t, attempt.EndedAt)
	assert.Len(t, attempt.Answers, 2)
	for _, ans := range attempt.Answers {
		assert.Equal(t, 60.0, ans.TimeSpentSeconds)
	}
}

func TestSubmitAttempt_SecondSubmitScoresExactlyOnce(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(db)
	user := seedUser(t, db, 10)
	exam := seedExam(t, db, 0, true, 1, 1, 0)

	started, err := svc.StartAttempt(user.ID, exam.ID)
	require.NoError(t, err)

	req := dto.SubmitAttemptRequest{
		Answers:          map[uint]string{started.Questions[0].ID: "A"},
		TimeSpentSeconds: 30,
	}
	first, err := svc.SubmitAttempt(user.ID, exam.ID, req)
	require.NoError(t, err)

	// The attempt is COMPLETED; the second submit finds no active attempt.
	_, err = svc.SubmitAttempt(user.ID, exam.ID, req)
	assert.ErrorIs(t, err, ErrNotFound)

	var answerCount int64
	require.NoError(t, db.Model(&model.Answer{}).Where("exam_attempt_id = ?", first.AttemptID).Count(&answerCount).Error)
	assert.EqualValues(t, 1, answerCount, "exactly one answer set must exist")
}

func TestSubmitAttempt_SnapshotIsolation(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(db)
	user := seedUser(t, db, 10)
	exam := seedExam(t, db, 0, true, 2, 1, 0)

	started, err := svc.StartAttempt(user.ID, exam.ID)
	require.NoError(t, err)

	// A question is added to the exam after the attempt started.
	lateQuestion := model.Question{Text: "late", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectOption: "A"}
	require.NoError(t, db.Create(&lateQuestion).Error)
	require.NoError(t, db.Create(&model.ExamQuestion{
		ExamID:      exam.ID,
		QuestionID:  lateQuestion.ID,
		Marks:       5,
		OrderInExam: 3,
	}).Error)

	// Answering the late question is rejected: it is outside the frozen snapshot.
	_, err = svc.SubmitAttempt(user.ID, exam.ID, dto.SubmitAttemptRequest{
		Answers: map[uint]string{lateQuestion.ID: "A"},
	})
	assert.ErrorIs(t, err, ErrValidation)

	// A valid submission scores only the snapshot questions.
	result, err := svc.SubmitAttempt(user.ID, exam.ID, dto.SubmitAttemptRequest{
		Answers: map[uint]string{started.Questions[0].ID: "A"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalQuestions)
	assert.Equal(t, 1.0, result.TotalMarks, "the late question's 5 marks must not appear")
}

func TestSubmitAttempt_InvalidOption(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(db)
	user := seedUser(t, db, 10)
	exam := seedExam(t, db, 0, true, 1, 1, 0)

	started, err := svc.StartAttempt(user.ID, exam.ID)
	require.NoError(t, err)

	_, err = svc.SubmitAttempt(user.ID, exam.ID, dto.SubmitAttemptRequest{
		Answers: map[uint]string{started.Questions[0].ID: "E"},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmitAttempt_NoActiveAttempt(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(db)
	user := seedUser(t, db, 10)
	exam := seedExam(t, db, 0, true, 1, 1, 0)

	_, err := svc.SubmitAttempt(user.ID, exam.ID, dto.SubmitAttemptRequest{Answers: map[uint]string{}})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetAttemptDetails_OwnershipEnforced(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(db)
	user := seedUser(t, db, 10)
	exam := seedExam(t, db, 0, true, 1, 1, 0)

	started, err := svc.StartAttempt(user.ID, exam.ID)
	require.NoError(t, err)

	other := model.User{ExternalID: "other", Email: "other@example.com", Role: model.RoleStudent}
	require.NoError(t, db.Create(&other).Error)

	_, err = svc.GetAttemptDetails(other.ID, started.AttemptID)
	assert.ErrorIs(t, err, ErrNotFound, "another user's attempt reads as not found")

	detail, err := svc.GetAttemptDetails(user.ID, started.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, started.AttemptID, detail.AttemptID)
}
