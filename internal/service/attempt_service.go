package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/prepforge/prepforge/internal/dto"
	"github.com/prepforge/prepforge/internal/model"
	"github.com/prepforge/prepforge/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AttemptService owns the ExamAttempt state machine: IN_PROGRESS at start,
// COMPLETED at submission, nothing else. Starting debits credits atomically
// with attempt creation; submitting scores the frozen snapshot and commits the
// answer set, score, and status flip together.
type AttemptService interface {
	StartAttempt(userID, examID uint) (*dto.AttemptStartResponse, error)
	SubmitAttempt(userID, examID uint, req dto.SubmitAttemptRequest) (*dto.AttemptResultResponse, error)
	GetAttemptDetails(userID, attemptID uint) (*dto.AttemptDetailResponse, error)
	GetUserAttempts(userID uint) ([]dto.AttemptSummaryResponse, error)
}

type attemptService struct {
	examRepo    repository.ExamRepository
	attemptRepo repository.AttemptRepository
	creditSvc   CreditService
	scorer      ScoringService
	db          *gorm.DB
}

func NewAttemptService(
	examRepo repository.ExamRepository,
	attemptRepo repository.AttemptRepository,
	creditSvc CreditService,
	scorer ScoringService,
	db *gorm.DB,
) AttemptService {
	return &attemptService{
		examRepo:    examRepo,
		attemptRepo: attemptRepo,
		creditSvc:   creditSvc,
		scorer:      scorer,
		db:          db,
	}
}

func (s *attemptService) StartAttempt(userID, examID uint) (*dto.AttemptStartResponse, error) {
	exam, err := s.examRepo.FindByIDWithScheme(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: exam %d", ErrNotFound, examID)
		}
		return nil, fmt.Errorf("loading exam %d: %w", examID, err)
	}
	if !exam.Active {
		return nil, fmt.Errorf("%w: exam %d is not active", ErrNotFound, examID)
	}
	if len(exam.Questions) == 0 {
		return nil, fmt.Errorf("%w: exam %d has no questions configured", ErrValidation, examID)
	}

	if _, err := s.attemptRepo.FindInProgress(userID, examID); err == nil {
		return nil, fmt.Errorf("%w: an attempt for exam %d is already in progress", ErrConflict, examID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking open attempts: %w", err)
	}

	// Freeze the served set now. Questions added to the exam later must never
	// appear in this attempt's scoring.
	servedIDs := make([]uint, 0, len(exam.Questions))
	for _, row := range exam.Questions {
		servedIDs = append(servedIDs, row.QuestionID)
	}
	snapshot, err := model.EncodeServedQuestionIDs(servedIDs)
	if err != nil {
		return nil, fmt.Errorf("encoding question snapshot: %w", err)
	}

	attempt := model.ExamAttempt{
		UserID:          userID,
		ExamID:          examID,
		Status:          model.AttemptStatusInProgress,
		ServedQuestions: snapshot,
		StartedAt:       time.Now(),
	}

	// Debit and attempt row commit together or not at all.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if !exam.IsFree && exam.PriceCredits > 0 {
			if _, err := s.creditSvc.ApplyDeltaTx(tx, userID, 0, -exam.PriceCredits, model.TransactionTypeExamDebit, ""); err != nil {
				return err
			}
		}
		if err := tx.Create(&attempt).Error; err != nil {
			// The partial unique index closes the check-then-act race between
			// two concurrent starts.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: an attempt for exam %d is already in progress", ErrConflict, examID)
			}
			return fmt.Errorf("creating attempt: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("userID", userID).Uint("examID", examID).Uint("attemptID", attempt.ID).Int("questions", len(servedIDs)).Msg("Attempt started")

	resp := dto.AttemptStartResponse{
		AttemptID:       attempt.ID,
		ExamID:          exam.ID,
		ExamTitle:       exam.Title,
		DurationMinutes: exam.DurationMinutes,
		Status:          attempt.Status,
		StartedAt:       attempt.StartedAt,
		Questions:       make([]dto.ServedQuestionDTO, 0, len(exam.Questions)),
	}
	for _, row := range exam.Questions {
		resp.Questions = append(resp.Questions, dto.ServedQuestionDTO{
			ID:            row.Question.ID,
			Text:          row.Question.Text,
			OptionA:       row.Question.OptionA,
			OptionB:       row.Question.OptionB,
			OptionC:       row.Question.OptionC,
			OptionD:       row.Question.OptionD,
			Marks:         row.Marks,
			NegativeMarks: row.NegativeMarks,
			Order:         row.OrderInExam,
		})
	}
	return &resp, nil
}

func (s *attemptService) SubmitAttempt(userID, examID uint, req dto.SubmitAttemptRequest) (*dto.AttemptResultResponse, error) {
	attempt, err := s.attemptRepo.FindInProgress(userID, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no active attempt for exam %d", ErrNotFound, examID)
		}
		return nil, fmt.Errorf("locating active attempt: %w", err)
	}

	servedIDs, err := attempt.ServedQuestionIDs()
	if err != nil {
		return nil, fmt.Errorf("decoding question snapshot for attempt %d: %w", attempt.ID, err)
	}
	servedSet := make(map[uint]bool, len(servedIDs))
	for _, id := range servedIDs {
		servedSet[id] = true
	}

	for qid, selected := range req.Answers {
		if !servedSet[qid] {
			return nil, fmt.Errorf("%w: question %d is not part of this attempt", ErrValidation, qid)
		}
		if !model.ValidOption(selected) {
			return nil, fmt.Errorf("%w: invalid option %q for question %d", ErrValidation, selected, qid)
		}
	}

	// Load the marking scheme restricted to the snapshot. Scheme rows added
	// after the attempt started are excluded by construction.
	schemeRows, err := s.examRepo.FindSchemeRows(attempt.ExamID, servedIDs)
	if err != nil {
		return nil, fmt.Errorf("loading marking scheme for exam %d: %w", attempt.ExamID, err)
	}
	scheme := make([]SchemeEntry, 0, len(schemeRows))
	for _, row := range schemeRows {
		scheme = append(scheme, SchemeEntry{
			QuestionID:    row.QuestionID,
			CorrectAnswer: row.Question.CorrectOption,
			Marks:         row.Marks,
			NegativeMarks: row.NegativeMarks,
		})
	}

	result := s.scorer.Score(scheme, req.Answers, float64(req.TimeSpentSeconds))

	endedAt := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// First-committer-wins: the guarded update decides which of two
		// concurrent submits completes the attempt.
		res := tx.Model(&model.ExamAttempt{}).
			Where("id = ? AND status = ?", attempt.ID, model.AttemptStatusInProgress).
			Updates(map[string]interface{}{
				"status":      model.AttemptStatusCompleted,
				"total_marks": result.TotalMarks,
				"percentage":  result.Percentage,
				"ended_at":    endedAt,
			})
		if res.Error != nil {
			return fmt.Errorf("completing attempt %d: %w", attempt.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: attempt %d already completed", ErrConflict, attempt.ID)
		}

		answers := make([]model.Answer, 0, len(result.Outcomes))
		for _, outcome := range result.Outcomes {
			answers = append(answers, model.Answer{
				ExamAttemptID:    attempt.ID,
				QuestionID:       outcome.QuestionID,
				SelectedOption:   outcome.SelectedAnswer,
				IsCorrect:        outcome.IsCorrect,
				MarksObtained:    outcome.MarksObtained,
				TimeSpentSeconds: outcome.TimeSpentSeconds,
			})
		}
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return fmt.Errorf("recording answers for attempt %d: %w", attempt.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("attemptID", attempt.ID).Float64("totalMarks", result.TotalMarks).Float64("percentage", result.Percentage).Msg("Attempt submitted and scored")

	return &dto.AttemptResultResponse{
		AttemptID:      attempt.ID,
		TotalMarks:     result.TotalMarks,
		Percentage:     result.Percentage,
		CorrectAnswers: result.CorrectAnswers,
		TotalQuestions: result.TotalQuestions,
		TimeSpent:      req.TimeSpentSeconds,
		Status:         model.AttemptStatusCompleted,
	}, nil
}

func (s *attemptService) GetAttemptDetails(userID, attemptID uint) (*dto.AttemptDetailResponse, error) {
	attempt, err := s.attemptRepo.FindByIDWithDetails(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: attempt %d", ErrNotFound, attemptID)
		}
		return nil, fmt.Errorf("loading attempt %d: %w", attemptID, err)
	}
	if attempt.UserID != userID {
		return nil, fmt.Errorf("%w: attempt %d", ErrNotFound, attemptID)
	}

	resp := dto.AttemptDetailResponse{
		AttemptID:  attempt.ID,
		ExamID:     attempt.ExamID,
		ExamTitle:  attempt.Exam.Title,
		Status:     attempt.Status,
		StartedAt:  attempt.StartedAt,
		EndedAt:    attempt.EndedAt,
		TotalMarks: attempt.TotalMarks,
		Percentage: attempt.Percentage,
		Answers:    make([]dto.AnswerOutcomeDTO, 0, len(attempt.Answers)),
	}
	for _, ans := range attempt.Answers {
		resp.Answers = append(resp.Answers, dto.AnswerOutcomeDTO{
			QuestionID:       ans.QuestionID,
			QuestionText:     ans.Question.Text,
			SelectedOption:   ans.SelectedOption,
			CorrectOption:    ans.Question.CorrectOption,
			IsCorrect:        ans.IsCorrect,
			MarksObtained:    ans.MarksObtained,
			TimeSpentSeconds: ans.TimeSpentSeconds,
			Explanation:      ans.Question.Explanation,
		})
	}
	return &resp, nil
}

func (s *attemptService) GetUserAttempts(userID uint) ([]dto.AttemptSummaryResponse, error) {
	attempts, err := s.attemptRepo.FindAllByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("loading attempts for user %d: %w", userID, err)
	}
	summaries := make([]dto.AttemptSummaryResponse, 0, len(attempts))
	for _, attempt := range attempts {
		summaries = append(summaries, dto.AttemptSummaryResponse{
			AttemptID:  attempt.ID,
			ExamID:     attempt.ExamID,
			ExamTitle:  attempt.Exam.Title,
			Status:     attempt.Status,
			StartedAt:  attempt.StartedAt,
			EndedAt:    attempt.EndedAt,
			TotalMarks: attempt.TotalMarks,
			Percentage: attempt.Percentage,
		})
	}
	return summaries, nil
}
