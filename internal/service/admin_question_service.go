package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/prepforge/prepforge/internal/dto"
	"github.com/prepforge/prepforge/internal/model"
	"github.com/prepforge/prepforge/internal/repository"
	"gorm.io/gorm"
)

// AdminQuestionService manages the question bank.
type AdminQuestionService interface {
	CreateQuestion(req dto.QuestionCreateDTO) (*model.Question, error)
	UpdateQuestion(id uint, req dto.QuestionCreateDTO) (*model.Question, error)
	DeleteQuestion(id uint) error
	GetQuestion(id uint) (*model.Question, error)
	ListQuestions(subject string) ([]model.Question, error)
}

type adminQuestionService struct {
	questionRepo repository.QuestionRepository
}

func NewAdminQuestionService(questionRepo repository.QuestionRepository) AdminQuestionService {
	return &adminQuestionService{questionRepo: questionRepo}
}

func (s *adminQuestionService) CreateQuestion(req dto.QuestionCreateDTO) (*model.Question, error) {
	var question model.Question
	copier.Copy(&question, &req)
	if err := s.questionRepo.Create(&question); err != nil {
		return nil, fmt.Errorf("database error creating question: %w", err)
	}
	return &question, nil
}

func (s *adminQuestionService) UpdateQuestion(id uint, req dto.QuestionCreateDTO) (*model.Question, error) {
	question, err := s.questionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: question %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("loading question %d: %w", id, err)
	}
	question.Text = req.Text
	question.OptionA = req.OptionA
	question.OptionB = req.OptionB
	question.OptionC = req.OptionC
	question.OptionD = req.OptionD
	question.CorrectOption = req.CorrectOption
	question.Explanation = req.Explanation
	question.Subject = req.Subject
	if err := s.questionRepo.Update(question); err != nil {
		return nil, fmt.Errorf("updating question %d: %w", id, err)
	}
	return question, nil
}

func (s *adminQuestionService) DeleteQuestion(id uint) error {
	if _, err := s.questionRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: question %d", ErrNotFound, id)
		}
		return fmt.Errorf("loading question %d: %w", id, err)
	}
	return s.questionRepo.Delete(id)
}

func (s *adminQuestionService) GetQuestion(id uint) (*model.Question, error) {
	question, err := s.questionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: question %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("loading question %d: %w", id, err)
	}
	return question, nil
}

func (s *adminQuestionService) ListQuestions(subject string) ([]model.Question, error) {
	if subject != "" {
		return s.questionRepo.FindBySubject(subject)
	}
	return s.questionRepo.FindAll()
}
