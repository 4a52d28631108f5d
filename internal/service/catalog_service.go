package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/prepforge/prepforge/internal/dto"
	"github.com/prepforge/prepforge/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CatalogService is the public, read-only view of categories and exams.
type CatalogService interface {
	GetCategories() ([]dto.CategoryResponse, error)
	GetExamsByCategory(categoryID uint) ([]dto.ExamSummaryResponse, error)
	GetExam(examID uint) (*dto.ExamSummaryResponse, error)
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
	examRepo     repository.ExamRepository
}

func NewCatalogService(categoryRepo repository.CategoryRepository, examRepo repository.ExamRepository) CatalogService {
	return &catalogService{categoryRepo: categoryRepo, examRepo: examRepo}
}

func (s *catalogService) GetCategories() ([]dto.CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAllActive()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load categories")
		return nil, fmt.Errorf("error fetching categories: %w", err)
	}
	var dtos []dto.CategoryResponse
	for _, category := range categories {
		var resp dto.CategoryResponse
		copier.Copy(&resp, &category)
		dtos = append(dtos, resp)
	}
	return dtos, nil
}

func (s *catalogService) GetExamsByCategory(categoryID uint) ([]dto.ExamSummaryResponse, error) {
	if _, err := s.categoryRepo.FindByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %d", ErrNotFound, categoryID)
		}
		return nil, fmt.Errorf("loading category %d: %w", categoryID, err)
	}

	examsWithCount, err := s.examRepo.FindActiveByCategoryWithQuestionCount(categoryID)
	if err != nil {
		log.Error().Err(err).Uint("categoryID", categoryID).Msg("Failed to load exams for category")
		return nil, fmt.Errorf("error fetching exams: %w", err)
	}

	var dtos []dto.ExamSummaryResponse
	for _, ewc := range examsWithCount {
		dtos = append(dtos, dto.ExamSummaryResponse{
			ID:              ewc.Exam.ID,
			CategoryID:      ewc.Exam.CategoryID,
			Title:           ewc.Exam.Title,
			Description:     ewc.Exam.Description,
			DurationMinutes: ewc.Exam.DurationMinutes,
			PriceCredits:    ewc.Exam.PriceCredits,
			IsFree:          ewc.Exam.IsFree,
			QuestionCount:   ewc.QuestionCount,
			CreatedAt:       ewc.Exam.CreatedAt,
		})
	}
	return dtos, nil
}

func (s *catalogService) GetExam(examID uint) (*dto.ExamSummaryResponse, error) {
	exam, err := s.examRepo.FindByIDWithScheme(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: exam %d", ErrNotFound, examID)
		}
		return nil, fmt.Errorf("loading exam %d: %w", examID, err)
	}
	if !exam.Active {
		return nil, fmt.Errorf("%w: exam %d", ErrNotFound, examID)
	}
	return &dto.ExamSummaryResponse{
		ID:              exam.ID,
		CategoryID:      exam.CategoryID,
		Title:           exam.Title,
		Description:     exam.Description,
		DurationMinutes: exam.DurationMinutes,
		PriceCredits:    exam.PriceCredits,
		IsFree:          exam.IsFree,
		QuestionCount:   len(exam.Questions),
		CreatedAt:       exam.CreatedAt,
	}, nil
}
