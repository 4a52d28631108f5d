package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/prepforge/prepforge/internal/dto"
	"github.com/prepforge/prepforge/internal/model"
	"github.com/prepforge/prepforge/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AdminExamService is the back-office surface for categories and exams.
type AdminExamService interface {
	CreateCategory(req dto.CategoryCreateDTO) (*dto.CategoryResponse, error)
	UpdateCategory(id uint, req dto.CategoryCreateDTO) (*dto.CategoryResponse, error)
	DeleteCategory(id uint) error
	ListCategories() ([]dto.CategoryResponse, error)
	CreateExam(req dto.ExamCreateDTO) (*dto.ExamSummaryResponse, error)
	UpdateExam(id uint, req dto.ExamCreateDTO) (*dto.ExamSummaryResponse, error)
	DeleteExam(id uint) error
	AddQuestionToExam(examID uint, req dto.SchemeRowDTO) error
	RemoveQuestionFromExam(examID, questionID uint) error
}

type adminExamService struct {
	categoryRepo repository.CategoryRepository
	examRepo     repository.ExamRepository
	questionRepo repository.QuestionRepository
}

func NewAdminExamService(
	categoryRepo repository.CategoryRepository,
	examRepo repository.ExamRepository,
	questionRepo repository.QuestionRepository,
) AdminExamService {
	return &adminExamService{categoryRepo: categoryRepo, examRepo: examRepo, questionRepo: questionRepo}
}

func (s *adminExamService) CreateCategory(req dto.CategoryCreateDTO) (*dto.CategoryResponse, error) {
	category := model.ExamCategory{
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
	}
	if req.Active != nil {
		category.Active = *req.Active
	}
	if err := s.categoryRepo.Create(&category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: category %q already exists", ErrConflict, req.Name)
		}
		log.Error().Err(err).Msg("Failed to create category")
		return nil, fmt.Errorf("database error creating category: %w", err)
	}
	var resp dto.CategoryResponse
	copier.Copy(&resp, &category)
	return &resp, nil
}

func (s *adminExamService) UpdateCategory(id uint, req dto.CategoryCreateDTO) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("loading category %d: %w", id, err)
	}
	category.Name = req.Name
	category.Description = req.Description
	if req.Active != nil {
		category.Active = *req.Active
	}
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, fmt.Errorf("updating category %d: %w", id, err)
	}
	var resp dto.CategoryResponse
	copier.Copy(&resp, category)
	return &resp, nil
}

func (s *adminExamService) DeleteCategory(id uint) error {
	if _, err := s.categoryRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: category %d", ErrNotFound, id)
		}
		return fmt.Errorf("loading category %d: %w", id, err)
	}
	return s.categoryRepo.Delete(id)
}

func (s *adminExamService) ListCategories() ([]dto.CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
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

func (s *adminExamService) validateScheme(rows []dto.SchemeRowDTO) error {
	orderSeen := make(map[int]bool)
	questionSeen := make(map[uint]bool)
	for _, row := range rows {
		if orderSeen[row.OrderInExam] {
			return fmt.Errorf("%w: duplicate order %d in marking scheme", ErrValidation, row.OrderInExam)
		}
		orderSeen[row.OrderInExam] = true
		if questionSeen[row.QuestionID] {
			return fmt.Errorf("%w: question %d listed twice in marking scheme", ErrValidation, row.QuestionID)
		}
		questionSeen[row.QuestionID] = true
		if _, err := s.questionRepo.FindByID(row.QuestionID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: question %d does not exist", ErrValidation, row.QuestionID)
			}
			return fmt.Errorf("loading question %d: %w", row.QuestionID, err)
		}
	}
	return nil
}

func (s *adminExamService) CreateExam(req dto.ExamCreateDTO) (*dto.ExamSummaryResponse, error) {
	if _, err := s.categoryRepo.FindByID(req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %d does not exist", ErrValidation, req.CategoryID)
		}
		return nil, fmt.Errorf("loading category %d: %w", req.CategoryID, err)
	}
	if err := s.validateScheme(req.Questions); err != nil {
		return nil, err
	}

	exam := model.Exam{
		CategoryID:      req.CategoryID,
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		PriceCredits:    req.PriceCredits,
		IsFree:          req.IsFree,
		Active:          true,
	}
	if req.Active != nil {
		exam.Active = *req.Active
	}
	for _, row := range req.Questions {
		exam.Questions = append(exam.Questions, model.ExamQuestion{
			QuestionID:    row.QuestionID,
			Marks:         row.Marks,
			NegativeMarks: row.NegativeMarks,
			OrderInExam:   row.OrderInExam,
		})
	}

	if err := s.examRepo.Create(&exam); err != nil {
		log.Error().Err(err).Msg("Failed to create exam")
		return nil, fmt.Errorf("database error creating exam: %w", err)
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

// UpdateExam updates exam metadata only. Scheme rows are managed through
// AddQuestionToExam / RemoveQuestionFromExam so in-flight attempts keep scoring
// against their frozen snapshots.
func (s *adminExamService) UpdateExam(id uint, req dto.ExamCreateDTO) (*dto.ExamSummaryResponse, error) {
	exam, err := s.examRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: exam %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("loading exam %d: %w", id, err)
	}

	exam.CategoryID = req.CategoryID
	exam.Title = req.Title
	exam.Description = req.Description
	exam.DurationMinutes = req.DurationMinutes
	exam.PriceCredits = req.PriceCredits
	exam.IsFree = req.IsFree
	if req.Active != nil {
		exam.Active = *req.Active
	}
	if err := s.examRepo.Update(exam); err != nil {
		return nil, fmt.Errorf("updating exam %d: %w", id, err)
	}
	return &dto.ExamSummaryResponse{
		ID:              exam.ID,
		CategoryID:      exam.CategoryID,
		Title:           exam.Title,
		Description:     exam.Description,
		DurationMinutes: exam.DurationMinutes,
		PriceCredits:    exam.PriceCredits,
		IsFree:          exam.IsFree,
		CreatedAt:       exam.CreatedAt,
	}, nil
}

func (s *adminExamService) DeleteExam(id uint) error {
	if _, err := s.examRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: exam %d", ErrNotFound, id)
		}
		return fmt.Errorf("loading exam %d: %w", id, err)
	}
	return s.examRepo.Delete(id)
}

func (s *adminExamService) AddQuestionToExam(examID uint, req dto.SchemeRowDTO) error {
	if _, err := s.examRepo.FindByID(examID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: exam %d", ErrNotFound, examID)
		}
		return fmt.Errorf("loading exam %d: %w", examID, err)
	}
	if _, err := s.questionRepo.FindByID(req.QuestionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: question %d does not exist", ErrValidation, req.QuestionID)
		}
		return fmt.Errorf("loading question %d: %w", req.QuestionID, err)
	}
	row := model.ExamQuestion{
		ExamID:        examID,
		QuestionID:    req.QuestionID,
		Marks:         req.Marks,
		NegativeMarks: req.NegativeMarks,
		OrderInExam:   req.OrderInExam,
	}
	if err := s.examRepo.AddSchemeRow(&row); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: question %d already in exam %d", ErrConflict, req.QuestionID, examID)
		}
		return fmt.Errorf("adding question %d to exam %d: %w", req.QuestionID, examID, err)
	}
	return nil
}

func (s *adminExamService) RemoveQuestionFromExam(examID, questionID uint) error {
	return s.examRepo.RemoveSchemeRow(examID, questionID)
}
