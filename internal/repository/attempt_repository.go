package repository

import (
	"github.com/prepforge/prepforge/internal/model"
	"gorm.io/gorm"
)

type AttemptRepository interface {
	FindInProgress(userID, examID uint) (*model.ExamAttempt, error)
	FindByID(id uint) (*model.ExamAttempt, error)
	FindByIDWithDetails(id uint) (*model.ExamAttempt, error)
	FindAllByUser(userID uint) ([]model.ExamAttempt, error)
	FindAllByUserAndExam(userID, examID uint) ([]model.ExamAttempt, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

// FindInProgress locates the unique open attempt for (user, exam); gorm.ErrRecordNotFound
// when the user has no open attempt.
func (r *attemptRepository) FindInProgress(userID, examID uint) (*model.ExamAttempt, error) {
	var attempt model.ExamAttempt
	err := r.db.
		Where("user_id = ? AND exam_id = ? AND status = ?", userID, examID, model.AttemptStatusInProgress).
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindByID(id uint) (*model.ExamAttempt, error) {
	var attempt model.ExamAttempt
	if err := r.db.First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindByIDWithDetails(id uint) (*model.ExamAttempt, error) {
	var attempt model.ExamAttempt
	err := r.db.
		Preload("Exam").
		Preload("Answers.Question").
		First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindAllByUser(userID uint) ([]model.ExamAttempt, error) {
	var attempts []model.ExamAttempt
	err := r.db.
		Preload("Exam").
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) FindAllByUserAndExam(userID, examID uint) ([]model.ExamAttempt, error) {
	var attempts []model.ExamAttempt
	err := r.db.
		Where("user_id = ? AND exam_id = ?", userID, examID).
		Order("started_at DESC").
		Find(&attempts).Error
	return attempts, err
}
