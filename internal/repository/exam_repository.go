package repository

import (
	"github.com/prepforge/prepforge/internal/model"
	"gorm.io/gorm"
)

type ExamRepository interface {
	Create(exam *model.Exam) error
	Update(exam *model.Exam) error
	Delete(id uint) error
	FindByID(id uint) (*model.Exam, error)
	FindByIDWithScheme(id uint) (*model.Exam, error)
	FindActiveByCategoryWithQuestionCount(categoryID uint) ([]struct {
		model.Exam
		QuestionCount int
	}, error)
	FindSchemeRows(examID uint, questionIDs []uint) ([]model.ExamQuestion, error)
	AddSchemeRow(row *model.ExamQuestion) error
	RemoveSchemeRow(examID, questionID uint) error
}

type examRepository struct {
	db *gorm.DB
}

func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

func (r *examRepository) Create(exam *model.Exam) error {
	// GORM creates the associated ExamQuestion scheme rows when exam.Questions is populated.
	return r.db.Create(exam).Error
}

func (r *examRepository) Update(exam *model.Exam) error {
	return r.db.Save(exam).Error
}

func (r *examRepository) Delete(id uint) error {
	return r.db.Delete(&model.Exam{}, id).Error
}

func (r *examRepository) FindByID(id uint) (*model.Exam, error) {
	var exam model.Exam
	if err := r.db.First(&exam, id).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepository) FindByIDWithScheme(id uint) (*model.Exam, error) {
	var exam model.Exam
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("exam_questions.order_in_exam ASC")
		}).
		Preload("Questions.Question").
		First(&exam, id).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepository) FindActiveByCategoryWithQuestionCount(categoryID uint) ([]struct {
	model.Exam
	QuestionCount int
}, error) {
	var results []struct {
		model.Exam
		QuestionCount int
	}
	err := r.db.Model(&model.Exam{}).
		Select("exams.*, (SELECT COUNT(*) FROM exam_questions WHERE exam_questions.exam_id = exams.id AND exam_questions.deleted_at IS NULL) as question_count").
		Where("exams.category_id = ? AND exams.active = ? AND exams.deleted_at IS NULL", categoryID, true).
		Order("exams.created_at DESC").
		Scan(&results).Error
	return results, err
}

// FindSchemeRows loads marking-scheme rows restricted to the given question ids,
// in scheme order. Used at submission time against an attempt's frozen snapshot.
func (r *examRepository) FindSchemeRows(examID uint, questionIDs []uint) ([]model.ExamQuestion, error) {
	var rows []model.ExamQuestion
	err := r.db.
		Preload("Question").
		Where("exam_id = ? AND question_id IN ?", examID, questionIDs).
		Order("order_in_exam ASC").
		Find(&rows).Error
	return rows, err
}

func (r *examRepository) AddSchemeRow(row *model.ExamQuestion) error {
	return r.db.Create(row).Error
}

func (r *examRepository) RemoveSchemeRow(examID, questionID uint) error {
	return r.db.Where("exam_id = ? AND question_id = ?", examID, questionID).
		Delete(&model.ExamQuestion{}).Error
}
