package repository

import (
	"github.com/prepforge/prepforge/internal/model"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.ExamCategory) error
	Update(category *model.ExamCategory) error
	Delete(id uint) error
	FindByID(id uint) (*model.ExamCategory, error)
	FindAll() ([]model.ExamCategory, error)
	FindAllActive() ([]model.ExamCategory, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.ExamCategory) error {
	return r.db.Create(category).Error
}

func (r *categoryRepository) Update(category *model.ExamCategory) error {
	return r.db.Save(category).Error
}

func (r *categoryRepository) Delete(id uint) error {
	return r.db.Delete(&model.ExamCategory{}, id).Error
}

func (r *categoryRepository) FindByID(id uint) (*model.ExamCategory, error) {
	var category model.ExamCategory
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindAll() ([]model.ExamCategory, error) {
	var categories []model.ExamCategory
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindAllActive() ([]model.ExamCategory, error) {
	var categories []model.ExamCategory
	if err := r.db.Where("active = ?", true).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
