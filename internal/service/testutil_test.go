package service

import (
	"testing"

	"github.com/prepforge/prepforge/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.ExamCategory{},
		&model.Exam{},
		&model.Question{},
		&model.ExamQuestion{},
		&model.ExamAttempt{},
		&model.Answer{},
		&model.CreditTransaction{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, credits int) *model.User {
	t.Helper()
	user := model.User{
		ExternalID: "ext-" + t.Name(),
		Email:      t.Name() + "@example.com",
		Role:       model.RoleStudent,
		Credits:    credits,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// seedExam creates a category, an exam, and a marking scheme of n questions,
// all with correct option "A", the given marks and negative marks.
func seedExam(t *testing.T, db *gorm.DB, price int, free bool, n int, marks, negative float64) *model.Exam {
	t.Helper()
	category := model.ExamCategory{Name: "cat-" + t.Name(), Active: true}
	require.NoError(t, db.Create(&category).Error)

	exam := model.Exam{
		CategoryID:      category.ID,
		Title:           "exam-" + t.Name(),
		DurationMinutes: 30,
		PriceCredits:    price,
		IsFree:          free,
		Active:          true,
	}
	for i := 0; i < n; i++ {
		exam.Questions = append(exam.Questions, model.ExamQuestion{
			Question: model.Question{
				Text:          "question",
				OptionA:       "a",
				OptionB:       "b",
				OptionC:       "c",
				OptionD:       "d",
				CorrectOption: "A",
			},
			Marks:         marks,
			NegativeMarks: negative,
			OrderInExam:   i + 1,
		})
	}
	require.NoError(t, db.Create(&exam).Error)
	return &exam
}
