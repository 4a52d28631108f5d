package model

import (
	"time"

	"gorm.io/gorm"
)

// Answer is the per-question outcome of a completed attempt. Rows are inserted
// once, in the same transaction that completes the attempt, and never updated.
// SelectedOption and IsCorrect are both nil for an unanswered question.
type Answer struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	ExamAttemptID    uint           `json:"exam_attempt_id" gorm:"not null;index"`
	QuestionID       uint           `json:"question_id" gorm:"not null;index"`
	Question         Question       `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	SelectedOption   *string        `json:"selected_option,omitempty"`
	IsCorrect        *bool          `json:"is_correct,omitempty"`
	MarksObtained    float64        `json:"marks_obtained" gorm:"not null"`
	TimeSpentSeconds float64        `json:"time_spent_seconds" gorm:"not null;default:0"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
