package model

import (
	"time"

	"gorm.io/gorm"
)

type ExamCategory struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `json:"name" gorm:"not null;uniqueIndex"`
	Description string         `json:"description,omitempty"`
	Active      bool           `json:"active" gorm:"not null;default:true"`
	Exams       []Exam         `json:"exams,omitempty" gorm:"foreignKey:CategoryID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Exam is the definition students attempt against. PriceCredits is the number of
// credits debited at attempt start; free exams skip the debit entirely.
type Exam struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	CategoryID      uint           `json:"category_id" gorm:"not null;index"`
	Category        ExamCategory   `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Title           string         `json:"title" gorm:"not null"`
	Description     string         `json:"description,omitempty"`
	DurationMinutes int            `json:"duration_minutes" gorm:"not null"`
	PriceCredits    int            `json:"price_credits" gorm:"not null;default:0"`
	IsFree          bool           `json:"is_free" gorm:"not null;default:false"`
	Active          bool           `json:"active" gorm:"not null;default:true"`
	Questions       []ExamQuestion `json:"questions,omitempty" gorm:"foreignKey:ExamID"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// ExamQuestion is one marking-scheme row: which question an exam serves, in what
// order, and for how many marks. An attempt snapshots against these rows at start.
type ExamQuestion struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	ExamID        uint           `json:"exam_id" gorm:"not null;index;uniqueIndex:uniq_exam_question"`
	QuestionID    uint           `json:"question_id" gorm:"not null;index;uniqueIndex:uniq_exam_question"`
	Question      Question       `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	Marks         float64        `json:"marks" gorm:"not null"`
	NegativeMarks float64        `json:"negative_marks" gorm:"not null;default:0"`
	OrderInExam   int            `json:"order_in_exam" gorm:"not null"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
