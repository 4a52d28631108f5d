package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AttemptStatusInProgress = "IN_PROGRESS"
	AttemptStatusCompleted  = "COMPLETED"
)

// ExamAttempt is one user's pass at one exam. ServedQuestions is the frozen
// snapshot of question ids fixed at creation; scoring only ever sees these ids,
// never the live exam definition. The partial unique index keeps at most one
// IN_PROGRESS attempt per (user, exam).
type ExamAttempt struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	UserID          uint           `json:"user_id" gorm:"not null;index;uniqueIndex:uniq_active_attempt,where:status = 'IN_PROGRESS'"`
	User            User           `json:"-" gorm:"foreignKey:UserID"`
	ExamID          uint           `json:"exam_id" gorm:"not null;index;uniqueIndex:uniq_active_attempt,where:status = 'IN_PROGRESS'"`
	Exam            Exam           `json:"exam,omitempty" gorm:"foreignKey:ExamID"`
	Status          string         `json:"status" gorm:"not null;default:'IN_PROGRESS';uniqueIndex:uniq_active_attempt,where:status = 'IN_PROGRESS'"`
	ServedQuestions datatypes.JSON `json:"served_questions" gorm:"type:jsonb;not null"`
	StartedAt       time.Time      `json:"started_at" gorm:"autoCreateTime"`
	EndedAt         *time.Time     `json:"ended_at,omitempty"`
	TotalMarks      *float64       `json:"total_marks,omitempty"`
	Percentage      *float64       `json:"percentage,omitempty"`
	Answers         []Answer       `json:"answers,omitempty" gorm:"foreignKey:ExamAttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// ServedQuestionIDs decodes the frozen snapshot in serving order.
func (a *ExamAttempt) ServedQuestionIDs() ([]uint, error) {
	var ids []uint
	if err := json.Unmarshal(a.ServedQuestions, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// EncodeServedQuestionIDs freezes the snapshot for storage.
func EncodeServedQuestionIDs(ids []uint) (datatypes.JSON, error) {
	raw, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
