package model

import (
	"time"

	"gorm.io/gorm"
)

// Question options are a fixed A-D enumeration with exactly one correct option.
type Question struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	Text          string         `json:"text" gorm:"type:text;not null"`
	OptionA       string         `json:"option_a" gorm:"not null"`
	OptionB       string         `json:"option_b" gorm:"not null"`
	OptionC       string         `json:"option_c" gorm:"not null"`
	OptionD       string         `json:"option_d" gorm:"not null"`
	CorrectOption string         `json:"correct_option,omitempty" gorm:"not null"` // "A".."D"
	Explanation   *string        `json:"explanation,omitempty" gorm:"type:text"`
	Subject       string         `json:"subject,omitempty" gorm:"index"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// ValidOption reports whether s is one of the four answer letters.
func ValidOption(s string) bool {
	switch s {
	case "A", "B", "C", "D":
		return true
	}
	return false
}
