package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent = "STUDENT"
	RoleAdmin   = "ADMIN"
)

// User is created on first authenticated contact; identity itself lives with the
// external provider, we only keep the resolved subject id.
type User struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	ExternalID string         `json:"external_id" gorm:"not null;uniqueIndex"`
	Email      string         `json:"email" gorm:"not null;uniqueIndex"`
	Name       string         `json:"name"`
	Role       string         `json:"role" gorm:"not null;default:'STUDENT'"`
	Credits    int            `json:"credits" gorm:"not null;default:0"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
