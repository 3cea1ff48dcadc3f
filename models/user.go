package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser       = "USER"
	RoleSuperAdmin = "SUPER_ADMIN"
)

type User struct {
	ID           string         `json:"id" gorm:"type:uuid;primaryKey"`
	Username     string         `json:"username" gorm:"uniqueIndex;size:64;not null"`
	Email        string         `json:"email" gorm:"size:256"`
	PasswordHash string         `json:"-" gorm:"not null"`
	Role         string         `json:"role" gorm:"size:32;not null;default:'USER'"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}
