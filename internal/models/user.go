package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `gorm:"size:150;not null" json:"name"`
	Email        string    `gorm:"size:254;uniqueIndex;not null" json:"-"`
	Phone        *string   `gorm:"size:20;uniqueIndex" json:"-"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Avatar       string    `gorm:"size:255" json:"avatar"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"is_admin"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	assignID(&u.ID)
	return nil
}
