package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Genre struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Slug string    `gorm:"size:100;not null;uniqueIndex" json:"slug"`
}

func (g *Genre) BeforeCreate(tx *gorm.DB) error {
	assignID(&g.ID)
	return nil
}
