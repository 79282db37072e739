package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeStatus is the moderation state of a recipe.
type RecipeStatus string

const (
	StatusDraft     RecipeStatus = "draft"
	StatusPending   RecipeStatus = "pending"
	StatusPublished RecipeStatus = "published"
	StatusRejected  RecipeStatus = "rejected"
)

// Statuses lists every moderation state in display order.
var Statuses = []RecipeStatus{StatusDraft, StatusPending, StatusPublished, StatusRejected}

func (s RecipeStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusPublished, StatusRejected:
		return true
	}
	return false
}

type Recipe struct {
	ID              uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt       time.Time          `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	UserID          uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	User            *User              `gorm:"foreignKey:UserID" json:"author,omitempty"`
	Title           string             `gorm:"size:200;not null;default:''" json:"title"`
	Description     string             `gorm:"type:text;not null;default:''" json:"description"`
	Portions        *int               `json:"portions"`
	Calories        *int               `json:"calories"`
	EstimatedCost   *float64           `gorm:"type:numeric(8,2)" json:"estimated_cost"`
	CoverImage      string             `gorm:"size:255" json:"cover_image"`
	VideoFile       string             `gorm:"size:255" json:"video_file"`
	Status          RecipeStatus       `gorm:"size:20;not null;default:'draft';index" json:"status"`
	ModerationNotes *string            `gorm:"type:text" json:"moderation_notes"`
	Genres          []Genre            `gorm:"many2many:recipe_genres;" json:"genres"`
	Steps           []RecipeStep       `gorm:"foreignKey:RecipeID" json:"steps"`
	Ingredients     []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"ingredients"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	if r.Status == "" {
		r.Status = StatusDraft
	}
	return nil
}

// StepImages returns the image URLs currently attached to the recipe's steps.
func (r *Recipe) StepImages() map[string]bool {
	images := make(map[string]bool, len(r.Steps))
	for _, step := range r.Steps {
		if step.Image != "" {
			images[step.Image] = true
		}
	}
	return images
}

// RecipeStep is one numbered instruction. Order is contiguous from 1 within a recipe.
type RecipeStep struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_step_order" json:"-"`
	Order       int       `gorm:"column:step_order;not null;uniqueIndex:idx_recipe_step_order" json:"order"`
	Description string    `gorm:"type:text;not null;default:''" json:"description"`
	Image       string    `gorm:"size:255" json:"image"`
}

func (s *RecipeStep) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}
