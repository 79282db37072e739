package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxIngredientNameLength bounds catalog names.
const MaxIngredientNameLength = 50

// Ingredient is a catalog entry. NameKey holds the case-folded name and is
// unique, so "Tomato" and "tomato" resolve to the same row.
type Ingredient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	Name      string    `gorm:"size:50;not null" json:"name"`
	NameKey   string    `gorm:"size:50;not null;uniqueIndex" json:"-"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	assignID(&i.ID)
	return nil
}

// NormalizeIngredientName trims and collapses whitespace, returning the
// display form and the lookup key.
func NormalizeIngredientName(name string) (display, key string) {
	display = strings.Join(strings.Fields(name), " ")
	return display, strings.ToLower(display)
}

// Unit is a measurement unit for a recipe ingredient line.
type Unit string

const (
	UnitGram       Unit = "g"
	UnitKilogram   Unit = "kg"
	UnitMilliliter Unit = "ml"
	UnitLiter      Unit = "l"
	UnitPiece      Unit = "pcs"
	UnitTeaspoon   Unit = "tsp"
	UnitTablespoon Unit = "tbsp"
	UnitPinch      Unit = "pinch"
)

// DefaultUnit applies when a line leaves the unit blank.
const DefaultUnit = UnitPiece

var Units = []Unit{UnitGram, UnitKilogram, UnitMilliliter, UnitLiter, UnitPiece, UnitTeaspoon, UnitTablespoon, UnitPinch}

// ParseUnit accepts a unit code case-insensitively. Blank input yields DefaultUnit.
func ParseUnit(raw string) (Unit, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return DefaultUnit, true
	}
	for _, u := range Units {
		if string(u) == raw {
			return u, true
		}
	}
	return "", false
}

// RecipeIngredient links a recipe to a catalog ingredient with a quantity.
type RecipeIngredient struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"-"`
	IngredientID uuid.UUID   `gorm:"type:uuid;not null;index" json:"ingredient_id"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
	Quantity     float64     `gorm:"type:numeric(8,2);not null" json:"quantity"`
	Unit         Unit        `gorm:"size:10;not null;default:'pcs'" json:"unit"`
	Position     int         `gorm:"not null;default:0" json:"-"`
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	assignID(&ri.ID)
	return nil
}
