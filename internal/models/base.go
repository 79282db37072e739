package models

import (
	"github.com/google/uuid"
)

// assignID gives a record a fresh UUID unless the caller already set one.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All returns every persisted model in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Genre{},
		&Ingredient{},
		&Recipe{},
		&RecipeStep{},
		&RecipeIngredient{},
		&Favorite{},
		&Review{},
	}
}

