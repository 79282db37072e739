package types

import (
	"github.com/google/uuid"
	"github.com/pageza/recipebook/backend/internal/models"
)

// GenreCount is a genre with the number of published recipes tagged with it.
type GenreCount struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	Slug                 string    `json:"slug"`
	PublishedRecipeCount int64     `json:"published_recipe_count"`
}

// RecipeList is the public listing page.
type RecipeList struct {
	Recipes           []models.Recipe `json:"recipes"`
	Genres            []GenreCount    `json:"genres"`
	SelectedGenreID   *uuid.UUID      `json:"selected_genre_id"`
	SelectedGenreName string          `json:"selected_genre_name"`
	SearchQuery       string          `json:"search_query"`
}

// RecipeDetail is a recipe with everything the detail page shows.
type RecipeDetail struct {
	Recipe        *models.Recipe  `json:"recipe"`
	Reviews       []models.Review `json:"reviews"`
	AverageRating *float64        `json:"average_rating"`
	ReviewCount   int             `json:"review_count"`
	IsFavorited   bool            `json:"is_favorited"`
	CanEdit       bool            `json:"can_edit"`
	CanReview     bool            `json:"can_review"`
}

// FavoriteToggle is the outcome of a favorite toggle.
type FavoriteToggle struct {
	RecipeID    uuid.UUID `json:"recipe_id"`
	IsFavorited bool      `json:"is_favorited"`
	Message     string    `json:"message"`
}
