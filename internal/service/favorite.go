package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageza/recipebook/backend/internal/metrics"
	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteService struct {
	db *gorm.DB
}

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// Toggle removes the favorite if it exists and adds it otherwise. The unique
// (user, recipe) index keeps concurrent toggles from creating duplicates.
func (s *FavoriteService) Toggle(ctx context.Context, viewer Viewer, recipeID uuid.UUID) (*types.FavoriteToggle, error) {
	db := s.db.WithContext(ctx)

	var recipe models.Recipe
	if err := db.Select("id", "user_id", "title", "status").First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	if !viewer.CanView(&recipe) {
		return nil, ErrRecipeNotFound
	}

	res := db.Where("user_id = ? AND recipe_id = ?", viewer.UserID, recipe.ID).Delete(&models.Favorite{})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to remove favorite: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		metrics.FavoriteToggles.WithLabelValues("unfavorited").Inc()
		return &types.FavoriteToggle{
			RecipeID:    recipe.ID,
			IsFavorited: false,
			Message:     fmt.Sprintf("Recipe %q removed from favorites.", recipe.Title),
		}, nil
	}

	fav := models.Favorite{UserID: viewer.UserID, RecipeID: recipe.ID}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoNothing: true,
	}).Create(&fav).Error
	if err != nil && !isDuplicateKey(err) {
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}

	metrics.FavoriteToggles.WithLabelValues("favorited").Inc()
	return &types.FavoriteToggle{
		RecipeID:    recipe.ID,
		IsFavorited: true,
		Message:     fmt.Sprintf("Recipe %q added to favorites.", recipe.Title),
	}, nil
}

// ListFavorites returns the user's favorites, most recently added first.
// Recipes that have since left the published state are hidden unless the
// user owns them.
func (s *FavoriteService) ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	db := s.db.WithContext(ctx)
	var recipes []models.Recipe
	err := db.
		Preload("User").
		Preload("Genres").
		Joins("JOIN recipe_favorites ON recipe_favorites.recipe_id = recipes.id").
		Where("recipe_favorites.user_id = ?", userID).
		Where(db.Where("recipes.status = ?", models.StatusPublished).Or("recipes.user_id = ?", userID)).
		Order("recipe_favorites.created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return recipes, nil
}
