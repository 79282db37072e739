package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/recipebook/backend/internal/models"
	"gorm.io/gorm"
)

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// AddReview records a rating for a published recipe. Each user may review a
// recipe once and never their own.
func (s *ReviewService) AddReview(ctx context.Context, userID, recipeID uuid.UUID, rating int, comment string) (*models.Review, error) {
	db := s.db.WithContext(ctx)

	var recipe models.Recipe
	if err := db.Select("id", "user_id", "status").First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	if recipe.Status != models.StatusPublished {
		return nil, ErrReviewUnavailable
	}
	if recipe.UserID == userID {
		return nil, ErrOwnReview
	}
	if rating < models.MinRating || rating > models.MaxRating {
		return nil, newValidationError("rating", fmt.Sprintf("Choose a rating from %d to %d.", models.MinRating, models.MaxRating))
	}

	review := models.Review{
		RecipeID: recipe.ID,
		UserID:   userID,
		Rating:   rating,
		Comment:  strings.TrimSpace(comment),
	}
	if err := db.Create(&review).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateReview
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return &review, nil
}
