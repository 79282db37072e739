package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/recipebook/backend/internal/logging"
	"github.com/pageza/recipebook/backend/internal/metrics"
	"github.com/pageza/recipebook/backend/internal/models"
	"gorm.io/gorm"
)

// DefaultRejectionNote is stored when a moderator rejects without comment.
const DefaultRejectionNote = "Rejected by moderator without comment."

// ModerationNotifier is told about every applied moderation decision.
type ModerationNotifier interface {
	SendModerationResult(recipe *models.Recipe, owner *models.User) error
}

// ModerationService applies admin decisions to pending recipes.
type ModerationService struct {
	db       *gorm.DB
	notifier ModerationNotifier
}

// NewModerationService creates a ModerationService. notifier may be nil.
func NewModerationService(db *gorm.DB, notifier ModerationNotifier) *ModerationService {
	return &ModerationService{db: db, notifier: notifier}
}

// Approve publishes a pending recipe. Any other status yields ErrNotPending
// and the recipe is returned unchanged.
func (s *ModerationService) Approve(ctx context.Context, recipeID uuid.UUID) (*models.Recipe, error) {
	return s.decide(ctx, "approve", recipeID, map[string]interface{}{
		"status":           models.StatusPublished,
		"moderation_notes": nil,
	})
}

// Reject sends a pending recipe back to its owner with notes.
func (s *ModerationService) Reject(ctx context.Context, recipeID uuid.UUID, notes string) (*models.Recipe, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		notes = DefaultRejectionNote
	}
	return s.decide(ctx, "reject", recipeID, map[string]interface{}{
		"status":           models.StatusRejected,
		"moderation_notes": notes,
	})
}

// decide applies updates only while the recipe is still pending, so two
// moderators acting at once cannot both win.
func (s *ModerationService) decide(ctx context.Context, action string, recipeID uuid.UUID, updates map[string]interface{}) (*models.Recipe, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("id = ? AND status = ?", recipeID, models.StatusPending).
		Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to %s recipe: %w", action, res.Error)
	}

	var recipe models.Recipe
	if err := s.db.WithContext(ctx).Preload("User").First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}

	applied := res.RowsAffected > 0
	metrics.RecordModeration(action, applied)
	if !applied {
		return &recipe, ErrNotPending
	}

	logging.Info().
		Str("recipe_id", recipe.ID.String()).
		Str("status", string(recipe.Status)).
		Msg("moderation decision applied")

	s.notify(&recipe)
	return &recipe, nil
}

func (s *ModerationService) notify(recipe *models.Recipe) {
	if s.notifier == nil || recipe.User == nil {
		return
	}
	owner := *recipe.User
	snapshot := *recipe
	go func() {
		if err := s.notifier.SendModerationResult(&snapshot, &owner); err != nil {
			logging.Warn().Err(err).Str("recipe_id", snapshot.ID.String()).Msg("failed to notify recipe owner")
		}
	}()
}

// ListPending returns the moderation queue, oldest first.
func (s *ModerationService) ListPending(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Genres").
		Where("status = ?", models.StatusPending).
		Order("updated_at ASC").
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending recipes: %w", err)
	}
	return recipes, nil
}

// StatusCounts returns how many recipes are in each status, including zeros.
func (s *ModerationService) StatusCounts(ctx context.Context) (map[models.RecipeStatus]int64, error) {
	var rows []struct {
		Status models.RecipeStatus
		Total  int64
	}
	err := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}

	counts := make(map[models.RecipeStatus]int64, len(models.Statuses))
	for _, st := range models.Statuses {
		counts[st] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
