package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pageza/recipebook/backend/internal/metrics"
	"github.com/pageza/recipebook/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// catalogAttempts bounds the select/insert loop in resolveIngredient.
const catalogAttempts = 3

// IngredientCatalog deduplicates ingredient names case-insensitively.
type IngredientCatalog struct {
	db *gorm.DB
}

func NewIngredientCatalog(db *gorm.DB) *IngredientCatalog {
	return &IngredientCatalog{db: db}
}

// Resolve returns the catalog entry for name, creating it on first use.
func (c *IngredientCatalog) Resolve(ctx context.Context, name string) (*models.Ingredient, error) {
	return resolveIngredient(c.db.WithContext(ctx), name)
}

// Suggest lists catalog names starting with prefix, for form autocompletion.
func (c *IngredientCatalog) Suggest(ctx context.Context, prefix string, limit int) ([]models.Ingredient, error) {
	_, key := models.NormalizeIngredientName(prefix)
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	var out []models.Ingredient
	q := c.db.WithContext(ctx).Order("name_key ASC").Limit(limit)
	if key != "" {
		q = q.Where("name_key LIKE ? ESCAPE '\\'", escapeLike(key)+"%")
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return out, nil
}

// resolveIngredient runs against tx so it joins the caller's transaction.
// Concurrent writers race on the name_key unique index; the loser's insert
// is a no-op and the next select finds the winner's row.
func resolveIngredient(tx *gorm.DB, name string) (*models.Ingredient, error) {
	display, key := models.NormalizeIngredientName(name)
	if key == "" {
		return nil, errors.New("ingredient name is empty")
	}

	for attempt := 0; attempt < catalogAttempts; attempt++ {
		var existing models.Ingredient
		err := tx.Where("name_key = ?", key).Take(&existing).Error
		if err == nil {
			metrics.CatalogResolutions.WithLabelValues("hit").Inc()
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to look up ingredient %q: %w", display, err)
		}

		candidate := models.Ingredient{Name: display, NameKey: key}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name_key"}},
			DoNothing: true,
		}).Create(&candidate)
		if res.Error != nil && !isDuplicateKey(res.Error) {
			return nil, fmt.Errorf("failed to create ingredient %q: %w", display, res.Error)
		}
		if res.Error == nil && res.RowsAffected == 1 {
			metrics.CatalogResolutions.WithLabelValues("created").Inc()
			return &candidate, nil
		}
	}

	return nil, fmt.Errorf("failed to resolve ingredient %q after %d attempts", display, catalogAttempts)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
