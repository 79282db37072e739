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
	"github.com/pageza/recipebook/backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Viewer is the user looking at a recipe. A nil *Viewer is an anonymous visitor.
type Viewer struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// CanView reports whether v may see the recipe. Unpublished recipes are
// visible to their owner and to admins only.
func (v *Viewer) CanView(recipe *models.Recipe) bool {
	if recipe.Status == models.StatusPublished {
		return true
	}
	if v == nil {
		return false
	}
	return v.IsAdmin || v.UserID == recipe.UserID
}

// RecipeService handles recipe operations
type RecipeService struct {
	db    *gorm.DB
	media MediaStore
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, media MediaStore) *RecipeService {
	return &RecipeService{
		db:    db,
		media: media,
	}
}

// CreateRecipe validates and stores a new recipe owned by ownerID.
func (s *RecipeService) CreateRecipe(ctx context.Context, ownerID uuid.UUID, sub RecipeSubmission) (*models.Recipe, error) {
	return s.save(ctx, &models.Recipe{UserID: ownerID}, nil, sub)
}

// UpdateRecipe replaces the recipe's fields, steps and ingredients with the submission.
func (s *RecipeService) UpdateRecipe(ctx context.Context, ownerID, recipeID uuid.UUID, sub RecipeSubmission) (*models.Recipe, error) {
	existing, err := s.GetEditableRecipe(ctx, ownerID, recipeID)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, existing, existing, sub)
}

// GetEditableRecipe loads a recipe for its owner's edit form.
func (s *RecipeService) GetEditableRecipe(ctx context.Context, ownerID, recipeID uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.loadAggregate(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.UserID != ownerID {
		return nil, ErrNotOwner
	}
	if !CanOwnerEdit(recipe.Status) {
		return nil, ErrRecipeLocked
	}
	return recipe, nil
}

func (s *RecipeService) save(ctx context.Context, recipe, existing *models.Recipe, sub RecipeSubmission) (*models.Recipe, error) {
	prepared, errs := ValidateSubmission(sub, existing)
	if errs.Empty() {
		genres, missing, err := s.lookupGenres(ctx, prepared.GenreIDs)
		if err != nil {
			return nil, err
		}
		if missing {
			errs.Add("genres", "Select a valid genre.")
		}
		if errs.Empty() {
			return s.persist(ctx, recipe, prepared, genres)
		}
	}

	metrics.RecordValidationFailure(string(sub.TargetStatus))
	return nil, &ValidationError{Fields: errs}
}

func (s *RecipeService) persist(ctx context.Context, recipe *models.Recipe, p *PreparedRecipe, genres []models.Genre) (*models.Recipe, error) {
	uploaded, err := s.storeMedia(ctx, p)
	if err != nil {
		discardMedia(context.WithoutCancel(ctx), s.media, uploaded)
		return nil, err
	}

	replaced := supersededMedia(recipe, p)

	recipe.Title = p.Title
	recipe.Description = p.Description
	recipe.Portions = p.Portions
	recipe.Calories = p.Calories
	recipe.EstimatedCost = p.EstimatedCost
	recipe.CoverImage = p.CoverImage
	recipe.VideoFile = p.VideoFile
	recipe.Status = p.Status
	recipe.ModerationNotes = p.Notes

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(recipe).Error; err != nil {
			return fmt.Errorf("failed to save recipe: %w", err)
		}
		if err := replaceGenres(tx, recipe, genres); err != nil {
			return err
		}
		if _, err := ReplaceSteps(tx, recipe.ID, p.Steps); err != nil {
			return err
		}
		if _, err := ReplaceIngredients(tx, recipe.ID, p.Ingredients); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		discardMedia(context.WithoutCancel(ctx), s.media, uploaded)
		return nil, err
	}

	discardMedia(context.WithoutCancel(ctx), s.media, replaced)

	metrics.RecipeSaves.WithLabelValues(string(recipe.Status)).Inc()
	logging.Info().
		Str("recipe_id", recipe.ID.String()).
		Str("status", string(recipe.Status)).
		Int("steps", len(p.Steps)).
		Int("ingredients", len(p.Ingredients)).
		Msg("recipe saved")

	return s.loadAggregate(ctx, recipe.ID)
}

// storeMedia uploads new files and records their URLs on p. It returns every
// URL it stored, including on failure, so the caller can clean up.
func (s *RecipeService) storeMedia(ctx context.Context, p *PreparedRecipe) ([]string, error) {
	var uploaded []string
	put := func(up *Upload, folder string, kind mediaKind, field string) (string, error) {
		if s.media == nil {
			return "", errors.New("media storage is not configured")
		}
		url, err := storeUpload(ctx, s.media, up, folder, kind, field)
		if err == nil {
			uploaded = append(uploaded, url)
		}
		return url, err
	}

	if p.CoverUpload != nil {
		url, err := put(p.CoverUpload, FolderRecipeImages, kindImage, "cover_image")
		if err != nil {
			return uploaded, err
		}
		p.CoverImage = url
	}
	if p.VideoUpload != nil {
		url, err := put(p.VideoUpload, FolderRecipeVideos, kindVideo, "video_file")
		if err != nil {
			return uploaded, err
		}
		p.VideoFile = url
	}
	for i := range p.Steps {
		if p.Steps[i].Upload == nil {
			continue
		}
		url, err := put(p.Steps[i].Upload, FolderStepImages, kindImage, fmt.Sprintf("steps[%d][image]", p.Steps[i].Index))
		if err != nil {
			return uploaded, err
		}
		p.Steps[i].Image = url
	}
	return uploaded, nil
}

// supersededMedia lists stored files the recipe stops referencing once p is saved.
func supersededMedia(recipe *models.Recipe, p *PreparedRecipe) []string {
	keep := map[string]bool{p.CoverImage: true, p.VideoFile: true}
	for _, st := range p.Steps {
		keep[st.Image] = true
	}

	var gone []string
	for _, url := range []string{recipe.CoverImage, recipe.VideoFile} {
		if url != "" && !keep[url] {
			gone = append(gone, url)
		}
	}
	for url := range recipe.StepImages() {
		if !keep[url] {
			gone = append(gone, url)
		}
	}
	return gone
}

func (s *RecipeService) lookupGenres(ctx context.Context, ids []uuid.UUID) ([]models.Genre, bool, error) {
	if len(ids) == 0 {
		return nil, false, nil
	}
	var genres []models.Genre
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&genres).Error; err != nil {
		return nil, false, fmt.Errorf("failed to load genres: %w", err)
	}
	return genres, len(genres) != len(ids), nil
}

func replaceGenres(tx *gorm.DB, recipe *models.Recipe, genres []models.Genre) error {
	assoc := tx.Model(recipe).Omit("Genres.*").Association("Genres")
	var err error
	if len(genres) == 0 {
		err = assoc.Clear()
	} else {
		err = assoc.Replace(genres)
	}
	if err != nil {
		return fmt.Errorf("failed to replace recipe genres: %w", err)
	}
	return nil
}

// ReplaceSteps deletes every step of the recipe and inserts steps numbered 1..N
// in the given order. tx must be the caller's transaction.
func ReplaceSteps(tx *gorm.DB, recipeID uuid.UUID, steps []PreparedStep) ([]models.RecipeStep, error) {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeStep{}).Error; err != nil {
		return nil, fmt.Errorf("failed to clear recipe steps: %w", err)
	}
	if len(steps) == 0 {
		return nil, nil
	}

	rows := make([]models.RecipeStep, 0, len(steps))
	for i, st := range steps {
		rows = append(rows, models.RecipeStep{
			RecipeID:    recipeID,
			Order:       i + 1,
			Description: st.Description,
			Image:       st.Image,
		})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to insert recipe steps: %w", err)
	}
	return rows, nil
}

// ReplaceIngredients deletes every ingredient line of the recipe and inserts
// the given lines, resolving each name through the catalog inside tx.
func ReplaceIngredients(tx *gorm.DB, recipeID uuid.UUID, lines []PreparedIngredient) ([]models.RecipeIngredient, error) {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return nil, fmt.Errorf("failed to clear recipe ingredients: %w", err)
	}
	if len(lines) == 0 {
		return nil, nil
	}

	rows := make([]models.RecipeIngredient, 0, len(lines))
	for i, line := range lines {
		ingredient, err := resolveIngredient(tx, line.Name)
		if err != nil {
			return nil, err
		}
		rows = append(rows, models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: ingredient.ID,
			Quantity:     line.Quantity,
			Unit:         line.Unit,
			Position:     i + 1,
		})
	}
	if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to insert recipe ingredients: %w", err)
	}
	return rows, nil
}

func (s *RecipeService) loadAggregate(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.name ASC") }).
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_order ASC") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return &recipe, nil
}

// GetRecipeDetail returns the recipe with reviews and viewer-specific flags.
// Recipes the viewer may not see are reported as ErrRecipeNotFound.
func (s *RecipeService) GetRecipeDetail(ctx context.Context, recipeID uuid.UUID, viewer *Viewer) (*types.RecipeDetail, error) {
	recipe, err := s.loadAggregate(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !viewer.CanView(recipe) {
		return nil, ErrRecipeNotFound
	}

	detail := &types.RecipeDetail{Recipe: recipe}

	if err := s.db.WithContext(ctx).
		Preload("User").
		Where("recipe_id = ?", recipe.ID).
		Order("created_at DESC").
		Find(&detail.Reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}
	detail.ReviewCount = len(detail.Reviews)
	detail.AverageRating = averageRating(detail.Reviews)

	if viewer != nil {
		var n int64
		if err := s.db.WithContext(ctx).Model(&models.Favorite{}).
			Where("user_id = ? AND recipe_id = ?", viewer.UserID, recipe.ID).
			Count(&n).Error; err != nil {
			return nil, fmt.Errorf("failed to check favorite: %w", err)
		}
		detail.IsFavorited = n > 0
		detail.CanEdit = viewer.UserID == recipe.UserID && CanOwnerEdit(recipe.Status)
		detail.CanReview = viewer.UserID != recipe.UserID && recipe.Status == models.StatusPublished && !reviewedBy(detail.Reviews, viewer.UserID)
	}

	return detail, nil
}

func averageRating(reviews []models.Review) *float64 {
	if len(reviews) == 0 {
		return nil
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	avg := float64(total) / float64(len(reviews))
	return &avg
}

func reviewedBy(reviews []models.Review, userID uuid.UUID) bool {
	for _, r := range reviews {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// ListPublished returns published recipes newest first, optionally filtered by
// genre and a case-insensitive text query, plus per-genre counts.
func (s *RecipeService) ListPublished(ctx context.Context, filter types.RecipeFilter) (*types.RecipeList, error) {
	db := s.db.WithContext(ctx)
	out := &types.RecipeList{SearchQuery: strings.TrimSpace(filter.Query)}

	q := db.Model(&models.Recipe{}).
		Preload("User").
		Preload("Genres").
		Where("recipes.status = ?", models.StatusPublished)

	if genreID, err := uuid.Parse(strings.TrimSpace(filter.Genre)); err == nil {
		var genre models.Genre
		if err := db.First(&genre, "id = ?", genreID).Error; err == nil {
			out.SelectedGenreID = &genre.ID
			out.SelectedGenreName = genre.Name
			q = q.Where("recipes.id IN (?)",
				db.Table("recipe_genres").Select("recipe_id").Where("genre_id = ?", genre.ID))
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load genre: %w", err)
		}
	}

	if out.SearchQuery != "" {
		like := "%" + escapeLike(strings.ToLower(out.SearchQuery)) + "%"
		q = q.Where(db.Where("LOWER(recipes.title) LIKE ? ESCAPE '\\'", like).
			Or("LOWER(recipes.description) LIKE ? ESCAPE '\\'", like))
	}

	if err := q.Order("recipes.created_at DESC").Find(&out.Recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	genres, err := s.GenreCounts(ctx)
	if err != nil {
		return nil, err
	}
	out.Genres = genres
	return out, nil
}

// GenreCounts lists every genre with the number of published recipes in it.
func (s *RecipeService) GenreCounts(ctx context.Context) ([]types.GenreCount, error) {
	var counts []types.GenreCount
	err := s.db.WithContext(ctx).
		Model(&models.Genre{}).
		Select("genres.id, genres.name, genres.slug, COUNT(recipes.id) AS published_recipe_count").
		Joins("LEFT JOIN recipe_genres ON recipe_genres.genre_id = genres.id").
		Joins("LEFT JOIN recipes ON recipes.id = recipe_genres.recipe_id AND recipes.status = ?", models.StatusPublished).
		Group("genres.id, genres.name, genres.slug").
		Order("genres.name ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count genres: %w", err)
	}
	return counts, nil
}

// ListByOwner returns every recipe of a user regardless of status, newest first.
func (s *RecipeService) ListByOwner(ctx context.Context, ownerID uuid.UUID, publishedOnly bool) ([]models.Recipe, error) {
	q := s.db.WithContext(ctx).Preload("Genres").Where("user_id = ?", ownerID)
	if publishedOnly {
		q = q.Where("status = ?", models.StatusPublished)
	}
	var recipes []models.Recipe
	if err := q.Order("created_at DESC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// DeleteRecipe removes a recipe and everything hanging off it. Only the owner
// or an admin may delete.
func (s *RecipeService) DeleteRecipe(ctx context.Context, viewer Viewer, recipeID uuid.UUID) error {
	recipe, err := s.loadAggregate(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe.UserID != viewer.UserID && !viewer.IsAdmin {
		return ErrNotOwner
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{&models.RecipeStep{}, &models.RecipeIngredient{}, &models.Favorite{}, &models.Review{}} {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(child).Error; err != nil {
				return fmt.Errorf("failed to delete recipe children: %w", err)
			}
		}
		if err := tx.Model(recipe).Association("Genres").Clear(); err != nil {
			return fmt.Errorf("failed to clear recipe genres: %w", err)
		}
		return tx.Delete(&models.Recipe{}, "id = ?", recipe.ID).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	urls := []string{recipe.CoverImage, recipe.VideoFile}
	for url := range recipe.StepImages() {
		urls = append(urls, url)
	}
	discardMedia(context.WithoutCancel(ctx), s.media, nonEmpty(urls))
	return nil
}

// ListGenres returns the genre catalogue ordered by name.
func (s *RecipeService) ListGenres(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return genres, nil
}

func nonEmpty(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
