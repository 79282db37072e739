package service_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingSubmission(genreID uuid.UUID) service.RecipeSubmission {
	return service.RecipeSubmission{
		TargetStatus: models.StatusPending,
		Fields: service.RecipeFields{
			Title:         "Soup",
			Description:   "A warm soup",
			Portions:      "4",
			Calories:      "250",
			EstimatedCost: "3.5",
			GenreIDs:      []string{genreID.String()},
			CoverImage:    testhelpers.ImageUpload("cover.png"),
		},
		Steps: []service.StepEntry{
			{Description: "Boil water"},
			{Description: "Add salt"},
		},
		Ingredients: []service.IngredientLine{
			{Name: "Salt", Quantity: "5", Unit: "g"},
		},
	}
}

func TestOwnerTransition(t *testing.T) {
	tests := []struct {
		current models.RecipeStatus
		target  models.RecipeStatus
		want    models.RecipeStatus
	}{
		{"", models.StatusDraft, models.StatusDraft},
		{"", models.StatusPending, models.StatusPending},
		{models.StatusDraft, models.StatusDraft, models.StatusDraft},
		{models.StatusPublished, models.StatusDraft, models.StatusDraft},
		{models.StatusPublished, models.StatusPending, models.StatusPending},
		{models.StatusRejected, models.StatusDraft, models.StatusRejected},
		{models.StatusRejected, models.StatusPending, models.StatusPending},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, service.OwnerTransition(tt.current, tt.target), "%s -> %s", tt.current, tt.target)
	}
}

func TestCanOwnerEdit(t *testing.T) {
	assert.False(t, service.CanOwnerEdit(models.StatusPending))
	assert.True(t, service.CanOwnerEdit(models.StatusDraft))
	assert.True(t, service.CanOwnerEdit(models.StatusRejected))
	assert.True(t, service.CanOwnerEdit(models.StatusPublished))
}

func TestValidateSubmissionEmptyDraft(t *testing.T) {
	p, errs := service.ValidateSubmission(service.RecipeSubmission{}, nil)
	require.Empty(t, errs)
	assert.Equal(t, models.StatusDraft, p.Status)
	assert.Nil(t, p.Notes)
}

func TestValidateSubmissionDraftNeedsTitleWithContent(t *testing.T) {
	sub := service.RecipeSubmission{
		TargetStatus: models.StatusDraft,
		Fields:       service.RecipeFields{Description: "Something"},
	}
	_, errs := service.ValidateSubmission(sub, nil)
	assert.True(t, errs.Has("title"))
	assert.Len(t, errs, 1)
}

func TestValidateSubmissionDraftToleratesMissingPendingFields(t *testing.T) {
	sub := service.RecipeSubmission{
		TargetStatus: models.StatusDraft,
		Fields:       service.RecipeFields{Title: "Soup"},
	}
	p, errs := service.ValidateSubmission(sub, nil)
	require.Empty(t, errs)
	assert.Equal(t, "Soup", p.Title)
	assert.Nil(t, p.Portions)
}

func TestValidateSubmissionUnknownTarget(t *testing.T) {
	sub := service.RecipeSubmission{TargetStatus: models.StatusPublished}
	_, errs := service.ValidateSubmission(sub, nil)
	assert.True(t, errs.Has("submit_status"))
}

func TestValidateSubmissionPendingRequiresEverything(t *testing.T) {
	sub := service.RecipeSubmission{
		TargetStatus: models.StatusPending,
		Fields:       service.RecipeFields{Title: "Soup"},
	}
	_, errs := service.ValidateSubmission(sub, nil)

	for _, field := range []string{"description", "portions", "calories", "estimated_cost", "cover_image", "genres", "ingredients"} {
		assert.True(t, errs.Has(field), field)
	}
	assert.False(t, errs.Has("title"))
}

func TestValidateSubmissionPendingWithoutCover(t *testing.T) {
	sub := pendingSubmission(uuid.New())
	sub.Fields.CoverImage = nil

	_, errs := service.ValidateSubmission(sub, nil)
	assert.Equal(t, []string{"cover_image"}, errs.Fields())
}

func TestValidateSubmissionPendingUsesExistingCover(t *testing.T) {
	sub := pendingSubmission(uuid.New())
	sub.Fields.CoverImage = nil
	existing := &models.Recipe{Status: models.StatusDraft, CoverImage: "https://media.test/recipe_images/a.png"}

	p, errs := service.ValidateSubmission(sub, existing)
	require.Empty(t, errs)
	assert.Equal(t, models.StatusPending, p.Status)
	assert.Equal(t, existing.CoverImage, p.CoverImage)
}

func TestValidateSubmissionRejectedDraftKeepsNotes(t *testing.T) {
	notes := "too salty"
	existing := &models.Recipe{Status: models.StatusRejected, ModerationNotes: &notes}
	sub := service.RecipeSubmission{
		TargetStatus: models.StatusDraft,
		Fields:       service.RecipeFields{Title: "Soup"},
	}

	p, errs := service.ValidateSubmission(sub, existing)
	require.Empty(t, errs)
	assert.Equal(t, models.StatusRejected, p.Status)
	require.NotNil(t, p.Notes)
	assert.Equal(t, "too salty", *p.Notes)
}

func TestValidateSubmissionResubmitClearsNotes(t *testing.T) {
	notes := "too salty"
	existing := &models.Recipe{Status: models.StatusRejected, ModerationNotes: &notes}

	p, errs := service.ValidateSubmission(pendingSubmission(uuid.New()), existing)
	require.Empty(t, errs)
	assert.Equal(t, models.StatusPending, p.Status)
	assert.Nil(t, p.Notes)
}

func TestValidateSubmissionSkipsBlankAndDeletedRows(t *testing.T) {
	sub := service.RecipeSubmission{
		Fields: service.RecipeFields{Title: "Soup"},
		Steps: []service.StepEntry{
			{Description: "first"},
			{Description: "   "},
			{Description: "gone", Delete: true},
			{Description: "second"},
		},
		Ingredients: []service.IngredientLine{
			{Name: "", Quantity: ""},
			{Name: "Pepper", Quantity: "abc", Delete: true},
			{Name: " black  pepper ", Quantity: "1.234", Unit: ""},
		},
	}

	p, errs := service.ValidateSubmission(sub, nil)
	require.Empty(t, errs)
	require.Len(t, p.Steps, 2)
	assert.Equal(t, "first", p.Steps[0].Description)
	assert.Equal(t, "second", p.Steps[1].Description)
	assert.Equal(t, 3, p.Steps[1].Index)

	require.Len(t, p.Ingredients, 1)
	assert.Equal(t, "black pepper", p.Ingredients[0].Name)
	assert.Equal(t, 1.23, p.Ingredients[0].Quantity)
	assert.Equal(t, models.UnitPiece, p.Ingredients[0].Unit)
}

func TestValidateSubmissionIngredientLineErrors(t *testing.T) {
	sub := service.RecipeSubmission{
		Fields: service.RecipeFields{Title: "Soup"},
		Ingredients: []service.IngredientLine{
			{Name: "", Quantity: "2"},
			{Name: "Salt", Quantity: "-1", Unit: "g"},
			{Name: "Sugar", Quantity: "1", Unit: "cup"},
		},
	}

	_, errs := service.ValidateSubmission(sub, nil)
	assert.Equal(t, []string{
		"ingr[0][ingredient_name]",
		"ingr[1][quantity]",
		"ingr[2][unit]",
	}, errs.Fields())
}

func TestValidateSubmissionPendingWithInvalidLinesReportsLinesOnly(t *testing.T) {
	sub := pendingSubmission(uuid.New())
	sub.Ingredients = []service.IngredientLine{{Name: "Salt", Quantity: "zero"}}

	_, errs := service.ValidateSubmission(sub, nil)
	assert.Equal(t, []string{"ingr[0][quantity]"}, errs.Fields())
}

func TestValidateSubmissionScalarParsing(t *testing.T) {
	sub := service.RecipeSubmission{
		Fields: service.RecipeFields{
			Title:         "Soup",
			Portions:      "0",
			Calories:      "-5",
			EstimatedCost: "lots",
			GenreIDs:      []string{"not-a-uuid"},
		},
	}

	_, errs := service.ValidateSubmission(sub, nil)
	assert.Equal(t, []string{"calories", "estimated_cost", "genres", "portions"}, errs.Fields())
}

func TestValidateSubmissionExistingStepImage(t *testing.T) {
	existing := &models.Recipe{
		Status: models.StatusDraft,
		Steps:  []models.RecipeStep{{Order: 1, Image: "https://media.test/recipe_steps/a.png"}},
	}
	sub := service.RecipeSubmission{
		Fields: service.RecipeFields{Title: "Soup"},
		Steps: []service.StepEntry{
			{Description: "keep", ExistingImage: "https://media.test/recipe_steps/a.png"},
		},
	}

	p, errs := service.ValidateSubmission(sub, existing)
	require.Empty(t, errs)
	assert.Equal(t, "https://media.test/recipe_steps/a.png", p.Steps[0].Image)

	sub.Steps[0].ExistingImage = "https://evil.test/x.png"
	_, errs = service.ValidateSubmission(sub, existing)
	assert.True(t, errs.Has("steps[0][existing_image]"))
}

func TestValidateSubmissionDeduplicatesGenres(t *testing.T) {
	id := uuid.New()
	sub := service.RecipeSubmission{
		Fields: service.RecipeFields{Title: "Soup", GenreIDs: []string{id.String(), id.String(), ""}},
	}
	p, errs := service.ValidateSubmission(sub, nil)
	require.Empty(t, errs)
	assert.Equal(t, []uuid.UUID{id}, p.GenreIDs)
}

func TestValidateSubmissionEmptyUpload(t *testing.T) {
	sub := service.RecipeSubmission{
		Fields: service.RecipeFields{Title: "Soup", CoverImage: &service.Upload{Filename: "x.png"}},
	}
	_, errs := service.ValidateSubmission(sub, nil)
	assert.True(t, errs.Has("cover_image"))
}

func TestValidateSubmissionRoundsQuantityBeforeRangeCheck(t *testing.T) {
	sub := service.RecipeSubmission{
		Fields: service.RecipeFields{Title: "Soup", EstimatedCost: "0.004"},
		Ingredients: []service.IngredientLine{
			{Name: "Salt", Quantity: "0.004", Unit: "g"},
			{Name: "Pepper", Quantity: "0.006", Unit: "g"},
		},
	}

	p, errs := service.ValidateSubmission(sub, nil)
	assert.Equal(t, []string{"ingr[0][quantity]"}, errs.Fields())

	sub.Ingredients = sub.Ingredients[1:]
	p, errs = service.ValidateSubmission(sub, nil)
	require.Empty(t, errs)
	require.Len(t, p.Ingredients, 1)
	assert.Equal(t, 0.01, p.Ingredients[0].Quantity)
	require.NotNil(t, p.EstimatedCost)
	assert.Equal(t, 0.0, *p.EstimatedCost)
}

func TestValidateSubmissionTitleLengthCountsCharacters(t *testing.T) {
	sub := service.RecipeSubmission{Fields: service.RecipeFields{Title: strings.Repeat("Щ", 150)}}
	_, errs := service.ValidateSubmission(sub, nil)
	require.Empty(t, errs)

	sub.Fields.Title = strings.Repeat("Щ", 201)
	_, errs = service.ValidateSubmission(sub, nil)
	assert.Equal(t, []string{"title"}, errs.Fields())
}

func TestValidateSubmissionReturnsWritableErrors(t *testing.T) {
	_, errs := service.ValidateSubmission(pendingSubmission(uuid.New()), nil)
	require.NotNil(t, errs)
	assert.NotPanics(t, func() { errs.Add("genres", "Select a valid genre.") })
}
