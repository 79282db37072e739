package service

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/validation"
)

const (
	maxTitleLength = 200
	maxDecimal     = 999999.99 // numeric(8,2)
	maxImageSize   = 10 << 20
	maxVideoSize   = 100 << 20
)

// Upload is a file received alongside a submission.
type Upload struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// RecipeFields holds the scalar form values exactly as submitted.
type RecipeFields struct {
	Title         string
	Description   string
	Portions      string
	Calories      string
	EstimatedCost string
	GenreIDs      []string
	CoverImage    *Upload
	Video         *Upload
}

// StepEntry is one row of the steps formset.
type StepEntry struct {
	Description   string
	Image         *Upload
	ExistingImage string
	Delete        bool
}

func (s StepEntry) blank() bool {
	return strings.TrimSpace(s.Description) == "" && s.Image == nil && s.ExistingImage == ""
}

// IngredientLine is one row of the ingredients formset.
type IngredientLine struct {
	Name     string
	Quantity string
	Unit     string
	Delete   bool
}

func (l IngredientLine) blank() bool {
	return strings.TrimSpace(l.Name) == "" && strings.TrimSpace(l.Quantity) == ""
}

// RecipeSubmission is an owner's create or edit request. It is built once by
// the transport layer and never mutated afterwards.
type RecipeSubmission struct {
	TargetStatus models.RecipeStatus
	Fields       RecipeFields
	Steps        []StepEntry
	Ingredients  []IngredientLine
}

type PreparedStep struct {
	Index       int // position in the submitted formset
	Description string
	Upload      *Upload
	Image       string
}

type PreparedIngredient struct {
	Name     string
	Quantity float64
	Unit     models.Unit
}

// PreparedRecipe is a submission that passed validation, converted to typed values.
type PreparedRecipe struct {
	Status        models.RecipeStatus
	Notes         *string
	Title         string
	Description   string
	Portions      *int
	Calories      *int
	EstimatedCost *float64
	GenreIDs      []uuid.UUID
	CoverUpload   *Upload
	CoverImage    string
	VideoUpload   *Upload
	VideoFile     string
	Steps         []PreparedStep
	Ingredients   []PreparedIngredient
}

// pendingRequirements lists what a recipe needs before it can enter moderation.
type pendingRequirements struct {
	Title         string               `form:"title" validate:"required"`
	Description   string               `form:"description" validate:"required"`
	Portions      *int                 `form:"portions" validate:"required"`
	Calories      *int                 `form:"calories" validate:"required"`
	EstimatedCost *float64             `form:"estimated_cost" validate:"required"`
	CoverImage    bool                 `form:"cover_image" validate:"required"`
	Genres        []uuid.UUID          `form:"genres" validate:"min=1"`
	Ingredients   []PreparedIngredient `form:"ingredients" validate:"min=1"`
}

var pendingMessages = map[string]string{
	"cover_image": "Upload a cover image before submitting for moderation.",
	"genres":      "Choose at least one genre.",
	"ingredients": "Add at least one ingredient.",
}

// OwnerTransition returns the status an owner's save moves a recipe into.
// A draft save keeps a rejected recipe rejected so its notes stay visible.
func OwnerTransition(current, target models.RecipeStatus) models.RecipeStatus {
	if target == models.StatusPending {
		return models.StatusPending
	}
	if current == models.StatusRejected {
		return models.StatusRejected
	}
	return models.StatusDraft
}

// CanOwnerEdit reports whether the owner may change a recipe in this status.
func CanOwnerEdit(status models.RecipeStatus) bool {
	return status != models.StatusPending
}

// ValidateSubmission checks a submission against the rules of its target
// status. existing is nil for a new recipe. It performs no I/O. The returned
// FieldErrors is never nil, so callers may keep adding to it.
func ValidateSubmission(sub RecipeSubmission, existing *models.Recipe) (*PreparedRecipe, validation.FieldErrors) {
	errs := validation.FieldErrors{}

	target := sub.TargetStatus
	if target == "" {
		target = models.StatusDraft
	}
	if target != models.StatusDraft && target != models.StatusPending {
		errs.Add("submit_status", "Choose either draft or pending.")
		target = models.StatusDraft
	}

	f := sub.Fields
	p := &PreparedRecipe{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		CoverUpload: f.CoverImage,
		VideoUpload: f.Video,
	}
	if existing != nil {
		p.CoverImage = existing.CoverImage
		p.VideoFile = existing.VideoFile
	}

	if utf8.RuneCountInString(p.Title) > maxTitleLength {
		errs.Add("title", fmt.Sprintf("Ensure this has at most %d characters.", maxTitleLength))
	}
	p.Portions = parseWhole(f.Portions, 1, "portions", errs)
	p.Calories = parseWhole(f.Calories, 0, "calories", errs)
	p.EstimatedCost = parseDecimal(f.EstimatedCost, 0, "estimated_cost", errs)
	p.GenreIDs = parseGenreIDs(f.GenreIDs, errs)

	checkUpload(f.CoverImage, maxImageSize, "cover_image", errs)
	checkUpload(f.Video, maxVideoSize, "video_file", errs)

	knownImages := map[string]bool{}
	if existing != nil {
		knownImages = existing.StepImages()
	}
	for i, entry := range sub.Steps {
		if entry.Delete || entry.blank() {
			continue
		}
		step := PreparedStep{Index: i, Description: strings.TrimSpace(entry.Description)}
		switch {
		case entry.Image != nil:
			checkUpload(entry.Image, maxImageSize, fmt.Sprintf("steps[%d][image]", i), errs)
			step.Upload = entry.Image
		case entry.ExistingImage != "":
			if !knownImages[entry.ExistingImage] {
				errs.Add(fmt.Sprintf("steps[%d][existing_image]", i), "Image does not belong to this recipe.")
			}
			step.Image = entry.ExistingImage
		}
		p.Steps = append(p.Steps, step)
	}

	lineContent := false
	for i, line := range sub.Ingredients {
		if line.Delete || line.blank() {
			continue
		}
		lineContent = true
		if ing, ok := prepareLine(i, line, errs); ok {
			p.Ingredients = append(p.Ingredients, ing)
		}
	}

	hasContent := p.Description != "" ||
		strings.TrimSpace(f.Portions) != "" ||
		strings.TrimSpace(f.Calories) != "" ||
		strings.TrimSpace(f.EstimatedCost) != "" ||
		len(f.GenreIDs) > 0 ||
		f.CoverImage != nil || f.Video != nil || p.CoverImage != "" ||
		len(p.Steps) > 0 || lineContent

	switch target {
	case models.StatusDraft:
		if hasContent && p.Title == "" {
			errs.Add("title", "A title is required once the recipe has content.")
		}
	case models.StatusPending:
		req := pendingRequirements{
			Title:         p.Title,
			Description:   p.Description,
			Portions:      p.Portions,
			Calories:      p.Calories,
			EstimatedCost: p.EstimatedCost,
			CoverImage:    p.CoverUpload != nil || p.CoverImage != "",
			Genres:        p.GenreIDs,
			Ingredients:   p.Ingredients,
		}
		for field, msgs := range validation.ValidateStruct(req) {
			if errs.Has(field) || (field == "ingredients" && lineContent) {
				// malformed values already reported against the input itself
				continue
			}
			if msg, ok := pendingMessages[field]; ok {
				errs.Add(field, msg)
				continue
			}
			errs[field] = append(errs[field], msgs...)
		}
	}

	if !errs.Empty() {
		return nil, errs
	}

	var current models.RecipeStatus
	if existing != nil {
		current = existing.Status
	}
	p.Status = OwnerTransition(current, target)
	if p.Status == models.StatusRejected && existing != nil {
		p.Notes = existing.ModerationNotes
	}
	return p, errs
}

func prepareLine(i int, line IngredientLine, errs validation.FieldErrors) (PreparedIngredient, bool) {
	ok := true
	display, _ := models.NormalizeIngredientName(line.Name)
	switch {
	case display == "":
		errs.Add(fmt.Sprintf("ingr[%d][ingredient_name]", i), "This field is required.")
		ok = false
	case len([]rune(display)) > models.MaxIngredientNameLength:
		errs.Add(fmt.Sprintf("ingr[%d][ingredient_name]", i),
			fmt.Sprintf("Ensure this has at most %d characters.", models.MaxIngredientNameLength))
		ok = false
	}

	qty, err := strconv.ParseFloat(strings.TrimSpace(line.Quantity), 64)
	qty = roundCents(qty)
	if err != nil || math.IsNaN(qty) || qty <= 0 || qty > maxDecimal {
		errs.Add(fmt.Sprintf("ingr[%d][quantity]", i), "Enter a positive number.")
		ok = false
	}

	unit, known := models.ParseUnit(line.Unit)
	if !known {
		errs.Add(fmt.Sprintf("ingr[%d][unit]", i), "Select a valid unit.")
		ok = false
	}

	return PreparedIngredient{Name: display, Quantity: qty, Unit: unit}, ok
}

func parseWhole(raw string, min int, field string, errs validation.FieldErrors) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min {
		errs.Add(field, fmt.Sprintf("Enter a whole number of at least %d.", min))
		return nil
	}
	return &n
}

func parseDecimal(raw string, min float64, field string, errs validation.FieldErrors) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	v = roundCents(v)
	if err != nil || math.IsNaN(v) || v < min || v > maxDecimal {
		errs.Add(field, "Enter a valid amount.")
		return nil
	}
	return &v
}

func parseGenreIDs(raw []string, errs validation.FieldErrors) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(raw))
	var ids []uuid.UUID
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		id, err := uuid.Parse(r)
		if err != nil {
			errs.Add("genres", fmt.Sprintf("%q is not a valid genre.", r))
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

func checkUpload(up *Upload, limit int64, field string, errs validation.FieldErrors) {
	if up == nil {
		return
	}
	if up.Size == 0 {
		errs.Add(field, "The submitted file is empty.")
		return
	}
	if up.Size > limit {
		errs.Add(field, fmt.Sprintf("File is too large (max %d MB).", limit>>20))
	}
}

// roundCents rounds to the two decimal places the numeric(8,2) columns keep.
// Range checks run on the rounded value so nothing rounds down to zero.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
