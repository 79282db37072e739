package models

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBeforeCreateAssignsIDs(t *testing.T) {
	user := &User{}
	assert.NoError(t, user.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, user.ID)

	fixed := uuid.New()
	recipe := &Recipe{ID: fixed}
	assert.NoError(t, recipe.BeforeCreate(nil))
	assert.Equal(t, fixed, recipe.ID)
	assert.Equal(t, StatusDraft, recipe.Status)
}

func TestNormalizeIngredientName(t *testing.T) {
	tests := []struct {
		in      string
		display string
		key     string
	}{
		{"Tomato", "Tomato", "tomato"},
		{"  tomato ", "tomato", "tomato"},
		{"Olive   Oil", "Olive Oil", "olive oil"},
		{"", "", ""},
		{"İstanbul  Kebab", "İstanbul Kebab", "istanbul kebab"},
		{"ǅemal", "ǅemal", "ǆemal"},
	}
	for _, tt := range tests {
		display, key := NormalizeIngredientName(tt.in)
		assert.Equal(t, tt.display, display, tt.in)
		assert.Equal(t, tt.key, key, tt.in)
	}
}

func TestNormalizeIngredientNameKeyFitsColumn(t *testing.T) {
	name := strings.Repeat("İ", MaxIngredientNameLength)
	display, key := NormalizeIngredientName(name)
	assert.Equal(t, utf8.RuneCountInString(display), utf8.RuneCountInString(key))
	assert.LessOrEqual(t, utf8.RuneCountInString(key), MaxIngredientNameLength)
}

func TestParseUnit(t *testing.T) {
	u, ok := ParseUnit("")
	assert.True(t, ok)
	assert.Equal(t, UnitPiece, u)

	u, ok = ParseUnit(" TBSP ")
	assert.True(t, ok)
	assert.Equal(t, UnitTablespoon, u)

	_, ok = ParseUnit("cup")
	assert.False(t, ok)
}

func TestRecipeStatusValid(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, RecipeStatus("archived").Valid())
}

func TestStepImages(t *testing.T) {
	r := &Recipe{Steps: []RecipeStep{{Image: "a.png"}, {Image: ""}, {Image: "b.png"}}}
	assert.Equal(t, map[string]bool{"a.png": true, "b.png": true}, r.StepImages())
}
