package testhelpers

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pageza/recipebook/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the password of every user created by CreateUser.
const TestPassword = "correct-horse-battery"

// CreateUser inserts a user named name with email <name>@example.com.
func CreateUser(t *testing.T, db *gorm.DB, name string, admin bool) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Name:         name,
		Email:        strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		PasswordHash: string(hash),
		IsAdmin:      admin,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// CreateGenre inserts a genre with a slug derived from its name.
func CreateGenre(t *testing.T, db *gorm.DB, name string) *models.Genre {
	t.Helper()

	genre := &models.Genre{Name: name, Slug: strings.ToLower(strings.ReplaceAll(name, " ", "-"))}
	if err := db.Create(genre).Error; err != nil {
		t.Fatalf("failed to create genre: %v", err)
	}
	return genre
}

// CreateRecipe inserts a bare recipe directly, bypassing validation.
func CreateRecipe(t *testing.T, db *gorm.DB, owner *models.User, title string, status models.RecipeStatus, genres ...*models.Genre) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		UserID:      owner.ID,
		Title:       title,
		Description: fmt.Sprintf("How to make %s", title),
		Status:      status,
	}
	for _, g := range genres {
		recipe.Genres = append(recipe.Genres, *g)
	}
	if status == models.StatusRejected {
		notes := "needs work"
		recipe.ModerationNotes = &notes
	}
	if err := db.Omit("Genres.*").Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	return recipe
}

// ReloadRecipe fetches the stored recipe row.
func ReloadRecipe(t *testing.T, db *gorm.DB, id uuid.UUID) *models.Recipe {
	t.Helper()

	var recipe models.Recipe
	if err := db.First(&recipe, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload recipe: %v", err)
	}
	return &recipe
}
