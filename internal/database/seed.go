package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pageza/recipebook/backend/internal/logging"
	"github.com/pageza/recipebook/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultGenres is the catalogue a fresh installation starts with.
var DefaultGenres = []string{
	"Breakfast", "Soups", "Salads", "Main courses", "Side dishes",
	"Desserts", "Baking", "Drinks", "Vegetarian", "Vegan",
}

// GenreSlug derives the URL slug of a genre name.
func GenreSlug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// SeedGenres inserts the named genres, skipping ones that already exist.
// It returns how many rows were created.
func SeedGenres(db *gorm.DB, names []string) (int64, error) {
	genres := make([]models.Genre, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		genres = append(genres, models.Genre{Name: name, Slug: GenreSlug(name)})
	}
	if len(genres) == 0 {
		return 0, nil
	}

	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&genres)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to seed genres: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// EnsureAdmin creates an administrator with the given credentials, or
// promotes the existing account with that email. The password of an
// existing account is left alone.
func EnsureAdmin(db *gorm.DB, name, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, errors.New("admin email and password are required")
	}

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	switch {
	case err == nil:
		if !user.IsAdmin {
			if err := db.Model(&user).Update("is_admin", true).Error; err != nil {
				return nil, fmt.Errorf("failed to promote admin: %w", err)
			}
			logging.Info().Str("email", email).Msg("promoted existing user to admin")
		}
		return &user, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user = models.User{Name: name, Email: email, PasswordHash: string(hash), IsAdmin: true}
	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	logging.Info().Str("email", email).Msg("created admin user")
	return &user, nil
}
