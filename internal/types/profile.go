package types

import (
	"github.com/pageza/recipebook/backend/internal/models"
)

// OwnProfile is what a signed-in user sees about themselves.
type OwnProfile struct {
	User    *models.User    `json:"user"`
	Email   string          `json:"email"`
	Phone   *string         `json:"phone"`
	Recipes []models.Recipe `json:"recipes"`
}

// PublicProfile is what anyone can see about a user.
type PublicProfile struct {
	User    *models.User    `json:"user"`
	Recipes []models.Recipe `json:"recipes"`
}
