package service

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pageza/recipebook/backend/internal/validation"
	"gorm.io/gorm"
)

var (
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotOwner           = errors.New("recipe belongs to another user")
	ErrRecipeLocked       = errors.New("recipe is awaiting moderation and cannot be edited")
	ErrNotPending         = errors.New("recipe is not awaiting moderation")
	ErrReviewUnavailable  = errors.New("only published recipes can be reviewed")
	ErrOwnReview          = errors.New("authors cannot review their own recipe")
	ErrDuplicateReview    = errors.New("recipe already reviewed by this user")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// ValidationError carries per-field messages back to the form that produced them.
type ValidationError struct {
	Fields validation.FieldErrors
}

func (e *ValidationError) Error() string {
	return "invalid submission: " + strings.Join(e.Fields.Fields(), ", ")
}

func newValidationError(field, message string) *ValidationError {
	fe := validation.FieldErrors{}
	fe.Add(field, message)
	return &ValidationError{Fields: fe}
}

// isDuplicateKey reports a unique-constraint violation from any supported driver.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
