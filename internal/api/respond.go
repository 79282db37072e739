package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pageza/recipebook/backend/internal/logging"
	"github.com/pageza/recipebook/backend/internal/middleware"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/validation"
)

// respondValidation answers 422 with per-field messages and, when given, the
// submitted values so the client can re-render its form.
func respondValidation(c *gin.Context, fields validation.FieldErrors, submission interface{}) {
	body := gin.H{
		"error":  "Please correct the errors below.",
		"errors": fields,
	}
	if submission != nil {
		body["submission"] = submission
	}
	c.JSON(http.StatusUnprocessableEntity, body)
}

// respondBindError reports a failed gin binding as field errors.
func respondBindError(c *gin.Context, err error) {
	respondValidation(c, validation.FromError(err), nil)
}

// respondError maps service errors that are not redirects. Unknown errors
// are logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error, action string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		respondValidation(c, verr.Fields, nil)
	case errors.Is(err, service.ErrRecipeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	default:
		_ = c.Error(err)
		logging.Error().Err(err).Str("path", c.Request.URL.Path).Msg("failed to " + action)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + action})
	}
}

// requireUser returns the authenticated user or answers 401.
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return id, ok
}

// viewerFrom describes the requester for visibility checks; nil when anonymous.
func viewerFrom(c *gin.Context) *service.Viewer {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		return nil
	}
	return &service.Viewer{UserID: id, IsAdmin: middleware.IsAdmin(c)}
}

// pathID parses the :id parameter. Malformed IDs are reported as not found.
func pathID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
		return uuid.Nil, false
	}
	return id, true
}
