package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recipebook/backend/internal/middleware"
	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/types"
	"gorm.io/gorm"
)

// ModerationPath is the admin back-office.
const ModerationPath = "/admin-moderation/"

// ModerationHandler serves the admin moderation queue.
type ModerationHandler struct {
	moderation service.IModerationService
	tokens     middleware.TokenValidator
	db         *gorm.DB
}

// NewModerationHandler creates a ModerationHandler. db backs the admin check.
func NewModerationHandler(moderation service.IModerationService, tokens middleware.TokenValidator, db *gorm.DB) *ModerationHandler {
	return &ModerationHandler{
		moderation: moderation,
		tokens:     tokens,
		db:         db,
	}
}

// RegisterRoutes registers the moderation routes
func (h *ModerationHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin-moderation")
	admin.Use(middleware.AuthMiddleware(h.tokens), middleware.RequireAdmin(h.db))
	{
		admin.GET("/", h.Dashboard)
		admin.POST("/:id/approve/", h.Approve)
		admin.POST("/:id/reject/", h.Reject)
	}
}

// Dashboard returns the pending queue, oldest first, and counts per status.
func (h *ModerationHandler) Dashboard(c *gin.Context) {
	pending, err := h.moderation.ListPending(c.Request.Context())
	if err != nil {
		respondError(c, err, "fetch pending recipes")
		return
	}
	counts, err := h.moderation.StatusCounts(c.Request.Context())
	if err != nil {
		respondError(c, err, "count recipes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": pending, "counts": counts})
}

func (h *ModerationHandler) Approve(c *gin.Context) {
	id, ok := pathID(c, "Recipe")
	if !ok {
		return
	}
	recipe, err := h.moderation.Approve(c.Request.Context(), id)
	h.decided(c, recipe, err, "Recipe %q approved and published.")
}

func (h *ModerationHandler) Reject(c *gin.Context) {
	id, ok := pathID(c, "Recipe")
	if !ok {
		return
	}
	var req types.RejectRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}
	recipe, err := h.moderation.Reject(c.Request.Context(), id, req.ModerationNotes)
	h.decided(c, recipe, err, "Recipe %q rejected.")
}

func (h *ModerationHandler) decided(c *gin.Context, recipe *models.Recipe, err error, success string) {
	switch {
	case err == nil:
		middleware.Redirect(c, ModerationPath, "message", fmt.Sprintf(success, recipe.Title))
	case errors.Is(err, service.ErrNotPending) && recipe != nil:
		middleware.Redirect(c, ModerationPath, "warning",
			fmt.Sprintf("Recipe %q is %s, not pending moderation.", recipe.Title, recipe.Status))
	default:
		respondError(c, err, "moderate recipe")
	}
}
