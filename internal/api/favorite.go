package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recipebook/backend/internal/middleware"
	"github.com/pageza/recipebook/backend/internal/service"
)

type FavoriteHandler struct {
	favorites service.IFavoriteService
	tokens    middleware.TokenValidator
}

func NewFavoriteHandler(favorites service.IFavoriteService, tokens middleware.TokenValidator) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites, tokens: tokens}
}

func (h *FavoriteHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.tokens)
	router.POST("/favorite/toggle/:id/", auth, h.Toggle)
	router.GET("/favorites/", auth, h.List)
}

// Toggle flips the favorite flag and reports the new state.
func (h *FavoriteHandler) Toggle(c *gin.Context) {
	viewer := viewerFrom(c)
	if viewer == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}
	id, ok := pathID(c, "Recipe")
	if !ok {
		return
	}

	res, err := h.favorites.Toggle(c.Request.Context(), *viewer, id)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Recipe not found"})
			return
		}
		respondError(c, err, "toggle favorite")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"is_favorited": res.IsFavorited,
		"message":      res.Message,
		"recipe_id":    res.RecipeID,
	})
}

func (h *FavoriteHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	recipes, err := h.favorites.ListFavorites(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "fetch favorites")
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}
