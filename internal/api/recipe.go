package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pageza/recipebook/backend/internal/middleware"
	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/types"
	"github.com/pageza/recipebook/backend/internal/validation"
)

type RecipeHandler struct {
	recipes         service.IRecipeService
	reviews         service.IReviewService
	catalog         service.ICatalogService
	tokens          middleware.TokenValidator
	creationLimiter *middleware.RateLimiter
	editLimiter     *middleware.RateLimiter
}

// NewRecipeHandler creates a RecipeHandler. Either limiter may be nil.
func NewRecipeHandler(
	recipes service.IRecipeService,
	reviews service.IReviewService,
	catalog service.ICatalogService,
	tokens middleware.TokenValidator,
	creationLimiter, editLimiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:         recipes,
		reviews:         reviews,
		catalog:         catalog,
		tokens:          tokens,
		creationLimiter: creationLimiter,
		editLimiter:     editLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.tokens)

	router.GET("/genres/", h.ListGenres)
	router.GET("/ingredients/", h.SuggestIngredients)

	recipes := router.Group("/recipes")
	{
		recipes.GET("/", h.ListRecipes)
		recipes.GET("/create/", auth, h.NewRecipeForm)
		recipes.POST("/create/", auth, h.creationLimiter.Middleware(middleware.KeyByUser), h.CreateRecipe)
		recipes.GET("/:id/", middleware.OptionalAuth(h.tokens), h.GetRecipe)
		recipes.GET("/:id/edit/", auth, h.EditRecipeForm)
		recipes.POST("/:id/edit/", auth, h.editLimiter.Middleware(middleware.KeyByUserAndRecipe), h.UpdateRecipe)
		recipes.DELETE("/:id/", auth, h.DeleteRecipe)
		recipes.POST("/:id/reviews/", auth, h.AddReview)
	}
}

func recipePath(id uuid.UUID) string {
	return fmt.Sprintf("/recipes/%s/", id)
}

// ListRecipes returns published recipes filtered by genre and search text.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var filter types.RecipeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBindError(c, err)
		return
	}

	list, err := h.recipes.ListPublished(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "fetch recipes")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c, "Recipe")
	if !ok {
		return
	}
	detail, err := h.recipes.GetRecipeDetail(c.Request.Context(), id, viewerFrom(c))
	if err != nil {
		respondError(c, err, "fetch recipe")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// NewRecipeForm returns the choices the create form needs.
func (h *RecipeHandler) NewRecipeForm(c *gin.Context) {
	genres, err := h.recipes.ListGenres(c.Request.Context())
	if err != nil {
		respondError(c, err, "fetch genres")
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres, "units": models.Units})
}

// EditRecipeForm returns the recipe for its owner's edit form.
func (h *RecipeHandler) EditRecipeForm(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Recipe")
	if !ok {
		return
	}

	recipe, err := h.recipes.GetEditableRecipe(c.Request.Context(), userID, id)
	if err != nil {
		h.editRefused(c, id, err)
		return
	}
	genres, err := h.recipes.ListGenres(c.Request.Context())
	if err != nil {
		respondError(c, err, "fetch genres")
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe, "genres": genres, "units": models.Units})
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	form, sub, ok := h.readSubmission(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), userID, sub)
	if err != nil {
		h.saveFailed(c, form, err)
		return
	}
	h.saved(c, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Recipe")
	if !ok {
		return
	}
	form, sub, ok := h.readSubmission(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), userID, id, sub)
	if err != nil {
		if errors.Is(err, service.ErrNotOwner) || errors.Is(err, service.ErrRecipeLocked) {
			h.editRefused(c, id, err)
			return
		}
		h.saveFailed(c, form, err)
		return
	}
	h.saved(c, recipe)
}

func (h *RecipeHandler) readSubmission(c *gin.Context) (*recipeForm, service.RecipeSubmission, bool) {
	form, err := parseRecipeForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, service.RecipeSubmission{}, false
	}
	sub, err := form.submission()
	if err != nil {
		fields := validation.FieldErrors{}
		fields.Add("__all__", err.Error())
		respondValidation(c, fields, form.echo())
		return nil, service.RecipeSubmission{}, false
	}
	return form, sub, true
}

func (h *RecipeHandler) saveFailed(c *gin.Context, form *recipeForm, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		respondValidation(c, verr.Fields, form.echo())
		return
	}
	respondError(c, err, "save recipe")
}

func (h *RecipeHandler) saved(c *gin.Context, recipe *models.Recipe) {
	msg := "Recipe saved as draft."
	switch recipe.Status {
	case models.StatusPending:
		msg = "Recipe submitted for moderation."
	case models.StatusRejected:
		msg = "Recipe saved. It stays rejected until you submit it for moderation again."
	}
	middleware.Redirect(c, recipePath(recipe.ID), "message", msg)
}

func (h *RecipeHandler) editRefused(c *gin.Context, id uuid.UUID, err error) {
	switch {
	case errors.Is(err, service.ErrRecipeLocked):
		middleware.Redirect(c, recipePath(id), "warning", "This recipe is awaiting moderation and cannot be edited.")
	case errors.Is(err, service.ErrNotOwner):
		middleware.Redirect(c, recipePath(id), "warning", "You can only edit your own recipes.")
	default:
		respondError(c, err, "load recipe")
	}
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	viewer := viewerFrom(c)
	if viewer == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, ok := pathID(c, "Recipe")
	if !ok {
		return
	}

	err := h.recipes.DeleteRecipe(c.Request.Context(), *viewer, id)
	if errors.Is(err, service.ErrNotOwner) {
		middleware.Redirect(c, recipePath(id), "warning", "You can only delete your own recipes.")
		return
	}
	if err != nil {
		respondError(c, err, "delete recipe")
		return
	}
	middleware.Redirect(c, middleware.ProfilePath, "message", "Recipe deleted.")
}

func (h *RecipeHandler) AddReview(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Recipe")
	if !ok {
		return
	}
	var req types.ReviewRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	_, err := h.reviews.AddReview(c.Request.Context(), userID, id, req.Rating, req.Comment)
	switch {
	case err == nil:
		middleware.Redirect(c, recipePath(id), "message", "Thanks for your review!")
	case errors.Is(err, service.ErrOwnReview):
		middleware.Redirect(c, recipePath(id), "warning", "You cannot review your own recipe.")
	case errors.Is(err, service.ErrReviewUnavailable):
		middleware.Redirect(c, recipePath(id), "warning", "Only published recipes can be reviewed.")
	case errors.Is(err, service.ErrDuplicateReview):
		fields := validation.FieldErrors{}
		fields.Add("__all__", "You have already reviewed this recipe.")
		respondValidation(c, fields, req)
	default:
		respondError(c, err, "save review")
	}
}

func (h *RecipeHandler) ListGenres(c *gin.Context) {
	genres, err := h.recipes.ListGenres(c.Request.Context())
	if err != nil {
		respondError(c, err, "fetch genres")
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres})
}

// SuggestIngredients autocompletes catalog names for the ingredient rows.
func (h *RecipeHandler) SuggestIngredients(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	ingredients, err := h.catalog.Suggest(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondError(c, err, "fetch ingredients")
		return
	}
	names := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		names = append(names, ing.Name)
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": names})
}
