package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recipebook/backend/internal/middleware"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/validation"
)

type ProfileHandler struct {
	profileService service.IProfileService
	tokens         middleware.TokenValidator
}

func NewProfileHandler(profileService service.IProfileService, tokens middleware.TokenValidator) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		tokens:         tokens,
	}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	profile.Use(middleware.AuthMiddleware(h.tokens))
	{
		profile.GET("/", h.GetProfile)
		profile.POST("/edit/", h.UpdateProfile)
	}
	router.GET("/users/:id/", h.GetPublicProfile)
}

// GetProfile shows the user their own recipes. Admins land on moderation.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	if middleware.IsAdmin(c) {
		middleware.Redirect(c, ModerationPath, "message", "Welcome back. Here is the moderation queue.")
		return
	}

	profile, err := h.profileService.GetOwnProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "get profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) GetPublicProfile(c *gin.Context) {
	id, ok := pathID(c, "User")
	if !ok {
		return
	}
	profile, err := h.profileService.GetPublicProfile(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "get profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var upd service.ProfileUpdate
	if name, ok := c.GetPostForm("name"); ok {
		upd.Name = &name
	}
	if phone, ok := c.GetPostForm("phone"); ok {
		upd.Phone = &phone
	}
	upd.RemoveAvatar = truthy(c.PostForm("remove_avatar"))

	avatar, err := formUpload(c, "avatar")
	if err != nil {
		fields := validation.FieldErrors{}
		fields.Add("avatar", "The uploaded file is too large.")
		respondValidation(c, fields, nil)
		return
	}
	upd.Avatar = avatar

	user, err := h.profileService.UpdateProfile(c.Request.Context(), userID, upd)
	if err != nil {
		respondError(c, err, "update profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated.", "user": user})
}
