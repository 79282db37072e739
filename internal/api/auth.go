package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recipebook/backend/internal/logging"
	"github.com/pageza/recipebook/backend/internal/middleware"
	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/types"
)

type AuthHandler struct {
	authService  service.IAuthService
	cookieSecure bool
}

func NewAuthHandler(authService service.IAuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieSecure: cookieSecure,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/signup/", h.Signup)
	router.POST("/login/", h.Login)
	router.POST("/logout/", h.Logout)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req types.SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			respondValidation(c, verr.Fields, gin.H{"email": req.Email, "name": req.Name, "phone": req.Phone})
			return
		}
		respondError(c, err, "create account")
		return
	}

	logging.Info().Str("user_id", user.ID.String()).Msg("user registered")
	h.startSession(c, http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.authService.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email, phone number or password."})
			return
		}
		respondError(c, err, "log in")
		return
	}
	h.startSession(c, http.StatusOK, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.cookieSecure, true)
	middleware.Redirect(c, "/recipes/", "message", "You have been logged out.")
}

// startSession issues a token, returns it in the body and sets it as an
// HttpOnly cookie for browser clients.
func (h *AuthHandler) startSession(c *gin.Context, status int, user *models.User) {
	token, err := h.authService.GenerateToken(user)
	if err != nil {
		respondError(c, err, "generate token")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(service.TokenTTL.Seconds()), "/", "", h.cookieSecure, true)
	c.JSON(status, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"name":     user.Name,
			"email":    user.Email,
			"is_admin": user.IsAdmin,
		},
	})
}
