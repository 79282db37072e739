package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/recipebook/backend/internal/types"
)

// Context keys set by the auth middleware.
const (
	ContextUserID   = "user_id"
	ContextUserName = "user_name"
	ContextIsAdmin  = "is_admin"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "session"

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// AuthMiddleware rejects requests without a valid session token.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractToken(c)
		if err != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err})
			return
		}

		claims, verr := validator.ValidateToken(token)
		if verr != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth identifies the user when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := extractToken(c); err == "" {
			if claims, verr := validator.ValidateToken(token); verr == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// extractToken reads the bearer token, falling back to the session cookie.
func extractToken(c *gin.Context) (string, string) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", "invalid authorization header format"
		}
		return parts[1], ""
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie, ""
	}
	return "", "missing authorization header"
}

func setClaims(c *gin.Context, claims *types.TokenClaims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUserName, claims.Name)
	c.Set(ContextIsAdmin, claims.IsAdmin)
}

// CurrentUserID returns the authenticated user's ID, if any.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// IsAdmin reports whether the token marks the user as an admin.
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(ContextIsAdmin)
}
