package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recipebook/backend/internal/logging"
	"github.com/pageza/recipebook/backend/internal/models"
	"gorm.io/gorm"
)

// ProfilePath is where non-admins are sent when they reach the back-office.
const ProfilePath = "/profile/"

// RequireAdmin lets only admins through. Token claims can be stale, so the
// flag is read from the database on every request.
func RequireAdmin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var user models.User
		err := db.WithContext(c.Request.Context()).Select("id", "is_admin").Where("id = ?", userID).First(&user).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			logging.Error().Err(err).Str("user_id", userID.String()).Msg("failed to verify admin status")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to verify user status"})
			return
		}

		if err != nil || !user.IsAdmin {
			Redirect(c, ProfilePath, "warning", "Only administrators can access moderation.")
			c.Abort()
			return
		}

		c.Set(ContextIsAdmin, true)
		c.Next()
	}
}

// Redirect answers with 303 See Other and a JSON body naming the target, so
// API clients and browsers can both follow it. kind is "message" or "warning".
func Redirect(c *gin.Context, location, kind, text string) {
	c.Header("Location", location)
	c.JSON(http.StatusSeeOther, gin.H{kind: text, "redirect": location})
}
