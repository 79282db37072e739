package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pageza/recipebook/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
)

func TestRequireAdmin(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	admin := testhelpers.CreateUser(t, db, "Root", true)
	member := testhelpers.CreateUser(t, db, "Alice", false)

	serve := func(userID uuid.UUID, claimAdmin bool) *httptest.ResponseRecorder {
		router := gin.New()
		router.GET("/admin",
			func(c *gin.Context) {
				if userID != uuid.Nil {
					c.Set(ContextUserID, userID)
					c.Set(ContextIsAdmin, claimAdmin)
				}
			},
			RequireAdmin(db),
			func(c *gin.Context) { c.String(http.StatusOK, "welcome") },
		)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
		return w
	}

	w := serve(admin.ID, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "welcome", w.Body.String())

	// a stale admin claim is not trusted
	w = serve(member.ID, true)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, ProfilePath, w.Header().Get("Location"))
	assert.Contains(t, w.Body.String(), `"warning"`)

	w = serve(uuid.New(), false)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = serve(uuid.Nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
