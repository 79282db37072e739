package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "handler-test-secret-that-is-long-enough"

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	t      *testing.T
	db     *gorm.DB
	media  *testhelpers.MemoryMediaStore
	auth   *service.AuthService
	router *gin.Engine
}

func newTestApp(t *testing.T) *testApp {
	db := testhelpers.SetupTestDatabase(t)
	media := testhelpers.NewMemoryMediaStore()
	auth := service.NewAuthService(db, testSecret)
	recipes := service.NewRecipeService(db, media)

	router := gin.New()
	root := router.Group("/")
	NewAuthHandler(auth, false).RegisterRoutes(root)
	NewProfileHandler(service.NewProfileService(auth, recipes, media), auth).RegisterRoutes(root)
	NewRecipeHandler(recipes, service.NewReviewService(db), service.NewIngredientCatalog(db), auth, nil, nil).RegisterRoutes(root)
	NewFavoriteHandler(service.NewFavoriteService(db), auth).RegisterRoutes(root)
	NewModerationHandler(service.NewModerationService(db, nil), auth, db).RegisterRoutes(root)
	router.GET("/health", NewHealthHandler(db).HealthCheck)

	return &testApp{t: t, db: db, media: media, auth: auth, router: router}
}

func (a *testApp) token(user *models.User) string {
	token, err := a.auth.GenerateToken(user)
	require.NoError(a.t, err)
	return token
}

func (a *testApp) do(req *http.Request, user *models.User) *httptest.ResponseRecorder {
	if user != nil {
		req.Header.Set("Authorization", "Bearer "+a.token(user))
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(path string, user *models.User) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil), user)
}

func (a *testApp) postForm(path string, values url.Values, user *models.User) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req, user)
}

// postMultipart sends values plus files, keyed by field name, each holding PNG bytes.
func (a *testApp) postMultipart(path string, values url.Values, files map[string][]byte, user *models.User) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, vals := range values {
		for _, v := range vals {
			require.NoError(a.t, mw.WriteField(key, v))
		}
	}
	for field, data := range files {
		fw, err := mw.CreateFormFile(field, "upload.png")
		require.NoError(a.t, err)
		_, err = fw.Write(data)
		require.NoError(a.t, err)
	}
	require.NoError(a.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return a.do(req, user)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}
