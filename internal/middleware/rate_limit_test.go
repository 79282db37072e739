package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func limitedRouter(rl *RateLimiter, userID uuid.UUID) *gin.Engine {
	router := gin.New()
	router.POST("/recipes/:id/edit/",
		func(c *gin.Context) {
			if userID != uuid.Nil {
				c.Set(ContextUserID, userID)
			}
		},
		rl.Middleware(KeyByUserAndRecipe),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	return router
}

func post(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
	return w
}

func TestRateLimiterWithoutRedisAllowsEverything(t *testing.T) {
	router := limitedRouter(NewRecipeModificationRateLimiter(nil, 1), uuid.New())
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, post(router, "/recipes/1/edit/").Code)
	}
}

func TestKeyFuncs(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := KeyByUser(c)
	assert.False(t, ok)

	id := uuid.New()
	c.Set(ContextUserID, id)
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	key, ok := KeyByUserAndRecipe(c)
	assert.True(t, ok)
	assert.Equal(t, id.String()+":42", key)
}

func TestRateLimiterWithRedis(t *testing.T) {
	client := setupRedis(t)
	userID := uuid.New()
	router := limitedRouter(NewRecipeModificationRateLimiter(client, 2), userID)

	first := post(router, "/recipes/1/edit/")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, post(router, "/recipes/1/edit/").Code)
	assert.Equal(t, http.StatusTooManyRequests, post(router, "/recipes/1/edit/").Code)

	// other recipes have their own bucket
	assert.Equal(t, http.StatusOK, post(router, "/recipes/2/edit/").Code)

	// anonymous requests are left to the auth middleware
	anon := limitedRouter(NewRecipeModificationRateLimiter(client, 2), uuid.Nil)
	assert.Equal(t, http.StatusOK, post(anon, "/recipes/1/edit/").Code)
}
