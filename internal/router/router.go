package router

import (
	"github.com/gin-gonic/gin"
	"github.com/pageza/recipebook/backend/config"
	"github.com/pageza/recipebook/backend/internal/api"
	"github.com/pageza/recipebook/backend/internal/middleware"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Dependencies are the external resources the handlers are built on.
// Redis and Notifier are optional.
type Dependencies struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Media    service.MediaStore
	Notifier service.ModerationNotifier
}

// SetupRouter configures the application routes
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(), middleware.RequestLogger(), middleware.CORS(cfg.CORSOrigins))

	authService := service.NewAuthService(deps.DB, cfg.JWTSecret)
	recipeService := service.NewRecipeService(deps.DB, deps.Media)
	profileService := service.NewProfileService(authService, recipeService, deps.Media)

	router.GET("/health", api.NewHealthHandler(deps.DB).HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	root := router.Group("/")
	api.NewAuthHandler(authService, cfg.CookieSecure).RegisterRoutes(root)
	api.NewProfileHandler(profileService, authService).RegisterRoutes(root)
	api.NewRecipeHandler(
		recipeService,
		service.NewReviewService(deps.DB),
		service.NewIngredientCatalog(deps.DB),
		authService,
		middleware.NewRecipeCreationRateLimiter(deps.Redis, cfg.RecipeCreationLimit),
		middleware.NewRecipeModificationRateLimiter(deps.Redis, cfg.RecipeModificationLimit),
	).RegisterRoutes(root)
	api.NewFavoriteHandler(service.NewFavoriteService(deps.DB), authService).RegisterRoutes(root)
	api.NewModerationHandler(service.NewModerationService(deps.DB, deps.Notifier), authService, deps.DB).RegisterRoutes(root)

	return router
}
