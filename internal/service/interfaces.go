package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.SignupRequest) (*models.User, error)
	Login(ctx context.Context, login, password string) (*models.User, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetOwnProfile(ctx context.Context, userID uuid.UUID) (*types.OwnProfile, error)
	GetPublicProfile(ctx context.Context, userID uuid.UUID) (*types.PublicProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, upd ProfileUpdate) (*models.User, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, ownerID uuid.UUID, sub RecipeSubmission) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, ownerID, recipeID uuid.UUID, sub RecipeSubmission) (*models.Recipe, error)
	GetEditableRecipe(ctx context.Context, ownerID, recipeID uuid.UUID) (*models.Recipe, error)
	GetRecipeDetail(ctx context.Context, recipeID uuid.UUID, viewer *Viewer) (*types.RecipeDetail, error)
	ListPublished(ctx context.Context, filter types.RecipeFilter) (*types.RecipeList, error)
	ListGenres(ctx context.Context) ([]models.Genre, error)
	DeleteRecipe(ctx context.Context, viewer Viewer, recipeID uuid.UUID) error
}

// IModerationService defines the interface for admin moderation
type IModerationService interface {
	Approve(ctx context.Context, recipeID uuid.UUID) (*models.Recipe, error)
	Reject(ctx context.Context, recipeID uuid.UUID, notes string) (*models.Recipe, error)
	ListPending(ctx context.Context) ([]models.Recipe, error)
	StatusCounts(ctx context.Context) (map[models.RecipeStatus]int64, error)
}

// IFavoriteService defines the interface for favorites
type IFavoriteService interface {
	Toggle(ctx context.Context, viewer Viewer, recipeID uuid.UUID) (*types.FavoriteToggle, error)
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error)
}

// IReviewService defines the interface for reviews
type IReviewService interface {
	AddReview(ctx context.Context, userID, recipeID uuid.UUID, rating int, comment string) (*models.Review, error)
}

// ICatalogService defines the interface for the ingredient catalog
type ICatalogService interface {
	Resolve(ctx context.Context, name string) (*models.Ingredient, error)
	Suggest(ctx context.Context, prefix string, limit int) ([]models.Ingredient, error)
}

var (
	_ IAuthService       = (*AuthService)(nil)
	_ IRecipeService     = (*RecipeService)(nil)
	_ IModerationService = (*ModerationService)(nil)
	_ IFavoriteService   = (*FavoriteService)(nil)
	_ IReviewService     = (*ReviewService)(nil)
	_ ICatalogService    = (*IngredientCatalog)(nil)

	_ ModerationNotifier = (*EmailService)(nil)
	_ MediaStore         = (*S3MediaStore)(nil)
)
