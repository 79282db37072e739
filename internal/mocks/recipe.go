package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/types"
	"github.com/stretchr/testify/mock"
)

var _ service.IRecipeService = (*MockRecipeService)(nil)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) CreateRecipe(ctx context.Context, ownerID uuid.UUID, sub service.RecipeSubmission) (*models.Recipe, error) {
	args := m.Called(ctx, ownerID, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) UpdateRecipe(ctx context.Context, ownerID, recipeID uuid.UUID, sub service.RecipeSubmission) (*models.Recipe, error) {
	args := m.Called(ctx, ownerID, recipeID, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) GetEditableRecipe(ctx context.Context, ownerID, recipeID uuid.UUID) (*models.Recipe, error) {
	args := m.Called(ctx, ownerID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) GetRecipeDetail(ctx context.Context, recipeID uuid.UUID, viewer *service.Viewer) (*types.RecipeDetail, error) {
	args := m.Called(ctx, recipeID, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeDetail), args.Error(1)
}

func (m *MockRecipeService) ListPublished(ctx context.Context, filter types.RecipeFilter) (*types.RecipeList, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeList), args.Error(1)
}

func (m *MockRecipeService) ListGenres(ctx context.Context) ([]models.Genre, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Genre), args.Error(1)
}

func (m *MockRecipeService) DeleteRecipe(ctx context.Context, viewer service.Viewer, recipeID uuid.UUID) error {
	args := m.Called(ctx, viewer, recipeID)
	return args.Error(0)
}
