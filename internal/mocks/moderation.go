package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/stretchr/testify/mock"
)

var _ service.IModerationService = (*MockModerationService)(nil)

// MockModerationService is a mock implementation of the moderation service
type MockModerationService struct {
	mock.Mock
}

func (m *MockModerationService) Approve(ctx context.Context, recipeID uuid.UUID) (*models.Recipe, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockModerationService) Reject(ctx context.Context, recipeID uuid.UUID, notes string) (*models.Recipe, error) {
	args := m.Called(ctx, recipeID, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockModerationService) ListPending(ctx context.Context) ([]models.Recipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockModerationService) StatusCounts(ctx context.Context) (map[models.RecipeStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.RecipeStatus]int64), args.Error(1)
}
