package testhelpers

import (
	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/types"
	"github.com/stretchr/testify/mock"
)

// MockTokenValidator is a mock implementation of the token validator used by the auth middleware
type MockTokenValidator struct {
	mock.Mock
}

func (m *MockTokenValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}

// MockNotifier records moderation notifications and signals each one on Sent.
type MockNotifier struct {
	mock.Mock
	Sent chan models.RecipeStatus
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{Sent: make(chan models.RecipeStatus, 8)}
}

func (m *MockNotifier) SendModerationResult(recipe *models.Recipe, owner *models.User) error {
	args := m.Called(recipe.ID, owner.Email)
	m.Sent <- recipe.Status
	return args.Error(0)
}
