package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/testhelpers"
	"github.com/pageza/recipebook/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-32"

func signup(email, phone string) *types.SignupRequest {
	return &types.SignupRequest{
		Email:     email,
		Name:      "Carol",
		Phone:     phone,
		Password:  "sufficiently-long",
		Password2: "sufficiently-long",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, testSecret)
	ctx := context.Background()

	user, err := svc.Register(ctx, signup(" Carol@Example.COM ", "+15551234"))
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", user.Email)
	require.NotNil(t, user.Phone)
	assert.NotEqual(t, "sufficiently-long", user.PasswordHash)

	byEmail, err := svc.Login(ctx, "CAROL@example.com", "sufficiently-long")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byPhone, err := svc.Login(ctx, "+15551234", "sufficiently-long")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byPhone.ID)

	_, err = svc.Login(ctx, "carol@example.com", "wrong-password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "sufficiently-long")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "", "sufficiently-long")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestRegisterRejectsTakenEmailAndPhone(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, testSecret)
	ctx := context.Background()

	_, err := svc.Register(ctx, signup("carol@example.com", "+15551234"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, signup("CAROL@example.com", "+15551234"))
	requireFieldErrors(t, err, "email", "phone")

	_, err = svc.Register(ctx, signup("other@example.com", ""))
	require.NoError(t, err)
	_, err = svc.Register(ctx, signup("third@example.com", ""))
	require.NoError(t, err, "blank phone numbers never collide")
}

func TestTokenRoundTrip(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, testSecret)
	admin := testhelpers.CreateUser(t, db, "Root", true)

	token, err := svc.GenerateToken(admin)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.UserID)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "Root", claims.Name)

	_, err = service.NewAuthService(db, "another-secret").ValidateToken(token)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
	_, err = svc.ValidateToken("garbage")
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	svc := service.NewAuthService(testhelpers.SetupTestDatabase(t), testSecret)
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		UserID: uuid.New(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestGetUserByID(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, testSecret)
	user := testhelpers.CreateUser(t, db, "Alice", false)

	got, err := svc.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)

	_, err = svc.GetUserByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}
