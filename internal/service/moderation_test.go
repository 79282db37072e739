package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func waitForNotification(t *testing.T, n *testhelpers.MockNotifier) models.RecipeStatus {
	t.Helper()
	select {
	case st := <-n.Sent:
		return st
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not sent")
		return ""
	}
}

func TestApprovePublishesPendingRecipe(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	owner := testhelpers.CreateUser(t, db, "Alice", false)
	recipe := testhelpers.CreateRecipe(t, db, owner, "Soup", models.StatusPending)

	notifier := testhelpers.NewMockNotifier()
	notifier.On("SendModerationResult", recipe.ID, owner.Email).Return(nil)
	svc := service.NewModerationService(db, notifier)

	approved, err := svc.Approve(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, approved.Status)
	assert.Nil(t, approved.ModerationNotes)

	assert.Equal(t, models.StatusPublished, waitForNotification(t, notifier))
	notifier.AssertExpectations(t)
	assert.Equal(t, models.StatusPublished, testhelpers.ReloadRecipe(t, db, recipe.ID).Status)
}

func TestApproveIgnoresRecipesNotPending(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	owner := testhelpers.CreateUser(t, db, "Alice", false)
	svc := service.NewModerationService(db, nil)

	for _, status := range []models.RecipeStatus{models.StatusDraft, models.StatusPublished, models.StatusRejected} {
		t.Run(string(status), func(t *testing.T) {
			recipe := testhelpers.CreateRecipe(t, db, owner, "Soup "+string(status), status)

			got, err := svc.Approve(context.Background(), recipe.ID)
			assert.ErrorIs(t, err, service.ErrNotPending)
			require.NotNil(t, got)
			assert.Equal(t, status, got.Status)
			assert.Equal(t, status, testhelpers.ReloadRecipe(t, db, recipe.ID).Status)
		})
	}
}

func TestRejectStoresNotes(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	owner := testhelpers.CreateUser(t, db, "Alice", false)
	recipe := testhelpers.CreateRecipe(t, db, owner, "Soup", models.StatusPending)

	notifier := testhelpers.NewMockNotifier()
	notifier.On("SendModerationResult", mock.Anything, mock.Anything).Return(nil)
	svc := service.NewModerationService(db, notifier)

	rejected, err := svc.Reject(context.Background(), recipe.ID, "  Too salty  ")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	require.NotNil(t, rejected.ModerationNotes)
	assert.Equal(t, "Too salty", *rejected.ModerationNotes)
	assert.Equal(t, models.StatusRejected, waitForNotification(t, notifier))
}

func TestRejectWithoutNotesThenApproveIsNoOp(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	owner := testhelpers.CreateUser(t, db, "Alice", false)
	recipe := testhelpers.CreateRecipe(t, db, owner, "Soup", models.StatusPending)
	svc := service.NewModerationService(db, nil)

	rejected, err := svc.Reject(context.Background(), recipe.ID, "")
	require.NoError(t, err)
	require.NotNil(t, rejected.ModerationNotes)
	assert.Equal(t, service.DefaultRejectionNote, *rejected.ModerationNotes)

	_, err = svc.Approve(context.Background(), recipe.ID)
	assert.ErrorIs(t, err, service.ErrNotPending)

	stored := testhelpers.ReloadRecipe(t, db, recipe.ID)
	assert.Equal(t, models.StatusRejected, stored.Status)
	require.NotNil(t, stored.ModerationNotes)
	assert.Equal(t, service.DefaultRejectionNote, *stored.ModerationNotes)
}

func TestModerationUnknownRecipe(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewModerationService(db, nil)

	_, err := svc.Approve(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
	_, err = svc.Reject(context.Background(), uuid.New(), "no")
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
}

func TestNotifierFailureDoesNotUndoDecision(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	owner := testhelpers.CreateUser(t, db, "Alice", false)
	recipe := testhelpers.CreateRecipe(t, db, owner, "Soup", models.StatusPending)

	notifier := testhelpers.NewMockNotifier()
	notifier.On("SendModerationResult", mock.Anything, mock.Anything).Return(assert.AnError)
	svc := service.NewModerationService(db, notifier)

	_, err := svc.Approve(context.Background(), recipe.ID)
	require.NoError(t, err)
	waitForNotification(t, notifier)
	assert.Equal(t, models.StatusPublished, testhelpers.ReloadRecipe(t, db, recipe.ID).Status)
}

func TestListPendingAndStatusCounts(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	owner := testhelpers.CreateUser(t, db, "Alice", false)
	testhelpers.CreateRecipe(t, db, owner, "First", models.StatusPending)
	testhelpers.CreateRecipe(t, db, owner, "Second", models.StatusPending)
	testhelpers.CreateRecipe(t, db, owner, "Live", models.StatusPublished)
	svc := service.NewModerationService(db, nil)

	pending, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 2)
	for _, r := range pending {
		assert.Equal(t, models.StatusPending, r.Status)
		require.NotNil(t, r.User)
		assert.Equal(t, owner.ID, r.User.ID)
	}

	counts, err := svc.StatusCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[models.RecipeStatus]int64{
		models.StatusDraft:     0,
		models.StatusPending:   2,
		models.StatusPublished: 1,
		models.StatusRejected:  0,
	}, counts)
}
