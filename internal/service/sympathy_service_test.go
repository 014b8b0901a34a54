package service

import (
	"context"
	"testing"

	"kuyou/internal/models"
	"kuyou/internal/points"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSympathyService_GiveSympathy_AwardsOwner(t *testing.T) {
	db, mock := setupMockDB(t)

	calls := 0
	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		calls++
		count := 0
		if calls > 1 { // re-read after the commit sees the incremented counter
			count = 1
		}
		return &models.Post{ID: id, UserID: 9, SympathyCount: count, Status: models.PostStatusActive}, nil
	}

	mock.ExpectBegin()
	expectAward(mock, 1, 9) // credited to the post owner, not the giver
	mock.ExpectCommit()

	svc := NewSympathyService(db, noopSympathyRepo(), postRepo, points.NewLedger())
	count, earned, err := svc.GiveSympathy(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, earned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSympathyService_GiveSympathy_DuplicateConflicts(t *testing.T) {
	db, mock := setupMockDB(t)

	sympathyRepo := noopSympathyRepo()
	sympathyRepo.createFn = func(_ context.Context, _ *models.Sympathy) error {
		return models.NewConflictError("Already sympathized with this post")
	}

	mock.ExpectBegin()
	mock.ExpectRollback()

	svc := NewSympathyService(db, sympathyRepo, noopPostRepo(), points.NewLedger())
	_, _, err := svc.GiveSympathy(context.Background(), 1, 5)
	assertAppError(t, err, "CONFLICT")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSympathyService_RemoveSympathy_NoClawback(t *testing.T) {
	db, mock := setupMockDB(t)

	// Begin/Commit only: no points UPDATE may run on removal.
	mock.ExpectBegin()
	mock.ExpectCommit()

	svc := NewSympathyService(db, noopSympathyRepo(), noopPostRepo(), points.NewLedger())
	count, err := svc.RemoveSympathy(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSympathyService_RemoveSympathy_MissingSympathy(t *testing.T) {
	db, mock := setupMockDB(t)

	sympathyRepo := noopSympathyRepo()
	sympathyRepo.deleteFn = func(_ context.Context, userID, postID uint) error {
		return models.NewNotFoundError("Sympathy", postID)
	}

	mock.ExpectBegin()
	mock.ExpectRollback()

	svc := NewSympathyService(db, sympathyRepo, noopPostRepo(), points.NewLedger())
	_, err := svc.RemoveSympathy(context.Background(), 1, 5)
	assertAppError(t, err, "NOT_FOUND")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSympathyService_GiveSympathy_UnknownPost(t *testing.T) {
	db, _ := setupMockDB(t)

	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}

	svc := NewSympathyService(db, noopSympathyRepo(), postRepo, points.NewLedger())
	_, _, err := svc.GiveSympathy(context.Background(), 404, 5)
	assertAppError(t, err, "NOT_FOUND")
}
