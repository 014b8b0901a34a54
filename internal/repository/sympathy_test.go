package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"kuyou/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestSympathyRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSympathyRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "sympathies"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, &models.Sympathy{UserID: 2, PostID: 5})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSympathyRepository_Create_Duplicate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSympathyRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "sympathies"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err := repo.Create(ctx, &models.Sympathy{UserID: 2, PostID: 5})
	assert.Error(t, err)
	var appErr *models.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSympathyRepository_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSympathyRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "sympathies" WHERE user_id = $1 AND post_id = $2`)).
		WithArgs(2, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.Delete(ctx, 2, 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSympathyRepository_Delete_Missing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSympathyRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "sympathies" WHERE user_id = $1 AND post_id = $2`)).
		WithArgs(2, 5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(ctx, 2, 5)
	assert.Error(t, err)
	var appErr *models.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSympathyRepository_Exists(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSympathyRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "sympathies" WHERE user_id = $1 AND post_id = $2`)).
		WithArgs(2, 5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.Exists(ctx, 2, 5)
	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSympathyRepository_CountReceived(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSympathyRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "sympathies" JOIN posts ON posts.id = sympathies.post_id WHERE posts.user_id = $1`)).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountReceived(ctx, 2)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
