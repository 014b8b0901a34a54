package service

import (
	"context"
	"errors"
	"testing"

	"kuyou/internal/models"
	"kuyou/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB returns a gorm DB backed by sqlmock for transaction
// plumbing in workflow tests.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn       func(context.Context, *models.Post) error
	getByIDFn      func(context.Context, uint, uint) (*models.Post, error)
	listFn         func(context.Context, repository.PostFilter, uint) ([]*models.Post, int64, error)
	updateFn       func(context.Context, *models.Post) error
	deleteFn       func(context.Context, uint) error
	incrementFn    func(context.Context, uint) error
	decrementFn    func(context.Context, uint) error
	markResolvedFn func(context.Context, uint) error
	statsByUserFn  func(context.Context, uint) (*repository.PostStats, error)
}

func (s *postRepoStub) WithTx(_ *gorm.DB) repository.PostRepository { return s }
func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, viewerID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, viewerID)
}
func (s *postRepoStub) List(ctx context.Context, filter repository.PostFilter, viewerID uint) ([]*models.Post, int64, error) {
	return s.listFn(ctx, filter, viewerID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }
func (s *postRepoStub) IncrementSympathyCount(ctx context.Context, id uint) error {
	return s.incrementFn(ctx, id)
}
func (s *postRepoStub) DecrementSympathyCount(ctx context.Context, id uint) error {
	return s.decrementFn(ctx, id)
}
func (s *postRepoStub) MarkResolved(ctx context.Context, id uint) error {
	return s.markResolvedFn(ctx, id)
}
func (s *postRepoStub) StatsByUser(ctx context.Context, userID uint) (*repository.PostStats, error) {
	return s.statsByUserFn(ctx, userID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, post *models.Post) error {
			post.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 1, Status: models.PostStatusActive}, nil
		},
		listFn: func(_ context.Context, _ repository.PostFilter, _ uint) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		updateFn:       func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:       func(_ context.Context, _ uint) error { return nil },
		incrementFn:    func(_ context.Context, _ uint) error { return nil },
		decrementFn:    func(_ context.Context, _ uint) error { return nil },
		markResolvedFn: func(_ context.Context, _ uint) error { return nil },
		statsByUserFn: func(_ context.Context, _ uint) (*repository.PostStats, error) {
			return &repository.PostStats{}, nil
		},
	}
}

// replyRepoStub is a stub for repository.ReplyRepository.
type replyRepoStub struct {
	createFn      func(context.Context, *models.Reply) error
	getByIDFn     func(context.Context, uint) (*models.Reply, error)
	listByPostFn  func(context.Context, uint) ([]*models.Reply, error)
	markBestFn    func(context.Context, uint) error
	statsByUserFn func(context.Context, uint) (*repository.ReplyStats, error)
}

func (s *replyRepoStub) WithTx(_ *gorm.DB) repository.ReplyRepository { return s }
func (s *replyRepoStub) Create(ctx context.Context, reply *models.Reply) error {
	return s.createFn(ctx, reply)
}
func (s *replyRepoStub) GetByID(ctx context.Context, id uint) (*models.Reply, error) {
	return s.getByIDFn(ctx, id)
}
func (s *replyRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Reply, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *replyRepoStub) MarkBest(ctx context.Context, id uint) error { return s.markBestFn(ctx, id) }
func (s *replyRepoStub) StatsByUser(ctx context.Context, userID uint) (*repository.ReplyStats, error) {
	return s.statsByUserFn(ctx, userID)
}

func noopReplyRepo() *replyRepoStub {
	return &replyRepoStub{
		createFn: func(_ context.Context, reply *models.Reply) error {
			reply.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Reply, error) {
			return &models.Reply{ID: id, PostID: 1, UserID: 2}, nil
		},
		listByPostFn: func(_ context.Context, _ uint) ([]*models.Reply, error) { return nil, nil },
		markBestFn:   func(_ context.Context, _ uint) error { return nil },
		statsByUserFn: func(_ context.Context, _ uint) (*repository.ReplyStats, error) {
			return &repository.ReplyStats{}, nil
		},
	}
}

// sympathyRepoStub is a stub for repository.SympathyRepository.
type sympathyRepoStub struct {
	createFn        func(context.Context, *models.Sympathy) error
	deleteFn        func(context.Context, uint, uint) error
	existsFn        func(context.Context, uint, uint) (bool, error)
	countGivenFn    func(context.Context, uint) (int64, error)
	countReceivedFn func(context.Context, uint) (int64, error)
}

func (s *sympathyRepoStub) WithTx(_ *gorm.DB) repository.SympathyRepository { return s }
func (s *sympathyRepoStub) Create(ctx context.Context, sympathy *models.Sympathy) error {
	return s.createFn(ctx, sympathy)
}
func (s *sympathyRepoStub) Delete(ctx context.Context, userID, postID uint) error {
	return s.deleteFn(ctx, userID, postID)
}
func (s *sympathyRepoStub) Exists(ctx context.Context, userID, postID uint) (bool, error) {
	return s.existsFn(ctx, userID, postID)
}
func (s *sympathyRepoStub) CountGiven(ctx context.Context, userID uint) (int64, error) {
	return s.countGivenFn(ctx, userID)
}
func (s *sympathyRepoStub) CountReceived(ctx context.Context, userID uint) (int64, error) {
	return s.countReceivedFn(ctx, userID)
}

func noopSympathyRepo() *sympathyRepoStub {
	return &sympathyRepoStub{
		createFn:        func(_ context.Context, _ *models.Sympathy) error { return nil },
		deleteFn:        func(_ context.Context, _, _ uint) error { return nil },
		existsFn:        func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		countGivenFn:    func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		countReceivedFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	createFn     func(context.Context, *models.User) error
	updateFn     func(context.Context, *models.User) error
	rankingFn    func(context.Context, int) ([]models.User, error)
}

func (s *userRepoStub) WithTx(_ *gorm.DB) repository.UserRepository { return s }
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Ranking(ctx context.Context, limit int) ([]models.User, error) {
	return s.rankingFn(ctx, limit)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Email: "user@example.com"}, nil
		},
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:     func(_ context.Context, _ *models.User) error { return nil },
		updateFn:     func(_ context.Context, _ *models.User) error { return nil },
		rankingFn:    func(_ context.Context, _ int) ([]models.User, error) { return nil, nil },
	}
}

// expectAward queues the total_points increment sqlmock expects inside
// a workflow transaction.
func expectAward(mock sqlmock.Sqlmock, amount int, userID uint) {
	mock.ExpectExec(`UPDATE "users" SET "total_points"=total_points \+ \$1 WHERE id = \$2`).
		WithArgs(amount, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

// assertAppError asserts that err is an AppError with the given code.
func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
