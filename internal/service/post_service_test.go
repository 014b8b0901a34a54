package service

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"kuyou/internal/models"
	"kuyou/internal/nickname"
	"kuyou/internal/points"
	"kuyou/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNames() *nickname.Generator {
	return nickname.NewWithSource(rand.NewSource(1))
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	db, _ := setupMockDB(t)
	svc := NewPostService(db, noopPostRepo(), points.NewLedger(), testNames())
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreatePostInput
	}{
		{
			name:  "empty content",
			input: CreatePostInput{UserID: 1, Content: "   ", Category: "love"},
		},
		{
			name:  "invalid category",
			input: CreatePostInput{UserID: 1, Content: "ちゃんとした長さの悩みです", Category: "banana"},
		},
		{
			name:  "content too long",
			input: CreatePostInput{UserID: 1, Content: strings.Repeat("懺", 1001), Category: "love"},
		},
		{
			name:  "banned word",
			input: CreatePostInput{UserID: 1, Content: "あいつはバカだと思う", Category: "work"},
		},
		{
			name:  "spam",
			input: CreatePostInput{UserID: 1, Content: "今すぐクリック https://example.com で儲かる", Category: "other"},
		},
		{
			name:  "personal info",
			input: CreatePostInput{UserID: 1, Content: "連絡先は 090-1234-5678 までお願いします", Category: "love"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.CreatePost(ctx, tc.input)
			assertAppError(t, err, "VALIDATION_ERROR")
		})
	}
}

func TestPostService_CreatePost_AwardsPoints(t *testing.T) {
	db, mock := setupMockDB(t)

	repo := noopPostRepo()
	var created *models.Post
	repo.createFn = func(_ context.Context, post *models.Post) error {
		post.ID = 42
		created = post
		return nil
	}
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return created, nil
	}

	mock.ExpectBegin()
	expectAward(mock, 10, 7)
	mock.ExpectCommit()

	svc := NewPostService(db, repo, points.NewLedger(), testNames())
	post, earned, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:   7,
		Content:  "今日も人前で盛大に転んでしまいました",
		Category: "school",
	})
	require.NoError(t, err)
	assert.Equal(t, 10, earned)
	assert.Equal(t, uint(42), post.ID)
	assert.Equal(t, models.PostStatusActive, post.Status)
	assert.NotEmpty(t, post.Nickname)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostService_CreatePost_SurvivesRereadFailure(t *testing.T) {
	db, mock := setupMockDB(t)

	repo := noopPostRepo()
	repo.createFn = func(_ context.Context, post *models.Post) error {
		post.ID = 42
		return nil
	}
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return nil, models.NewInternalError(context.DeadlineExceeded)
	}

	mock.ExpectBegin()
	expectAward(mock, 10, 7)
	mock.ExpectCommit()

	// The insert and the award committed; a failed decoration re-read
	// must not turn the succeeded mutation into an error.
	svc := NewPostService(db, repo, points.NewLedger(), testNames())
	post, earned, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:   7,
		Content:  "今日も人前で盛大に転んでしまいました",
		Category: "school",
	})
	require.NoError(t, err)
	assert.Equal(t, 10, earned)
	assert.Equal(t, uint(42), post.ID)
	assert.Equal(t, 0, post.SympathyCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostService_CreatePost_RollsBackOnAwardFailure(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "total_points"=total_points \+ \$1 WHERE id = \$2`).
		WithArgs(10, 7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	svc := NewPostService(db, noopPostRepo(), points.NewLedger(), testNames())
	_, _, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:   7,
		Content:  "今日も人前で盛大に転んでしまいました",
		Category: "school",
	})
	assertAppError(t, err, "NOT_FOUND")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostService_ListPosts_Defaults(t *testing.T) {
	db, _ := setupMockDB(t)

	repo := noopPostRepo()
	var gotFilter repository.PostFilter
	repo.listFn = func(_ context.Context, filter repository.PostFilter, _ uint) ([]*models.Post, int64, error) {
		gotFilter = filter
		return []*models.Post{{ID: 1}}, 23, nil
	}

	svc := NewPostService(db, repo, points.NewLedger(), testNames())
	posts, meta, err := svc.ListPosts(context.Background(), ListPostsInput{ViewerID: 5})
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	assert.Equal(t, "active", gotFilter.Status)
	assert.Equal(t, "recent", gotFilter.Sort)
	assert.Equal(t, 1, gotFilter.Page)
	assert.Equal(t, 10, gotFilter.PerPage)

	assert.Equal(t, 1, meta.CurrentPage)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, int64(23), meta.TotalCount)
	assert.Equal(t, 10, meta.PerPage)
}

func TestPostService_ListPosts_CapsPerPage(t *testing.T) {
	db, _ := setupMockDB(t)

	repo := noopPostRepo()
	var gotFilter repository.PostFilter
	repo.listFn = func(_ context.Context, filter repository.PostFilter, _ uint) ([]*models.Post, int64, error) {
		gotFilter = filter
		return nil, 0, nil
	}

	svc := NewPostService(db, repo, points.NewLedger(), testNames())
	_, _, err := svc.ListPosts(context.Background(), ListPostsInput{PerPage: 500, Status: "all", ViewerID: 5})
	require.NoError(t, err)
	assert.Equal(t, 100, gotFilter.PerPage)
	assert.Equal(t, "", gotFilter.Status, "status=all should clear the filter")
}

func TestPostService_ListPosts_InvalidCategory(t *testing.T) {
	db, _ := setupMockDB(t)
	svc := NewPostService(db, noopPostRepo(), points.NewLedger(), testNames())
	_, _, err := svc.ListPosts(context.Background(), ListPostsInput{Category: "banana"})
	assertAppError(t, err, "VALIDATION_ERROR")
}

func TestPostService_UpdatePost_Ownership(t *testing.T) {
	db, _ := setupMockDB(t)

	t.Run("non-owner cannot update", func(t *testing.T) {
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
			return &models.Post{ID: 1, UserID: 10, Status: models.PostStatusActive}, nil
		}
		svc := NewPostService(db, repo, points.NewLedger(), testNames())
		_, err := svc.UpdatePost(context.Background(), UpdatePostInput{UserID: 1, PostID: 1, Content: "書き直した悩みの内容です"})
		assertAppError(t, err, "FORBIDDEN")
	})

	t.Run("owner can update content", func(t *testing.T) {
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
			return &models.Post{ID: 1, UserID: 1, Content: "前の内容", Status: models.PostStatusActive}, nil
		}
		svc := NewPostService(db, repo, points.NewLedger(), testNames())
		post, err := svc.UpdatePost(context.Background(), UpdatePostInput{UserID: 1, PostID: 1, Content: "書き直した悩みの内容です"})
		require.NoError(t, err)
		assert.Equal(t, "書き直した悩みの内容です", post.Content)
	})

	t.Run("owner update still validates content", func(t *testing.T) {
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
			return &models.Post{ID: 1, UserID: 1, Status: models.PostStatusActive}, nil
		}
		svc := NewPostService(db, repo, points.NewLedger(), testNames())
		_, err := svc.UpdatePost(context.Background(), UpdatePostInput{UserID: 1, PostID: 1, Content: "あいつはアホだ"})
		assertAppError(t, err, "VALIDATION_ERROR")
	})
}

func TestPostService_DeletePost_Ownership(t *testing.T) {
	db, _ := setupMockDB(t)

	t.Run("owner can delete", func(t *testing.T) {
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
			return &models.Post{ID: 1, UserID: 1}, nil
		}
		svc := NewPostService(db, repo, points.NewLedger(), testNames())
		assert.NoError(t, svc.DeletePost(context.Background(), DeletePostInput{UserID: 1, PostID: 1}))
	})

	t.Run("non-owner cannot delete", func(t *testing.T) {
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
			return &models.Post{ID: 1, UserID: 10}, nil
		}
		svc := NewPostService(db, repo, points.NewLedger(), testNames())
		err := svc.DeletePost(context.Background(), DeletePostInput{UserID: 1, PostID: 1})
		assertAppError(t, err, "FORBIDDEN")
	})
}
