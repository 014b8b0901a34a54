// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"kuyou/internal/cache"
	"kuyou/internal/models"

	"gorm.io/gorm"
)

// PostFilter narrows and pages a post listing.
type PostFilter struct {
	Category string
	Status   string
	Sort     string
	Page     int
	PerPage  int
}

// PostStats aggregates a user's posting activity.
type PostStats struct {
	Total    int64
	Active   int64
	Resolved int64
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	WithTx(tx *gorm.DB) PostRepository
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error)
	List(ctx context.Context, filter PostFilter, viewerID uint) ([]*models.Post, int64, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	IncrementSympathyCount(ctx context.Context, id uint) error
	DecrementSympathyCount(ctx context.Context, id uint) error
	MarkResolved(ctx context.Context, id uint) error
	StatsByUser(ctx context.Context, userID uint) (*PostStats, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) WithTx(tx *gorm.DB) PostRepository {
	return &postRepository{db: tx}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	var post models.Post

	var err error
	if viewerID == 0 {
		err = cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
			return r.applyPostDetails(r.db.WithContext(ctx), 0).First(&post, id).Error
		})
	} else {
		err = r.applyPostDetails(r.db.WithContext(ctx), viewerID).First(&post, id).Error
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter, viewerID uint) ([]*models.Post, int64, error) {
	// Fresh query per finisher; reusing a statement after Count corrupts it.
	filtered := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Post{})
		if filter.Status != "" && filter.Status != "all" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.Category != "" {
			q = q.Where("category = ?", filter.Category)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*models.Post
	err := r.applySort(r.applyPostDetails(filtered(), viewerID), filter.Sort).
		Limit(filter.PerPage).
		Offset((filter.Page - 1) * filter.PerPage).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// applySort appends the ORDER BY clause for the requested sort type.
func (r *postRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "popular":
		return db.Order("sympathy_count DESC, created_at DESC, id DESC")
	default: // "recent" and anything unrecognized
		return db.Order("created_at DESC, id DESC")
	}
}

// applyPostDetails adds subqueries to fetch the reply count and the viewer's
// sympathy status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM replies WHERE replies.post_id = posts.id AND replies.deleted_at IS NULL) as reply_count"

	if viewerID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM sympathies WHERE sympathies.post_id = posts.id AND sympathies.user_id = ?) as sympathized", viewerID)
	}

	return db.Select(selectQuery + ", false as sympathized")
}

// Mutations never touch the cache themselves. They often run on a
// WithTx-scoped repository, where an invalidation before commit lets a
// racing read re-fill the cache with pre-commit state. The services
// invalidate after their transaction returns.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Post{}, id).Error
}

func (r *postRepository) IncrementSympathyCount(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("sympathy_count", gorm.Expr("sympathy_count + 1")).Error
}

func (r *postRepository) DecrementSympathyCount(ctx context.Context, id uint) error {
	// Guarded so the counter never goes below zero.
	return r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND sympathy_count > 0", id).
		UpdateColumn("sympathy_count", gorm.Expr("sympathy_count - 1")).Error
}

// MarkResolved transitions an active post to resolved. The status guard in
// the WHERE clause makes the transition race-safe: of two concurrent
// attempts, exactly one sees RowsAffected == 1.
func (r *postRepository) MarkResolved(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND status = ?", id, models.PostStatusActive).
		Update("status", models.PostStatusResolved)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.NewConflictError("Post is already resolved")
	}
	return nil
}

func (r *postRepository) StatsByUser(ctx context.Context, userID uint) (*PostStats, error) {
	stats := &PostStats{}
	base := r.db.WithContext(ctx).Model(&models.Post{}).Where("user_id = ?", userID)

	if err := base.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("status = ?", models.PostStatusActive).Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("status = ?", models.PostStatusResolved).Count(&stats.Resolved).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
