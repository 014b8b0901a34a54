package repository

import (
	"context"
	"errors"
	"time"

	"kuyou/internal/models"

	"gorm.io/gorm"
)

// ReplyStats aggregates a user's answering activity.
type ReplyStats struct {
	Total int64
	Best  int64
}

// ReplyRepository defines the interface for reply data operations
type ReplyRepository interface {
	WithTx(tx *gorm.DB) ReplyRepository
	Create(ctx context.Context, reply *models.Reply) error
	GetByID(ctx context.Context, id uint) (*models.Reply, error)
	ListByPost(ctx context.Context, postID uint) ([]*models.Reply, error)
	MarkBest(ctx context.Context, id uint) error
	StatsByUser(ctx context.Context, userID uint) (*ReplyStats, error)
}

type replyRepository struct {
	db *gorm.DB
}

// NewReplyRepository creates a new reply repository
func NewReplyRepository(db *gorm.DB) ReplyRepository {
	return &replyRepository{db: db}
}

func (r *replyRepository) WithTx(tx *gorm.DB) ReplyRepository {
	return &replyRepository{db: tx}
}

// Create inserts a reply by selecting through its parent row. Keeping
// the status check and the insert in one statement makes the check
// race-safe: a resolution committing after the caller's read leaves no
// active row to select from, so the insert affects zero rows instead of
// attaching a reply to a resolved post.
func (r *replyRepository) Create(ctx context.Context, reply *models.Reply) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Raw(
		`INSERT INTO replies (created_at, updated_at, post_id, user_id, content, is_best)
		 SELECT ?, ?, ?, ?, ?, ? FROM posts
		 WHERE id = ? AND status = ? AND deleted_at IS NULL
		 RETURNING id`,
		now, now, reply.PostID, reply.UserID, reply.Content, reply.IsBest,
		reply.PostID, models.PostStatusActive,
	).Scan(&reply.ID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.NewConflictError("Post is already resolved")
	}
	reply.CreatedAt = now
	reply.UpdatedAt = now
	return nil
}

func (r *replyRepository) GetByID(ctx context.Context, id uint) (*models.Reply, error) {
	var reply models.Reply
	if err := r.db.WithContext(ctx).First(&reply, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Reply", id)
		}
		return nil, err
	}
	return &reply, nil
}

func (r *replyRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Reply, error) {
	var replies []*models.Reply
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("is_best DESC, created_at ASC").
		Find(&replies).Error
	return replies, err
}

func (r *replyRepository) MarkBest(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.Reply{}).
		Where("id = ?", id).
		Update("is_best", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Reply", id)
	}
	return nil
}

func (r *replyRepository) StatsByUser(ctx context.Context, userID uint) (*ReplyStats, error) {
	stats := &ReplyStats{}
	base := r.db.WithContext(ctx).Model(&models.Reply{}).Where("user_id = ?", userID)

	if err := base.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("is_best = ?", true).Count(&stats.Best).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
