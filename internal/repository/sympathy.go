package repository

import (
	"context"

	"kuyou/internal/models"

	"gorm.io/gorm"
)

// SympathyRepository defines the interface for sympathy data operations
type SympathyRepository interface {
	WithTx(tx *gorm.DB) SympathyRepository
	Create(ctx context.Context, sympathy *models.Sympathy) error
	Delete(ctx context.Context, userID, postID uint) error
	Exists(ctx context.Context, userID, postID uint) (bool, error)
	CountGiven(ctx context.Context, userID uint) (int64, error)
	CountReceived(ctx context.Context, userID uint) (int64, error)
}

type sympathyRepository struct {
	db *gorm.DB
}

// NewSympathyRepository creates a new sympathy repository
func NewSympathyRepository(db *gorm.DB) SympathyRepository {
	return &sympathyRepository{db: db}
}

func (r *sympathyRepository) WithTx(tx *gorm.DB) SympathyRepository {
	return &sympathyRepository{db: tx}
}

// Create inserts a sympathy. The (user_id, post_id) unique index is the
// arbiter under concurrency: the losing insert comes back as a conflict.
func (r *sympathyRepository) Create(ctx context.Context, sympathy *models.Sympathy) error {
	if err := r.db.WithContext(ctx).Create(sympathy).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Already sympathized with this post")
		}
		return err
	}
	return nil
}

func (r *sympathyRepository) Delete(ctx context.Context, userID, postID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Sympathy{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Sympathy", postID)
	}
	return nil
}

func (r *sympathyRepository) Exists(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Sympathy{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *sympathyRepository) CountGiven(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Sympathy{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountReceived counts sympathies on all of the user's posts.
func (r *sympathyRepository) CountReceived(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Sympathy{}).
		Joins("JOIN posts ON posts.id = sympathies.post_id").
		Where("posts.user_id = ?", userID).
		Count(&count).Error
	return count, err
}
