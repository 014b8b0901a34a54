package service

import (
	"context"

	"kuyou/internal/cache"
	"kuyou/internal/middleware"
	"kuyou/internal/models"
	"kuyou/internal/observability"
	"kuyou/internal/points"
	"kuyou/internal/repository"

	"gorm.io/gorm"
)

type SympathyService struct {
	db           *gorm.DB
	sympathyRepo repository.SympathyRepository
	postRepo     repository.PostRepository
	ledger       *points.Ledger
}

func NewSympathyService(
	db *gorm.DB,
	sympathyRepo repository.SympathyRepository,
	postRepo repository.PostRepository,
	ledger *points.Ledger,
) *SympathyService {
	return &SympathyService{
		db:           db,
		sympathyRepo: sympathyRepo,
		postRepo:     postRepo,
		ledger:       ledger,
	}
}

// GiveSympathy records one sympathy per user per post and credits the
// post's owner, not the giver. A duplicate loses against the unique
// index and surfaces as a conflict. Returns the post's new sympathy
// count and the points credited to the owner.
func (s *SympathyService) GiveSympathy(ctx context.Context, postID, userID uint) (int, int, error) {
	span, ctx := observability.NewSpan(ctx, "sympathy.give")
	defer span.End()

	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return 0, 0, err
	}

	var earned int
	err = s.db.Transaction(func(tx *gorm.DB) error {
		sympathy := &models.Sympathy{UserID: userID, PostID: postID}
		if err := s.sympathyRepo.WithTx(tx).Create(ctx, sympathy); err != nil {
			return err
		}
		if err := s.postRepo.WithTx(tx).IncrementSympathyCount(ctx, postID); err != nil {
			return err
		}
		var awardErr error
		earned, awardErr = s.ledger.Award(ctx, tx, post.UserID, points.SympathyReceived)
		return awardErr
	})
	if err != nil {
		span.SetError(err)
		return 0, 0, err
	}

	middleware.PointsAwarded.WithLabelValues(string(points.SympathyReceived)).Add(float64(earned))
	cache.InvalidatePost(ctx, postID)

	count, err := s.currentCount(ctx, postID, userID)
	if err != nil {
		return 0, 0, err
	}
	return count, earned, nil
}

// RemoveSympathy withdraws a previously given sympathy. The owner's
// earlier point award is not clawed back.
func (s *SympathyService) RemoveSympathy(ctx context.Context, postID, userID uint) (int, error) {
	span, ctx := observability.NewSpan(ctx, "sympathy.remove")
	defer span.End()

	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return 0, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.sympathyRepo.WithTx(tx).Delete(ctx, userID, postID); err != nil {
			return err
		}
		return s.postRepo.WithTx(tx).DecrementSympathyCount(ctx, postID)
	})
	if err != nil {
		span.SetError(err)
		return 0, err
	}
	cache.InvalidatePost(ctx, postID)

	return s.currentCount(ctx, postID, userID)
}

// currentCount re-reads the post with a non-zero viewer so the lookup
// bypasses the anonymous cache and reflects the committed counter.
func (s *SympathyService) currentCount(ctx context.Context, postID, viewerID uint) (int, error) {
	post, err := s.postRepo.GetByID(ctx, postID, viewerID)
	if err != nil {
		return 0, err
	}
	return post.SympathyCount, nil
}
