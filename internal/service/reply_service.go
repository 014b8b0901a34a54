package service

import (
	"context"

	"kuyou/internal/cache"
	"kuyou/internal/middleware"
	"kuyou/internal/models"
	"kuyou/internal/observability"
	"kuyou/internal/points"
	"kuyou/internal/repository"
	"kuyou/internal/validation"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

const maxReplyContentLength = 500

type ReplyService struct {
	db        *gorm.DB
	replyRepo repository.ReplyRepository
	postRepo  repository.PostRepository
	ledger    *points.Ledger
	validator *validation.ContentValidator
}

type CreateReplyInput struct {
	PostID  uint
	UserID  uint
	Content string
}

type SelectBestReplyInput struct {
	PostID  uint
	ReplyID uint
	UserID  uint
}

// SelectBestReplyResult carries the per-recipient point awards of a
// resolution.
type SelectBestReplyResult struct {
	PostPoints  int
	ReplyPoints int
}

func NewReplyService(
	db *gorm.DB,
	replyRepo repository.ReplyRepository,
	postRepo repository.PostRepository,
	ledger *points.Ledger,
) *ReplyService {
	return &ReplyService{
		db:        db,
		replyRepo: replyRepo,
		postRepo:  postRepo,
		ledger:    ledger,
		validator: validation.NewContentValidator(maxReplyContentLength),
	}
}

// CreateReply adds a reply to an active post and credits the author.
// Resolved posts reject new replies.
func (s *ReplyService) CreateReply(ctx context.Context, in CreateReplyInput) (*models.Reply, int, error) {
	span, ctx := observability.NewSpan(ctx, "reply.create")
	defer span.End()

	post, err := s.postRepo.GetByID(ctx, in.PostID, 0)
	if err != nil {
		return nil, 0, err
	}
	if post.Status != models.PostStatusActive {
		return nil, 0, models.NewConflictError("Post is already resolved")
	}
	if err := s.validator.Validate(in.Content); err != nil {
		return nil, 0, models.NewValidationError(err.Error())
	}

	reply := &models.Reply{
		PostID:  in.PostID,
		UserID:  in.UserID,
		Content: in.Content,
	}

	var earned int
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.replyRepo.WithTx(tx).Create(ctx, reply); err != nil {
			return err
		}
		var awardErr error
		earned, awardErr = s.ledger.Award(ctx, tx, in.UserID, points.ReplyCreated)
		return awardErr
	})
	if err != nil {
		span.SetError(err)
		return nil, 0, err
	}

	middleware.PointsAwarded.WithLabelValues(string(points.ReplyCreated)).Add(float64(earned))
	span.AddAttributes(attribute.Int("reply.id", int(reply.ID)))
	// The cached post carries reply_count.
	cache.InvalidatePost(ctx, in.PostID)
	return reply, earned, nil
}

// ListReplies returns a post's replies, best answer first.
func (s *ReplyService) ListReplies(ctx context.Context, postID uint) ([]*models.Reply, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}
	return s.replyRepo.ListByPost(ctx, postID)
}

// SelectBestReply resolves a post: marks the reply best, flips the post
// to resolved, and credits both the selecting author and the replier.
// The status transition is terminal; a concurrent selection loses with
// a conflict. Preconditions are re-checked inside the transaction by
// the guarded status update, so only one caller can win the race.
func (s *ReplyService) SelectBestReply(ctx context.Context, in SelectBestReplyInput) (*SelectBestReplyResult, error) {
	span, ctx := observability.NewSpan(ctx, "reply.select_best")
	defer span.End()

	post, err := s.postRepo.GetByID(ctx, in.PostID, 0)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("Only the post author can select a best answer")
	}
	if post.Status != models.PostStatusActive {
		return nil, models.NewConflictError("Post is already resolved")
	}

	reply, err := s.replyRepo.GetByID(ctx, in.ReplyID)
	if err != nil {
		return nil, err
	}
	if reply.PostID != post.ID {
		return nil, models.NewConflictError("Reply does not belong to this post")
	}

	result := &SelectBestReplyResult{}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.postRepo.WithTx(tx).MarkResolved(ctx, post.ID); err != nil {
			return err
		}
		if err := s.replyRepo.WithTx(tx).MarkBest(ctx, reply.ID); err != nil {
			return err
		}
		var awardErr error
		result.PostPoints, awardErr = s.ledger.Award(ctx, tx, post.UserID, points.BestAnswerSelected)
		if awardErr != nil {
			return awardErr
		}
		result.ReplyPoints, awardErr = s.ledger.Award(ctx, tx, reply.UserID, points.BestAnswerReceived)
		return awardErr
	})
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	middleware.PostsResolved.Inc()
	middleware.PointsAwarded.WithLabelValues(string(points.BestAnswerSelected)).Add(float64(result.PostPoints))
	middleware.PointsAwarded.WithLabelValues(string(points.BestAnswerReceived)).Add(float64(result.ReplyPoints))
	cache.InvalidatePost(ctx, post.ID)
	span.AddAttributes(
		attribute.Int("post.id", int(post.ID)),
		attribute.Int("reply.id", int(reply.ID)),
	)
	return result, nil
}
