package service

import (
	"context"

	"kuyou/internal/cache"
	"kuyou/internal/middleware"
	"kuyou/internal/models"
	"kuyou/internal/nickname"
	"kuyou/internal/observability"
	"kuyou/internal/points"
	"kuyou/internal/repository"
	"kuyou/internal/validation"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

const maxPostContentLength = 1000

type PostService struct {
	db        *gorm.DB
	postRepo  repository.PostRepository
	ledger    *points.Ledger
	names     *nickname.Generator
	validator *validation.ContentValidator
}

type CreatePostInput struct {
	UserID   uint
	Content  string
	Category string
}

type ListPostsInput struct {
	Category string
	Status   string
	Sort     string
	Page     int
	PerPage  int
	ViewerID uint
}

type UpdatePostInput struct {
	UserID   uint
	PostID   uint
	Content  string
	Category string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

// postListPage is the cacheable unit of a post listing.
type postListPage struct {
	Posts []*models.Post `json:"posts"`
	Total int64          `json:"total"`
}

func NewPostService(
	db *gorm.DB,
	postRepo repository.PostRepository,
	ledger *points.Ledger,
	names *nickname.Generator,
) *PostService {
	return &PostService{
		db:        db,
		postRepo:  postRepo,
		ledger:    ledger,
		names:     names,
		validator: validation.NewContentValidator(maxPostContentLength),
	}
}

// CreatePost validates the confession, persists it under a throwaway
// nickname, and credits the author. The insert and the point award
// commit or roll back together.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, int, error) {
	span, ctx := observability.NewSpan(ctx, "post.create")
	defer span.End()

	if !models.ValidCategory(in.Category) {
		return nil, 0, models.NewValidationError("Invalid category")
	}
	if err := s.validator.Validate(in.Content); err != nil {
		return nil, 0, models.NewValidationError(err.Error())
	}

	post := &models.Post{
		UserID:   in.UserID,
		Nickname: s.names.Generate(),
		Content:  in.Content,
		Category: in.Category,
		Status:   models.PostStatusActive,
	}

	var earned int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.postRepo.WithTx(tx).Create(ctx, post); err != nil {
			return err
		}
		var awardErr error
		earned, awardErr = s.ledger.Award(ctx, tx, in.UserID, points.PostCreated)
		return awardErr
	})
	if err != nil {
		span.SetError(err)
		return nil, 0, err
	}

	middleware.PointsAwarded.WithLabelValues(string(points.PostCreated)).Add(float64(earned))
	span.AddAttributes(attribute.Int("post.id", int(post.ID)))
	cache.InvalidatePostsList(ctx)

	// The re-read only decorates the committed post with its counters.
	// If it fails, the write still succeeded, so return the in-memory
	// post rather than reporting the whole mutation as failed.
	created, err := s.postRepo.GetByID(ctx, post.ID, in.UserID)
	if err != nil {
		return post, earned, nil
	}
	return created, earned, nil
}

// ListPosts returns a page of posts plus pagination meta. Anonymous
// listings are served cache-aside; authenticated viewers always hit the
// database because has_sympathized is viewer-dependent.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, *models.PaginationMeta, error) {
	if in.Category != "" && !models.ValidCategory(in.Category) {
		return nil, nil, models.NewValidationError("Invalid category")
	}

	filter := repository.PostFilter{
		Category: in.Category,
		Status:   in.Status,
		Sort:     in.Sort,
		Page:     in.Page,
		PerPage:  in.PerPage,
	}
	if filter.Status == "" {
		filter.Status = string(models.PostStatusActive)
	}
	if filter.Status == "all" {
		filter.Status = ""
	}
	if filter.Sort == "" {
		filter.Sort = "recent"
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 10
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	var page postListPage
	if in.ViewerID == 0 {
		key := cache.PostsListKey(filter.Category, filter.Status, filter.Sort, filter.Page, filter.PerPage)
		err := cache.Aside(ctx, key, &page, cache.ListTTL, func() error {
			var fetchErr error
			page.Posts, page.Total, fetchErr = s.postRepo.List(ctx, filter, 0)
			return fetchErr
		})
		if err != nil {
			return nil, nil, err
		}
	} else {
		var err error
		page.Posts, page.Total, err = s.postRepo.List(ctx, filter, in.ViewerID)
		if err != nil {
			return nil, nil, err
		}
	}

	meta := models.NewPaginationMeta(filter.Page, filter.PerPage, page.Total)
	return page.Posts, meta, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, viewerID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}

	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}

	if in.Content != "" {
		if err := s.validator.Validate(in.Content); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		post.Content = in.Content
	}
	if in.Category != "" {
		if !models.ValidCategory(in.Category) {
			return nil, models.NewValidationError("Invalid category")
		}
		post.Category = in.Category
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	cache.InvalidatePost(ctx, post.ID)
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return err
	}

	if post.UserID != in.UserID {
		return models.NewForbiddenError("You can only delete your own posts")
	}

	if err := s.postRepo.Delete(ctx, in.PostID); err != nil {
		return err
	}
	cache.InvalidatePost(ctx, in.PostID)
	return nil
}
