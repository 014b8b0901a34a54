package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"kuyou/internal/models"
	"kuyou/internal/nickname"
	"kuyou/internal/points"
	"kuyou/internal/repository"
	"kuyou/internal/service"

	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	NumUsers     int
	NumPosts     int
	ShouldClean  bool
	ResolveRatio float64 // fraction of posts that get a best answer
}

// Seeder populates the database with demo data. Posts, replies,
// sympathies and resolutions all go through the service layer so point
// totals stay consistent with what the application would produce.
type Seeder struct {
	db         *gorm.DB
	factory    *Factory
	rng        *rand.Rand
	users      repository.UserRepository
	posts      *service.PostService
	replies    *service.ReplyService
	sympathies *service.SympathyService
}

// NewSeeder creates a Seeder bound to the given database.
func NewSeeder(db *gorm.DB) (*Seeder, error) {
	src := rand.NewSource(time.Now().UnixNano())
	return NewSeederWithSource(db, src)
}

// NewSeederWithSource creates a Seeder with a caller-provided random
// source for reproducible runs.
func NewSeederWithSource(db *gorm.DB, src rand.Source) (*Seeder, error) {
	factory, err := NewFactory(src)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	replyRepo := repository.NewReplyRepository(db)
	sympathyRepo := repository.NewSympathyRepository(db)
	ledger := points.NewLedger()

	return &Seeder{
		db:         db,
		factory:    factory,
		rng:        rand.New(src),
		users:      userRepo,
		posts:      service.NewPostService(db, postRepo, ledger, nickname.New()),
		replies:    service.NewReplyService(db, replyRepo, postRepo, ledger),
		sympathies: service.NewSympathyService(db, sympathyRepo, postRepo, ledger),
	}, nil
}

// ClearAll removes all seeded data. Deletion order respects foreign keys.
func (s *Seeder) ClearAll() error {
	log.Println("🧹 Clearing existing data...")
	for _, model := range []interface{}{
		&models.Sympathy{}, &models.Reply{}, &models.Post{}, &models.User{},
	} {
		if err := s.db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// Run executes a full seeding pass.
func (s *Seeder) Run(ctx context.Context, opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users, err := s.SeedUsers(ctx, opts.NumUsers)
	if err != nil {
		return err
	}

	posts, err := s.SeedConfessions(ctx, users, opts.NumPosts)
	if err != nil {
		return err
	}

	if err := s.SeedEngagement(ctx, users, posts); err != nil {
		return err
	}

	return s.ResolveSome(ctx, posts, opts.ResolveRatio)
}

// SeedUsers creates n users.
func (s *Seeder) SeedUsers(ctx context.Context, n int) ([]*models.User, error) {
	log.Printf("👤 Creating %d users...", n)
	users := make([]*models.User, 0, n)
	for i := range n {
		user := s.factory.User(i)
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create user %d: %w", i, err)
		}
		users = append(users, user)
	}
	return users, nil
}

// SeedConfessions creates n posts from random users.
func (s *Seeder) SeedConfessions(ctx context.Context, users []*models.User, n int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to post as")
	}

	log.Printf("📝 Creating %d posts...", n)
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.rng.Intn(len(users))]
		category := s.factory.Category()

		post, _, err := s.posts.CreatePost(ctx, service.CreatePostInput{
			UserID:   author.ID,
			Content:  s.factory.Confession(category),
			Category: category,
		})
		if err != nil {
			return nil, fmt.Errorf("create post %d: %w", i, err)
		}

		// Spread posts over the past month.
		backdated := s.factory.Backdate(30)
		if err := s.db.Model(&models.Post{}).Where("id = ?", post.ID).
			Update("created_at", backdated).Error; err != nil {
			return nil, fmt.Errorf("backdate post %d: %w", post.ID, err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// SeedEngagement adds sympathies and replies to posts. Each post gets a
// random subset of users sympathizing and up to three replies.
func (s *Seeder) SeedEngagement(ctx context.Context, users []*models.User, posts []*models.Post) error {
	log.Printf("💛 Adding sympathies and replies to %d posts...", len(posts))
	for _, post := range posts {
		for _, user := range users {
			if user.ID == post.UserID || s.rng.Intn(4) != 0 {
				continue
			}
			if _, _, err := s.sympathies.GiveSympathy(ctx, post.ID, user.ID); err != nil {
				return fmt.Errorf("sympathize post %d: %w", post.ID, err)
			}
		}

		replyCount := s.rng.Intn(4)
		for i := 0; i < replyCount; i++ {
			replier := users[s.rng.Intn(len(users))]
			if replier.ID == post.UserID {
				continue
			}
			if _, _, err := s.replies.CreateReply(ctx, service.CreateReplyInput{
				PostID:  post.ID,
				UserID:  replier.ID,
				Content: s.factory.Reply(),
			}); err != nil {
				return fmt.Errorf("reply to post %d: %w", post.ID, err)
			}
		}
	}
	return nil
}

// ResolveSome selects a best answer on roughly ratio of the posts that
// have at least one reply.
func (s *Seeder) ResolveSome(ctx context.Context, posts []*models.Post, ratio float64) error {
	if ratio <= 0 {
		ratio = 0.3
	}

	resolved := 0
	for _, post := range posts {
		if s.rng.Float64() >= ratio {
			continue
		}

		var replies []models.Reply
		if err := s.db.Where("post_id = ?", post.ID).Find(&replies).Error; err != nil {
			return fmt.Errorf("load replies for post %d: %w", post.ID, err)
		}
		if len(replies) == 0 {
			continue
		}

		best := replies[s.rng.Intn(len(replies))]
		if _, err := s.replies.SelectBestReply(ctx, service.SelectBestReplyInput{
			PostID:  post.ID,
			ReplyID: best.ID,
			UserID:  post.UserID,
		}); err != nil {
			return fmt.Errorf("resolve post %d: %w", post.ID, err)
		}
		resolved++
	}

	log.Printf("✅ Resolved %d posts with a best answer.", resolved)
	return nil
}
