package service

import (
	"context"

	"kuyou/internal/cache"
	"kuyou/internal/models"
	"kuyou/internal/repository"
	"kuyou/internal/validation"
)

type UserService struct {
	userRepo     repository.UserRepository
	postRepo     repository.PostRepository
	replyRepo    repository.ReplyRepository
	sympathyRepo repository.SympathyRepository
}

type UpdateProfileInput struct {
	UserID   uint
	Nickname string
	Email    string
}

// PointsHistory is a placeholder summary until per-award history rows
// are persisted.
type PointsHistory struct {
	CurrentPoints int `json:"current_points"`
}

func NewUserService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	replyRepo repository.ReplyRepository,
	sympathyRepo repository.SympathyRepository,
) *UserService {
	return &UserService{
		userRepo:     userRepo,
		postRepo:     postRepo,
		replyRepo:    replyRepo,
		sympathyRepo: sympathyRepo,
	}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// Profile returns the user together with an activity stats block.
func (s *UserService) Profile(ctx context.Context, userID uint) (*models.User, *models.ProfileStats, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	postStats, err := s.postRepo.StatsByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	replyStats, err := s.replyRepo.StatsByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	given, err := s.sympathyRepo.CountGiven(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	received, err := s.sympathyRepo.CountReceived(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	stats := &models.ProfileStats{
		TotalPosts:              postStats.Total,
		ActivePosts:             postStats.Active,
		ResolvedPosts:           postStats.Resolved,
		TotalReplies:            replyStats.Total,
		BestReplies:             replyStats.Best,
		TotalSympathiesGiven:    given,
		TotalSympathiesReceived: received,
	}
	return user, stats, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Nickname != "" {
		if err := validation.ValidateNickname(in.Nickname); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Nickname = in.Nickname
	}
	if in.Email != "" {
		if err := validation.ValidateEmail(in.Email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Email = in.Email
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Ranking returns the points leaderboard with masked emails.
func (s *UserService) Ranking(ctx context.Context, limit int) ([]models.RankingEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	var users []models.User
	err := cache.Aside(ctx, cache.RankingKey(limit), &users, cache.RankingTTL, func() error {
		var fetchErr error
		users, fetchErr = s.userRepo.Ranking(ctx, limit)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}

	entries := make([]models.RankingEntry, len(users))
	for i := range users {
		entries[i] = models.RankingEntry{
			Rank:        i + 1,
			ID:          users[i].ID,
			Nickname:    users[i].DisplayNickname(),
			Email:       models.MaskEmail(users[i].Email),
			TotalPoints: users[i].TotalPoints,
		}
	}
	return entries, nil
}

// GetPointsHistory reports the user's current balance. Individual award
// rows are not persisted yet.
func (s *UserService) GetPointsHistory(ctx context.Context, userID uint) (*PointsHistory, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &PointsHistory{CurrentPoints: user.TotalPoints}, nil
}
