package server

import (
	"kuyou/internal/models"
	"kuyou/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/profile
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	user, stats, err := s.userService.Profile(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":  models.NewUserResponse(user),
		"stats": stats,
	})
}

// UpdateMyProfile handles PUT /api/profile
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Nickname string `json:"nickname"`
		Email    string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:   userID,
		Nickname: req.Nickname,
		Email:    req.Email,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user": models.NewUserResponse(user),
	})
}

// GetUser handles GET /api/users/:id
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user": models.NewUserResponse(user),
	})
}

// GetRanking handles GET /api/users/ranking
func (s *Server) GetRanking(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)

	entries, err := s.userService.Ranking(c.UserContext(), limit)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"ranking": entries,
	})
}

// GetPointsHistory handles GET /api/points/history
func (s *Server) GetPointsHistory(c *fiber.Ctx) error {
	userID := currentUserID(c)

	history, err := s.userService.GetPointsHistory(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"points": history,
	})
}
