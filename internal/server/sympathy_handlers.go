package server

import (
	"github.com/gofiber/fiber/v2"
)

// GiveSympathy handles POST /api/posts/:id/sympathies
func (s *Server) GiveSympathy(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	count, earned, err := s.sympathyService.GiveSympathy(c.UserContext(), postID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"sympathy_count": count,
		"points_earned":  earned,
	})
}

// RemoveSympathy handles DELETE /api/posts/:id/sympathies
func (s *Server) RemoveSympathy(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	count, err := s.sympathyService.RemoveSympathy(c.UserContext(), postID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"sympathy_count": count,
		"message":        "Sympathy removed",
	})
}
