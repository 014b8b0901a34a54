package server

import (
	"kuyou/internal/models"
	"kuyou/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReply handles POST /api/posts/:id/replies
func (s *Server) CreateReply(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reply, earned, err := s.replyService.CreateReply(c.UserContext(), service.CreateReplyInput{
		PostID:  postID,
		UserID:  userID,
		Content: req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"reply":         models.NewReplyResponse(reply, userID),
		"points_earned": earned,
	})
}

// GetReplies handles GET /api/posts/:id/replies
func (s *Server) GetReplies(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	replies, err := s.replyService.ListReplies(c.UserContext(), postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"replies": models.NewReplyResponses(replies, userID),
	})
}

// SelectBestReply handles POST /api/posts/:id/replies/:replyId/best
func (s *Server) SelectBestReply(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	replyID, err := s.parseID(c, "replyId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	result, err := s.replyService.SelectBestReply(c.UserContext(), service.SelectBestReplyInput{
		PostID:  postID,
		ReplyID: replyID,
		UserID:  userID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":      "Best answer selected",
		"post_points":  result.PostPoints,
		"reply_points": result.ReplyPoints,
	})
}
