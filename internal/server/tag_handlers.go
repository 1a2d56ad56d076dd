package server

import (
	"cadence/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateTag handles POST /api/tags
func (s *Server) CreateTag(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tag, err := s.tagService.CreateTag(c.Context(), req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}

// GetTags handles GET /api/tags
func (s *Server) GetTags(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	tags, err := s.tagService.ListTags(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tags)
}

// DeleteTag handles DELETE /api/tags/:id
func (s *Server) DeleteTag(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.tagService.DeleteTag(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetPostTags handles GET /api/posts/:id/tags
func (s *Server) GetPostTags(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	tags, err := s.tagService.ListTagsForPost(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tags)
}

// AttachTag handles POST /api/posts/:id/tags. The body may carry either an
// existing tag id or a tag name, which is resolved (and created) first.
func (s *Server) AttachTag(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		TagID uint   `json:"tag_id"`
		Name  string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tagID := req.TagID
	if tagID == 0 {
		tag, err := s.tagService.GetOrCreateTag(c.Context(), req.Name)
		if err != nil {
			return respondError(c, err)
		}
		tagID = tag.ID
	}

	if err := s.tagService.AttachTag(c.Context(), postID, tagID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DetachTag handles DELETE /api/posts/:id/tags/:tagId
func (s *Server) DetachTag(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	tagID, err := s.parseID(c, "tagId")
	if err != nil {
		return nil
	}

	if err := s.tagService.DetachTag(c.Context(), postID, tagID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
