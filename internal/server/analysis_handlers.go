package server

import (
	"cadence/internal/models"
	"cadence/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// UpsertAnalysis handles PUT /api/posts/:id/analysis. The same request body
// serves both the first write and any later overwrite; omitted readability
// and keywords leave the stored values untouched.
func (s *Server) UpsertAnalysis(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Sentiment   float64  `json:"sentiment"`
		Engagement  float64  `json:"engagement"`
		Suggestions string   `json:"suggestions"`
		Readability *float64 `json:"readability"`
		Keywords    *string  `json:"keywords"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	analysis, created, err := s.analysisService.Upsert(c.Context(), repository.UpsertAnalysisInput{
		PostID:      id,
		Sentiment:   req.Sentiment,
		Engagement:  req.Engagement,
		Suggestions: req.Suggestions,
		Readability: req.Readability,
		Keywords:    req.Keywords,
	})
	if err != nil {
		return respondError(c, err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(analysis)
}

// GetAnalysis handles GET /api/posts/:id/analysis
func (s *Server) GetAnalysis(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	analysis, err := s.analysisService.GetByPostID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(analysis)
}

// GetAuditLog handles GET /api/audit?entity_type=...&entity_id=...
func (s *Server) GetAuditLog(c *fiber.Ctx) error {
	entityType := c.Query("entity_type")
	entityID := c.QueryInt("entity_id", 0)
	if entityID < 0 {
		entityID = 0
	}

	entries, err := s.auditRepo.List(c.Context(), entityType, uint(entityID))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}
