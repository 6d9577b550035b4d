package handlers

import (
	"FoodBridge-Backend/domain"
	"FoodBridge-Backend/internal/api/presenters"
	"FoodBridge-Backend/pkg/insight"

	"github.com/gofiber/fiber/v2"
)

type (
	InsightHandler interface {
		GenerateInsights(c *fiber.Ctx) error
		GetInsights(c *fiber.Ctx) error
	}

	insightHandler struct {
		insightService insight.InsightService
	}
)

func NewInsightHandler(insightService insight.InsightService) InsightHandler {
	return &insightHandler{
		insightService: insightService,
	}
}

func (h *insightHandler) GenerateInsights(c *fiber.Ctx) error {
	insights, err := h.insightService.GenerateInsights(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGenerateInsights, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"insights": insights,
	}, fiber.StatusCreated, domain.MessageSuccessGenerateInsights)
}

func (h *insightHandler) GetInsights(c *fiber.Ctx) error {
	insights, err := h.insightService.GetInsights(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetInsights, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"insights": insights,
	}, fiber.StatusOK, domain.MessageSuccessGetInsights)
}
