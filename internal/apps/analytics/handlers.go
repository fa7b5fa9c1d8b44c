package analytics

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/seatswap/seatswap-backend/internal/dto"
	"github.com/seatswap/seatswap-backend/internal/middleware"
)

type AnalyticsHandler struct {
	service *AnalyticsService
}

func NewAnalyticsHandler(service *AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

func (h *AnalyticsHandler) Overview(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	overview, err := h.service.Overview(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to compute analytics",
		})
	}

	return c.JSON(overview)
}

func (h *AnalyticsHandler) PriceTrends(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	months, _ := strconv.Atoi(c.Query("months", "6"))

	trends, err := h.service.PriceTrends(userID, months)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to compute price trends",
		})
	}

	return c.JSON(fiber.Map{"trends": trends})
}

func (h *AnalyticsHandler) Marketplace(c *fiber.Ctx) error {
	stats, err := h.service.Marketplace()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to compute marketplace stats",
		})
	}

	return c.JSON(stats)
}
