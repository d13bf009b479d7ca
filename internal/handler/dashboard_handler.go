package handler

import (
	"go-stock-control/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.GetStats()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	rangeParam := c.Query("range", "7d")

	var days int
	switch rangeParam {
	case "7d":
		days = 7
	case "1m":
		days = 30
	case "3m":
		days = 90
	default:
		days = 7
	}

	movement, err := h.service.GetStockMovement(days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(movement)
}
