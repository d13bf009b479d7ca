package handler

import (
	"time"

	"go-stock-control/internal/model"
	"go-stock-control/internal/repository"
	"go-stock-control/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type StockHandler struct {
	service service.StockService
}

func NewStockHandler(s service.StockService) *StockHandler {
	return &StockHandler{service: s}
}

type movementRequest struct {
	ProductID   uuid.UUID `json:"product_id"`
	Quantity    int       `json:"quantity"`
	Description string    `json:"description"`
}

func (h *StockHandler) GetStock(c *fiber.Ctx) error {
	records, err := h.service.ListStock()
	if err != nil {
		return respondError(c, err)
	}

	// Expose the derived available quantity alongside the raw counters.
	type stockView struct {
		model.StockRecord
		Available int `json:"available"`
	}
	views := make([]stockView, 0, len(records))
	for _, record := range records {
		views = append(views, stockView{StockRecord: record, Available: record.Available()})
	}
	return c.JSON(views)
}

func (h *StockHandler) GetProductStock(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("productId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	record, err := h.service.GetStock(productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"stock":     record,
		"available": record.Available(),
	})
}

func (h *StockHandler) RecordIngress(c *fiber.Ctx) error {
	var req movementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	record, err := h.service.RecordIngress(req.ProductID, req.Quantity, req.Description)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Ingress recorded", "stock": record})
}

func (h *StockHandler) RecordEgress(c *fiber.Ctx) error {
	var req movementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	record, err := h.service.RecordEgress(req.ProductID, req.Quantity, req.Description)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Egress recorded", "stock": record})
}

func (h *StockHandler) GetLedger(c *fiber.Ctx) error {
	filter := repository.LedgerFilter{}

	if kind := c.Query("kind"); kind != "" {
		k := model.MovementKind(kind)
		if k != model.MovementIngress && k != model.MovementEgress {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "kind must be INGRESS or EGRESS"})
		}
		filter.Kind = k
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "from must be YYYY-MM-DD"})
		}
		filter.FromDate = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "to must be YYYY-MM-DD"})
		}
		end := t.Add(24*time.Hour - time.Second)
		filter.ToDate = &end
	}

	entries, err := h.service.ListLedger(filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}
