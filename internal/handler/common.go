package handler

import (
	"errors"

	"go-stock-control/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// respondError maps the domain error taxonomy onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	var validationErr *model.ValidationError
	var stockErr *model.InsufficientStockError
	var transitionErr *model.IllegalTransitionError

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &stockErr), errors.As(err, &transitionErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case model.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}
