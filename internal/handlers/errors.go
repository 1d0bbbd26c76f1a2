package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"tienda/internal/services"
)

// respondError maps domain errors to status codes: validation and bad
// quantities to 400, absent entities and lines to 404, code collisions to
// 409, anything else (store failures included) to 500.
func respondError(c *fiber.Ctx, err error) error {
	var validation *services.ValidationError
	var notFound *services.NotFoundError
	var duplicate *services.DuplicateCodeError

	status := fiber.StatusInternalServerError
	switch {
	case errors.As(err, &validation):
		status = fiber.StatusBadRequest
	case errors.As(err, &notFound):
		status = fiber.StatusNotFound
	case errors.As(err, &duplicate):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidQuantity):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrLineItemNotFound):
		status = fiber.StatusNotFound
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
