package handlers

import (
	"catalog/internal/apperrors"

	"github.com/gofiber/fiber/v2"
)

// respondError renders a service error with its mapped status code.
func respondError(c *fiber.Ctx, err error) error {
	return c.Status(apperrors.HTTPStatus(err)).JSON(fiber.Map{
		"message": apperrors.Message(err),
		"error":   apperrors.KindOf(err).String(),
	})
}

func respondInvalidBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}
