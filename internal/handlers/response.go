package handlers

import (
	"github.com/gofiber/fiber/v3"
)

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// jsonMissingFields returns the 400 shape for absent required fields.
func jsonMissingFields(c fiber.Ctx, required []string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":    "Missing required fields",
		"required": required,
	})
}
