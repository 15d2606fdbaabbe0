package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// fail writes the error envelope every endpoint uses.
func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// validationMessage flattens validator errors into a single message.
func validationMessage(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return "Validation failed"
	}
	e := validationErrors[0]
	return fmt.Sprintf("Field '%s' failed on the '%s' rule", e.Field(), e.Tag())
}
