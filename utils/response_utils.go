package utils

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RespondWithError sends a JSON error envelope.
func RespondWithError(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

// RespondWithJSON sends a JSON success envelope.
func RespondWithJSON(c *fiber.Ctx, statusCode int, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

// FormatValidationErrors flattens validator/v10 errors into messages.
func FormatValidationErrors(err error) []string {
	var messages []string
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			msg := fmt.Sprintf("field '%s' failed on the '%s' rule", fe.Field(), fe.Tag())
			if fe.Param() != "" {
				msg = fmt.Sprintf("%s (param: %s)", msg, fe.Param())
			}
			messages = append(messages, msg)
		}
	} else if err != nil {
		messages = append(messages, err.Error())
	}
	return messages
}
