package serverutils

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"vytalcare-rag-be/internal/apperror"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation and folds failures into the
// ValidationError class so the error middleware can map them to 400.
func ValidateRequest(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return apperror.Validation("%s", err.Error())
	}
	return nil
}

// ErrorHandlerMiddleware maps escaped errors to HTTP responses. Only
// validation errors become 400; anything else is a 500, which the chat
// path never produces because its stages absorb their own failures.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if apperror.IsValidation(err) {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		if fe, ok := err.(*fiber.Error); ok {
			return ctx.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}
