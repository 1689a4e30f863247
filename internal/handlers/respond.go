package handlers

import (
	"errors"
	"fmt"
	"log"

	"marketplace/internal/models"
	"marketplace/internal/policy"
	"marketplace/internal/repositories"
	"marketplace/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// fail maps a service/repository error onto the HTTP error taxonomy:
// invalid input 400, missing credential 401, insufficient rights 403,
// missing record 404, duplicates and state conflicts 409, everything
// else a generic 500 that leaks no internal detail.
func fail(c *fiber.Ctx, err error) error {
	var status int
	switch {
	case errors.Is(err, services.ErrInvalid):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		status = fiber.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, repositories.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, repositories.ErrDuplicate), errors.Is(err, repositories.ErrConflict):
		status = fiber.StatusConflict
	default:
		log.Printf("Internal error handling %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
	return c.Status(status).JSON(fiber.Map{"message": err.Error()})
}

// failValidation renders validator errors as a per-field message map.
func failValidation(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// actorFromCtx builds the policy actor from the claims the JWT middleware
// stored on the request context.
func actorFromCtx(c *fiber.Ctx) policy.Actor {
	id, _ := c.Locals("user_id").(string)
	role, _ := c.Locals("role").(string)
	return policy.Actor{ID: id, Role: models.Role(role)}
}
