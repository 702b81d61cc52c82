package utils

import (
	apperrors "bidmart/internal/errors"

	"github.com/gofiber/fiber/v2"
)

// Respond sends a JSON response with the specified status code.
func Respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// Success sends a successful JSON response.
func Success(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusOK, data)
}

// Created sends a JSON response with status 201.
func Created(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusCreated, data)
}

// BadRequest sends a JSON error response with status 400.
func BadRequest(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusBadRequest, fiber.Map{"error": message, "code": apperrors.ErrValidation.Code})
}

// Unauthorized sends a JSON error response with status 401.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusUnauthorized, fiber.Map{"error": message, "code": apperrors.ErrUnauthorized.Code})
}

// Forbidden sends a JSON error response with status 403.
func Forbidden(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusForbidden, fiber.Map{"error": message, "code": apperrors.ErrForbidden.Code})
}

// Error maps err onto its HTTP status. Internal failures get a generic
// message so storage details never reach clients.
func Error(c *fiber.Ctx, err error) error {
	status := apperrors.StatusOf(err)
	if status >= fiber.StatusInternalServerError {
		return Respond(c, status, fiber.Map{"error": "internal server error", "code": apperrors.ErrInternal.Code})
	}
	return Respond(c, status, fiber.Map{"error": err.Error(), "code": apperrors.CodeOf(err)})
}
