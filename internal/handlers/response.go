package handlers

import (
	"errors"
	"fmt"

	"github.com/atakamran/liftlegends-sub000/internal/backend"
	"github.com/atakamran/liftlegends-sub000/internal/models"
	"github.com/atakamran/liftlegends-sub000/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func fail(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
		"code":    code,
	})
}

// respondError renders the tagged failure for a service error. Anything it
// does not recognize goes to the app's ErrorHandler as a 500.
func respondError(c *fiber.Ctx, err error) error {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   verr.Error(),
			"code":    "validation_error",
			"fields":  verr.Fields,
		})
	case errors.Is(err, services.ErrNotAuthenticated):
		return fail(c, fiber.StatusUnauthorized, "not_authenticated", "Not authenticated")
	case errors.Is(err, services.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, services.ErrParse):
		return fail(c, fiber.StatusBadRequest, "parse_error", err.Error())
	case errors.Is(err, backend.ErrEmailTaken):
		return fail(c, fiber.StatusConflict, "conflict", "Email already exists")
	case errors.Is(err, backend.ErrInvalidCredentials):
		return fail(c, fiber.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
	case errors.Is(err, services.ErrWrite):
		return fail(c, fiber.StatusBadGateway, "write_error", err.Error())
	case errors.Is(err, services.ErrFeatureLocked):
		return fail(c, fiber.StatusForbidden, "feature_locked", err.Error())
	default:
		return fmt.Errorf("%s %s: %w", c.Method(), c.Path(), err)
	}
}

// ErrorHandler is the fiber ErrorHandler for the whole app. It keeps the
// response envelope for routing errors and logs unexpected failures.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code := "error"
			switch fiberErr.Code {
			case fiber.StatusNotFound:
				code = "not_found"
			case fiber.StatusMethodNotAllowed:
				code = "method_not_allowed"
			case fiber.StatusRequestEntityTooLarge:
				code = "too_large"
			}
			return fail(c, fiberErr.Code, code, fiberErr.Message)
		}

		logger.Error("unhandled request error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "internal_error", "Internal server error")
	}
}
