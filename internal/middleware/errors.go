package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/verdantpress/blogapi/internal/blob"
	"github.com/verdantpress/blogapi/internal/directory"
	"github.com/verdantpress/blogapi/internal/lifecycle"
	"github.com/verdantpress/blogapi/internal/logger"
	"github.com/verdantpress/blogapi/internal/publish"
	"github.com/verdantpress/blogapi/internal/store"
)

// ErrorHandler maps pipeline errors to HTTP responses in one place so
// handlers can simply return them.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	body := fiber.Map{"error": err.Error()}

	switch {
	case isValidation(err, body):
		status = fiber.StatusBadRequest
	case errors.Is(err, directory.ErrAuthorNotFound),
		errors.Is(err, store.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, publish.ErrNotOwner):
		status = fiber.StatusForbidden
	case errors.Is(err, blob.ErrPayloadTooLarge):
		status = fiber.StatusRequestEntityTooLarge
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		status = fiber.StatusBadRequest
	case errors.Is(err, publish.ErrImageUploadFailed),
		errors.Is(err, blob.ErrStorageUnavailable):
		status = fiber.StatusBadGateway
	case errors.Is(err, publish.ErrPersistence):
		status = fiber.StatusInternalServerError
	default:
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}
	}

	if status >= fiber.StatusInternalServerError {
		logger.Get().Error().
			Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Msg("HTTP error")
	}

	return c.Status(status).JSON(body)
}

// isValidation extracts the per-field violations of a ValidationError
// into the response body.
func isValidation(err error, body fiber.Map) bool {
	ve, ok := publish.AsValidationError(err)
	if !ok {
		return false
	}
	body["error"] = "Validation failed"
	body["fields"] = ve.Fields
	return true
}
