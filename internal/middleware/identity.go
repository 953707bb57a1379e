package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/verdantpress/blogapi/internal/logger"
)

// IdentityHeader carries the authenticated principal's email, set by the
// session layer in front of this service. The pipeline treats it as an
// opaque key and never authenticates it itself.
const IdentityHeader = "X-User-Email"

// identityKey is the locals key the extracted email is stored under.
const identityKey = "authorEmail"

// RequireIdentity rejects requests that arrive without a principal.
func RequireIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := strings.TrimSpace(c.Get(IdentityHeader))
		if email == "" {
			logger.Get().Warn().
				Str("method", c.Method()).
				Str("path", c.Path()).
				Str("ip", c.IP()).
				Msg("request without identity header")

			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized: missing identity",
			})
		}

		c.Locals(identityKey, email)
		return c.Next()
	}
}

// Identity returns the principal's email extracted by RequireIdentity,
// or "" when the route did not require one.
func Identity(c *fiber.Ctx) string {
	if email, ok := c.Locals(identityKey).(string); ok {
		return email
	}
	return ""
}

// AdminOnly is a middleware that checks if the request is from an admin
func AdminOnly(adminKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get API key from header
		apiKey := c.Get("X-API-Key")
		if apiKey == "" {
			logger.Get().Warn().
				Str("method", c.Method()).
				Str("path", c.Path()).
				Str("ip", c.IP()).
				Msg("Admin access attempt without API key")

			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "API key is required",
			})
		}

		// Check if the API key matches the admin key
		if apiKey != adminKey {
			logger.Get().Warn().
				Str("method", c.Method()).
				Str("path", c.Path()).
				Str("ip", c.IP()).
				Msg("Unauthorized admin access attempt")

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
			})
		}

		return c.Next()
	}
}
