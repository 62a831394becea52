package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AccessRequired lets requests through when no access password is set.
// Otherwise a valid session cookie or bearer token is required.
func (handler *Handler) AccessRequired(c *fiber.Ctx) error {
	enabled, err := handler.access.Enabled(c.UserContext())
	if err != nil {
		return serviceError(c, err, "failed to check access")
	}
	if !enabled {
		return c.Next()
	}

	token := bearerToken(c)
	if token == "" {
		token = strings.TrimSpace(c.Cookies(sessionCookieName))
	}
	if err := handler.access.VerifyToken(token); err != nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.Next()
}
