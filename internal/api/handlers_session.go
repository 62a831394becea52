package api

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/arnowelzel/periodical/internal/services"
	"github.com/gofiber/fiber/v2"
)

type sessionInput struct {
	Password string `json:"password" form:"password"`
}

func (handler *Handler) SessionStatus(c *fiber.Ctx) error {
	enabled, err := handler.access.Enabled(c.UserContext())
	if err != nil {
		return serviceError(c, err, "failed to check access")
	}

	authenticated := !enabled
	if enabled {
		token := bearerToken(c)
		if token == "" {
			token = strings.TrimSpace(c.Cookies(sessionCookieName))
		}
		authenticated = handler.access.VerifyToken(token) == nil
	}
	return c.JSON(fiber.Map{
		"guard_enabled": enabled,
		"authenticated": authenticated,
	})
}

func (handler *Handler) CreateSession(c *fiber.Ctx) error {
	client := loginClientKey(c)
	if blocked, retryAfter := handler.logins.blocked(client); blocked {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	input := sessionInput{}
	if err := c.BodyParser(&input); err != nil {
		handler.logins.fail(client)
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	token, expiresAt, err := handler.access.Login(c.UserContext(), input.Password)
	if errors.Is(err, services.ErrAccessDenied) {
		handler.logins.fail(client)
		return apiError(c, fiber.StatusUnauthorized, "invalid password")
	}
	if err != nil {
		return serviceError(c, err, "failed to create session")
	}
	handler.logins.clear(client)

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  expiresAt,
	})
	return c.JSON(fiber.Map{
		"ok":         true,
		"token":      token,
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
	})
}

func (handler *Handler) DeleteSession(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	return c.JSON(fiber.Map{"ok": true})
}
