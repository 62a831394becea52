package api

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/arnowelzel/periodical/internal/services"
	"github.com/gofiber/fiber/v2"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// serviceError maps service failures onto HTTP statuses. Validation problems
// are the caller's fault; storage problems are logged and hidden.
func serviceError(c *fiber.Ctx, err error, fallback string) error {
	var validationErr *services.ConfigValidationError
	switch {
	case errors.As(err, &validationErr):
		return apiError(c, fiber.StatusBadRequest, validationErr.Error())
	case errors.Is(err, services.ErrEventNotFound):
		return apiError(c, fiber.StatusNotFound, "event not found")
	case errors.Is(err, services.ErrEventDateInvalid),
		errors.Is(err, services.ErrEventTypeInvalid),
		errors.Is(err, services.ErrEventIntensityOutOfRange),
		errors.Is(err, services.ErrEventNotesTooLong):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	case services.IsStorageError(err):
		log.Printf("api: %s: %v", fallback, err)
		return apiError(c, fiber.StatusInternalServerError, fallback)
	default:
		log.Printf("api: %s: %v", fallback, err)
		return apiError(c, fiber.StatusInternalServerError, fallback)
	}
}

func parseDayParam(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("date is required")
	}
	return services.ParseDay(raw)
}

func parseMonthQuery(raw string, today time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return services.MonthStart(today), nil
	}
	parsed, err := time.ParseInLocation("2006-01", raw, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return services.MonthStart(parsed), nil
}

func bearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(header) > len("Bearer ") && strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return ""
}
