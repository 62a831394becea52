package api

import (
	"github.com/arnowelzel/periodical/internal/models"
	"github.com/arnowelzel/periodical/internal/services"
	"github.com/gofiber/fiber/v2"
)

type eventPayload struct {
	Type      string `json:"type" form:"type"`
	Intensity int    `json:"intensity" form:"intensity"`
	Notes     string `json:"notes" form:"notes"`
}

func (handler *Handler) ListEvents(c *fiber.Ctx) error {
	events, err := handler.events.ListEvents(c.UserContext())
	if err != nil {
		return serviceError(c, err, "failed to load events")
	}
	return c.JSON(fiber.Map{
		"events": services.BuildEventList(events),
	})
}

func (handler *Handler) GetEvent(c *fiber.Ctx) error {
	day, err := parseDayParam(c.Params("date"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	event, found, err := handler.events.FindEvent(c.UserContext(), day)
	if err != nil {
		return serviceError(c, err, "failed to load event")
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "event not found")
	}
	return c.JSON(event)
}

func (handler *Handler) AddEvent(c *fiber.Ctx) error {
	day, err := parseDayParam(c.Params("date"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	payload := eventPayload{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid input")
		}
	}
	eventType, err := models.ParseEventType(payload.Type)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid event type")
	}

	event, created, err := handler.events.AddEvent(c.UserContext(), day, services.EventInput{
		Type:      eventType,
		Intensity: payload.Intensity,
		Notes:     payload.Notes,
	})
	if err != nil {
		return serviceError(c, err, "failed to save event")
	}

	snapshot, err := handler.predictions.Refresh(c.UserContext())
	if err != nil {
		return serviceError(c, err, "failed to recompute prediction")
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{
		"event":      event,
		"created":    created,
		"statistics": snapshot.Statistics,
		"generation": snapshot.Generation,
	})
}

func (handler *Handler) RemoveEvent(c *fiber.Ctx) error {
	day, err := parseDayParam(c.Params("date"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	if err := handler.events.RemoveEvent(c.UserContext(), day); err != nil {
		return serviceError(c, err, "failed to delete event")
	}

	snapshot, err := handler.predictions.Refresh(c.UserContext())
	if err != nil {
		return serviceError(c, err, "failed to recompute prediction")
	}
	return c.JSON(fiber.Map{
		"statistics": snapshot.Statistics,
		"generation": snapshot.Generation,
	})
}
