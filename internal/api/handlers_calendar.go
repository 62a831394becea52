package api

import (
	"github.com/arnowelzel/periodical/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetCalendar(c *fiber.Ctx) error {
	today := handler.today()
	month, err := parseMonthQuery(c.Query("month"), today)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid month")
	}

	snapshot, err := handler.predictions.Ensure(c.UserContext())
	if err != nil {
		return serviceError(c, err, "failed to compute prediction")
	}
	return c.JSON(services.BuildCalendarMonth(snapshot, month, snapshot.Config.StartOfWeek, today))
}
