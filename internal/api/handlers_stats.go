package api

import (
	"time"

	"github.com/arnowelzel/periodical/internal/services"
	"github.com/gofiber/fiber/v2"
)

const maxDayRangeDays = 366

func (handler *Handler) GetStats(c *fiber.Ctx) error {
	snapshot, err := handler.predictions.Ensure(c.UserContext())
	if err != nil {
		return serviceError(c, err, "failed to compute prediction")
	}

	payload := fiber.Map{
		"statistics":           snapshot.Statistics,
		"event_count":          snapshot.EventCount,
		"intervals":            snapshot.Intervals,
		"degenerate_intervals": snapshot.DegenerateIntervals,
		"generation":           snapshot.Generation,
		"computed_at":          snapshot.ComputedAt.UTC().Format(time.RFC3339),
	}
	if last, ok := snapshot.LastEvent(); ok {
		payload["last_event_date"] = services.DayKey(last)
	}
	if next, ok := services.NextPredictedPeriodStart(snapshot, handler.today()); ok {
		payload["next_period_start"] = services.DayKey(next)
	}
	return c.JSON(payload)
}

func (handler *Handler) GetDay(c *fiber.Ctx) error {
	day, err := parseDayParam(c.Params("date"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	snapshot, err := handler.predictions.Ensure(c.UserContext())
	if err != nil {
		return serviceError(c, err, "failed to compute prediction")
	}
	return c.JSON(dayResponse(snapshot, day))
}

func (handler *Handler) GetDayRange(c *fiber.Ctx) error {
	from, err := parseDayParam(c.Query("from"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid from date")
	}
	to, err := parseDayParam(c.Query("to"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid to date")
	}
	span := services.DaysBetween(from, to)
	if span < 0 || span >= maxDayRangeDays {
		return apiError(c, fiber.StatusBadRequest, "invalid range")
	}

	snapshot, err := handler.predictions.Ensure(c.UserContext())
	if err != nil {
		return serviceError(c, err, "failed to compute prediction")
	}

	days := make([]fiber.Map, 0, span+1)
	for _, classification := range snapshot.Range(from, to) {
		days = append(days, dayResponse(snapshot, classification.Date))
	}
	return c.JSON(fiber.Map{
		"generation": snapshot.Generation,
		"days":       days,
	})
}

func dayResponse(snapshot *services.Snapshot, day time.Time) fiber.Map {
	classification := snapshot.Lookup(day)
	return fiber.Map{
		"date":         services.DayKey(classification.Date),
		"kind":         classification.Kind,
		"day_of_cycle": classification.DayOfCycle,
		"is_period":    classification.Kind.IsPeriod(),
		"is_fertile":   classification.Kind.IsFertile(),
		"is_ovulation": classification.Kind.IsOvulation(),
	}
}
