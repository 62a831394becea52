package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)

	api := app.Group("/api")

	session := api.Group("/session")
	session.Get("", handler.SessionStatus)
	session.Post("", handler.CreateSession)
	session.Delete("", handler.DeleteSession)

	events := api.Group("/events", handler.AccessRequired)
	events.Get("", handler.ListEvents)
	events.Get("/:date", handler.GetEvent)
	events.Post("/:date", handler.AddEvent)
	events.Delete("/:date", handler.RemoveEvent)

	api.Get("/stats", handler.AccessRequired, handler.GetStats)
	api.Get("/days/:date", handler.AccessRequired, handler.GetDay)
	api.Get("/days", handler.AccessRequired, handler.GetDayRange)
	api.Get("/calendar", handler.AccessRequired, handler.GetCalendar)

	options := api.Group("/options", handler.AccessRequired)
	options.Get("", handler.GetOptions)
	options.Put("", handler.UpdateOptions)

	export := api.Group("/export", handler.AccessRequired)
	export.Get("/summary", handler.ExportSummary)
	export.Get("/json", handler.ExportJSON)
	export.Get("/csv", handler.ExportCSV)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
