package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arnowelzel/periodical/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) ExportSummary(c *fiber.Ctx) error {
	exportRange, message := parseExportRange(c)
	if message != "" {
		return apiError(c, fiber.StatusBadRequest, message)
	}

	summary, err := handler.exports.BuildSummary(c.UserContext(), exportRange)
	if err != nil {
		return serviceError(c, err, "failed to fetch events")
	}
	return c.JSON(summary)
}

func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	exportRange, message := parseExportRange(c)
	if message != "" {
		return apiError(c, fiber.StatusBadRequest, message)
	}

	entries, err := handler.exports.BuildEntries(c.UserContext(), exportRange)
	if err != nil {
		return serviceError(c, err, "failed to fetch events")
	}
	now := handler.now().In(handler.location)

	payload := fiber.Map{
		"exported_at": now.Format(time.RFC3339),
		"entries":     entries,
	}

	serialized, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, fiber.MIMEApplicationJSON, buildExportFilename(now, "json"))
	return c.Send(serialized)
}

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	exportRange, message := parseExportRange(c)
	if message != "" {
		return apiError(c, fiber.StatusBadRequest, message)
	}

	entries, err := handler.exports.BuildEntries(c.UserContext(), exportRange)
	if err != nil {
		return serviceError(c, err, "failed to fetch events")
	}
	now := handler.now().In(handler.location)

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(services.ExportCSVHeaders); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}
	for _, entry := range entries {
		if err := writer.Write(entry.Columns()); err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to build export")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, "text/csv", buildExportFilename(now, "csv"))
	return c.Send(output.Bytes())
}

func parseExportRange(c *fiber.Ctx) (services.ExportRange, string) {
	exportRange, err := services.ParseExportRange(c.Query("from"), c.Query("to"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrExportFromDateInvalid):
			return services.ExportRange{}, "invalid from date"
		case errors.Is(err, services.ErrExportToDateInvalid):
			return services.ExportRange{}, "invalid to date"
		default:
			return services.ExportRange{}, "invalid range"
		}
	}
	return exportRange, ""
}

func buildExportFilename(now time.Time, extension string) string {
	return fmt.Sprintf("periodical-export-%s.%s", now.Format("2006-01-02"), extension)
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
}
