package services

import (
	"context"
	"strconv"
)

var ExportCSVHeaders = []string{
	"UID",
	"Date",
	"Type",
	"Intensity",
	"Cycle length",
	"Notes",
}

type ExportSummary struct {
	TotalEntries int    `json:"total_entries"`
	HasData      bool   `json:"has_data"`
	DateFrom     string `json:"date_from,omitempty"`
	DateTo       string `json:"date_to,omitempty"`
}

type ExportEntry struct {
	UID         string `json:"uid"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	Intensity   int    `json:"intensity"`
	CycleLength int    `json:"cycle_length"`
	Notes       string `json:"notes"`
}

func (entry ExportEntry) Columns() []string {
	return []string{
		entry.UID,
		entry.Date,
		entry.Type,
		strconv.Itoa(entry.Intensity),
		strconv.Itoa(entry.CycleLength),
		entry.Notes,
	}
}

type ExportService struct {
	events EventLog
}

func NewExportService(events EventLog) *ExportService {
	return &ExportService{events: events}
}

// BuildEntries returns the event log oldest first, limited to exportRange.
// Cycle lengths are computed over the whole log so a range boundary never
// truncates them.
func (service *ExportService) BuildEntries(ctx context.Context, exportRange ExportRange) ([]ExportEntry, error) {
	events, err := service.events.ListEvents(ctx)
	if err != nil {
		return nil, wrapStorageError("list events", err)
	}

	entries := make([]ExportEntry, 0, len(events))
	for index, event := range events {
		if !exportRange.Contains(event.Date) {
			continue
		}
		length := 0
		if index+1 < len(events) {
			length = DaysBetween(event.Date, events[index+1].Date)
		}
		entries = append(entries, ExportEntry{
			UID:         event.UID,
			Date:        DayKey(event.Date),
			Type:        event.Type.String(),
			Intensity:   event.Intensity,
			CycleLength: length,
			Notes:       event.Notes,
		})
	}
	return entries, nil
}

func (service *ExportService) BuildSummary(ctx context.Context, exportRange ExportRange) (ExportSummary, error) {
	entries, err := service.BuildEntries(ctx, exportRange)
	if err != nil {
		return ExportSummary{}, err
	}
	if len(entries) == 0 {
		return ExportSummary{}, nil
	}
	return ExportSummary{
		TotalEntries: len(entries),
		HasData:      true,
		DateFrom:     entries[0].Date,
		DateTo:       entries[len(entries)-1].Date,
	}, nil
}
