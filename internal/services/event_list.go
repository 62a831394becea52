package services

import "github.com/arnowelzel/periodical/internal/models"

type EventListEntry struct {
	UID         string           `json:"uid"`
	Date        string           `json:"date"`
	Type        models.EventType `json:"type"`
	Intensity   int              `json:"intensity"`
	Notes       string           `json:"notes,omitempty"`
	CycleLength int              `json:"cycle_length"`
}

// BuildEventList expects events in ascending order and returns them newest
// first. Each entry carries the length of the cycle it starts; the current
// cycle has no end yet and reports 0.
func BuildEventList(events []models.Event) []EventListEntry {
	entries := make([]EventListEntry, 0, len(events))
	for index := len(events) - 1; index >= 0; index-- {
		event := events[index]
		length := 0
		if index+1 < len(events) {
			length = DaysBetween(event.Date, events[index+1].Date)
		}
		entries = append(entries, EventListEntry{
			UID:         event.UID,
			Date:        DayKey(event.Date),
			Type:        event.Type,
			Intensity:   event.Intensity,
			Notes:       event.Notes,
			CycleLength: length,
		})
	}
	return entries
}
