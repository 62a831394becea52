package models

import (
	"fmt"
	"strings"
	"time"
)

type EventType int

const (
	EventPeriodStart     EventType = 1
	EventPeriodConfirmed EventType = 2
)

const (
	IntensityNone     = 0
	IntensityMax      = 4
	MaxEventNotesSize = 2000
)

type Event struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UID       string    `gorm:"not null;uniqueIndex" json:"uid"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:uidx_events_date" json:"date"`
	Type      EventType `gorm:"not null;default:1" json:"type"`
	Intensity int       `gorm:"not null;default:0" json:"intensity"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (eventType EventType) Valid() bool {
	switch eventType {
	case EventPeriodStart, EventPeriodConfirmed:
		return true
	default:
		return false
	}
}

// DayKind maps a persisted event type onto the classification of its own day.
func (eventType EventType) DayKind() DayKind {
	switch eventType {
	case EventPeriodConfirmed:
		return DayPeriodConfirmed
	default:
		return DayPeriodStart
	}
}

func (eventType EventType) String() string {
	switch eventType {
	case EventPeriodStart:
		return "period_start"
	case EventPeriodConfirmed:
		return "period_confirmed"
	default:
		return fmt.Sprintf("event_type(%d)", int(eventType))
	}
}

func (eventType EventType) MarshalText() ([]byte, error) {
	if !eventType.Valid() {
		return nil, fmt.Errorf("unknown event type %d", int(eventType))
	}
	return []byte(eventType.String()), nil
}

func (eventType *EventType) UnmarshalText(text []byte) error {
	parsed, err := ParseEventType(string(text))
	if err != nil {
		return err
	}
	*eventType = parsed
	return nil
}

func ParseEventType(raw string) (EventType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "period_start", "1":
		return EventPeriodStart, nil
	case "period_confirmed", "2":
		return EventPeriodConfirmed, nil
	default:
		return 0, fmt.Errorf("unknown event type %q", raw)
	}
}
