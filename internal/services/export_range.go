package services

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrExportFromDateInvalid = errors.New("export invalid from date")
	ErrExportToDateInvalid   = errors.New("export invalid to date")
	ErrExportRangeInvalid    = errors.New("export invalid range")
)

const monthLayout = "2006-01"

// ExportRange limits an export to calendar days. A nil bound is open.
type ExportRange struct {
	From *time.Time
	To   *time.Time
}

func (exportRange ExportRange) Contains(date time.Time) bool {
	day := CalendarDay(date)
	if exportRange.From != nil && day.Before(*exportRange.From) {
		return false
	}
	if exportRange.To != nil && day.After(*exportRange.To) {
		return false
	}
	return true
}

// ParseExportRange accepts a day (2006-01-02) or a whole month (2006-01) for
// either bound. A month opens on its first day as from and closes on its last
// day as to.
func ParseExportRange(rawFrom string, rawTo string) (ExportRange, error) {
	from, err := parseExportBound(rawFrom, false)
	if err != nil {
		return ExportRange{}, ErrExportFromDateInvalid
	}
	to, err := parseExportBound(rawTo, true)
	if err != nil {
		return ExportRange{}, ErrExportToDateInvalid
	}
	if from != nil && to != nil && to.Before(*from) {
		return ExportRange{}, ErrExportRangeInvalid
	}
	return ExportRange{From: from, To: to}, nil
}

func parseExportBound(raw string, closing bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if day, err := ParseDay(raw); err == nil {
		return &day, nil
	}
	month, err := time.ParseInLocation(monthLayout, raw, time.UTC)
	if err != nil {
		return nil, err
	}
	if closing {
		month = month.AddDate(0, 1, -1)
	}
	return &month, nil
}
