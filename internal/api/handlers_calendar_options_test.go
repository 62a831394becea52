package api

import (
	"net/http"
	"testing"
)

type calendarResponse struct {
	Month       string `json:"month"`
	StartOfWeek int    `json:"start_of_week"`
	Weeks       [][]struct {
		Date     string `json:"date"`
		InMonth  bool   `json:"in_month"`
		IsToday  bool   `json:"is_today"`
		Kind     string `json:"kind"`
		IsPeriod bool   `json:"is_period"`
	} `json:"weeks"`
}

func TestCalendarMonthGrid(t *testing.T) {
	app, _ := newTestApp(t)
	expectStatus(t, doRequest(t, app, http.MethodPost, "/api/events/2026-01-01", "", nil), http.StatusCreated)
	expectStatus(t, doRequest(t, app, http.MethodPost, "/api/events/2026-01-29", "", nil), http.StatusCreated)

	calendar := calendarResponse{}
	response := doRequest(t, app, http.MethodGet, "/api/calendar?month=2026-02", "", nil)
	expectStatus(t, response, http.StatusOK)
	decodeJSON(t, response, &calendar)

	if calendar.Month != "2026-02" || calendar.StartOfWeek != 0 {
		t.Fatalf("unexpected calendar header: %s/%d", calendar.Month, calendar.StartOfWeek)
	}
	if len(calendar.Weeks) != 4 {
		t.Fatalf("expected 4 weeks for February 2026 starting Sunday, got %d", len(calendar.Weeks))
	}
	first := calendar.Weeks[0][0]
	if first.Date != "2026-02-01" || !first.InMonth {
		t.Fatalf("unexpected first cell: %#v", first)
	}
	predicted := calendar.Weeks[3][4]
	if predicted.Date != "2026-02-26" || predicted.Kind != "period_predicted" || !predicted.IsPeriod {
		t.Fatalf("unexpected predicted period cell: %#v", predicted)
	}
}

func TestCalendarDefaultsToCurrentMonthAndMarksToday(t *testing.T) {
	app, _ := newTestApp(t)

	calendar := calendarResponse{}
	decodeJSON(t, doRequest(t, app, http.MethodGet, "/api/calendar", "", nil), &calendar)
	if calendar.Month != "2026-03" {
		t.Fatalf("expected current month 2026-03, got %s", calendar.Month)
	}

	todayCount := 0
	for _, week := range calendar.Weeks {
		for _, day := range week {
			if day.IsToday {
				todayCount++
				if day.Date != "2026-03-10" {
					t.Fatalf("expected today 2026-03-10, got %s", day.Date)
				}
			}
		}
	}
	if todayCount != 1 {
		t.Fatalf("expected exactly one today cell, got %d", todayCount)
	}
}

func TestCalendarRejectsInvalidMonth(t *testing.T) {
	app, _ := newTestApp(t)
	expectStatus(t, doRequest(t, app, http.MethodGet, "/api/calendar?month=2026-13", "", nil), http.StatusBadRequest)
}

func TestOptionsRoundTripAndStartOfWeek(t *testing.T) {
	app, _ := newTestApp(t)

	options := map[string]int{}
	decodeJSON(t, doRequest(t, app, http.MethodGet, "/api/options", "", nil), &options)
	if options["period_length"] != 4 || options["luteal_length"] != 14 || options["max_cycle_length"] != 183 || options["start_of_week"] != 0 {
		t.Fatalf("unexpected default options: %#v", options)
	}

	update := doRequest(t, app, http.MethodPut, "/api/options", `{"period_length":5,"start_of_week":1}`, nil)
	expectStatus(t, update, http.StatusOK)

	options = map[string]int{}
	decodeJSON(t, doRequest(t, app, http.MethodGet, "/api/options", "", nil), &options)
	if options["period_length"] != 5 || options["start_of_week"] != 1 {
		t.Fatalf("expected updated options, got %#v", options)
	}

	calendar := calendarResponse{}
	decodeJSON(t, doRequest(t, app, http.MethodGet, "/api/calendar?month=2026-02", "", nil), &calendar)
	if calendar.StartOfWeek != 1 || len(calendar.Weeks) != 5 {
		t.Fatalf("expected 5 Monday-first weeks, got start=%d weeks=%d", calendar.StartOfWeek, len(calendar.Weeks))
	}
	if calendar.Weeks[0][0].Date != "2026-01-26" || calendar.Weeks[0][0].InMonth {
		t.Fatalf("unexpected first cell: %#v", calendar.Weeks[0][0])
	}
}

func TestOptionsRejectInvalidValues(t *testing.T) {
	app, _ := newTestApp(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "period too long", body: `{"period_length":15}`},
		{name: "luteal zero", body: `{"luteal_length":0}`},
		{name: "max cycle too short", body: `{"maxcycle_length":30}`},
		{name: "start of week out of range", body: `{"startofweek":7}`},
		{name: "not a number", body: `{"period_length":"four"}`},
		{name: "misspelled name", body: `{"period_lenght":6}`},
		{name: "misspelled name with valid change", body: `{"period_length":6,"luteal_lenght":12}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			response := doRequest(t, app, http.MethodPut, "/api/options", tc.body, nil)
			expectStatus(t, response, http.StatusBadRequest)
		})
	}

	misspelled := doRequest(t, app, http.MethodPut, "/api/options", `{"period_lenght":6}`, nil)
	expectStatus(t, misspelled, http.StatusBadRequest)
	if message := readAPIError(t, misspelled); message != `invalid period_lenght "6": unknown option` {
		t.Fatalf("unexpected error message %q", message)
	}

	options := map[string]int{}
	decodeJSON(t, doRequest(t, app, http.MethodGet, "/api/options", "", nil), &options)
	if options["period_length"] != 4 {
		t.Fatalf("expected rejected updates to leave defaults, got %#v", options)
	}
}
