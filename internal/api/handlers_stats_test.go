package api

import (
	"net/http"
	"testing"
)

func TestGetDayClassification(t *testing.T) {
	app, _ := newTestApp(t)
	expectStatus(t, doRequest(t, app, http.MethodPost, "/api/events/2026-01-01", "", nil), http.StatusCreated)
	expectStatus(t, doRequest(t, app, http.MethodPost, "/api/events/2026-01-29", "", nil), http.StatusCreated)

	tests := []struct {
		date       string
		kind       string
		dayOfCycle int
	}{
		{date: "2026-01-01", kind: "period_start", dayOfCycle: 1},
		{date: "2026-01-02", kind: "period_confirmed", dayOfCycle: 2},
		{date: "2026-01-14", kind: "ovulation_predicted", dayOfCycle: 14},
		{date: "2026-01-20", kind: "infertile_predicted", dayOfCycle: 20},
		{date: "2026-02-26", kind: "period_predicted", dayOfCycle: 1},
		{date: "2026-03-07", kind: "fertility_future", dayOfCycle: 10},
		{date: "2026-03-11", kind: "ovulation_future", dayOfCycle: 14},
		{date: "2025-12-31", kind: "empty", dayOfCycle: 0},
		{date: "2027-01-01", kind: "empty", dayOfCycle: 0},
	}

	for _, tc := range tests {
		t.Run(tc.date, func(t *testing.T) {
			day := dayResponseBody{}
			response := doRequest(t, app, http.MethodGet, "/api/days/"+tc.date, "", nil)
			expectStatus(t, response, http.StatusOK)
			decodeJSON(t, response, &day)
			if day.Kind != tc.kind || day.DayOfCycle != tc.dayOfCycle {
				t.Fatalf("expected %s/%d, got %s/%d", tc.kind, tc.dayOfCycle, day.Kind, day.DayOfCycle)
			}
		})
	}
}

func TestGetDayRejectsInvalidDate(t *testing.T) {
	app, _ := newTestApp(t)

	response := doRequest(t, app, http.MethodGet, "/api/days/yesterday", "", nil)
	expectStatus(t, response, http.StatusBadRequest)
}

func TestGetDayRange(t *testing.T) {
	app, _ := newTestApp(t)
	expectStatus(t, doRequest(t, app, http.MethodPost, "/api/events/2026-01-01", "", nil), http.StatusCreated)

	payload := struct {
		Days []dayResponseBody `json:"days"`
	}{}
	response := doRequest(t, app, http.MethodGet, "/api/days?from=2025-12-31&to=2026-01-02", "", nil)
	expectStatus(t, response, http.StatusOK)
	decodeJSON(t, response, &payload)
	if len(payload.Days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(payload.Days))
	}
	if payload.Days[0].Kind != "empty" || payload.Days[1].Kind != "period_start" || payload.Days[2].Kind != "empty" {
		t.Fatalf("unexpected kinds: %#v", payload.Days)
	}

	expectStatus(t, doRequest(t, app, http.MethodGet, "/api/days?from=2026-02-01&to=2026-01-01", "", nil), http.StatusBadRequest)
}

func TestStatsWithoutEventsUsesDefaults(t *testing.T) {
	app, _ := newTestApp(t)

	stats := statsResponse{}
	decodeJSON(t, doRequest(t, app, http.MethodGet, "/api/stats", "", nil), &stats)
	if stats.Statistics.Average != 0 || stats.Statistics.Shortest != 28 || stats.Statistics.Longest != 28 {
		t.Fatalf("unexpected default statistics: %#v", stats.Statistics)
	}
	if stats.NextPeriodStart != "" || stats.LastEventDate != "" {
		t.Fatalf("expected no dates, got next=%q last=%q", stats.NextPeriodStart, stats.LastEventDate)
	}
}

func TestStatsReportsConfirmedLastEvent(t *testing.T) {
	app, _ := newTestApp(t)
	expectStatus(t, doRequest(t, app, http.MethodPost, "/api/events/2026-01-01", "", nil), http.StatusCreated)
	expectStatus(t, doRequest(t, app, http.MethodPost, "/api/events/2026-01-29", `{"type":"period_confirmed"}`, nil), http.StatusCreated)

	stats := statsResponse{}
	decodeJSON(t, doRequest(t, app, http.MethodGet, "/api/stats", "", nil), &stats)
	if stats.LastEventDate != "2026-01-29" {
		t.Fatalf("expected last event 2026-01-29, got %q", stats.LastEventDate)
	}
	if stats.NextPeriodStart != "2026-03-26" {
		t.Fatalf("expected next period 2026-03-26, got %q", stats.NextPeriodStart)
	}
}
