package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arnowelzel/periodical/internal/db"
	"github.com/gofiber/fiber/v2"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

var testNow = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

func newTestApp(t *testing.T) (*fiber.App, Dependencies) {
	t.Helper()
	app, deps, _ := newTestHandlerApp(t)
	return app, deps
}

func newTestHandlerApp(t *testing.T) (*fiber.App, Dependencies, *Handler) {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "periodical-api-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(database)
	})

	deps := NewDependencies(db.NewRepositories(database), []byte(testSecretKey))
	handler := NewHandler(deps, time.UTC, false)
	handler.now = func() time.Time { return testNow }

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, deps, handler
}

func doRequest(t *testing.T, app *fiber.App, method string, path string, body string, headers map[string]string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, path, reader)
	if body != "" {
		request.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	for key, value := range headers {
		request.Header.Set(key, value)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

func decodeJSON(t *testing.T, response *http.Response, target interface{}) {
	t.Helper()
	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		t.Fatalf("decode response body %q: %v", string(raw), err)
	}
}

func readAPIError(t *testing.T, response *http.Response) string {
	t.Helper()
	payload := map[string]string{}
	decodeJSON(t, response, &payload)
	return payload["error"]
}

func expectStatus(t *testing.T, response *http.Response, want int) {
	t.Helper()
	if response.StatusCode != want {
		body, _ := io.ReadAll(response.Body)
		t.Fatalf("expected status %d, got %d: %s", want, response.StatusCode, string(body))
	}
}

func responseCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

type statsResponse struct {
	Statistics struct {
		Average  int `json:"average"`
		Shortest int `json:"shortest"`
		Longest  int `json:"longest"`
	} `json:"statistics"`
	EventCount          int    `json:"event_count"`
	Intervals           int    `json:"intervals"`
	DegenerateIntervals int    `json:"degenerate_intervals"`
	Generation          uint64 `json:"generation"`
	NextPeriodStart     string `json:"next_period_start"`
	LastEventDate       string `json:"last_event_date"`
}

type dayResponseBody struct {
	Date       string `json:"date"`
	Kind       string `json:"kind"`
	DayOfCycle int    `json:"day_of_cycle"`
	IsPeriod   bool   `json:"is_period"`
	IsFertile  bool   `json:"is_fertile"`
}
