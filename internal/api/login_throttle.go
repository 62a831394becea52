package api

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// loginThrottle counts failed password attempts per client and blocks a
// client once limit failures fall inside the sliding window.
type loginThrottle struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu       sync.Mutex
	failures map[string][]time.Time
}

func newLoginThrottle(limit int, window time.Duration, now func() time.Time) *loginThrottle {
	if now == nil {
		now = time.Now
	}
	return &loginThrottle{
		limit:    limit,
		window:   window,
		now:      now,
		failures: make(map[string][]time.Time),
	}
}

// blocked reports whether client is locked out and, if so, how long until
// its oldest counted failure leaves the window.
func (throttle *loginThrottle) blocked(client string) (bool, time.Duration) {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()

	now := throttle.now()
	recent := throttle.recentLocked(client, now)
	if len(recent) < throttle.limit {
		return false, 0
	}
	return true, recent[0].Add(throttle.window).Sub(now)
}

func (throttle *loginThrottle) fail(client string) {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()

	now := throttle.now()
	throttle.failures[client] = append(throttle.recentLocked(client, now), now)
}

func (throttle *loginThrottle) clear(client string) {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()
	delete(throttle.failures, client)
}

func (throttle *loginThrottle) recentLocked(client string, now time.Time) []time.Time {
	cutoff := now.Add(-throttle.window)
	kept := throttle.failures[client][:0]
	for _, at := range throttle.failures[client] {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	if len(kept) == 0 {
		delete(throttle.failures, client)
		return nil
	}
	throttle.failures[client] = kept
	return kept
}

func loginClientKey(c *fiber.Ctx) string {
	if ip := strings.TrimSpace(c.IP()); ip != "" {
		return ip
	}
	return "unknown"
}
