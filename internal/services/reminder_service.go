package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/arnowelzel/periodical/internal/models"
)

const (
	telegramAPIBaseURL     = "https://api.telegram.org"
	reminderInterval       = 6 * time.Hour
	reminderSentKeysMaxLen = 500
)

type ReminderSettings struct {
	BotToken           string
	ChatID             string
	PeriodReminderDays int
	FertilityReminder  bool
}

func (settings ReminderSettings) Enabled() bool {
	return settings.BotToken != "" && settings.ChatID != ""
}

type SnapshotSource interface {
	Ensure(ctx context.Context) (*Snapshot, error)
}

type ReminderService struct {
	predictions SnapshotSource
	settings    ReminderSettings
	location    *time.Location
	client      *http.Client
	baseURL     string
	now         func() time.Time

	mu   sync.Mutex
	sent map[string]time.Time
}

func NewReminderService(predictions SnapshotSource, settings ReminderSettings, location *time.Location) *ReminderService {
	if location == nil {
		location = time.Local
	}
	if settings.PeriodReminderDays < 0 {
		settings.PeriodReminderDays = 0
	}
	return &ReminderService{
		predictions: predictions,
		settings:    settings,
		location:    location,
		client: &http.Client{
			Timeout: 8 * time.Second,
		},
		baseURL: telegramAPIBaseURL,
		now:     time.Now,
		sent:    make(map[string]time.Time),
	}
}

func (service *ReminderService) Start(ctx context.Context) {
	if !service.settings.Enabled() {
		return
	}

	ticker := time.NewTicker(reminderInterval)
	go func() {
		defer ticker.Stop()

		service.run(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				service.run(ctx)
			}
		}
	}()
}

func (service *ReminderService) run(ctx context.Context) {
	snapshot, err := service.predictions.Ensure(ctx)
	if err != nil {
		log.Printf("reminders: load prediction failed: %v", err)
		return
	}

	for _, message := range service.DueReminders(snapshot) {
		if err := service.sendTelegram(ctx, message); err != nil {
			log.Printf("reminders: send failed: %v", err)
		}
	}
}

// DueReminders returns the messages to send today. Each reminder goes out at
// most once per day.
func (service *ReminderService) DueReminders(snapshot *Snapshot) []string {
	today := DateAtLocation(service.now(), service.location)
	todayKey := DayKey(today)
	messages := make([]string, 0, 2)

	if next, ok := NextPredictedPeriodStart(snapshot, today); ok {
		if DaysBetween(today, next) == service.settings.PeriodReminderDays && service.shouldSend("period:"+todayKey, today) {
			messages = append(messages, fmt.Sprintf("Periodical reminder: your predicted period starts in %d day(s) on %s.",
				service.settings.PeriodReminderDays,
				next.Format("Jan 2"),
			))
		}
	}

	if service.settings.FertilityReminder {
		if start, ok := NextFertileWindowStart(snapshot, today); ok && SameDay(start, today) && service.shouldSend("fertility:"+todayKey, today) {
			messages = append(messages, fmt.Sprintf("Periodical reminder: your fertile window starts today (%s).",
				start.Format("Jan 2"),
			))
		}
	}
	return messages
}

// NextPredictedPeriodStart returns the first projected cycle start after today.
func NextPredictedPeriodStart(snapshot *Snapshot, today time.Time) (time.Time, bool) {
	if snapshot == nil {
		return time.Time{}, false
	}
	for _, day := range snapshot.Days {
		if !day.Date.After(today) {
			continue
		}
		if day.DayOfCycle == 1 && day.Kind == models.DayPeriodPredicted {
			return day.Date, true
		}
	}
	return time.Time{}, false
}

// NextFertileWindowStart returns the first day on or after today that opens a
// fertile window.
func NextFertileWindowStart(snapshot *Snapshot, today time.Time) (time.Time, bool) {
	if snapshot == nil {
		return time.Time{}, false
	}
	for index, day := range snapshot.Days {
		if day.Date.Before(today) || !day.Kind.IsFertile() {
			continue
		}
		if index > 0 && snapshot.Days[index-1].Kind.IsFertile() && DaysBetween(snapshot.Days[index-1].Date, day.Date) == 1 {
			continue
		}
		return day.Date, true
	}
	return time.Time{}, false
}

func (service *ReminderService) shouldSend(key string, today time.Time) bool {
	service.mu.Lock()
	defer service.mu.Unlock()

	if sentOn, ok := service.sent[key]; ok && SameDay(sentOn, today) {
		return false
	}

	service.sent[key] = today
	if len(service.sent) > reminderSentKeysMaxLen {
		service.sent = make(map[string]time.Time)
	}
	return true
}

func (service *ReminderService) sendTelegram(ctx context.Context, message string) error {
	values := url.Values{}
	values.Set("chat_id", service.settings.ChatID)
	values.Set("text", message)

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", service.baseURL, service.settings.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := service.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
