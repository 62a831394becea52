// Package config resolves runtime settings from the environment layered over
// an optional TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort               = "8080"
	defaultPeriodReminderDays = 2
	minSecretKeyLength        = 32
)

var (
	ErrInvalidPort       = errors.New("invalid port")
	ErrInvalidTimezone   = errors.New("invalid timezone")
	ErrSecretKeyInsecure = errors.New("insecure secret key")
)

type TelegramConfig struct {
	BotToken           string
	ChatID             string
	PeriodReminderDays int
	NotifyFertility    bool
}

type Config struct {
	ConfigPath   string
	DBPath       string
	Port         string
	Location     *time.Location
	SecretKey    string
	CookieSecure bool
	Telegram     TelegramConfig
}

// Load reads the config file named by PERIODICAL_CONFIG (or the XDG default)
// and applies environment overrides on top.
func Load() (Config, error) {
	configPath := getEnv("PERIODICAL_CONFIG", DefaultConfigPath())
	file, err := LoadFile(configPath)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		ConfigPath:   configPath,
		DBPath:       getEnv("PERIODICAL_DB_PATH", stringOr(file.Server.DBPath, DefaultDBPath())),
		Port:         getEnv("PORT", stringOr(file.Server.Port, defaultPort)),
		SecretKey:    strings.TrimSpace(os.Getenv("SECRET_KEY")),
		CookieSecure: getEnvBool("COOKIE_SECURE", boolOr(file.Server.CookieSecure, false)),
		Telegram: TelegramConfig{
			BotToken:           getEnv("TELEGRAM_BOT_TOKEN", stringOr(file.Telegram.BotToken, "")),
			ChatID:             getEnv("TELEGRAM_CHAT_ID", stringOr(file.Telegram.ChatID, "")),
			PeriodReminderDays: getEnvInt("TELEGRAM_PERIOD_REMINDER_DAYS", intOr(file.Telegram.PeriodReminderDays, defaultPeriodReminderDays)),
			NotifyFertility:    getEnvBool("TELEGRAM_NOTIFY_FERTILITY", boolOr(file.Telegram.NotifyFertility, true)),
		},
	}

	if _, err := ValidatePort(cfg.Port); err != nil {
		return Config{}, err
	}
	if cfg.Telegram.PeriodReminderDays < 0 {
		cfg.Telegram.PeriodReminderDays = defaultPeriodReminderDays
	}

	location, err := resolveLocation(getEnv("TZ", stringOr(file.Server.Timezone, "")))
	if err != nil {
		return Config{}, err
	}
	cfg.Location = location
	return cfg, nil
}

func ValidatePort(raw string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPort, raw)
	}
	return port, nil
}

// ValidateSecretKey rejects short keys and the placeholders from the sample
// configuration.
func ValidateSecretKey(secret string) error {
	switch strings.TrimSpace(secret) {
	case "change_me_in_production", "replace_with_at_least_32_random_characters":
		return fmt.Errorf("%w: placeholder value", ErrSecretKeyInsecure)
	}
	if len(secret) < minSecretKeyLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrSecretKeyInsecure, minSecretKeyLength)
	}
	return nil
}

func resolveLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	location, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidTimezone, name, err)
	}
	return location, nil
}

func getEnv(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch raw {
	case "":
		return fallback
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func stringOr(value *string, fallback string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return fallback
	}
	return strings.TrimSpace(*value)
}

func intOr(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
