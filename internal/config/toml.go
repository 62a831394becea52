package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig is the optional TOML configuration file. Unset keys stay nil so
// the environment and the defaults can fill them in.
type FileConfig struct {
	Server   ServerFileConfig   `toml:"server"`
	Telegram TelegramFileConfig `toml:"telegram"`
}

type ServerFileConfig struct {
	Port         *string `toml:"port"`
	DBPath       *string `toml:"db-path"`
	Timezone     *string `toml:"timezone"`
	CookieSecure *bool   `toml:"cookie-secure"`
}

type TelegramFileConfig struct {
	BotToken           *string `toml:"bot-token"`
	ChatID             *string `toml:"chat-id"`
	PeriodReminderDays *int    `toml:"period-reminder-days"`
	NotifyFertility    *bool   `toml:"notify-fertility"`
}

// LoadFile reads a TOML config from the given path. Missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
