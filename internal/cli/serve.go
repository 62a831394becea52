package cli

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/arnowelzel/periodical/internal/api"
	"github.com/arnowelzel/periodical/internal/config"
	"github.com/arnowelzel/periodical/internal/security"
	"github.com/arnowelzel/periodical/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Run:   runServe,
	}

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("config", err)
	}
	if err := serve(cmd.Context(), cfg); err != nil {
		exitErr("serve", err)
	}
}

// resolveSecretKey returns the configured signing key, or an ephemeral one
// when SECRET_KEY is unset.
func resolveSecretKey(cfg config.Config) ([]byte, error) {
	if cfg.SecretKey == "" {
		secret, err := security.EphemeralSecret()
		if err != nil {
			return nil, fmt.Errorf("generate secret: %w", err)
		}
		log.Printf("serve: SECRET_KEY is not set, sessions will not survive a restart")
		return []byte(secret), nil
	}
	if err := config.ValidateSecretKey(cfg.SecretKey); err != nil {
		return nil, err
	}
	return []byte(cfg.SecretKey), nil
}

func newServerApp(handler *api.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Periodical",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)
	return app
}

func serve(parent context.Context, cfg config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	secret, err := resolveSecretKey(cfg)
	if err != nil {
		return err
	}

	s, err := openSessionWithConfig(cfg, secret)
	if err != nil {
		return err
	}
	defer s.Close()

	lifecycleCtx, cancelLifecycle := context.WithCancel(parent)
	defer cancelLifecycle()

	s.deps.Predictions.Start(lifecycleCtx)
	s.deps.Predictions.Trigger()

	reminders := services.NewReminderService(s.deps.Predictions, services.ReminderSettings{
		BotToken:           cfg.Telegram.BotToken,
		ChatID:             cfg.Telegram.ChatID,
		PeriodReminderDays: cfg.Telegram.PeriodReminderDays,
		FertilityReminder:  cfg.Telegram.NotifyFertility,
	}, cfg.Location)
	reminders.Start(lifecycleCtx)

	handler := api.NewHandler(s.deps, cfg.Location, cfg.CookieSecure)
	app := newServerApp(handler)

	sigCtx, stopSignals := signal.NotifyContext(lifecycleCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("serve: shutdown failed: %v", err)
		}
	}()

	log.Printf("Periodical listening on http://0.0.0.0:%s (db: %s, tz: %s)", cfg.Port, cfg.DBPath, cfg.Location.String())
	return app.Listen(":" + cfg.Port)
}
