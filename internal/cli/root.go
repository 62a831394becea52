// Package cli implements the periodical commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arnowelzel/periodical/internal/api"
	"github.com/arnowelzel/periodical/internal/config"
	"github.com/arnowelzel/periodical/internal/db"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	dbPath     string
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "periodical",
	Short: "Personal cycle calendar",
	Long:  "Records period start dates, predicts the following cycles and serves the calendar over HTTP.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $PERIODICAL_DB_PATH or $XDG_DATA_HOME/periodical/periodical.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
}

type session struct {
	cfg      config.Config
	database *gorm.DB
	deps     api.Dependencies
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if strings.TrimSpace(dbPath) != "" {
		cfg.DBPath = strings.TrimSpace(dbPath)
	}
	return cfg, nil
}

func openSession(secret []byte) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return openSessionWithConfig(cfg, secret)
}

func openSessionWithConfig(cfg config.Config, secret []byte) (*session, error) {
	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	return &session{
		cfg:      cfg,
		database: database,
		deps:     api.NewDependencies(db.NewRepositories(database), secret),
	}, nil
}

func (s *session) Close() {
	_ = db.Close(s.database)
}

func textOutput() bool {
	return strings.EqualFold(strings.TrimSpace(formatFlag), "text")
}

func printJSON(out io.Writer, value interface{}) error {
	b, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(b))
	return err
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
