package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/arnowelzel/periodical/internal/api"
	"github.com/arnowelzel/periodical/internal/services"
	"github.com/spf13/cobra"
)

func init() {
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show cycle statistics",
		Run:   runStats,
	}

	day := &cobra.Command{
		Use:   "day DATE",
		Short: "Show the classification of one day",
		Args:  cobra.ExactArgs(1),
		Run:   runDay,
	}

	RootCmd.AddCommand(stats, day)
}

func runStats(cmd *cobra.Command, args []string) {
	s, err := openSession(nil)
	if err != nil {
		exitErr("open database", err)
	}
	defer s.Close()

	today := services.DateAtLocation(time.Now(), s.cfg.Location)
	if err := showStats(cmd.Context(), cmd.OutOrStdout(), s.deps, today); err != nil {
		exitErr("stats", err)
	}
}

func runDay(cmd *cobra.Command, args []string) {
	s, err := openSession(nil)
	if err != nil {
		exitErr("open database", err)
	}
	defer s.Close()

	if err := showDay(cmd.Context(), cmd.OutOrStdout(), s.deps, args[0]); err != nil {
		exitErr("day", err)
	}
}

func showStats(ctx context.Context, out io.Writer, deps api.Dependencies, today time.Time) error {
	snapshot, err := deps.Predictions.Refresh(ctx)
	if err != nil {
		return err
	}

	payload := map[string]interface{}{
		"statistics":           snapshot.Statistics,
		"event_count":          snapshot.EventCount,
		"intervals":            snapshot.Intervals,
		"degenerate_intervals": snapshot.DegenerateIntervals,
		"config":               snapshot.Config,
	}
	if last, ok := snapshot.LastEvent(); ok {
		payload["last_event_date"] = services.DayKey(last)
	}
	if next, ok := services.NextPredictedPeriodStart(snapshot, today); ok {
		payload["next_period_start"] = services.DayKey(next)
	}
	return printJSON(out, payload)
}

func showDay(ctx context.Context, out io.Writer, deps api.Dependencies, rawDate string) error {
	day, err := services.ParseDay(rawDate)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", rawDate, services.ErrEventDateInvalid)
	}

	snapshot, err := deps.Predictions.Refresh(ctx)
	if err != nil {
		return err
	}
	classification := snapshot.Lookup(day)
	return printJSON(out, map[string]interface{}{
		"date":         services.DayKey(classification.Date),
		"kind":         classification.Kind,
		"day_of_cycle": classification.DayOfCycle,
	})
}
