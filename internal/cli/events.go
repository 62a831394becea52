package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/arnowelzel/periodical/internal/api"
	"github.com/arnowelzel/periodical/internal/models"
	"github.com/arnowelzel/periodical/internal/services"
	"github.com/spf13/cobra"
)

func init() {
	add := &cobra.Command{
		Use:   "add DATE",
		Short: "Record a period start (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(1),
		Run:   runAdd,
	}
	add.Flags().StringP("type", "t", "period_start", "Event type: period_start or period_confirmed")
	add.Flags().IntP("intensity", "i", 0, "Intensity 0-4")
	add.Flags().StringP("notes", "n", "", "Free text notes")

	remove := &cobra.Command{
		Use:     "remove DATE",
		Aliases: []string{"rm"},
		Short:   "Delete the event recorded on DATE",
		Args:    cobra.ExactArgs(1),
		Run:     runRemove,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List recorded events, newest first, with cycle lengths",
		Run:   runList,
	}

	RootCmd.AddCommand(add, remove, list)
}

func runAdd(cmd *cobra.Command, args []string) {
	rawType, _ := cmd.Flags().GetString("type")
	intensity, _ := cmd.Flags().GetInt("intensity")
	notes, _ := cmd.Flags().GetString("notes")

	eventType, err := models.ParseEventType(rawType)
	if err != nil {
		exitErr("add", err)
	}

	s, err := openSession(nil)
	if err != nil {
		exitErr("open database", err)
	}
	defer s.Close()

	input := services.EventInput{Type: eventType, Intensity: intensity, Notes: notes}
	if err := addEvent(cmd.Context(), cmd.OutOrStdout(), s.deps, args[0], input); err != nil {
		exitErr("add", err)
	}
}

func runRemove(cmd *cobra.Command, args []string) {
	s, err := openSession(nil)
	if err != nil {
		exitErr("open database", err)
	}
	defer s.Close()

	if err := removeEvent(cmd.Context(), cmd.OutOrStdout(), s.deps, args[0]); err != nil {
		exitErr("remove", err)
	}
}

func runList(cmd *cobra.Command, args []string) {
	s, err := openSession(nil)
	if err != nil {
		exitErr("open database", err)
	}
	defer s.Close()

	if err := listEvents(cmd.Context(), cmd.OutOrStdout(), s.deps, textOutput()); err != nil {
		exitErr("list", err)
	}
}

func addEvent(ctx context.Context, out io.Writer, deps api.Dependencies, rawDate string, input services.EventInput) error {
	day, err := services.ParseDay(rawDate)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", rawDate, services.ErrEventDateInvalid)
	}

	event, created, err := deps.Events.AddEvent(ctx, day, input)
	if err != nil {
		return err
	}
	snapshot, err := deps.Predictions.Refresh(ctx)
	if err != nil {
		return err
	}
	return printJSON(out, map[string]interface{}{
		"ok":         true,
		"created":    created,
		"uid":        event.UID,
		"date":       services.DayKey(event.Date),
		"statistics": snapshot.Statistics,
	})
}

func removeEvent(ctx context.Context, out io.Writer, deps api.Dependencies, rawDate string) error {
	day, err := services.ParseDay(rawDate)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", rawDate, services.ErrEventDateInvalid)
	}

	if err := deps.Events.RemoveEvent(ctx, day); err != nil {
		return err
	}
	snapshot, err := deps.Predictions.Refresh(ctx)
	if err != nil {
		return err
	}
	return printJSON(out, map[string]interface{}{
		"ok":         true,
		"date":       services.DayKey(day),
		"statistics": snapshot.Statistics,
	})
}

func listEvents(ctx context.Context, out io.Writer, deps api.Dependencies, asText bool) error {
	events, err := deps.Events.ListEvents(ctx)
	if err != nil {
		return err
	}
	entries := services.BuildEventList(events)
	if !asText {
		return printJSON(out, entries)
	}

	for _, entry := range entries {
		length := "current"
		if entry.CycleLength > 0 {
			length = fmt.Sprintf("%d days", entry.CycleLength)
		}
		if _, err := fmt.Fprintf(out, "%s  %-16s  %s\n", entry.Date, entry.Type, length); err != nil {
			return err
		}
	}
	return nil
}
