package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/arnowelzel/periodical/internal/api"
	"github.com/arnowelzel/periodical/internal/models"
	"github.com/arnowelzel/periodical/internal/services"
	"github.com/spf13/cobra"
)

var weekdayLabels = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

func init() {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show one month of the calendar",
		Run:   runCalendar,
	}
	cmd.Flags().StringP("month", "m", "", "Month as YYYY-MM (default: current month)")

	RootCmd.AddCommand(cmd)
}

func runCalendar(cmd *cobra.Command, args []string) {
	rawMonth, _ := cmd.Flags().GetString("month")

	s, err := openSession(nil)
	if err != nil {
		exitErr("open database", err)
	}
	defer s.Close()

	today := services.DateAtLocation(time.Now(), s.cfg.Location)
	if err := showCalendar(cmd.Context(), cmd.OutOrStdout(), s.deps, rawMonth, today, textOutput()); err != nil {
		exitErr("calendar", err)
	}
}

func showCalendar(ctx context.Context, out io.Writer, deps api.Dependencies, rawMonth string, today time.Time, asText bool) error {
	month := services.MonthStart(today)
	if strings.TrimSpace(rawMonth) != "" {
		parsed, err := time.ParseInLocation("2006-01", strings.TrimSpace(rawMonth), time.UTC)
		if err != nil {
			return fmt.Errorf("invalid month %q: %w", rawMonth, err)
		}
		month = parsed
	}

	snapshot, err := deps.Predictions.Refresh(ctx)
	if err != nil {
		return err
	}
	calendar := services.BuildCalendarMonth(snapshot, month, snapshot.Config.StartOfWeek, today)
	if !asText {
		return printJSON(out, calendar)
	}
	return writeCalendarText(out, calendar)
}

func writeCalendarText(out io.Writer, calendar services.CalendarMonth) error {
	var b strings.Builder
	b.WriteString(calendar.Month + "\n")
	for offset := 0; offset < 7; offset++ {
		fmt.Fprintf(&b, " %s  ", weekdayLabels[(calendar.StartOfWeek+offset)%7])
	}
	b.WriteString("\n")

	for _, week := range calendar.Weeks {
		for _, day := range week {
			if !day.InMonth {
				b.WriteString("     ")
				continue
			}
			fmt.Fprintf(&b, "%3d%s ", day.Day, dayMarker(day.Kind))
		}
		b.WriteString("\n")
	}
	b.WriteString("* period  ~ predicted period  o ovulation  + fertile\n")

	_, err := io.WriteString(out, b.String())
	return err
}

func dayMarker(kind models.DayKind) string {
	switch {
	case kind == models.DayPeriodPredicted:
		return "~"
	case kind.IsPeriod():
		return "*"
	case kind.IsOvulation():
		return "o"
	case kind.IsFertile():
		return "+"
	default:
		return " "
	}
}
