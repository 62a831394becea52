package cli

import (
	"context"
	"io"
	"strconv"

	"github.com/arnowelzel/periodical/internal/api"
	"github.com/arnowelzel/periodical/internal/models"
	"github.com/arnowelzel/periodical/internal/services"
	"github.com/spf13/cobra"
)

var optionFlags = []struct {
	flag   string
	option string
	usage  string
}{
	{"period-length", models.OptionPeriodLength, "Days of bleeding assumed per cycle (1-14)"},
	{"luteal-length", models.OptionLutealLength, "Days from ovulation to the next period (>= 1)"},
	{"max-cycle-length", models.OptionMaxCycleLength, "Longest cycle accepted as plausible (>= 60)"},
	{"start-of-week", models.OptionStartOfWeek, "First weekday of the calendar, 0 = Sunday (0-6)"},
}

func init() {
	cmd := &cobra.Command{
		Use:   "options",
		Short: "Show or change the cycle options",
		Run:   runOptions,
	}
	for _, option := range optionFlags {
		cmd.Flags().Int(option.flag, 0, option.usage)
	}

	RootCmd.AddCommand(cmd)
}

func runOptions(cmd *cobra.Command, args []string) {
	changes := make(map[string]string)
	for _, option := range optionFlags {
		if cmd.Flags().Changed(option.flag) {
			value, _ := cmd.Flags().GetInt(option.flag)
			changes[option.option] = strconv.Itoa(value)
		}
	}

	s, err := openSession(nil)
	if err != nil {
		exitErr("open database", err)
	}
	defer s.Close()

	if err := updateOptions(cmd.Context(), cmd.OutOrStdout(), s.deps, changes); err != nil {
		exitErr("options", err)
	}
}

// updateOptions applies changes, if any, and prints the resulting config.
func updateOptions(ctx context.Context, out io.Writer, deps api.Dependencies, changes map[string]string) error {
	current, err := deps.Configs.Load(ctx)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		return printJSON(out, current)
	}

	updated, err := services.ParseCycleConfigInput(current, changes)
	if err != nil {
		return err
	}
	if err := deps.Configs.Save(ctx, updated); err != nil {
		return err
	}
	if _, err := deps.Predictions.Refresh(ctx); err != nil {
		return err
	}
	return printJSON(out, updated)
}
