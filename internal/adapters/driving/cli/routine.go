package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

var (
	routineStart     string
	routineDays      int
	routineFrequency string
	routineCategory  string
	routineDryRun    bool
	routinePublish   bool
)

var routineCmd = &cobra.Command{
	Use:   "routine",
	Short: "Turn routines into calendar events",
}

var routinePlanCmd = &cobra.Command{
	Use:   "plan <description>",
	Short: "Create events from a routine description",
	Long: `Parse a routine described in plain words and create one event per
activity per scheduled day. Ranges are limited to 1..90 days.

Examples:
  lifeops routine plan "gym at 7am and read at 9pm on weekdays" --days 14
  lifeops routine plan "morning routine" --dry-run`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRoutinePlan,
}

func init() {
	f := routinePlanCmd.Flags()
	f.StringVar(&routineStart, "start", "", "first day of the range (default today)")
	f.IntVar(&routineDays, "days", 0, "number of days (default from config)")
	f.StringVar(&routineFrequency, "frequency", "", "daily, weekly, weekdays or weekends")
	f.StringVar(&routineCategory, "category", "", "category for activities without a known one")
	f.BoolVar(&routineDryRun, "dry-run", false, "preview events without saving")
	f.BoolVar(&routinePublish, "publish", false, "also publish events to Google Calendar")

	routineCmd.AddCommand(routinePlanCmd)
	rootCmd.AddCommand(routineCmd)
}

func runRoutinePlan(cmd *cobra.Command, args []string) error {
	if err := requireService(routineService, "routine"); err != nil {
		return err
	}
	req := domain.RoutineRequest{
		Description: strings.Join(args, " "),
		Days:        routineDays,
		Frequency:   domain.Frequency(routineFrequency),
		CategoryID:  routineCategory,
		DryRun:      routineDryRun,
		Publish:     routinePublish,
	}
	if routineStart != "" {
		start, err := domain.ParseDate(routineStart)
		if err != nil {
			return fmt.Errorf("--start: %w", err)
		}
		req.Start = start
	}

	result, err := routineService.ParseRoutineToCalendar(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("routine failed: %w", err)
	}
	if jsonOutput {
		return writeJSON(cmd, result)
	}

	p := newPrinter(cmd)
	source := "parsed"
	if result.Plan.Template != "" {
		source = "template " + result.Plan.Template
	}
	if result.Plan.Fallback {
		source = "fallback"
	}
	p.line("%s, %s", p.paint(titleStyle, source), result.Plan.Frequency)
	for _, ev := range result.Plan.Schedule {
		p.line("  %s  %s %s", ev.At.Local().Format("Mon 2006-01-02 15:04"), ev.Title, p.paint(dimStyle, ev.Category))
	}
	if len(result.Published) > 0 {
		p.line("published %d event(s)", len(result.Published))
	}
	return printResult(cmd, &result.BulkOperationResult)
}
