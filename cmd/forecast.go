package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"closebook/internal/engine"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project year-end revenue, expense and operating profit",
	Long: `Extrapolate the year from year-to-date actuals.

Revenue is the higher of the run-rate projection (YTD / months * 12) and the
trend projection (prior-year revenue scaled by this year's growth), so it is
never under-forecast. Expense is split into what is booked, what is missing
(the confirmed card gap) and what is still to come.`,
	Example: `  # Forecast after nine months
  closebook forecast --months 9

  # JSON output
  closebook forecast --json`,
	RunE: runForecast,
}

func init() {
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	run, err := runPipeline(cmd)
	if err != nil {
		return err
	}
	r := run.report

	if jsonOutput {
		return outputJSON(map[string]interface{}{
			"forecast":    r.Forecast,
			"landing":     r.Landing,
			"fingerprint": r.Fingerprint,
		})
	}

	printForecast(r)
	return nil
}

func printForecast(r *engine.Report) {
	f, l := r.Forecast, r.Landing

	banner(fmt.Sprintf("LANDING FORECAST (%d/12 months)", f.MonthsElapsed))

	section("REVENUE")
	fmt.Printf("YTD revenue:        %s\n", won(r.Revenue))
	fmt.Printf("Prior-year revenue: %s\n", won(r.PriorRevenue))
	fmt.Printf("Run-rate:           %s\n", won(f.RunRateRevenue))
	fmt.Printf("Trend:              %s", won(f.TrendRevenue))
	if f.GrowthRate > 0 {
		fmt.Printf(" (growth %s)", percent((f.GrowthRate-1)*100))
	}
	fmt.Println()
	fmt.Printf("Projected:          %s [%s]\n", won(f.ProjectedRevenue), f.Method)
	fmt.Println()

	section("EXPENSE")
	fmt.Printf("Booked:             %s\n", won(l.Booked))
	fmt.Printf("Missing (card gap): %s\n", won(l.Missing))
	fmt.Printf("Future:             %s (%d months left)\n", won(l.Future), 12-f.MonthsElapsed)
	fmt.Printf("Projected total:    %s\n", won(l.TotalExpense))
	fmt.Println()

	section("RESULT")
	fmt.Printf("Operating profit:   %s\n", won(l.OperatingProfit))
}
