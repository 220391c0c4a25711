package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"closebook/internal/engine"
	"closebook/internal/tax"
)

var taxCmd = &cobra.Command{
	Use:   "tax",
	Short: "Simulate the income tax bill under the four gap scenarios",
	Long: `Apply the progressive income tax schedule (plus 10% local surtax) to the
projected taxable base under four scenarios:

  S1 extreme-conservative   booked expense only
  S2 conservative           half of the confirmed card gap
  S3 realistic-conservative annualized card gap
  S4 strategic              revenue -5%, annualized gap plus 4,000,000 year-end spend

Filer constants come from the YAML profile (--profile or FILER_PROFILE) and
can be overridden per run.`,
	Example: `  # All scenarios
  closebook tax --profile filer.yaml

  # One scenario with a waterfall
  closebook tax --scenario S3 --other-income 7343097 --deduction 16581120 --addback 2535610`,
	RunE: runTax,
}

func init() {
	rootCmd.AddCommand(taxCmd)

	taxCmd.Flags().String("scenario", "", "Scenario to show in detail (S1-S4 or its name); all when empty")
	taxCmd.Flags().Float64("other-income", 0, "Other income outside the business")
	taxCmd.Flags().Float64("deduction", 0, "Standard personal deduction")
	taxCmd.Flags().Float64("addback", 0, "Disallowed expense addback")
}

func runTax(cmd *cobra.Command, args []string) error {
	scenarioName, _ := cmd.Flags().GetString("scenario")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	var selected *tax.Scenario
	if scenarioName != "" {
		s, err := tax.ParseScenario(scenarioName)
		if err != nil {
			return err
		}
		selected = &s
	}

	run, err := runPipeline(cmd)
	if err != nil {
		return err
	}
	r := run.report

	results := r.Scenarios
	if selected != nil {
		res, _ := r.Scenario(*selected)
		results = []tax.Result{res}
	}

	if jsonOutput {
		return outputJSON(map[string]interface{}{
			"scenarios":   results,
			"fingerprint": r.Fingerprint,
		})
	}

	printTax(r, results, selected != nil)
	return nil
}

func printTax(r *engine.Report, results []tax.Result, detailed bool) {
	banner("INCOME TAX SIMULATION")
	fmt.Printf("Projected revenue: %s   Run-rate expense: %s   Confirmed gap: %s\n",
		won(r.Forecast.ProjectedRevenue), won(r.Forecast.RunRateExpense), won(r.Gap.TotalConfirmedGap))
	fmt.Println()

	for _, res := range results {
		section(res.Scenario.Label())
		fmt.Printf("%s\n", res.Description)
		fmt.Printf("Taxable base: %s\n", won(res.TaxableBase))
		fmt.Printf("Payable tax:  %s (incl. local surtax)\n", won(res.PayableTax))
		if detailed {
			b := res.Breakdown
			fmt.Println()
			fmt.Printf("Total income: %s (revenue + other income)\n", won(b.TotalIncome))
			fmt.Printf("Total expense: %s\n", won(b.Expense))
			fmt.Printf("Adjustment:   %s (addback - deduction)\n", won(b.Adjustment))
			fmt.Println()
			for _, step := range b.Waterfall {
				marker := " "
				if step.Total {
					marker = "="
				}
				fmt.Printf("  %s %-24s %20s\n", marker, step.Label, won(step.Value))
			}
		}
		fmt.Println()
	}
}
