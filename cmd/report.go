package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"closebook/internal/export"
	"closebook/internal/logger"
	"closebook/internal/reconciliation"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the whole pipeline and print or export the closing report",
	Long: `Run gap, forecast and tax in one pass over the same documents and print the
combined report. The input fingerprint (SHA-256 of the loaded files) is
printed so identical runs can be recognised.

Optionally writes an XLSX workbook with Forecast, Card Gap and Tax Scenarios
sheets, and appends the gap list to Google Sheets.`,
	Example: `  # Console report
  closebook report

  # Export a workbook
  closebook report --xlsx closing-2025.xlsx

  # Full JSON report
  closebook report --json`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("xlsx", "", "Write the report workbook to this path")
	reportCmd.Flags().Bool("sheet", false, "Append the gap list to the Google Sheet at GOOGLE_SHEET_URL")
	reportCmd.Flags().Int("limit", 15, "Maximum gap rows printed (0 = all)")
}

func runReport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("report")

	xlsxPath, _ := cmd.Flags().GetString("xlsx")
	toSheet, _ := cmd.Flags().GetBool("sheet")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	run, err := runPipeline(cmd)
	if err != nil {
		return err
	}
	r := run.report

	if xlsxPath != "" {
		if err := export.NewWriter().Save(xlsxPath, r); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
		log.Info().Str("path", xlsxPath).Msg("Workbook written")
	}
	if toSheet {
		if err := publishGap(cmd.Context(), run, r.Gap.Unmatched); err != nil {
			return err
		}
	}

	if jsonOutput {
		return outputJSON(r)
	}

	fmt.Printf("Input fingerprint: %s\n\n", r.Fingerprint)
	printForecast(r)
	fmt.Println()
	printGap(r.Gap, reconciliation.Select(r.Gap.Unmatched, reconciliation.DefaultDisplayStatuses, limit))
	fmt.Println()
	printTax(r, r.Scenarios, false)

	if xlsxPath != "" {
		fmt.Printf("Workbook written to %s\n", xlsxPath)
	}
	return nil
}
