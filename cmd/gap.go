package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"closebook/internal/logger"
	"closebook/internal/reconciliation"
	"closebook/internal/sheets"
)

var gapCmd = &cobra.Command{
	Use:   "gap",
	Short: "List card charges missing from the journal",
	Long: `Match the card-transaction feed against the current-period journal and list
every card charge with no journal entry on the same day for the same amount.

Only confirmed charges count toward the headline gap; the others are listed
for visibility. Each row carries a classification hint: the account the
merchant was booked to last year, else the feed's own suggestion.

Optional environment variables for --sheet:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string
  GOOGLE_SHEET_URL - Google Sheets URL to append the gap list to`,
	Example: `  # Confirmed and confirmable charges, largest first
  closebook gap

  # Every unmatched charge, top 20
  closebook gap --status all --limit 20

  # Allow a few won of difference and publish to Google Sheets
  closebook gap --tolerance 10 --sheet`,
	RunE: runGap,
}

func init() {
	rootCmd.AddCommand(gapCmd)

	gapCmd.Flags().StringSlice("status", []string{"confirmed", "confirmable"}, "Statuses to list: codes, names (ko or en) or all")
	gapCmd.Flags().Int("limit", 0, "Maximum rows to list (0 = all)")
	gapCmd.Flags().Bool("sheet", false, "Append the listed rows to the Google Sheet at GOOGLE_SHEET_URL")
}

func runGap(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("gap")

	statusNames, _ := cmd.Flags().GetStringSlice("status")
	limit, _ := cmd.Flags().GetInt("limit")
	toSheet, _ := cmd.Flags().GetBool("sheet")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	statuses, err := parseStatuses(statusNames)
	if err != nil {
		return err
	}

	run, err := runPipeline(cmd)
	if err != nil {
		return err
	}
	gap := run.report.Gap
	rows := reconciliation.Select(gap.Unmatched, statuses, limit)

	log.Info().
		Int("unmatched", len(gap.Unmatched)).
		Int("listed", len(rows)).
		Float64("confirmed_gap", gap.TotalConfirmedGap).
		Msg("Card gap computed")

	if toSheet {
		if err := publishGap(cmd.Context(), run, rows); err != nil {
			return err
		}
	}

	if jsonOutput {
		return outputJSON(map[string]interface{}{
			"total_confirmed_gap": gap.TotalConfirmedGap,
			"unmatched_count":     len(gap.Unmatched),
			"records":             rows,
			"fingerprint":         run.report.Fingerprint,
		})
	}

	printGap(gap, rows)
	return nil
}

func printGap(gap reconciliation.Result, rows []reconciliation.Record) {
	banner("CARD GAP")
	fmt.Printf("Confirmed gap: %s\n", won(gap.TotalConfirmedGap))
	fmt.Printf("Unmatched card charges: %d (listed: %d)\n", len(gap.Unmatched), len(rows))
	fmt.Println()

	if len(rows) == 0 {
		fmt.Println("No unmatched card charges.")
		return
	}

	fmt.Printf("%-10s  %-24s  %16s  %-10s  %s\n", "Date", "Merchant", "Amount", "Status", "Hint")
	fmt.Println(strings.Repeat("-", 80))
	for _, r := range rows {
		fmt.Printf("%-10s  %-24s  %16s  %-10s  %s\n",
			r.Date, truncateText(r.Merchant, 24), won(r.Amount), r.StatusLabel, r.Hint)
	}
}

// parseStatuses accepts numeric codes or status names in either locale.
// "all" disables the filter.
func parseStatuses(values []string) ([]reconciliation.Status, error) {
	var statuses []reconciliation.Status
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if strings.EqualFold(v, "all") {
			return nil, nil
		}
		if code, err := strconv.Atoi(v); err == nil {
			statuses = append(statuses, reconciliation.Status(code))
			continue
		}
		if s, ok := reconciliation.EnglishLabels.FindStatus(v); ok {
			statuses = append(statuses, s)
			continue
		}
		if s, ok := reconciliation.KoreanLabels.FindStatus(v); ok {
			statuses = append(statuses, s)
			continue
		}
		return nil, fmt.Errorf("unknown card status %q", v)
	}
	return statuses, nil
}

func publishGap(ctx context.Context, run *pipelineRun, rows []reconciliation.Record) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := run.cfg
	if cfg.GoogleSheetURL == "" {
		return fmt.Errorf("GOOGLE_SHEET_URL environment variable is required")
	}

	svc, err := sheets.NewSheetsService(ctx, cfg.GoogleSheetURL, sheets.Credentials{
		File: cfg.GoogleCredentialsFile,
		JSON: cfg.GoogleCredentialsJSON,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Google Sheets service: %w", err)
	}
	if err := svc.WriteGapRecords(ctx, rows, cfg.GoogleSheetWorksheet, run.report.Fingerprint); err != nil {
		return fmt.Errorf("failed to publish gap list: %w", err)
	}
	return nil
}
