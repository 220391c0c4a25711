package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"closebook/internal/classify"
	"closebook/internal/journal"
	"closebook/internal/logger"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Ask an AI model to suggest accounts for unclassified card charges",
	Long: `Send a sample of the unmatched card charges that have no prior-period
account to a language model, together with the merchant patterns learned
from the journals, and print the suggested accounts.

Each suggestion is scored against the company's own history: the share of
past rows for the same (or a similar) merchant booked to that account.

A failed or unparseable model answer is reported, never fatal.

Required environment variables:
  GEMINI_API_KEY - Gemini API key (AI_PROVIDER=gemini, default), OR
  OPENAI_API_KEY - OpenAI API key (AI_PROVIDER=openai)
  AI_MODEL - Optional model override`,
	Example: `  # Classify up to 10 charges with Gemini
  closebook classify

  # Use OpenAI and a larger sample
  AI_PROVIDER=openai closebook classify --limit 25`,
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().Int("limit", classify.DefaultSampleSize, "Maximum records sent to the model")
	classifyCmd.Flags().Int("patterns", classify.DefaultPatternLimit, "Maximum learned merchant patterns in the prompt")
	classifyCmd.Flags().Duration("timeout", classify.DefaultTimeout, "Timeout for the model call")
	classifyCmd.Flags().Bool("raw", false, "Also print the raw model response")
}

func runClassify(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("classify-cmd")

	limit, _ := cmd.Flags().GetInt("limit")
	patternLimit, _ := cmd.Flags().GetInt("patterns")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	showRaw, _ := cmd.Flags().GetBool("raw")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	run, err := runPipeline(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var completer classify.Completer
	c, err := classify.NewCompleter(ctx, run.cfg.ProviderConfig())
	if err != nil {
		log.Warn().Err(err).Str("provider", run.cfg.AIProvider).Msg("AI provider unavailable")
	} else {
		completer = c
	}

	records := classify.Unclassified(run.report.Gap.Unmatched)
	history := append(append([]journal.Transaction(nil), run.report.Prior...), run.report.Current...)

	start := time.Now()
	outcome := classify.NewService(completer,
		classify.WithSampleSize(limit),
		classify.WithPatternLimit(patternLimit),
		classify.WithTimeout(timeout),
	).Enrich(ctx, records, history)

	log.Info().
		Int("candidates", len(records)).
		Int("sampled", outcome.Sampled).
		Int("suggestions", len(outcome.Suggestions)).
		Dur("duration", time.Since(start)).
		Msg("Classification finished")

	if jsonOutput {
		return outputJSON(outcome)
	}

	printClassification(outcome, len(records), showRaw)
	return nil
}

func printClassification(o classify.Outcome, candidates int, showRaw bool) {
	banner("AI ACCOUNT SUGGESTIONS")
	fmt.Printf("Unclassified charges: %d (sent: %d)\n", candidates, o.Sampled)
	fmt.Println()

	if o.Message != "" {
		fmt.Printf("⚠️  %s\n", o.Message)
	}
	for _, s := range o.Suggestions {
		fmt.Printf("%-24s → %s", truncateText(s.Merchant, 24), s.Account)
		if s.ModelConfidence != "" {
			fmt.Printf(" (model: %s)", s.ModelConfidence)
		}
		fmt.Println()
		fmt.Printf("    history: %s, %s\n", percent(s.Confidence), s.ConfidenceBasis)
		if s.Reason != "" {
			fmt.Printf("    reason:  %s\n", s.Reason)
		}
	}

	if (showRaw || len(o.Suggestions) == 0) && o.Raw != "" {
		fmt.Println()
		section("RAW RESPONSE")
		fmt.Println(o.Raw)
	}
}
