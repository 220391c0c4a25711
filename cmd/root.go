package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"closebook/internal/config"
	"closebook/internal/logger"
)

var version = "1.0.0"

// appConfig is set by Execute. A nil value means the environment did not
// validate; commands then surface that error.
var (
	appConfig    *config.Config
	appConfigErr error
)

var rootCmd = &cobra.Command{
	Use:   "closebook",
	Short: "closebook - year-end closing and tax forecast for the card-heavy small business",
	Long: `closebook reads the accounting system's JSON exports (journals, card feed,
income statement) and answers three questions before the books close:

  - which card charges were never booked (gap)
  - where revenue and expense will land at year end (forecast)
  - what the income tax bill looks like under four scenarios (tax)

Documents are read from DATA_DIR (default "jsons") using the export's
file names, or from explicit paths given as flags.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("closebook executed")

		fmt.Println("Welcome to closebook!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

// Execute runs the root command with the loaded configuration.
func Execute(cfg *config.Config, cfgErr error) {
	appConfig, appConfigErr = cfg, cfgErr
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("data-dir", "", "Directory or gs://bucket/prefix holding the default document files (default $DATA_DIR or jsons)")
	flags.StringSlice("prior", nil, "Prior-period journal file(s), used to learn merchant history")
	flags.StringSlice("current", nil, "Current-period journal file(s)")
	flags.String("cards", "", "Card-transaction feed file")
	flags.String("income-statement", "", "Income statement file with the prior-period column")
	flags.Int("months", config.DefaultMonthsElapsed, "Months elapsed in the fiscal year, 1-12 (overrides $MONTHS_ELAPSED)")
	flags.Int64("tolerance", -1, "Match card rows to journal rows within this many won (default $MATCH_TOLERANCE or 0)")
	flags.String("profile", "", "Filer profile YAML with other_income, standard_deduction, disallowed_expense_addback")
	flags.String("locale", "", "Label locale for statuses and hints: ko or en (default $LABEL_LOCALE or ko)")
	flags.Bool("json", false, "Output as JSON format")
}

func loadedConfig() (*config.Config, error) {
	if appConfigErr != nil {
		return nil, appConfigErr
	}
	if appConfig == nil {
		return config.Load()
	}
	return appConfig, nil
}
