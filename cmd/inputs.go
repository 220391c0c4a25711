package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"closebook/internal/config"
	"closebook/internal/documents"
	"closebook/internal/engine"
	"closebook/internal/logger"
	"closebook/internal/reconciliation"
)

// pipelineRun bundles what a command needs after the engine ran.
type pipelineRun struct {
	cfg    *config.Config
	labels reconciliation.Labels
	report *engine.Report
}

// documentPaths resolves flags over DATA_DIR defaults.
func documentPaths(cmd *cobra.Command, cfg *config.Config) documents.Paths {
	flags := cmd.Flags()

	dir, _ := flags.GetString("data-dir")
	if dir == "" {
		dir = cfg.DataDir
	}
	paths := documents.DefaultPaths(dir)

	if prior, _ := flags.GetStringSlice("prior"); len(prior) > 0 {
		paths.PriorJournal = prior
	}
	if current, _ := flags.GetStringSlice("current"); len(current) > 0 {
		paths.CurrentJournal = current
	}
	if cards, _ := flags.GetString("cards"); cards != "" {
		paths.CardFeed = cards
	}
	if is, _ := flags.GetString("income-statement"); is != "" {
		paths.IncomeStatement = is
	}
	return paths
}

// engineOptions resolves flags over the environment configuration.
func engineOptions(cmd *cobra.Command, cfg *config.Config) (engine.Options, reconciliation.Labels, error) {
	flags := cmd.Flags()

	opts := engine.Options{
		MonthsElapsed: cfg.MonthsElapsed,
		Tolerance:     cfg.MatchTolerance,
	}
	if f := flags.Lookup("months"); f != nil && f.Changed {
		opts.MonthsElapsed, _ = flags.GetInt("months")
	}
	if tolerance, _ := flags.GetInt64("tolerance"); tolerance >= 0 {
		opts.Tolerance = tolerance
	}

	labels := cfg.Labels()
	if locale, _ := flags.GetString("locale"); locale != "" {
		labels = reconciliation.LabelsFor(locale)
	}
	opts.Labels = labels

	profilePath, _ := flags.GetString("profile")
	if profilePath == "" {
		profilePath = cfg.FilerProfile
	}
	profile, err := config.LoadProfile(profilePath)
	if err != nil {
		return opts, labels, err
	}
	opts.Profile = profile

	return opts, labels, nil
}

// runPipeline loads the documents and runs the engine once.
func runPipeline(cmd *cobra.Command) (*pipelineRun, error) {
	log := logger.WithComponent("pipeline")

	cfg, err := loadedConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	opts, labels, err := engineOptions(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve options: %w", err)
	}
	applyProfileFlags(cmd, &opts)

	paths := documentPaths(cmd, cfg)
	log.Debug().
		Strs("prior", paths.PriorJournal).
		Strs("current", paths.CurrentJournal).
		Str("cards", paths.CardFeed).
		Str("income_statement", paths.IncomeStatement).
		Int("months", opts.MonthsElapsed).
		Int64("tolerance", opts.Tolerance).
		Msg("Resolved pipeline inputs")

	loader, closeLoader, err := newLoader(cmd.Context(), cfg, paths)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize document source: %w", err)
	}
	defer closeLoader()

	bundle := loader.LoadContext(cmd.Context(), paths)
	report, err := engine.Run(bundle, opts)
	if err != nil {
		return nil, fmt.Errorf("pipeline failed: %w", err)
	}

	return &pipelineRun{cfg: cfg, labels: labels, report: report}, nil
}

// newLoader attaches a Cloud Storage source when any path is gs://.
func newLoader(ctx context.Context, cfg *config.Config, paths documents.Paths) (*documents.Loader, func(), error) {
	if !paths.UsesGCS() {
		return documents.NewLoader(), func() {}, nil
	}

	var opts []option.ClientOption
	switch {
	case cfg.GoogleCredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.GoogleCredentialsJSON)))
	case cfg.GoogleCredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.GoogleCredentialsFile))
	}

	src, err := documents.NewGCSSource(ctx, opts...)
	if err != nil {
		return nil, nil, err
	}
	return documents.NewLoader(documents.WithGCS(src)), closerFor(src), nil
}

// closerFor wraps c so a failed Close is logged rather than returned.
func closerFor(c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			log := logger.WithComponent("pipeline")
			log.Warn().Err(err).Msg("Failed to close storage client")
		}
	}
}

// applyProfileFlags lets the tax command override single profile values.
func applyProfileFlags(cmd *cobra.Command, opts *engine.Options) {
	flags := cmd.Flags()
	if f := flags.Lookup("other-income"); f != nil && f.Changed {
		opts.Profile.OtherIncome, _ = flags.GetFloat64("other-income")
	}
	if f := flags.Lookup("deduction"); f != nil && f.Changed {
		opts.Profile.StandardDeduction, _ = flags.GetFloat64("deduction")
	}
	if f := flags.Lookup("addback"); f != nil && f.Changed {
		opts.Profile.DisallowedAddback, _ = flags.GetFloat64("addback")
	}
}
