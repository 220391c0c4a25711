// Package engine runs the closing pipeline over one set of loaded
// documents: normalize, learn history, aggregate, reconcile, project and
// simulate.
//
// Run is a pure function of its inputs. It performs no I/O and fails only
// on misconfiguration; missing documents degrade to zero totals.
package engine

import (
	"github.com/rs/zerolog"

	"closebook/internal/documents"
	"closebook/internal/forecast"
	"closebook/internal/journal"
	"closebook/internal/logger"
	"closebook/internal/reconciliation"
	"closebook/internal/tax"
)

// Options tune a pipeline run. MonthsElapsed is required and must be
// within 1..12.
type Options struct {
	MonthsElapsed int
	Tolerance     int64
	Labels        reconciliation.Labels
	Profile       tax.Profile
}

// Report is everything the presentation layer shows for one run.
type Report struct {
	Fingerprint string `json:"fingerprint"`

	Revenue      float64 `json:"ytd_revenue"`
	Expense      float64 `json:"ytd_expense"`
	PriorRevenue float64 `json:"prior_revenue"`
	PriorExpense float64 `json:"prior_expense"`

	Gap       reconciliation.Result `json:"gap"`
	Forecast  forecast.Forecast     `json:"forecast"`
	Landing   forecast.Landing      `json:"landing"`
	Scenarios []tax.Result          `json:"scenarios"`

	// Journal rows kept for collaborators that learn from them.
	Current []journal.Transaction `json:"-"`
	Prior   []journal.Transaction `json:"-"`
	History journal.HistoryMap    `json:"-"`
}

// Scenario returns the result for s, if it was simulated.
func (r *Report) Scenario(s tax.Scenario) (tax.Result, bool) {
	for _, res := range r.Scenarios {
		if res.Scenario == s {
			return res, true
		}
	}
	return tax.Result{}, false
}

// Run executes the pipeline over b.
func Run(b *documents.Bundle, opts Options) (*Report, error) {
	if b == nil {
		b = &documents.Bundle{}
	}
	log := logger.WithRun("engine", b.Fingerprint)
	if err := forecast.ValidateMonths("Run", opts.MonthsElapsed); err != nil {
		return nil, err
	}
	if opts.Labels.Statuses == nil {
		opts.Labels = reconciliation.KoreanLabels
	}

	normalizer := journal.NewNormalizer()
	prior := normalizer.Normalize(b.PriorJournal)
	current := normalizer.Normalize(b.CurrentJournal)
	history := journal.BuildHistory(prior)

	r := &Report{
		Fingerprint: b.Fingerprint,
		Current:     current,
		Prior:       prior,
		History:     history,
	}
	r.Revenue, r.Expense = journal.Financials(current)
	r.PriorRevenue, r.PriorExpense = journal.PriorPeriodTotals(normalizer.ParseIncomeStatement(b.IncomeStatement))

	cards := reconciliation.NewFeedReader().ReadCardTransactions(b.CardFeed)
	reconciler := reconciliation.NewReconciler(
		reconciliation.WithTolerance(opts.Tolerance),
		reconciliation.WithLabels(opts.Labels),
	)
	r.Gap = reconciler.Reconcile(current, cards, history)

	f, err := forecast.NewProjector().Project(forecast.Input{
		YTDRevenue:       r.Revenue,
		YTDExpense:       r.Expense,
		PriorYearRevenue: r.PriorRevenue,
		MonthsElapsed:    opts.MonthsElapsed,
		ConfirmedGap:     r.Gap.TotalConfirmedGap,
	})
	if err != nil {
		return nil, err
	}
	r.Forecast = f
	r.Landing = f.Landing()

	r.Scenarios, err = tax.NewSimulator(opts.Profile).SimulateAll(tax.InputFromForecast(f))
	if err != nil {
		return nil, err
	}

	logRun(log, r)
	return r, nil
}

func logRun(log zerolog.Logger, r *Report) {
	log.Info().
		Int("current_rows", len(r.Current)).
		Int("prior_rows", len(r.Prior)).
		Int("history_merchants", len(r.History)).
		Float64("ytd_revenue", r.Revenue).
		Float64("ytd_expense", r.Expense).
		Float64("confirmed_gap", r.Gap.TotalConfirmedGap).
		Int("unmatched", len(r.Gap.Unmatched)).
		Float64("projected_revenue", r.Forecast.ProjectedRevenue).
		Msg("Pipeline completed")
}
