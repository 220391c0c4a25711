// Package forecast projects year-end revenue and expense from
// year-to-date actuals.
package forecast

import (
	"github.com/rs/zerolog"

	"closebook/internal/logger"
)

// Method names the revenue projection that won.
type Method string

const (
	MethodRunRate Method = "run-rate"
	MethodTrend   Method = "trend"
)

// Input holds the actuals a projection is computed from.
type Input struct {
	YTDRevenue       float64
	YTDExpense       float64
	PriorYearRevenue float64
	MonthsElapsed    int
	ConfirmedGap     float64
}

// Forecast is the projection bundle handed to the tax simulator.
type Forecast struct {
	ProjectedRevenue float64 `json:"projected_revenue"`
	RunRateExpense   float64 `json:"run_rate_expense"`
	MonthsElapsed    int     `json:"months_elapsed"`

	RunRateRevenue float64 `json:"run_rate_revenue"`
	TrendRevenue   float64 `json:"trend_revenue"`
	GrowthRate     float64 `json:"growth_rate,omitempty"`
	Method         Method  `json:"method"`

	YTDRevenue   float64 `json:"ytd_revenue"`
	YTDExpense   float64 `json:"ytd_expense"`
	ConfirmedGap float64 `json:"confirmed_gap"`
}

// Landing splits the projected full-year expense into what is booked,
// what is missing from the books, and what is still to come.
type Landing struct {
	Booked          float64 `json:"booked"`
	Missing         float64 `json:"missing"`
	Future          float64 `json:"future"`
	TotalExpense    float64 `json:"total_expense"`
	OperatingProfit float64 `json:"operating_profit"`
}

// Projector computes forecasts.
type Projector struct {
	log zerolog.Logger
}

// NewProjector creates a forecast projector.
func NewProjector() *Projector {
	return &Projector{log: logger.WithComponent("forecast")}
}

// Project extrapolates the year. Projected revenue is the larger of the
// run-rate and trend projections so revenue is never under-forecast. The
// expense run-rate excludes the card gap; the tax simulator blends it in.
func (p *Projector) Project(in Input) (Forecast, error) {
	if err := ValidateMonths("Project", in.MonthsElapsed); err != nil {
		return Forecast{}, err
	}

	months := float64(in.MonthsElapsed)
	f := Forecast{
		MonthsElapsed:  in.MonthsElapsed,
		RunRateRevenue: annualize(in.YTDRevenue, months),
		RunRateExpense: annualize(in.YTDExpense, months),
		YTDRevenue:     in.YTDRevenue,
		YTDExpense:     in.YTDExpense,
		ConfirmedGap:   in.ConfirmedGap,
	}

	f.TrendRevenue = f.RunRateRevenue
	if in.PriorYearRevenue > 0 {
		priorToDate := in.PriorYearRevenue / 12 * months
		f.GrowthRate = in.YTDRevenue / priorToDate
		f.TrendRevenue = in.PriorYearRevenue * f.GrowthRate
	}

	f.ProjectedRevenue = f.RunRateRevenue
	f.Method = MethodRunRate
	if f.TrendRevenue > f.RunRateRevenue {
		f.ProjectedRevenue = f.TrendRevenue
		f.Method = MethodTrend
	}

	p.log.Info().
		Float64("run_rate_revenue", f.RunRateRevenue).
		Float64("trend_revenue", f.TrendRevenue).
		Float64("projected_revenue", f.ProjectedRevenue).
		Float64("run_rate_expense", f.RunRateExpense).
		Str("method", string(f.Method)).
		Int("months_elapsed", f.MonthsElapsed).
		Msg("Forecast projected")

	return f, nil
}

// Landing derives the full-year expense picture with the confirmed card
// gap recognized: future months burn at the gap-inclusive monthly rate.
func (f Forecast) Landing() Landing {
	l := Landing{
		Booked:  f.YTDExpense,
		Missing: f.ConfirmedGap,
	}
	if f.MonthsElapsed > 0 {
		monthlyBurn := (f.YTDExpense + f.ConfirmedGap) / float64(f.MonthsElapsed)
		l.Future = monthlyBurn * float64(12-f.MonthsElapsed)
	}
	l.TotalExpense = l.Booked + l.Missing + l.Future
	l.OperatingProfit = f.ProjectedRevenue - l.TotalExpense
	return l
}

func annualize(ytd, months float64) float64 {
	return ytd / months * 12
}
