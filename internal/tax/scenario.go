package tax

import (
	"strings"

	"github.com/rs/zerolog"

	"closebook/internal/forecast"
	"closebook/internal/logger"
)

// Scenario identifies how much of the confirmed card gap is recognized.
type Scenario string

const (
	ExtremeConservative   Scenario = "S1"
	Conservative          Scenario = "S2"
	RealisticConservative Scenario = "S3"
	Strategic             Scenario = "S4"
)

// Scenarios lists every scenario in presentation order.
var Scenarios = []Scenario{ExtremeConservative, Conservative, RealisticConservative, Strategic}

const (
	strategicRevenueFactor = 0.95
	strategicYearEndSpend  = 4_000_000
	conservativeGapShare   = 0.5
)

var scenarioInfo = map[Scenario]struct {
	name, label, description string
}{
	ExtremeConservative:   {"extreme-conservative", "S1(극단적 보수)", "booked expense only, no card gap recognized"},
	Conservative:          {"conservative", "S2(보수적)", "half of the confirmed card gap recognized"},
	RealisticConservative: {"realistic-conservative", "S3(합리적 보수)", "annualized card gap recognized"},
	Strategic:             {"strategic", "S4(전략적)", "revenue down 5% plus 4,000,000 year-end spend on top of the annualized gap"},
}

// Name returns the scenario's long name.
func (s Scenario) Name() string { return scenarioInfo[s].name }

// Label returns the scenario's Korean display label.
func (s Scenario) Label() string { return scenarioInfo[s].label }

// Description explains what the scenario recognizes.
func (s Scenario) Description() string { return scenarioInfo[s].description }

// ParseScenario accepts an id ("S3", "s3") or a long name
// ("realistic-conservative").
func ParseScenario(v string) (Scenario, error) {
	v = strings.TrimSpace(v)
	for _, s := range Scenarios {
		if strings.EqualFold(v, string(s)) || strings.EqualFold(v, s.Name()) {
			return s, nil
		}
	}
	return "", &ScenarioError{Op: "ParseScenario", Scenario: v, Err: ErrUnknownScenario}
}

// Profile holds the per-filer constants that are supplied, never derived.
type Profile struct {
	OtherIncome       float64 `yaml:"other_income" json:"other_income"`
	StandardDeduction float64 `yaml:"standard_deduction" json:"standard_deduction"`
	DisallowedAddback float64 `yaml:"disallowed_expense_addback" json:"disallowed_expense_addback"`
}

// Input is what a simulation needs from the forecast.
type Input struct {
	ProjectedRevenue float64
	RunRateExpense   float64
	ConfirmedGap     float64
	MonthsElapsed    int
}

// InputFromForecast takes the simulation input from a projection.
func InputFromForecast(f forecast.Forecast) Input {
	return Input{
		ProjectedRevenue: f.ProjectedRevenue,
		RunRateExpense:   f.RunRateExpense,
		ConfirmedGap:     f.ConfirmedGap,
		MonthsElapsed:    f.MonthsElapsed,
	}
}

// Step is one bar of the tax waterfall.
type Step struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Total bool    `json:"total"`
}

// Breakdown explains how a taxable base was reached.
type Breakdown struct {
	Revenue     float64 `json:"revenue"`
	Expense     float64 `json:"expense"`
	TotalIncome float64 `json:"total_income"`
	Adjustment  float64 `json:"adjustment"`
	Waterfall   []Step  `json:"waterfall"`
}

// Result is the outcome of one scenario.
type Result struct {
	Scenario    Scenario  `json:"scenario"`
	Description string    `json:"description"`
	TaxableBase float64   `json:"taxable_base"`
	BracketTax  float64   `json:"bracket_tax"`
	PayableTax  float64   `json:"payable_tax"`
	Breakdown   Breakdown `json:"breakdown"`
}

// Simulator applies a bracket schedule to scenario-adjusted projections.
type Simulator struct {
	profile  Profile
	schedule Schedule
	log      zerolog.Logger
}

// NewSimulator creates a simulator for one filer.
func NewSimulator(profile Profile) *Simulator {
	return &Simulator{
		profile:  profile,
		schedule: DefaultSchedule,
		log:      logger.WithComponent("tax"),
	}
}

// Simulate computes the tax owed under scenario s.
func (sim *Simulator) Simulate(s Scenario, in Input) (Result, error) {
	const op = "Simulate"

	if _, ok := scenarioInfo[s]; !ok {
		return Result{}, &ScenarioError{Op: op, Scenario: string(s), Err: ErrUnknownScenario}
	}
	if err := forecast.ValidateMonths(op, in.MonthsElapsed); err != nil {
		return Result{}, WrapScenarioError(op, string(s), err)
	}

	annualGap := in.ConfirmedGap / float64(in.MonthsElapsed) * 12

	revenue := in.ProjectedRevenue
	expense := in.RunRateExpense
	switch s {
	case Conservative:
		expense += in.ConfirmedGap * conservativeGapShare
	case RealisticConservative:
		expense += annualGap
	case Strategic:
		revenue *= strategicRevenueFactor
		expense += annualGap + strategicYearEndSpend
	}

	p := sim.profile
	base := revenue + p.OtherIncome - expense - p.StandardDeduction + p.DisallowedAddback
	if base < 0 {
		base = 0
	}
	bracketTax := sim.schedule.TaxFor(base)
	payable := bracketTax * LocalSurtaxMultiplier

	r := Result{
		Scenario:    s,
		Description: s.Description(),
		TaxableBase: base,
		BracketTax:  bracketTax,
		PayableTax:  payable,
		Breakdown: Breakdown{
			Revenue:     revenue,
			Expense:     expense,
			TotalIncome: revenue + p.OtherIncome,
			Adjustment:  p.DisallowedAddback - p.StandardDeduction,
			Waterfall: []Step{
				{Label: "revenue", Value: revenue},
				{Label: "other income / addback", Value: p.OtherIncome + p.DisallowedAddback},
				{Label: "expense", Value: -expense},
				{Label: "deduction", Value: -p.StandardDeduction},
				{Label: "taxable base", Value: base, Total: true},
				{Label: "payable tax", Value: payable, Total: true},
			},
		},
	}

	sim.log.Debug().
		Str("scenario", string(s)).
		Float64("taxable_base", base).
		Float64("payable_tax", payable).
		Msg("Scenario simulated")

	return r, nil
}

// SimulateAll runs every scenario in order.
func (sim *Simulator) SimulateAll(in Input) ([]Result, error) {
	results := make([]Result, 0, len(Scenarios))
	for _, s := range Scenarios {
		r, err := sim.Simulate(s, in)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}
