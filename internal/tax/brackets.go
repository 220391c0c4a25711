// Package tax simulates year-end income tax under gap-recognition
// scenarios.
package tax

import "math"

// LocalSurtaxMultiplier adds the 10% local income tax on top of the
// national bracket tax.
const LocalSurtaxMultiplier = 1.1

// Bracket is one band of a progressive schedule. A base up to and
// including UpTo is taxed at base*Rate - Deduction.
type Bracket struct {
	UpTo      float64
	Rate      float64
	Deduction float64
}

// Schedule is an ascending list of brackets. The last bracket's UpTo
// must be +Inf.
type Schedule []Bracket

// DefaultSchedule is the progressive income tax schedule in won.
var DefaultSchedule = Schedule{
	{UpTo: 14_000_000, Rate: 0.06, Deduction: 0},
	{UpTo: 50_000_000, Rate: 0.15, Deduction: 1_260_000},
	{UpTo: 88_000_000, Rate: 0.24, Deduction: 5_760_000},
	{UpTo: 150_000_000, Rate: 0.35, Deduction: 15_440_000},
	{UpTo: math.Inf(1), Rate: 0.38, Deduction: 19_940_000},
}

// TaxFor returns the bracket tax for base. Non-positive bases owe nothing.
func (s Schedule) TaxFor(base float64) float64 {
	if base <= 0 {
		return 0
	}
	for _, b := range s {
		if base <= b.UpTo {
			return base*b.Rate - b.Deduction
		}
	}
	last := s[len(s)-1]
	return base*last.Rate - last.Deduction
}

// TaxFor applies DefaultSchedule.
func TaxFor(base float64) float64 {
	return DefaultSchedule.TaxFor(base)
}

// Payable returns the bracket tax with local surtax.
func Payable(base float64) float64 {
	return TaxFor(base) * LocalSurtaxMultiplier
}
