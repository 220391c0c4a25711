package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"closebook/internal/documents"
	"closebook/internal/forecast"
	"closebook/internal/reconciliation"
	"closebook/internal/tax"
)

const (
	priorJournalJSON = `[
		{"da_date": "20240105", "mn_bungae1": "4500", "cd_acctit": "81300", "nm_acctit": "접대비", "nm_trade": "스타벅스"},
		{"da_date": "20240106", "mn_bungae1": "5200", "cd_acctit": "81300", "nm_acctit": "접대비", "nm_trade": "스타벅스"}
	]`
	currentJournalJSON = `[
		{"da_date": "20250115", "mn_bungae2": 9000000, "cd_acctit": "40100", "nm_acctit": "상품매출"},
		{"da_date": "20250302", "mn_bungae1": 3000000, "cd_acctit": "81100", "nm_acctit": "복리후생비", "nm_trade": "본사"},
		{"da_date": "20250410", "mn_bungae1": 12000, "cd_acctit": "81300", "nm_acctit": "접대비", "nm_trade": "GS25"},
		{"da_date": "20251231", "mn_bungae2": 5000000, "cd_acctit": "40100", "nm_remark": "손익대체"}
	]`
	cardFeedJSON = `{"data": [
		{"da_sbook": "20250410", "mn_total": 12000, "ty_jungstat": 2, "nm_trade": "GS25"},
		{"da_sbook": "20250501", "mn_total": 45000, "ty_jungstat": 2, "nm_trade": "스타벅스", "nm_acctit_cha": "복리후생비", "bizcond": "음식점", "bizcate": "커피"},
		{"da_sbook": "20250502", "mn_total": 30000, "ty_jungstat": 1, "nm_trade": "쿠팡"}
	]}`
	incomeStatementJSON = `[
		{"nm_acctit": "매출액", "mn_btotal2": 10000000},
		{"nm_acctit": "매출원가", "mn_btotal2": 1},
		{"nm_acctit": "판매비와관리비", "mn_btotal2": 4000000}
	]`
)

func loadFixture(t *testing.T) *documents.Bundle {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		documents.DefaultPriorJournalFile:    priorJournalJSON,
		documents.DefaultCurrentJournalFile:  currentJournalJSON,
		documents.DefaultCardFeedFile:        cardFeedJSON,
		documents.DefaultIncomeStatementFile: incomeStatementJSON,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	return documents.NewLoader().Load(documents.DefaultPaths(dir))
}

func TestRunPipeline(t *testing.T) {
	r, err := Run(loadFixture(t), Options{MonthsElapsed: 9})
	require.NoError(t, err)

	assert.Len(t, r.Fingerprint, 64)
	assert.Len(t, r.Current, 3, "closing entry filtered")
	assert.Equal(t, "접대비", r.History["스타벅스"])

	assert.InDelta(t, 9_000_000, r.Revenue, 1e-6)
	assert.InDelta(t, 3_012_000, r.Expense, 1e-6)
	assert.InDelta(t, 10_000_000, r.PriorRevenue, 1e-6)
	assert.InDelta(t, 4_000_000, r.PriorExpense, 1e-6)

	assert.Equal(t, 45_000.0, r.Gap.TotalConfirmedGap)
	require.Len(t, r.Gap.Unmatched, 2)
	assert.Equal(t, "스타벅스", r.Gap.Unmatched[0].Merchant)
	assert.Equal(t, "전년도: 접대비", r.Gap.Unmatched[0].Hint)
	assert.Equal(t, "음식점 / 커피", r.Gap.Unmatched[0].Industry)
	assert.Equal(t, "미분류", r.Gap.Unmatched[1].Hint)

	assert.InDelta(t, 12_000_000, r.Forecast.ProjectedRevenue, 1e-3)
	assert.InDelta(t, 4_016_000, r.Forecast.RunRateExpense, 1e-6)
	assert.InDelta(t, 45_000, r.Forecast.ConfirmedGap, 1e-9)
	assert.InDelta(t, 3_012_000+45_000+(3_057_000.0/9*3), r.Landing.TotalExpense, 1e-6)

	require.Len(t, r.Scenarios, 4)
	s3, ok := r.Scenario(tax.RealisticConservative)
	require.True(t, ok)
	assert.InDelta(t, 4_076_000, s3.Breakdown.Expense, 1e-6)
	assert.InDelta(t, 7_924_000, s3.TaxableBase, 1e-3)
	assert.InDelta(t, 7_924_000*0.06*1.1, s3.PayableTax, 1e-3)
}

func TestRunIsDeterministic(t *testing.T) {
	b := loadFixture(t)
	first, err := Run(b, Options{MonthsElapsed: 9})
	require.NoError(t, err)
	second, err := Run(b, Options{MonthsElapsed: 9})
	require.NoError(t, err)

	assert.Equal(t, first.Gap, second.Gap)
	assert.Equal(t, first.Forecast, second.Forecast)
	assert.Equal(t, first.Scenarios, second.Scenarios)
}

func TestRunEmptyInputs(t *testing.T) {
	for name, b := range map[string]*documents.Bundle{
		"nil bundle":   nil,
		"empty bundle": {},
	} {
		t.Run(name, func(t *testing.T) {
			r, err := Run(b, Options{MonthsElapsed: 9})
			require.NoError(t, err)

			assert.Zero(t, r.Revenue)
			assert.Zero(t, r.Expense)
			assert.Zero(t, r.Gap.TotalConfirmedGap)
			assert.NotNil(t, r.Gap.Unmatched)
			assert.Empty(t, r.Gap.Unmatched)
			assert.Equal(t, 9, r.Forecast.MonthsElapsed)
			require.Len(t, r.Scenarios, 4)
			for _, s := range r.Scenarios {
				assert.Zero(t, s.PayableTax)
			}
		})
	}
}

func TestRunRejectsInvalidMonths(t *testing.T) {
	for _, months := range []int{0, -1, 13} {
		r, err := Run(loadFixture(t), Options{MonthsElapsed: months})
		assert.ErrorIs(t, err, forecast.ErrInvalidMonths, "months=%d", months)
		assert.Nil(t, r)
	}

	_, err := Run(&documents.Bundle{}, Options{})
	var cfgErr *forecast.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, 0, cfgErr.Value)
}

func TestRunOptions(t *testing.T) {
	r, err := Run(loadFixture(t), Options{
		MonthsElapsed: 9,
		Tolerance:     15_000,
		Labels:        reconciliation.EnglishLabels,
		Profile:       tax.Profile{OtherIncome: 1_000_000},
	})
	require.NoError(t, err)

	require.Len(t, r.Gap.Unmatched, 2)
	assert.Equal(t, "prior-period: 접대비", r.Gap.Unmatched[0].Hint)

	s1, ok := r.Scenario(tax.ExtremeConservative)
	require.True(t, ok)
	assert.InDelta(t, 12_000_000+1_000_000, s1.Breakdown.TotalIncome, 1e-3)
}
