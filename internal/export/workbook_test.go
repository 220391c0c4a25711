package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"closebook/internal/engine"
	"closebook/internal/forecast"
	"closebook/internal/reconciliation"
	"closebook/internal/tax"
)

func sampleReport(t *testing.T) *engine.Report {
	t.Helper()
	f, err := forecast.NewProjector().Project(forecast.Input{
		YTDRevenue:       90_000_000,
		YTDExpense:       36_000_000,
		PriorYearRevenue: 100_000_000,
		MonthsElapsed:    9,
		ConfirmedGap:     45_000,
	})
	require.NoError(t, err)
	scenarios, err := tax.NewSimulator(tax.Profile{}).SimulateAll(tax.InputFromForecast(f))
	require.NoError(t, err)

	return &engine.Report{
		Fingerprint: "abc123",
		Revenue:     90_000_000,
		Expense:     36_000_000,
		Forecast:    f,
		Landing:     f.Landing(),
		Scenarios:   scenarios,
		Gap: reconciliation.Result{
			TotalConfirmedGap: 45_000,
			Unmatched: []reconciliation.Record{
				{Date: "20250501", Merchant: "스타벅스", Amount: 45_000, StatusLabel: "확정", Hint: "전년도: 접대비"},
				{Date: "20250502", Merchant: "쿠팡", Amount: 30_000, StatusLabel: "미추천", Hint: "미분류"},
			},
		},
	}
}

func TestWriteToProducesAllSheets(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter().WriteTo(&buf, sampleReport(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetForecast, SheetCardGap, SheetTax}, f.GetSheetList())

	raw := excelize.Options{RawCellValue: true}

	gap, err := f.GetRows(SheetCardGap, raw)
	require.NoError(t, err)
	require.Len(t, gap, 5)
	assert.Equal(t, []string{"Date", "Merchant", "Industry", "Amount", "Status", "Hint"}, gap[0])
	assert.Equal(t, "스타벅스", gap[1][1])
	assert.Equal(t, "45000", gap[1][3])
	assert.Equal(t, "전년도: 접대비", gap[1][5])
	assert.Equal(t, "Total confirmed gap", gap[4][0])
	assert.Equal(t, "45000", gap[4][3])

	scenarios, err := f.GetRows(SheetTax, raw)
	require.NoError(t, err)
	require.Len(t, scenarios, 5)
	assert.Equal(t, "S1", scenarios[1][0])
	assert.Equal(t, "S4(전략적)", scenarios[4][1])

	fc, err := f.GetRows(SheetForecast, raw)
	require.NoError(t, err)
	assert.Equal(t, "YTD revenue", fc[1][0])
	assert.Equal(t, "90000000", fc[1][1])
	assert.Equal(t, "Growth rate", fc[len(fc)-1][0])
}

func TestSaveWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closing.xlsx")
	require.NoError(t, NewWriter().Save(path, sampleReport(t)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 3)
}

func TestWriteRequiresReport(t *testing.T) {
	err := NewWriter().WriteTo(&bytes.Buffer{}, nil)
	assert.ErrorIs(t, err, ErrNoReport)
}
