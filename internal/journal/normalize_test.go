package journal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"closebook/internal/documents"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "20251231", want: Date{2025, time.December, 31}},
		{in: " 2025-01-05 ", want: Date{2025, time.January, 5}},
		{in: "2025.03.09", want: Date{2025, time.March, 9}},
		{in: "2025/03/09", want: Date{2025, time.March, 9}},
		{in: "20250230", wantErr: true},
		{in: "1231", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDateString(t *testing.T) {
	assert.Equal(t, "20250105", Date{2025, time.January, 5}.String())
	assert.Equal(t, "", Date{}.String())
	assert.False(t, Date{}.IsFiscalYearEnd())
	assert.True(t, Date{2024, time.December, 31}.IsFiscalYearEnd())
}

func TestNormalizeCoercesFields(t *testing.T) {
	records := []documents.Record{
		{
			"da_date":      "20250105",
			"mn_bungae1":   json.Number("15000"),
			"mn_bungae2":   "abc",
			"cd_acctit":    json.Number("811"),
			"nm_acctit":    "복리후생비",
			"nm_trade":     "스타벅스",
			"nm_remark":    "커피",
			"nm_gubun_prn": "일반",
		},
		{"da_date": "not-a-date"},
	}

	txs := NewNormalizer().Normalize(records)
	require.Len(t, txs, 2)

	assert.Equal(t, Transaction{
		Date:        Date{2025, time.January, 5},
		RawDate:     "20250105",
		Debit:       15000,
		Credit:      0,
		AccountCode: "811",
		AccountName: "복리후생비",
		Merchant:    "스타벅스",
		Remark:      "커피",
		EntryType:   "일반",
	}, txs[0])

	assert.True(t, txs[1].Date.IsZero())
	assert.Equal(t, "not-a-date", txs[1].RawDate)
	assert.Zero(t, txs[1].Debit)
}

func TestNormalizeEmptyInput(t *testing.T) {
	n := NewNormalizer()
	assert.Empty(t, n.Normalize(nil))
	assert.Empty(t, n.Normalize([]documents.Record{}))
}

func TestIsClosingEntry(t *testing.T) {
	yearEnd := Date{2024, time.December, 31}
	dayBefore := Date{2024, time.December, 30}

	tests := []struct {
		name string
		tx   Transaction
		want bool
	}{
		{name: "P&L closing remark", tx: Transaction{Date: yearEnd, Remark: "손익 대체"}, want: true},
		{name: "settlement remark", tx: Transaction{Date: yearEnd, Remark: "기말 결산"}, want: true},
		{name: "transfer remark", tx: Transaction{Date: yearEnd, Remark: "계정 대체"}, want: true},
		{name: "settlement entry type", tx: Transaction{Date: yearEnd, EntryType: "결산분개"}, want: true},
		{name: "year end without marker", tx: Transaction{Date: yearEnd, Remark: "카드대금"}, want: false},
		{name: "marker before year end", tx: Transaction{Date: dayBefore, Remark: "손익"}, want: false},
		{name: "unknown date", tx: Transaction{RawDate: "xx1231", Remark: "손익"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsClosingEntry(tt.tx))
		})
	}
}

func TestFilterClosingIsIdempotent(t *testing.T) {
	yearEnd := Date{2024, time.December, 31}
	txs := []Transaction{
		{Date: Date{2024, time.March, 2}, Debit: 100},
		{Date: yearEnd, Remark: "손익", Credit: 900},
		{Date: yearEnd, Remark: "카드대금", Debit: 50},
		{Date: yearEnd, EntryType: "결산", Debit: 70},
	}

	once := FilterClosing(txs)
	twice := FilterClosing(once)

	require.Len(t, once, 2)
	assert.Equal(t, once, twice)
	assert.Len(t, txs, 4, "input must not be modified")
}
