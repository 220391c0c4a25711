package reconciliation

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"closebook/internal/documents"
	"closebook/internal/journal"
)

func day(y int, m time.Month, d int) journal.Date {
	return journal.Date{Year: y, Month: m, Day: d}
}

func TestReconcileGapCountsConfirmedOnly(t *testing.T) {
	txs := []journal.Transaction{
		{Date: day(2025, time.March, 2), Debit: 12_000},
	}
	cards := []CardTransaction{
		{SettlementDate: day(2025, time.March, 2), RawDate: "20250302", TotalAmount: 12_000, Status: StatusConfirmed, Merchant: "booked"},
		{SettlementDate: day(2025, time.March, 3), RawDate: "20250303", TotalAmount: 50_000, Status: StatusConfirmed, Merchant: "A"},
		{SettlementDate: day(2025, time.March, 4), RawDate: "20250304", TotalAmount: 30_000, Status: StatusUnrecommended, Merchant: "B"},
	}

	result := NewReconciler().Reconcile(txs, cards, nil)

	assert.Equal(t, 50_000.0, result.TotalConfirmedGap)
	require.Len(t, result.Unmatched, 2)
	assert.Equal(t, "A", result.Unmatched[0].Merchant)
	assert.Equal(t, "확정", result.Unmatched[0].StatusLabel)
	assert.Equal(t, "B", result.Unmatched[1].Merchant)
	assert.Equal(t, "미추천", result.Unmatched[1].StatusLabel)
}

func TestReconcileExactKeySemantics(t *testing.T) {
	txs := []journal.Transaction{
		{Date: day(2025, time.May, 10), Debit: 10_000.9},
	}

	tests := []struct {
		name    string
		card    CardTransaction
		matched bool
	}{
		{name: "fraction truncated on both sides", card: CardTransaction{SettlementDate: day(2025, time.May, 10), TotalAmount: 10_000.2}, matched: true},
		{name: "one unit off", card: CardTransaction{SettlementDate: day(2025, time.May, 10), TotalAmount: 10_001}, matched: false},
		{name: "different day", card: CardTransaction{SettlementDate: day(2025, time.May, 11), TotalAmount: 10_000}, matched: false},
		{name: "unparsed date", card: CardTransaction{RawDate: "5/10", TotalAmount: 10_000}, matched: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.card.Status = StatusConfirmed
			result := NewReconciler().Reconcile(txs, []CardTransaction{tt.card}, nil)
			assert.Equal(t, tt.matched, len(result.Unmatched) == 0)
		})
	}
}

func TestReconcileTruncatesTowardZero(t *testing.T) {
	assert.Equal(t, int64(-12), truncate(-12.7))
	assert.Equal(t, int64(12), truncate(12.7))
}

func TestReconcileWithTolerance(t *testing.T) {
	txs := []journal.Transaction{
		{Date: day(2025, time.May, 10), Debit: 10_000},
		{Date: day(2025, time.May, 10), Debit: 52_000},
	}
	cards := []CardTransaction{
		{SettlementDate: day(2025, time.May, 10), TotalAmount: 10_003, Status: StatusConfirmed},
		{SettlementDate: day(2025, time.May, 10), TotalAmount: 51_990, Status: StatusConfirmed},
		{SettlementDate: day(2025, time.May, 10), TotalAmount: 30_000, Status: StatusConfirmed},
	}

	exact := NewReconciler().Reconcile(txs, cards, nil)
	assert.Len(t, exact.Unmatched, 3)

	tolerant := NewReconciler(WithTolerance(10)).Reconcile(txs, cards, nil)
	require.Len(t, tolerant.Unmatched, 1)
	assert.Equal(t, 30_000.0, tolerant.TotalConfirmedGap)
}

func TestReconcileHintPrecedence(t *testing.T) {
	txs := []journal.Transaction{{Date: day(2025, time.January, 1), Debit: 1}}
	history := journal.HistoryMap{"스타벅스": "접대비"}
	cards := []CardTransaction{
		{SettlementDate: day(2025, time.February, 1), Merchant: "스타벅스", SuggestedAccount: "복리후생비", TotalAmount: 5_000},
		{SettlementDate: day(2025, time.February, 1), Merchant: "쿠팡", SuggestedAccount: "소모품비", TotalAmount: 6_000},
		{SettlementDate: day(2025, time.February, 1), Merchant: "알수없음", TotalAmount: 7_000},
	}

	result := NewReconciler().Reconcile(txs, cards, history)
	require.Len(t, result.Unmatched, 3)

	assert.Equal(t, "전년도: 접대비", result.Unmatched[0].Hint)
	assert.Equal(t, "접대비", result.Unmatched[0].HistoryHint)
	assert.Equal(t, "추천: 소모품비", result.Unmatched[1].Hint)
	assert.Empty(t, result.Unmatched[1].HistoryHint)
	assert.Equal(t, "미분류", result.Unmatched[2].Hint)

	english := NewReconciler(WithLabels(EnglishLabels)).Reconcile(txs, cards, history)
	assert.Equal(t, "prior-period: 접대비", english.Unmatched[0].Hint)
	assert.Equal(t, "suggested: 소모품비", english.Unmatched[1].Hint)
	assert.Equal(t, "unclassified", english.Unmatched[2].Hint)
}

func TestReconcileEmptyInputs(t *testing.T) {
	txs := []journal.Transaction{{Date: day(2025, time.January, 1), Debit: 1}}
	cards := []CardTransaction{{SettlementDate: day(2025, time.January, 2), TotalAmount: 1, Status: StatusConfirmed}}

	for name, result := range map[string]Result{
		"no journal": NewReconciler().Reconcile(nil, cards, nil),
		"no cards":   NewReconciler().Reconcile(txs, nil, nil),
		"nothing":    NewReconciler().Reconcile(nil, nil, nil),
	} {
		t.Run(name, func(t *testing.T) {
			assert.Zero(t, result.TotalConfirmedGap)
			assert.Empty(t, result.Unmatched)
			assert.NotNil(t, result.Unmatched)
		})
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	txs := []journal.Transaction{{Date: day(2025, time.January, 1), Debit: 1}}
	cards := []CardTransaction{
		{SettlementDate: day(2025, time.January, 2), TotalAmount: 0.1, Status: StatusConfirmed},
		{SettlementDate: day(2025, time.January, 3), TotalAmount: 0.2, Status: StatusConfirmed},
	}

	r := NewReconciler()
	first := r.Reconcile(txs, cards, nil)
	second := r.Reconcile(txs, cards, nil)

	assert.Equal(t, first, second)
	assert.Equal(t, 0.3, first.TotalConfirmedGap)
}

func TestReadCardTransactions(t *testing.T) {
	feed, err := documents.DecodeFeed([]byte(`{"data": [
		{"da_sbook": "20250302", "mn_total": 45000, "ty_jungstat": 2, "nm_trade": " 스타벅스 ",
		 "bizcond": "음식점", "bizcate": "커피", "nm_acctit_cha": "복리후생비"},
		{"da_sbook": 20250303, "mn_total": "oops", "ty_jungstat": "3", "nm_trade": "GS25"},
		{"da_sbook": "", "ty_jungstat": 9}
	]}`))
	require.NoError(t, err)

	cards := NewFeedReader().ReadCardTransactions(feed)
	require.Len(t, cards, 3)

	assert.Equal(t, CardTransaction{
		SettlementDate:    day(2025, time.March, 2),
		RawDate:           "20250302",
		TotalAmount:       45_000,
		Status:            StatusConfirmed,
		Merchant:          "스타벅스",
		BusinessCondition: "음식점",
		BusinessCategory:  "커피",
		SuggestedAccount:  "복리후생비",
	}, cards[0])
	assert.Equal(t, "음식점 / 커피", cards[0].Industry())

	assert.Equal(t, day(2025, time.March, 3), cards[1].SettlementDate)
	assert.Zero(t, cards[1].TotalAmount)
	assert.Equal(t, StatusConfirmable, cards[1].Status)
	assert.Equal(t, "", cards[1].Industry())

	assert.True(t, cards[2].SettlementDate.IsZero())
	assert.Equal(t, Status(9), cards[2].Status)
}

func TestReadCardTransactionsEmpty(t *testing.T) {
	assert.Empty(t, NewFeedReader().ReadCardTransactions(nil))

	var feed documents.Feed
	require.NoError(t, json.Unmarshal([]byte(`[]`), &feed))
	assert.Empty(t, NewFeedReader().ReadCardTransactions(feed))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "삭제전표", KoreanLabels.StatusName(StatusDeleted))
	assert.Equal(t, "기타(4)", KoreanLabels.StatusName(4))
	assert.Equal(t, "other(0)", EnglishLabels.StatusName(0))
	assert.Equal(t, EnglishLabels, LabelsFor("EN"))
	assert.Equal(t, KoreanLabels, LabelsFor(""))

	status, ok := KoreanLabels.FindStatus("확정가능")
	assert.True(t, ok)
	assert.Equal(t, StatusConfirmable, status)

	_, ok = EnglishLabels.FindStatus("pending")
	assert.False(t, ok)
}

func TestSelect(t *testing.T) {
	records := []Record{
		{Merchant: "a", Amount: 100, Status: StatusConfirmed},
		{Merchant: "b", Amount: 300, Status: StatusUnrecommended},
		{Merchant: "c", Amount: 200, Status: StatusConfirmable},
		{Merchant: "d", Amount: 200, Status: StatusConfirmed},
	}

	got := Select(records, DefaultDisplayStatuses, 0)
	merchants := make([]string, 0, len(got))
	for _, r := range got {
		merchants = append(merchants, r.Merchant)
	}
	assert.Equal(t, []string{"c", "d", "a"}, merchants)

	assert.Len(t, Select(records, nil, 0), 4)
	assert.Len(t, Select(records, nil, 2), 2)
	assert.Equal(t, "b", Select(records, nil, 1)[0].Merchant)
	assert.Equal(t, "a", records[0].Merchant, "input must not be reordered")
}
