package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildHistoryKeepsMode(t *testing.T) {
	txs := []Transaction{
		{Merchant: "스타벅스", AccountName: "접대비"},
		{Merchant: " 스타벅스 ", AccountName: "복리후생비"},
		{Merchant: "스타벅스", AccountName: "복리후생비"},
		{Merchant: "쿠팡", AccountName: "소모품비"},
		{Merchant: "", AccountName: "잡비"},
		{Merchant: "   ", AccountName: "잡비"},
		{Merchant: "무계정", AccountName: ""},
	}

	history := BuildHistory(txs)

	assert.Equal(t, HistoryMap{
		"스타벅스": "복리후생비",
		"쿠팡":   "소모품비",
	}, history)
}

func TestBuildHistoryTieGoesToFirstSeen(t *testing.T) {
	txs := []Transaction{
		{Merchant: "GS25", AccountName: "소모품비"},
		{Merchant: "GS25", AccountName: "복리후생비"},
		{Merchant: "GS25", AccountName: "복리후생비"},
		{Merchant: "GS25", AccountName: "소모품비"},
	}

	for i := 0; i < 20; i++ {
		assert.Equal(t, "소모품비", BuildHistory(txs)["GS25"])
	}
}

func TestBuildHistoryEmpty(t *testing.T) {
	assert.Empty(t, BuildHistory(nil))
}

func TestHistoryLookupTrims(t *testing.T) {
	h := HistoryMap{"이디야": "회의비"}

	account, ok := h.Lookup("  이디야 ")
	assert.True(t, ok)
	assert.Equal(t, "회의비", account)

	_, ok = h.Lookup("투썸")
	assert.False(t, ok)
}
