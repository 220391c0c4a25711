package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func patternJournal() []Transaction {
	return []Transaction{
		{Merchant: "스타벅스 강남점", AccountName: "접대비"},
		{Merchant: "스타벅스 역삼점", AccountName: "접대비"},
		{Merchant: "이디야커피", AccountName: "복리후생비"},
		{Merchant: "투썸플레이스", AccountName: "접대비"},
		{Merchant: "스타벅스 강남점", AccountName: "복리후생비"},
		{Merchant: "GS25 역삼", AccountName: "소모품비"},
		{Merchant: "쿠팡", AccountName: "소모품비"},
		{Merchant: "쿠팡", AccountName: "소모품비"},
	}
}

func TestSimilarMerchants(t *testing.T) {
	groups, err := NewPatterns(patternJournal()).SimilarMerchants(CafeKeywords)
	require.NoError(t, err)

	assert.Equal(t, []AccountMerchants{
		{Account: "접대비", Merchants: []string{"스타벅스 강남점", "스타벅스 역삼점", "투썸플레이스"}},
		{Account: "복리후생비", Merchants: []string{"이디야커피", "스타벅스 강남점"}},
	}, groups)
}

func TestSimilarMerchantsIgnoresCase(t *testing.T) {
	groups, err := NewPatterns(patternJournal()).SimilarMerchants("gs")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "소모품비", groups[0].Account)
}

func TestSimilarMerchantsInvalidPattern(t *testing.T) {
	_, err := NewPatterns(patternJournal()).SimilarMerchants("(")
	assert.Error(t, err)
}

func TestCategoryExamples(t *testing.T) {
	p := NewPatterns(patternJournal())

	assert.Equal(t,
		"접대비 (3건): 스타벅스 강남점, 스타벅스 역삼점, 투썸플레이스",
		p.CategoryExamples(CafeKeywords, 1))
	assert.Equal(t, "관련 패턴 없음", p.CategoryExamples(FoodKeywords, 2))
}

func TestTopAccounts(t *testing.T) {
	p := NewPatterns(patternJournal())

	assert.Equal(t, []string{"접대비", "소모품비"}, p.TopAccounts(2))
	assert.Equal(t, []string{"접대비", "소모품비", "복리후생비"}, p.TopAccounts(10))
	assert.Empty(t, NewPatterns(nil).TopAccounts(10))
}

func TestConfidence(t *testing.T) {
	p := NewPatterns(patternJournal())

	tests := []struct {
		name      string
		merchant  string
		suggested string
		want      float64
		basis     string
	}{
		{
			name:      "exact merchant",
			merchant:  "스타벅스 강남점",
			suggested: "접대비",
			want:      50,
			basis:     "동일 거래처 2건 중 1건이 해당 계정 사용",
		},
		{
			name:      "first word similarity",
			merchant:  "스타벅스 판교점",
			suggested: "접대비",
			want:      200.0 / 3,
			basis:     "유사 거래처('스타벅스' 포함) 3건 중 2건이 해당 계정 사용",
		},
		{
			name:      "no history",
			merchant:  "배달의민족",
			suggested: "복리후생비",
			want:      50,
			basis:     "과거 패턴 없음 (AI 일반 지식 기반)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, basis := p.Confidence(tt.merchant, tt.suggested)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.Equal(t, tt.basis, basis)
		})
	}

	got, basis := NewPatterns(nil).Confidence("쿠팡", "소모품비")
	assert.Zero(t, got)
	assert.Equal(t, "데이터 없음", basis)
}

func TestMerchantAccountsMatchesHistory(t *testing.T) {
	txs := patternJournal()
	assert.Equal(t, BuildHistory(txs), NewPatterns(txs).MerchantAccounts())
}
