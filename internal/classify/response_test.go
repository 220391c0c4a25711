package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSuggestionsFlat(t *testing.T) {
	got, err := ParseSuggestions(`{"스타벅스": "접대비", "GS25": "소모품비"}`)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "GS25", got[0].Merchant)
	assert.Equal(t, "소모품비", got[0].Account)
	assert.Equal(t, "스타벅스", got[1].Merchant)
}

func TestParseSuggestionsDetailedInFence(t *testing.T) {
	raw := "```json\n" +
		`{"쿠팡": {"계정과목": "소모품비", "신뢰도": "높음", "근거": "과거 패턴"}}` +
		"\n```"
	got, err := ParseSuggestions(raw)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Suggestion{Merchant: "쿠팡", Account: "소모품비", ModelConfidence: "높음", Reason: "과거 패턴"}, got[0])
}

func TestParseSuggestionsProseAround(t *testing.T) {
	got, err := ParseSuggestions(`Here you go: {"이디야": {"account": "복리후생비", "confidence": "low"}} hope it helps`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "복리후생비", got[0].Account)
	assert.Equal(t, "low", got[0].ModelConfidence)
}

func TestParseSuggestionsSkipsOddEntries(t *testing.T) {
	got, err := ParseSuggestions(`{"a": 3, "b": "", "": "접대비", "c": "여비교통비"}`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].Merchant)
}

func TestParseSuggestionsFailures(t *testing.T) {
	_, err := ParseSuggestions("   ")
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = ParseSuggestions("I cannot classify these.")
	assert.ErrorIs(t, err, ErrNotJSON)

	_, err = ParseSuggestions(`["not", "an", "object"]`)
	assert.ErrorIs(t, err, ErrNotJSON)
}

func TestParseSuggestionsNumericConfidence(t *testing.T) {
	raw := `{"스타벅스": {"계정과목": "접대비", "신뢰도": 0.9, "근거": null}, "GS25": "소모품비"}`
	got, err := ParseSuggestions(raw)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, Suggestion{Merchant: "GS25", Account: "소모품비"}, got[0])
	assert.Equal(t, Suggestion{Merchant: "스타벅스", Account: "접대비", ModelConfidence: "0.9"}, got[1])

	got, err = ParseSuggestions(`{"쿠팡": {"account": "소모품비", "confidence": 85, "reason": ["history", "keyword"]}}`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "85", got[0].ModelConfidence)
	assert.Equal(t, `["history","keyword"]`, got[0].Reason)
}
