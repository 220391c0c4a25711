package classify

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

// Suggestion is one account recommendation parsed from a model response.
type Suggestion struct {
	Merchant        string  `json:"merchant"`
	Account         string  `json:"account"`
	ModelConfidence string  `json:"model_confidence,omitempty"`
	Reason          string  `json:"reason,omitempty"`
	Confidence      float64 `json:"confidence"`
	ConfidenceBasis string  `json:"confidence_basis"`
}

// Field values are kept raw since models answer with strings, numbers or
// nested objects for the same key.
type detailedSuggestion struct {
	Account    json.RawMessage `json:"계정과목"`
	Confidence json.RawMessage `json:"신뢰도"`
	Reason     json.RawMessage `json:"근거"`

	AccountEN    json.RawMessage `json:"account"`
	ConfidenceEN json.RawMessage `json:"confidence"`
	ReasonEN     json.RawMessage `json:"reason"`
}

// looseText renders a JSON value as display text: strings unquoted,
// null as empty, anything else as its compact JSON form.
func looseText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return ""
	}
	if text := buf.String(); text != "null" {
		return text
	}
	return ""
}

// cleanResponse strips Markdown fences and any prose around the outermost
// JSON object.
func cleanResponse(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}
	return s
}

// ParseSuggestions reads either {"merchant": "account"} or
// {"merchant": {"계정과목": ..., "신뢰도": ..., "근거": ...}}.
// Entries of any other shape are skipped. Suggestions are sorted by
// merchant.
func ParseSuggestions(raw string) ([]Suggestion, error) {
	clean := cleanResponse(raw)
	if clean == "" {
		return nil, ErrEmptyResponse
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal([]byte(clean), &entries); err != nil {
		return nil, ErrNotJSON
	}

	suggestions := make([]Suggestion, 0, len(entries))
	for merchant, value := range entries {
		s := Suggestion{Merchant: strings.TrimSpace(merchant)}

		var account string
		if err := json.Unmarshal(value, &account); err == nil {
			s.Account = strings.TrimSpace(account)
		} else {
			var d detailedSuggestion
			if err := json.Unmarshal(value, &d); err != nil {
				continue
			}
			s.Account = firstNonEmpty(looseText(d.Account), looseText(d.AccountEN))
			s.ModelConfidence = firstNonEmpty(looseText(d.Confidence), looseText(d.ConfidenceEN))
			s.Reason = firstNonEmpty(looseText(d.Reason), looseText(d.ReasonEN))
		}

		if s.Merchant == "" || s.Account == "" {
			continue
		}
		suggestions = append(suggestions, s)
	}

	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].Merchant < suggestions[j].Merchant
	})
	return suggestions, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
