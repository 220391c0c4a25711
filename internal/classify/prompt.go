package classify

import (
	"encoding/json"
	"sort"
	"strings"
	"text/template"

	"closebook/internal/journal"
	"closebook/internal/reconciliation"
)

// Item is one unclassified card charge as shown to the model.
type Item struct {
	Merchant    string  `json:"거래처"`
	Industry    string  `json:"업종,omitempty"`
	Amount      float64 `json:"금액"`
	StatusLabel string  `json:"전표상태,omitempty"`
	History     string  `json:"전년도이력,omitempty"`
}

// ItemsFrom converts reconciliation records into prompt items.
func ItemsFrom(records []reconciliation.Record) []Item {
	items := make([]Item, 0, len(records))
	for _, r := range records {
		items = append(items, Item{
			Merchant:    r.Merchant,
			Industry:    r.Industry,
			Amount:      r.Amount,
			StatusLabel: r.StatusLabel,
			History:     r.Hint,
		})
	}
	return items
}

var promptTemplate = template.Must(template.New("classify").Parse(`
당신은 이 회사의 회계 담당자입니다. 과거 분개 패턴을 학습하여 신규 거래를 분류해주세요.

[이 회사의 과거 거래처별 계정 분류 패턴] (샘플 {{.PatternCount}}건)
{{.Patterns}}

[카테고리별 분류 사례]
<카페/커피>
{{.Cafe}}

<편의점/마트>
{{.Mart}}

<식당/음식>
{{.Food}}

[이 회사에서 자주 사용하는 계정과목 TOP 10]
{{.TopAccounts}}

위 패턴을 참고하여 다음 미분류 항목을 분류해주세요:
{{.Items}}

중요:
1. 과거 패턴에 정확히 일치하는 거래처가 있으면 그 계정을 우선 사용하세요.
2. 유사한 거래처 패턴을 참고하세요 (예: 카페류는 대부분 접대비).
3. 가능한 한 회사가 자주 사용하는 계정과목 범위 내에서 선택하세요.
4. 반드시 JSON 형식으로만 답변하세요.

[출력 형식]
{
  "거래처명": {
    "계정과목": "추천 계정과목",
    "신뢰도": "높음/중간/낮음",
    "근거": "선택 근거"
  }
}
`))

// BuildPrompt renders the classification prompt from the journal's
// learned patterns and the items to classify. At most patternLimit
// merchant patterns are included, in merchant order.
func BuildPrompt(patterns *journal.Patterns, items []Item, patternLimit int) (string, error) {
	sample := samplePatterns(patterns.MerchantAccounts(), patternLimit)
	sampleJSON, err := json.Marshal(sample)
	if err != nil {
		return "", err
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	err = promptTemplate.Execute(&b, map[string]interface{}{
		"PatternCount": len(sample),
		"Patterns":     string(sampleJSON),
		"Cafe":         patterns.CategoryExamples(journal.CafeKeywords, 2),
		"Mart":         patterns.CategoryExamples(journal.MartKeywords, 2),
		"Food":         patterns.CategoryExamples(journal.FoodKeywords, 2),
		"TopAccounts":  strings.Join(patterns.TopAccounts(10), ", "),
		"Items":        string(itemsJSON),
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

func samplePatterns(history journal.HistoryMap, limit int) map[string]string {
	merchants := make([]string, 0, len(history))
	for m := range history {
		merchants = append(merchants, m)
	}
	sort.Strings(merchants)
	if limit > 0 && len(merchants) > limit {
		merchants = merchants[:limit]
	}

	sample := make(map[string]string, len(merchants))
	for _, m := range merchants {
		sample[m] = history[m]
	}
	return sample
}
