package journal

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Keyword groups used to show the classifier how this company books
// common merchant categories.
const (
	CafeKeywords = "카페|커피|스타벅스|투썸|이디야"
	MartKeywords = "GS|CU|세븐|편의점|마트|쿠팡"
	FoodKeywords = "식당|음식점|배달|요기요"
)

const noPatternText = "관련 패턴 없음"

// Patterns answers classification questions about a journal.
type Patterns struct {
	txs []Transaction
}

// NewPatterns wraps a normalized journal for pattern queries.
func NewPatterns(txs []Transaction) *Patterns {
	return &Patterns{txs: txs}
}

// MerchantAccounts is the merchant to most-used account mapping of the
// journal, identical to BuildHistory.
func (p *Patterns) MerchantAccounts() HistoryMap {
	return BuildHistory(p.txs)
}

// AccountMerchants groups an account name with the distinct merchants
// booked against it, in first-seen order.
type AccountMerchants struct {
	Account   string
	Merchants []string
}

// SimilarMerchants returns, per account, the merchants whose name matches
// the case-insensitive pattern. Accounts appear in first-seen order.
func (p *Patterns) SimilarMerchants(pattern string) ([]AccountMerchants, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("SimilarMerchants: invalid pattern %q: %w", pattern, err)
	}

	var groups []AccountMerchants
	index := map[string]int{}
	seen := map[string]map[string]bool{}

	for _, tx := range p.txs {
		if tx.AccountName == "" || tx.Merchant == "" || !re.MatchString(tx.Merchant) {
			continue
		}
		i, ok := index[tx.AccountName]
		if !ok {
			i = len(groups)
			index[tx.AccountName] = i
			groups = append(groups, AccountMerchants{Account: tx.AccountName})
			seen[tx.AccountName] = map[string]bool{}
		}
		if !seen[tx.AccountName][tx.Merchant] {
			seen[tx.AccountName][tx.Merchant] = true
			groups[i].Merchants = append(groups[i].Merchants, tx.Merchant)
		}
	}
	return groups, nil
}

// CategoryExamples renders up to topN accounts used for merchants matching
// pattern, most merchants first, each with at most three example names.
func (p *Patterns) CategoryExamples(pattern string, topN int) string {
	groups, err := p.SimilarMerchants(pattern)
	if err != nil || len(groups) == 0 {
		return noPatternText
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].Merchants) > len(groups[j].Merchants)
	})
	if len(groups) > topN {
		groups = groups[:topN]
	}

	lines := make([]string, 0, len(groups))
	for _, g := range groups {
		examples := g.Merchants
		if len(examples) > 3 {
			examples = examples[:3]
		}
		lines = append(lines, fmt.Sprintf("%s (%d건): %s", g.Account, len(g.Merchants), strings.Join(examples, ", ")))
	}
	return strings.Join(lines, "\n")
}

// TopAccounts returns the n most frequently used account names. Equal
// counts keep first-seen order.
func (p *Patterns) TopAccounts(n int) []string {
	var counts accountCounts
	for _, tx := range p.txs {
		if tx.AccountName != "" {
			counts.add(tx.AccountName)
		}
	}

	accounts := append([]string(nil), counts.order...)
	sort.SliceStable(accounts, func(i, j int) bool {
		return counts.count[accounts[i]] > counts.count[accounts[j]]
	})
	if len(accounts) > n {
		accounts = accounts[:n]
	}
	return accounts
}

// Confidence estimates how well a suggested account fits a merchant from
// the journal's own history, as a percentage plus a short basis. Exact
// merchant matches are preferred; otherwise merchants containing the
// first word of the name are used; with no history the estimate is 50%.
func (p *Patterns) Confidence(merchant, suggested string) (float64, string) {
	if len(p.txs) == 0 {
		return 0, "데이터 없음"
	}

	if total, matching := p.ratio(func(tx Transaction) bool { return tx.Merchant == merchant }, suggested); total > 0 {
		return percent(matching, total), fmt.Sprintf("동일 거래처 %d건 중 %d건이 해당 계정 사용", total, matching)
	}

	if words := strings.Fields(merchant); len(words) > 0 {
		keyword := words[0]
		similar := func(tx Transaction) bool { return strings.Contains(tx.Merchant, keyword) }
		if total, matching := p.ratio(similar, suggested); total > 0 {
			return percent(matching, total), fmt.Sprintf("유사 거래처('%s' 포함) %d건 중 %d건이 해당 계정 사용", keyword, total, matching)
		}
	}

	return 50, "과거 패턴 없음 (AI 일반 지식 기반)"
}

func (p *Patterns) ratio(match func(Transaction) bool, account string) (total, matching int) {
	for _, tx := range p.txs {
		if !match(tx) {
			continue
		}
		total++
		if tx.AccountName == account {
			matching++
		}
	}
	return total, matching
}

func percent(part, total int) float64 {
	return float64(part) / float64(total) * 100
}
