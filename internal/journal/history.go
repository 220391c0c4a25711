package journal

import "strings"

// BuildHistory learns, for every non-empty merchant, the account name it
// was booked against most often. Ties go to the account seen first in
// input order. Rows without an account name are not counted.
func BuildHistory(txs []Transaction) HistoryMap {
	history := HistoryMap{}
	for merchant, counts := range countAccounts(txs) {
		if best := counts.mode(); best != "" {
			history[merchant] = best
		}
	}
	return history
}

// accountCounts tallies account names while remembering first-seen order.
type accountCounts struct {
	order []string
	count map[string]int
}

func (c *accountCounts) add(account string) {
	if c.count == nil {
		c.count = map[string]int{}
	}
	if _, seen := c.count[account]; !seen {
		c.order = append(c.order, account)
	}
	c.count[account]++
}

func (c *accountCounts) mode() string {
	best, bestCount := "", 0
	for _, account := range c.order {
		if n := c.count[account]; n > bestCount {
			best, bestCount = account, n
		}
	}
	return best
}

func countAccounts(txs []Transaction) map[string]*accountCounts {
	byMerchant := map[string]*accountCounts{}
	for _, tx := range txs {
		merchant := strings.TrimSpace(tx.Merchant)
		if merchant == "" || tx.AccountName == "" {
			continue
		}
		c, ok := byMerchant[merchant]
		if !ok {
			c = &accountCounts{}
			byMerchant[merchant] = c
		}
		c.add(tx.AccountName)
	}
	return byMerchant
}
