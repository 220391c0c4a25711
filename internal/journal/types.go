package journal

import "strings"

// Transaction is one normalized journal row.
type Transaction struct {
	Date        Date
	RawDate     string // original text, kept for display when Date is zero
	Debit       float64
	Credit      float64
	AccountCode string
	AccountName string
	Merchant    string
	Remark      string
	EntryType   string
}

// HasAccountPrefix reports whether the account code starts with any of
// the given prefixes.
func (t Transaction) HasAccountPrefix(prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(t.AccountCode, p) {
			return true
		}
	}
	return false
}

// HistoryMap maps a trimmed merchant name to the account most often
// booked against it in a prior period. A missing key means no history.
type HistoryMap map[string]string

// Lookup returns the learned account for merchant.
func (h HistoryMap) Lookup(merchant string) (string, bool) {
	account, ok := h[strings.TrimSpace(merchant)]
	return account, ok && account != ""
}

// IncomeStatementLine is one line item of the income statement.
type IncomeStatementLine struct {
	AccountName      string
	PriorPeriodTotal float64
}
