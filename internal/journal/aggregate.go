package journal

import (
	"strings"

	"github.com/shopspring/decimal"

	"closebook/internal/documents"
)

// Account-code prefixes of the revenue and expense buckets.
const revenuePrefix = "4"

var expensePrefixes = []string{"5", "8", "9"}

// Income statement line markers.
const (
	grossRevenueMarker  = "매출액"
	costOfGoodsMarker   = "매출원가"
	nonOperatingExpense = "영업외비용"
)

var sgaMarkers = []string{"판매비와", "판관비"}

// Financials sums the revenue and expense buckets of a journal. Revenue is
// credit minus debit over account codes starting with 4; expense is debit
// minus credit over codes starting with 5, 8 or 9. Sums are exact, so the
// result does not depend on row order.
func Financials(txs []Transaction) (revenue, expense float64) {
	rev, exp := decimal.Zero, decimal.Zero
	for _, tx := range txs {
		switch {
		case tx.HasAccountPrefix(revenuePrefix):
			rev = rev.Add(decimal.NewFromFloat(tx.Credit).Sub(decimal.NewFromFloat(tx.Debit)))
		case tx.HasAccountPrefix(expensePrefixes...):
			exp = exp.Add(decimal.NewFromFloat(tx.Debit).Sub(decimal.NewFromFloat(tx.Credit)))
		}
	}
	return rev.InexactFloat64(), exp.InexactFloat64()
}

// ParseIncomeStatement coerces income statement records into line items.
func (n *Normalizer) ParseIncomeStatement(records []documents.Record) []IncomeStatementLine {
	if len(records) == 0 {
		return nil
	}

	lines := make([]IncomeStatementLine, 0, len(records))
	for i, rec := range records {
		lines = append(lines, IncomeStatementLine{
			AccountName:      rec.String(documents.KeyAccountName),
			PriorPeriodTotal: n.amount(i, rec, documents.KeyPriorPeriodTotal),
		})
	}
	return lines
}

// PriorPeriodTotals derives the prior confirmed-year baseline from the
// income statement. The gross revenue line sets revenue, with the last
// matching line winning; SG&A and non-operating expense lines accumulate
// into expense.
func PriorPeriodTotals(lines []IncomeStatementLine) (revenue, expense float64) {
	exp := decimal.Zero
	for _, line := range lines {
		name := line.AccountName
		switch {
		case strings.Contains(name, grossRevenueMarker) && !strings.Contains(name, costOfGoodsMarker):
			revenue = line.PriorPeriodTotal
		case containsAny(name, sgaMarkers), strings.Contains(name, nonOperatingExpense):
			exp = exp.Add(decimal.NewFromFloat(line.PriorPeriodTotal))
		}
	}
	return revenue, exp.InexactFloat64()
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
