// Package journal turns raw ledger exports into typed transactions and
// derives everything the engine learns from them: closing-entry
// filtering, prior-period account history, revenue and expense totals,
// and merchant classification patterns.
package journal

import (
	"strings"

	"github.com/rs/zerolog"

	"closebook/internal/documents"
	"closebook/internal/logger"
)

// Remark markers of book-closing entries: P&L closing, settlement, transfer.
var closingRemarkMarkers = []string{"손익", "결산", "대체"}

// Entry-type marker of settlement entries.
const closingEntryTypeMarker = "결산"

// Normalizer converts raw journal records into transactions.
type Normalizer struct {
	log zerolog.Logger
}

// NewNormalizer creates a journal normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{log: logger.WithComponent("journal-normalizer")}
}

// Normalize parses records and drops closing entries. Empty input yields
// an empty result.
func (n *Normalizer) Normalize(records []documents.Record) []Transaction {
	txs := n.Parse(records)
	kept := FilterClosing(txs)

	n.log.Info().
		Int("records", len(records)).
		Int("closing_entries", len(txs)-len(kept)).
		Int("transactions", len(kept)).
		Msg("Journal normalized")

	return kept
}

// Parse coerces every record into a Transaction. Malformed amounts and
// dates are logged and replaced with zero values.
func (n *Normalizer) Parse(records []documents.Record) []Transaction {
	if len(records) == 0 {
		return nil
	}

	txs := make([]Transaction, 0, len(records))
	for i, rec := range records {
		txs = append(txs, n.parseRecord(i, rec))
	}
	return txs
}

func (n *Normalizer) parseRecord(row int, rec documents.Record) Transaction {
	tx := Transaction{
		RawDate:     strings.TrimSpace(rec.String(documents.KeyDate)),
		AccountCode: strings.TrimSpace(rec.String(documents.KeyAccountCode)),
		AccountName: strings.TrimSpace(rec.String(documents.KeyAccountName)),
		Merchant:    rec.String(documents.KeyMerchant),
		Remark:      rec.String(documents.KeyRemark),
		EntryType:   rec.String(documents.KeyEntryType),
	}

	if tx.RawDate != "" {
		date, err := ParseDate(tx.RawDate)
		if err != nil {
			n.log.Warn().Err(err).Int("row", row).Msg("Invalid journal date, leaving unset")
		} else {
			tx.Date = date
		}
	}

	tx.Debit = n.amount(row, rec, documents.KeyDebit)
	tx.Credit = n.amount(row, rec, documents.KeyCredit)

	return tx
}

func (n *Normalizer) amount(row int, rec documents.Record, key string) float64 {
	v, err := rec.Number(key)
	if err != nil {
		n.log.Warn().
			Err(err).
			Int("row", row).
			Str("field", key).
			Msg("Non-numeric amount, using 0")
	}
	return v
}

// IsClosingEntry reports whether tx is a fiscal year-end closing entry:
// dated 12/31 with a closing remark or a settlement entry type.
func IsClosingEntry(tx Transaction) bool {
	if !tx.Date.IsFiscalYearEnd() {
		return false
	}
	for _, marker := range closingRemarkMarkers {
		if strings.Contains(tx.Remark, marker) {
			return true
		}
	}
	return strings.Contains(tx.EntryType, closingEntryTypeMarker)
}

// FilterClosing returns txs without closing entries. The input is not
// modified.
func FilterClosing(txs []Transaction) []Transaction {
	if len(txs) == 0 {
		return nil
	}

	kept := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if !IsClosingEntry(tx) {
			kept = append(kept, tx)
		}
	}
	return kept
}
