// Package reconciliation matches card spending against the journal and
// reports the card charges that were never booked.
//
// Matching is exact on (settlement date, amount truncated toward zero)
// against (journal date, debit truncated toward zero). A difference of a
// single unit means no match unless a tolerance is configured.
package reconciliation

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"closebook/internal/journal"
	"closebook/internal/logger"
)

// Reconciler finds card transactions missing from the journal.
type Reconciler struct {
	tolerance int64
	labels    Labels
	log       zerolog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithTolerance lets a card row match a journal row of the same date whose
// truncated debit is within units of the card amount.
func WithTolerance(units int64) Option {
	return func(r *Reconciler) {
		if units > 0 {
			r.tolerance = units
		}
	}
}

// WithLabels sets the status and hint wording of produced records.
func WithLabels(l Labels) Option {
	return func(r *Reconciler) {
		r.labels = l
	}
}

// NewReconciler creates a reconciler using exact matching and Korean labels
// unless configured otherwise.
func NewReconciler(opts ...Option) *Reconciler {
	r := &Reconciler{
		labels: KoreanLabels,
		log:    logger.WithComponent("card-reconciler"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile returns every card transaction with no journal counterpart,
// classified with a hint, and the sum of those that are confirmed. An
// empty journal or card feed yields an empty result.
func (r *Reconciler) Reconcile(txs []journal.Transaction, cards []CardTransaction, history journal.HistoryMap) Result {
	result := Result{Unmatched: []Record{}}
	if len(txs) == 0 || len(cards) == 0 {
		r.log.Info().
			Int("journal", len(txs)).
			Int("cards", len(cards)).
			Msg("Nothing to reconcile")
		return result
	}

	index := newJournalIndex(txs, r.tolerance)
	gap := decimal.Zero

	for _, card := range cards {
		if index.matches(card.SettlementDate, truncate(card.TotalAmount)) {
			continue
		}

		result.Unmatched = append(result.Unmatched, r.buildRecord(card, history))
		if card.Status == StatusConfirmed {
			gap = gap.Add(decimal.NewFromFloat(card.TotalAmount))
		}
	}
	result.TotalConfirmedGap = gap.InexactFloat64()

	r.log.Info().
		Int("journal", len(txs)).
		Int("cards", len(cards)).
		Int("unmatched", len(result.Unmatched)).
		Float64("confirmed_gap", result.TotalConfirmedGap).
		Int64("tolerance", r.tolerance).
		Msg("Card reconciliation completed")

	return result
}

func (r *Reconciler) buildRecord(card CardTransaction, history journal.HistoryMap) Record {
	rec := Record{
		Date:        card.RawDate,
		Merchant:    card.Merchant,
		Industry:    card.Industry(),
		Amount:      card.TotalAmount,
		Status:      card.Status,
		StatusLabel: r.labels.StatusName(card.Status),
	}
	if !card.SettlementDate.IsZero() {
		rec.Date = card.SettlementDate.String()
	}

	switch account, ok := history.Lookup(card.Merchant); {
	case ok:
		rec.HistoryHint = account
		rec.Hint = fmt.Sprintf(r.labels.PriorPeriod, account)
	case card.SuggestedAccount != "":
		rec.Hint = fmt.Sprintf(r.labels.Suggested, card.SuggestedAccount)
	default:
		rec.Hint = r.labels.Unclassified
	}
	return rec
}

// truncate drops the fractional part of an amount, toward zero.
func truncate(amount float64) int64 {
	return int64(math.Trunc(amount))
}

type matchKey struct {
	date   journal.Date
	amount int64
}

// journalIndex holds the match keys of every dated journal row.
type journalIndex struct {
	exact     map[matchKey]struct{}
	byDate    map[journal.Date][]int64
	tolerance int64
}

func newJournalIndex(txs []journal.Transaction, tolerance int64) *journalIndex {
	ix := &journalIndex{
		exact:     make(map[matchKey]struct{}, len(txs)),
		byDate:    map[journal.Date][]int64{},
		tolerance: tolerance,
	}
	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}
		amount := truncate(tx.Debit)
		ix.exact[matchKey{date: tx.Date, amount: amount}] = struct{}{}
		if tolerance > 0 {
			ix.byDate[tx.Date] = append(ix.byDate[tx.Date], amount)
		}
	}
	for _, amounts := range ix.byDate {
		sort.Slice(amounts, func(i, j int) bool { return amounts[i] < amounts[j] })
	}
	return ix
}

func (ix *journalIndex) matches(date journal.Date, amount int64) bool {
	if date.IsZero() {
		return false
	}
	if _, ok := ix.exact[matchKey{date: date, amount: amount}]; ok {
		return true
	}
	if ix.tolerance == 0 {
		return false
	}

	amounts := ix.byDate[date]
	i := sort.Search(len(amounts), func(i int) bool { return amounts[i] >= amount-ix.tolerance })
	return i < len(amounts) && amounts[i] <= amount+ix.tolerance
}
