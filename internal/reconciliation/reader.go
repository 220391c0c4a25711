package reconciliation

import (
	"strings"

	"github.com/rs/zerolog"

	"closebook/internal/documents"
	"closebook/internal/journal"
	"closebook/internal/logger"
)

// FeedReader converts card-feed records into card transactions.
type FeedReader struct {
	log zerolog.Logger
}

// NewFeedReader creates a card feed reader.
func NewFeedReader() *FeedReader {
	return &FeedReader{log: logger.WithComponent("card-feed-reader")}
}

// ReadCardTransactions parses every record of the feed. Malformed amounts
// and status codes are logged and read as zero; unparseable settlement
// dates leave SettlementDate unset so the row can never match.
func (fr *FeedReader) ReadCardTransactions(feed documents.Feed) []CardTransaction {
	if len(feed) == 0 {
		return nil
	}

	cards := make([]CardTransaction, 0, len(feed))
	for i, rec := range feed {
		cards = append(cards, fr.parseCardTransaction(i, rec))
	}

	fr.log.Info().
		Int("records", len(feed)).
		Msg("Card transactions read")

	return cards
}

func (fr *FeedReader) parseCardTransaction(row int, rec documents.Record) CardTransaction {
	card := CardTransaction{
		RawDate:           strings.TrimSpace(rec.String(documents.KeySettlementDate)),
		Merchant:          strings.TrimSpace(rec.String(documents.KeyMerchant)),
		BusinessCondition: strings.TrimSpace(rec.String(documents.KeyBusinessCondition)),
		BusinessCategory:  strings.TrimSpace(rec.String(documents.KeyBusinessCategory)),
		SuggestedAccount:  strings.TrimSpace(rec.String(documents.KeySuggestedAccount)),
	}

	if card.RawDate != "" {
		date, err := journal.ParseDate(card.RawDate)
		if err != nil {
			fr.log.Warn().Err(err).Int("row", row).Msg("Invalid settlement date, row cannot be matched")
		} else {
			card.SettlementDate = date
		}
	}

	amount, err := rec.Number(documents.KeyTotalAmount)
	if err != nil {
		fr.log.Warn().Err(err).Int("row", row).Msg("Non-numeric card amount, using 0")
	}
	card.TotalAmount = amount

	status, err := rec.Int(documents.KeyStatus)
	if err != nil {
		fr.log.Warn().Err(err).Int("row", row).Msg("Non-numeric status code, using 0")
	}
	card.Status = Status(status)

	return card
}
