package reconciliation

import (
	"fmt"
	"strings"

	"closebook/internal/journal"
)

// Status is the card feed's voucher status code.
type Status int

const (
	StatusUnrecommended Status = 1
	StatusConfirmed     Status = 2
	StatusConfirmable   Status = 3
	StatusDeleted       Status = 5
	StatusNonDeductible Status = 6
)

// CardTransaction is one row of the card-transaction feed.
type CardTransaction struct {
	SettlementDate    journal.Date
	RawDate           string
	TotalAmount       float64
	Status            Status
	Merchant          string
	BusinessCondition string
	BusinessCategory  string
	SuggestedAccount  string
}

// Industry renders "condition / category", or "" when both are blank.
func (c CardTransaction) Industry() string {
	if c.BusinessCondition == "" && c.BusinessCategory == "" {
		return ""
	}
	return c.BusinessCondition + " / " + c.BusinessCategory
}

// Record is one card transaction with no matching journal entry.
// Records are built fresh by every run and never modified afterwards.
type Record struct {
	Date        string  `json:"date"`
	Merchant    string  `json:"merchant"`
	Industry    string  `json:"industry"`
	Amount      float64 `json:"amount"`
	Status      Status  `json:"status"`
	StatusLabel string  `json:"status_label"`
	Hint        string  `json:"hint"`
	HistoryHint string  `json:"history_hint,omitempty"`
}

// Result is the outcome of reconciling a card feed against a journal.
type Result struct {
	// TotalConfirmedGap sums unmatched rows with StatusConfirmed only.
	TotalConfirmedGap float64  `json:"total_confirmed_gap"`
	Unmatched         []Record `json:"unmatched"`
}

// Labels renders status names and classification hints.
type Labels struct {
	Statuses     map[Status]string
	OtherStatus  string // format with one %d verb
	PriorPeriod  string // format with one %s verb
	Suggested    string // format with one %s verb
	Unclassified string
}

// KoreanLabels match the wording of the source accounting system.
var KoreanLabels = Labels{
	Statuses: map[Status]string{
		StatusUnrecommended: "미추천",
		StatusConfirmed:     "확정",
		StatusConfirmable:   "확정가능",
		StatusDeleted:       "삭제전표",
		StatusNonDeductible: "불공제",
	},
	OtherStatus:  "기타(%d)",
	PriorPeriod:  "전년도: %s",
	Suggested:    "추천: %s",
	Unclassified: "미분류",
}

// EnglishLabels are used when LABEL_LOCALE=en.
var EnglishLabels = Labels{
	Statuses: map[Status]string{
		StatusUnrecommended: "unrecommended",
		StatusConfirmed:     "confirmed",
		StatusConfirmable:   "confirmable",
		StatusDeleted:       "deleted",
		StatusNonDeductible: "non-deductible",
	},
	OtherStatus:  "other(%d)",
	PriorPeriod:  "prior-period: %s",
	Suggested:    "suggested: %s",
	Unclassified: "unclassified",
}

// LabelsFor returns the label set of a locale, defaulting to Korean.
func LabelsFor(locale string) Labels {
	if strings.EqualFold(locale, "en") {
		return EnglishLabels
	}
	return KoreanLabels
}

// StatusName renders a status code.
func (l Labels) StatusName(s Status) string {
	if name, ok := l.Statuses[s]; ok {
		return name
	}
	return fmt.Sprintf(l.OtherStatus, int(s))
}

// FindStatus maps a rendered status name back to its code.
func (l Labels) FindStatus(name string) (Status, bool) {
	for code, label := range l.Statuses {
		if strings.EqualFold(label, strings.TrimSpace(name)) {
			return code, true
		}
	}
	return 0, false
}
