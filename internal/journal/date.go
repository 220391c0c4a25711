package journal

import (
	"fmt"
	"strings"
	"time"
)

// Date is a calendar day. The zero value means the source date was missing
// or could not be parsed.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

var dateLayouts = []string{
	"20060102",
	"2006-01-02",
	"2006.01.02",
	"2006/01/02",
}

// ParseDate parses the ledger's YYYYMMDD encoding. Dashed, dotted and
// slashed ISO-order variants are accepted as well.
func ParseDate(s string) (Date, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return Date{}, fmt.Errorf("empty date string")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("unable to parse date: %s", s)
}

// DateOf returns the calendar day of t.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// IsFiscalYearEnd reports whether d falls on 12/31.
func (d Date) IsFiscalYearEnd() bool {
	return !d.IsZero() && d.Month == time.December && d.Day == 31
}

// String renders d in the ledger's YYYYMMDD encoding.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d%02d%02d", d.Year, int(d.Month), d.Day)
}
