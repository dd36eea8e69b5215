// Package billingmonth models the calendar month an invoice bills for.
//
// The wire and storage form is "MM-YYYY". Everything else operates on the
// parsed (year, month) pair so ordering is always calendar ordering, never
// lexical string ordering.
package billingmonth

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

var ErrInvalidMonth = errors.New("invalid_month")

var monthPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])-(\d{4})$`)

// Month is a calendar (year, month) value.
type Month struct {
	Year  int
	Month time.Month
}

// Parse accepts the canonical "MM-YYYY" form, zero-padded month required.
func Parse(raw string) (Month, error) {
	groups := monthPattern.FindStringSubmatch(raw)
	if groups == nil {
		return Month{}, ErrInvalidMonth
	}
	var m, y int
	fmt.Sscanf(groups[1], "%d", &m)
	fmt.Sscanf(groups[2], "%d", &y)
	return Month{Year: y, Month: time.Month(m)}, nil
}

// String renders the canonical "MM-YYYY" form.
func (m Month) String() string {
	return fmt.Sprintf("%02d-%04d", int(m.Month), m.Year)
}

// Compare returns -1, 0 or 1 under calendar ordering.
func (m Month) Compare(other Month) int {
	switch {
	case m.Year < other.Year:
		return -1
	case m.Year > other.Year:
		return 1
	case m.Month < other.Month:
		return -1
	case m.Month > other.Month:
		return 1
	default:
		return 0
	}
}

// Before reports whether m is strictly earlier than other.
func (m Month) Before(other Month) bool {
	return m.Compare(other) < 0
}

// Days returns the number of days in the month, leap-year aware.
func (m Month) Days() int {
	first := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}

// FromTime truncates a timestamp to its calendar month.
func FromTime(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}
