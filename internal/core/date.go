package core

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Date is a calendar date with no time-of-day semantics. Everything in the
// store is kept as "YYYY-MM-DD" text, so comparisons are lexicographic and
// timezone-free.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var ErrInvalidDate = errors.New("invalid date")

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a strict "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	if !isoDateRe.MatchString(s) {
		return Date{}, ErrInvalidDate
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// NormalizeDateInput accepts either a strict "YYYY-MM-DD" string, which is
// passed through unchanged, or any RFC 3339 timestamp, which is reduced to
// its UTC date portion. Anything else is rejected.
func NormalizeDateInput(s string) (Date, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Date{}, ErrInvalidDate
	}
	if isoDateRe.MatchString(trimmed) {
		return ParseDate(trimmed)
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			t = t.UTC()
			return NewDate(t.Year(), int(t.Month()), t.Day()), nil
		}
	}
	return Date{}, ErrInvalidDate
}

// String renders the date in the stored "YYYY-MM-DD" form.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	return d.String() < o.String()
}

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool {
	return d.String() > o.String()
}

// Today returns the current calendar date in UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}
