// Package dateutil handles the 8-digit YYYYMMDD date keys the archive is
// partitioned by: parsing, arithmetic, and calendar-ordered iteration.
package dateutil

import (
	"errors"
	"fmt"
	"time"
)

// KeyLayout is the time layout of an archive date key.
const KeyLayout = "20060102"

// ErrInvalidDateFormat is returned when a date key is not exactly 8 digits or
// does not name a real calendar date.
var ErrInvalidDateFormat = errors.New("invalid date format, want YYYYMMDD")

// ParseKey parses a YYYYMMDD key into a UTC time at midnight. It rejects
// anything that is not exactly 8 digits or does not exist on the calendar
// (e.g. 20230230).
func ParseKey(key string) (time.Time, error) {
	if len(key) != 8 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, key)
	}
	for _, c := range key {
		if c < '0' || c > '9' {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, key)
		}
	}
	t, err := time.ParseInLocation(KeyLayout, key, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, key)
	}
	return t, nil
}

// FormatKey formats t as a YYYYMMDD key in t's own location.
func FormatKey(t time.Time) string {
	return t.Format(KeyLayout)
}

// AddDays returns the key n days after (or before, for negative n) the given
// key, handling month, year and leap-day rollover.
func AddDays(key string, n int) (string, error) {
	t, err := ParseKey(key)
	if err != nil {
		return "", err
	}
	return FormatKey(t.AddDate(0, 0, n)), nil
}

// DaysBetween returns b minus a in whole days. The result is negative when b
// is before a.
func DaysBetween(a, b string) (int, error) {
	ta, err := ParseKey(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseKey(b)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}

// IsOnOrBefore reports whether a is the same day as or earlier than b.
// Fixed-width keys compare lexicographically in calendar order, but both
// arguments are still validated.
func IsOnOrBefore(a, b string) (bool, error) {
	if _, err := ParseKey(a); err != nil {
		return false, err
	}
	if _, err := ParseKey(b); err != nil {
		return false, err
	}
	return a <= b, nil
}

// Cursor walks calendar dates from start to end inclusive, one day at a time
// in ascending order. A cursor whose start is after its end yields no dates;
// that is the documented behavior for an empty range, not an error.
type Cursor struct {
	start time.Time
	end   time.Time
	next  time.Time
}

// NewCursor builds a cursor over [start, end]. Both bounds must be valid
// YYYYMMDD keys.
func NewCursor(start, end string) (*Cursor, error) {
	ts, err := ParseKey(start)
	if err != nil {
		return nil, err
	}
	te, err := ParseKey(end)
	if err != nil {
		return nil, err
	}
	return &Cursor{start: ts, end: te, next: ts}, nil
}

// Next returns the next date key in the range and true, or "" and false once
// the range is exhausted.
func (c *Cursor) Next() (string, bool) {
	if c.next.After(c.end) {
		return "", false
	}
	key := FormatKey(c.next)
	c.next = c.next.AddDate(0, 0, 1)
	return key, true
}

// Reset rewinds the cursor to its start date.
func (c *Cursor) Reset() {
	c.next = c.start
}

// Len returns how many dates the cursor covers in total, regardless of the
// current position. Zero when start is after end.
func (c *Cursor) Len() int {
	if c.start.After(c.end) {
		return 0
	}
	return int(c.end.Sub(c.start).Hours()/24) + 1
}

// Keys materializes the whole range [start, end] as a slice of date keys.
func Keys(start, end string) ([]string, error) {
	cur, err := NewCursor(start, end)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, cur.Len())
	for key, ok := cur.Next(); ok; key, ok = cur.Next() {
		keys = append(keys, key)
	}
	return keys, nil
}
