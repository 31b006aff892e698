package core

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Date is a calendar date with no time-of-day component.
type Date struct {
	time.Time
}

// NewDateOf creates a Date from year, month, day.
func NewDateOf(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDateOf(y, m, d)
}

// String returns the canonical YYYY-MM-DD form.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// MarshalJSON renders the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, ok := NormalizeDate(s)
	if !ok {
		return fmt.Errorf("invalid date %q", s)
	}
	*d = parsed
	return nil
}

// dateLayouts is the set of raw date formats the spreadsheet has been seen
// to contain. Tried in order; the first match wins.
var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"2006.01.02",
	"2006.1.2",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006년 1월 2일",
	"2006년 01월 02일",
	"01/02/2006",
	"Jan 2, 2006",
}

// NormalizeDate parses a raw spreadsheet cell into a calendar date,
// discarding any time-of-day component. Unparseable input yields
// (Date{}, false); callers drop such rows from date-bucketed tables
// rather than propagating an absent date into aggregations.
func NormalizeDate(raw any) (Date, bool) {
	switch v := raw.(type) {
	case time.Time:
		return DateOf(v), true
	case Date:
		return v, !v.IsZero()
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return Date{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return DateOf(t), true
			}
		}
		return Date{}, false
	default:
		return Date{}, false
	}
}

// Month is a year-month bucket, the primary grouping key for monthly views.
// Its canonical form is "YYYY-MM". Buckets are always derived from a
// normalized date, never read from the sheet.
type Month time.Time

// NewMonth returns the bucket for a year and month.
func NewMonth(year int, month time.Month) Month {
	return Month(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// MonthOf returns the bucket a date falls in.
func MonthOf(d Date) Month {
	return NewMonth(d.Year(), d.Time.Month())
}

// ParseMonth parses a "YYYY-MM" string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, err
	}
	return NewMonth(t.Year(), t.Month()), nil
}

// String returns the bucket formatted as YYYY-MM.
func (m Month) String() string {
	t := time.Time(m)
	return fmt.Sprintf("%04d-%02d", t.Year(), t.Month())
}

// IsZero reports whether the bucket is unset.
func (m Month) IsZero() bool {
	return time.Time(m).IsZero()
}

// Equal reports whether two buckets name the same year and month.
func (m Month) Equal(n Month) bool {
	a, b := time.Time(m), time.Time(n)
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// Bounds returns the first instant of the month and of the next month.
func (m Month) Bounds() (from, to time.Time) {
	t := time.Time(m)
	from = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// MarshalJSON renders the bucket as "YYYY-MM".
func (m Month) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts a "YYYY-MM" string.
func (m *Month) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseMonth(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Scan reads the bucket from a database value.
func (m *Month) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		parsed, err := ParseMonth(v)
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	default:
		nullTime := &sql.NullTime{}
		if err := nullTime.Scan(value); err != nil {
			return err
		}
		*m = NewMonth(nullTime.Time.Year(), nullTime.Time.Month())
		return nil
	}
}

// Value writes the bucket to the database as its YYYY-MM string.
func (m Month) Value() (driver.Value, error) {
	return m.String(), nil
}
