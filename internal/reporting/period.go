package reporting

import (
	"fmt"
	"time"
)

// YearMonth identifies one calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// YearMonthOf returns the UTC calendar month t falls in.
func YearMonthOf(t time.Time) YearMonth {
	u := t.UTC()
	return YearMonth{Year: u.Year(), Month: u.Month()}
}

// ParseYearMonth parses the "YYYY-MM" form.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid month %q, want YYYY-MM", s)
	}
	return YearMonthOf(t), nil
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// MarshalText renders the month as "YYYY-MM" in JSON.
func (ym YearMonth) MarshalText() ([]byte, error) {
	return []byte(ym.String()), nil
}

// UnmarshalText parses "YYYY-MM".
func (ym *YearMonth) UnmarshalText(b []byte) error {
	parsed, err := ParseYearMonth(string(b))
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}

// Before reports whether ym is earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// After reports whether ym is later than other.
func (ym YearMonth) After(other YearMonth) bool {
	return other.Before(ym)
}

// Start is midnight UTC on the first day of the month.
func (ym YearMonth) Start() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the last nanosecond of the month in UTC.
func (ym YearMonth) End() time.Time {
	return ym.Start().AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// DateRange is an inclusive range of months. A nil bound is open.
type DateRange struct {
	From *YearMonth
	To   *YearMonth
}

// IsZero reports whether the range places no restriction.
func (r DateRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

// Valid reports whether From is not after To.
func (r DateRange) Valid() bool {
	return r.From == nil || r.To == nil || !r.From.After(*r.To)
}

// Contains reports whether ym falls inside the range.
func (r DateRange) Contains(ym YearMonth) bool {
	if r.From != nil && ym.Before(*r.From) {
		return false
	}
	if r.To != nil && ym.After(*r.To) {
		return false
	}
	return true
}

// containsDate is Contains for an optional timestamp; an undated record only
// matches an open range.
func (r DateRange) containsDate(t *time.Time) bool {
	if t == nil {
		return r.IsZero()
	}
	return r.Contains(YearMonthOf(*t))
}
