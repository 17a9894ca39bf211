package domain

import (
	"fmt"
	"time"
)

// YearMonth identifies a calendar month. It is the key of every monthly aggregate.
type YearMonth struct {
	Year  int
	Month time.Month
}

// NewYearMonth creates a YearMonth
func NewYearMonth(year int, month time.Month) YearMonth {
	return YearMonth{Year: year, Month: month}
}

// YearMonthOf returns the month containing t
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth parses a "YYYY-MM" string
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q is not YYYY-MM", ErrInvalidReference, s)
	}
	return YearMonthOf(t), nil
}

// String formats as YYYY-MM
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// IsZero reports whether the month was never set
func (ym YearMonth) IsZero() bool {
	return ym.Year == 0 && ym.Month == 0
}

// Valid reports whether the month is in 1..12
func (ym YearMonth) Valid() bool {
	return ym.Month >= time.January && ym.Month <= time.December
}

// AddMonths returns the month n months later (n may be negative)
func (ym YearMonth) AddMonths(n int) YearMonth {
	idx := ym.Year*12 + int(ym.Month-1) + n
	year := idx / 12
	month := idx % 12
	if month < 0 {
		month += 12
		year--
	}
	return YearMonth{Year: year, Month: time.Month(month + 1)}
}

// Next returns the following month
func (ym YearMonth) Next() YearMonth { return ym.AddMonths(1) }

// Prev returns the preceding month
func (ym YearMonth) Prev() YearMonth { return ym.AddMonths(-1) }

// Before reports whether ym is earlier than other
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// Start returns the first instant of the month in UTC
func (ym YearMonth) Start() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether t falls inside the month
func (ym YearMonth) Contains(t time.Time) bool {
	return t.Year() == ym.Year && t.Month() == ym.Month
}

// MonthRange returns n consecutive months ending at end, oldest first
func MonthRange(end YearMonth, n int) []YearMonth {
	if n <= 0 {
		return nil
	}
	months := make([]YearMonth, n)
	for i := 0; i < n; i++ {
		months[i] = end.AddMonths(i - n + 1)
	}
	return months
}

// MarshalText implements encoding.TextMarshaler
func (ym YearMonth) MarshalText() ([]byte, error) {
	return []byte(ym.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (ym *YearMonth) UnmarshalText(data []byte) error {
	parsed, err := ParseYearMonth(string(data))
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}
