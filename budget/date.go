package budget

import (
	"time"
)

// =============================================================================
// DAY - Calendar date pinned to UTC noon
// =============================================================================

// Day is a timezone-naive calendar date. Internally it is anchored at 12:00
// UTC so that day arithmetic never crosses a daylight-saving boundary: adding
// 24h to noon is always the next calendar day.
type Day struct {
	t time.Time
}

// Constructors

func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 12, 0, 0, 0, time.UTC)}
}

// ParseDay parses a YYYY-MM-DD string. An empty or malformed string returns
// ok=false; callers treat such records as "never matches" rather than failing.
func ParseDay(s string) (Day, bool) {
	if s == "" {
		return Day{}, false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, false
	}
	return NewDay(t.Year(), t.Month(), t.Day()), true
}

// DayOf collapses a wall-clock instant to its UTC calendar day.
func DayOf(t time.Time) Day {
	u := t.UTC()
	return NewDay(u.Year(), u.Month(), u.Day())
}

// Comparison
func (d Day) Before(other Day) bool { return d.t.Before(other.t) }
func (d Day) After(other Day) bool  { return d.t.After(other.t) }
func (d Day) Equal(other Day) bool  { return d.t.Equal(other.t) }
func (d Day) IsZero() bool          { return d.t.IsZero() }

// Arithmetic
func (d Day) AddDays(n int) Day   { return Day{t: d.t.AddDate(0, 0, n)} }
func (d Day) AddMonths(n int) Day { return Day{t: d.t.AddDate(0, n, 0)} }

// Properties
func (d Day) Year() int         { return d.t.Year() }
func (d Day) Month() time.Month { return d.t.Month() }
func (d Day) DayOfMonth() int   { return d.t.Day() }

// InMonth reports whether the day falls in the given calendar month.
func (d Day) InMonth(year int, month time.Month) bool {
	return d.t.Year() == year && d.t.Month() == month
}

// Noon returns the underlying UTC-noon instant.
func (d Day) Noon() time.Time { return d.t }

func (d Day) String() string { return d.t.Format("2006-01-02") }

// DaysBetween returns the whole number of days from one day to another.
// Exact because both ends sit at UTC noon.
func DaysBetween(from, to Day) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

// InMonthString reports whether a raw YYYY-MM-DD field falls in the given
// month. Missing or malformed dates never match.
func InMonthString(dateStr string, year int, month time.Month) bool {
	d, ok := ParseDay(dateStr)
	return ok && d.InMonth(year, month)
}
