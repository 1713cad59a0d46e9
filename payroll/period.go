package payroll

import (
	"time"

	"github.com/warp/budget-engine/budget"
)

// =============================================================================
// PAY PERIOD - The core concept for all bi-weekly calculation
// =============================================================================

// PeriodDays is the fixed length of a pay period.
const PeriodDays = 14

// Period is an inclusive 14-day earning window. Periods tile the timeline
// with no gaps or overlaps, anchored exactly on the cycleStart setting.
type Period struct {
	Start budget.Day
	End   budget.Day
}

// Contains reports whether the day is within [Start, End].
func (p Period) Contains(d budget.Day) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

// ContainsDate reports whether a raw date string falls inside the period.
// Missing or malformed dates never match.
func (p Period) ContainsDate(s string) bool {
	d, ok := budget.ParseDay(s)
	return ok && p.Contains(d)
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// ResolvePeriod maps "now" plus an integer offset onto the bi-weekly grid
// anchored at the stored cycleStart date. Offset 0 is the period containing
// now, +1 the next, -1 the previous.
//
// If the anchor is unset or malformed the result degrades to a single-day
// window equal to today; an explicit fallback, not an error.
func ResolvePeriod(anchor string, now time.Time, offset int) Period {
	start, ok := budget.ParseDay(anchor)
	if !ok {
		today := budget.DayOf(now)
		return Period{Start: today, End: today}
	}

	periodLen := PeriodDays * 24 * time.Hour
	elapsed := now.Sub(start.Noon())

	// Whole periods elapsed, floored toward minus infinity so navigation is
	// correct on both sides of the anchor.
	idx := int(elapsed / periodLen)
	if elapsed < 0 && elapsed%periodLen != 0 {
		idx--
	}

	s := start.AddDays((idx + offset) * PeriodDays)
	return Period{Start: s, End: s.AddDays(PeriodDays - 1)}
}

// =============================================================================
// PAY SCHEDULE PREDICATE
// =============================================================================

// ScheduleFlags marks a calendar day against the two bi-weekly anchors.
type ScheduleFlags struct {
	IsCycleStart bool
	IsPayday     bool
}

// CheckPaySchedule reports whether a date lands on the bi-weekly cadence of
// the cycle-start anchor, the payday anchor, or both. Day arithmetic is
// UTC-noon normalized, so the mod-14 test cannot be thrown off by DST.
// If either anchor is unset the answer is uniformly false.
func CheckPaySchedule(date string, settings budget.Settings) ScheduleFlags {
	target, ok := budget.ParseDay(date)
	if !ok {
		return ScheduleFlags{}
	}
	cycle, okCycle := budget.ParseDay(settings.CycleStart)
	payday, okPayday := budget.ParseDay(settings.PaydayDate)
	if !okCycle || !okPayday {
		return ScheduleFlags{}
	}

	return ScheduleFlags{
		IsCycleStart: budget.DaysBetween(cycle, target)%PeriodDays == 0,
		IsPayday:     budget.DaysBetween(payday, target)%PeriodDays == 0,
	}
}

// =============================================================================
// PAYDAY COUNTDOWN
// =============================================================================

// PaydayCountdown is the next payday occurrence relative to today.
type PaydayCountdown struct {
	Days int
	Date budget.Day
}

// NextPayday finds the next occurrence of the payday anchor's 14-day cadence
// on or after today. Returns ok=false when the anchor is unset.
func NextPayday(paydayDate string, now time.Time) (PaydayCountdown, bool) {
	anchor, ok := budget.ParseDay(paydayDate)
	if !ok {
		return PaydayCountdown{}, false
	}

	today := budget.DayOf(now)
	target := anchor
	if target.Before(today) {
		behind := budget.DaysBetween(target, today)
		cycles := (behind + PeriodDays - 1) / PeriodDays
		target = target.AddDays(cycles * PeriodDays)
	}

	return PaydayCountdown{Days: budget.DaysBetween(today, target), Date: target}, true
}
