package payroll

import (
	"sort"

	"github.com/warp/budget-engine/budget"
)

// =============================================================================
// WEEKLY SHIFT BUCKETER
// =============================================================================

// weekCount is the number of week buckets in a 14-day period.
const weekCount = 2

// WeekBuckets partitions the shift rules falling inside the period into two
// week-index buckets: week 1 covers days 0-6 from the period start, week 2
// days 7-13. Shifts are ordered by date, with id as a tie-break so that the
// overtime ladder is deterministic for same-day shifts.
func WeekBuckets(rules []budget.CalendarRule, p Period) [weekCount][]budget.CalendarRule {
	var shifts []budget.CalendarRule
	for _, r := range rules {
		if r.Type == budget.RuleShift && p.ContainsDate(r.Date) {
			shifts = append(shifts, r)
		}
	}

	sort.SliceStable(shifts, func(i, j int) bool {
		if shifts[i].Date != shifts[j].Date {
			return shifts[i].Date < shifts[j].Date
		}
		return shifts[i].ID < shifts[j].ID
	})

	var buckets [weekCount][]budget.CalendarRule
	for _, s := range shifts {
		d, _ := budget.ParseDay(s.Date) // in-period, so it parses
		week := budget.DaysBetween(p.Start, d) / 7
		if week < 0 || week >= weekCount {
			continue
		}
		buckets[week] = append(buckets[week], s)
	}
	return buckets
}
