/*
Package calendar owns the calendar-rule lifecycle: saving, deleting and
recurrence expansion.

PURPOSE:
  Rules are mutated by whole-list replacement: every operation takes the
  current rule list and returns a new derived list, matching the
  single-threaded state-replacement model of the rest of the system.

SAVE SEMANTICS:
  - New shifts with no rate of their own are stamped with the current global
    rates, so later settings changes do not silently reprice old shifts.
  - Shifts get a cached pay projection (calculatedPay/otPay) stamped at save
    time; the monthly report reads these instead of re-running the weekly
    ladder. ShiftValues is the single authority for that projection.
  - A recurrence template is expanded eagerly into concrete children, capped
    at 50 occurrences. Children carry parentId; resaving a template deletes
    and regenerates all of its children.

SEE ALSO:
  - payroll/: the per-period ladder over saved rules
  - report/: the monthly consumer of the cached projection
*/
package calendar

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/budget-engine/budget"
)

// MaxOccurrences bounds eager recurrence expansion, regardless of how far
// out the "until" date is.
const MaxOccurrences = 50

// =============================================================================
// SAVE / DELETE / TOGGLE
// =============================================================================

// SaveRule inserts or replaces a rule in the list, returning the new list.
// Shift entries are stamped with rates and the cached pay projection; a
// recurrence template additionally expands into concrete children. Any
// previous version of the rule and all of its children are removed first.
func SaveRule(rules []budget.CalendarRule, entry budget.CalendarRule, settings budget.Settings, now time.Time) []budget.CalendarRule {
	entry = normalize(entry)

	if entry.Type == budget.RuleShift {
		if entry.Rate == "" {
			entry.Rate = settings.HourlyRate
			entry.OTRate = settings.OvertimeRate
		}
		entry.CalculatedPay, entry.OTPay = ShiftValues(entry, settings)
	}

	out := make([]budget.CalendarRule, 0, len(rules)+1)
	for _, r := range rules {
		if r.ID == entry.ID || r.ParentID == entry.ID {
			continue
		}
		out = append(out, r)
	}
	out = append(out, entry)
	return append(out, expand(entry, settings, now)...)
}

// DeleteRule removes the rule with the given id (children of a deleted
// template are left in place; they are independent records once expanded).
func DeleteRule(rules []budget.CalendarRule, id string) []budget.CalendarRule {
	out := make([]budget.CalendarRule, 0, len(rules))
	for _, r := range rules {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

// TogglePaid flips the paid flag on a bill/subscription rule.
func TogglePaid(rules []budget.CalendarRule, id string) ([]budget.CalendarRule, error) {
	out := make([]budget.CalendarRule, len(rules))
	found := false
	for i, r := range rules {
		if r.ID == id {
			r.Paid = !r.Paid
			found = true
		}
		out[i] = r
	}
	if !found {
		return nil, fmt.Errorf("toggle paid %q: %w", id, budget.ErrNotFound)
	}
	return out, nil
}

// normalize enforces the holiday invariant: a shift cannot be both a worked
// holiday and an unworked holiday bonus. The worked premium wins because
// hours were recorded.
func normalize(r budget.CalendarRule) budget.CalendarRule {
	if r.IsHoliday && r.IsHolidayOff {
		r.IsHolidayOff = false
	}
	return r
}

// =============================================================================
// CACHED PAY PROJECTION
// =============================================================================

// ShiftValues computes the cached calculatedPay/otPay pair stamped onto a
// saved shift. This per-shift projection uses the global rates and a 16-hour
// daily split; it is deliberately simpler than the weekly ladder, which only
// exists within a resolved pay period.
func ShiftValues(r budget.CalendarRule, settings budget.Settings) (calculatedPay, otPay string) {
	hours := budget.ParseDecimal(r.Hours)
	base := budget.ParseDecimal(settings.HourlyRate)
	ot := budget.ParseDecimal(settings.OvertimeRate)

	var gross, otAmount decimal.Decimal
	switch {
	case r.IsHoliday:
		gross = hours.Mul(base).Mul(decimal.NewFromInt(2))
		otAmount = hours.Mul(base)
	case r.IsHolidayOff:
		gross = decimal.NewFromInt(8).Mul(base)
		otAmount = decimal.Zero
	default:
		cap := decimal.NewFromInt(16)
		baseHours := decimal.Min(hours, cap)
		otHours := decimal.Max(decimal.Zero, hours.Sub(cap))
		gross = baseHours.Mul(base).Add(otHours.Mul(ot))
		otAmount = otHours.Mul(ot)
	}
	return budget.Fixed2(gross), budget.Fixed2(otAmount)
}

// =============================================================================
// RECURRENCE EXPANSION
// =============================================================================

// expand materializes a recurrence template into concrete child rules, one
// per occurrence after the template's own date, stopping at the "until"
// date (default one year out) or the hard occurrence cap, whichever comes
// first. Shifts landing on a fixed-date holiday are auto-flagged.
func expand(template budget.CalendarRule, settings budget.Settings, now time.Time) []budget.CalendarRule {
	rec := template.Recurrence
	if rec == nil || !rec.Active {
		return nil
	}
	cur, ok := budget.ParseDay(template.Date)
	if !ok {
		return nil
	}

	interval := rec.Interval
	if interval <= 0 {
		interval = 1
	}
	unit := rec.Unit
	if unit == "" {
		unit = "weeks"
	}
	until, ok := budget.ParseDay(rec.Until)
	if !ok {
		until = budget.DayOf(now).AddDays(365)
	}

	var children []budget.CalendarRule
	for i := 1; i <= MaxOccurrences; i++ {
		next := step(cur, interval, unit)
		if next.After(until) {
			break
		}

		child := template
		child.ID = fmt.Sprintf("%s_rep_%d", template.ID, i)
		child.ParentID = template.ID
		child.Date = next.String()
		child.Recurrence = nil
		child.IsHoliday = fixedHoliday(next) && !child.IsHolidayOff
		if child.Type == budget.RuleShift {
			child.CalculatedPay, child.OTPay = ShiftValues(child, settings)
		}

		children = append(children, child)
		cur = next
	}
	return children
}

func step(d budget.Day, interval int, unit string) budget.Day {
	switch unit {
	case "days":
		return d.AddDays(interval)
	case "months":
		return d.AddMonths(interval)
	default: // weeks
		return d.AddDays(interval * 7)
	}
}

// fixedHoliday marks the dates the household treats as always-holidays:
// New Year's Day, Independence Day, Christmas.
func fixedHoliday(d budget.Day) bool {
	m, day := d.Month(), d.DayOfMonth()
	return (m == time.January && day == 1) ||
		(m == time.July && day == 4) ||
		(m == time.December && day == 25)
}
