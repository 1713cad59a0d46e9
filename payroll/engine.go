/*
Package payroll is the pay-period and payroll computation engine.

PURPOSE:
  Given the full set of calendar rules, the settings record, a cycle offset
  and the current wall-clock time, this package computes everything the
  dashboard shows for a bi-weekly pay period: the period window, gross pay,
  overtime pay, tax, net pay, per-week breakdowns, per-shift enriched pay,
  period expense splits and the payday countdown.

KEY RULES:
  - The overtime threshold resets every week, not every pay period. Each
    14-day period is processed as two independent week buckets.
  - Within a week, shifts consume the regular-hour allowance in date order.
    The shift that crosses the threshold is split internally into regular
    and overtime portions.
  - A worked holiday (isHoliday) pays its normal OT-tiered amount PLUS a
    straight-time premium of hours x rate. OT-tiered hours are not doubled,
    only premium-added.
  - An unworked holiday (isHolidayOff) pays a flat 8 x rate bonus and never
    advances the weekly hour counter.

DESIGN:
  Engine is a pure value: construct it from the current in-memory snapshot
  and call any method; nothing is cached between calls and nothing blocks.
  Settings travel as an explicit parameter, never as ambient state.

SEE ALSO:
  - period.go: pay-period resolution and the pay-schedule predicate
  - weekly.go: week bucketing
  - expenses.go: period bill/subscription splits
  - report/: the month-oriented aggregate view
*/
package payroll

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/budget-engine/budget"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine computes payroll figures for one pay period. It is a pure function
// of its inputs; construct a fresh one whenever any input changes.
type Engine struct {
	Rules    []budget.CalendarRule
	Settings budget.Settings
	Offset   int
	Now      time.Time
}

// Period resolves the engine's active pay-period window.
func (e Engine) Period() Period {
	return ResolvePeriod(e.Settings.CycleStart, e.Now, e.Offset)
}

// PeriodRules returns the rules whose date falls inside the active period.
func (e Engine) PeriodRules() []budget.CalendarRule {
	p := e.Period()
	var out []budget.CalendarRule
	for _, r := range e.Rules {
		if p.ContainsDate(r.Date) {
			out = append(out, r)
		}
	}
	return out
}

func (e Engine) buckets() [weekCount][]budget.CalendarRule {
	return WeekBuckets(e.Rules, e.Period())
}

// shiftRate resolves the rate for one shift: the stamped per-shift value if
// present, else the global setting.
func (e Engine) shiftRate(r budget.CalendarRule) decimal.Decimal {
	if r.Rate != "" {
		return budget.ParseDecimal(r.Rate)
	}
	return e.Settings.BaseRate()
}

func (e Engine) shiftOTRate(r budget.CalendarRule) decimal.Decimal {
	if r.OTRate != "" {
		return budget.ParseDecimal(r.OTRate)
	}
	return e.Settings.EffectiveOTRate()
}

// splitHours applies the weekly overtime ladder to one shift: regular hours
// fill whatever room remains below the threshold, the rest is overtime.
func splitHours(hours, soFar, limit decimal.Decimal) (regular, overtime decimal.Decimal) {
	room := decimal.Max(decimal.Zero, limit.Sub(soFar))
	regular = decimal.Min(hours, room)
	overtime = decimal.Max(decimal.Zero, hours.Sub(regular))
	return regular, overtime
}

// =============================================================================
// GROSS / NET / TAX
// =============================================================================

// Gross computes total gross pay for the period, applying the overtime and
// holiday rules per week bucket independently.
func (e Engine) Gross() decimal.Decimal {
	limit := e.Settings.Threshold()
	total := decimal.Zero

	for _, week := range e.buckets() {
		soFar := decimal.Zero

		// Unworked-holiday bonuses are excluded from the ladder entirely.
		var ladder, bonuses []budget.CalendarRule
		for _, s := range week {
			if s.IsHolidayOff {
				bonuses = append(bonuses, s)
			} else {
				ladder = append(ladder, s)
			}
		}

		for _, s := range ladder {
			h := budget.ParseDecimal(s.Hours)
			rate := e.shiftRate(s)
			reg, ot := splitHours(h, soFar, limit)

			total = total.Add(reg.Mul(rate)).Add(ot.Mul(e.shiftOTRate(s)))
			if s.IsHoliday {
				// Straight-time premium on top of the tiered pay.
				total = total.Add(h.Mul(rate))
			}
			soFar = soFar.Add(h)
		}

		for _, s := range bonuses {
			total = total.Add(decimal.NewFromInt(8).Mul(e.shiftRate(s)))
		}
	}
	return total
}

// Tax computes the period's tax amount: taxable income (gross minus pre-tax
// deductions, floored at zero) times the tax rate.
func (e Engine) Tax() decimal.Decimal {
	taxable := decimal.Max(decimal.Zero, e.Gross().Sub(budget.ParseDecimal(e.Settings.PreTaxDeductions)))
	return taxable.Mul(budget.Percent(e.Settings.TaxRate))
}

// Net computes take-home pay:
//
//	(gross - preTax) * (1 - taxRate/100) - postTax
//
// Tax applies to gross minus pre-tax deductions, not to gross directly.
// Unlike Tax, the taxable base here is not floored at zero.
func (e Engine) Net() decimal.Decimal {
	gross := e.Gross()
	preTax := budget.ParseDecimal(e.Settings.PreTaxDeductions)
	postTax := budget.ParseDecimal(e.Settings.PostTaxDeductions)

	taxable := gross.Sub(preTax)
	tax := taxable.Mul(budget.Percent(e.Settings.TaxRate))
	return taxable.Sub(tax).Sub(postTax)
}

// OTPay isolates the overtime-value figure for the period: the OT-tiered
// portion of each shift, plus the full straight-time premium of each worked
// holiday. The holiday premium counting as "OT value" is a reporting
// convention, not a separate pay component; worked holidays do not advance
// the hour counter in this pass.
func (e Engine) OTPay() decimal.Decimal {
	limit := e.Settings.Threshold()
	total := decimal.Zero

	for _, week := range e.buckets() {
		soFar := decimal.Zero
		for _, s := range week {
			if s.IsHolidayOff {
				continue
			}
			h := budget.ParseDecimal(s.Hours)
			if s.IsHoliday {
				total = total.Add(h.Mul(e.shiftRate(s)))
				continue
			}
			_, ot := splitHours(h, soFar, limit)
			total = total.Add(ot.Mul(e.shiftOTRate(s)))
			soFar = soFar.Add(h)
		}
	}
	return total
}

// =============================================================================
// WEEKLY STATS
// =============================================================================

// WeekStat is the per-week display breakdown.
type WeekStat struct {
	Hours decimal.Decimal
	Gross decimal.Decimal
}

// WeeklyStats holds the two week buckets of the period.
type WeeklyStats struct {
	Week1 WeekStat
	Week2 WeekStat
}

// WeeklyStats computes per-week hour and gross totals for display. In this
// view a worked holiday counts as a flat 2x of the whole shift and skips the
// OT ladder; this intentionally differs from the Gross ladder (premium-add)
// and is preserved as-is rather than unified.
func (e Engine) WeeklyStats() WeeklyStats {
	limit := e.Settings.Threshold()
	buckets := e.buckets()

	calc := func(week []budget.CalendarRule) WeekStat {
		hours := decimal.Zero
		gross := decimal.Zero
		for _, s := range week {
			h := budget.ParseDecimal(s.Hours)
			rate := e.shiftRate(s)

			if s.IsHolidayOff {
				gross = gross.Add(decimal.NewFromInt(8).Mul(rate))
				continue
			}
			if s.IsHoliday {
				gross = gross.Add(h.Mul(rate).Mul(decimal.NewFromInt(2)))
				hours = hours.Add(h)
				continue
			}

			reg, ot := splitHours(h, hours, limit)
			gross = gross.Add(reg.Mul(rate)).Add(ot.Mul(e.shiftOTRate(s)))
			hours = hours.Add(h)
		}
		return WeekStat{Hours: hours, Gross: gross}
	}

	return WeeklyStats{Week1: calc(buckets[0]), Week2: calc(buckets[1])}
}

// =============================================================================
// ENRICHED SHIFT PROJECTOR
// =============================================================================

// EnrichedShift is a shift annotated with its computed pay for display.
type EnrichedShift struct {
	budget.CalendarRule
	Pay         decimal.Decimal
	IsOTApplied bool
}

// EnrichedShifts projects the period's shifts into a flat, date-sorted list
// with per-shift pay and an overtime marker. Recomputed in full from the
// current rule set on every call; never an incremental cursor.
func (e Engine) EnrichedShifts() []EnrichedShift {
	limit := e.Settings.Threshold()
	var out []EnrichedShift

	for _, week := range e.buckets() {
		soFar := decimal.Zero
		for _, s := range week {
			h := budget.ParseDecimal(s.Hours)
			rate := e.shiftRate(s)

			var pay decimal.Decimal
			isOT := false

			if s.IsHolidayOff {
				pay = decimal.NewFromInt(8).Mul(rate)
			} else {
				reg, ot := splitHours(h, soFar, limit)
				pay = reg.Mul(rate).Add(ot.Mul(e.shiftOTRate(s)))
				isOT = ot.IsPositive()
				if s.IsHoliday {
					pay = pay.Add(h.Mul(rate))
				}
				soFar = soFar.Add(h)
			}

			out = append(out, EnrichedShift{CalendarRule: s, Pay: pay, IsOTApplied: isOT})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out
}
