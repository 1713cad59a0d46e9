package calendar_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/budget-engine/budget"
	"github.com/warp/budget-engine/calendar"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var now = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func settings() budget.Settings {
	return budget.Settings{
		HourlyRate:   "25.00",
		OvertimeRate: "37.50",
		OTThreshold:  "40",
	}
}

func byID(rules []budget.CalendarRule, id string) (budget.CalendarRule, bool) {
	for _, r := range rules {
		if r.ID == id {
			return r, true
		}
	}
	return budget.CalendarRule{}, false
}

// =============================================================================
// SAVE / STAMP TESTS
// =============================================================================

func TestSaveRule_StampsGlobalRatesOnNewShift(t *testing.T) {
	entry := budget.CalendarRule{ID: "s1", Date: "2026-03-02", Type: budget.RuleShift, Hours: "8"}

	rules := calendar.SaveRule(nil, entry, settings(), now)

	saved, ok := byID(rules, "s1")
	require.True(t, ok)
	assert.Equal(t, "25.00", saved.Rate)
	assert.Equal(t, "37.50", saved.OTRate)
	assert.Equal(t, "200.00", saved.CalculatedPay)
	assert.Equal(t, "0.00", saved.OTPay)
}

func TestSaveRule_KeepsExistingRateOverride(t *testing.T) {
	entry := budget.CalendarRule{
		ID: "s1", Date: "2026-03-02", Type: budget.RuleShift,
		Hours: "8", Rate: "30", OTRate: "45",
	}

	rules := calendar.SaveRule(nil, entry, settings(), now)

	saved, _ := byID(rules, "s1")
	assert.Equal(t, "30", saved.Rate)
	assert.Equal(t, "45", saved.OTRate)
}

func TestSaveRule_ReplacesPreviousVersion(t *testing.T) {
	first := budget.CalendarRule{ID: "s1", Date: "2026-03-02", Type: budget.RuleShift, Hours: "8"}
	rules := calendar.SaveRule(nil, first, settings(), now)

	second := first
	second.Hours = "10"
	rules = calendar.SaveRule(rules, second, settings(), now)

	require.Len(t, rules, 1)
	assert.Equal(t, "10", rules[0].Hours)
	assert.Equal(t, "250.00", rules[0].CalculatedPay)
}

func TestSaveRule_NormalizesConflictingHolidayFlags(t *testing.T) {
	// Both flags set is contradictory; the worked premium wins.
	entry := budget.CalendarRule{
		ID: "s1", Date: "2026-03-02", Type: budget.RuleShift,
		Hours: "8", IsHoliday: true, IsHolidayOff: true,
	}

	rules := calendar.SaveRule(nil, entry, settings(), now)

	saved, _ := byID(rules, "s1")
	assert.True(t, saved.IsHoliday)
	assert.False(t, saved.IsHolidayOff)
}

// =============================================================================
// CACHED PAY PROJECTION
// =============================================================================

func TestShiftValues_DailySplit(t *testing.T) {
	cases := []struct {
		name    string
		rule    budget.CalendarRule
		wantPay string
		wantOT  string
	}{
		{
			name:    "regular shift under the daily cap",
			rule:    budget.CalendarRule{Hours: "8"},
			wantPay: "200.00",
			wantOT:  "0.00",
		},
		{
			name:    "shift over the 16-hour daily cap",
			rule:    budget.CalendarRule{Hours: "18"},
			wantPay: "475.00", // 16*25 + 2*37.50
			wantOT:  "75.00",
		},
		{
			name:    "worked holiday doubles the shift",
			rule:    budget.CalendarRule{Hours: "8", IsHoliday: true},
			wantPay: "400.00",
			wantOT:  "200.00",
		},
		{
			name:    "unworked holiday pays flat 8 hours",
			rule:    budget.CalendarRule{Hours: "12", IsHolidayOff: true},
			wantPay: "200.00",
			wantOT:  "0.00",
		},
		{
			name:    "malformed hours parse to zero",
			rule:    budget.CalendarRule{Hours: "oops"},
			wantPay: "0.00",
			wantOT:  "0.00",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			pay, ot := calendar.ShiftValues(c.rule, settings())
			assert.Equal(t, c.wantPay, pay)
			assert.Equal(t, c.wantOT, ot)
		})
	}
}

// =============================================================================
// RECURRENCE EXPANSION
// =============================================================================

func TestSaveRule_WeeklyRecurrence30DaysProducesFourChildren(t *testing.T) {
	entry := budget.CalendarRule{
		ID: "tpl", Date: "2026-03-02", Type: budget.RuleShift, Hours: "8",
		Recurrence: &budget.Recurrence{
			Active:   true,
			Interval: 1,
			Unit:     "weeks",
			Until:    "2026-04-01", // 30 days out
		},
	}

	rules := calendar.SaveRule(nil, entry, settings(), now)

	// Template + 4 children on the 7-day cadence.
	require.Len(t, rules, 5)
	wantDates := []string{"2026-03-09", "2026-03-16", "2026-03-23", "2026-03-30"}
	for i, date := range wantDates {
		child, ok := byID(rules, fmt.Sprintf("tpl_rep_%d", i+1))
		require.True(t, ok, "missing child %d", i+1)
		assert.Equal(t, date, child.Date)
		assert.Equal(t, "tpl", child.ParentID)
		assert.Nil(t, child.Recurrence)
		assert.Equal(t, "200.00", child.CalculatedPay, "children are stamped too")
	}
}

func TestSaveRule_RecurrenceCappedAt50(t *testing.T) {
	entry := budget.CalendarRule{
		ID: "tpl", Date: "2026-03-02", Type: budget.RuleBill, Label: "Rent", Amount: "1200",
		Recurrence: &budget.Recurrence{
			Active:   true,
			Interval: 1,
			Unit:     "days",
			Until:    "2030-01-01",
		},
	}

	rules := calendar.SaveRule(nil, entry, settings(), now)
	assert.Len(t, rules, 1+calendar.MaxOccurrences)
}

func TestSaveRule_ResaveRegeneratesChildren(t *testing.T) {
	entry := budget.CalendarRule{
		ID: "tpl", Date: "2026-03-02", Type: budget.RuleBill, Label: "Rent", Amount: "1200",
		Recurrence: &budget.Recurrence{Active: true, Interval: 1, Unit: "weeks", Until: "2026-03-20"},
	}
	rules := calendar.SaveRule(nil, entry, settings(), now)
	require.Len(t, rules, 3) // template + 2 children

	// Shrink the window and resave: old children must not survive.
	entry.Recurrence.Until = "2026-03-10"
	rules = calendar.SaveRule(rules, entry, settings(), now)
	assert.Len(t, rules, 2)
}

func TestSaveRule_MonthlyRecurrenceDefaultsUntilOneYearOut(t *testing.T) {
	entry := budget.CalendarRule{
		ID: "tpl", Date: "2026-03-15", Type: budget.RuleSubscription, Label: "Music", Amount: "9.99",
		Recurrence: &budget.Recurrence{Active: true, Interval: 1, Unit: "months"},
	}

	rules := calendar.SaveRule(nil, entry, settings(), now)

	// One year of monthly occurrences after the template's own date.
	require.Len(t, rules, 1+11)
	child, _ := byID(rules, "tpl_rep_1")
	assert.Equal(t, "2026-04-15", child.Date)
}

func TestSaveRule_FixedHolidayAutoFlagged(t *testing.T) {
	entry := budget.CalendarRule{
		ID: "tpl", Date: "2026-06-27", Type: budget.RuleShift, Hours: "8",
		Recurrence: &budget.Recurrence{Active: true, Interval: 1, Unit: "weeks", Until: "2026-07-11"},
	}

	rules := calendar.SaveRule(nil, entry, settings(), now)

	july4, ok := byID(rules, "tpl_rep_1")
	require.True(t, ok)
	require.Equal(t, "2026-07-04", july4.Date)
	assert.True(t, july4.IsHoliday, "shift landing on July 4 is auto-flagged")
	assert.Equal(t, "400.00", july4.CalculatedPay)

	regular, _ := byID(rules, "tpl_rep_2")
	assert.False(t, regular.IsHoliday)
}

func TestSaveRule_InactiveRecurrenceDoesNotExpand(t *testing.T) {
	entry := budget.CalendarRule{
		ID: "tpl", Date: "2026-03-02", Type: budget.RuleShift, Hours: "8",
		Recurrence: &budget.Recurrence{Active: false, Interval: 1, Unit: "weeks", Until: "2026-06-01"},
	}
	rules := calendar.SaveRule(nil, entry, settings(), now)
	assert.Len(t, rules, 1)
}

// =============================================================================
// DELETE / TOGGLE
// =============================================================================

func TestDeleteRule_RemovesOnlyTarget(t *testing.T) {
	rules := []budget.CalendarRule{
		{ID: "a", Date: "2026-03-01"},
		{ID: "b", Date: "2026-03-02"},
	}
	rules = calendar.DeleteRule(rules, "a")
	require.Len(t, rules, 1)
	assert.Equal(t, "b", rules[0].ID)
}

func TestTogglePaid_FlipsFlag(t *testing.T) {
	rules := []budget.CalendarRule{
		{ID: "bill", Date: "2026-03-01", Type: budget.RuleBill, Amount: "50"},
	}

	updated, err := calendar.TogglePaid(rules, "bill")
	require.NoError(t, err)
	assert.True(t, updated[0].Paid)

	updated, err = calendar.TogglePaid(updated, "bill")
	require.NoError(t, err)
	assert.False(t, updated[0].Paid)
}

func TestTogglePaid_UnknownID(t *testing.T) {
	_, err := calendar.TogglePaid(nil, "ghost")
	assert.True(t, budget.IsNotFound(err))
}

// =============================================================================
// CACHED VALUES STAY IN SYNC
// =============================================================================

func TestSaveRule_RecomputeMatchesStampedValues(t *testing.T) {
	// Stamped calculatedPay/otPay must always equal a fresh projection from
	// the source fields; a drift here means the cache went stale.
	entries := []budget.CalendarRule{
		{ID: "r1", Date: "2026-03-02", Type: budget.RuleShift, Hours: "8"},
		{ID: "r2", Date: "2026-03-03", Type: budget.RuleShift, Hours: "18"},
		{ID: "r3", Date: "2026-03-04", Type: budget.RuleShift, Hours: "8", IsHoliday: true},
		{ID: "r4", Date: "2026-03-05", Type: budget.RuleShift, Hours: "0", IsHolidayOff: true},
	}

	var rules []budget.CalendarRule
	for _, e := range entries {
		rules = calendar.SaveRule(rules, e, settings(), now)
	}

	for _, r := range rules {
		pay, ot := calendar.ShiftValues(r, settings())
		assert.Equal(t, pay, r.CalculatedPay, "rule %s calculatedPay drifted", r.ID)
		assert.Equal(t, ot, r.OTPay, "rule %s otPay drifted", r.ID)
	}
}
