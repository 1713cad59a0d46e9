/*
seed.go - Demo data loader

PURPOSE:
  Resets the database and loads a realistic demo household: settings with a
  bi-weekly anchor, two weeks of shifts (including an overtime week and a
  worked holiday), a few bills, a grocery run in progress, and fuel logs.
  The dataset is anchored on the current period so the dashboard is never
  empty after loading.
*/
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/warp/budget-engine/budget"
	"github.com/warp/budget-engine/calendar"
	"github.com/warp/budget-engine/grocery"
	"github.com/warp/budget-engine/payroll"
)

// LoadDemo resets the store and seeds demo data.
func (h *Handler) LoadDemo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := h.Now()

	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	// Anchor the cycle on the Monday of the current period so the seeded
	// shifts land inside it.
	anchor := budget.DayOf(now).AddDays(-7)
	settings := budget.Settings{
		UserName:          "Demo",
		HourlyRate:        "25.00",
		OvertimeRate:      "37.50",
		OTThreshold:       "40",
		PensionAmount:     "150.00",
		TaxRate:           "12",
		SalesTaxRate:      "8.25",
		PreTaxDeductions:  "50.00",
		PostTaxDeductions: "20.00",
		CycleStart:        anchor.String(),
		PaydayDate:        anchor.AddDays(payroll.PeriodDays).String(),
		GroceryBudget:     "400.00",
		TaxedStores:       map[string]bool{"Other": true},
	}
	if err := h.Store.SaveSettings(ctx, settings); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to seed settings", err)
		return
	}

	period := payroll.ResolvePeriod(settings.CycleStart, now, 0)

	var rules []budget.CalendarRule
	addRule := func(entry budget.CalendarRule) {
		rules = calendar.SaveRule(rules, entry, settings, now)
	}

	// Week 1: five 10-hour shifts - crosses the 40h threshold on Friday.
	for i := 0; i < 5; i++ {
		addRule(budget.CalendarRule{
			ID:    fmt.Sprintf("demo_shift_w1_%d", i+1),
			Date:  period.Start.AddDays(i).String(),
			Type:  budget.RuleShift,
			Hours: "10",
		})
	}

	// Week 2: three regular shifts plus a worked holiday.
	for i := 0; i < 3; i++ {
		addRule(budget.CalendarRule{
			ID:    fmt.Sprintf("demo_shift_w2_%d", i+1),
			Date:  period.Start.AddDays(7 + i).String(),
			Type:  budget.RuleShift,
			Hours: "8",
		})
	}
	addRule(budget.CalendarRule{
		ID:        "demo_shift_holiday",
		Date:      period.Start.AddDays(10).String(),
		Type:      budget.RuleShift,
		Hours:     "8",
		IsHoliday: true,
	})

	// Bills: one paid, one pending, plus a monthly subscription template.
	addRule(budget.CalendarRule{
		ID:     "demo_bill_rent",
		Date:   period.Start.AddDays(2).String(),
		Type:   budget.RuleBill,
		Label:  "Rent",
		Amount: "1200.00",
		Paid:   true,
	})
	addRule(budget.CalendarRule{
		ID:     "demo_bill_electric",
		Date:   period.Start.AddDays(9).String(),
		Type:   budget.RuleBill,
		Label:  "Electric",
		Amount: "95.50",
	})
	addRule(budget.CalendarRule{
		ID:     "demo_sub_streaming",
		Date:   period.Start.AddDays(4).String(),
		Type:   budget.RuleSubscription,
		Label:  "Streaming",
		Amount: "15.99",
		Recurrence: &budget.Recurrence{
			Active:   true,
			Interval: 1,
			Unit:     "months",
			Until:    budget.DayOf(now).AddDays(120).String(),
		},
	})

	if err := h.Store.ReplaceRules(ctx, rules); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to seed rules", err)
		return
	}

	// Groceries: an archived run from week 1, a cart in progress now.
	lists := grocery.Lists{
		Archive: []budget.GroceryItem{
			{ID: "demo_g1", Name: "Chicken", Price: "12.40", Store: "Costco", Date: period.Start.AddDays(1).String(), Checked: true},
			{ID: "demo_g2", Name: "Rice", Price: "8.99", Store: "Costco", Date: period.Start.AddDays(1).String(), Checked: true},
		},
		Active: []budget.GroceryItem{
			{ID: "demo_g3", Name: "Milk", Price: "3.49", Store: "Other", Date: budget.DayOf(now).String(), Checked: true},
			{ID: "demo_g4", Name: "Eggs", Price: "4.25", Store: "Other", Date: budget.DayOf(now).String()},
		},
	}
	if err := h.Store.ReplaceGroceries(ctx, lists); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to seed groceries", err)
		return
	}

	fuelLogs := []budget.FuelLog{
		{ID: "demo_f1", Date: period.Start.AddDays(3).String(), PPG: "3.15", Gallons: "12.5", TotalCost: "39.38"},
		{ID: "demo_f2", Date: period.Start.AddDays(10).String(), PPG: "3.09", Gallons: "11.2", TotalCost: "34.61"},
	}
	if err := h.Store.ReplaceFuel(ctx, fuelLogs); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to seed fuel logs", err)
		return
	}

	h.notifyChange(r, "settings")
	writeJSON(w, http.StatusOK, map[string]any{
		"loaded":    true,
		"rules":     len(rules),
		"groceries": len(lists.Active) + len(lists.Archive),
		"fuelLogs":  len(fuelLogs),
		"timestamp": now.Format(time.RFC3339),
	})
}
