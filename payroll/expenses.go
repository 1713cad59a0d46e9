package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/warp/budget-engine/budget"
)

// =============================================================================
// PERIOD EXPENSES - bill/subscription splits for the active period
// =============================================================================

// ExpenseTotals splits the period's bills and subscriptions by paid state.
type ExpenseTotals struct {
	Total   decimal.Decimal // everything due this period, paid or not
	Pending decimal.Decimal // still unpaid
	Paid    decimal.Decimal // already marked paid
}

// Expenses sums bill and subscription amounts inside the active pay period.
func (e Engine) Expenses() ExpenseTotals {
	totals := ExpenseTotals{
		Total:   decimal.Zero,
		Pending: decimal.Zero,
		Paid:    decimal.Zero,
	}

	for _, r := range e.PeriodRules() {
		if !r.Type.IsExpense() {
			continue
		}
		amount := budget.ParseDecimal(r.Amount)
		totals.Total = totals.Total.Add(amount)
		if r.Paid {
			totals.Paid = totals.Paid.Add(amount)
		} else {
			totals.Pending = totals.Pending.Add(amount)
		}
	}
	return totals
}
