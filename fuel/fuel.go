// Package fuel tracks fill-up logs and their period/month spend totals.
package fuel

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/budget-engine/budget"
	"github.com/warp/budget-engine/payroll"
)

// Add prepends a fill-up to the log, newest first.
func Add(logs []budget.FuelLog, entry budget.FuelLog) []budget.FuelLog {
	return append([]budget.FuelLog{entry}, logs...)
}

// Delete removes the log with the given id.
func Delete(logs []budget.FuelLog, id string) []budget.FuelLog {
	out := make([]budget.FuelLog, 0, len(logs))
	for _, l := range logs {
		if l.ID != id {
			out = append(out, l)
		}
	}
	return out
}

// PeriodTotal sums fuel cost for fill-ups dated inside the pay period.
func PeriodTotal(logs []budget.FuelLog, p payroll.Period) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range logs {
		if p.ContainsDate(l.Date) {
			sum = sum.Add(budget.ParseDecimal(l.TotalCost))
		}
	}
	return sum
}

// MonthTotal sums fuel cost for fill-ups dated in the given month.
func MonthTotal(logs []budget.FuelLog, year int, month time.Month) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range logs {
		if budget.InMonthString(l.Date, year, month) {
			sum = sum.Add(budget.ParseDecimal(l.TotalCost))
		}
	}
	return sum
}
