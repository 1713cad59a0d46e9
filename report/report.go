/*
Package report aggregates a calendar month into one income/spend record.

PURPOSE:
  The monthly view answers "how did the month go": shift income, bills,
  groceries, fuel, estimated tax, net cash flow. Shift income reads the
  cached calculatedPay/otPay stamped on each shift at save time, with a
  plain hours x rate fallback for records saved before stamping existed.

  The monthly tax estimate is deliberately simpler than the pay-period tax:
  it applies the tax rate to shift income alone, ignoring deductions. The
  two figures answer different questions and are not unified.
*/
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/budget-engine/budget"
	"github.com/warp/budget-engine/fuel"
	"github.com/warp/budget-engine/grocery"
)

// Inputs is the state snapshot a monthly report is computed from.
type Inputs struct {
	Rules     []budget.CalendarRule
	Groceries grocery.Lists
	Fuel      []budget.FuelLog
	Settings  budget.Settings
}

// Monthly is the finished report. All money fields are two-decimal strings;
// TotalHours keeps one decimal.
type Monthly struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	MonthName string `json:"monthName"`

	TotalHours  string `json:"totalHours"`
	TotalOTPay  string `json:"totalOTPay"`
	ShiftIncome string `json:"shiftIncome"`
	Pension     string `json:"pension"`
	TotalIncome string `json:"totalIncome"`

	TotalBills     string `json:"totalBills"`
	TotalGroceries string `json:"totalGroceries"`
	TotalFuel      string `json:"totalFuel"`
	TotalTax       string `json:"totalTax"`

	NetResult string `json:"netResult"`
}

// Build computes the report for one calendar month.
func Build(in Inputs, year int, month time.Month) Monthly {
	baseRate := in.Settings.BaseRate()

	hours := decimal.Zero
	shiftIncome := decimal.Zero
	otPay := decimal.Zero
	bills := decimal.Zero

	for _, r := range in.Rules {
		if !budget.InMonthString(r.Date, year, month) {
			continue
		}
		if r.Type.IsExpense() {
			bills = bills.Add(budget.ParseDecimal(r.Amount))
			continue
		}
		if r.Type != budget.RuleShift {
			continue
		}

		h := budget.ParseDecimal(r.Hours)
		hours = hours.Add(h)

		gross := budget.ParseDecimal(r.CalculatedPay)
		if gross.IsZero() {
			gross = h.Mul(baseRate)
		}
		shiftIncome = shiftIncome.Add(gross)

		ot := budget.ParseDecimal(r.OTPay)
		if r.IsHoliday {
			// The doubled half of a worked holiday counts as premium here.
			premium := gross.Sub(h.Mul(baseRate))
			ot = decimal.Max(ot, premium)
		}
		otPay = otPay.Add(ot)
	}

	groceries := grocery.MonthTotal(in.Groceries, year, month)
	fuelSpend := fuel.MonthTotal(in.Fuel, year, month)

	pension := budget.ParseDecimal(in.Settings.PensionAmount)
	income := shiftIncome.Add(pension)
	tax := shiftIncome.Mul(budget.Percent(in.Settings.TaxRate))
	net := income.Sub(bills).Sub(groceries).Sub(fuelSpend).Sub(tax)

	return Monthly{
		Year:      year,
		Month:     int(month),
		MonthName: month.String(),

		TotalHours:  budget.Fixed1(hours),
		TotalOTPay:  budget.Fixed2(otPay),
		ShiftIncome: budget.Fixed2(shiftIncome),
		Pension:     budget.Fixed2(pension),
		TotalIncome: budget.Fixed2(income),

		TotalBills:     budget.Fixed2(bills),
		TotalGroceries: budget.Fixed2(groceries),
		TotalFuel:      budget.Fixed2(fuelSpend),
		TotalTax:       budget.Fixed2(tax),

		NetResult: budget.Fixed2(net),
	}
}
