/*
Package budget provides the shared domain model for the household budget
engine.

PURPOSE:
  This package contains the record types every other package computes over:
  dated calendar rules (shifts, bills, subscriptions), the synced settings
  record, grocery items, and fuel logs. It also owns the two conventions the
  whole system leans on:

  1. Dates are YYYY-MM-DD strings interpreted at UTC noon (see date.go).
  2. Numbers are decimal strings parsed defensively to zero (see money.go).

DESIGN PRINCIPLES:
  - Records are plain values. All mutation happens by replacing whole lists
    with derived lists; nothing in this package holds state.
  - Field names on the wire match the synced document exactly, so a record
    round-trips through the flat vault document unchanged.
  - Exactly one of the shift fields or the bill fields is meaningful on a
    CalendarRule, selected by Type.

SEE ALSO:
  - payroll/: the pay-period computation engine over these records
  - calendar/: rule lifecycle (stamping, recurrence expansion)
  - vault/: the flat synced document these records live in
*/
package budget

import "github.com/shopspring/decimal"

// =============================================================================
// CALENDAR RULES
// =============================================================================

// RuleType discriminates which fields of a CalendarRule are meaningful.
type RuleType string

const (
	RuleShift        RuleType = "shift"
	RuleBill         RuleType = "bill"
	RuleSubscription RuleType = "subscription"
)

// IsExpense reports whether the rule type is money going out (bill or
// subscription) rather than a worked shift.
func (t RuleType) IsExpense() bool {
	return t == RuleBill || t == RuleSubscription
}

// Recurrence describes an eager repetition template. Children are
// materialized once at save time, never resolved lazily.
type Recurrence struct {
	Active   bool   `json:"active"`
	Interval int    `json:"interval"`
	Unit     string `json:"unit"`  // days | weeks | months
	Until    string `json:"until"` // YYYY-MM-DD, empty = one year out
}

// CalendarRule is a dated event: a worked shift or a bill/subscription.
//
// Shift rules carry hour and rate fields plus the cached pay projection
// (CalculatedPay/OTPay) stamped at save time. Bill rules carry label, amount
// and the paid flag. IsHoliday (worked, premium) and IsHolidayOff (not
// worked, flat bonus) are mutually exclusive.
type CalendarRule struct {
	ID       string   `json:"id"`
	ParentID string   `json:"parentId,omitempty"`
	Date     string   `json:"date"`
	Type     RuleType `json:"type"`

	// Shift fields
	Hours         string `json:"hours,omitempty"`
	Rate          string `json:"rate,omitempty"`
	OTRate        string `json:"otRate,omitempty"`
	IsHoliday     bool   `json:"isHoliday,omitempty"`
	IsHolidayOff  bool   `json:"isHolidayOff,omitempty"`
	CalculatedPay string `json:"calculatedPay,omitempty"`
	OTPay         string `json:"otPay,omitempty"`

	// Bill / subscription fields
	Label  string `json:"label,omitempty"`
	Amount string `json:"amount,omitempty"`
	Paid   bool   `json:"paid,omitempty"`

	Recurrence *Recurrence `json:"recurrence,omitempty"`
}

// =============================================================================
// SETTINGS
// =============================================================================

// Settings is the process-wide rate/anchor record, threaded explicitly into
// every engine entry point. All numeric fields are decimal strings.
type Settings struct {
	UserName          string          `json:"userName"`
	HourlyRate        string          `json:"hourlyRate"`
	OvertimeRate      string          `json:"overtimeRate"`
	OTThreshold       string          `json:"otThreshold"`
	PensionAmount     string          `json:"pensionAmount"`
	TaxRate           string          `json:"taxRate"`
	SalesTaxRate      string          `json:"salesTaxRate"`
	PreTaxDeductions  string          `json:"preTaxDeductions"`
	PostTaxDeductions string          `json:"postTaxDeductions"`
	CycleStart        string          `json:"cycleStart"`
	PaydayDate        string          `json:"paydayDate"`
	GroceryBudget     string          `json:"groceryBudget"`
	TaxedStores       map[string]bool `json:"taxedStores,omitempty"`
}

// BaseRate returns the global hourly rate.
func (s Settings) BaseRate() decimal.Decimal { return ParseDecimal(s.HourlyRate) }

// EffectiveOTRate returns the configured overtime rate, falling back to
// 1.5x the base rate when none is configured.
func (s Settings) EffectiveOTRate() decimal.Decimal {
	ot := ParseDecimal(s.OvertimeRate)
	if ot.IsZero() {
		return s.BaseRate().Mul(decimal.NewFromFloat(1.5))
	}
	return ot
}

// Threshold returns the weekly hour ceiling before overtime applies,
// defaulting to 40 when unset.
func (s Settings) Threshold() decimal.Decimal {
	limit := ParseDecimal(s.OTThreshold)
	if limit.IsZero() {
		return decimal.NewFromInt(40)
	}
	return limit
}

// =============================================================================
// GROCERIES AND FUEL
// =============================================================================

// GroceryItem is one purchased (or planned) line. Price is already
// quantity-extended; UnitPrice/Quantity/Unit are informational.
type GroceryItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	UnitPrice string `json:"unitPrice,omitempty"`
	Quantity  string `json:"quantity,omitempty"`
	Unit      string `json:"unit,omitempty"`
	Store     string `json:"store,omitempty"`
	Date      string `json:"date"`
	Checked   bool   `json:"checked"`
}

// FuelLog is one fill-up.
type FuelLog struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	PPG       string `json:"ppg"`
	Gallons   string `json:"gallons"`
	TotalCost string `json:"totalCost"`
}
