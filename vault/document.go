/*
Package vault defines the flat synced document the whole budget state lives
in, plus the field-wise merge used when a client pushes settings changes.

PURPOSE:
  The document is one JSON object: every settings field at the top level
  next to the four record lists. Keeping it flat means a settings patch is
  just a sparse version of the same object, and merging is per-field
  last-write-wins with no structural diffing.
*/
package vault

import "github.com/warp/budget-engine/budget"

// Document is the complete synced state.
type Document struct {
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

	CalendarRules []budget.CalendarRule `json:"calendarRules"`
	History       []budget.GroceryItem  `json:"history"` // active grocery list
	Archive       []budget.GroceryItem  `json:"archive"` // completed runs
	FuelLogs      []budget.FuelLog      `json:"fuelLogs"`
}

// DefaultDocument is the starting state for a fresh database.
func DefaultDocument() Document {
	return Document{
		HourlyRate:    "0",
		OvertimeRate:  "0",
		OTThreshold:   "40",
		GroceryBudget: "400.00",
		TaxedStores:   map[string]bool{},
	}
}

// Settings extracts the settings record from the document.
func (d Document) Settings() budget.Settings {
	return budget.Settings{
		UserName:          d.UserName,
		HourlyRate:        d.HourlyRate,
		OvertimeRate:      d.OvertimeRate,
		OTThreshold:       d.OTThreshold,
		PensionAmount:     d.PensionAmount,
		TaxRate:           d.TaxRate,
		SalesTaxRate:      d.SalesTaxRate,
		PreTaxDeductions:  d.PreTaxDeductions,
		PostTaxDeductions: d.PostTaxDeductions,
		CycleStart:        d.CycleStart,
		PaydayDate:        d.PaydayDate,
		GroceryBudget:     d.GroceryBudget,
		TaxedStores:       d.TaxedStores,
	}
}

// SetSettings writes a settings record back into the document fields.
func (d *Document) SetSettings(s budget.Settings) {
	d.UserName = s.UserName
	d.HourlyRate = s.HourlyRate
	d.OvertimeRate = s.OvertimeRate
	d.OTThreshold = s.OTThreshold
	d.PensionAmount = s.PensionAmount
	d.TaxRate = s.TaxRate
	d.SalesTaxRate = s.SalesTaxRate
	d.PreTaxDeductions = s.PreTaxDeductions
	d.PostTaxDeductions = s.PostTaxDeductions
	d.CycleStart = s.CycleStart
	d.PaydayDate = s.PaydayDate
	d.GroceryBudget = s.GroceryBudget
	d.TaxedStores = s.TaxedStores
}

// SettingsPatch is a sparse settings update: nil fields are untouched,
// non-nil fields win over the stored value.
type SettingsPatch struct {
	UserName          *string          `json:"userName,omitempty"`
	HourlyRate        *string          `json:"hourlyRate,omitempty"`
	OvertimeRate      *string          `json:"overtimeRate,omitempty"`
	OTThreshold       *string          `json:"otThreshold,omitempty"`
	PensionAmount     *string          `json:"pensionAmount,omitempty"`
	TaxRate           *string          `json:"taxRate,omitempty"`
	SalesTaxRate      *string          `json:"salesTaxRate,omitempty"`
	PreTaxDeductions  *string          `json:"preTaxDeductions,omitempty"`
	PostTaxDeductions *string          `json:"postTaxDeductions,omitempty"`
	CycleStart        *string          `json:"cycleStart,omitempty"`
	PaydayDate        *string          `json:"paydayDate,omitempty"`
	GroceryBudget     *string          `json:"groceryBudget,omitempty"`
	TaxedStores       *map[string]bool `json:"taxedStores,omitempty"`
}

// Fields lists the patch fields that are set, for change notifications.
func (p SettingsPatch) Fields() []string {
	var out []string
	set := func(name string, present bool) {
		if present {
			out = append(out, name)
		}
	}
	set("userName", p.UserName != nil)
	set("hourlyRate", p.HourlyRate != nil)
	set("overtimeRate", p.OvertimeRate != nil)
	set("otThreshold", p.OTThreshold != nil)
	set("pensionAmount", p.PensionAmount != nil)
	set("taxRate", p.TaxRate != nil)
	set("salesTaxRate", p.SalesTaxRate != nil)
	set("preTaxDeductions", p.PreTaxDeductions != nil)
	set("postTaxDeductions", p.PostTaxDeductions != nil)
	set("cycleStart", p.CycleStart != nil)
	set("paydayDate", p.PaydayDate != nil)
	set("groceryBudget", p.GroceryBudget != nil)
	set("taxedStores", p.TaxedStores != nil)
	return out
}

// ApplySettings merges a patch into the document, field-wise last write
// wins. Absent fields keep their stored value.
func (d *Document) ApplySettings(p SettingsPatch) {
	if p.UserName != nil {
		d.UserName = *p.UserName
	}
	if p.HourlyRate != nil {
		d.HourlyRate = *p.HourlyRate
	}
	if p.OvertimeRate != nil {
		d.OvertimeRate = *p.OvertimeRate
	}
	if p.OTThreshold != nil {
		d.OTThreshold = *p.OTThreshold
	}
	if p.PensionAmount != nil {
		d.PensionAmount = *p.PensionAmount
	}
	if p.TaxRate != nil {
		d.TaxRate = *p.TaxRate
	}
	if p.SalesTaxRate != nil {
		d.SalesTaxRate = *p.SalesTaxRate
	}
	if p.PreTaxDeductions != nil {
		d.PreTaxDeductions = *p.PreTaxDeductions
	}
	if p.PostTaxDeductions != nil {
		d.PostTaxDeductions = *p.PostTaxDeductions
	}
	if p.CycleStart != nil {
		d.CycleStart = *p.CycleStart
	}
	if p.PaydayDate != nil {
		d.PaydayDate = *p.PaydayDate
	}
	if p.GroceryBudget != nil {
		d.GroceryBudget = *p.GroceryBudget
	}
	if p.TaxedStores != nil {
		d.TaxedStores = *p.TaxedStores
	}
}
