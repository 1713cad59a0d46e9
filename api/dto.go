/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

  The record types (CalendarRule, GroceryItem, FuelLog) already carry the
  synced-document field names on their JSON tags, so they cross the API
  boundary as-is; DTOs here wrap computed views around them.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - vault/document.go: SettingsPatch used by the settings endpoint
*/
package api

import (
	"github.com/warp/budget-engine/budget"
	"github.com/warp/budget-engine/payroll"
)

// =============================================================================
// PAYROLL SUMMARY
// =============================================================================

// PeriodDTO is the active pay-period window.
type PeriodDTO struct {
	CycleStart string `json:"cycleStart"`
	CycleEnd   string `json:"cycleEnd"`
}

// WeekStatDTO is one week's hour/gross breakdown.
type WeekStatDTO struct {
	Hours string `json:"hours"`
	Gross string `json:"gross"`
}

// ExpensesDTO splits the period's bills by paid state.
type ExpensesDTO struct {
	Total   string `json:"total"`
	Pending string `json:"pending"`
	Paid    string `json:"paid"`
}

// EnrichedShiftDTO is a shift annotated with its computed pay.
type EnrichedShiftDTO struct {
	budget.CalendarRule
	Pay         string `json:"pay"`
	IsOTApplied bool   `json:"isOtApplied"`
}

// PaydayDTO is the next-payday countdown.
type PaydayDTO struct {
	Days int    `json:"days"`
	Date string `json:"date"`
}

// SummaryDTO is the full dashboard payload for one pay period.
type SummaryDTO struct {
	Period PeriodDTO `json:"period"`
	Offset int       `json:"offset"`

	Gross string `json:"gross"`
	Net   string `json:"net"`
	Tax   string `json:"tax"`
	OTPay string `json:"otPay"`

	WeeklyStats struct {
		Week1 WeekStatDTO `json:"week1"`
		Week2 WeekStatDTO `json:"week2"`
	} `json:"weeklyStats"`

	Expenses ExpensesDTO        `json:"expenses"`
	Shifts   []EnrichedShiftDTO `json:"shifts"`

	GrocerySpend  string               `json:"grocerySpend"`
	GroceryBudget string               `json:"groceryBudget"`
	GroceryList   []budget.GroceryItem `json:"groceryList"`
	FuelSpend     string               `json:"fuelSpend"`

	Payday *PaydayDTO `json:"payday,omitempty"`
}

// ScheduleDTO marks a date against the two bi-weekly anchors.
type ScheduleDTO struct {
	Date         string `json:"date"`
	IsCycleStart bool   `json:"isCycleStart"`
	IsPayday     bool   `json:"isPayday"`
}

// =============================================================================
// GROCERIES
// =============================================================================

// GroceryListsDTO is both grocery lists.
type GroceryListsDTO struct {
	Active  []budget.GroceryItem `json:"active"`
	Archive []budget.GroceryItem `json:"archive"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toPeriodDTO(p payroll.Period) PeriodDTO {
	return PeriodDTO{CycleStart: p.Start.String(), CycleEnd: p.End.String()}
}

func toWeekStatDTO(ws payroll.WeekStat) WeekStatDTO {
	return WeekStatDTO{Hours: budget.Fixed1(ws.Hours), Gross: budget.Fixed2(ws.Gross)}
}

func toEnrichedShiftDTOs(shifts []payroll.EnrichedShift) []EnrichedShiftDTO {
	dtos := make([]EnrichedShiftDTO, len(shifts))
	for i, s := range shifts {
		dtos[i] = EnrichedShiftDTO{
			CalendarRule: s.CalendarRule,
			Pay:          budget.Fixed2(s.Pay),
			IsOTApplied:  s.IsOTApplied,
		}
	}
	return dtos
}
