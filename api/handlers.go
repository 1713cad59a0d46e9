/*
handlers.go - HTTP API handlers for the budget engine

PURPOSE:
  Exposes the budget engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Vault:
    GET    /api/vault                  Full flat document (device bootstrap)

  Settings:
    GET    /api/settings               Current settings record
    PUT    /api/settings               Sparse patch, field-wise merge

  Calendar rules:
    GET    /api/rules                  All rules
    POST   /api/rules                  Save rule (stamp + recurrence expand)
    DELETE /api/rules/{id}             Delete rule
    POST   /api/rules/{id}/paid        Toggle paid flag

  Payroll:
    GET    /api/payroll/summary        Dashboard payload for one period
    GET    /api/payroll/schedule       Cycle-start/payday check for a date

  Reports:
    GET    /api/reports/monthly        Monthly aggregate report

  Groceries:
    GET    /api/groceries              Active + archive lists
    POST   /api/groceries              Add item
    PUT    /api/groceries/{id}         Update item (either list)
    DELETE /api/groceries/{id}         Delete item (either list)
    POST   /api/groceries/{id}/check   Toggle checked
    POST   /api/groceries/archive-run  Atomic archive of the active list

  Fuel:
    GET    /api/fuel                   Fuel logs
    POST   /api/fuel                   Add log
    DELETE /api/fuel/{id}              Delete log

  Demo:
    POST   /api/demo/load              Seed demo data

REQUEST FLOW:
  1. Parse HTTP request
  2. Load current state from the store
  3. Call domain logic (pure list-in, list-out functions)
  4. Replace the stored state
  5. Publish a change signal (fire-and-forget)
  6. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (nothing to archive)
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - seed.go: Demo data loader
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warp/budget-engine/budget"
	"github.com/warp/budget-engine/calendar"
	"github.com/warp/budget-engine/fuel"
	"github.com/warp/budget-engine/grocery"
	"github.com/warp/budget-engine/notify"
	"github.com/warp/budget-engine/payroll"
	"github.com/warp/budget-engine/report"
	"github.com/warp/budget-engine/store/sqlite"
	"github.com/warp/budget-engine/vault"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    *sqlite.Store
	Notifier notify.Notifier

	// Now is injectable for deterministic period resolution in tests.
	Now func() time.Time
}

// NewHandler creates a new handler with the given store and notifier.
func NewHandler(store *sqlite.Store, notifier notify.Notifier) *Handler {
	return &Handler{
		Store:    store,
		Notifier: notifier,
		Now:      time.Now,
	}
}

// notifyChange publishes a change signal without failing the request.
func (h *Handler) notifyChange(r *http.Request, scope string, fields ...string) {
	if err := h.Notifier.PublishChange(r.Context(), scope, fields...); err != nil {
		slog.WarnContext(r.Context(), "change signal not published",
			"scope", scope, "error", err)
	}
}

// =============================================================================
// VAULT
// =============================================================================

// GetVault assembles and returns the full flat document. Used by devices to
// bootstrap their local state in one request.
func (h *Handler) GetVault(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Store.GetSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	rules, err := h.Store.ListRules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rules", err)
		return
	}
	groceries, err := h.Store.ListGroceries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list groceries", err)
		return
	}
	fuelLogs, err := h.Store.ListFuel(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list fuel logs", err)
		return
	}

	var doc vault.Document
	doc.SetSettings(settings)
	doc.CalendarRules = rules
	doc.History = groceries.Active
	doc.Archive = groceries.Archive
	doc.FuelLogs = fuelLogs
	if doc.CalendarRules == nil {
		doc.CalendarRules = []budget.CalendarRule{}
	}
	if doc.History == nil {
		doc.History = []budget.GroceryItem{}
	}
	if doc.Archive == nil {
		doc.Archive = []budget.GroceryItem{}
	}
	if doc.FuelLogs == nil {
		doc.FuelLogs = []budget.FuelLog{}
	}
	writeJSON(w, http.StatusOK, doc)
}

// =============================================================================
// SETTINGS
// =============================================================================

// GetSettings returns the current settings record.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Store.GetSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// UpdateSettings applies a sparse settings patch, field-wise last write wins.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch vault.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	settings, err := h.Store.GetSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}

	var doc vault.Document
	doc.SetSettings(settings)
	doc.ApplySettings(patch)

	merged := doc.Settings()
	if err := h.Store.SaveSettings(r.Context(), merged); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings", err)
		return
	}

	h.notifyChange(r, "settings", patch.Fields()...)
	writeJSON(w, http.StatusOK, merged)
}

// =============================================================================
// CALENDAR RULES
// =============================================================================

// ListRules returns all calendar rules.
func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.Store.ListRules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rules", err)
		return
	}
	if rules == nil {
		rules = []budget.CalendarRule{}
	}
	writeJSON(w, http.StatusOK, rules)
}

// SaveRule inserts or replaces a rule, stamping pay values and expanding
// any recurrence template.
func (h *Handler) SaveRule(w http.ResponseWriter, r *http.Request) {
	var entry budget.CalendarRule
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if _, ok := budget.ParseDay(entry.Date); !ok {
		writeError(w, http.StatusBadRequest, "Rule date is required", budget.ErrInvalidDate)
		return
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	settings, err := h.Store.GetSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	rules, err := h.Store.ListRules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rules", err)
		return
	}

	updated := calendar.SaveRule(rules, entry, settings, h.Now())
	if err := h.Store.ReplaceRules(r.Context(), updated); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save rule", err)
		return
	}

	// Echo the stored record, not the request: saving stamps rates and the
	// cached pay projection onto it.
	saved := entry
	for _, rule := range updated {
		if rule.ID == entry.ID {
			saved = rule
			break
		}
	}

	h.notifyChange(r, "rules")
	writeJSON(w, http.StatusCreated, saved)
}

// DeleteRule removes a rule by id.
func (h *Handler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rules, err := h.Store.ListRules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rules", err)
		return
	}

	updated := calendar.DeleteRule(rules, id)
	if len(updated) == len(rules) {
		writeError(w, http.StatusNotFound, "Rule not found", nil)
		return
	}
	if err := h.Store.ReplaceRules(r.Context(), updated); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete rule", err)
		return
	}

	h.notifyChange(r, "rules")
	w.WriteHeader(http.StatusNoContent)
}

// TogglePaid flips the paid flag of a bill/subscription rule.
func (h *Handler) TogglePaid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rules, err := h.Store.ListRules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rules", err)
		return
	}

	updated, err := calendar.TogglePaid(rules, id)
	if err != nil {
		if budget.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Rule not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to toggle paid", err)
		return
	}
	if err := h.Store.ReplaceRules(r.Context(), updated); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save rules", err)
		return
	}

	h.notifyChange(r, "rules")
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PAYROLL
// =============================================================================

// PayrollSummary computes the full dashboard payload for one pay period.
// The offset query parameter navigates periods: 0 = current, +1 next, -1
// previous.
func (h *Handler) PayrollSummary(w http.ResponseWriter, r *http.Request) {
	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid offset", err)
			return
		}
		offset = n
	}

	settings, err := h.Store.GetSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	rules, err := h.Store.ListRules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rules", err)
		return
	}
	groceries, err := h.Store.ListGroceries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list groceries", err)
		return
	}
	fuelLogs, err := h.Store.ListFuel(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list fuel logs", err)
		return
	}

	engine := payroll.Engine{
		Rules:    rules,
		Settings: settings,
		Offset:   offset,
		Now:      h.Now(),
	}
	period := engine.Period()
	stats := engine.WeeklyStats()
	expenses := engine.Expenses()

	dto := SummaryDTO{
		Period: toPeriodDTO(period),
		Offset: offset,
		Gross:  budget.Fixed2(engine.Gross()),
		Net:    budget.Fixed2(engine.Net()),
		Tax:    budget.Fixed2(engine.Tax()),
		OTPay:  budget.Fixed2(engine.OTPay()),
		Expenses: ExpensesDTO{
			Total:   budget.Fixed2(expenses.Total),
			Pending: budget.Fixed2(expenses.Pending),
			Paid:    budget.Fixed2(expenses.Paid),
		},
		Shifts:        toEnrichedShiftDTOs(engine.EnrichedShifts()),
		GrocerySpend:  budget.Fixed2(grocery.PeriodSpend(groceries, period, settings)),
		GroceryBudget: settings.GroceryBudget,
		GroceryList:   grocery.PeriodList(groceries, period),
		FuelSpend:     budget.Fixed2(fuel.PeriodTotal(fuelLogs, period)),
	}
	dto.WeeklyStats.Week1 = toWeekStatDTO(stats.Week1)
	dto.WeeklyStats.Week2 = toWeekStatDTO(stats.Week2)
	if dto.GroceryList == nil {
		dto.GroceryList = []budget.GroceryItem{}
	}

	if countdown, ok := payroll.NextPayday(settings.PaydayDate, h.Now()); ok {
		dto.Payday = &PaydayDTO{Days: countdown.Days, Date: countdown.Date.String()}
	}

	writeJSON(w, http.StatusOK, dto)
}

// PaySchedule checks a date against the bi-weekly anchors.
func (h *Handler) PaySchedule(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if _, ok := budget.ParseDay(date); !ok {
		writeError(w, http.StatusBadRequest, "Invalid or missing date", budget.ErrInvalidDate)
		return
	}

	settings, err := h.Store.GetSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}

	flags := payroll.CheckPaySchedule(date, settings)
	writeJSON(w, http.StatusOK, ScheduleDTO{
		Date:         date,
		IsCycleStart: flags.IsCycleStart,
		IsPayday:     flags.IsPayday,
	})
}

// =============================================================================
// REPORTS
// =============================================================================

// MonthlyReport aggregates one calendar month. The month query parameter is
// YYYY-MM; it defaults to the current month.
func (h *Handler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	now := h.Now()
	year, month := now.Year(), now.Month()
	if raw := r.URL.Query().Get("month"); raw != "" {
		t, err := time.Parse("2006-01", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid month, want YYYY-MM", err)
			return
		}
		year, month = t.Year(), t.Month()
	}

	settings, err := h.Store.GetSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	rules, err := h.Store.ListRules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rules", err)
		return
	}
	groceries, err := h.Store.ListGroceries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list groceries", err)
		return
	}
	fuelLogs, err := h.Store.ListFuel(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list fuel logs", err)
		return
	}

	monthly := report.Build(report.Inputs{
		Rules:     rules,
		Groceries: groceries,
		Fuel:      fuelLogs,
		Settings:  settings,
	}, year, month)

	writeJSON(w, http.StatusOK, monthly)
}

// =============================================================================
// GROCERIES
// =============================================================================

// ListGroceries returns both grocery lists.
func (h *Handler) ListGroceries(w http.ResponseWriter, r *http.Request) {
	lists, err := h.Store.ListGroceries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list groceries", err)
		return
	}
	dto := GroceryListsDTO{Active: lists.Active, Archive: lists.Archive}
	if dto.Active == nil {
		dto.Active = []budget.GroceryItem{}
	}
	if dto.Archive == nil {
		dto.Archive = []budget.GroceryItem{}
	}
	writeJSON(w, http.StatusOK, dto)
}

// AddGrocery prepends an item to the active list.
func (h *Handler) AddGrocery(w http.ResponseWriter, r *http.Request) {
	var item budget.GroceryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if item.Name == "" {
		writeError(w, http.StatusBadRequest, "Item name is required", nil)
		return
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Date == "" {
		item.Date = budget.DayOf(h.Now()).String()
	}

	lists, err := h.Store.ListGroceries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list groceries", err)
		return
	}
	if err := h.Store.ReplaceGroceries(r.Context(), lists.Add(item)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save groceries", err)
		return
	}

	h.notifyChange(r, "groceries")
	writeJSON(w, http.StatusCreated, item)
}

// UpdateGrocery replaces an item in place, in whichever list holds it.
func (h *Handler) UpdateGrocery(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var item budget.GroceryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	item.ID = id

	lists, err := h.Store.ListGroceries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list groceries", err)
		return
	}
	if err := h.Store.ReplaceGroceries(r.Context(), lists.Update(item)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save groceries", err)
		return
	}

	h.notifyChange(r, "groceries")
	writeJSON(w, http.StatusOK, item)
}

// DeleteGrocery removes an item from whichever list holds it.
func (h *Handler) DeleteGrocery(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	lists, err := h.Store.ListGroceries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list groceries", err)
		return
	}
	if err := h.Store.ReplaceGroceries(r.Context(), lists.Delete(id)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save groceries", err)
		return
	}

	h.notifyChange(r, "groceries")
	w.WriteHeader(http.StatusNoContent)
}

// ToggleGroceryChecked flips the checked flag of an active item.
func (h *Handler) ToggleGroceryChecked(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	lists, err := h.Store.ListGroceries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list groceries", err)
		return
	}
	if err := h.Store.ReplaceGroceries(r.Context(), lists.ToggleChecked(id)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save groceries", err)
		return
	}

	h.notifyChange(r, "groceries")
	w.WriteHeader(http.StatusNoContent)
}

// ArchiveRun completes the current shopping run: all active items move to
// the archive marked checked, atomically.
func (h *Handler) ArchiveRun(w http.ResponseWriter, r *http.Request) {
	lists, err := h.Store.ListGroceries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list groceries", err)
		return
	}

	updated, err := lists.ArchiveRun()
	if err != nil {
		if errors.Is(err, budget.ErrNothingToArchive) {
			writeError(w, http.StatusConflict, "Active list is empty", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to archive", err)
		return
	}
	if err := h.Store.ReplaceGroceries(r.Context(), updated); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save groceries", err)
		return
	}

	h.notifyChange(r, "groceries")
	writeJSON(w, http.StatusOK, GroceryListsDTO{
		Active:  []budget.GroceryItem{},
		Archive: updated.Archive,
	})
}

// =============================================================================
// FUEL
// =============================================================================

// ListFuel returns all fuel logs.
func (h *Handler) ListFuel(w http.ResponseWriter, r *http.Request) {
	logs, err := h.Store.ListFuel(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list fuel logs", err)
		return
	}
	if logs == nil {
		logs = []budget.FuelLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

// AddFuel prepends a fill-up to the log.
func (h *Handler) AddFuel(w http.ResponseWriter, r *http.Request) {
	var entry budget.FuelLog
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Date == "" {
		entry.Date = budget.DayOf(h.Now()).String()
	}

	logs, err := h.Store.ListFuel(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list fuel logs", err)
		return
	}
	if err := h.Store.ReplaceFuel(r.Context(), fuel.Add(logs, entry)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save fuel logs", err)
		return
	}

	h.notifyChange(r, "fuel")
	writeJSON(w, http.StatusCreated, entry)
}

// DeleteFuel removes a fill-up by id.
func (h *Handler) DeleteFuel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	logs, err := h.Store.ListFuel(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list fuel logs", err)
		return
	}
	if err := h.Store.ReplaceFuel(r.Context(), fuel.Delete(logs, id)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save fuel logs", err)
		return
	}

	h.notifyChange(r, "fuel")
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
