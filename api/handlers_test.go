/*
handlers_test.go - HTTP-level tests for the API

Tests run against a real router with an in-memory SQLite store, a no-op
notifier and a pinned clock, exercising the full request flow.
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/warp/budget-engine/budget"
	"github.com/warp/budget-engine/notify"
	"github.com/warp/budget-engine/store/sqlite"
	"github.com/warp/budget-engine/vault"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// Pinned inside the period anchored at 2026-01-05.
var testNow = time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) *httptest.Server {
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	handler := NewHandler(store, notify.Nop{})
	handler.Now = func() time.Time { return testNow }

	srv := httptest.NewServer(NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return out
}

func seedSettings(t *testing.T, srv *httptest.Server) {
	resp := doJSON(t, http.MethodPut, srv.URL+"/api/settings", map[string]any{
		"hourlyRate":   "25",
		"overtimeRate": "37.50",
		"otThreshold":  "40",
		"taxRate":      "10",
		"cycleStart":   "2026-01-05",
		"paydayDate":   "2026-01-16",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Failed to seed settings: status %d", resp.StatusCode)
	}
}

// =============================================================================
// VAULT
// =============================================================================

func TestGetVault_ReturnsFullDocument(t *testing.T) {
	srv := newTestServer(t)
	seedSettings(t, srv)

	doJSON(t, http.MethodPost, srv.URL+"/api/rules", budget.CalendarRule{
		ID: "s1", Date: "2026-01-05", Type: budget.RuleShift, Hours: "8",
	})
	doJSON(t, http.MethodPost, srv.URL+"/api/groceries", budget.GroceryItem{
		ID: "g1", Name: "Milk", Price: "3.49",
	})

	doc := decode[vault.Document](t, doJSON(t, http.MethodGet, srv.URL+"/api/vault", nil))
	if doc.HourlyRate != "25" {
		t.Errorf("hourlyRate = %s, want 25", doc.HourlyRate)
	}
	if len(doc.CalendarRules) != 1 || doc.CalendarRules[0].ID != "s1" {
		t.Errorf("calendarRules = %+v, want the saved shift", doc.CalendarRules)
	}
	if len(doc.History) != 1 || len(doc.Archive) != 0 {
		t.Errorf("history/archive = %d/%d, want 1/0", len(doc.History), len(doc.Archive))
	}
	if doc.FuelLogs == nil {
		t.Error("fuelLogs should decode as an empty list, not null")
	}
}

// =============================================================================
// SETTINGS
// =============================================================================

func TestUpdateSettings_SparsePatchMergesFieldWise(t *testing.T) {
	// GIVEN: Stored settings with several fields
	// WHEN: Patching a single field
	// THEN: Only that field changes

	srv := newTestServer(t)
	seedSettings(t, srv)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/settings", map[string]any{
		"hourlyRate": "27.50",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	settings := decode[budget.Settings](t, doJSON(t, http.MethodGet, srv.URL+"/api/settings", nil))
	if settings.HourlyRate != "27.50" {
		t.Errorf("hourlyRate = %s, want 27.50", settings.HourlyRate)
	}
	if settings.CycleStart != "2026-01-05" {
		t.Errorf("cycleStart = %s, want untouched 2026-01-05", settings.CycleStart)
	}
}

// =============================================================================
// RULES + SUMMARY
// =============================================================================

func TestSaveRule_StampsAndSummaryComputes(t *testing.T) {
	// GIVEN: Settings and a 40-hour week of shifts saved over the API
	// WHEN: Requesting the payroll summary
	// THEN: Gross/net reflect the engine and shifts come back enriched

	srv := newTestServer(t)
	seedSettings(t, srv)

	for i, date := range []string{"2026-01-05", "2026-01-06", "2026-01-07", "2026-01-08", "2026-01-09"} {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/rules", budget.CalendarRule{
			ID: "s" + date, Date: date, Type: budget.RuleShift, Hours: "8",
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("shift %d: status = %d, want 201", i, resp.StatusCode)
		}
	}

	summary := decode[SummaryDTO](t, doJSON(t, http.MethodGet, srv.URL+"/api/payroll/summary", nil))
	if summary.Gross != "1000.00" {
		t.Errorf("gross = %s, want 1000.00", summary.Gross)
	}
	if summary.Net != "900.00" {
		t.Errorf("net = %s, want 900.00", summary.Net)
	}
	if len(summary.Shifts) != 5 {
		t.Errorf("got %d enriched shifts, want 5", len(summary.Shifts))
	}
	if summary.Period.CycleStart != "2026-01-05" || summary.Period.CycleEnd != "2026-01-18" {
		t.Errorf("period = %+v, want [2026-01-05, 2026-01-18]", summary.Period)
	}
	if summary.Payday == nil || summary.Payday.Date != "2026-01-16" || summary.Payday.Days != 6 {
		t.Errorf("payday = %+v, want 2026-01-16 in 6 days", summary.Payday)
	}
	for _, s := range summary.Shifts {
		if s.Rate != "25" {
			t.Errorf("shift %s rate = %s, want stamped 25", s.ID, s.Rate)
		}
	}
}

func TestSaveRule_ResponseCarriesStampedValues(t *testing.T) {
	// GIVEN: A shift posted without rate or cached pay
	// WHEN: Saving it
	// THEN: The 201 body is the stored record, rates and pay stamped

	srv := newTestServer(t)
	seedSettings(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/rules", budget.CalendarRule{
		ID: "s1", Date: "2026-01-05", Type: budget.RuleShift, Hours: "8",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	saved := decode[budget.CalendarRule](t, resp)
	if saved.Rate != "25" {
		t.Errorf("rate = %s, want stamped 25", saved.Rate)
	}
	if saved.OTRate != "37.50" {
		t.Errorf("otRate = %s, want stamped 37.50", saved.OTRate)
	}
	if saved.CalculatedPay != "200.00" {
		t.Errorf("calculatedPay = %s, want stamped 200.00", saved.CalculatedPay)
	}
	if saved.OTPay != "0.00" {
		t.Errorf("otPay = %s, want stamped 0.00", saved.OTPay)
	}
}

func TestSaveRule_RecurrenceExpandsOverAPI(t *testing.T) {
	srv := newTestServer(t)
	seedSettings(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/rules", budget.CalendarRule{
		ID: "tpl", Date: "2026-01-05", Type: budget.RuleBill, Label: "Rent", Amount: "1200",
		Recurrence: &budget.Recurrence{Active: true, Interval: 1, Unit: "weeks", Until: "2026-02-04"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	rules := decode[[]budget.CalendarRule](t, doJSON(t, http.MethodGet, srv.URL+"/api/rules", nil))
	if len(rules) != 5 {
		t.Fatalf("got %d rules, want template + 4 children", len(rules))
	}
}

func TestTogglePaid_And_DeleteRule(t *testing.T) {
	srv := newTestServer(t)
	seedSettings(t, srv)

	doJSON(t, http.MethodPost, srv.URL+"/api/rules", budget.CalendarRule{
		ID: "bill", Date: "2026-01-06", Type: budget.RuleBill, Label: "Electric", Amount: "95.50",
	})

	if resp := doJSON(t, http.MethodPost, srv.URL+"/api/rules/bill/paid", nil); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("toggle status = %d, want 204", resp.StatusCode)
	}
	summary := decode[SummaryDTO](t, doJSON(t, http.MethodGet, srv.URL+"/api/payroll/summary", nil))
	if summary.Expenses.Paid != "95.50" {
		t.Errorf("paid expenses = %s, want 95.50", summary.Expenses.Paid)
	}

	if resp := doJSON(t, http.MethodDelete, srv.URL+"/api/rules/bill", nil); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", resp.StatusCode)
	}
	if resp := doJSON(t, http.MethodDelete, srv.URL+"/api/rules/bill", nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp.StatusCode)
	}
}

func TestPaySchedule(t *testing.T) {
	srv := newTestServer(t)
	seedSettings(t, srv)

	dto := decode[ScheduleDTO](t, doJSON(t, http.MethodGet, srv.URL+"/api/payroll/schedule?date=2026-01-19", nil))
	if !dto.IsCycleStart || dto.IsPayday {
		t.Errorf("2026-01-19: got %+v, want cycle-start only", dto)
	}

	if resp := doJSON(t, http.MethodGet, srv.URL+"/api/payroll/schedule?date=nope", nil); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid date status = %d, want 400", resp.StatusCode)
	}
}

// =============================================================================
// GROCERIES
// =============================================================================

func TestGroceryFlow_AddCheckArchive(t *testing.T) {
	// GIVEN: Two items added to the active list
	// WHEN: Checking one and archiving the run
	// THEN: The archive holds both, checked; a second archive run conflicts

	srv := newTestServer(t)
	seedSettings(t, srv)

	for _, name := range []string{"Milk", "Eggs"} {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/groceries", budget.GroceryItem{
			ID: name, Name: name, Price: "3.00", Date: "2026-01-10",
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("add %s: status = %d, want 201", name, resp.StatusCode)
		}
	}

	if resp := doJSON(t, http.MethodPost, srv.URL+"/api/groceries/Milk/check", nil); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("check status = %d, want 204", resp.StatusCode)
	}

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/groceries/archive-run", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("archive status = %d, want 200", resp.StatusCode)
	}
	lists := decode[GroceryListsDTO](t, resp)
	if len(lists.Active) != 0 || len(lists.Archive) != 2 {
		t.Fatalf("after archive: %d active / %d archived, want 0/2", len(lists.Active), len(lists.Archive))
	}
	for _, it := range lists.Archive {
		if !it.Checked {
			t.Errorf("archived item %s not checked", it.ID)
		}
	}

	if resp := doJSON(t, http.MethodPost, srv.URL+"/api/groceries/archive-run", nil); resp.StatusCode != http.StatusConflict {
		t.Errorf("empty archive-run status = %d, want 409", resp.StatusCode)
	}
}

// =============================================================================
// FUEL
// =============================================================================

func TestFuelFlow_AddListDelete(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/fuel", budget.FuelLog{
		Date: "2026-01-08", PPG: "3.15", Gallons: "12.5", TotalCost: "39.38",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add status = %d, want 201", resp.StatusCode)
	}
	created := decode[budget.FuelLog](t, resp)
	if created.ID == "" {
		t.Fatal("expected a generated id")
	}

	logs := decode[[]budget.FuelLog](t, doJSON(t, http.MethodGet, srv.URL+"/api/fuel", nil))
	if len(logs) != 1 {
		t.Fatalf("got %d logs, want 1", len(logs))
	}

	if resp := doJSON(t, http.MethodDelete, srv.URL+"/api/fuel/"+created.ID, nil); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", resp.StatusCode)
	}
}

// =============================================================================
// REPORTS + DEMO
// =============================================================================

func TestMonthlyReport_OverAPI(t *testing.T) {
	srv := newTestServer(t)
	seedSettings(t, srv)

	doJSON(t, http.MethodPost, srv.URL+"/api/rules", budget.CalendarRule{
		ID: "s1", Date: "2026-01-05", Type: budget.RuleShift, Hours: "8",
	})

	report := decode[map[string]any](t, doJSON(t, http.MethodGet, srv.URL+"/api/reports/monthly?month=2026-01", nil))
	if report["monthName"] != "January" {
		t.Errorf("monthName = %v, want January", report["monthName"])
	}
	if report["shiftIncome"] != "200.00" {
		t.Errorf("shiftIncome = %v, want 200.00", report["shiftIncome"])
	}

	if resp := doJSON(t, http.MethodGet, srv.URL+"/api/reports/monthly?month=bogus", nil); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid month status = %d, want 400", resp.StatusCode)
	}
}

func TestLoadDemo_PopulatesEverything(t *testing.T) {
	srv := newTestServer(t)

	if resp := doJSON(t, http.MethodPost, srv.URL+"/api/demo/load", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("demo load status = %d, want 200", resp.StatusCode)
	}

	summary := decode[SummaryDTO](t, doJSON(t, http.MethodGet, srv.URL+"/api/payroll/summary", nil))
	if len(summary.Shifts) == 0 {
		t.Error("expected seeded shifts in the current period")
	}
	if summary.Gross == "0.00" {
		t.Error("expected non-zero gross from seeded shifts")
	}

	lists := decode[GroceryListsDTO](t, doJSON(t, http.MethodGet, srv.URL+"/api/groceries", nil))
	if len(lists.Active) == 0 || len(lists.Archive) == 0 {
		t.Errorf("expected seeded grocery lists, got %d/%d", len(lists.Active), len(lists.Archive))
	}
}
