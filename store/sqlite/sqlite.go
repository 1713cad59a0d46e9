/*
Package sqlite provides the SQLite-backed persistence layer for the budget
engine.

PURPOSE:
  The synced state is one flat document: settings fields plus four record
  lists. The store mirrors that shape directly - a key/value table for the
  settings fields and one table per record list, each row carrying the
  record's JSON payload next to the few columns worth indexing.

STATE-REPLACEMENT WRITES:
  List mutations arrive as whole replacement lists (the engine derives a new
  list and hands it over). Each Replace* call swaps the table contents in a
  single transaction, so readers never observe a half-applied mutation.
  ArchiveRun in particular relies on ReplaceGroceries moving both lists in
  one transaction.

ORDERING:
  Lists are position-ordered (newest first as maintained by the domain
  packages); position is persisted explicitly so a round-trip preserves it.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of a single *sql.DB.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/budget.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/budget-engine/budget"
	"github.com/warp/budget-engine/grocery"
)

// Store persists the budget document in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Flat settings document, one row per field, JSON-encoded values
	CREATE TABLE IF NOT EXISTS settings (
		field TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	-- Calendar rules (shifts, bills, subscriptions)
	CREATE TABLE IF NOT EXISTS calendar_rules (
		id TEXT PRIMARY KEY,
		parent_id TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		type TEXT NOT NULL,
		payload_json TEXT NOT NULL,
		position INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_rules_date ON calendar_rules(date);
	CREATE INDEX IF NOT EXISTS idx_rules_parent ON calendar_rules(parent_id)
		WHERE parent_id != '';

	-- Grocery items, active list and archive in one table
	CREATE TABLE IF NOT EXISTS grocery_items (
		id TEXT PRIMARY KEY,
		list TEXT NOT NULL CHECK (list IN ('active', 'archive')),
		date TEXT NOT NULL,
		payload_json TEXT NOT NULL,
		position INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_grocery_list ON grocery_items(list);
	CREATE INDEX IF NOT EXISTS idx_grocery_date ON grocery_items(date);

	-- Fuel fill-ups
	CREATE TABLE IF NOT EXISTS fuel_logs (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		payload_json TEXT NOT NULL,
		position INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_fuel_date ON fuel_logs(date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SETTINGS
// =============================================================================

// GetSettings reassembles the settings record from the per-field rows.
// A fresh database yields the zero record.
func (s *Store) GetSettings(ctx context.Context) (budget.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT field, value FROM settings")
	if err != nil {
		return budget.Settings{}, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	doc := make(map[string]json.RawMessage)
	for rows.Next() {
		var field, value string
		if err := rows.Scan(&field, &value); err != nil {
			return budget.Settings{}, fmt.Errorf("failed to scan setting: %w", err)
		}
		doc[field] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return budget.Settings{}, err
	}

	blob, err := json.Marshal(doc)
	if err != nil {
		return budget.Settings{}, fmt.Errorf("failed to assemble settings: %w", err)
	}
	var out budget.Settings
	if err := json.Unmarshal(blob, &out); err != nil {
		return budget.Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	return out, nil
}

// SaveSettings upserts every settings field. Field-wise rows keep the stored
// shape identical to the flat synced document.
func (s *Store) SaveSettings(ctx context.Context, settings budget.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(blob, &doc); err != nil {
		return fmt.Errorf("failed to split settings: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO settings (field, value) VALUES (?, ?)
		ON CONFLICT(field) DO UPDATE SET value = excluded.value
	`
	for field, value := range doc {
		if _, err := tx.ExecContext(ctx, query, field, string(value)); err != nil {
			return fmt.Errorf("failed to save setting %s: %w", field, err)
		}
	}

	return tx.Commit()
}

// =============================================================================
// CALENDAR RULES
// =============================================================================

// ListRules returns all calendar rules in stored order.
func (s *Store) ListRules(ctx context.Context) ([]budget.CalendarRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT payload_json FROM calendar_rules ORDER BY position ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer rows.Close()

	var out []budget.CalendarRule
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		var r budget.CalendarRule
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, fmt.Errorf("failed to decode rule: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ReplaceRules swaps the full rule set in one transaction.
func (s *Store) ReplaceRules(ctx context.Context, rules []budget.CalendarRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM calendar_rules"); err != nil {
		return fmt.Errorf("failed to clear rules: %w", err)
	}

	query := `
		INSERT INTO calendar_rules (id, parent_id, date, type, payload_json, position)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for i, r := range rules {
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to encode rule %s: %w", r.ID, err)
		}
		if _, err := tx.ExecContext(ctx, query,
			r.ID, r.ParentID, r.Date, string(r.Type), string(payload), i); err != nil {
			return fmt.Errorf("failed to insert rule %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// =============================================================================
// GROCERIES
// =============================================================================

// ListGroceries returns both grocery lists in stored order.
func (s *Store) ListGroceries(ctx context.Context) (grocery.Lists, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT list, payload_json FROM grocery_items ORDER BY position ASC")
	if err != nil {
		return grocery.Lists{}, fmt.Errorf("failed to query groceries: %w", err)
	}
	defer rows.Close()

	var out grocery.Lists
	for rows.Next() {
		var list, payload string
		if err := rows.Scan(&list, &payload); err != nil {
			return grocery.Lists{}, fmt.Errorf("failed to scan grocery item: %w", err)
		}
		var it budget.GroceryItem
		if err := json.Unmarshal([]byte(payload), &it); err != nil {
			return grocery.Lists{}, fmt.Errorf("failed to decode grocery item: %w", err)
		}
		if list == "archive" {
			out.Archive = append(out.Archive, it)
		} else {
			out.Active = append(out.Active, it)
		}
	}
	return out, rows.Err()
}

// ReplaceGroceries swaps both grocery lists in one transaction. The archive
// run depends on this: moving every active item into the archive is a single
// atomic swap, never a partial state.
func (s *Store) ReplaceGroceries(ctx context.Context, lists grocery.Lists) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM grocery_items"); err != nil {
		return fmt.Errorf("failed to clear groceries: %w", err)
	}

	query := `
		INSERT INTO grocery_items (id, list, date, payload_json, position)
		VALUES (?, ?, ?, ?, ?)
	`
	insert := func(items []budget.GroceryItem, list string, offset int) error {
		for i, it := range items {
			payload, err := json.Marshal(it)
			if err != nil {
				return fmt.Errorf("failed to encode grocery item %s: %w", it.ID, err)
			}
			if _, err := tx.ExecContext(ctx, query,
				it.ID, list, it.Date, string(payload), offset+i); err != nil {
				return fmt.Errorf("failed to insert grocery item %s: %w", it.ID, err)
			}
		}
		return nil
	}
	if err := insert(lists.Active, "active", 0); err != nil {
		return err
	}
	if err := insert(lists.Archive, "archive", len(lists.Active)); err != nil {
		return err
	}

	return tx.Commit()
}

// =============================================================================
// FUEL LOGS
// =============================================================================

// ListFuel returns all fuel logs in stored order.
func (s *Store) ListFuel(ctx context.Context) ([]budget.FuelLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT payload_json FROM fuel_logs ORDER BY position ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query fuel logs: %w", err)
	}
	defer rows.Close()

	var out []budget.FuelLog
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan fuel log: %w", err)
		}
		var l budget.FuelLog
		if err := json.Unmarshal([]byte(payload), &l); err != nil {
			return nil, fmt.Errorf("failed to decode fuel log: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ReplaceFuel swaps the full fuel log in one transaction.
func (s *Store) ReplaceFuel(ctx context.Context, logs []budget.FuelLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM fuel_logs"); err != nil {
		return fmt.Errorf("failed to clear fuel logs: %w", err)
	}

	query := `
		INSERT INTO fuel_logs (id, date, payload_json, position)
		VALUES (?, ?, ?, ?)
	`
	for i, l := range logs {
		payload, err := json.Marshal(l)
		if err != nil {
			return fmt.Errorf("failed to encode fuel log %s: %w", l.ID, err)
		}
		if _, err := tx.ExecContext(ctx, query, l.ID, l.Date, string(payload), i); err != nil {
			return fmt.Errorf("failed to insert fuel log %s: %w", l.ID, err)
		}
	}

	return tx.Commit()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"settings", "calendar_rules", "grocery_items", "fuel_logs"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
