// Package persistence provides a SQLite-backed run-history store: a
// consumer of the tick output, never a participant in it. Grounded on the
// teacher's internal/persistence/db.go (sqlx + modernc.org/sqlite, the
// same Open/migrate/Save*/Load* shape, schema-versioned with
// ALTER-TABLE-if-missing migrations), adapted from per-agent/settlement
// row storage to completed DailySummary rows and a queryable event tail,
// the two read-only query surfaces spec.md Section 6 names for operators
// outside the core.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hollowreach/internal/chronicle"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

// DB wraps a SQLite connection for run-history persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("persistence: open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("persistence: migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		tick INTEGER NOT NULL,
		kind TEXT NOT NULL,
		visibility TEXT NOT NULL,
		site_id TEXT,
		message TEXT NOT NULL,
		data_json TEXT NOT NULL DEFAULT '{}'
	);

	CREATE TABLE IF NOT EXISTS daily_summaries (
		day INTEGER PRIMARY KEY,
		tick INTEGER NOT NULL,
		key_changes_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	CREATE INDEX IF NOT EXISTS idx_events_site ON events(site_id);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		return err
	}

	// Columns that may not exist in older databases.
	migrations := []string{
		"ALTER TABLE events ADD COLUMN narrated TEXT NOT NULL DEFAULT ''",
	}
	for _, m := range migrations {
		db.conn.Exec(m) // Ignore errors — column may already exist.
	}
	return nil
}

// SaveEvents appends a tick's events to the run history.
func (db *DB) SaveEvents(events []worldmodel.SimEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT OR REPLACE INTO events
		(id, tick, kind, visibility, site_id, message, data_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ev := range events {
		dataJSON, err := json.Marshal(ev.Data)
		if err != nil {
			return fmt.Errorf("persistence: marshal event data %s: %w", ev.ID, err)
		}
		if _, err := stmt.Exec(ev.ID, ev.Tick, ev.Kind, ev.Visibility, ev.SiteID, ev.Message, string(dataJSON)); err != nil {
			return fmt.Errorf("persistence: insert event %s: %w", ev.ID, err)
		}
	}
	return tx.Commit()
}

// TrimOldEvents removes events older than keepTicks from the run history.
func (db *DB) TrimOldEvents(currentTick uint64, keepTicks uint64) (int64, error) {
	if currentTick <= keepTicks {
		return 0, nil
	}
	cutoff := currentTick - keepTicks
	result, err := db.conn.Exec("DELETE FROM events WHERE tick < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// RecentEvents returns the most recent limit events, newest first.
func (db *DB) RecentEvents(limit int) ([]worldmodel.SimEvent, error) {
	type eventRow struct {
		ID         string `db:"id"`
		Tick       uint64 `db:"tick"`
		Kind       string `db:"kind"`
		Visibility string `db:"visibility"`
		SiteID     string `db:"site_id"`
		Message    string `db:"message"`
		DataJSON   string `db:"data_json"`
	}

	var rows []eventRow
	err := db.conn.Select(&rows,
		"SELECT id, tick, kind, visibility, site_id, message, data_json FROM events ORDER BY tick DESC, id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, fmt.Errorf("persistence: recent events: %w", err)
	}

	out := make([]worldmodel.SimEvent, 0, len(rows))
	for _, r := range rows {
		var data map[string]any
		json.Unmarshal([]byte(r.DataJSON), &data)
		out = append(out, worldmodel.SimEvent{
			ID:         worldmodel.EventID(r.ID),
			Tick:       r.Tick,
			Kind:       worldmodel.EventKind(r.Kind),
			Visibility: worldmodel.Visibility(r.Visibility),
			SiteID:     worldmodel.SiteID(r.SiteID),
			Message:    r.Message,
			Data:       data,
		})
	}
	return out, nil
}

// SaveDailySummary records one completed day's digest.
func (db *DB) SaveDailySummary(summary chronicle.DailySummary) error {
	changesJSON, err := json.Marshal(summary.KeyChanges)
	if err != nil {
		return fmt.Errorf("persistence: marshal key changes: %w", err)
	}
	_, err = db.conn.Exec(
		"INSERT OR REPLACE INTO daily_summaries (day, tick, key_changes_json) VALUES (?, ?, ?)",
		summary.Day, summary.Tick, string(changesJSON))
	return err
}

// LoadDailySummaries returns daily summaries in [fromDay, toDay], oldest
// first, capped at limit (default 30 if limit <= 0).
func (db *DB) LoadDailySummaries(fromDay, toDay uint64, limit int) ([]chronicle.DailySummary, error) {
	if limit <= 0 {
		limit = 30
	}
	type row struct {
		Day            uint64 `db:"day"`
		Tick           uint64 `db:"tick"`
		KeyChangesJSON string `db:"key_changes_json"`
	}
	var rows []row
	err := db.conn.Select(&rows,
		"SELECT day, tick, key_changes_json FROM daily_summaries WHERE day >= ? AND day <= ? ORDER BY day ASC LIMIT ?",
		fromDay, toDay, limit)
	if err != nil {
		return nil, fmt.Errorf("persistence: load daily summaries: %w", err)
	}

	out := make([]chronicle.DailySummary, 0, len(rows))
	for _, r := range rows {
		var changes []string
		json.Unmarshal([]byte(r.KeyChangesJSON), &changes)
		out = append(out, chronicle.DailySummary{Day: r.Day, Tick: r.Tick, KeyChanges: changes})
	}
	return out, nil
}

// SaveMeta stores a key/value pair in run metadata (e.g. last persisted
// tick, current seed).
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO run_meta (key, value) VALUES (?, ?)", key, value)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM run_meta WHERE key = ?", key)
	return value, err
}

// RecordTick persists one tick's events and, if present, its daily
// summary, logging (not failing) on error per spec.md Section 7 category
// 4 — external I/O failures are isolated to this sink.
func (db *DB) RecordTick(events []worldmodel.SimEvent, summary *chronicle.DailySummary) {
	if err := db.SaveEvents(events); err != nil {
		slog.Error("persistence: save events failed", "error", err)
	}
	if summary != nil {
		if err := db.SaveDailySummary(*summary); err != nil {
			slog.Error("persistence: save daily summary failed", "error", err)
		}
	}
}
