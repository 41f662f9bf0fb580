// Package cache persists the last reconciled collection snapshot to a
// local SQLite database. It exists so that a client starting while the
// backend is unreachable can still render stale data instead of an
// empty screen; it is never a write-ahead store and holds no pending
// mutations.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/e-Diag/CalendarBot/internal/model"
)

// DB wraps the snapshot database.
type DB struct {
	db *sqlx.DB
}

// Open opens (or creates) the snapshot database at dbPath, enables WAL
// mode, and runs any pending schema migrations.
func Open(dbPath string) (*DB, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	d := &DB{db: db}
	if err := d.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (d *DB) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := d.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = d.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := d.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// SaveSnapshot replaces the cached collection with the given items.
// The write is transactional: a failure leaves the previous snapshot
// intact.
func (d *DB) SaveSnapshot(ctx context.Context, items []model.Item) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM items"); err != nil {
		return fmt.Errorf("clearing cached items: %w", err)
	}

	const query = `
		INSERT INTO items (
			id, owner_id, type, title, content,
			target_time, has_reminder,
			reminder_lead_value, reminder_lead_unit,
			last_edited
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for _, it := range items {
		var target interface{}
		if it.TargetTime != nil {
			target = it.TargetTime.UTC()
		}

		var leadValue, leadUnit interface{}
		if it.ReminderLead != nil {
			leadValue = it.ReminderLead.Value
			leadUnit = string(it.ReminderLead.Unit)
		}

		_, err = stmt.ExecContext(ctx,
			it.ID, it.OwnerID, string(it.Type), it.Title, it.Content,
			target, boolToInt(it.HasReminder),
			leadValue, leadUnit,
			it.LastEdited.UTC(),
		)
		if err != nil {
			return fmt.Errorf("caching item %s: %w", it.ID, err)
		}
	}

	return tx.Commit()
}

// LoadSnapshot returns the cached collection, or an empty slice if
// nothing has been cached yet.
func (d *DB) LoadSnapshot(ctx context.Context) ([]model.Item, error) {
	rows, err := d.db.QueryxContext(ctx, "SELECT * FROM items")
	if err != nil {
		return nil, fmt.Errorf("querying cached items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	return items, rows.Err()
}

// scanItem scans an item row from a sqlx.Rows result set.
func scanItem(rows *sqlx.Rows) (model.Item, error) {
	var (
		it          model.Item
		itemType    string
		target      *time.Time
		hasReminder int
		leadValue   *int
		leadUnit    *string
		lastEdited  time.Time
	)

	err := rows.Scan(
		&it.ID, &it.OwnerID, &itemType, &it.Title, &it.Content,
		&target, &hasReminder,
		&leadValue, &leadUnit,
		&lastEdited,
	)
	if err != nil {
		return model.Item{}, fmt.Errorf("scanning item row: %w", err)
	}

	it.Type = model.ItemType(itemType)
	it.HasReminder = hasReminder != 0
	it.LastEdited = lastEdited
	if target != nil {
		utc := target.UTC()
		it.TargetTime = &utc
	}
	if leadValue != nil && leadUnit != nil {
		it.ReminderLead = &model.ReminderLead{
			Value: *leadValue,
			Unit:  model.LeadUnit(*leadUnit),
		}
	}

	return it, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
