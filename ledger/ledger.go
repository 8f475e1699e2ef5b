// Package ledger keeps a SQLite record of die throws.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Throw is one recorded die throw.
type Throw struct {
	Sides     int
	Outcome   int
	Plan      uint64
	CreatedAt time.Time
}

// Ledger persists throws in a single SQLite table.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger at path. ":memory:" gives a throwaway ledger.
func Open(path string) (*Ledger, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("ledger path is required")
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// A second connection to :memory: would see an empty database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS throws (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sides INTEGER NOT NULL,
		outcome INTEGER NOT NULL,
		plan INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create throws table: %w", err)
	}

	return &Ledger{db: db}, nil
}

// Close closes the SQLite handle.
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Record appends throws in one transaction.
func (l *Ledger) Record(ctx context.Context, throws ...Throw) (retErr error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO throws (sides, outcome, plan, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, throw := range throws {
		if throw.Outcome < 1 || throw.Outcome > throw.Sides {
			return fmt.Errorf("outcome %d outside [1, %d]", throw.Outcome, throw.Sides)
		}

		createdAt := throw.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}

		// SQLite integers are signed; the fingerprint round-trips through int64.
		if _, err := stmt.ExecContext(
			ctx, throw.Sides, throw.Outcome, int64(throw.Plan), createdAt.UTC().UnixMilli(),
		); err != nil {
			return fmt.Errorf("insert throw: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// Counts returns how often each outcome of an n-sided die was recorded, index 0 being outcome 1.
func (l *Ledger) Counts(ctx context.Context, sides int) ([]int, error) {
	if sides < 1 {
		return nil, fmt.Errorf("counts for %d sides", sides)
	}

	rows, err := l.db.QueryContext(
		ctx, `SELECT outcome, COUNT(*) FROM throws WHERE sides = ? GROUP BY outcome`, sides,
	)
	if err != nil {
		return nil, fmt.Errorf("select counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make([]int, sides)
	for rows.Next() {
		var outcome, count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if outcome >= 1 && outcome <= sides {
			counts[outcome-1] = count
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}

	return counts, nil
}

// Recent returns the latest limit throws, newest first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Throw, error) {
	rows, err := l.db.QueryContext(
		ctx, `SELECT sides, outcome, plan, created_at FROM throws ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var throws []Throw
	for rows.Next() {
		var (
			throw     Throw
			plan      int64
			createdAt int64
		)
		if err := rows.Scan(&throw.Sides, &throw.Outcome, &plan, &createdAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		throw.Plan = uint64(plan)
		throw.CreatedAt = time.UnixMilli(createdAt).UTC()
		throws = append(throws, throw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent: %w", err)
	}

	return throws, nil
}
