// Package sqlite provides SQLite-based call history storage.
// Uses WAL mode for concurrent reads and crash-safe writes. Only
// completed sessions are persisted — engine state is never recovered
// from disk; a restart always starts over at available.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/halolight/halo/internal/domain"
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the history database at dir/history.db.
// Enables WAL mode and a 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "history.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id               TEXT PRIMARY KEY,
			platform         TEXT NOT NULL,
			also             TEXT NOT NULL DEFAULT '',
			started_at       INTEGER NOT NULL,
			ended_at         INTEGER NOT NULL,
			duration_seconds INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at DESC)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// ─── Session History ────────────────────────────────────────────────────────

// InsertSession records a completed call session.
func (d *DB) InsertSession(rec domain.SessionRecord) error {
	_, err := d.db.Exec(
		`INSERT INTO sessions (id, platform, also, started_at, ended_at, duration_seconds)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Platform, rec.Also,
		rec.StartedAt.Unix(), rec.EndedAt.Unix(), rec.Seconds,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// ListSessions returns the most recent completed sessions, newest first.
func (d *DB) ListSessions(limit int) ([]domain.SessionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.db.Query(
		`SELECT id, platform, also, started_at, ended_at, duration_seconds
		 FROM sessions ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []domain.SessionRecord
	for rows.Next() {
		var rec domain.SessionRecord
		var started, ended int64
		if err := rows.Scan(&rec.ID, &rec.Platform, &rec.Also, &started, &ended, &rec.Seconds); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		rec.StartedAt = time.Unix(started, 0)
		rec.EndedAt = time.Unix(ended, 0)
		rec.Duration = time.Duration(rec.Seconds) * time.Second
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Prune deletes sessions older than the cutoff. Returns rows removed.
func (d *DB) Prune(olderThan time.Time) (int64, error) {
	res, err := d.db.Exec(`DELETE FROM sessions WHERE started_at < ?`, olderThan.Unix())
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	return res.RowsAffected()
}
