package sqlite

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/halolight/halo/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func record(platform string, start time.Time, seconds int64) domain.SessionRecord {
	return domain.SessionRecord{
		ID:        uuid.NewString(),
		Platform:  platform,
		StartedAt: start,
		EndedAt:   start.Add(time.Duration(seconds) * time.Second),
		Seconds:   seconds,
	}
}

func TestInsertAndListSessions(t *testing.T) {
	db := newTestDB(t)
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	older := record("Zoom", base, 195)
	older.Also = "Microsoft Teams, Signal"
	newer := record("Slack Huddle", base.Add(time.Hour), 42)
	for _, rec := range []domain.SessionRecord{older, newer} {
		if err := db.InsertSession(rec); err != nil {
			t.Fatalf("InsertSession() error: %v", err)
		}
	}

	got, err := db.ListSessions(10)
	if err != nil {
		t.Fatalf("ListSessions() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListSessions() = %d records, want 2", len(got))
	}

	// Newest first.
	if got[0].ID != newer.ID {
		t.Errorf("first record = %q, want newest %q", got[0].ID, newer.ID)
	}
	if got[1].Platform != "Zoom" || got[1].Seconds != 195 {
		t.Errorf("record = %+v, want Zoom/195s", got[1])
	}
	if got[1].Also != "Microsoft Teams, Signal" {
		t.Errorf("also = %q, want %q", got[1].Also, "Microsoft Teams, Signal")
	}
	if !got[1].StartedAt.Equal(base) {
		t.Errorf("started_at = %v, want %v", got[1].StartedAt, base)
	}
	if got[1].Duration != 195*time.Second {
		t.Errorf("duration = %v, want 195s", got[1].Duration)
	}
}

func TestListSessions_Limit(t *testing.T) {
	db := newTestDB(t)
	base := time.Now()
	for i := 0; i < 5; i++ {
		if err := db.InsertSession(record("Zoom", base.Add(time.Duration(i)*time.Minute), 60)); err != nil {
			t.Fatalf("InsertSession() error: %v", err)
		}
	}

	got, err := db.ListSessions(3)
	if err != nil {
		t.Fatalf("ListSessions() error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("ListSessions(3) = %d records, want 3", len(got))
	}
}

func TestPrune(t *testing.T) {
	db := newTestDB(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := db.InsertSession(record("Zoom", base, 60)); err != nil {
		t.Fatalf("InsertSession() error: %v", err)
	}
	if err := db.InsertSession(record("Teams", base.AddDate(0, 1, 0), 60)); err != nil {
		t.Fatalf("InsertSession() error: %v", err)
	}

	removed, err := db.Prune(base.AddDate(0, 0, 15))
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if removed != 1 {
		t.Errorf("Prune() removed %d, want 1", removed)
	}

	got, _ := db.ListSessions(10)
	if len(got) != 1 || got[0].Platform != "Teams" {
		t.Errorf("remaining = %+v, want only Teams", got)
	}
}

func TestOpen_Reopen(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if err := db.InsertSession(record("Zoom", time.Now(), 60)); err != nil {
		t.Fatalf("InsertSession() error: %v", err)
	}
	db.Close()

	// Migrations are idempotent; data survives reopen.
	db2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer db2.Close()

	got, err := db2.ListSessions(10)
	if err != nil {
		t.Fatalf("ListSessions() error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("records after reopen = %d, want 1", len(got))
	}
}
