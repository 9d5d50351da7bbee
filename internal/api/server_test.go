package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/halolight/halo/internal/domain"
	"github.com/halolight/halo/internal/engine"
	"github.com/halolight/halo/internal/health"
)

// ─── Fixtures ───────────────────────────────────────────────────────────────

type stubDetector struct {
	platform string
	active   bool
}

func (d *stubDetector) Platform() string { return d.platform }

func (d *stubDetector) Detect(ctx context.Context) (domain.DetectionResult, error) {
	return domain.DetectionResult{Platform: d.platform, Active: d.active, ObservedAt: time.Now()}, nil
}

type stubProbe struct{}

func (stubProbe) Sample(ctx context.Context) (domain.IdleSample, error) {
	now := time.Now()
	return domain.IdleSample{SampledAt: now, ValidUntil: now.Add(time.Second)}, nil
}

type nullSink struct{}

func (nullSink) Apply(domain.Status, domain.Color) error { return nil }
func (nullSink) Release() error                          { return nil }

type stubStore struct {
	records []domain.SessionRecord
	err     error
}

func (s *stubStore) InsertSession(rec domain.SessionRecord) error {
	s.records = append(s.records, rec)
	return nil
}

func (s *stubStore) ListSessions(limit int) ([]domain.SessionRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	if limit < len(s.records) {
		return s.records[:limit], nil
	}
	return s.records, nil
}

func testEngine(t *testing.T, detectors ...domain.Detector) *engine.Engine {
	t.Helper()
	cfg := engine.Config{
		BaseTick:        10 * time.Millisecond,
		CallInterval:    10 * time.Millisecond,
		IdleInterval:    10 * time.Millisecond,
		IdleThreshold:   30 * time.Minute,
		AwayThreshold:   time.Hour,
		DetectorTimeout: 100 * time.Millisecond,
	}
	e, err := engine.New(cfg, detectors, stubProbe{}, nullSink{})
	if err != nil {
		t.Fatalf("engine.New() error: %v", err)
	}
	return e
}

func newTestServer(t *testing.T, store domain.SessionStore) *Server {
	t.Helper()
	return NewServer(testEngine(t), store, health.NewChecker(nil, false), "test")
}

// ─── Tests ──────────────────────────────────────────────────────────────────

func TestHandler_Status(t *testing.T) {
	eng := testEngine(t, &stubDetector{platform: "Zoom", active: true})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go eng.Run(ctx)

	// Wait for the loop to produce a busy snapshot.
	deadline := time.After(2 * time.Second)
	for {
		if eng.Snapshot().Status == domain.StatusBusy {
			break
		}
		select {
		case <-deadline:
			t.Fatal("engine never resolved busy")
		case <-time.After(10 * time.Millisecond):
		}
	}

	srv := NewServer(eng, nil, health.NewChecker(nil, false), "test")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /v1/status = %d, want 200", rec.Code)
	}

	var snap struct {
		Status   string `json:"status"`
		Platform string `json:"platform"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Status != "busy" || snap.Platform != "Zoom" {
		t.Errorf("snapshot = %+v, want busy via Zoom", snap)
	}
}

func TestHandler_Sessions(t *testing.T) {
	store := &stubStore{records: []domain.SessionRecord{
		{ID: "a", Platform: "Zoom", Seconds: 195},
		{ID: "b", Platform: "Teams", Seconds: 42},
	}}
	srv := newTestServer(t, store)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sessions?limit=1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /v1/sessions = %d, want 200", rec.Code)
	}
	var body struct {
		Sessions []domain.SessionRecord `json:"sessions"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Sessions) != 1 || body.Sessions[0].ID != "a" {
		t.Errorf("sessions = %+v, want [a]", body.Sessions)
	}
}

func TestHandler_SessionsBadLimit(t *testing.T) {
	srv := newTestServer(t, &stubStore{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sessions?limit=zero", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("GET /v1/sessions?limit=zero = %d, want 400", rec.Code)
	}
}

func TestHandler_SessionsDisabled(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sessions", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /v1/sessions with history disabled = %d, want 404", rec.Code)
	}
}

func TestHandler_Health(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health = %d, want 200", rec.Code)
	}
	var body struct {
		Healthy bool `json:"healthy"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Healthy {
		t.Error("healthy = false, want true with no checks configured")
	}
}

func TestHandler_Version(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /version = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["version"] != "test" {
		t.Errorf("version = %q, want %q", body["version"], "test")
	}
}
