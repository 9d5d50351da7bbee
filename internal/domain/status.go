// Package domain holds the core types of the presence monitor: the
// status enum, detector and idle probe samples, call sessions, and the
// service interfaces between the engine and its collaborators.
package domain

import "time"

// Status is the single authoritative availability state. Exactly one
// value holds at any instant.
type Status int

const (
	StatusAvailable Status = iota // At the computer, not on a call
	StatusBusy                    // On a call — do not disturb
	StatusIdle                    // Inactive past the idle threshold
	StatusAway                    // Inactive past the away threshold, or screen locked
)

// String returns the human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusBusy:
		return "busy"
	case StatusIdle:
		return "idle"
	case StatusAway:
		return "away"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so statuses serialize
// as their names in JSON API responses.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a status name back into its value.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "busy":
		*s = StatusBusy
	case "idle":
		*s = StatusIdle
	case "away":
		*s = StatusAway
	default:
		*s = StatusAvailable
	}
	return nil
}

// Color is an RGB value written to the output light.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Status colors match the original Luxafor convention: red on a call,
// green available, blue idle, dark when away.
var (
	ColorBusy      = Color{R: 255}
	ColorAvailable = Color{G: 255}
	ColorIdle      = Color{B: 255}
	ColorOff       = Color{}
)

// ColorFor maps a status to its display color.
func ColorFor(s Status) Color {
	switch s {
	case StatusBusy:
		return ColorBusy
	case StatusIdle:
		return ColorIdle
	case StatusAway:
		return ColorOff
	default:
		return ColorAvailable
	}
}

// DetectionResult is one detector's answer for one poll round. The
// engine never mutates a result; it caches the latest per detector.
type DetectionResult struct {
	Platform   string    `json:"platform"`
	Active     bool      `json:"active"`
	ObservedAt time.Time `json:"observed_at"`
}

// IdleSample is a cached reading from the idle probe. It is reused for
// any status computation until ValidUntil passes, bounding how often
// the probe runs.
type IdleSample struct {
	Idle         time.Duration `json:"-"`
	IdleSeconds  float64       `json:"idle_seconds"`
	ScreenLocked bool          `json:"screen_locked"`
	SampledAt    time.Time     `json:"sampled_at"`
	ValidUntil   time.Time     `json:"valid_until"`
}

// CallSession tracks one active call. The engine owns at most one at a
// time; it exists iff the current status is busy.
type CallSession struct {
	ID        string    `json:"id"`
	Platform  string    `json:"platform"`
	Also      []string  `json:"also,omitempty"` // other platforms seen active during the call
	StartedAt time.Time `json:"started_at"`
}

// SessionRecord is a completed call session as written to history.
type SessionRecord struct {
	ID        string        `json:"id"`
	Platform  string        `json:"platform"`
	Also      string        `json:"also,omitempty"` // other platforms active during the call
	StartedAt time.Time     `json:"started_at"`
	EndedAt   time.Time     `json:"ended_at"`
	Duration  time.Duration `json:"-"`
	Seconds   int64         `json:"duration_seconds"`
}

// Snapshot is the per-tick observability view: the raw inputs the merge
// step consumed and the status it resolved. It is a read-only tap on
// the decision data — debug output can never diverge from decisions.
type Snapshot struct {
	At           time.Time         `json:"at"`
	IdleSeconds  float64           `json:"idle_seconds"`
	ScreenLocked bool              `json:"screen_locked"`
	Detections   []DetectionResult `json:"detections"`
	Status       Status            `json:"status"`
	Platform     string            `json:"platform,omitempty"` // attribution when busy
	Also         []string          `json:"also,omitempty"`     // concurrently active platforms
	Transitioned bool              `json:"transitioned"`
	Session      *CallSession      `json:"session,omitempty"`
	LastChange   *Transition       `json:"last_change,omitempty"` // most recent applied transition
}

// Transition is an applied status change, emitted only when the
// resolved status differs from the last emitted one.
type Transition struct {
	From     Status        `json:"from"`
	To       Status        `json:"to"`
	At       time.Time     `json:"at"`
	Platform string        `json:"platform,omitempty"` // attribution entering busy
	Duration time.Duration `json:"-"`                  // call duration leaving busy
}
