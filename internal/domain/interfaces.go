package domain

import "context"

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; the engine depends on them.

// Detector is a platform-specific probe reporting whether a call or
// meeting appears active on that platform. Implementations are
// best-effort and possibly flaky; the engine treats any error or
// timeout as "no call" for that round.
type Detector interface {
	// Platform returns the attribution label, e.g. "Zoom".
	Platform() string

	// Detect reports whether a call appears active right now. It must
	// honor ctx cancellation; results arriving after the round's
	// deadline are discarded by the caller.
	Detect(ctx context.Context) (DetectionResult, error)
}

// IdleProbe reports elapsed time since last user input and whether the
// screen is locked.
type IdleProbe interface {
	Sample(ctx context.Context) (IdleSample, error)
}

// OutputSink applies a status to the physical indicator. Every write
// may fail (device unplugged); failures are reported, not fatal.
type OutputSink interface {
	Apply(status Status, color Color) error

	// Release turns the device off and frees the handle. Called once
	// on shutdown, best-effort.
	Release() error
}

// SessionStore persists completed call sessions for history listings.
type SessionStore interface {
	InsertSession(rec SessionRecord) error
	ListSessions(limit int) ([]SessionRecord, error)
}
