package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Configuration errors. Misconfiguration is the only fatal case:
	// the process refuses to start rather than run with silent nonsense.
	ErrThresholdOrder  = errors.New("away threshold must be >= idle threshold")
	ErrIntervalTooLow  = errors.New("poll interval below base tick granularity")
	ErrBrightnessRange = errors.New("brightness must be between 0 and 100")

	// Detector errors. Recovered locally — a failed or timed-out
	// detector counts as "no call" for that round, never as busy.
	ErrDetectorTimeout = errors.New("detector did not answer within its deadline")

	// Idle probe errors. Recovered locally — the previous sample is
	// retained so a transient probe failure cannot flap the status.
	ErrNoIdleSource = errors.New("no idle time source available on this platform")

	// Output device errors. Reported, retried on a later tick; the
	// polling loop keeps computing status without the light.
	ErrDeviceNotFound = errors.New("status light not found (is it plugged in?)")
	ErrDeviceClosed   = errors.New("status light handle is closed")

	// Shutdown errors.
	ErrReleaseTimeout = errors.New("output release did not finish before the shutdown deadline")
)
