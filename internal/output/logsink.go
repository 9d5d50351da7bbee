package output

import (
	"log"

	"github.com/karalabe/hid"

	"github.com/halolight/halo/internal/domain"
)

// LogSink is the fallback sink when the light is disabled or missing:
// it only logs status changes and never fails. The monitor keeps full
// value as a status logger without hardware.
type LogSink struct{}

// NewLogSink creates a log-only sink.
func NewLogSink() *LogSink { return &LogSink{} }

// Apply logs the status change.
func (s *LogSink) Apply(status domain.Status, color domain.Color) error {
	log.Printf("[output] %s (r=%d g=%d b=%d)", status, color.R, color.G, color.B)
	return nil
}

// Release is a no-op for the log sink.
func (s *LogSink) Release() error { return nil }

// DevicePresent reports whether a Luxafor flag is currently attached.
// Used by the health checker; it does not open the device.
func DevicePresent() error {
	if len(hid.Enumerate(luxaforVendorID, luxaforProductID)) == 0 {
		return domain.ErrDeviceNotFound
	}
	return nil
}
