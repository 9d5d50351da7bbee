// Package output implements the status light sinks. The real sink
// drives a Luxafor USB flag over HID; the log sink stands in when no
// device is present or the light is disabled.
package output

import (
	"fmt"
	"sync"

	"github.com/karalabe/hid"

	"github.com/halolight/halo/internal/domain"
)

// Luxafor USB identifiers.
const (
	luxaforVendorID  = 0x04d8
	luxaforProductID = 0xf372
)

// allLEDs targets every LED on the flag in one simple-color report.
const allLEDs = 0xFF

// Luxafor drives the physical flag. All writes go through one mutex —
// the device handle is owned exclusively here; the engine never holds
// it and treats every write as fallible.
type Luxafor struct {
	mu         sync.Mutex
	dev        *hid.Device
	closed     bool // Release was called; the sink is terminal
	brightness int  // 0–100, scales every color channel
}

// OpenLuxafor finds and opens the flag. brightness is clamped to 0–100.
func OpenLuxafor(brightness int) (*Luxafor, error) {
	l := &Luxafor{brightness: clampBrightness(brightness)}
	if err := l.connect(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Luxafor) connect() error {
	infos := hid.Enumerate(luxaforVendorID, luxaforProductID)
	if len(infos) == 0 {
		return domain.ErrDeviceNotFound
	}
	dev, err := infos[0].Open()
	if err != nil {
		return fmt.Errorf("open luxafor: %w", err)
	}
	l.dev = dev
	return nil
}

// Apply writes the color for the given status, scaled by brightness.
// On a write failure the handle is dropped and the next Apply attempts
// to reconnect, so replugging the device recovers without a restart.
// After Release the sink is terminal and reports ErrDeviceClosed.
func (l *Luxafor) Apply(_ domain.Status, color domain.Color) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return domain.ErrDeviceClosed
	}
	if l.dev == nil {
		if err := l.connect(); err != nil {
			return err
		}
	}

	if err := l.write(color); err != nil {
		l.dev.Close()
		l.dev = nil
		return fmt.Errorf("write luxafor: %w", err)
	}
	return nil
}

// write sends one simple-color report: [report, mode, led, r, g, b, 0, 0].
func (l *Luxafor) write(color domain.Color) error {
	c := Scale(color, l.brightness)
	report := []byte{0x00, 0x01, allLEDs, c.R, c.G, c.B, 0x00, 0x00}
	_, err := l.dev.Write(report)
	return err
}

// Release turns the flag off and closes the handle.
func (l *Luxafor) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	if l.dev == nil {
		return nil
	}
	err := l.write(domain.ColorOff)
	if cerr := l.dev.Close(); err == nil {
		err = cerr
	}
	l.dev = nil
	return err
}

// Scale applies brightness (0–100) to each channel.
func Scale(c domain.Color, brightness int) domain.Color {
	b := clampBrightness(brightness)
	return domain.Color{
		R: uint8(int(c.R) * b / 100),
		G: uint8(int(c.G) * b / 100),
		B: uint8(int(c.B) * b / 100),
	}
}

func clampBrightness(b int) int {
	if b < 0 {
		return 0
	}
	if b > 100 {
		return 100
	}
	return b
}
