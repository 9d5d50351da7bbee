package output

import (
	"errors"
	"testing"

	"github.com/halolight/halo/internal/domain"
)

func TestScale(t *testing.T) {
	tests := []struct {
		name       string
		color      domain.Color
		brightness int
		want       domain.Color
	}{
		{"full", domain.Color{R: 255}, 100, domain.Color{R: 255}},
		{"default_75", domain.Color{R: 255}, 75, domain.Color{R: 191}},
		{"half_green", domain.Color{G: 255}, 50, domain.Color{G: 127}},
		{"zero", domain.Color{R: 255, G: 255, B: 255}, 0, domain.Color{}},
		{"clamped_high", domain.Color{B: 255}, 150, domain.Color{B: 255}},
		{"clamped_low", domain.Color{B: 255}, -5, domain.Color{}},
		{"off_stays_off", domain.Color{}, 75, domain.Color{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Scale(tt.color, tt.brightness); got != tt.want {
				t.Errorf("Scale(%+v, %d) = %+v, want %+v", tt.color, tt.brightness, got, tt.want)
			}
		})
	}
}

func TestLuxafor_ApplyAfterReleaseIsTerminal(t *testing.T) {
	l := &Luxafor{brightness: 75} // never connected; Release still closes it
	if err := l.Release(); err != nil {
		t.Fatalf("Release() error: %v", err)
	}
	if err := l.Apply(domain.StatusBusy, domain.ColorBusy); !errors.Is(err, domain.ErrDeviceClosed) {
		t.Errorf("Apply() after Release error = %v, want ErrDeviceClosed", err)
	}
}

func TestLogSink_NeverFails(t *testing.T) {
	s := NewLogSink()
	if err := s.Apply(domain.StatusBusy, domain.ColorBusy); err != nil {
		t.Errorf("Apply() error: %v", err)
	}
	if err := s.Release(); err != nil {
		t.Errorf("Release() error: %v", err)
	}
}
