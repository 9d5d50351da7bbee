package domain

import "testing"

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusAvailable, "available"},
		{StatusBusy, "busy"},
		{StatusIdle, "idle"},
		{StatusAway, "away"},
		{Status(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.status.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColorFor(t *testing.T) {
	tests := []struct {
		status Status
		want   Color
	}{
		{StatusBusy, Color{R: 255}},
		{StatusAvailable, Color{G: 255}},
		{StatusIdle, Color{B: 255}},
		{StatusAway, Color{}},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			if got := ColorFor(tt.status); got != tt.want {
				t.Errorf("ColorFor(%v) = %+v, want %+v", tt.status, got, tt.want)
			}
		})
	}
}
