// Package idle provides the system idle probe: elapsed time since user
// input plus screen-lock state, wrapped behind platform-specific
// sources (macOS ioreg, Linux xprintidle/logind, Windows
// GetLastInputInfo).
package idle

import (
	"context"
	"time"

	"github.com/halolight/halo/internal/domain"
)

// Probe samples idle time and lock state on demand. Samples carry a
// validity window so the engine can reuse them between polls.
type Probe struct {
	validity time.Duration
}

// NewProbe creates a probe whose samples stay valid for the given
// duration.
func NewProbe(validity time.Duration) *Probe {
	return &Probe{validity: validity}
}

// Sample reads the current idle duration and lock state.
func (p *Probe) Sample(ctx context.Context) (domain.IdleSample, error) {
	idle, err := osIdleDuration(ctx)
	if err != nil {
		return domain.IdleSample{}, err
	}
	now := time.Now()
	return domain.IdleSample{
		Idle:         idle,
		IdleSeconds:  idle.Seconds(),
		ScreenLocked: osScreenLocked(ctx),
		SampledAt:    now,
		ValidUntil:   now.Add(p.validity),
	}, nil
}
