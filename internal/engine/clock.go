package engine

import "time"

// Clock abstracts time so tests can drive ticks deterministically
// instead of sleeping. The engine compares cache expiries and poll
// cadences against this clock only.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
