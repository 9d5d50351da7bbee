// Package engine implements the status determination engine: the one
// component with real state and timing logic. It polls call detectors
// and the idle probe on independent cadences, caches their latest
// results, merges them under a fixed priority rule, and emits debounced
// status transitions to the output sink.
package engine

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/halolight/halo/internal/domain"
	"github.com/halolight/halo/internal/infra/metrics"
)

// Config holds the engine's timing knobs. Validated by New.
type Config struct {
	BaseTick        time.Duration // scheduling granularity, floor for both cadences
	CallInterval    time.Duration // how often detectors are re-polled
	IdleInterval    time.Duration // how often the idle probe is re-sampled
	IdleThreshold   time.Duration // idle duration before AVAILABLE -> IDLE
	AwayThreshold   time.Duration // idle duration before IDLE -> AWAY
	DetectorTimeout time.Duration // shared deadline for one detector round
	MinCallReport   time.Duration // calls shorter than this are logged without duration
	ShutdownTimeout time.Duration // bound on the sink release at exit
	Verbose         bool
}

func (c Config) validate() error {
	if c.AwayThreshold < c.IdleThreshold {
		return domain.ErrThresholdOrder
	}
	if c.CallInterval < c.BaseTick || c.IdleInterval < c.BaseTick {
		return domain.ErrIntervalTooLow
	}
	return nil
}

// Engine owns the process-wide monitoring state. All state mutation
// happens on the engine's own loop; readers get a copied snapshot.
type Engine struct {
	cfg       Config
	detectors []domain.Detector // fixed order — registration order is attribution priority
	probe     domain.IdleProbe
	sink      domain.OutputSink
	store     domain.SessionStore // optional history; nil disables
	clock     Clock
	tap       func(domain.Snapshot) // optional read-only observer

	// Loop-owned state. Never touched outside tick/Run.
	status       domain.Status
	emitted      bool
	lastEmitted  domain.Status
	session      *domain.CallSession
	lastChange   *domain.Transition
	results      []domain.DetectionResult
	idleSample   domain.IdleSample
	haveIdle     bool
	lastCallPoll time.Time
	sinkStale    bool // last sink write failed; retry on a later tick

	mu   sync.RWMutex
	snap domain.Snapshot
}

// New creates an engine. Detector order fixes attribution priority:
// when several platforms report active at once, the first registered
// active one wins.
func New(cfg Config, detectors []domain.Detector, probe domain.IdleProbe, sink domain.OutputSink) (*Engine, error) {
	if cfg.BaseTick <= 0 {
		cfg.BaseTick = time.Second
	}
	if cfg.DetectorTimeout <= 0 {
		cfg.DetectorTimeout = 5 * time.Second
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Engine{
		cfg:       cfg,
		detectors: detectors,
		probe:     probe,
		sink:      sink,
		clock:     realClock{},
		status:    domain.StatusAvailable,
		results:   make([]domain.DetectionResult, len(detectors)),
	}, nil
}

// SetStore enables call session history.
func (e *Engine) SetStore(s domain.SessionStore) { e.store = s }

// SetTap registers a read-only per-tick observer. The tap sees exactly
// the data the merge step consumed; it cannot influence decisions.
func (e *Engine) SetTap(fn func(domain.Snapshot)) { e.tap = fn }

// Snapshot returns the latest per-tick observability snapshot.
func (e *Engine) Snapshot() domain.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap
}

// Run drives the monitoring loop until ctx is cancelled, then releases
// the output device within the shutdown deadline. Sink failures are
// reported and retried; they never stop the loop.
func (e *Engine) Run(ctx context.Context) error {
	// Optimistic initial state before the first probe.
	e.status = domain.StatusAvailable
	e.emitted = true
	e.lastEmitted = e.status
	e.writeSink(e.status)
	log.Printf("[engine] %s", e.status)

	ticker := time.NewTicker(e.cfg.BaseTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return e.shutdown()
		case <-ticker.C:
			e.tick(ctx)
		}
	}
}

// tick runs one scheduling iteration: re-poll whichever sources are
// due, then recompute the merged status from the cache — even on ticks
// that repolled nothing.
func (e *Engine) tick(ctx context.Context) {
	now := e.clock.Now()

	if e.lastCallPoll.IsZero() || now.Sub(e.lastCallPoll) >= e.cfg.CallInterval {
		e.pollCalls(ctx, now)
		e.lastCallPoll = now
	}
	if !e.haveIdle || !now.Before(e.idleSample.ValidUntil) {
		e.pollIdle(ctx, now)
	}

	status, platform, also := e.resolve()
	transitioned := !e.emitted || status != e.lastEmitted
	if transitioned {
		e.apply(now, status, platform, also)
	} else {
		if status == domain.StatusBusy && e.session != nil {
			e.noteAlso(platform, also)
		}
		if e.sinkStale {
			e.writeSink(e.status)
		}
	}
	e.status = status

	e.publish(now, status, platform, also, transitioned)
}

// pollCalls invokes every detector concurrently under one shared
// deadline. Detectors that error or miss the deadline count as
// inactive for this round (fail-open to "no call"); their late
// results, if any, are discarded rather than retroactively applied.
func (e *Engine) pollCalls(ctx context.Context, now time.Time) {
	if len(e.detectors) == 0 {
		return
	}
	start := time.Now()
	cctx, cancel := context.WithTimeout(ctx, e.cfg.DetectorTimeout)
	defer cancel()

	type indexed struct {
		i   int
		res domain.DetectionResult
		err error
	}
	// Buffered so late detectors can finish their send and exit.
	ch := make(chan indexed, len(e.detectors))
	for i, d := range e.detectors {
		go func(i int, d domain.Detector) {
			res, err := d.Detect(cctx)
			ch <- indexed{i: i, res: res, err: err}
		}(i, d)
	}

	results := make([]domain.DetectionResult, len(e.detectors))
	for i, d := range e.detectors {
		results[i] = domain.DetectionResult{Platform: d.Platform(), Active: false, ObservedAt: now}
	}

	got := make([]bool, len(e.detectors))
	pending := len(e.detectors)
	for pending > 0 {
		select {
		case r := <-ch:
			pending--
			got[r.i] = true
			if r.err != nil {
				metrics.DetectorFailures.WithLabelValues(e.detectors[r.i].Platform()).Inc()
				continue
			}
			results[r.i] = r.res
		case <-cctx.Done():
			// Deadline: everything unfinished stays inactive and counts
			// as a failure for that detector.
			for i, done := range got {
				if !done {
					metrics.DetectorFailures.WithLabelValues(e.detectors[i].Platform()).Inc()
				}
			}
			log.Printf("[engine] %v: %d of %d unfinished", domain.ErrDetectorTimeout, pending, len(e.detectors))
			pending = 0
		}
	}

	// Swap the whole round in at once so a merge never mixes results
	// from two different rounds.
	e.results = results
	metrics.PollLatency.WithLabelValues("calls").Observe(time.Since(start).Seconds())
}

// pollIdle re-samples the idle probe. On failure the previous sample is
// retained unchanged — stale-but-valid beats flapping to available on
// a transient probe error.
func (e *Engine) pollIdle(ctx context.Context, now time.Time) {
	start := time.Now()
	sample, err := e.probe.Sample(ctx)
	metrics.PollLatency.WithLabelValues("idle").Observe(time.Since(start).Seconds())
	if err != nil {
		if e.haveIdle {
			// Push the retry out a full interval so a dead probe
			// isn't hammered every tick.
			e.idleSample.ValidUntil = now.Add(e.cfg.IdleInterval)
		}
		log.Printf("[engine] idle probe error: %v (keeping previous sample)", err)
		return
	}
	if sample.ValidUntil.Before(sample.SampledAt) {
		sample.ValidUntil = sample.SampledAt.Add(e.cfg.IdleInterval)
	}
	e.idleSample = sample
	e.haveIdle = true
	metrics.IdleSeconds.Set(sample.Idle.Seconds())
}

// resolve reduces the cached detector results and idle sample to one
// status. Priority: BUSY > AVAILABLE > IDLE > AWAY, with screen lock
// short-circuiting to AWAY and any call short-circuiting to BUSY.
func (e *Engine) resolve() (status domain.Status, platform string, also []string) {
	for _, r := range e.results {
		if !r.Active {
			continue
		}
		if platform == "" {
			platform = r.Platform
		} else {
			also = append(also, r.Platform)
		}
	}
	if platform != "" {
		return domain.StatusBusy, platform, also
	}

	if !e.haveIdle {
		return domain.StatusAvailable, "", nil
	}
	s := e.idleSample
	switch {
	case s.ScreenLocked:
		// Lock is a stronger signal than elapsed time.
		return domain.StatusAway, "", nil
	case s.Idle >= e.cfg.AwayThreshold:
		return domain.StatusAway, "", nil
	case s.Idle >= e.cfg.IdleThreshold:
		return domain.StatusIdle, "", nil
	default:
		// Recovery to available rides on the sample itself: the probe
		// saw fresh activity, not merely time passing.
		return domain.StatusAvailable, "", nil
	}
}

// apply propagates a status change: session lifecycle, history,
// metrics, sink write, log line.
func (e *Engine) apply(now time.Time, status domain.Status, platform string, also []string) {
	from := e.lastEmitted
	change := domain.Transition{From: from, To: status, At: now}

	if status == domain.StatusBusy {
		e.session = &domain.CallSession{
			ID:        uuid.NewString(),
			Platform:  platform,
			Also:      append([]string(nil), also...),
			StartedAt: now,
		}
		change.Platform = platform
		suffix := ""
		if len(also) > 0 {
			suffix = " (also active: " + strings.Join(also, ", ") + ")"
		}
		log.Printf("[engine] busy — on call via %s%s", platform, suffix)
	} else if e.session != nil {
		change.Duration = e.closeSession(now, status)
	} else {
		log.Printf("[engine] %s", status)
	}

	e.lastChange = &change
	metrics.Transitions.WithLabelValues(from.String(), status.String()).Inc()
	metrics.CurrentStatus.Set(float64(status))

	e.writeSink(status)
	e.emitted = true
	e.lastEmitted = status
}

// noteAlso folds platforms seen active mid-call into the session's
// secondary attribution. The primary platform is fixed at creation.
func (e *Engine) noteAlso(platform string, also []string) {
	for _, p := range append([]string{platform}, also...) {
		if p == "" || p == e.session.Platform || hasString(e.session.Also, p) {
			continue
		}
		e.session.Also = append(e.session.Also, p)
	}
}

func hasString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// closeSession converts the active session into a reported duration and
// optionally a history record.
func (e *Engine) closeSession(now time.Time, to domain.Status) time.Duration {
	sess := e.session
	e.session = nil
	duration := now.Sub(sess.StartedAt)
	metrics.CallDuration.Observe(duration.Seconds())

	if duration >= e.cfg.MinCallReport {
		log.Printf("[engine] %s — call ended, duration: %s", to, FormatDuration(duration))
	} else {
		log.Printf("[engine] %s — call ended", to)
	}

	if e.store != nil {
		rec := domain.SessionRecord{
			ID:        sess.ID,
			Platform:  sess.Platform,
			Also:      strings.Join(sess.Also, ", "),
			StartedAt: sess.StartedAt,
			EndedAt:   now,
			Duration:  duration,
			Seconds:   int64(duration.Seconds()),
		}
		if err := e.store.InsertSession(rec); err != nil {
			log.Printf("[engine] record session: %v", err)
		}
	}
	return duration
}

// writeSink pushes the status color to the device. Failures are
// reported and flagged for retry; the loop keeps running.
func (e *Engine) writeSink(status domain.Status) {
	if err := e.sink.Apply(status, domain.ColorFor(status)); err != nil {
		metrics.SinkWriteFailures.Inc()
		log.Printf("[engine] output write failed: %v (will retry)", err)
		e.sinkStale = true
		return
	}
	e.sinkStale = false
}

// publish stores the tick snapshot for readers and the tap.
func (e *Engine) publish(now time.Time, status domain.Status, platform string, also []string, transitioned bool) {
	detections := make([]domain.DetectionResult, len(e.results))
	copy(detections, e.results)

	snap := domain.Snapshot{
		At:           now,
		IdleSeconds:  e.idleSample.Idle.Seconds(),
		ScreenLocked: e.idleSample.ScreenLocked,
		Detections:   detections,
		Status:       status,
		Platform:     platform,
		Also:         also,
		Transitioned: transitioned,
		LastChange:   e.lastChange,
	}
	if e.session != nil {
		s := *e.session
		s.Also = append([]string(nil), e.session.Also...)
		snap.Session = &s
	}

	e.mu.Lock()
	e.snap = snap
	e.mu.Unlock()

	if e.tap != nil {
		e.tap(snap)
	}
	if e.cfg.Verbose {
		log.Printf("[engine] tick status=%s idle=%.0fs locked=%v transitioned=%v",
			status, snap.IdleSeconds, snap.ScreenLocked, transitioned)
	}
}

// shutdown releases the output device within a bounded deadline.
func (e *Engine) shutdown() error {
	done := make(chan error, 1)
	go func() { done <- e.sink.Release() }()

	select {
	case err := <-done:
		return err
	case <-time.After(e.cfg.ShutdownTimeout):
		return domain.ErrReleaseTimeout
	}
}

// FormatDuration renders a duration the way call reports read:
// "1h 3m", "3m 15s", "42s".
func FormatDuration(d time.Duration) string {
	total := int(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
