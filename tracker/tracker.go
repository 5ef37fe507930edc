// Package tracker implements the activity accumulation state machine.
//
// A single Tracker instance lives for the whole process. Two schedulers
// share it: the poll loop feeds samples via Record, the flush loop reads
// via ShouldFlush and empties it via Drain. Every operation takes the
// whole-state mutex, so a concurrent Record is either fully reflected in
// a Drain's snapshot or fully reflected in the next accumulation period,
// never split between the two.
package tracker

import (
	"sync"
	"time"
)

// Identity is the (language, file) pair last observed by the poll loop.
// It exists to detect transitions for logging; accounting only uses the
// language half.
type Identity struct {
	Language string
	FileName string
}

// Config holds the time thresholds that shape accumulation.
type Config struct {
	// IdleThreshold is the inter-sample gap at or above which the gap is
	// discarded as idle instead of being attributed to a language.
	IdleThreshold time.Duration

	// FlushInterval is the minimum spacing between drains.
	FlushInterval time.Duration
}

// Tracker owns per-language accumulated durations and the bookkeeping
// timestamps. All methods are safe for concurrent use.
type Tracker struct {
	mu sync.Mutex

	accumulated  map[string]time.Duration
	lastActivity time.Time
	lastFlush    time.Time
	current      *Identity

	cfg Config
}

// New creates a Tracker. The start time seeds both lastActivity and
// lastFlush so the first sample never sees a zero-time gap and the first
// flush waits a full interval.
func New(cfg Config, start time.Time) *Tracker {
	return &Tracker{
		accumulated:  make(map[string]time.Duration),
		lastActivity: start,
		lastFlush:    start,
		cfg:          cfg,
	}
}

// Record consumes one sample. The gap since the previous sample is
// attributed to the language that was current when the gap started, not
// to the language just observed: the interval was spent in whatever was
// focused at its beginning. Gaps at or above the idle threshold are
// discarded entirely, though lastActivity still advances.
//
// Returns true when the observed (language, file) identity differs from
// the previous sample's, so the caller can log the transition.
func (t *Tracker) Record(language, fileName string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	gap := now.Sub(t.lastActivity)
	if gap < t.cfg.IdleThreshold && t.current != nil {
		t.accumulated[t.current.Language] += gap
	}

	changed := t.current == nil ||
		t.current.FileName != fileName ||
		t.current.Language != language

	t.current = &Identity{Language: language, FileName: fileName}
	t.lastActivity = now

	return changed
}

// ShouldFlush reports whether a full flush interval has elapsed since the
// last drain. Pure query, no mutation.
func (t *Tracker) ShouldFlush(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return now.Sub(t.lastFlush) >= t.cfg.FlushInterval
}

// Drain atomically captures the accumulated durations, resets the map to
// empty, and stamps lastFlush. The returned map is owned by the caller.
func (t *Tracker) Drain(now time.Time) map[string]time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	data := t.accumulated
	t.accumulated = make(map[string]time.Duration)
	t.lastFlush = now
	return data
}

// Current returns the last observed identity, or nil before the first
// sample. Used for the startup probe line and tests.
func (t *Tracker) Current() *Identity {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return nil
	}
	id := *t.current
	return &id
}
