package main

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"coredump/collector"
	"coredump/core"
	"coredump/language"
	"coredump/logging"
	"coredump/tracker"
	"coredump/window"
)

// ActivitySender is the egress capability the flush loop depends on.
// *collector.Client satisfies it in production.
type ActivitySender interface {
	Send(ctx context.Context, privateKey, languageID string, minutes float64) error
}

var _ ActivitySender = (*collector.Client)(nil)

// Monitor runs the two tracking loops. The poll loop samples editor
// focus on a short period and feeds the tracker; the flush loop drains
// the tracker on a longer period and submits qualifying totals. They
// share only the tracker, whose operations are internally locked, so
// neither loop can ever observe partial state. Network sends happen
// strictly outside the tracker's lock.
type Monitor struct {
	cfg     *core.Config
	sampler window.Sampler
	sender  ActivitySender
	tracker *tracker.Tracker
	logger  *logging.Logger
	done    chan struct{}

	// now is the clock source, swapped in tests.
	now func() time.Time

	// lastTransitionLog throttles the "now tracking" line; touched only
	// by the poll loop.
	lastTransitionLog time.Time
}

// NewMonitor creates a Monitor. The tracker is seeded with the current
// clock reading so the first inter-sample gap is measured from startup.
func NewMonitor(cfg *core.Config, sampler window.Sampler, sender ActivitySender, logger *logging.Logger) *Monitor {
	return newMonitorWithClock(cfg, sampler, sender, logger, time.Now)
}

func newMonitorWithClock(cfg *core.Config, sampler window.Sampler, sender ActivitySender, logger *logging.Logger, now func() time.Time) *Monitor {
	return &Monitor{
		cfg:     cfg,
		sampler: sampler,
		sender:  sender,
		tracker: tracker.New(tracker.Config{
			IdleThreshold: cfg.IdleThreshold,
			FlushInterval: cfg.FlushInterval,
		}, now()),
		logger:            logger,
		done:              make(chan struct{}),
		now:               now,
		lastTransitionLog: now(),
	}
}

// Done returns a channel closed when both loops have stopped and the
// final flush has completed.
func (m *Monitor) Done() <-chan struct{} {
	return m.done
}

// Start runs the poll and flush loops until the context is cancelled,
// then performs one final drain-and-send so a terminating session's
// accumulated time is not lost.
func (m *Monitor) Start(ctx context.Context) {
	defer close(m.done)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		m.pollLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		m.flushLoop(ctx)
	}()
	wg.Wait()

	m.finalFlush()
}

// pollLoop samples focus state on the poll interval. Every failure mode
// of a tick (editor unfocused, no window, unparseable title) is simply
// "no sample"; the loop never stops before the context does.
func (m *Monitor) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Debug("poll loop stopping")
			return
		case <-ticker.C:
			m.pollOnce()
		}
	}
}

// pollOnce takes one focus sample and records it.
func (m *Monitor) pollOnce() {
	if !m.sampler.IsEditorFocused() {
		return
	}
	fileName, ok := m.sampler.CurrentFileName()
	if !ok {
		return
	}

	languageID := language.Detect(fileName)
	now := m.now()
	changed := m.tracker.Record(languageID, fileName, now)

	// Transition lines are cosmetic: on every identity change, and as a
	// heartbeat when the same file stays focused for a long stretch.
	if changed || now.Sub(m.lastTransitionLog) >= m.cfg.QuietLogGap {
		m.logger.Info("now tracking",
			zap.String("file", fileName),
			zap.String("language", language.DisplayName(languageID)),
		)
		m.lastTransitionLog = now
	}
}

// flushLoop drains and submits on the flush interval.
func (m *Monitor) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Debug("flush loop stopping")
			return
		case <-ticker.C:
			m.flushOnce(ctx)
		}
	}
}

// flushOnce drains the tracker if a full interval has elapsed and sends
// every qualifying (language, duration) pair. The drain is the only
// interaction with shared state; all sends happen after it.
func (m *Monitor) flushOnce(ctx context.Context) {
	now := m.now()
	if !m.tracker.ShouldFlush(now) {
		return
	}
	m.submit(ctx, m.tracker.Drain(now))
}

// submit sends each drained entry at or above the minimum sendable
// duration. Short entries are focus flicker and are dropped without a
// send. Failures are logged and the data for that pair is gone; there
// is no retry and no re-queue.
func (m *Monitor) submit(ctx context.Context, drained map[string]time.Duration) {
	for languageID, duration := range drained {
		if duration < m.cfg.MinSendDuration {
			m.logger.Debug("dropping below-minimum entry",
				zap.String("language", languageID),
				zap.Duration("duration", duration),
			)
			continue
		}

		minutes := duration.Seconds() / 60.0
		display := language.DisplayName(languageID)

		sendCtx, cancel := context.WithTimeout(ctx, m.cfg.SendTimeout)
		err := m.sender.Send(sendCtx, m.cfg.PrivateKey, languageID, minutes)
		cancel()

		if err != nil {
			m.logger.Error("failed to send activity",
				zap.String("language", display),
				zap.Error(err),
			)
			continue
		}
		m.logger.Info("sent activity",
			zap.String("language", display),
			zap.Float64("minutes", minutes),
		)
	}
}

// finalFlush drains whatever accumulated since the last flush and sends
// it on a background context. Runs once, after both loops have exited.
func (m *Monitor) finalFlush() {
	drained := m.tracker.Drain(m.now())
	if len(drained) == 0 {
		return
	}
	m.logger.Info("final flush before shutdown", zap.Int("languages", len(drained)))
	m.submit(context.Background(), drained)
}

// logStartupProbe emits an initial "now tracking" line if the editor is
// already focused, mirroring what the first poll tick would log.
func (m *Monitor) logStartupProbe() {
	if !m.sampler.IsEditorFocused() {
		return
	}
	if fileName, ok := m.sampler.CurrentFileName(); ok {
		m.logger.Info("now tracking",
			zap.String("file", fileName),
			zap.String("language", language.DisplayName(language.Detect(fileName))),
		)
	}
}
