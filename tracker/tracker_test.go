package tracker

import (
	"sync"
	"testing"
	"time"
)

var testConfig = Config{
	IdleThreshold: 60 * time.Second,
	FlushInterval: 45 * time.Second,
}

func newTestTracker(start time.Time) *Tracker {
	return New(testConfig, start)
}

func TestRecordAttributesGapToPriorLanguage(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tr := newTestTracker(t0)

	// First sample: nothing to attribute yet.
	changed := tr.Record("rust", "a.rs", t0)
	if !changed {
		t.Error("first sample should report changed")
	}

	changed = tr.Record("rust", "a.rs", t0.Add(10*time.Second))
	if changed {
		t.Error("identical sample should not report changed")
	}

	// Switch to python: the 30s gap belongs to rust, which was focused
	// when the gap started.
	changed = tr.Record("python", "b.py", t0.Add(40*time.Second))
	if !changed {
		t.Error("language switch should report changed")
	}

	data := tr.Drain(t0.Add(40 * time.Second))
	if got := data["rust"]; got != 40*time.Second {
		t.Errorf("rust accumulated = %v, want 40s", got)
	}
	if got := data["python"]; got != 0 {
		t.Errorf("python accumulated = %v, want 0", got)
	}
}

func TestRecordIdleGapExcluded(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tr := newTestTracker(t0)

	tr.Record("python", "b.py", t0)

	// 110s gap exceeds the 60s idle threshold: discarded.
	changed := tr.Record("python", "b.py", t0.Add(110*time.Second))
	if changed {
		t.Error("same identity after idle gap should not report changed")
	}

	data := tr.Drain(t0.Add(110 * time.Second))
	if len(data) != 0 {
		t.Errorf("accumulated = %v, want empty after idle gap", data)
	}
}

func TestRecordIdleThresholdBoundaryIsIdle(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tr := newTestTracker(t0)

	tr.Record("go", "main.go", t0)

	// Gap exactly at the threshold counts as idle.
	tr.Record("go", "main.go", t0.Add(testConfig.IdleThreshold))

	data := tr.Drain(t0.Add(testConfig.IdleThreshold))
	if got := data["go"]; got != 0 {
		t.Errorf("accumulated at threshold boundary = %v, want 0", got)
	}

	// One nanosecond under the threshold accumulates.
	tr.Record("go", "main.go", t0.Add(testConfig.IdleThreshold).Add(testConfig.IdleThreshold-time.Nanosecond))
	data = tr.Drain(t0.Add(5 * time.Minute))
	if got := data["go"]; got != testConfig.IdleThreshold-time.Nanosecond {
		t.Errorf("accumulated just under threshold = %v, want %v", got, testConfig.IdleThreshold-time.Nanosecond)
	}
}

func TestRecordSampleSequence(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tr := newTestTracker(t0)

	steps := []struct {
		language    string
		file        string
		at          time.Duration
		wantChanged bool
	}{
		{"rust", "a.rs", 0, true},
		{"rust", "a.rs", 10 * time.Second, false},
		{"python", "b.py", 40 * time.Second, true},
		{"python", "b.py", 150 * time.Second, false}, // 110s gap, idle
	}

	for i, step := range steps {
		got := tr.Record(step.language, step.file, t0.Add(step.at))
		if got != step.wantChanged {
			t.Errorf("step %d: changed = %v, want %v", i, got, step.wantChanged)
		}
	}

	data := tr.Drain(t0.Add(150 * time.Second))
	if got := data["rust"]; got != 40*time.Second {
		t.Errorf("rust = %v, want 40s", got)
	}
	if got := data["python"]; got != 0 {
		t.Errorf("python = %v, want 0 (idle gap excluded)", got)
	}
}

func TestTimeConservation(t *testing.T) {
	// Sum of accumulated durations plus excluded idle gaps must equal
	// total elapsed time from first to last sample.
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tr := newTestTracker(t0)

	samples := []struct {
		language string
		file     string
		at       time.Duration
	}{
		{"rust", "a.rs", 0},
		{"rust", "a.rs", 5 * time.Second},
		{"go", "x.go", 20 * time.Second},
		{"go", "x.go", 95 * time.Second},  // 75s idle gap
		{"go", "x.go", 100 * time.Second},
		{"python", "b.py", 130 * time.Second},
		{"python", "b.py", 400 * time.Second}, // 270s idle gap
	}

	var idle time.Duration
	prev := t0
	first := true
	for _, s := range samples {
		now := t0.Add(s.at)
		if !first {
			if gap := now.Sub(prev); gap >= testConfig.IdleThreshold {
				idle += gap
			}
		}
		tr.Record(s.language, s.file, now)
		prev = now
		first = false
	}

	var accumulated time.Duration
	for _, d := range tr.Drain(prev) {
		accumulated += d
	}

	elapsed := samples[len(samples)-1].at - samples[0].at
	if accumulated+idle != elapsed {
		t.Errorf("accumulated(%v) + idle(%v) = %v, want elapsed %v",
			accumulated, idle, accumulated+idle, elapsed)
	}
}

func TestDrainEmptiesAndDoubleDrainIsEmpty(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tr := newTestTracker(t0)

	tr.Record("go", "main.go", t0)
	tr.Record("go", "main.go", t0.Add(25*time.Second))

	data := tr.Drain(t0.Add(25 * time.Second))
	if got := data["go"]; got != 25*time.Second {
		t.Errorf("first drain go = %v, want 25s", got)
	}

	second := tr.Drain(t0.Add(26 * time.Second))
	if len(second) != 0 {
		t.Errorf("second drain = %v, want empty", second)
	}
}

func TestShouldFlushResetsAfterDrain(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tr := newTestTracker(t0)

	if tr.ShouldFlush(t0.Add(44 * time.Second)) {
		t.Error("ShouldFlush before interval elapsed")
	}
	if !tr.ShouldFlush(t0.Add(45 * time.Second)) {
		t.Error("ShouldFlush at interval boundary should be true")
	}

	at := t0.Add(50 * time.Second)
	tr.Drain(at)

	if tr.ShouldFlush(at.Add(time.Second)) {
		t.Error("ShouldFlush immediately after drain should be false")
	}
	if !tr.ShouldFlush(at.Add(testConfig.FlushInterval)) {
		t.Error("ShouldFlush a full interval after drain should be true")
	}
}

func TestFirstSampleDoesNotAccumulate(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tr := newTestTracker(t0.Add(-30 * time.Second))

	// No prior identity: the 30s since construction is not attributed.
	tr.Record("go", "main.go", t0)

	data := tr.Drain(t0)
	if len(data) != 0 {
		t.Errorf("accumulated = %v, want empty before any prior identity", data)
	}
}

func TestConcurrentRecordAndDrainConserveTime(t *testing.T) {
	// Hammer Record and Drain from separate goroutines with a shared
	// monotonically increasing clock; nothing may be lost or counted
	// twice regardless of interleaving.
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tr := newTestTracker(t0)

	const samples = 1000
	step := time.Second // always below idle threshold

	var mu sync.Mutex
	total := make(map[string]time.Duration)
	collect := func(data map[string]time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		for lang, d := range data {
			total[lang] += d
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 1; i <= samples; i++ {
			tr.Record("go", "main.go", t0.Add(time.Duration(i)*step))
		}
	}()

	for {
		select {
		case <-done:
			collect(tr.Drain(t0.Add(samples * step)))
			var sum time.Duration
			for _, d := range total {
				sum += d
			}
			if want := time.Duration(samples-1) * step; sum != want {
				t.Errorf("total accumulated = %v, want %v", sum, want)
			}
			return
		default:
			collect(tr.Drain(t0))
		}
	}
}

func TestCurrentIdentity(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tr := newTestTracker(t0)

	if tr.Current() != nil {
		t.Error("Current before any sample should be nil")
	}

	tr.Record("rust", "a.rs", t0)
	id := tr.Current()
	if id == nil || id.Language != "rust" || id.FileName != "a.rs" {
		t.Errorf("Current = %+v, want rust/a.rs", id)
	}
}
