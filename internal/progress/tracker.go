package progress

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrInvalidTotal indicates a Tracker was created with a non-positive total.
	ErrInvalidTotal = errors.New("progress: total bytes must be positive")

	// ErrInvalidProgress indicates an update outside [0, total].
	ErrInvalidProgress = errors.New("progress: processed bytes out of range")
)

// Snapshot is the state of a tracked operation at one point in time.
type Snapshot struct {
	Processed int64
	Total     int64
	StartTime time.Time
	Now       time.Time
}

// Elapsed returns the time since the operation started.
func (s Snapshot) Elapsed() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Percentage returns the completed share in the range 0-100.
func (s Snapshot) Percentage() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Processed) / float64(s.Total) * 100
}

// Speed returns the throughput in bytes per second.
func (s Snapshot) Speed() float64 {
	secs := s.Elapsed().Seconds()
	if secs == 0 {
		return 0
	}
	return float64(s.Processed) / secs
}

// Remaining estimates the time left, or math.MaxInt64 nanoseconds when the
// speed is still unknown.
func (s Snapshot) Remaining() time.Duration {
	speed := s.Speed()
	if speed == 0 {
		return time.Duration(math.MaxInt64)
	}
	left := float64(s.Total-s.Processed) / speed
	return time.Duration(left * float64(time.Second))
}

// Tracker validates progress updates for an operation of known size and
// forwards them to an optional callback.
type Tracker struct {
	snap     Snapshot
	callback func(Snapshot)
	now      func() time.Time
}

// NewTracker creates a Tracker for total bytes. callback may be nil.
func NewTracker(total int64, callback func(Snapshot)) (*Tracker, error) {
	if total <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTotal, total)
	}
	t := &Tracker{callback: callback, now: time.Now}
	start := t.now()
	t.snap = Snapshot{Total: total, StartTime: start, Now: start}
	return t, nil
}

// Compile-time check that Tracker implements Sink.
var _ Sink = (*Tracker)(nil)

// Update records the absolute number of processed bytes.
func (t *Tracker) Update(processed int64) error {
	if processed < 0 || processed > t.snap.Total {
		return fmt.Errorf("%w: %d of %d", ErrInvalidProgress, processed, t.snap.Total)
	}
	t.snap.Processed = processed
	t.snap.Now = t.now()
	if t.callback != nil {
		t.callback(t.snap)
	}
	return nil
}

// OnProgress implements Sink. Out-of-range updates are ignored.
func (t *Tracker) OnProgress(processed, total int64) {
	_ = t.Update(processed)
}

// Snapshot returns the latest recorded state.
func (t *Tracker) Snapshot() Snapshot {
	return t.snap
}

// Format renders the latest state as a single line.
func (t *Tracker) Format() string {
	s := t.snap
	remaining := "unknown"
	if d := s.Remaining(); d != time.Duration(math.MaxInt64) {
		remaining = FormatDuration(d)
	}
	return fmt.Sprintf("Progress: %.1f%% (%d/%d bytes) | Speed: %s/s | Remaining: %s",
		s.Percentage(), s.Processed, s.Total, FormatBytes(int64(s.Speed())), remaining)
}
