// Package progress reports how far a codec or file operation has advanced.
//
// Reporting is synchronous: a Sink is called inline by the operation it
// observes, so a slow sink slows the operation down.
package progress

// DefaultInterval is the default number of bytes between two reports.
const DefaultInterval = 64 * 1024

// Sink receives progress updates.
type Sink interface {
	// OnProgress is called with the number of bytes processed so far and
	// the total number of bytes the operation will process.
	OnProgress(processed, total int64)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(processed, total int64)

// Compile-time check that SinkFunc implements Sink.
var _ Sink = SinkFunc(nil)

// OnProgress calls f(processed, total).
func (f SinkFunc) OnProgress(processed, total int64) { f(processed, total) }

// Reporter throttles updates to a Sink. A nil *Reporter is valid and
// discards all updates, so codecs can report unconditionally.
type Reporter struct {
	sink      Sink
	total     int64
	interval  int64
	processed int64
	next      int64
	finished  bool
}

// NewReporter returns a Reporter for an operation of total bytes that calls
// sink at most once every interval bytes. It returns nil if sink is nil.
func NewReporter(sink Sink, total, interval int64) *Reporter {
	if sink == nil {
		return nil
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Reporter{
		sink:     sink,
		total:    total,
		interval: interval,
		next:     interval,
	}
}

// Add records n more processed bytes.
func (r *Reporter) Add(n int64) {
	if r == nil || r.finished {
		return
	}
	r.processed += n
	if r.processed > r.total {
		r.processed = r.total
	}
	if r.processed >= r.next {
		r.sink.OnProgress(r.processed, r.total)
		for r.next <= r.processed {
			r.next += r.interval
		}
	}
}

// Processed returns the number of bytes recorded so far.
func (r *Reporter) Processed() int64 {
	if r == nil {
		return 0
	}
	return r.processed
}

// Finish reports completion. Only the first call has an effect.
func (r *Reporter) Finish() {
	if r == nil || r.finished {
		return
	}
	r.finished = true
	r.processed = r.total
	r.sink.OnProgress(r.total, r.total)
}

// Tee returns a Sink that forwards every update to each non-nil sink in
// order. It returns nil if no sink is left.
func Tee(sinks ...Sink) Sink {
	var live []Sink
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return SinkFunc(func(processed, total int64) {
		for _, s := range live {
			s.OnProgress(processed, total)
		}
	})
}
