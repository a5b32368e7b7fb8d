package stats

// Noop discards every metric. The zero value is ready to use.
type Noop struct{}

var _ Collector = Noop{}

// NewNoop returns a collector that discards every metric.
func NewNoop() *Noop {
	return &Noop{}
}

func (Noop) IncCounter(string, string, int64)         {}
func (Noop) SetGauge(string, string, int64)           {}
func (Noop) ObserveHistogram(string, string, float64) {}
