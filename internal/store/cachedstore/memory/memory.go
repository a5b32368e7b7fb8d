// Package memory is a cachedstore.Backend that keeps objects in process memory.
package memory

import (
	"sync/atomic"

	"github.com/discochess/squeeze/internal/stats"
	"github.com/discochess/squeeze/internal/store/cachedstore"
	"github.com/discochess/squeeze/internal/store/cachedstore/cachestrategy"
)

var _ cachedstore.Backend = (*Backend)(nil)

// Backend counts cache traffic and reports it to a stats.Collector. What is
// kept and for how long is up to its cachestrategy.Strategy.
type Backend struct {
	strategy  cachestrategy.Strategy
	collector stats.Collector

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// New returns a Backend over strategy. A nil collector discards metrics.
func New(strategy cachestrategy.Strategy, collector stats.Collector) *Backend {
	if collector == nil {
		collector = stats.NewNoop()
	}
	return &Backend{
		strategy:  strategy,
		collector: collector,
	}
}

func (b *Backend) Get(key string) ([]byte, bool) {
	if val, ok := b.strategy.Get(key); ok {
		b.hits.Add(1)
		b.collector.IncCounter(stats.MetricCacheHits, "", 1)
		return val, true
	}
	b.misses.Add(1)
	b.collector.IncCounter(stats.MetricCacheMisses, "", 1)
	return nil, false
}

func (b *Backend) Set(key string, data []byte) {
	if b.strategy.Add(key, data) {
		b.evictions.Add(1)
		b.collector.IncCounter(stats.MetricCacheEvictions, "", 1)
	}
	b.reportSize()
}

func (b *Backend) Delete(key string) {
	b.strategy.Remove(key)
	b.reportSize()
}

func (b *Backend) reportSize() {
	b.collector.SetGauge(stats.MetricCacheSize, "", int64(b.strategy.Len()))
	b.collector.SetGauge(stats.MetricCacheBytes, "", b.strategy.Bytes())
}

func (b *Backend) Stats() cachedstore.Stats {
	return cachedstore.Stats{
		Hits:      b.hits.Load(),
		Misses:    b.misses.Load(),
		Evictions: b.evictions.Load(),
		Size:      b.strategy.Len(),
		Bytes:     b.strategy.Bytes(),
	}
}
