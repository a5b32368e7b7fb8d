// Package prometheus provides a Prometheus-based stats collector.
//
// Every metric is a vector with a single "algorithm" label.
package prometheus

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/discochess/squeeze/internal/stats"
)

// LabelAlgorithm is the label carrying the algorithm name.
const LabelAlgorithm = "algorithm"

// Collector implements stats.Collector using Prometheus metrics.
type Collector struct {
	registry prometheus.Registerer

	mu         sync.RWMutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

// Compile-time check that Collector implements stats.Collector.
var _ stats.Collector = (*Collector)(nil)

// New creates a new Prometheus collector.
// If registry is nil, prometheus.DefaultRegisterer is used.
func New(registry prometheus.Registerer) *Collector {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	return &Collector{
		registry:   registry,
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

// IncCounter increments a counter metric.
func (c *Collector) IncCounter(name, algorithm string, delta int64) {
	c.counterVec(name).WithLabelValues(algorithm).Add(float64(delta))
}

// SetGauge sets a gauge metric.
func (c *Collector) SetGauge(name, algorithm string, value int64) {
	c.gaugeVec(name).WithLabelValues(algorithm).Set(float64(value))
}

// ObserveHistogram records a value in a histogram.
func (c *Collector) ObserveHistogram(name, algorithm string, value float64) {
	c.histogramVec(name).WithLabelValues(algorithm).Observe(value)
}

func (c *Collector) counterVec(name string) *prometheus.CounterVec {
	c.mu.RLock()
	vec, ok := c.counters[name]
	c.mu.RUnlock()
	if ok {
		return vec
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock.
	if vec, ok = c.counters[name]; ok {
		return vec
	}

	vec = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: name,
	}, []string{LabelAlgorithm})
	c.counters[name] = register(c.registry, vec)
	return c.counters[name]
}

func (c *Collector) gaugeVec(name string) *prometheus.GaugeVec {
	c.mu.RLock()
	vec, ok := c.gauges[name]
	c.mu.RUnlock()
	if ok {
		return vec
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if vec, ok = c.gauges[name]; ok {
		return vec
	}

	vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: name,
		Help: name,
	}, []string{LabelAlgorithm})
	c.gauges[name] = register(c.registry, vec)
	return c.gauges[name]
}

func (c *Collector) histogramVec(name string) *prometheus.HistogramVec {
	c.mu.RLock()
	vec, ok := c.histograms[name]
	c.mu.RUnlock()
	if ok {
		return vec
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if vec, ok = c.histograms[name]; ok {
		return vec
	}

	vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    name,
		Help:    name,
		Buckets: prometheus.DefBuckets,
	}, []string{LabelAlgorithm})
	c.histograms[name] = register(c.registry, vec)
	return c.histograms[name]
}

// register adds vec to reg. If an identical vector is already registered the
// existing one is returned instead; on any other failure the unregistered
// vec still works, it just is not exported.
func register[V prometheus.Collector](reg prometheus.Registerer, vec V) V {
	err := reg.Register(vec)
	if err == nil {
		return vec
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(V); ok {
			return existing
		}
	}
	return vec
}

// WriteTextfile writes everything gathered from g to filename in the
// Prometheus text exposition format.
func WriteTextfile(filename string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(filename, g)
}
