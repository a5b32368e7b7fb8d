// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the library.
const (
	// Engine metrics, labelled by algorithm.
	MetricCompressions   = "squeeze_compressions_total"
	MetricDecompressions = "squeeze_decompressions_total"
	MetricErrors         = "squeeze_errors_total"
	MetricInputBytes     = "squeeze_input_bytes_total"
	MetricOutputBytes    = "squeeze_output_bytes_total"
	MetricDuration       = "squeeze_duration_seconds"
	MetricLastRatio      = "squeeze_last_ratio_permille"

	// Cache metrics. The algorithm label is empty.
	MetricCacheHits      = "squeeze_cache_hits_total"
	MetricCacheMisses    = "squeeze_cache_misses_total"
	MetricCacheEvictions = "squeeze_cache_evictions_total"
	MetricCacheSize      = "squeeze_cache_size"
	MetricCacheBytes     = "squeeze_cache_bytes"
)

// Collector defines the interface for collecting metrics.
// The algorithm argument partitions each metric; it may be empty.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name, algorithm string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name, algorithm string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name, algorithm string, value float64)
}
