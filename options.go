package squeeze

import (
	"go.uber.org/zap"

	"github.com/discochess/squeeze/internal/codec"
	"github.com/discochess/squeeze/internal/progress"
	"github.com/discochess/squeeze/internal/stats"
)

// Option configures an Engine.
type Option interface {
	apply(*options)
}

// options holds the engine configuration.
type options struct {
	codecs    map[Algorithm]codec.Codec
	threshold int64
	small     Algorithm
	large     Algorithm
	progress  progress.Sink
	interval  int64
	stats     stats.Collector
	logger    *zap.Logger
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		codecs:    make(map[Algorithm]codec.Codec),
		threshold: DefaultSizeThreshold,
		small:     RLE,
		large:     LZW,
		interval:  progress.DefaultInterval,
		stats:     stats.NewNoop(),
		logger:    zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithSizeThreshold sets the input size above which Auto selects the
// large-input algorithm. Default is 1 MiB.
func WithSizeThreshold(n int64) Option {
	return optionFunc(func(o *options) {
		o.threshold = n
	})
}

// WithDefaultAlgorithms sets the algorithms Auto selects for inputs at or
// below the size threshold and above it. Defaults are RLE and LZW.
func WithDefaultAlgorithms(small, large Algorithm) Option {
	return optionFunc(func(o *options) {
		o.small = small
		o.large = large
	})
}

// WithCodec registers c under algo, replacing any built-in codec of that name.
func WithCodec(algo Algorithm, c codec.Codec) Option {
	return optionFunc(func(o *options) {
		o.codecs[algo] = c
	})
}

// WithProgress sets a sink that receives progress for every call.
// If not set, progress is not reported.
func WithProgress(sink progress.Sink) Option {
	return optionFunc(func(o *options) {
		o.progress = sink
	})
}

// WithProgressInterval sets the number of bytes between progress reports.
func WithProgressInterval(n int64) Option {
	return optionFunc(func(o *options) {
		o.interval = n
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}
