// Package squeeze compresses and decompresses byte buffers with a choice of
// lossless algorithms.
//
// Example usage:
//
//	engine, err := squeeze.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Close()
//
//	packed, st, err := engine.Compress(ctx, squeeze.Huffman, data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s: %d -> %d bytes\n", st.Algorithm, st.OriginalSize, st.EncodedSize)
//
// Passing Auto instead of an algorithm picks one from the input size.
package squeeze

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/squeeze/internal/codec"
	"github.com/discochess/squeeze/internal/progress"
	"github.com/discochess/squeeze/internal/stats"
)

// Engine compresses and decompresses buffers with registered codecs.
// An Engine is safe for concurrent use by multiple goroutines; the progress
// sink, if any, must be as well.
type Engine struct {
	codecs    map[Algorithm]codec.Codec
	threshold int64
	small     Algorithm
	large     Algorithm
	progress  progress.Sink
	interval  int64
	stats     stats.Collector
	logger    *zap.Logger
	closed    atomic.Bool
}

// New creates a new Engine with the given options.
// If no options are provided, sensible defaults are used.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	e := &Engine{
		codecs:    make(map[Algorithm]codec.Codec),
		threshold: cfg.threshold,
		small:     cfg.small,
		large:     cfg.large,
		progress:  cfg.progress,
		interval:  cfg.interval,
		stats:     cfg.stats,
		logger:    cfg.logger,
	}
	for _, c := range builtinCodecs() {
		e.codecs[Algorithm(c.Name())] = c
	}
	for algo, c := range cfg.codecs {
		e.codecs[algo] = c
	}

	if e.threshold < 0 {
		return nil, fmt.Errorf("squeeze: negative size threshold %d", e.threshold)
	}
	for _, algo := range []Algorithm{e.small, e.large} {
		if _, ok := e.codecs[algo]; !ok {
			return nil, fmt.Errorf("default algorithm %q: %w", algo, ErrUnknownAlgorithm)
		}
	}

	e.logger.Debug("engine initialized",
		zap.Int("codecs", len(e.codecs)),
		zap.Int64("sizeThreshold", e.threshold),
		zap.String("small", string(e.small)),
		zap.String("large", string(e.large)),
	)

	return e, nil
}

// Select resolves the algorithm used for an input of size bytes. An explicit
// algorithm must be registered. Auto picks the large-input default when size
// exceeds the threshold and the small-input default otherwise.
func (e *Engine) Select(algo Algorithm, size int64) (Algorithm, error) {
	if algo == Auto {
		if size > e.threshold {
			return e.large, nil
		}
		return e.small, nil
	}
	if _, ok := e.codecs[algo]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algo)
	}
	return algo, nil
}

// Algorithms returns the registered algorithms in name order.
func (e *Engine) Algorithms() []Algorithm {
	algos := make([]Algorithm, 0, len(e.codecs))
	for algo := range e.codecs {
		algos = append(algos, algo)
	}
	slices.Sort(algos)
	return algos
}

// Extension returns the file extension, without dot, of algo's output.
func (e *Engine) Extension(algo Algorithm) (string, error) {
	c, ok := e.codecs[algo]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algo)
	}
	return c.Extension(), nil
}

// Compress encodes src with algo, or with the size-based choice for Auto.
// The context is only checked before work starts.
func (e *Engine) Compress(ctx context.Context, algo Algorithm, src []byte) ([]byte, *Stats, error) {
	if err := e.check(ctx); err != nil {
		return nil, nil, err
	}
	algo, err := e.Select(algo, int64(len(src)))
	if err != nil {
		return nil, nil, err
	}
	return e.run(OpCompress, algo, src, e.codecs[algo].Compress)
}

// Decompress decodes src, which must have been produced by algo. Auto is
// not accepted since the input does not identify its algorithm.
// The context is only checked before work starts.
func (e *Engine) Decompress(ctx context.Context, algo Algorithm, src []byte) ([]byte, *Stats, error) {
	if err := e.check(ctx); err != nil {
		return nil, nil, err
	}
	if algo == Auto {
		return nil, nil, fmt.Errorf("%w: decompression needs an explicit algorithm", ErrUnknownAlgorithm)
	}
	algo, err := e.Select(algo, int64(len(src)))
	if err != nil {
		return nil, nil, err
	}
	return e.run(OpDecompress, algo, src, e.codecs[algo].Decompress)
}

// Close releases all resources associated with the engine.
// After Close, every call fails with ErrClosed.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	e.logger.Debug("engine closed")
	return nil
}

func (e *Engine) check(ctx context.Context) error {
	if e.closed.Load() {
		return ErrClosed
	}
	return ctx.Err()
}

type codecFunc func(src []byte, rep *progress.Reporter) ([]byte, error)

func (e *Engine) run(op Operation, algo Algorithm, src []byte, fn codecFunc) ([]byte, *Stats, error) {
	name := string(algo)
	rep := progress.NewReporter(e.progress, int64(len(src)), e.interval)

	start := time.Now()
	out, err := fn(src, rep)
	elapsed := time.Since(start)
	if err != nil {
		e.stats.IncCounter(stats.MetricErrors, name, 1)
		e.logger.Debug("codec failed",
			zap.String("algorithm", name),
			zap.String("operation", string(op)),
			zap.Int("inputBytes", len(src)),
			zap.Error(err),
		)
		return nil, nil, fmt.Errorf("%s %s: %w", name, op, err)
	}
	rep.Finish()

	st := &Stats{
		Algorithm: algo,
		Operation: op,
		Elapsed:   elapsed,
	}
	if op == OpCompress {
		st.OriginalSize, st.EncodedSize = int64(len(src)), int64(len(out))
		e.stats.IncCounter(stats.MetricCompressions, name, 1)
	} else {
		st.OriginalSize, st.EncodedSize = int64(len(out)), int64(len(src))
		e.stats.IncCounter(stats.MetricDecompressions, name, 1)
	}
	e.stats.IncCounter(stats.MetricInputBytes, name, int64(len(src)))
	e.stats.IncCounter(stats.MetricOutputBytes, name, int64(len(out)))
	e.stats.ObserveHistogram(stats.MetricDuration, name, elapsed.Seconds())
	e.stats.SetGauge(stats.MetricLastRatio, name, int64(st.Ratio()*1000))

	e.logger.Debug("codec finished",
		zap.String("algorithm", name),
		zap.String("operation", string(op)),
		zap.Int64("originalSize", st.OriginalSize),
		zap.Int64("encodedSize", st.EncodedSize),
		zap.Duration("elapsed", elapsed),
	)
	return out, st, nil
}
