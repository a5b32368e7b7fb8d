package analysis

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/discochess/squeeze"
)

// Result is the measurement of one algorithm on one input.
type Result struct {
	Algorithm      squeeze.Algorithm
	OriginalSize   int64
	CompressedSize int64

	// Ratio is CompressedSize / OriginalSize; lower is better.
	Ratio float64

	CompressTimes   []time.Duration
	DecompressTimes []time.Duration

	// RoundTripOK is true when every decompression reproduced the input.
	RoundTripOK bool
}

// CompressStats describes the compression times in microseconds.
func (r *Result) CompressStats() *DescriptiveStats {
	return Describe(micros(r.CompressTimes))
}

// DecompressStats describes the decompression times in microseconds.
func (r *Result) DecompressStats() *DescriptiveStats {
	return Describe(micros(r.DecompressTimes))
}

func micros(ds []time.Duration) []float64 {
	out := make([]float64, len(ds))
	for i, d := range ds {
		out[i] = float64(d) / float64(time.Microsecond)
	}
	return out
}

// Measure compresses and decompresses data with algo iterations times.
func Measure(ctx context.Context, e *squeeze.Engine, algo squeeze.Algorithm, data []byte, iterations int) (*Result, error) {
	if iterations < 1 {
		return nil, fmt.Errorf("iterations must be positive, got %d", iterations)
	}

	r := &Result{
		Algorithm:       algo,
		OriginalSize:    int64(len(data)),
		CompressTimes:   make([]time.Duration, 0, iterations),
		DecompressTimes: make([]time.Duration, 0, iterations),
		RoundTripOK:     true,
	}
	for range iterations {
		enc, cst, err := e.Compress(ctx, algo, data)
		if err != nil {
			return nil, err
		}
		dec, dst, err := e.Decompress(ctx, cst.Algorithm, enc)
		if err != nil {
			return nil, err
		}

		r.Algorithm = cst.Algorithm
		r.CompressedSize = cst.EncodedSize
		r.Ratio = cst.Ratio()
		r.CompressTimes = append(r.CompressTimes, cst.Elapsed)
		r.DecompressTimes = append(r.DecompressTimes, dst.Elapsed)
		if !bytes.Equal(dec, data) {
			r.RoundTripOK = false
		}
	}
	return r, nil
}

// MeasureAll measures every algorithm in algos on data. Failures are
// joined; the results of the algorithms that succeeded are still returned.
func MeasureAll(ctx context.Context, e *squeeze.Engine, algos []squeeze.Algorithm, data []byte, iterations int) ([]*Result, error) {
	var (
		results []*Result
		errs    []error
	)
	for _, algo := range algos {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		r, err := Measure(ctx, e, algo, data, iterations)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", algo, err))
			continue
		}
		results = append(results, r)
	}
	return results, errors.Join(errs...)
}

// Rank sorts results best first: round-trip failures last, then by ratio,
// then by mean compression time, then by name.
func Rank(results []*Result) {
	slices.SortStableFunc(results, func(a, b *Result) int {
		if a.RoundTripOK != b.RoundTripOK {
			if a.RoundTripOK {
				return -1
			}
			return 1
		}
		return cmp.Or(
			cmp.Compare(a.Ratio, b.Ratio),
			cmp.Compare(a.CompressStats().Mean, b.CompressStats().Mean),
			cmp.Compare(a.Algorithm, b.Algorithm),
		)
	})
}
