package squeeze

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap/zaptest"

	"github.com/discochess/squeeze/internal/codec/noopcodec"
	"github.com/discochess/squeeze/internal/progress"
	"github.com/discochess/squeeze/internal/stats"
	promstats "github.com/discochess/squeeze/internal/stats/prometheus"
)

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	e, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

func TestNew_Defaults(t *testing.T) {
	e := newEngine(t)

	want := []Algorithm{Gzip, Huffman, LZW, RLE, S2, Store, Zstd}
	got := e.Algorithms()
	if len(got) != len(want) {
		t.Fatalf("Algorithms() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Algorithms()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	if _, err := New(WithDefaultAlgorithms("bogus", LZW)); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("New() error = %v, want ErrUnknownAlgorithm", err)
	}
	if _, err := New(WithSizeThreshold(-1)); err == nil {
		t.Error("New() with negative threshold should fail")
	}
}

func TestEngine_Select(t *testing.T) {
	e := newEngine(t)

	tests := []struct {
		name string
		algo Algorithm
		size int64
		want Algorithm
	}{
		{"explicit", Huffman, 10, Huffman},
		{"explicit ignores size", RLE, 10 << 20, RLE},
		{"auto small", Auto, 100, RLE},
		{"auto at threshold", Auto, DefaultSizeThreshold, RLE},
		{"auto above threshold", Auto, DefaultSizeThreshold + 1, LZW},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Select(tt.algo, tt.size)
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Select(%q, %d) = %q, want %q", tt.algo, tt.size, got, tt.want)
			}
		})
	}

	if _, err := e.Select("bzip9", 1); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("Select(bzip9) error = %v, want ErrUnknownAlgorithm", err)
	}
}

func TestEngine_Select_Configured(t *testing.T) {
	e := newEngine(t, WithSizeThreshold(16), WithDefaultAlgorithms(Huffman, Zstd))

	if got, _ := e.Select(Auto, 16); got != Huffman {
		t.Errorf("Select(Auto, 16) = %q, want huffman", got)
	}
	if got, _ := e.Select(Auto, 17); got != Zstd {
		t.Errorf("Select(Auto, 17) = %q, want zstd", got)
	}
}

func TestEngine_RoundTrip(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	rng := rand.New(rand.NewSource(1))
	random := make([]byte, 4096)
	rng.Read(random)

	inputs := map[string][]byte{
		"empty":      {},
		"single":     {0x42},
		"repetitive": []byte("AAAAABBBCC"),
		"random":     random,
	}

	for _, algo := range e.Algorithms() {
		for name, data := range inputs {
			t.Run(string(algo)+"/"+name, func(t *testing.T) {
				enc, cst, err := e.Compress(ctx, algo, data)
				if err != nil {
					t.Fatalf("Compress() error = %v", err)
				}
				if cst.Operation != OpCompress || cst.Algorithm != algo {
					t.Errorf("Compress() stats = %+v", cst)
				}
				if cst.OriginalSize != int64(len(data)) || cst.EncodedSize != int64(len(enc)) {
					t.Errorf("Compress() sizes = %d/%d, want %d/%d", cst.OriginalSize, cst.EncodedSize, len(data), len(enc))
				}

				dec, dst, err := e.Decompress(ctx, algo, enc)
				if err != nil {
					t.Fatalf("Decompress() error = %v", err)
				}
				if !bytes.Equal(dec, data) {
					t.Fatalf("round trip mismatch: got %d bytes, want %d", len(dec), len(data))
				}
				if dst.OriginalSize != int64(len(data)) || dst.EncodedSize != int64(len(enc)) {
					t.Errorf("Decompress() sizes = %d/%d, want %d/%d", dst.OriginalSize, dst.EncodedSize, len(data), len(enc))
				}
			})
		}
	}
}

func TestEngine_Compress_Auto(t *testing.T) {
	e := newEngine(t, WithSizeThreshold(8))
	ctx := context.Background()

	_, st, err := e.Compress(ctx, Auto, []byte("short"))
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	if st.Algorithm != RLE {
		t.Errorf("Algorithm = %q, want rle", st.Algorithm)
	}

	_, st, err = e.Compress(ctx, Auto, []byte("longer than eight"))
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	if st.Algorithm != LZW {
		t.Errorf("Algorithm = %q, want lzw", st.Algorithm)
	}

	if _, _, err := e.Decompress(ctx, Auto, []byte{}); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("Decompress(Auto) error = %v, want ErrUnknownAlgorithm", err)
	}
}

func TestEngine_Scenarios(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	t.Run("empty input", func(t *testing.T) {
		huf, _, err := e.Compress(ctx, Huffman, nil)
		if err != nil || len(huf) != 0 {
			t.Errorf("Compress(huffman, empty) = %x, %v, want empty", huf, err)
		}
		lzw, _, err := e.Compress(ctx, LZW, nil)
		if err != nil || !bytes.Equal(lzw, []byte{0, 0, 0, 0}) {
			t.Errorf("Compress(lzw, empty) = %x, %v, want 00000000", lzw, err)
		}
	})

	t.Run("truncated huffman tree", func(t *testing.T) {
		enc, _, err := e.Compress(ctx, Huffman, []byte("AAAAABBBCC"))
		if err != nil {
			t.Fatalf("Compress() error = %v", err)
		}
		if _, _, err := e.Decompress(ctx, Huffman, enc[:7]); !errors.Is(err, ErrInvalidTreeData) {
			t.Errorf("Decompress() error = %v, want ErrInvalidTreeData", err)
		}
	})

	t.Run("impossible lzw code", func(t *testing.T) {
		data := []byte{0, 0, 0, 2, 0x00, 0x41, 0x01, 0x2C}
		if _, _, err := e.Decompress(ctx, LZW, data); !errors.Is(err, ErrInvalidCode) {
			t.Errorf("Decompress() error = %v, want ErrInvalidCode", err)
		}
	})

	t.Run("malformed containers", func(t *testing.T) {
		for _, algo := range []Algorithm{LZW, RLE} {
			if _, _, err := e.Decompress(ctx, algo, []byte{0x01}); !errors.Is(err, ErrMalformed) {
				t.Errorf("Decompress(%s) error = %v, want ErrMalformed", algo, err)
			}
		}
	})

	t.Run("corrupt huffman stream", func(t *testing.T) {
		enc, _, err := e.Compress(ctx, Huffman, []byte("AAAAABBBCC"))
		if err != nil {
			t.Fatalf("Compress() error = %v", err)
		}
		if _, _, err := e.Decompress(ctx, Huffman, enc[:12]); !errors.Is(err, ErrCorruptStream) {
			t.Errorf("Decompress() error = %v, want ErrCorruptStream", err)
		}
	})
}

func TestEngine_Progress(t *testing.T) {
	var calls []int64
	sink := progress.SinkFunc(func(processed, total int64) {
		calls = append(calls, processed)
	})
	e := newEngine(t, WithProgress(sink), WithProgressInterval(100))

	data := bytes.Repeat([]byte("abc"), 150)
	if _, _, err := e.Compress(context.Background(), LZW, data); err != nil {
		t.Fatalf("Compress() error = %v", err)
	}

	if len(calls) < 2 {
		t.Fatalf("progress calls = %v, want several", calls)
	}
	if last := calls[len(calls)-1]; last != int64(len(data)) {
		t.Errorf("last progress = %d, want %d", last, len(data))
	}
	for i := 1; i < len(calls); i++ {
		if calls[i] < calls[i-1] {
			t.Errorf("progress went backwards: %v", calls)
		}
	}
}

func TestEngine_Stats(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := newEngine(t, WithStats(promstats.New(reg)))
	ctx := context.Background()

	enc, _, err := e.Compress(ctx, Huffman, []byte("metrics"))
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	if _, _, err := e.Decompress(ctx, Huffman, enc); err != nil {
		t.Fatalf("Decompress() error = %v", err)
	}
	_, _, _ = e.Decompress(ctx, LZW, []byte{0xFF})

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	values := map[string]float64{}
	for _, f := range families {
		for _, m := range f.GetMetric() {
			algo := m.GetLabel()[0].GetValue()
			values[f.GetName()+"/"+algo] = m.GetCounter().GetValue()
		}
	}

	checks := map[string]float64{
		stats.MetricCompressions + "/huffman":   1,
		stats.MetricDecompressions + "/huffman": 1,
		stats.MetricInputBytes + "/huffman":     float64(7 + len(enc)),
		stats.MetricErrors + "/lzw":             1,
	}
	for key, want := range checks {
		if got := values[key]; got != want {
			t.Errorf("%s = %v, want %v", key, got, want)
		}
	}
}

func TestEngine_WithCodec(t *testing.T) {
	e := newEngine(t, WithCodec("copy", noopcodec.New()))

	ext, err := e.Extension("copy")
	if err != nil {
		t.Fatalf("Extension() error = %v", err)
	}
	if ext != "raw" {
		t.Errorf("Extension() = %q, want raw", ext)
	}
	out, st, err := e.Compress(context.Background(), "copy", []byte("x"))
	if err != nil || string(out) != "x" || st.Algorithm != "copy" {
		t.Errorf("Compress(copy) = %q, %+v, %v", out, st, err)
	}
}

func TestEngine_Close(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// First close should succeed.
	if err := e.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	// Second close should return ErrClosed.
	if err := e.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("Close() second call error = %v, want ErrClosed", err)
	}

	if _, _, err := e.Compress(context.Background(), RLE, []byte("x")); !errors.Is(err, ErrClosed) {
		t.Errorf("Compress() after close error = %v, want ErrClosed", err)
	}
}

func TestEngine_CanceledContext(t *testing.T) {
	e := newEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := e.Compress(ctx, RLE, []byte("x")); !errors.Is(err, context.Canceled) {
		t.Errorf("Compress() error = %v, want context.Canceled", err)
	}
}
