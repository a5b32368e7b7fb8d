package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/discochess/squeeze/internal/stats"
)

func TestCollector_LogsMetrics(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := New(zap.New(core))

	c.IncCounter(stats.MetricCompressions, "lzw", 2)
	c.SetGauge(stats.MetricCacheSize, "", 7)
	c.ObserveHistogram(stats.MetricDuration, "huffman", 0.5)

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("logged %d entries, want 3", len(entries))
	}

	wantMessages := []string{"counter", "gauge", "histogram"}
	for i, e := range entries {
		if e.Message != wantMessages[i] {
			t.Errorf("entry %d message = %q, want %q", i, e.Message, wantMessages[i])
		}
	}

	fields := entries[0].ContextMap()
	if fields["metric"] != stats.MetricCompressions {
		t.Errorf("metric = %v, want %s", fields["metric"], stats.MetricCompressions)
	}
	if fields["algorithm"] != "lzw" {
		t.Errorf("algorithm = %v, want lzw", fields["algorithm"])
	}
	if fields["delta"] != int64(2) {
		t.Errorf("delta = %v, want 2", fields["delta"])
	}

	gauge := entries[1].ContextMap()
	if _, ok := gauge["algorithm"]; ok {
		t.Errorf("gauge fields = %v, want no algorithm", gauge)
	}
	if gauge["value"] != int64(7) {
		t.Errorf("value = %v, want 7", gauge["value"])
	}
}

func TestCollector_InfoLevelSkipsEntries(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	c := New(zap.New(core))

	c.IncCounter(stats.MetricErrors, "rle", 1)
	if n := logs.Len(); n != 0 {
		t.Errorf("logged %d entries at info level, want 0", n)
	}
}

func TestNew_NilLogger(t *testing.T) {
	c := New(nil)
	// Must not panic.
	c.IncCounter("x", "", 1)
}
