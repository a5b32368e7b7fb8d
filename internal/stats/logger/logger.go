// Package logger provides a stats collector that writes each metric update
// as a zap debug entry.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/discochess/squeeze/internal/stats"
)

// Collector implements stats.Collector on top of a zap logger.
// Entries are only built when debug logging is enabled.
type Collector struct {
	logger *zap.Logger
}

var _ stats.Collector = (*Collector)(nil)

// New returns a Collector writing to logger, or discarding everything when
// logger is nil.
func New(logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{logger: logger}
}

func (c *Collector) IncCounter(name, algorithm string, delta int64) {
	c.write("counter", name, algorithm, zap.Int64("delta", delta))
}

func (c *Collector) SetGauge(name, algorithm string, value int64) {
	c.write("gauge", name, algorithm, zap.Int64("value", value))
}

func (c *Collector) ObserveHistogram(name, algorithm string, value float64) {
	c.write("histogram", name, algorithm, zap.Float64("value", value))
}

// write logs one update. Cache metrics carry no algorithm, so the field is
// left out rather than logged empty.
func (c *Collector) write(kind, name, algorithm string, value zapcore.Field) {
	ce := c.logger.Check(zap.DebugLevel, kind)
	if ce == nil {
		return
	}
	fields := make([]zapcore.Field, 0, 3)
	fields = append(fields, zap.String("metric", name))
	if algorithm != "" {
		fields = append(fields, zap.String("algorithm", algorithm))
	}
	ce.Write(append(fields, value)...)
}
