// Package squeezefx provides an fx module for a squeeze Engine and a Batch
// built on it.
package squeezefx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/squeeze"
	"github.com/discochess/squeeze/internal/batch"
	"github.com/discochess/squeeze/internal/stats"
	"github.com/discochess/squeeze/internal/stats/logger"
)

// Config holds configuration for the engine.
type Config struct {
	// SizeThreshold is the input size above which automatic selection
	// switches to LargeAlgorithm. Zero means squeeze.DefaultSizeThreshold.
	SizeThreshold int64

	// SmallAlgorithm and LargeAlgorithm override the automatic selection
	// defaults when set.
	SmallAlgorithm string
	LargeAlgorithm string

	// Workers is the batch concurrency. Zero means GOMAXPROCS.
	Workers int
}

// Module provides a *squeeze.Engine and a *batch.Batch.
// Requires a Config and a *zap.Logger to be provided.
var Module = fx.Module("squeeze",
	fx.Provide(
		newStatsCollector,
		newEngine,
		newBatch,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("squeeze.stats"))
}

// Params holds dependencies for creating the engine.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

func newEngine(p Params) (*squeeze.Engine, error) {
	opts := []squeeze.Option{
		squeeze.WithStats(p.Collector),
		squeeze.WithLogger(p.Logger.Named("squeeze")),
	}
	if p.Config.SizeThreshold > 0 {
		opts = append(opts, squeeze.WithSizeThreshold(p.Config.SizeThreshold))
	}
	if p.Config.SmallAlgorithm != "" || p.Config.LargeAlgorithm != "" {
		small, large := squeeze.RLE, squeeze.LZW
		if p.Config.SmallAlgorithm != "" {
			small = squeeze.Algorithm(p.Config.SmallAlgorithm)
		}
		if p.Config.LargeAlgorithm != "" {
			large = squeeze.Algorithm(p.Config.LargeAlgorithm)
		}
		opts = append(opts, squeeze.WithDefaultAlgorithms(small, large))
	}

	engine, err := squeeze.New(opts...)
	if err != nil {
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return engine.Close()
		},
	})
	return engine, nil
}

func newBatch(cfg Config, engine *squeeze.Engine, log *zap.Logger) *batch.Batch {
	return batch.New(engine,
		batch.WithWorkers(cfg.Workers),
		batch.WithLogger(log.Named("squeeze.batch")),
	)
}
