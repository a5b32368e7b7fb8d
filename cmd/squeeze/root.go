package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/discochess/squeeze"
	"github.com/discochess/squeeze/internal/progress"
	promstats "github.com/discochess/squeeze/internal/stats/prometheus"
)

var (
	// Global flags.
	verbose    bool
	quiet      bool
	metricsOut string
	anonymous  bool
)

var (
	log      = zap.NewNop()
	registry = prometheus.NewRegistry()
	metrics  = promstats.New(registry)
)

var rootCmd = &cobra.Command{
	Use:   "squeeze",
	Short: "Lossless compression with Huffman, LZW and run-length coding",
	Long: `Squeeze compresses and decompresses files with Huffman, LZW and
run-length coding, and compares them against zstd, gzip and s2.

Inputs and outputs may be local paths, "-" for stdin/stdout,
s3://bucket/key, gs://bucket/key or (read-only) http(s):// URLs.

Examples:
  # Compress with automatic selection (RLE up to 1 MiB, LZW above)
  squeeze compress notes.txt

  # Compress with Huffman coding and restore
  squeeze compress -a huffman notes.txt
  squeeze decompress notes.txt.huf restored.txt

  # Compare every algorithm on a file
  squeeze compare --iterations 20 data.bin

  # Pack a directory tree and verify it
  squeeze pack ./docs -o ./docs.pack
  squeeze verify ./docs.pack`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		log = l
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		_ = log.Sync()
		if metricsOut == "" {
			return nil
		}
		if err := promstats.WriteTextfile(metricsOut, registry); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress and summaries")
	rootCmd.PersistentFlags().StringVar(&metricsOut, "metrics-out", "", "write Prometheus metrics to this file on exit")
	rootCmd.PersistentFlags().BoolVar(&anonymous, "anonymous", false, "access gs:// buckets without credentials")
}

// newLogger builds a development logger at debug level for --verbose and
// a console production logger at warn level otherwise.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.Encoding = "console"
	return cfg.Build()
}

// newEngine creates an engine reporting to the CLI's logger and metrics.
// sink may be nil.
func newEngine(sink progress.Sink) (*squeeze.Engine, error) {
	opts := []squeeze.Option{
		squeeze.WithLogger(log.Named("squeeze")),
		squeeze.WithStats(metrics),
	}
	if sink != nil {
		opts = append(opts, squeeze.WithProgress(sink))
	}
	engine, err := squeeze.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	return engine, nil
}

// progressSink returns the sink for a codec call over total bytes: a bar on
// stderr unless --quiet, plus tr when not nil.
func progressSink(cmd *cobra.Command, label string, tr *progress.Tracker) progress.Sink {
	var bar progress.Sink
	if !quiet {
		bar = progress.NewBar(cmd.ErrOrStderr(), label)
	}
	if tr == nil {
		return progress.Tee(bar)
	}
	return progress.Tee(bar, tr)
}

// newTracker returns a tracker for total bytes, or nil for empty input.
func newTracker(total int64) *progress.Tracker {
	if total <= 0 {
		return nil
	}
	tr, err := progress.NewTracker(total, nil)
	if err != nil {
		return nil
	}
	return tr
}

// printf writes a summary line to stderr unless --quiet.
func printf(cmd *cobra.Command, format string, args ...any) {
	if quiet {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), format, args...)
}
