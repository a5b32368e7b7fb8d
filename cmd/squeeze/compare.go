package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/discochess/squeeze"
	"github.com/discochess/squeeze/benchmark/analysis"
	"github.com/discochess/squeeze/benchmark/reporting"
	"github.com/discochess/squeeze/internal/fileio"
	"github.com/discochess/squeeze/internal/store/cachedstore"
	"github.com/discochess/squeeze/internal/store/cachedstore/cachestrategy/lru"
	"github.com/discochess/squeeze/internal/store/cachedstore/memory"
)

var compareCmd = &cobra.Command{
	Use:   "compare IN",
	Short: "Compare compression ratio and speed of every algorithm",
	Long: `Compress and decompress IN repeatedly with each algorithm and report
the compressed size, ratio and timing distribution, ranked by ratio.

Examples:
  squeeze compare data.bin
  squeeze compare --algorithms huffman,lzw,zstd --iterations 50 data.bin
  squeeze compare --format markdown --output report.md data.bin`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

var (
	compareAlgorithms []string
	compareIterations int
	compareFormat     string
	compareOutput     string
	compareBaseline   string
)

func init() {
	compareCmd.Flags().StringSliceVar(&compareAlgorithms, "algorithms", nil, "algorithms to compare (default: all)")
	compareCmd.Flags().IntVarP(&compareIterations, "iterations", "n", 10, "runs per algorithm")
	compareCmd.Flags().StringVar(&compareFormat, "format", "text", "report format: text, markdown")
	compareCmd.Flags().StringVarP(&compareOutput, "output", "o", "", "write the report to this file instead of stdout")
	compareCmd.Flags().StringVar(&compareBaseline, "baseline", "", "algorithm other timings are compared against (default: best ranked)")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if compareFormat != "text" && compareFormat != "markdown" {
		return fmt.Errorf("unknown format %q: want text or markdown", compareFormat)
	}

	loc := parseLocation(args[0])
	if loc.kind == kindStdio {
		return fmt.Errorf("compare needs a file or object, not stdin")
	}
	base, key, err := loc.object(ctx, nil)
	if err != nil {
		return err
	}
	strategy, err := lru.New(1)
	if err != nil {
		return err
	}
	cache := memory.New(strategy, metrics)
	input := cachedstore.New(base, cache)
	defer input.Close()

	engine, err := newEngine(nil)
	if err != nil {
		return err
	}
	defer engine.Close()

	algos, err := compareAlgorithmList(engine)
	if err != nil {
		return err
	}

	var (
		results []*analysis.Result
		size    int64
	)
	for _, algo := range algos {
		// Every algorithm reads the input again; the cache serves all but
		// the first read.
		data, err := input.ReadObject(ctx, key)
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		size = int64(len(data))

		r, err := analysis.Measure(ctx, engine, algo, data, compareIterations)
		if err != nil {
			return fmt.Errorf("measuring %s: %w", algo, err)
		}
		log.Debug("measured",
			zap.String("algorithm", string(r.Algorithm)),
			zap.Float64("ratio", r.Ratio),
			zap.Bool("roundTripOK", r.RoundTripOK),
		)
		results = append(results, r)
	}
	analysis.Rank(results)

	cs := input.Stats()
	log.Debug("input cache",
		zap.Int64("hits", cs.Hits),
		zap.Int64("misses", cs.Misses),
		zap.Int64("bytes", cs.Bytes),
		zap.Float64("hitRate", cs.HitRate()),
	)

	var comps []*analysis.Comparison
	if baseline := findBaseline(results); baseline != nil {
		comps = analysis.CompareAll(baseline, results)
	}

	var buf bytes.Buffer
	in := reporting.Input{Name: args[0], Size: size, Iterations: compareIterations}
	if compareFormat == "markdown" {
		writeMarkdown(&buf, in, results, comps)
	} else {
		r := reporting.NewTextReport(&buf)
		r.WriteInput(in)
		r.WriteResults(results)
		r.WriteComparisons(comps)
	}

	if compareOutput == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	return fileio.WriteFileAtomic(compareOutput, buf.Bytes(), 0o644)
}

func compareAlgorithmList(engine *squeeze.Engine) ([]squeeze.Algorithm, error) {
	if len(compareAlgorithms) == 0 {
		return engine.Algorithms(), nil
	}
	algos := make([]squeeze.Algorithm, 0, len(compareAlgorithms))
	for _, name := range compareAlgorithms {
		algo, err := squeeze.ParseAlgorithm(name)
		if err != nil {
			return nil, err
		}
		if algo == squeeze.Auto {
			return nil, fmt.Errorf("%w: compare needs explicit algorithms", squeeze.ErrUnknownAlgorithm)
		}
		algos = append(algos, algo)
	}
	return algos, nil
}

// findBaseline returns the --baseline result, or the best ranked one.
func findBaseline(results []*analysis.Result) *analysis.Result {
	if len(results) == 0 {
		return nil
	}
	if compareBaseline == "" {
		return results[0]
	}
	for _, r := range results {
		if string(r.Algorithm) == compareBaseline {
			return r
		}
	}
	return nil
}

func writeMarkdown(w io.Writer, in reporting.Input, results []*analysis.Result, comps []*analysis.Comparison) {
	r := reporting.NewMarkdownReport(w)
	r.WriteHeader("Codec comparison")
	r.WriteInput(in)
	r.WriteResults(results)
	for _, c := range comps {
		r.WriteComparison(c)
	}
	for _, res := range results {
		r.WriteDistributionChart(res)
	}
	r.WriteFooter()
}
