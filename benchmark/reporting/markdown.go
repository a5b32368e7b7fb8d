// Package reporting renders codec comparison results.
package reporting

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/discochess/squeeze/benchmark/analysis"
	"github.com/discochess/squeeze/internal/progress"
)

// Input describes the data a comparison was run on.
type Input struct {
	Name       string
	Size       int64
	Iterations int
}

// MarkdownReport generates comparison reports in Markdown format.
type MarkdownReport struct {
	w   io.Writer
	now func() time.Time
}

// NewMarkdownReport creates a new Markdown report writer.
func NewMarkdownReport(w io.Writer) *MarkdownReport {
	return &MarkdownReport{w: w, now: time.Now}
}

// WriteHeader writes the report header.
func (r *MarkdownReport) WriteHeader(title string) {
	fmt.Fprintf(r.w, "# %s\n\n", title)
	fmt.Fprintf(r.w, "Generated: %s\n\n", r.now().Format(time.RFC3339))
}

// WriteInput writes the input section.
func (r *MarkdownReport) WriteInput(in Input) {
	fmt.Fprintln(r.w, "## Input")
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "- **File:** %s\n", in.Name)
	fmt.Fprintf(r.w, "- **Size:** %s\n", progress.FormatBytes(in.Size))
	fmt.Fprintf(r.w, "- **Iterations:** %d\n", in.Iterations)
	fmt.Fprintln(r.w)
}

// WriteResults writes the ranked results table. Results are written in the
// order given.
func (r *MarkdownReport) WriteResults(results []*analysis.Result) {
	fmt.Fprintln(r.w, "## Results")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "| Rank | Algorithm | Size | Ratio | Compress (median) | Decompress (median) | Round trip |")
	fmt.Fprintln(r.w, "|------|-----------|------|-------|-------------------|---------------------|------------|")

	for i, res := range results {
		fmt.Fprintf(r.w, "| %d | %s | %s | %.3f | %s | %s | %s |\n",
			i+1, res.Algorithm, progress.FormatBytes(res.CompressedSize), res.Ratio,
			formatMicros(res.CompressStats().Median),
			formatMicros(res.DecompressStats().Median),
			roundTrip(res.RoundTripOK),
		)
	}
	fmt.Fprintln(r.w)
}

// WriteComparison writes a detailed timing comparison section.
func (r *MarkdownReport) WriteComparison(c *analysis.Comparison) {
	a, b := string(c.A), string(c.B)
	fmt.Fprintf(r.w, "## %s vs %s\n\n", a, b)

	fmt.Fprintln(r.w, "| Compress time | "+a+" | "+b+" |")
	fmt.Fprintln(r.w, "|---------------|"+strings.Repeat("-", len(a)+2)+"|"+strings.Repeat("-", len(b)+2)+"|")
	fmt.Fprintf(r.w, "| Mean | %s | %s |\n", formatMicros(c.StatsA.Mean), formatMicros(c.StatsB.Mean))
	fmt.Fprintf(r.w, "| Median | %s | %s |\n", formatMicros(c.StatsA.Median), formatMicros(c.StatsB.Median))
	fmt.Fprintf(r.w, "| Std Dev | %s | %s |\n", formatMicros(c.StatsA.StdDev), formatMicros(c.StatsB.StdDev))
	fmt.Fprintf(r.w, "| P25 | %s | %s |\n", formatMicros(c.StatsA.P25), formatMicros(c.StatsB.P25))
	fmt.Fprintf(r.w, "| P75 | %s | %s |\n", formatMicros(c.StatsA.P75), formatMicros(c.StatsB.P75))
	fmt.Fprintln(r.w)

	fmt.Fprintf(r.w, "- **Mann-Whitney U:** %.2f (z=%.2f, p=%.4f)\n",
		c.MannWhitney.U, c.MannWhitney.Z, c.MannWhitney.PValue)
	fmt.Fprintf(r.w, "- **Effect size (Cohen's d):** %.2f (%s)\n",
		c.EffectSize.CohensD, c.EffectSize.Interpretation)
	if c.Confident {
		fmt.Fprintf(r.w, "- **Conclusion:** %s is faster (p < 0.05).\n", c.Faster)
	} else {
		fmt.Fprintln(r.w, "- **Conclusion:** no statistically significant difference (p >= 0.05).")
	}
	fmt.Fprintln(r.w)
}

// WriteDistributionChart writes an ASCII histogram of compression times.
func (r *MarkdownReport) WriteDistributionChart(res *analysis.Result) {
	fmt.Fprintf(r.w, "### %s compress time distribution\n\n", res.Algorithm)
	fmt.Fprintln(r.w, "```")

	lo, hi, hist := histogram(res.CompressTimes, 10)
	maxCount := 0
	for _, n := range hist {
		maxCount = max(maxCount, n)
	}

	const width = 40
	step := (hi - lo) / time.Duration(len(hist))
	for i, n := range hist {
		barLen := 0
		if maxCount > 0 {
			barLen = n * width / maxCount
		}
		fmt.Fprintf(r.w, "%10s │ %s %d\n",
			(lo + time.Duration(i)*step).Round(time.Microsecond), strings.Repeat("█", barLen), n)
	}

	fmt.Fprintln(r.w, "```")
	fmt.Fprintln(r.w)
}

// histogram buckets ds into n equal-width buckets and returns the covered range.
func histogram(ds []time.Duration, n int) (lo, hi time.Duration, hist []int) {
	hist = make([]int, n)
	if len(ds) == 0 {
		return 0, 0, hist
	}

	lo, hi = ds[0], ds[0]
	for _, d := range ds {
		lo = min(lo, d)
		hi = max(hi, d)
	}
	if hi == lo {
		hi = lo + 1
	}

	span := float64(hi - lo)
	for _, d := range ds {
		b := int(float64(d-lo) / span * float64(n))
		hist[min(b, n-1)]++
	}
	return lo, hi, hist
}

// WriteFooter writes the report footer.
func (r *MarkdownReport) WriteFooter() {
	fmt.Fprintln(r.w, "---")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "*Report generated by squeeze compare*")
}

func formatMicros(us float64) string {
	return time.Duration(us * float64(time.Microsecond)).Round(time.Microsecond).String()
}

func roundTrip(ok bool) string {
	if ok {
		return "ok"
	}
	return "FAILED"
}
