package reporting

import (
	"fmt"
	"io"

	"github.com/discochess/squeeze/benchmark/analysis"
	"github.com/discochess/squeeze/internal/progress"
)

// TextReport renders results as aligned plain text for terminals.
type TextReport struct {
	w io.Writer
}

// NewTextReport creates a new plain text report writer.
func NewTextReport(w io.Writer) *TextReport {
	return &TextReport{w: w}
}

// WriteInput writes a one-line description of the input.
func (r *TextReport) WriteInput(in Input) {
	fmt.Fprintf(r.w, "%s: %s, %d iterations\n\n", in.Name, progress.FormatBytes(in.Size), in.Iterations)
}

// WriteResults writes one line per result in the order given.
func (r *TextReport) WriteResults(results []*analysis.Result) {
	fmt.Fprintf(r.w, "%-4s %-8s %10s %7s %12s %12s  %s\n",
		"RANK", "ALGO", "SIZE", "RATIO", "COMPRESS", "DECOMPRESS", "ROUNDTRIP")
	for i, res := range results {
		fmt.Fprintf(r.w, "%-4d %-8s %10s %7.3f %12s %12s  %s\n",
			i+1, res.Algorithm, progress.FormatBytes(res.CompressedSize), res.Ratio,
			formatMicros(res.CompressStats().Median),
			formatMicros(res.DecompressStats().Median),
			roundTrip(res.RoundTripOK),
		)
	}
}

// WriteComparisons writes the summary line of each comparison.
func (r *TextReport) WriteComparisons(comps []*analysis.Comparison) {
	if len(comps) == 0 {
		return
	}
	fmt.Fprintln(r.w)
	for _, c := range comps {
		fmt.Fprintln(r.w, c.Summary())
	}
}
