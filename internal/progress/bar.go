package progress

import (
	"fmt"
	"io"
	"strings"
)

// barWidth is the number of columns in a rendered bar.
const barWidth = 50

// Bar is a Sink that redraws a text progress bar on a terminal line.
type Bar struct {
	w     io.Writer
	label string
	done  bool
}

// Compile-time check that Bar implements Sink.
var _ Sink = (*Bar)(nil)

// NewBar returns a Bar writing to w, prefixed with label.
func NewBar(w io.Writer, label string) *Bar {
	return &Bar{w: w, label: label}
}

// OnProgress redraws the bar.
func (b *Bar) OnProgress(processed, total int64) {
	if b.done {
		return
	}
	pct := 100.0
	if total > 0 {
		pct = float64(processed) / float64(total) * 100
	}
	filled := int(barWidth * pct / 100)
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("=", filled) + strings.Repeat("-", barWidth-filled)
	fmt.Fprintf(b.w, "\r[%s] [%s] %5.1f%% %s", b.label, bar, pct, FormatBytes(processed))
	if processed >= total {
		fmt.Fprintln(b.w)
		b.done = true
	}
}
