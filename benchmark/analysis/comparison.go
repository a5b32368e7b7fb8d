package analysis

import (
	"fmt"

	"github.com/discochess/squeeze"
)

// Comparison is a statistical comparison of the compression times of two
// algorithms on the same input.
type Comparison struct {
	A, B        squeeze.Algorithm
	StatsA      *DescriptiveStats
	StatsB      *DescriptiveStats
	MannWhitney *MannWhitneyResult
	EffectSize  *EffectSize

	// Faster is the algorithm with the lower mean time, or "" for a tie.
	Faster squeeze.Algorithm

	// Confident is true if the difference is statistically significant.
	Confident bool
}

// Compare compares the compression times of a and b.
func Compare(a, b *Result) *Comparison {
	sa, sb := micros(a.CompressTimes), micros(b.CompressTimes)

	c := &Comparison{
		A:           a.Algorithm,
		B:           b.Algorithm,
		StatsA:      Describe(sa),
		StatsB:      Describe(sb),
		MannWhitney: MannWhitneyU(sa, sb),
		EffectSize:  ComputeEffectSize(sa, sb),
	}
	switch {
	case c.StatsA.Mean < c.StatsB.Mean:
		c.Faster = a.Algorithm
	case c.StatsB.Mean < c.StatsA.Mean:
		c.Faster = b.Algorithm
	}
	c.Confident = c.Faster != "" && c.MannWhitney.Significant
	return c
}

// CompareAll compares every result against baseline, skipping baseline itself.
func CompareAll(baseline *Result, results []*Result) []*Comparison {
	var out []*Comparison
	for _, r := range results {
		if r == baseline || r.Algorithm == baseline.Algorithm {
			continue
		}
		out = append(out, Compare(baseline, r))
	}
	return out
}

// Summary returns a human-readable summary of the comparison.
func (c *Comparison) Summary() string {
	verdict := "no significant difference"
	if c.Confident {
		verdict = fmt.Sprintf("%s is faster (p=%.4f, effect %s)", c.Faster, c.MannWhitney.PValue, c.EffectSize.Interpretation)
	}
	return fmt.Sprintf("%s vs %s: mean %.1fµs vs %.1fµs, %s",
		c.A, c.B, c.StatsA.Mean, c.StatsB.Mean, verdict)
}
