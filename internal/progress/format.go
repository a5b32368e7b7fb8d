package progress

import (
	"fmt"
	"time"
)

// FormatBytes renders n in binary units: "512 B", "1.5 KB", "3.0 MB".
func FormatBytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	v := float64(n)
	unit := 0
	for v >= 1024*1024 && unit < len("KMGTP")-1 {
		v /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %cB", v/1024, "KMGTPE"[unit])
}

// FormatDuration renders d at a resolution that suits a progress line.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.0fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

// FormatRatio renders encoded/original to three decimals, or "n/a" when
// original is zero.
func FormatRatio(encoded, original int64) string {
	if original == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", float64(encoded)/float64(original))
}
