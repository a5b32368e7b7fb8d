package squeeze

import (
	"testing"
	"time"
)

func TestStats_Ratios(t *testing.T) {
	tests := []struct {
		name        string
		st          Stats
		wantRatio   float64
		wantSavings float64
	}{
		{"empty", Stats{}, 0, 0},
		{"halved", Stats{OriginalSize: 100, EncodedSize: 50}, 0.5, 50},
		{"expanded", Stats{OriginalSize: 10, EncodedSize: 15}, 1.5, -50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.st.Ratio(); got != tt.wantRatio {
				t.Errorf("Ratio() = %v, want %v", got, tt.wantRatio)
			}
			if got := tt.st.SpaceSavings(); got != tt.wantSavings {
				t.Errorf("SpaceSavings() = %v, want %v", got, tt.wantSavings)
			}
		})
	}
}

func TestStats_Throughput(t *testing.T) {
	st := Stats{OriginalSize: 2000, Elapsed: 2 * time.Second}
	if got := st.Throughput(); got != 1000 {
		t.Errorf("Throughput() = %v, want 1000", got)
	}
	if got := (&Stats{OriginalSize: 5}).Throughput(); got != 0 {
		t.Errorf("Throughput() with zero elapsed = %v, want 0", got)
	}
}
