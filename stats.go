package squeeze

import "time"

// Operation is the direction of a codec call.
type Operation string

// Operations.
const (
	OpCompress   Operation = "compress"
	OpDecompress Operation = "decompress"
)

// Stats describes one completed codec call.
type Stats struct {
	Algorithm Algorithm
	Operation Operation

	// OriginalSize is the size of the uncompressed data: the input of a
	// compression or the output of a decompression.
	OriginalSize int64

	// EncodedSize is the size of the compressed data.
	EncodedSize int64

	Elapsed time.Duration
}

// Ratio returns EncodedSize / OriginalSize, or 0 for empty data.
func (s *Stats) Ratio() float64 {
	if s.OriginalSize == 0 {
		return 0
	}
	return float64(s.EncodedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the percentage of the original size saved. It is
// negative when the encoding is larger than the original.
func (s *Stats) SpaceSavings() float64 {
	if s.OriginalSize == 0 {
		return 0
	}
	return (1 - s.Ratio()) * 100
}

// Throughput returns uncompressed bytes per second.
func (s *Stats) Throughput() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.OriginalSize) / s.Elapsed.Seconds()
}
