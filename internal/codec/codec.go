// Package codec defines the capability shared by every compression algorithm.
package codec

import (
	"errors"

	"github.com/discochess/squeeze/internal/progress"
)

// ErrMalformed is wrapped by every codec error for a container whose layout
// does not match its header.
var ErrMalformed = errors.New("malformed container")

// Codec compresses and decompresses complete buffers.
// Each call is independent: implementations keep no state between calls,
// so a single Codec may be shared by concurrent callers.
type Codec interface {
	// Name returns the algorithm name (e.g., "huffman", "lzw").
	Name() string

	// Extension returns the file extension without dot (e.g., "huf", "lzw").
	Extension() string

	// Compress encodes src. Progress is reported in input bytes.
	// The reporter may be nil.
	Compress(src []byte, rep *progress.Reporter) ([]byte, error)

	// Decompress decodes src. Progress is reported in input bytes.
	// The reporter may be nil.
	Decompress(src []byte, rep *progress.Reporter) ([]byte, error)
}
