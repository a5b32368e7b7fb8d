// Package s2codec provides an S2 (Snappy-compatible) block codec.
package s2codec

import (
	"fmt"

	"github.com/klauspost/compress/s2"

	"github.com/discochess/squeeze/internal/codec"
	"github.com/discochess/squeeze/internal/progress"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec implements S2 block compression.
type Codec struct{}

// New returns a new S2 codec.
func New() *Codec {
	return &Codec{}
}

// Name returns "s2".
func (c *Codec) Name() string {
	return "s2"
}

// Extension returns "s2".
func (c *Codec) Extension() string {
	return "s2"
}

// Compress encodes src as one S2 block.
func (c *Codec) Compress(src []byte, rep *progress.Reporter) ([]byte, error) {
	out := s2.EncodeBetter(nil, src)
	rep.Add(int64(len(src)))
	return out, nil
}

// Decompress decodes one S2 block.
func (c *Codec) Decompress(src []byte, rep *progress.Reporter) ([]byte, error) {
	out, err := s2.Decode(nil, src)
	if err != nil {
		return nil, fmt.Errorf("s2: decode: %w", err)
	}
	rep.Add(int64(len(src)))
	return out, nil
}
