// Package noopcodec provides a codec that stores data unchanged.
package noopcodec

import (
	"github.com/discochess/squeeze/internal/codec"
	"github.com/discochess/squeeze/internal/progress"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec stores data without compression.
type Codec struct{}

// New returns a new no-op codec.
func New() *Codec {
	return &Codec{}
}

// Name returns "store".
func (c *Codec) Name() string {
	return "store"
}

// Extension returns "raw".
func (c *Codec) Extension() string {
	return "raw"
}

// Compress returns a copy of src.
func (c *Codec) Compress(src []byte, rep *progress.Reporter) ([]byte, error) {
	return c.clone(src, rep), nil
}

// Decompress returns a copy of src.
func (c *Codec) Decompress(src []byte, rep *progress.Reporter) ([]byte, error) {
	return c.clone(src, rep), nil
}

func (c *Codec) clone(src []byte, rep *progress.Reporter) []byte {
	out := make([]byte, len(src))
	copy(out, src)
	rep.Add(int64(len(src)))
	return out
}
