// Package zstdcodec provides a zstd compression codec.
package zstdcodec

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/discochess/squeeze/internal/codec"
	"github.com/discochess/squeeze/internal/progress"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec implements zstd compression.
type Codec struct{}

// New returns a new zstd codec.
func New() *Codec {
	return &Codec{}
}

// Name returns "zstd".
func (c *Codec) Name() string {
	return "zstd"
}

// Extension returns "zst".
func (c *Codec) Extension() string {
	return "zst"
}

// Compress encodes src as a single zstd frame.
func (c *Codec) Compress(src []byte, rep *progress.Reporter) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1), zstd.WithZeroFrames(true))
	if err != nil {
		return nil, fmt.Errorf("zstd: create encoder: %w", err)
	}
	defer enc.Close()

	out := enc.EncodeAll(src, make([]byte, 0, len(src)/2))
	rep.Add(int64(len(src)))
	return out, nil
}

// Decompress decodes zstd frames.
func (c *Codec) Decompress(src []byte, rep *progress.Reporter) ([]byte, error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("zstd: create decoder: %w", err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(src, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: decode: %w", err)
	}
	rep.Add(int64(len(src)))
	return out, nil
}
