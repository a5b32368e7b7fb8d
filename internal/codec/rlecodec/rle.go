// Package rlecodec implements byte-oriented run-length coding.
//
// A compressed buffer is an 8-byte big-endian original size followed by
// (run, value) byte pairs with runs of 1 to 255.
package rlecodec

import (
	"encoding/binary"
	"fmt"

	"github.com/discochess/squeeze/internal/codec"
	"github.com/discochess/squeeze/internal/progress"
)

// ErrMalformed indicates a buffer that is not a valid run-length encoding.
var ErrMalformed = fmt.Errorf("rle: %w", codec.ErrMalformed)

const (
	headerSize = 8
	maxRun     = 255
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec is the run-length codec.
type Codec struct{}

// New returns a run-length codec.
func New() *Codec {
	return &Codec{}
}

// Name returns "rle".
func (c *Codec) Name() string {
	return "rle"
}

// Extension returns "rle".
func (c *Codec) Extension() string {
	return "rle"
}

// Compress encodes src. Empty input yields a zero size header.
func (c *Codec) Compress(src []byte, rep *progress.Reporter) ([]byte, error) {
	out := make([]byte, headerSize, headerSize+len(src)/2)
	binary.BigEndian.PutUint64(out, uint64(len(src)))

	for i := 0; i < len(src); {
		v := src[i]
		run := 1
		for i+run < len(src) && src[i+run] == v && run < maxRun {
			run++
		}
		out = append(out, byte(run), v)
		i += run
		rep.Add(int64(run))
	}
	return out, nil
}

// Decompress decodes src. The body must hold exactly the runs needed to
// rebuild the recorded size.
func (c *Codec) Decompress(src []byte, rep *progress.Reporter) ([]byte, error) {
	if len(src) < headerSize {
		return nil, fmt.Errorf("%w: header needs %d bytes, have %d", ErrMalformed, headerSize, len(src))
	}
	size := binary.BigEndian.Uint64(src)
	body := src[headerSize:]
	rep.Add(headerSize)

	out := make([]byte, 0, min(size, uint64(len(body)/2)*maxRun))
	pos := 0
	for uint64(len(out)) < size {
		if pos+2 > len(body) {
			return nil, fmt.Errorf("%w: body ends after %d of %d bytes", ErrMalformed, len(out), size)
		}
		run, v := int(body[pos]), body[pos+1]
		pos += 2
		if run == 0 {
			return nil, fmt.Errorf("%w: zero run at byte %d", ErrMalformed, headerSize+pos-2)
		}
		if uint64(len(out)+run) > size {
			return nil, fmt.Errorf("%w: run overshoots size %d", ErrMalformed, size)
		}
		for range run {
			out = append(out, v)
		}
		rep.Add(2)
	}
	if pos != len(body) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformed, len(body)-pos)
	}
	return out, nil
}

// Header summarizes an encoded buffer without decoding it.
type Header struct {
	OriginalSize uint64
	Runs         int
}

// Inspect reads the header of an encoded buffer.
func Inspect(data []byte) (*Header, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: header needs %d bytes, have %d", ErrMalformed, headerSize, len(data))
	}
	body := len(data) - headerSize
	if body%2 != 0 {
		return nil, fmt.Errorf("%w: odd body length %d", ErrMalformed, body)
	}
	return &Header{
		OriginalSize: binary.BigEndian.Uint64(data),
		Runs:         body / 2,
	}, nil
}
