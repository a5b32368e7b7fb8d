// Package lzwcodec implements fixed-width 16-bit LZW coding.
//
// A compressed buffer is laid out as
//
//	count:u32_be | code:u16_be * count
//
// The dictionary starts with the 256 single-byte phrases and grows by one
// phrase per emitted code until it holds MaxDictSize entries, after which it
// is frozen. It is never transmitted; the decoder rebuilds it.
package lzwcodec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/discochess/squeeze/internal/codec"
	"github.com/discochess/squeeze/internal/progress"
)

// MaxDictSize is the number of distinct 16-bit codes.
const MaxDictSize = 1 << 16

const (
	alphabetSize = 256
	headerSize   = 4
	codeSize     = 2
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrInvalidCode indicates a code that is neither assigned nor the next
	// code to be assigned at its position.
	ErrInvalidCode = errors.New("lzw: invalid code")

	// ErrMalformed indicates a container whose length does not match its header.
	ErrMalformed = fmt.Errorf("lzw: %w", codec.ErrMalformed)
)

// Codec is the LZW codec. The zero value is ready to use.
type Codec struct{}

// New returns an LZW codec.
func New() *Codec {
	return &Codec{}
}

// Name returns "lzw".
func (c *Codec) Name() string {
	return "lzw"
}

// Extension returns "lzw".
func (c *Codec) Extension() string {
	return "lzw"
}

// Compress encodes src. Empty input yields a header with a zero count.
func (c *Codec) Compress(src []byte, rep *progress.Reporter) ([]byte, error) {
	codes, _ := encode(src, rep)
	if uint64(len(codes)) > math.MaxUint32 {
		return nil, fmt.Errorf("lzw: %d codes exceed the container limit", len(codes))
	}

	out := make([]byte, headerSize+codeSize*len(codes))
	binary.BigEndian.PutUint32(out, uint32(len(codes)))
	for i, code := range codes {
		binary.BigEndian.PutUint16(out[headerSize+codeSize*i:], code)
	}
	return out, nil
}

// Decompress decodes a buffer produced by Compress. Both an empty buffer and
// a zero-count header decode to empty output.
func (c *Codec) Decompress(src []byte, rep *progress.Reporter) ([]byte, error) {
	if len(src) == 0 {
		return []byte{}, nil
	}
	codes, err := parseContainer(src)
	if err != nil {
		return nil, err
	}
	rep.Add(headerSize)
	return decode(codes, rep)
}

// Encode returns the code sequence for src and the number of dictionary
// entries defined once encoding finished.
func Encode(src []byte) (codes []uint16, dictSize int) {
	return encode(src, nil)
}

// Decode rebuilds the bytes a code sequence was produced from.
func Decode(codes []uint16) ([]byte, error) {
	return decode(codes, nil)
}

func encode(src []byte, rep *progress.Reporter) ([]uint16, int) {
	if len(src) == 0 {
		return nil, alphabetSize
	}

	// Phrases beyond the alphabet, keyed by prefix code and next byte.
	trie := make(map[uint32]uint16)
	next := alphabetSize
	codes := make([]uint16, 0, len(src)/2+1)

	phrase := uint16(src[0])
	rep.Add(1)
	for _, b := range src[1:] {
		rep.Add(1)
		key := uint32(phrase)<<8 | uint32(b)
		if code, ok := trie[key]; ok {
			phrase = code
			continue
		}
		codes = append(codes, phrase)
		if next < MaxDictSize {
			trie[key] = uint16(next)
			next++
		}
		phrase = uint16(b)
	}
	codes = append(codes, phrase)
	return codes, next
}

// phrase is a window into the decoder output.
type phrase struct {
	off int
	n   int
}

func decode(codes []uint16, rep *progress.Reporter) ([]byte, error) {
	out := make([]byte, 0, 2*len(codes))
	if len(codes) == 0 {
		return out, nil
	}
	if codes[0] >= alphabetSize {
		return nil, fmt.Errorf("%w: first code %d is not a single byte", ErrInvalidCode, codes[0])
	}

	dict := make([]phrase, 0, 1024)
	next := alphabetSize

	out = append(out, byte(codes[0]))
	rep.Add(codeSize)
	prev := phrase{off: 0, n: 1}

	for i, code := range codes[1:] {
		start := len(out)
		switch c := int(code); {
		case c < alphabetSize:
			out = append(out, byte(c))
		case c < next:
			p := dict[c-alphabetSize]
			out = append(out, out[p.off:p.off+p.n]...)
		case c == next:
			out = append(out, out[prev.off:prev.off+prev.n]...)
			out = append(out, out[prev.off])
		default:
			return nil, fmt.Errorf("%w: code %d at index %d, next assignable is %d", ErrInvalidCode, c, i+1, next)
		}

		// The previous phrase followed by the first byte of this one sits
		// contiguously in out.
		if next < MaxDictSize {
			dict = append(dict, phrase{off: prev.off, n: prev.n + 1})
			next++
		}
		prev = phrase{off: start, n: len(out) - start}
		rep.Add(codeSize)
	}
	return out, nil
}

func parseContainer(src []byte) ([]uint16, error) {
	if len(src) < headerSize {
		return nil, fmt.Errorf("%w: header needs %d bytes, have %d", ErrMalformed, headerSize, len(src))
	}
	count := uint64(binary.BigEndian.Uint32(src))
	body := src[headerSize:]
	if uint64(len(body)) != codeSize*count {
		return nil, fmt.Errorf("%w: %d codes need %d bytes, have %d", ErrMalformed, count, codeSize*count, len(body))
	}

	codes := make([]uint16, count)
	for i := range codes {
		codes[i] = binary.BigEndian.Uint16(body[codeSize*i:])
	}
	return codes, nil
}

// Header describes a compressed buffer without decoding it.
type Header struct {
	Count   int
	MaxCode uint16
	// DictSize is the dictionary size the decoder will reach.
	DictSize int
}

// Inspect parses the container header of data and scans its codes.
func Inspect(data []byte) (*Header, error) {
	if len(data) == 0 {
		return &Header{DictSize: alphabetSize}, nil
	}
	codes, err := parseContainer(data)
	if err != nil {
		return nil, err
	}
	h := &Header{Count: len(codes), DictSize: alphabetSize}
	for _, code := range codes {
		h.MaxCode = max(h.MaxCode, code)
	}
	if len(codes) > 0 {
		h.DictSize = min(alphabetSize+len(codes)-1, MaxDictSize)
	}
	return h, nil
}

var _ codec.Codec = (*Codec)(nil)
