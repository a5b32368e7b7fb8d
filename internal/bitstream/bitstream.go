// Package bitstream converts between single bits and byte-aligned data.
//
// The write side is a stateful Writer that accumulates bits until a full
// unit is available. The read side is stateless and addresses bits by an
// explicit offset into an immutable buffer, so callers can read from any
// position. Bits are always ordered most-significant first within a byte.
package bitstream

import (
	"errors"
	"fmt"
)

// ByteWidth is the default pack width of a Writer.
const ByteWidth = 8

// Sentinel errors for well-defined error conditions.
var (
	// ErrConfiguration indicates a Writer was constructed with an invalid width.
	ErrConfiguration = errors.New("bitstream: invalid buffer width")

	// ErrByteRange indicates a value outside 0-255 was passed to WriteOctet.
	ErrByteRange = errors.New("bitstream: byte value out of range")

	// ErrOutOfRange indicates a read past the end of the buffer.
	ErrOutOfRange = errors.New("bitstream: bit position out of range")
)

// Writer packs bits into bytes, most-significant bit first.
// A Writer is not safe for concurrent use.
type Writer struct {
	width int
	cur   byte
	n     int // pending bits in cur; always < width
}

// NewWriter returns a Writer that emits a byte every width bits.
// Widths below 8 leave the low bits of each emitted byte zero.
func NewWriter(width int) (*Writer, error) {
	if width <= 0 || width > ByteWidth {
		return nil, fmt.Errorf("%w: %d", ErrConfiguration, width)
	}
	return &Writer{width: width}, nil
}

// Width returns the number of bits packed into each emitted byte.
func (w *Writer) Width() int {
	return w.width
}

// Buffered returns the number of bits waiting for a full unit.
func (w *Writer) Buffered() int {
	return w.n
}

// Padding returns the number of zero bits Flush would append.
func (w *Writer) Padding() int {
	if w.n == 0 {
		return 0
	}
	return ByteWidth - w.n
}

// WriteBit appends one bit. When the buffer reaches the pack width the
// completed byte is returned with ok set; otherwise ok is false.
func (w *Writer) WriteBit(bit bool) (b byte, ok bool) {
	if bit {
		w.cur |= 1 << (ByteWidth - 1 - w.n)
	}
	w.n++
	if w.n == w.width {
		return w.take(), true
	}
	return 0, false
}

// WriteBits appends bits in order and returns every byte completed along the way.
func (w *Writer) WriteBits(bits []bool) []byte {
	var out []byte
	for _, bit := range bits {
		if b, ok := w.WriteBit(bit); ok {
			out = append(out, b)
		}
	}
	return out
}

// WriteOctet appends the eight bits of v. It fails with ErrByteRange if v
// does not fit in a byte.
func (w *Writer) WriteOctet(v int) ([]byte, error) {
	if v < 0 || v > 0xFF {
		return nil, fmt.Errorf("%w: %d", ErrByteRange, v)
	}
	var out []byte
	for i := ByteWidth - 1; i >= 0; i-- {
		if b, ok := w.WriteBit(v&(1<<i) != 0); ok {
			out = append(out, b)
		}
	}
	return out, nil
}

// WriteOctets appends every byte of data.
func (w *Writer) WriteOctets(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for _, v := range data {
		// A byte is always in range.
		b, _ := w.WriteOctet(int(v))
		out = append(out, b...)
	}
	return out
}

// Flush zero-pads any pending bits to a full byte and returns it.
// ok is false when there is nothing to flush.
func (w *Writer) Flush() (b byte, ok bool) {
	if w.n == 0 {
		return 0, false
	}
	return w.take(), true
}

func (w *Writer) take() byte {
	b := w.cur
	w.cur = 0
	w.n = 0
	return b
}

// ReadBit returns the bit at pos and the position that follows it.
func ReadBit(data []byte, pos int) (bool, int, error) {
	if pos < 0 || pos/ByteWidth >= len(data) {
		return false, pos, fmt.Errorf("%w: bit %d of %d bytes", ErrOutOfRange, pos, len(data))
	}
	b := data[pos/ByteWidth]
	return b&(1<<(ByteWidth-1-pos%ByteWidth)) != 0, pos + 1, nil
}

// ReadBits reads count bits starting at pos.
func ReadBits(data []byte, pos, count int) ([]bool, int, error) {
	bits := make([]bool, 0, count)
	for range count {
		bit, next, err := ReadBit(data, pos)
		if err != nil {
			return nil, pos, err
		}
		bits = append(bits, bit)
		pos = next
	}
	return bits, pos, nil
}

// ReadByte reads eight bits starting at pos and reassembles them into a byte.
func ReadByte(data []byte, pos int) (byte, int, error) {
	bits, next, err := ReadBits(data, pos, ByteWidth)
	if err != nil {
		return 0, pos, err
	}
	var v byte
	for i, bit := range bits {
		if bit {
			v |= 1 << (ByteWidth - 1 - i)
		}
	}
	return v, next, nil
}
