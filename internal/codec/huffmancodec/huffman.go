// Package huffmancodec implements byte-frequency Huffman coding.
//
// A compressed buffer is laid out as
//
//	tree_len:u32_be | tree | padding:u8 | packed code bits
//
// where tree is the preorder serialization of the code tree and padding is
// the number of zero bits appended to complete the last byte. Each call is
// independent; the tree travels with the data.
package huffmancodec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/discochess/squeeze/internal/bitstream"
	"github.com/discochess/squeeze/internal/codec"
	"github.com/discochess/squeeze/internal/progress"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrInvalidTreeData indicates the container header or serialized tree is malformed.
	ErrInvalidTreeData = errors.New("huffman: invalid tree data")

	// ErrCorruptStream indicates the padding byte or packed code bits are malformed.
	ErrCorruptStream = errors.New("huffman: corrupt code stream")
)

const headerSize = 4

// Codec is the Huffman codec. The zero value is ready to use.
type Codec struct{}

// New returns a Huffman codec.
func New() *Codec {
	return &Codec{}
}

// Name returns "huffman".
func (c *Codec) Name() string {
	return "huffman"
}

// Extension returns "huf".
func (c *Codec) Extension() string {
	return "huf"
}

// Compress encodes src. Empty input yields empty output.
func (c *Codec) Compress(src []byte, rep *progress.Reporter) ([]byte, error) {
	if len(src) == 0 {
		return []byte{}, nil
	}

	freqs := Histogram(src)
	root := TreeFromHistogram(freqs)
	table := NewCodeTable(root)
	tree := Serialize(root)

	w, err := bitstream.NewWriter(bitstream.ByteWidth)
	if err != nil {
		return nil, err
	}

	nbits := table.EncodedBits(freqs)
	out := make([]byte, headerSize+len(tree)+1, headerSize+len(tree)+1+int((nbits+7)/8))
	binary.BigEndian.PutUint32(out, uint32(len(tree)))
	copy(out[headerSize:], tree)
	padIndex := headerSize + len(tree)

	for _, sym := range src {
		for _, bit := range table.codes[sym] {
			if b, ok := w.WriteBit(bit); ok {
				out = append(out, b)
			}
		}
		rep.Add(1)
	}

	out[padIndex] = byte(w.Padding())
	if b, ok := w.Flush(); ok {
		out = append(out, b)
	}
	return out, nil
}

// Decompress decodes a buffer produced by Compress. Empty input yields empty
// output.
func (c *Codec) Decompress(src []byte, rep *progress.Reporter) ([]byte, error) {
	if len(src) == 0 {
		return []byte{}, nil
	}

	ct, err := parseContainer(src)
	if err != nil {
		return nil, err
	}
	rep.Add(int64(len(src) - len(ct.packed)))

	nbits := len(ct.packed)*bitstream.ByteWidth - ct.padding
	out := make([]byte, 0, 2*len(ct.packed))
	node := ct.root
	for pos := 0; pos < nbits; {
		var bit bool
		bit, pos, err = bitstream.ReadBit(ct.packed, pos)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptStream, err)
		}
		if pos%bitstream.ByteWidth == 0 {
			rep.Add(1)
		}

		if ct.root.IsLeaf() {
			if bit {
				return nil, fmt.Errorf("%w: code bit 1 at position %d in single-symbol stream", ErrCorruptStream, pos-1)
			}
			out = append(out, ct.root.Symbol)
			continue
		}

		if bit {
			node = node.Right
		} else {
			node = node.Left
		}
		if node.IsLeaf() {
			out = append(out, node.Symbol)
			node = ct.root
		}
	}

	if node != ct.root {
		return nil, fmt.Errorf("%w: stream ends inside a code word", ErrCorruptStream)
	}
	if ct.padding > 0 {
		rep.Add(1)
	}
	return out, nil
}

type container struct {
	treeLen int
	root    *Node
	padding int
	packed  []byte
}

func parseContainer(src []byte) (*container, error) {
	if len(src) < headerSize {
		return nil, fmt.Errorf("%w: header needs %d bytes, have %d", ErrInvalidTreeData, headerSize, len(src))
	}
	treeLen := uint64(binary.BigEndian.Uint32(src))
	if treeLen > uint64(len(src)-headerSize) {
		return nil, fmt.Errorf("%w: tree length %d exceeds %d available bytes", ErrInvalidTreeData, treeLen, len(src)-headerSize)
	}
	treeEnd := headerSize + int(treeLen)

	root, err := ParseTree(src[headerSize:treeEnd])
	if err != nil {
		return nil, err
	}
	if treeEnd >= len(src) {
		return nil, fmt.Errorf("%w: missing padding byte", ErrCorruptStream)
	}

	padding := int(src[treeEnd])
	packed := src[treeEnd+1:]
	if padding >= bitstream.ByteWidth {
		return nil, fmt.Errorf("%w: padding %d out of range", ErrCorruptStream, padding)
	}
	if padding > 0 && len(packed) == 0 {
		return nil, fmt.Errorf("%w: padding %d without data", ErrCorruptStream, padding)
	}
	return &container{treeLen: int(treeLen), root: root, padding: padding, packed: packed}, nil
}

// Header describes a compressed buffer without decoding it.
type Header struct {
	TreeLen     int
	Leaves      int
	Padding     int
	PayloadBits int64
}

// Inspect parses the container header and tree of data.
func Inspect(data []byte) (*Header, error) {
	if len(data) == 0 {
		return &Header{}, nil
	}
	ct, err := parseContainer(data)
	if err != nil {
		return nil, err
	}
	return &Header{
		TreeLen:     ct.treeLen,
		Leaves:      ct.root.Leaves(),
		Padding:     ct.padding,
		PayloadBits: int64(len(ct.packed))*bitstream.ByteWidth - int64(ct.padding),
	}, nil
}

var _ codec.Codec = (*Codec)(nil)
