package squeeze

import (
	"errors"

	"github.com/discochess/squeeze/internal/bitstream"
	"github.com/discochess/squeeze/internal/codec"
	"github.com/discochess/squeeze/internal/codec/huffmancodec"
	"github.com/discochess/squeeze/internal/codec/lzwcodec"
)

// Sentinel errors for well-defined error conditions. Errors returned by the
// Engine wrap them, so test with errors.Is. Every error ends the call; no
// partial output is returned.
var (
	// ErrConfiguration indicates a bit writer was built with an invalid width.
	ErrConfiguration = bitstream.ErrConfiguration

	// ErrByteRange indicates a value outside 0-255 was written as a byte.
	ErrByteRange = bitstream.ErrByteRange

	// ErrOutOfRange indicates a bit read past the end of a buffer.
	ErrOutOfRange = bitstream.ErrOutOfRange

	// ErrInvalidTreeData indicates a malformed Huffman header or tree.
	ErrInvalidTreeData = huffmancodec.ErrInvalidTreeData

	// ErrCorruptStream indicates malformed Huffman padding or code bits.
	ErrCorruptStream = huffmancodec.ErrCorruptStream

	// ErrInvalidCode indicates an LZW code that cannot occur at its position.
	ErrInvalidCode = lzwcodec.ErrInvalidCode

	// ErrMalformed indicates an LZW or RLE container whose length does not
	// match its header.
	ErrMalformed = codec.ErrMalformed

	// ErrUnknownAlgorithm indicates an algorithm that is not registered.
	ErrUnknownAlgorithm = errors.New("squeeze: unknown algorithm")

	// ErrClosed indicates the engine has been closed.
	ErrClosed = errors.New("squeeze: engine closed")
)
