package squeeze

import (
	"fmt"
	"strings"

	"github.com/discochess/squeeze/internal/codec"
	"github.com/discochess/squeeze/internal/codec/gzipcodec"
	"github.com/discochess/squeeze/internal/codec/huffmancodec"
	"github.com/discochess/squeeze/internal/codec/lzwcodec"
	"github.com/discochess/squeeze/internal/codec/noopcodec"
	"github.com/discochess/squeeze/internal/codec/rlecodec"
	"github.com/discochess/squeeze/internal/codec/s2codec"
	"github.com/discochess/squeeze/internal/codec/zstdcodec"
)

// Algorithm names a compression algorithm.
type Algorithm string

// Built-in algorithms.
const (
	// Auto selects an algorithm from the input size.
	Auto Algorithm = ""

	RLE     Algorithm = "rle"
	Huffman Algorithm = "huffman"
	LZW     Algorithm = "lzw"

	// Reference algorithms for comparison.
	Zstd  Algorithm = "zstd"
	Gzip  Algorithm = "gzip"
	S2    Algorithm = "s2"
	Store Algorithm = "store"
)

// DefaultSizeThreshold is the input size above which Auto picks the
// large-input algorithm.
const DefaultSizeThreshold = 1 << 20

func builtinCodecs() []codec.Codec {
	return []codec.Codec{
		rlecodec.New(),
		huffmancodec.New(),
		lzwcodec.New(),
		zstdcodec.New(),
		gzipcodec.New(),
		s2codec.New(),
		noopcodec.New(),
	}
}

var extensions = func() map[string]Algorithm {
	m := make(map[string]Algorithm)
	for _, c := range builtinCodecs() {
		m[c.Extension()] = Algorithm(c.Name())
	}
	return m
}()

// ParseAlgorithm returns the built-in algorithm named s, ignoring case.
// An empty string parses as Auto.
func ParseAlgorithm(s string) (Algorithm, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "auto" {
		return Auto, nil
	}
	for _, algo := range extensions {
		if string(algo) == s {
			return algo, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// AlgorithmForExtension returns the built-in algorithm whose output uses
// ext. The leading dot is optional and case is ignored.
func AlgorithmForExtension(ext string) (Algorithm, error) {
	key := strings.ToLower(strings.TrimPrefix(ext, "."))
	if algo, ok := extensions[key]; ok {
		return algo, nil
	}
	return "", fmt.Errorf("%w: no algorithm for extension %q", ErrUnknownAlgorithm, ext)
}
