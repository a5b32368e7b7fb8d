package huffmancodec

import "strings"

// Code is a Huffman code word, root edge first. false is a left edge (0),
// true a right edge (1).
type Code []bool

// String returns the code as a string of '0' and '1'.
func (c Code) String() string {
	var sb strings.Builder
	sb.Grow(len(c))
	for _, bit := range c {
		if bit {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// CodeTable maps byte values to code words and back.
type CodeTable struct {
	codes   [256]Code
	symbols map[string]byte
}

// NewCodeTable derives the code of every leaf by walking root. A tree that
// is a single leaf gets the one-bit code "0" so that every symbol costs at
// least one bit.
func NewCodeTable(root *Node) *CodeTable {
	t := &CodeTable{symbols: make(map[string]byte)}
	if root == nil {
		return t
	}
	if root.IsLeaf() {
		t.set(root.Symbol, Code{false})
		return t
	}
	t.walk(root, make(Code, 0, 16))
	return t
}

func (t *CodeTable) walk(n *Node, path Code) {
	if n.IsLeaf() {
		code := make(Code, len(path))
		copy(code, path)
		t.set(n.Symbol, code)
		return
	}
	t.walk(n.Left, append(path, false))
	t.walk(n.Right, append(path, true))
}

func (t *CodeTable) set(sym byte, code Code) {
	t.codes[sym] = code
	t.symbols[code.String()] = sym
}

// Code returns the code word for sym.
func (t *CodeTable) Code(sym byte) (Code, bool) {
	c := t.codes[sym]
	return c, c != nil
}

// Symbol returns the byte whose code word is bits, written as '0' and '1'.
func (t *CodeTable) Symbol(bits string) (byte, bool) {
	sym, ok := t.symbols[bits]
	return sym, ok
}

// Len returns the number of symbols with a code word.
func (t *CodeTable) Len() int {
	return len(t.symbols)
}

// Equal reports whether both tables assign the same code to every symbol.
func (t *CodeTable) Equal(o *CodeTable) bool {
	if t.Len() != o.Len() {
		return false
	}
	for bits, sym := range t.symbols {
		if got, ok := o.symbols[bits]; !ok || got != sym {
			return false
		}
	}
	return true
}

// EncodedBits returns the number of code bits needed for a histogram.
func (t *CodeTable) EncodedBits(freqs [256]uint64) uint64 {
	var total uint64
	for sym, freq := range freqs {
		total += freq * uint64(len(t.codes[sym]))
	}
	return total
}
