package huffmancodec

import "fmt"

const (
	tagInternal byte = 0x00
	tagLeaf     byte = 0x01

	// maxDepth bounds the depth of a parsed leaf. A tree over at most 256
	// distinct symbols is never deeper.
	maxDepth = 255
)

// Serialize writes root in preorder: a leaf is 0x01 followed by its symbol,
// an internal node is 0x00 followed by its left and right subtrees. A nil
// tree is the single byte 0x00.
func Serialize(root *Node) []byte {
	if root == nil {
		return []byte{tagInternal}
	}
	out := make([]byte, 0, 4*root.Leaves())
	return appendNode(out, root)
}

func appendNode(out []byte, n *Node) []byte {
	if n.IsLeaf() {
		return append(out, tagLeaf, n.Symbol)
	}
	out = append(out, tagInternal)
	out = appendNode(out, n.Left)
	return appendNode(out, n.Right)
}

// ParseTree rebuilds a tree written by Serialize. The whole buffer must be
// consumed by exactly one tree. Parsed nodes carry no frequencies.
func ParseTree(data []byte) (*Node, error) {
	p := &treeParser{data: data}
	root, err := p.node(0)
	if err != nil {
		return nil, err
	}
	if p.pos != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes after tree", ErrInvalidTreeData, len(data)-p.pos)
	}
	return root, nil
}

type treeParser struct {
	data   []byte
	pos    int
	leaves int
	seen   [256]bool
}

func (p *treeParser) node(depth int) (*Node, error) {
	if p.pos >= len(p.data) {
		return nil, fmt.Errorf("%w: tree truncated at byte %d", ErrInvalidTreeData, p.pos)
	}
	tag := p.data[p.pos]
	p.pos++

	switch tag {
	case tagLeaf:
		if p.pos >= len(p.data) {
			return nil, fmt.Errorf("%w: leaf symbol missing at byte %d", ErrInvalidTreeData, p.pos)
		}
		sym := p.data[p.pos]
		p.pos++
		if p.seen[sym] {
			return nil, fmt.Errorf("%w: duplicate leaf %#02x", ErrInvalidTreeData, sym)
		}
		p.seen[sym] = true
		p.leaves++
		if p.leaves > 256 {
			return nil, fmt.Errorf("%w: more than 256 leaves", ErrInvalidTreeData)
		}
		return &Node{Symbol: sym}, nil

	case tagInternal:
		if depth >= maxDepth {
			return nil, fmt.Errorf("%w: tree deeper than %d", ErrInvalidTreeData, maxDepth)
		}
		left, err := p.node(depth + 1)
		if err != nil {
			return nil, err
		}
		right, err := p.node(depth + 1)
		if err != nil {
			return nil, err
		}
		return &Node{Left: left, Right: right}, nil

	default:
		return nil, fmt.Errorf("%w: unknown tag %#02x at byte %d", ErrInvalidTreeData, tag, p.pos-1)
	}
}
