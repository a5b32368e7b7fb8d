package huffmancodec

import (
	"container/heap"

	"github.com/chronos-tachyon/assert"
)

// Node is a node of a Huffman tree. A leaf has no children and carries a
// symbol; an internal node always has both children. Each node is owned by
// its parent, so a tree is always acyclic.
type Node struct {
	Symbol byte
	Freq   uint64
	Left   *Node
	Right  *Node
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// Leaves returns the number of leaves under n, including n itself.
func (n *Node) Leaves() int {
	if n == nil {
		return 0
	}
	if n.IsLeaf() {
		return 1
	}
	return n.Left.Leaves() + n.Right.Leaves()
}

// Histogram counts the occurrences of every byte value in data.
func Histogram(data []byte) [256]uint64 {
	var freqs [256]uint64
	for _, b := range data {
		freqs[b]++
	}
	return freqs
}

// BuildTree builds the Huffman tree for data. It returns nil for empty input.
func BuildTree(data []byte) *Node {
	return TreeFromHistogram(Histogram(data))
}

// TreeFromHistogram builds a Huffman tree from a byte histogram. It returns
// nil when every frequency is zero.
//
// The two least frequent nodes are merged until one root remains; the node
// extracted first becomes the left child. Equal frequencies are resolved in
// insertion order: leaves are inserted by ascending byte value and every
// merged node is inserted after all nodes that exist at that point, so the
// same histogram always yields the same tree.
func TreeFromHistogram(freqs [256]uint64) *Node {
	h := &nodeHeap{}
	for sym, freq := range freqs {
		if freq == 0 {
			continue
		}
		h.add(&Node{Symbol: byte(sym), Freq: freq})
	}
	if h.Len() == 0 {
		return nil
	}
	heap.Init(h)

	for h.Len() > 1 {
		left := heap.Pop(h).(heapItem).node
		right := heap.Pop(h).(heapItem).node
		h.push(&Node{
			Freq:  left.Freq + right.Freq,
			Left:  left,
			Right: right,
		})
	}

	root := heap.Pop(h).(heapItem).node
	assert.Assertf(h.Len() == 0, "heap holds %d nodes after merging", h.Len())
	return root
}

type heapItem struct {
	node *Node
	seq  int
}

type nodeHeap struct {
	list    []heapItem
	nextSeq int
}

// add appends without restoring the heap property; call heap.Init afterwards.
func (h *nodeHeap) add(n *Node) {
	h.list = append(h.list, heapItem{node: n, seq: h.nextSeq})
	h.nextSeq++
}

func (h *nodeHeap) push(n *Node) {
	heap.Push(h, heapItem{node: n, seq: h.nextSeq})
	h.nextSeq++
}

func (h *nodeHeap) Len() int {
	return len(h.list)
}

func (h *nodeHeap) Swap(i, j int) {
	h.list[i], h.list[j] = h.list[j], h.list[i]
}

func (h *nodeHeap) Less(i, j int) bool {
	a, b := h.list[i], h.list[j]
	if a.node.Freq != b.node.Freq {
		return a.node.Freq < b.node.Freq
	}
	return a.seq < b.seq
}

func (h *nodeHeap) Push(x any) {
	h.list = append(h.list, x.(heapItem))
}

func (h *nodeHeap) Pop() any {
	last := len(h.list) - 1
	x := h.list[last]
	h.list[last] = heapItem{}
	h.list = h.list[:last]
	return x
}

var _ heap.Interface = (*nodeHeap)(nil)
