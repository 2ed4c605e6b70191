// Package trie implements the uncompressed binary radix trie that backs
// every MaxMind legacy edition: one internal node per significant bit of
// every distinct prefix path, with a 32-bit tagged child reference in
// each node's lhs/rhs slot (empty / internal node index / data-leaf
// value) instead of heap pointers, per the memory-budget design note in
// spec §9. The node arena style (contiguous slice, index-addressed
// children) is grounded on gaissmai/bart's node/table split, generalized
// here from bart's popcount-compressed multibit stride to the legacy
// format's uncompressed single-bit-per-level layout the wire format
// requires.
package trie

import (
	"fmt"
	"net/netip"
)

// childRef packs one of three states into a uint32:
//   - 0                    -> empty
//   - even, non-zero       -> internal node, index = (ref>>1)-1
//   - odd                  -> data leaf, value = (ref>>1)-1
//
// The "value" carried by a leaf is interpreted by the caller: a
// deduplicated data-section offset for ASN/ISP/Org/City editions, or a
// country-table index for Country editions (see internal/dat).
type childRef uint32

const emptyRef childRef = 0

func internalRef(nodeIdx uint32) childRef {
	return childRef((nodeIdx+1)<<1) | 0
}

func leafRef(value uint32) childRef {
	return childRef((value+1)<<1) | 1
}

func (r childRef) isEmpty() bool { return r == emptyRef }
func (r childRef) isLeaf() bool  { return r != emptyRef && r&1 == 1 }
func (r childRef) isNode() bool  { return r != emptyRef && r&1 == 0 }

func (r childRef) nodeIndex() uint32 { return uint32(r>>1) - 1 }
func (r childRef) leafValue() uint32 { return uint32(r>>1) - 1 }

// Node is one segment: the two child slots. Its segment_id (per
// spec §3) is always its index in Trie.nodes, never stored redundantly.
type Node struct {
	lhs, rhs childRef
}

// Trie is the arena-backed radix trie. The zero value is not ready to
// use; call New.
type Trie struct {
	nodes     []Node
	seekDepth int // 31 for IPv4, 127 for IPv6
}

// New creates a trie with a single root node (segment 0) and the given
// seek depth (31 for IPv4, 127 for IPv6, per spec §3 invariants).
func New(seekDepth int) *Trie {
	return &Trie{nodes: []Node{{}}, seekDepth: seekDepth}
}

// Nodes returns the segment array in insertion order; index 0 is the
// root. The returned slice must not be mutated by the caller.
func (t *Trie) Nodes() []Node { return t.nodes }

// SegmentCount is len(Nodes()).
func (t *Trie) SegmentCount() int { return len(t.nodes) }

// Insert places a data-leaf value at the position implied by prefix,
// allocating internal nodes along the path as needed. value is an
// opaque uint32 the caller later recovers via Node.Child; its
// meaning (data offset vs. country index) is the caller's concern.
//
// Per spec §4.2: a prefix of length L walks L-1 internal bits from the
// MSB side, then plants the leaf at bit L. Overlapping prefixes
// overwrite silently (last insert wins); a prefix whose path tries to
// continue through an existing data leaf is reported as an error
// rather than silently corrupting the trie.
func (t *Trie) Insert(prefix netip.Prefix, value uint32) error {
	bits := 32
	if prefix.Addr().Is6() {
		bits = 128
	}
	if bits != t.seekDepth+1 {
		return fmt.Errorf("trie: prefix %s family does not match seek depth %d", prefix, t.seekDepth)
	}

	l := prefix.Bits()
	if l < 1 || l > bits {
		return fmt.Errorf("trie: prefix length %d out of range [1,%d]", l, bits)
	}

	addr := prefix.Addr()
	nodeIdx := uint32(0) // root

	for d := t.seekDepth; d > t.seekDepth-(l-1); d-- {
		right := addrBit(addr, d)
		child := t.childSlot(nodeIdx, right)
		switch {
		case child.isEmpty():
			newIdx := uint32(len(t.nodes))
			t.nodes = append(t.nodes, Node{})
			t.setChildSlot(nodeIdx, right, internalRef(newIdx))
			nodeIdx = newIdx
		case child.isNode():
			nodeIdx = child.nodeIndex()
		case child.isLeaf():
			return fmt.Errorf("trie: prefix %s collides with an existing data leaf at depth %d", prefix, d)
		}
	}

	finalBit := t.seekDepth - (l - 1)
	right := addrBit(addr, finalBit)
	t.setChildSlot(nodeIdx, right, leafRef(value))
	return nil
}

func (t *Trie) childSlot(nodeIdx uint32, right bool) childRef {
	n := &t.nodes[nodeIdx]
	if right {
		return n.rhs
	}
	return n.lhs
}

func (t *Trie) setChildSlot(nodeIdx uint32, right bool, ref childRef) {
	n := &t.nodes[nodeIdx]
	if right {
		n.rhs = ref
	} else {
		n.lhs = ref
	}
}

// ChildKind describes what a node's child slot holds, for serializers
// and debug dumpers that need to branch on it without reaching into
// the unexported childRef representation.
type ChildKind int

const (
	ChildEmpty ChildKind = iota
	ChildNode
	ChildLeaf
)

// Child returns the slot's kind and its payload (node index or leaf
// value; meaningless when kind is ChildEmpty).
func (n Node) Child(right bool) (ChildKind, uint32) {
	ref := n.lhs
	if right {
		ref = n.rhs
	}
	switch {
	case ref.isEmpty():
		return ChildEmpty, 0
	case ref.isNode():
		return ChildNode, ref.nodeIndex()
	default:
		return ChildLeaf, ref.leafValue()
	}
}

// addrBit reports whether bit position d (0 = LSB, seekDepth = MSB) of
// addr is set, matching the Python reference's `inet & (1 << d)` test
// over the address treated as one big unsigned integer.
func addrBit(addr netip.Addr, d int) bool {
	b := addr.AsSlice()
	byteIdx := len(b) - 1 - d/8
	bitIdx := uint(d % 8)
	return b[byteIdx]&(1<<bitIdx) != 0
}
