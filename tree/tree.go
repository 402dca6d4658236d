// Package tree implements a generic, arena-backed trie. Nodes live in a
// growable slice and edges are index lookups, which avoids pointer
// chasing for the large, long-lived tries the DPOR state keeps for the
// lifetime of an exploration.
package tree

import (
	"fmt"
	"strings"
)

// Tree is the arena owning every node created under a given root.
type Tree[T any] struct {
	nodes []entry[T]
	eq    func(a, b T) bool
}

type entry[T any] struct {
	payload  T
	parent   int
	children []int
	depth    int
}

// New creates a single-node tree with the given payload as its root and
// returns a handle to that root.
func New[T any](payload T, eq func(a, b T) bool) *Node[T] {
	t := &Tree[T]{eq: eq}
	t.nodes = append(t.nodes, entry[T]{payload: payload, parent: -1})
	return &Node[T]{tree: t, idx: 0}
}

// Node is a handle into a Tree. It is cheap to copy and stays valid for
// the lifetime of the Tree it was obtained from.
type Node[T any] struct {
	tree *Tree[T]
	idx  int
}

// Len returns the number of nodes in the subtree rooted at n, including n.
func (n *Node[T]) Len() int {
	total := 1
	for _, child := range n.Children() {
		total += child.Len()
	}
	return total
}

// AddChild adds a new child with the given payload under n and returns a
// handle to it.
func (n *Node[T]) AddChild(payload T) *Node[T] {
	t := n.tree
	idx := len(t.nodes)
	t.nodes = append(t.nodes, entry[T]{
		payload: payload,
		parent:  n.idx,
		depth:   t.nodes[n.idx].depth + 1,
	})
	t.nodes[n.idx].children = append(t.nodes[n.idx].children, idx)
	return &Node[T]{tree: t, idx: idx}
}

// HasChild reports whether n has a child whose payload is equal to
// payload under the tree's equality function.
func (n *Node[T]) HasChild(payload T) bool {
	for _, child := range n.Children() {
		if n.tree.eq(payload, child.Payload()) {
			return true
		}
	}
	return false
}

// GetChild returns the first child of n whose payload equals payload, or
// nil if there is none.
func (n *Node[T]) GetChild(payload T) *Node[T] {
	for _, child := range n.Children() {
		if n.tree.eq(payload, child.Payload()) {
			return child
		}
	}
	return nil
}

// Payload returns the payload stored at n.
func (n *Node[T]) Payload() T {
	return n.tree.nodes[n.idx].payload
}

// SetPayload overwrites the payload stored at n.
func (n *Node[T]) SetPayload(payload T) {
	n.tree.nodes[n.idx].payload = payload
}

// Parent returns the parent of n, or nil if n is the root.
func (n *Node[T]) Parent() *Node[T] {
	p := n.tree.nodes[n.idx].parent
	if p < 0 {
		return nil
	}
	return &Node[T]{tree: n.tree, idx: p}
}

// Children returns handles to the direct children of n.
func (n *Node[T]) Children() []*Node[T] {
	idxs := n.tree.nodes[n.idx].children
	out := make([]*Node[T], len(idxs))
	for i, idx := range idxs {
		out[i] = &Node[T]{tree: n.tree, idx: idx}
	}
	return out
}

// Depth returns the distance from the root to n.
func (n *Node[T]) Depth() int {
	return n.tree.nodes[n.idx].depth
}

// IsRoot reports whether n is the root of its tree.
func (n *Node[T]) IsRoot() bool {
	return n.Parent() == nil
}

// IsLeafNode reports whether n has no children.
func (n *Node[T]) IsLeafNode() bool {
	return len(n.tree.nodes[n.idx].children) == 0
}

// Equal reports whether two handles refer to the same node of the same tree.
func (n *Node[T]) Equal(other *Node[T]) bool {
	return n.tree == other.tree && n.idx == other.idx
}

// GetAllLeafNodes returns every leaf node that is a descendant of n
// (including n itself if it is a leaf).
func (n *Node[T]) GetAllLeafNodes() []*Node[T] {
	if n.IsLeafNode() {
		return []*Node[T]{n}
	}
	leaves := []*Node[T]{}
	for _, child := range n.Children() {
		leaves = append(leaves, child.GetAllLeafNodes()...)
	}
	return leaves
}

// SearchLeafNodes reports whether search returns true for some leaf node
// that is a descendant of n.
func (n *Node[T]) SearchLeafNodes(search func(T) bool) bool {
	if n.IsLeafNode() {
		return search(n.Payload())
	}
	for _, child := range n.Children() {
		if child.SearchLeafNodes(search) {
			return true
		}
	}
	return false
}

// DepthFirstSearch reports whether search returns true for n or some
// descendant of n, visiting nodes depth-first.
func (n *Node[T]) DepthFirstSearch(search func(T) bool) bool {
	if search(n.Payload()) {
		return true
	}
	for _, child := range n.Children() {
		if child.DepthFirstSearch(search) {
			return true
		}
	}
	return false
}

func (n *Node[T]) String() string {
	out := strings.Builder{}
	for i := 0; i < n.Depth(); i++ {
		out.WriteString("-")
	}
	out.WriteString(fmt.Sprintf("%v\n", n.Payload()))
	for _, child := range n.Children() {
		out.WriteString(child.String())
	}
	return out.String()
}

// Newick renders the subtree rooted at n in Newick tree notation.
func (n *Node[T]) Newick() string {
	out := strings.Builder{}
	if children := n.Children(); len(children) > 0 {
		out.WriteString("(")
		for i, child := range children {
			if i > 0 {
				out.WriteString(",")
			}
			out.WriteString(child.Newick())
		}
		out.WriteString(")")
	}
	out.WriteString(fmt.Sprintf("\"%v\"", n.Payload()))
	if n.IsRoot() {
		out.WriteString(";")
	}
	return out.String()
}
