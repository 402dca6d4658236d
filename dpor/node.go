// Package dpor implements the persistent exploration tree that drives
// systematic scheduling: a trie of decisions where each node remembers
// which thread ids still need a branch of their own (its to-do set),
// which ids have already been fully explored from here (its sleep set)
// and whether its whole subtree is exhausted.
package dpor

import (
	"sct/schedule"
	"sct/thread"
	"sct/tree"
)

// Node is the payload stored at every position of the exploration tree.
type Node struct {
	// Decision is the decision that was taken to reach this node from its
	// parent; the zero value at the root, which represents the state
	// before any decision has been made.
	Decision schedule.Decision

	// Todo maps a thread id still owed a branch of its own to whether
	// that branch was added conservatively (by a bound function or by a
	// race whose racing thread was not itself runnable) rather than by a
	// precise dependency analysis.
	Todo map[thread.ID]bool

	// Sleep holds thread ids whose child branch from this node has been
	// fully explored.
	Sleep map[thread.ID]bool

	// Done marks that every branch worth exploring from this node (and
	// all its descendants) has been explored.
	Done bool

	Children map[thread.ID]*tree.Node[*Node]
}

func newNode(decision schedule.Decision) *Node {
	return &Node{
		Decision: decision,
		Todo:     map[thread.ID]bool{},
		Sleep:    map[thread.ID]bool{},
		Children: map[thread.ID]*tree.Node[*Node]{},
	}
}

func samePointer(a, b *Node) bool { return a == b }
