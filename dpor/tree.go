package dpor

import (
	"golang.org/x/exp/slices"

	"sct/schedule"
	"sct/thread"
	"sct/tree"
)

// Tree is the persistent DPOR exploration state, shared by every run of
// a single systematic search.
type Tree struct {
	root *tree.Node[*Node]
}

// NewTree creates an exploration tree with an empty root: no decision
// has been made yet and nothing is in its to-do set until the first
// trace is incorporated and analysed for races.
func NewTree() *Tree {
	return &Tree{root: tree.New(newNode(schedule.Decision{}), samePointer)}
}

// Exhausted reports whether every interleaving worth exploring has been
// explored.
func (t *Tree) Exhausted() bool {
	return t.root.Payload().Done
}

// NextPrefix returns the sequence of thread ids that the next run must
// be forced through to reach an unexplored branch, and false if the
// search is complete. The returned prefix names only the NEW branch at
// its own tail; earlier entries retrace already-explored decisions.
func (t *Tree) NextPrefix() ([]thread.ID, bool) {
	return nextPrefix(t.root)
}

func nextPrefix(n *tree.Node[*Node]) ([]thread.ID, bool) {
	p := n.Payload()
	if p.Done {
		return nil, false
	}

	for _, tid := range sortedTodo(p.Todo) {
		if _, exists := p.Children[tid]; exists {
			continue
		}
		return []thread.ID{tid}, true
	}

	for _, tid := range sortedChildren(p.Children) {
		child := p.Children[tid]
		if child.Payload().Done {
			p.Sleep[tid] = true
			continue
		}
		if rest, ok := nextPrefix(child); ok {
			return append([]thread.ID{tid}, rest...), true
		}
		if child.Payload().Done {
			p.Sleep[tid] = true
		}
	}

	p.Done = true
	return nil, false
}

// IncorporateTrace walks trace from the root, creating any node that did
// not already exist. It should be called once, immediately after a run
// completes, before IncorporateBacktrackSteps analyses the same trace.
func (t *Tree) IncorporateTrace(trace schedule.Trace) {
	node := t.root
	for _, step := range trace {
		tid := step.Decision.Thread
		p := node.Payload()
		child, exists := p.Children[tid]
		if !exists {
			child = node.AddChild(newNode(step.Decision))
			p.Children[tid] = child
			delete(p.Todo, tid)
		}
		node = child
	}
}

// IncorporateBacktrackSteps adds the thread ids named by steps to the
// to-do set of the ancestor node found at each step's index, skipping
// any thread that already has a child or is asleep at that node.
func (t *Tree) IncorporateBacktrackSteps(trace schedule.Trace, steps []schedule.BacktrackStep) {
	decisions := trace.Decisions()
	for _, bs := range steps {
		if bs.Index < 0 || bs.Index > len(decisions) {
			continue
		}
		node := t.nodeAtDepth(decisions[:bs.Index])
		if node == nil {
			continue
		}
		p := node.Payload()
		if p.Sleep[bs.Thread] {
			continue
		}
		if _, exists := p.Children[bs.Thread]; exists {
			continue
		}
		if already, ok := p.Todo[bs.Thread]; ok && !already {
			continue // already a precise (non-conservative) backtrack point; don't downgrade it
		}
		p.Todo[bs.Thread] = bs.Conservative
	}
}

// nodeAtDepth walks from the root along decisions and returns the node
// reached, or nil if the path does not exist (it always should, for a
// path incorporated by IncorporateTrace immediately before).
func (t *Tree) nodeAtDepth(decisions []schedule.Decision) *tree.Node[*Node] {
	node := t.root
	for _, d := range decisions {
		child, ok := node.Payload().Children[d.Thread]
		if !ok {
			return nil
		}
		node = child
	}
	return node
}

func sortedTodo(todo map[thread.ID]bool) []thread.ID {
	ids := make([]thread.ID, 0, len(todo))
	for tid := range todo {
		ids = append(ids, tid)
	}
	slices.Sort(ids)
	return ids
}

func sortedChildren(children map[thread.ID]*tree.Node[*Node]) []thread.ID {
	ids := make([]thread.ID, 0, len(children))
	for tid := range children {
		ids = append(ids, tid)
	}
	slices.Sort(ids)
	return ids
}
