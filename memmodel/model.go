// Package memmodel implements the write-buffering behaviour of the three
// memory models the executor can simulate: sequential consistency, total
// store order and partial store order.
package memmodel

import "sct/thread"

// Type identifies the memory model an exploration is configured with.
type Type int

const (
	SequentialConsistency Type = iota
	TotalStoreOrder
	PartialStoreOrder
)

func (t Type) String() string {
	switch t {
	case SequentialConsistency:
		return "sequential-consistency"
	case TotalStoreOrder:
		return "total-store-order"
	case PartialStoreOrder:
		return "partial-store-order"
	default:
		return "unknown-memory-model"
	}
}

// Write is a single buffered write awaiting commit. Apply performs the
// write's side effect; the CRef that created it is the only party that
// knows how to store its value, so the model never touches the value
// itself.
type Write struct {
	Ref   string
	Apply func()
}

// Model mediates buffered writes on behalf of the executor. Buffer is
// called once per write performed by a user thread; CommitChoices is
// polled after every step to learn which commit threads currently offer
// a pending write, and Commit pops the oldest buffered write for a given
// commit thread so the executor can apply it and record a CommitCRef
// action.
type Model interface {
	Type() Type
	// Buffer records a write performed by tid. Returns the commit thread
	// id that will later flush it, allocating a fresh one via alloc the
	// first time a given queue is written to.
	Buffer(tid thread.ID, ref string, apply func(), alloc func() thread.ID) thread.ID
	// CommitChoices returns the commit threads currently runnable because
	// they hold at least one buffered write.
	CommitChoices() []thread.ID
	// Commit pops and returns the oldest buffered write owned by commit
	// thread ctid.
	Commit(ctid thread.ID) (Write, bool)
}

// New constructs the Model for the given Type.
func New(t Type) Model {
	switch t {
	case TotalStoreOrder:
		return newBuffered(true)
	case PartialStoreOrder:
		return newBuffered(false)
	default:
		return sc{}
	}
}

// sc performs no buffering: every write is immediately visible, so Buffer
// applies the write inline and never hands back a commit thread with
// pending work.
type sc struct{}

func (sc) Type() Type { return SequentialConsistency }

func (sc) Buffer(tid thread.ID, ref string, apply func(), alloc func() thread.ID) thread.ID {
	apply()
	return tid
}

func (sc) CommitChoices() []thread.ID     { return nil }
func (sc) Commit(thread.ID) (Write, bool) { return Write{}, false }
