// Package primitives is the minimal concurrency vocabulary the executor
// schedules: mutable references, locks and one-place mailboxes. Every
// operation starts with a call into the executor's Context so the step
// is visible to the scheduler before its effect is applied.
package primitives

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"sct/executor"
	"sct/memmodel"
	"sct/thread"
)

// newRefName gives a primitive a name unique across the whole process,
// not just within its own kind: the dependency relation only ever
// compares names for equality, so a uuid serves as well as a counter
// and needs no shared state to hand them out.
func newRefName(kind string) string {
	return fmt.Sprintf("%s#%s", kind, uuid.NewString())
}

// CRef is a mutable cell shared between threads. Under a relaxed memory
// model (TotalStoreOrder or PartialStoreOrder) a write is buffered and
// only becomes visible to other threads once a commit thread flushes it;
// the writing thread always sees its own latest write immediately.
type CRef[T any] struct {
	name string

	mu          sync.Mutex
	committed   T
	pending     map[thread.ID]T
	outstanding map[thread.ID]int
}

// NewCRef creates a CRef holding the given initial value.
func NewCRef[T any](initial T) *CRef[T] {
	return &CRef[T]{
		name:        newRefName("cref"),
		committed:   initial,
		pending:     map[thread.ID]T{},
		outstanding: map[thread.ID]int{},
	}
}

// Read returns the value visible to the calling thread: its own latest
// buffered write if it has one outstanding, otherwise the last committed
// value.
func (c *CRef[T]) Read(ctx executor.Context) T {
	ctx.Step(thread.Action{Kind: thread.ReadCRef, Ref: c.name})

	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.pending[ctx.ID()]; ok {
		return v
	}
	return c.committed
}

// Write stores value. Under sequential consistency the write is visible
// immediately; otherwise it is buffered until a later CommitCRef step
// flushes it.
func (c *CRef[T]) Write(ctx executor.Context, value T) {
	ctx.Step(thread.Action{Kind: thread.WriteCRef, Ref: c.name})

	tid := ctx.ID()
	c.mu.Lock()
	c.pending[tid] = value
	c.outstanding[tid]++
	c.mu.Unlock()

	apply := func() {
		c.mu.Lock()
		c.committed = value
		c.outstanding[tid]--
		if c.outstanding[tid] <= 0 {
			delete(c.outstanding, tid)
			delete(c.pending, tid)
		}
		c.mu.Unlock()
	}

	if ctx.MemModel() == memmodel.SequentialConsistency {
		apply()
		return
	}
	ctx.BufferWrite(c.name, apply)
}
