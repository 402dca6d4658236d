package primitives

import (
	"sync"

	"sct/executor"
	"sct/thread"
)

// MVar is a one-place mailbox: Put blocks while it already holds a
// value, Take blocks while it is empty. Both ends reuse the lock action
// vocabulary (see thread.Action.WillRelease) since either operation can
// unblock a thread waiting on the other side.
type MVar[T any] struct {
	name string

	mu    sync.Mutex
	full  bool
	value T
}

// NewEmptyMVar creates an MVar with no value.
func NewEmptyMVar[T any]() *MVar[T] {
	return &MVar[T]{name: newRefName("mvar")}
}

// NewFullMVar creates an MVar already holding initial.
func NewFullMVar[T any](initial T) *MVar[T] {
	return &MVar[T]{name: newRefName("mvar"), full: true, value: initial}
}

// Put blocks until the MVar is empty, then fills it.
func (m *MVar[T]) Put(ctx executor.Context, v T) {
	for {
		m.mu.Lock()
		if m.full {
			m.mu.Unlock()
			ctx.Block(thread.Action{Ref: m.name})
			continue
		}
		m.value = v
		m.full = true
		m.mu.Unlock()

		ctx.Step(thread.Action{Kind: thread.ReleaseLock, Ref: m.name})
		return
	}
}

// Take blocks until the MVar holds a value, then empties it and returns
// that value.
func (m *MVar[T]) Take(ctx executor.Context) T {
	for {
		m.mu.Lock()
		if !m.full {
			m.mu.Unlock()
			ctx.Block(thread.Action{Ref: m.name})
			continue
		}
		v := m.value
		m.full = false
		m.mu.Unlock()

		ctx.Step(thread.Action{Kind: thread.ReleaseLock, Ref: m.name})
		return v
	}
}
