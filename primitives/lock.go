package primitives

import (
	"sync"

	"sct/executor"
	"sct/thread"
)

// Lock is a shared mutual-exclusion resource. Unlike sync.Mutex its
// Take/Release pair are scheduled steps: a blocked Take is retried by
// the executor after every subsequent step rather than parking on a Go
// channel the scheduler can't see into.
type Lock struct {
	name string

	mu   sync.Mutex
	held bool
}

// NewLock creates an unheld Lock.
func NewLock() *Lock {
	return &Lock{name: newRefName("lock")}
}

// Take blocks the calling thread until the lock is free, then acquires
// it.
func (l *Lock) Take(ctx executor.Context) {
	for {
		l.mu.Lock()
		free := !l.held
		l.mu.Unlock()

		if !free {
			ctx.Block(thread.Action{Ref: l.name})
			continue
		}

		l.mu.Lock()
		if l.held {
			l.mu.Unlock()
			ctx.Block(thread.Action{Ref: l.name})
			continue
		}
		l.held = true
		l.mu.Unlock()

		ctx.Step(thread.Action{Kind: thread.TakeLock, Ref: l.name})
		return
	}
}

// Release gives up the lock.
func (l *Lock) Release(ctx executor.Context) {
	l.mu.Lock()
	l.held = false
	l.mu.Unlock()

	ctx.Step(thread.Action{Kind: thread.ReleaseLock, Ref: l.name})
}
