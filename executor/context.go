package executor

import (
	"sct/memmodel"
	"sct/thread"
)

// Context is the handle a running thread uses to talk to the executor.
// Every shared-state primitive in the primitives package is built on
// top of Step, Block and BufferWrite; user code never touches the
// executor's internal bookkeeping directly.
type Context interface {
	// ID returns the id this thread is running as.
	ID() thread.ID

	// MemModel returns the memory model the current exploration is
	// configured with, so primitives can decide whether a write needs to
	// go through BufferWrite or can be applied immediately.
	MemModel() memmodel.Type

	// Step offers action as this thread's next step and blocks until the
	// scheduler chooses it. It returns once the step has been committed to
	// the trace and the thread may perform the action's effect.
	Step(action thread.Action)

	// Block offers action but tells the executor this thread cannot make
	// progress until some other thread changes the referenced resource.
	// The executor retries the caller automatically after every
	// subsequent step; callers loop on Block until the resource becomes
	// available and then fall through to Step with the real action.
	Block(action thread.Action)

	// BufferWrite hands a pending write to the active memory model
	// instead of applying it immediately. apply is invoked by the
	// executor, on the thread that ends up performing the matching
	// CommitCRef step.
	BufferWrite(ref string, apply func())

	// Spawn starts f as a new thread and returns the id it was given.
	// The new thread does not begin running until the executor schedules
	// the Fork step this call performs.
	Spawn(f func(Context)) thread.ID

	// Yield offers a Yield step, giving the scheduler an explicit chance
	// to switch threads without otherwise touching shared state.
	Yield()

	// Return records the program's result value. Only meaningful for the
	// thread the Program designates as carrying the final result; later
	// calls overwrite earlier ones.
	Return(value any)
}
