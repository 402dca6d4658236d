package executor

import (
	"sct/failure"
	"sct/thread"
)

// Program is the external collaborator the executor drives: a set of
// thread entry points keyed by the id they will run as. Threads may
// spawn further threads at runtime via Context.Spawn.
type Program interface {
	Threads() map[thread.ID]func(Context)
}

// Result is the outcome of one execution: either a value produced by the
// program or a Failure describing why it could not produce one.
type Result struct {
	Value   any
	Failure *failure.Failure
}

// Ok reports whether the execution completed without a Failure.
func (r Result) Ok() bool {
	return r.Failure == nil
}
