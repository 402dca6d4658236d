package executor

import (
	"sct/schedule"
	"sct/thread"
)

// Scheduler is the contract the executor drives an exploration with. It
// is intentionally stateful and object-shaped, mirroring how a single
// scheduler instance owns one run from start to finish: callers create a
// fresh Scheduler per execution rather than threading an explicit state
// value through every call.
type Scheduler interface {
	// Next is asked, at every scheduling point, which of the runnable
	// threads should execute next. prior is the decision that led to this
	// point (zero value at the very first call). runnable maps every
	// currently runnable thread to the lookahead of the action it is
	// offering.
	Next(prior schedule.Decision, runnable map[thread.ID]thread.Lookahead) thread.ID

	// Observe is called immediately after a step is committed to the
	// trace, so a stateful scheduler can keep its own copy of the trace
	// for bound functions that need to see past actions, not just past
	// decisions.
	Observe(step schedule.Step)

	// Ignore reports whether the execution just driven should be
	// discarded rather than folded into persistent state, e.g. because it
	// diverged from a replayed prefix.
	Ignore() bool

	// BoundKill reports whether the active bound rejected every
	// candidate at some point during this run, so the resulting trace
	// should be treated as truncated rather than complete.
	BoundKill() bool

	// Alternatives returns the decisions that were available at the last
	// Next call but were not taken, for backtrack-point bookkeeping.
	Alternatives() []schedule.Decision
}
