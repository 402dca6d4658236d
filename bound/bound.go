// Package bound implements the length-limiting strategies the DPOR
// exploration can be configured with: preemption counting, fairness and
// raw trace length, composed in a fixed priority order.
package bound

import (
	"sct/schedule"
	"sct/thread"
)

// Func decides whether a candidate next decision should be allowed to
// extend the trace built so far, and contributes extra backtrack points
// when a bound-respecting alternative must still be explored for
// completeness.
type Func interface {
	// Admits reports whether decision may be appended to trace so far,
	// given the set of threads that were runnable at this point.
	Admits(trace schedule.Trace, decision schedule.Decision, runnable map[thread.ID]thread.Lookahead) bool
	// Backtrack augments steps with whatever conservative backtrack
	// points this bound requires when decision was just taken at the
	// given index of trace.
	Backtrack(trace schedule.Trace, index int, decision schedule.Decision, runnable map[thread.ID]thread.Lookahead, steps []schedule.BacktrackStep) []schedule.BacktrackStep
	// String names the bound for diagnostics.
	String() string
}

// NoBound admits every decision and contributes no extra backtrack points.
type NoBound struct{}

func (NoBound) Admits(schedule.Trace, schedule.Decision, map[thread.ID]thread.Lookahead) bool {
	return true
}

func (NoBound) Backtrack(_ schedule.Trace, _ int, _ schedule.Decision, _ map[thread.ID]thread.Lookahead, steps []schedule.BacktrackStep) []schedule.BacktrackStep {
	return steps
}

func (NoBound) String() string { return "none" }
