package dpor

import (
	"sct/bound"
	"sct/schedule"
)

// FindBacktrackSteps scans a completed trace for races: a step and the
// first later step on a different thread whose action is dependent on
// it (the steps between them are not checked for an ordering that
// would rule the pair out). For each race it records a
// backtrack point at the earlier step naming the later step's thread,
// so a future run explores scheduling that thread there instead. bnd's
// own Backtrack is then consulted at every step to add whatever
// bound-specific conservative points it requires for completeness
// (e.g. Preemption widening to every other runnable thread, Fair
// widening on a release) — without this, a bound can silently hide
// interleavings the unbounded search would have found.
//
// When boundKilled is true the bound itself cut the run short before it
// reached a real terminal state, so there is no dependency information
// past the cut point to combine with the bound's augmentation; base
// points are still returned, but bnd.Backtrack is skipped.
func FindBacktrackSteps(trace schedule.Trace, bnd bound.Func, boundKilled bool) []schedule.BacktrackStep {
	steps := baseBacktrackSteps(trace)
	if boundKilled || bnd == nil {
		return steps
	}
	for i, step := range trace {
		steps = bnd.Backtrack(trace[:i], i, step.Decision, step.Runnable, steps)
	}
	return steps
}

// baseBacktrackSteps implements the classical Flanagan–Godefroid race
// scan: for each step, find the next step on a different thread whose
// action is dependent, and record a backtrack point at the earlier
// step naming the later step's thread.
//
// When the racing thread was not itself runnable at the earlier step,
// the backtrack point is widened to every other thread that was
// runnable there, marked conservative, since no single thread can be pinpointed
// as the one that would have produced the missed interleaving.
func baseBacktrackSteps(trace schedule.Trace) []schedule.BacktrackStep {
	var steps []schedule.BacktrackStep

	for i := 0; i < len(trace); i++ {
		ti := trace[i].Decision.Thread
		ai := trace[i].Action

		for j := i + 1; j < len(trace); j++ {
			tj := trace[j].Decision.Thread
			if tj == ti {
				continue
			}
			if !Dependent(ai, trace[j].Action) {
				continue
			}

			if _, runnable := trace[i].Runnable[tj]; runnable {
				steps = append(steps, schedule.BacktrackStep{Index: i, Thread: tj})
			} else {
				for tid := range trace[i].Runnable {
					if tid == ti {
						continue
					}
					steps = append(steps, schedule.BacktrackStep{Index: i, Conservative: true, Thread: tid})
				}
			}
			break
		}
	}

	return steps
}
