package bound

import (
	"fmt"

	"sct/schedule"
	"sct/thread"
)

// Preemption limits the number of preemptive context switches in a
// trace: a SwitchTo decision away from a thread that is still runnable
// and did not just perform a yield-like action. Programs that only ever communicate through
// explicit yields can be explored exhaustively within a small
// preemption budget, which is the usual way systematic testers make
// otherwise-astronomical interleaving spaces tractable.
type Preemption struct {
	Max int
}

func (b Preemption) Admits(trace schedule.Trace, decision schedule.Decision, runnable map[thread.ID]thread.Lookahead) bool {
	if !isPreemptive(trace, decision, runnable) {
		return true
	}
	return countPreemptions(trace) < b.Max
}

func (b Preemption) Backtrack(trace schedule.Trace, index int, decision schedule.Decision, runnable map[thread.ID]thread.Lookahead, steps []schedule.BacktrackStep) []schedule.BacktrackStep {
	if !isPreemptive(trace, decision, runnable) {
		return steps
	}
	// A preemptive switch was taken; every other thread that was
	// runnable at this point could have been the preemption instead, and
	// must still be explored in a later run to preserve completeness.
	for tid := range runnable {
		if tid == decision.Thread {
			continue
		}
		steps = append(steps, schedule.BacktrackStep{Index: index, Conservative: true, Thread: tid})
	}
	return steps
}

func (b Preemption) String() string {
	return fmt.Sprintf("preemption(%d)", b.Max)
}

// isPreemptive reports whether switching to decision's thread counts as
// a preemption of the thread that ran the last step of trace: it does
// not, if that thread yielded, or if it is no longer in runnable
// because it blocked (primitives.Lock/MVar contention, observed but
// never recorded as a schedule.Step) or terminated. Neither case left
// the scheduler a real choice to preempt.
func isPreemptive(trace schedule.Trace, decision schedule.Decision, runnable map[thread.ID]thread.Lookahead) bool {
	if decision.Kind != schedule.SwitchTo || len(trace) == 0 {
		return false
	}
	return isPreemptiveSwitch(trace[len(trace)-1], runnable)
}

func isPreemptiveSwitch(prev schedule.Step, runnable map[thread.ID]thread.Lookahead) bool {
	if prev.Action.WillYield() {
		return false
	}
	_, stillRunnable := runnable[prev.Decision.Thread]
	return stillRunnable
}

func countPreemptions(trace schedule.Trace) int {
	count := 0
	for i, step := range trace {
		if i == 0 || step.Decision.Kind != schedule.SwitchTo {
			continue
		}
		if isPreemptiveSwitch(trace[i-1], step.Runnable) {
			count++
		}
	}
	return count
}
