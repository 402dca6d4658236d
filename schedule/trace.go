package schedule

import "sct/thread"

// Step is one primitive step of an execution: the decision that was
// taken, the alternative decisions that were available at that point,
// the action that the scheduled thread actually performed, and the full
// runnable set (including the thread that was chosen) the scheduler saw
// when it made the decision.
type Step struct {
	Decision     Decision
	Alternatives []Decision
	Action       thread.Action
	Runnable     map[thread.ID]thread.Lookahead
}

// Trace is the ordered record of decisions and actions from one
// execution; its length is the number of primitive steps executed.
type Trace []Step

// Decisions projects the trace down to the sequence of decisions that
// reproduces it; this is exactly what a Replay scheduler consumes.
func (t Trace) Decisions() []Decision {
	out := make([]Decision, len(t))
	for i, step := range t {
		out[i] = step.Decision
	}
	return out
}

// BacktrackStep is produced during trace analysis: it names a point in
// the trace at which a different thread must be explored to retain
// completeness.
type BacktrackStep struct {
	Index        int
	Conservative bool
	Thread       thread.ID
}
