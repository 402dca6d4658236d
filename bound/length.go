package bound

import (
	"fmt"

	"sct/schedule"
	"sct/thread"
)

// Length caps the raw number of steps a trace may contain. It never
// contributes backtrack points: cutting a trace short for length is not
// a choice that needs to be revisited, it is simply a trace the driver
// reports as cut short and never resumes.
type Length struct {
	Max int
}

func (b Length) Admits(trace schedule.Trace, _ schedule.Decision, _ map[thread.ID]thread.Lookahead) bool {
	return len(trace) < b.Max
}

func (b Length) Backtrack(_ schedule.Trace, _ int, _ schedule.Decision, _ map[thread.ID]thread.Lookahead, steps []schedule.BacktrackStep) []schedule.BacktrackStep {
	return steps
}

func (b Length) String() string {
	return fmt.Sprintf("length(%d)", b.Max)
}
