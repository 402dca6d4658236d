package scheduler

import (
	"sct/bound"
	"sct/schedule"
	"sct/thread"
)

// DPOR drives a single run along a forced prefix computed by the
// exploration tree, then makes its own deterministic choice (the lowest
// runnable thread id, filtered by bnd) for every remaining step.
type DPOR struct {
	prefix []thread.ID
	bnd    bound.Func

	pos          int
	mismatch     bool
	boundKilled  bool
	trace        schedule.Trace
	alternatives []schedule.Decision
}

// NewDPOR creates a scheduler that forces prefix, then free-explores
// subject to bnd. A nil bnd behaves as bound.NoBound{}.
func NewDPOR(prefix []thread.ID, bnd bound.Func) *DPOR {
	if bnd == nil {
		bnd = bound.NoBound{}
	}
	return &DPOR{prefix: prefix, bnd: bnd}
}

func (d *DPOR) Next(prior schedule.Decision, runnable map[thread.ID]thread.Lookahead) thread.ID {
	ids := sortedIDs(runnable)

	if d.pos < len(d.prefix) {
		want := d.prefix[d.pos]
		d.pos++
		if _, ok := runnable[want]; ok {
			d.alternatives = alternativesExcept(ids, want)
			return want
		}
		// The prefix no longer matches what is actually runnable: the
		// program's shape depends on more than just the schedule. Abort
		// this run rather than report a corrupt trace.
		d.mismatch = true
	}

	for _, id := range ids {
		decision := decisionFor(prior, id)
		if d.bnd.Admits(d.trace, decision, runnable) {
			d.alternatives = alternativesExcept(ids, id)
			return id
		}
	}

	d.boundKilled = true
	d.alternatives = alternativesExcept(ids, ids[0])
	return ids[0]
}

func (d *DPOR) Observe(step schedule.Step) {
	d.trace = append(d.trace, step)
}

func (d *DPOR) Ignore() bool    { return d.mismatch }
func (d *DPOR) BoundKill() bool { return d.boundKilled }

func (d *DPOR) Alternatives() []schedule.Decision { return d.alternatives }

func decisionFor(prior schedule.Decision, id thread.ID) schedule.Decision {
	if prior.Thread == id {
		return schedule.Decision{Kind: schedule.Continue, Thread: id}
	}
	return schedule.Decision{Kind: schedule.SwitchTo, Thread: id}
}
