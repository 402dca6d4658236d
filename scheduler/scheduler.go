// Package scheduler implements the concrete scheduling strategies the
// executor can be driven by: systematic DPOR exploration, uniform and
// weighted random sampling (for swarm testing), and exact replay of a
// previously recorded trace.
package scheduler

import (
	"golang.org/x/exp/slices"

	"sct/schedule"
	"sct/thread"
)

// sortedIDs returns the keys of runnable in ascending order, which every
// strategy here uses as its tie-break so two runs given the same inputs
// make the same choice.
func sortedIDs(runnable map[thread.ID]thread.Lookahead) []thread.ID {
	ids := make([]thread.ID, 0, len(runnable))
	for id := range runnable {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func alternativesExcept(ids []thread.ID, chosen thread.ID) []schedule.Decision {
	alts := make([]schedule.Decision, 0, len(ids))
	for _, id := range ids {
		if id == chosen {
			continue
		}
		alts = append(alts, schedule.Decision{Kind: schedule.SwitchTo, Thread: id})
	}
	return alts
}
