package bound

import (
	"strings"

	"sct/schedule"
	"sct/thread"
)

// Composite combines bound functions with a fixed precedence:
// preemption, then fairness, then length. Admits requires every bound to
// agree; Backtrack defers entirely to the single highest-priority
// enabled bound, matching spec's "composite backtrack uses the first
// enabled bound's augmentation" rule rather than concatenating every
// bound's augmentation.
type Composite struct {
	Bounds []Func
}

// rank orders a bound by precedence: preemption > fair > length >
// anything else, matching Admits' implicit ordering (callers pass
// bounds already in this order via NewComposite, but Backtrack
// re-derives it directly so it holds even for a hand-built Composite).
func rank(b Func) int {
	switch b.(type) {
	case Preemption:
		return 0
	case Fair:
		return 1
	case Length:
		return 2
	default:
		return 3
	}
}

// NewComposite orders bs into preemption > fair > length precedence,
// regardless of the order they were passed in, and drops any NoBound
// entries since they never reject or contribute anything.
func NewComposite(bs ...Func) Composite {
	kept := make([]Func, 0, len(bs))
	for _, b := range bs {
		if _, ok := b.(NoBound); ok {
			continue
		}
		kept = append(kept, b)
	}
	for i := 1; i < len(kept); i++ {
		for j := i; j > 0 && rank(kept[j]) < rank(kept[j-1]); j-- {
			kept[j], kept[j-1] = kept[j-1], kept[j]
		}
	}
	return Composite{Bounds: kept}
}

func (c Composite) Admits(trace schedule.Trace, decision schedule.Decision, runnable map[thread.ID]thread.Lookahead) bool {
	for _, b := range c.Bounds {
		if !b.Admits(trace, decision, runnable) {
			return false
		}
	}
	return true
}

func (c Composite) Backtrack(trace schedule.Trace, index int, decision schedule.Decision, runnable map[thread.ID]thread.Lookahead, steps []schedule.BacktrackStep) []schedule.BacktrackStep {
	if len(c.Bounds) == 0 {
		return steps
	}
	first := c.Bounds[0]
	for _, b := range c.Bounds[1:] {
		if rank(b) < rank(first) {
			first = b
		}
	}
	return first.Backtrack(trace, index, decision, runnable, steps)
}

func (c Composite) String() string {
	names := make([]string, len(c.Bounds))
	for i, b := range c.Bounds {
		names[i] = b.String()
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "+")
}
