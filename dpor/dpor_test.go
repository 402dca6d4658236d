package dpor

import (
	"testing"

	"sct/bound"
	"sct/schedule"
	"sct/thread"
)

func TestFindBacktrackStepsDetectsWriteWriteRace(t *testing.T) {
	trace := schedule.Trace{
		{
			Decision: schedule.Decision{Kind: schedule.Start, Thread: 1},
			Action:   thread.Action{Kind: thread.WriteCRef, Ref: "x"},
			Runnable: map[thread.ID]thread.Lookahead{
				1: {Kind: thread.WriteCRef, Ref: "x"},
				2: {Kind: thread.WriteCRef, Ref: "x"},
			},
		},
		{
			Decision: schedule.Decision{Kind: schedule.SwitchTo, Thread: 2},
			Action:   thread.Action{Kind: thread.WriteCRef, Ref: "x"},
			Runnable: map[thread.ID]thread.Lookahead{
				2: {Kind: thread.WriteCRef, Ref: "x"},
			},
		},
	}

	steps := FindBacktrackSteps(trace, bound.NoBound{}, false)
	if len(steps) != 1 {
		t.Fatalf("expected exactly one backtrack step, got %d: %v", len(steps), steps)
	}
	if steps[0].Index != 0 || steps[0].Thread != 2 || steps[0].Conservative {
		t.Fatalf("unexpected backtrack step: %+v", steps[0])
	}
}

func TestFindBacktrackStepsIgnoresIndependentReads(t *testing.T) {
	trace := schedule.Trace{
		{
			Decision: schedule.Decision{Kind: schedule.Start, Thread: 1},
			Action:   thread.Action{Kind: thread.ReadCRef, Ref: "x"},
			Runnable: map[thread.ID]thread.Lookahead{1: {Kind: thread.ReadCRef, Ref: "x"}, 2: {Kind: thread.ReadCRef, Ref: "x"}},
		},
		{
			Decision: schedule.Decision{Kind: schedule.SwitchTo, Thread: 2},
			Action:   thread.Action{Kind: thread.ReadCRef, Ref: "x"},
			Runnable: map[thread.ID]thread.Lookahead{2: {Kind: thread.ReadCRef, Ref: "x"}},
		},
	}

	if steps := FindBacktrackSteps(trace, bound.NoBound{}, false); len(steps) != 0 {
		t.Fatalf("expected no backtrack steps for two reads, got %v", steps)
	}
}

func TestTreeExploresBothOrdersOfARace(t *testing.T) {
	tr := NewTree()

	// First run: thread 1 then thread 2, both writing to the same ref.
	trace := schedule.Trace{
		{
			Decision: schedule.Decision{Kind: schedule.Start, Thread: 1},
			Action:   thread.Action{Kind: thread.WriteCRef, Ref: "x"},
			Runnable: map[thread.ID]thread.Lookahead{1: {}, 2: {}},
		},
		{
			Decision: schedule.Decision{Kind: schedule.SwitchTo, Thread: 2},
			Action:   thread.Action{Kind: thread.WriteCRef, Ref: "x"},
			Runnable: map[thread.ID]thread.Lookahead{2: {}},
		},
	}
	tr.IncorporateTrace(trace)
	tr.IncorporateBacktrackSteps(trace, FindBacktrackSteps(trace, bound.NoBound{}, false))

	prefix, ok := tr.NextPrefix()
	if !ok {
		t.Fatalf("expected a second interleaving to explore")
	}
	if len(prefix) != 1 || prefix[0] != 2 {
		t.Fatalf("expected next prefix to force thread 2 first, got %v", prefix)
	}
}
