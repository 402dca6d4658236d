package bound

import (
	"testing"

	"sct/schedule"
	"sct/thread"
)

func step(kind schedule.Kind, tid thread.ID, action thread.Action) schedule.Step {
	return schedule.Step{Decision: schedule.Decision{Kind: kind, Thread: tid}, Action: action}
}

func TestPreemptionBoundRejectsExtraSwitches(t *testing.T) {
	b := Preemption{Max: 1}
	both := map[thread.ID]thread.Lookahead{1: {Kind: thread.WriteCRef}, 2: {Kind: thread.WriteCRef}}
	trace := schedule.Trace{
		step(schedule.Start, 1, thread.Action{Kind: thread.WriteCRef}),
		{
			Decision: schedule.Decision{Kind: schedule.SwitchTo, Thread: 2},
			Action:   thread.Action{Kind: thread.WriteCRef},
			Runnable: both,
		},
	}
	// A second preemptive switch should be rejected once the bound is hit.
	decision := schedule.Decision{Kind: schedule.SwitchTo, Thread: 1}
	if b.Admits(trace, decision, both) {
		t.Fatalf("expected second preemptive switch to be rejected")
	}
}

func TestPreemptionBoundAllowsYieldedSwitch(t *testing.T) {
	b := Preemption{Max: 0}
	trace := schedule.Trace{
		step(schedule.Start, 1, thread.Action{Kind: thread.Yield}),
	}
	decision := schedule.Decision{Kind: schedule.SwitchTo, Thread: 2}
	runnable := map[thread.ID]thread.Lookahead{1: {Kind: thread.Yield}, 2: {Kind: thread.WriteCRef}}
	if !b.Admits(trace, decision, runnable) {
		t.Fatalf("switching after a yield should not count as a preemption")
	}
}

func TestPreemptionBoundIgnoresSwitchAwayFromBlockedThread(t *testing.T) {
	b := Preemption{Max: 0}
	trace := schedule.Trace{
		step(schedule.Start, 1, thread.Action{Kind: thread.TakeLock}),
	}
	decision := schedule.Decision{Kind: schedule.SwitchTo, Thread: 2}
	// Thread 1 blocked taking the lock and dropped out of runnable
	// entirely (see primitives.Lock/executor.Context.Block); switching
	// to thread 2 is forced, not a preemptive choice.
	runnable := map[thread.ID]thread.Lookahead{2: {Kind: thread.WriteCRef}}
	if !b.Admits(trace, decision, runnable) {
		t.Fatalf("switching away from a blocked thread should not count as a preemption")
	}
}

func TestFairBoundRejectsUnboundedYielding(t *testing.T) {
	b := Fair{Max: 2}
	trace := schedule.Trace{
		step(schedule.Start, 1, thread.Action{Kind: thread.Yield}),
		step(schedule.SwitchTo, 2, thread.Action{Kind: thread.WriteCRef}),
		step(schedule.SwitchTo, 1, thread.Action{Kind: thread.Yield}),
		step(schedule.SwitchTo, 2, thread.Action{Kind: thread.WriteCRef}),
	}
	runnable := map[thread.ID]thread.Lookahead{1: {Kind: thread.Yield}, 2: {Kind: thread.WriteCRef}}
	decision := schedule.Decision{Kind: schedule.SwitchTo, Thread: 1}
	if b.Admits(trace, decision, runnable) {
		t.Fatalf("expected a third yield from thread 1, with thread 2 never yielding, to be rejected")
	}
}

func TestFairBoundAdmitsNonYieldSteps(t *testing.T) {
	b := Fair{Max: 0}
	trace := schedule.Trace{
		step(schedule.Start, 1, thread.Action{Kind: thread.Yield}),
	}
	runnable := map[thread.ID]thread.Lookahead{2: {Kind: thread.WriteCRef}}
	decision := schedule.Decision{Kind: schedule.SwitchTo, Thread: 2}
	if !b.Admits(trace, decision, runnable) {
		t.Fatalf("a non-yield step should never be rejected by the fair bound, regardless of skew")
	}
}

func TestFairBoundBacktracksOnRelease(t *testing.T) {
	b := Fair{Max: 2}
	runnable := map[thread.ID]thread.Lookahead{
		1: {Kind: thread.ReleaseLock},
		2: {Kind: thread.TakeLock},
		3: {Kind: thread.WriteCRef},
	}
	decision := schedule.Decision{Kind: schedule.Continue, Thread: 1}
	steps := b.Backtrack(nil, 4, decision, runnable, nil)
	if len(steps) != 2 {
		t.Fatalf("expected a conservative backtrack point for every other unblocked thread, got %v", steps)
	}
}

func TestFairBoundBacktrackSkipsNonRelease(t *testing.T) {
	b := Fair{Max: 2}
	runnable := map[thread.ID]thread.Lookahead{1: {Kind: thread.WriteCRef}, 2: {Kind: thread.ReadCRef}}
	decision := schedule.Decision{Kind: schedule.Continue, Thread: 1}
	if steps := b.Backtrack(nil, 0, decision, runnable, nil); len(steps) != 0 {
		t.Fatalf("expected no backtrack points for a non-release step, got %v", steps)
	}
}

func TestLengthBound(t *testing.T) {
	b := Length{Max: 2}
	trace := schedule.Trace{step(schedule.Start, 1, thread.Action{}), step(schedule.Continue, 1, thread.Action{})}
	if b.Admits(trace, schedule.Decision{}, nil) {
		t.Fatalf("expected length bound to reject once max steps reached")
	}
}

func TestCompositeOrdersByPrecedence(t *testing.T) {
	c := NewComposite(Length{Max: 10}, Fair{Max: 5}, Preemption{Max: 3})
	if c.Bounds[0].String() != "preemption(3)" || c.Bounds[1].String() != "fair(5)" || c.Bounds[2].String() != "length(10)" {
		t.Fatalf("expected preemption > fair > length ordering, got %v", c)
	}
}

func TestCompositeBacktrackUsesOnlyHighestPriorityBound(t *testing.T) {
	// Fair contributes a point on a release; Length never contributes
	// anything. If Composite deferred to Length first (or concatenated
	// both), the release wouldn't produce the Fair-sourced point.
	c := NewComposite(Length{Max: 10}, Fair{Max: 5})
	runnable := map[thread.ID]thread.Lookahead{1: {Kind: thread.ReleaseLock}, 2: {Kind: thread.TakeLock}}
	decision := schedule.Decision{Kind: schedule.Continue, Thread: 1}
	steps := c.Backtrack(nil, 0, decision, runnable, nil)
	if len(steps) != 1 || steps[0].Thread != 2 {
		t.Fatalf("expected Fair's single backtrack point, got %v", steps)
	}
}
