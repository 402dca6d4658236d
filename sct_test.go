package sct

import (
	"testing"

	"sct/bound"
	"sct/executor"
	"sct/memmodel"
	"sct/primitives"
	"sct/settings"
	"sct/thread"
)

type raceProgram struct {
	counter *primitives.CRef[int]
}

func newRaceProgram() executor.Program {
	return raceProgram{counter: primitives.NewCRef(0)}
}

func (p raceProgram) Threads() map[thread.ID]func(executor.Context) {
	inc := func(ctx executor.Context) {
		v := p.counter.Read(ctx)
		p.counter.Write(ctx, v+1)
	}
	return map[thread.ID]func(executor.Context){
		thread.Initial:     inc,
		thread.Initial + 1: inc,
	}
}

func TestRunSCTFindsBothInterleavings(t *testing.T) {
	rs := RunSCT(newRaceProgram)
	if len(rs.Outcomes) == 0 {
		t.Fatalf("expected at least one explored outcome")
	}

	firstThreads := map[thread.ID]bool{}
	for _, o := range rs.Outcomes {
		if !o.Result.Ok() {
			t.Fatalf("unexpected failure: %v", o.Result.Failure)
		}
		if len(o.Trace) == 0 {
			t.Fatalf("expected a non-empty trace")
		}
		firstThreads[o.Trace[0].Decision.Thread] = true
	}
	if len(firstThreads) < 2 {
		t.Fatalf("expected both threads to lead at least one explored run, saw %v", firstThreads)
	}
}

func TestSctBoundLimitsPreemptions(t *testing.T) {
	rs := SctBound(newRaceProgram, bound.Preemption{Max: 0})
	if len(rs.Outcomes) == 0 {
		t.Fatalf("expected at least one explored outcome under a preemption bound")
	}
}

func TestSctBoundLengthZeroYieldsNoOutcomes(t *testing.T) {
	// A Length bound of 0 admits no thread on the very first decision:
	// the run never takes a step, so it must contribute nothing to
	// explore, not a hollow Abort outcome for a trace that never ran.
	rs := SctBound(newRaceProgram, bound.Length{Max: 0})
	if len(rs.Outcomes) != 0 {
		t.Fatalf("expected zero outcomes under Length{Max: 0}, got %d", len(rs.Outcomes))
	}
}

func TestSctUniformRandomIsDeterministicGivenSeed(t *testing.T) {
	rs1 := SctUniformRandom(newRaceProgram, 5, 42)
	rs2 := SctUniformRandom(newRaceProgram, 5, 42)

	if len(rs1.Outcomes) != len(rs2.Outcomes) {
		t.Fatalf("expected the same number of runs for the same seed")
	}
	for i := range rs1.Outcomes {
		if len(rs1.Outcomes[i].Trace) != len(rs2.Outcomes[i].Trace) {
			t.Fatalf("run %d: expected identical trace lengths for the same seed", i)
		}
	}
}

func TestSctWeightedRandomReuseIsDeterministicGivenSeed(t *testing.T) {
	rs1 := SctWeightedRandom(newRaceProgram, 6, 42, 4, 2)
	rs2 := SctWeightedRandom(newRaceProgram, 6, 42, 4, 2)

	if len(rs1.Outcomes) != len(rs2.Outcomes) {
		t.Fatalf("expected the same number of runs for the same seed")
	}
	for i := range rs1.Outcomes {
		if len(rs1.Outcomes[i].Trace) != len(rs2.Outcomes[i].Trace) {
			t.Fatalf("run %d: expected identical trace lengths for the same (seed, reuse)", i)
		}
	}
}

func TestRunSCTDiscardCanDropOnlyTheTrace(t *testing.T) {
	discard := func(executor.Result) (settings.DiscardAction, bool) {
		return settings.DiscardTrace, true
	}
	rs := RunSCTDiscard(newRaceProgram, discard)
	if len(rs.Discarded) != 0 {
		t.Fatalf("expected nothing fully discarded, got %d", len(rs.Discarded))
	}
	if len(rs.Outcomes) == 0 {
		t.Fatalf("expected outcomes to still be reported")
	}
	for _, o := range rs.Outcomes {
		if o.Trace != nil {
			t.Fatalf("expected every trace to be dropped, got %v", o.Trace)
		}
	}
}

func TestRunSCTDiscardCanDropResultAndTrace(t *testing.T) {
	discard := func(executor.Result) (settings.DiscardAction, bool) {
		return settings.DiscardResultAndTrace, true
	}
	rs := RunSCTDiscard(newRaceProgram, discard)
	if len(rs.Outcomes) != 0 {
		t.Fatalf("expected every outcome to be fully discarded, got %d kept", len(rs.Outcomes))
	}
	if len(rs.Discarded) == 0 {
		t.Fatalf("expected discarded results to be recorded")
	}
}

func TestResultsSetDeduplicatesOutcomes(t *testing.T) {
	rs := RunSCT(newRaceProgram)
	if len(rs.Outcomes) < 2 {
		t.Fatalf("expected systematic exploration to find more than one interleaving to dedup")
	}

	set := ResultsSet(newRaceProgram)
	if len(set) != 1 {
		t.Fatalf("expected both interleavings of raceProgram to collapse to one distinct outcome, got %d", len(set))
	}
	if !set[0].Ok() {
		t.Fatalf("expected the deduplicated outcome to be a success")
	}
}

func TestReplayReproducesARecordedTrace(t *testing.T) {
	rs := RunSCT(newRaceProgram)
	if len(rs.Outcomes) == 0 {
		t.Fatalf("expected at least one explored outcome")
	}
	original := rs.Outcomes[0]

	result, trace := Replay(newRaceProgram(), original.Trace, memmodel.SequentialConsistency)
	if result.Ok() != original.Result.Ok() {
		t.Fatalf("replay did not reproduce the original outcome")
	}
	if len(trace) != len(original.Trace) {
		t.Fatalf("replay produced a trace of different length: got %d, want %d", len(trace), len(original.Trace))
	}
}
