// Package driver runs the single exploration loop that drives the DPOR
// tree, a scheduler strategy, and the executor to a lazy sequence of
// (Result, Trace) pairs — one per distinct run of the program under
// test.
package driver

import (
	"log"

	"golang.org/x/sync/errgroup"

	"sct/bound"
	"sct/dpor"
	"sct/executor"
	"sct/schedule"
	"sct/scheduler"
	"sct/settings"
	"sct/thread"
)

// maxConcurrentRandomRuns bounds how many independent random trials
// exploreUniform runs at once. Each uniform trial draws from its own
// scheduler instance and shares no state with any other, so running a
// bounded number concurrently is safe and shortens wall clock time for
// large run counts without changing which outcome each index in the
// sequence reports. exploreWeighted cannot use this: a batch of Reuse
// runs deliberately shares one scheduler's weight draws and rng, which
// makes those runs inherently sequential.
const maxConcurrentRandomRuns = 8

// Outcome is one run's result, together with the trace that produced
// it when one was kept. Discarded is set when Settings' Discard policy
// dropped the Result entirely (settings.DiscardResultAndTrace);
// Trace is nil whenever only the trace was dropped
// (settings.DiscardTrace) or the whole outcome was.
type Outcome struct {
	Result    executor.Result
	Trace     schedule.Trace
	Discarded bool
}

// Iterator yields Outcomes one at a time as the exploration loop
// produces them. Draining it fully is required to let the producing
// goroutine finish and release its resources.
type Iterator struct {
	outcomes chan Outcome
}

// Next blocks until the next Outcome is ready, returning false once
// exploration has finished.
func (it *Iterator) Next() (Outcome, bool) {
	o, ok := <-it.outcomes
	return o, ok
}

// New builds a fresh Program instance for a single run. Every exploring
// run calls this exactly once, so a Program's primitives (CRefs, Locks,
// MVars) must be allocated inside it rather than shared from outside —
// otherwise one run's mutations would leak into the next, which would
// make the "same program, different interleaving" premise DPOR relies
// on false. Example packages satisfy this simply by exposing their own
// New() constructor as the value passed here.
type New func() executor.Program

// Explore drives successive fresh instances of program under s,
// running it repeatedly according to s.Way and reporting every outcome
// on the returned Iterator; one that s.Discard dropped entirely arrives
// with Discarded set. The caller must drain it.
func Explore(s settings.Settings, program New, bnd bound.Func) *Iterator {
	if len(program().Threads()) == 0 {
		log.Panicf("driver: at least one thread must be provided to explore")
	}
	if bnd == nil {
		bnd = bound.NoBound{}
	}

	it := &Iterator{outcomes: make(chan Outcome)}
	go func() {
		defer close(it.outcomes)
		switch way := s.Way.(type) {
		case settings.Systematic:
			exploreSystematic(s, program, bnd, it)
		case settings.Uniform:
			exploreUniform(s, program, way, it)
		case settings.Weighted:
			exploreWeighted(s, program, way, it)
		default:
			log.Panicf("driver: unknown Way %T", s.Way)
		}
	}()
	return it
}

func exploreSystematic(s settings.Settings, program New, bnd bound.Func, it *Iterator) {
	tree := dpor.NewTree()
	var prefix []thread.ID

	for {
		sched := scheduler.NewDPOR(prefix, bnd)
		result, trace := executor.Run(sched, s.MemType, program())

		// A bound that kills the very first scheduling decision never
		// let the program take a single step: the run contributes
		// nothing to explore and reports nothing, rather than
		// surfacing a hollow Abort for a trace that never happened.
		// A bound that kills partway through a real run (the trace is
		// non-empty) still gets reported — that abort is itself an
		// interleaving worth knowing about.
		killedImmediately := sched.BoundKill() && len(trace) == 0

		if !sched.Ignore() && !killedImmediately {
			tree.IncorporateTrace(trace)
			tree.IncorporateBacktrackSteps(trace, dpor.FindBacktrackSteps(trace, bnd, sched.BoundKill()))
			emit(s, it, result, trace)
		}

		if tree.Exhausted() {
			return
		}
		next, ok := tree.NextPrefix()
		if !ok {
			return
		}
		prefix = next
	}
}

func exploreUniform(s settings.Settings, program New, way settings.Uniform, it *Iterator) {
	runOutcomes(s, way.Runs, it, func(i int) (executor.Result, schedule.Trace) {
		sched := scheduler.NewUniformRandom(way.Seed + int64(i))
		return executor.Run(sched, s.MemType, program())
	})
}

// exploreWeighted runs way.Runs executions in batches of way.Reuse: one
// WeightedRandom instance, and the per-thread weight draw it has
// cached, is shared across every run in a batch before being replaced
// by a freshly seeded one for the next batch. Reuse<=0 means one batch
// covering the whole run count. Sharing a scheduler instance across
// runs means the runs in a batch must execute one at a time rather
// than through runOutcomes' concurrent fan-out.
func exploreWeighted(s settings.Settings, program New, way settings.Weighted, it *Iterator) {
	reuse := way.Reuse
	if reuse <= 0 {
		reuse = way.Runs
	}
	var sched *scheduler.WeightedRandom
	for i := 0; i < way.Runs; i++ {
		if i%reuse == 0 {
			sched = scheduler.NewWeightedRandom(way.Seed+int64(i), way.MaxWeight)
		}
		result, trace := executor.Run(sched, s.MemType, program())
		emit(s, it, result, trace)
	}
}

// runOutcomes runs n independent trials through run, up to
// maxConcurrentRandomRuns at a time, then emits them in trial order
// regardless of which finished first — concurrency only shortens wall
// clock time, it never reorders what each index reports.
func runOutcomes(s settings.Settings, n int, it *Iterator, run func(i int) (executor.Result, schedule.Trace)) {
	type outcome struct {
		result executor.Result
		trace  schedule.Trace
	}
	outcomes := make([]outcome, n)

	var g errgroup.Group
	g.SetLimit(maxConcurrentRandomRuns)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			result, trace := run(i)
			outcomes[i] = outcome{result: result, trace: trace}
			return nil
		})
	}
	g.Wait()

	for _, o := range outcomes {
		emit(s, it, o.result, o.trace)
	}
}

func emit(s settings.Settings, it *Iterator, result executor.Result, trace schedule.Trace) {
	if result.Failure != nil {
		s.DebugPrint(s.DebugShow(result.Failure))
	}

	action, drop := s.ShouldDiscard(result)
	if !drop {
		s.DebugPrint(s.DebugShow(trace))
		it.outcomes <- Outcome{Result: result, Trace: trace}
		return
	}

	out := Outcome{Result: result, Discarded: true}
	if action == settings.DiscardTrace {
		out.Discarded = false
	}
	it.outcomes <- out
}
