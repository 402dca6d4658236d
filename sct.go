// Package sct is the public surface of the systematic concurrency
// testing engine: configure a Settings value with the With*/Sct*
// helpers below, hand it a Program, and collect every distinct
// outcome the exploration strategy finds as a Results value.
package sct

import (
	"io"

	"sct/bound"
	"sct/config"
	"sct/driver"
	"sct/executor"
	"sct/internal/logging"
	"sct/memmodel"
	"sct/schedule"
	"sct/scheduler"
	"sct/settings"
)

// RunOption configures one exploration run on top of the Settings
// baseline: a bound, a memory model, an export writer, a debug sink,
// or a random Way's runs, seed, max weight or reuse. Mirrors the teacher's config.*Option + switch-type dispatch.
type RunOption interface {
	SCTOpt()
}

// WithBound constrains systematic exploration with bnd.
func WithBound(bnd bound.Func) RunOption {
	return config.BoundOption{Bound: bnd}
}

// WithMemType runs the program under memType instead of sequential
// consistency.
func WithMemType(memType memmodel.Type) RunOption {
	return config.MemTypeOption{MemType: memType}
}

// WithDebugLog renders every failure, kept or discarded, and every
// trace that is kept through spew.Sdump and writes them to w.
func WithDebugLog(w io.Writer) RunOption {
	p := logging.New(w, true)
	return config.DebugOption{
		Show:  logging.Sdump,
		Print: func(s string) { p.Printf("%s\n", s) },
	}
}

// WithExport adds a writer that every kept trace is dumped to as it
// is found, useful for streaming exploration progress to a log file.
func WithExport(w io.Writer) RunOption {
	return config.ExportOption{W: w}
}

// WithRuns overrides how many executions a random Way samples.
func WithRuns(runs int) RunOption {
	return config.RunsOption{Runs: runs}
}

// WithSeed overrides the seed a random Way draws from.
func WithSeed(seed int64) RunOption {
	return config.SeedOption{Seed: seed}
}

// WithMaxWeight overrides the upper bound on a thread's weight draw
// under weighted random exploration.
func WithMaxWeight(maxWeight int) RunOption {
	return config.MaxWeightOption{MaxWeight: maxWeight}
}

// WithReuse overrides how many consecutive runs share one weight draw
// under weighted random exploration before a new one is drawn.
func WithReuse(reuse int) RunOption {
	return config.ReuseOption{Reuse: reuse}
}

// Results collects every outcome of one exploration run: the distinct
// (Result, Trace) pairs kept, plus the Results (success or Failure
// alike) that the Settings' Discard policy dropped entirely rather
// than reported.
type Results struct {
	Outcomes  []driver.Outcome
	Discarded []executor.Result
}

// Failed reports whether any kept outcome ended in a Failure.
func (rs Results) Failed() bool {
	for _, o := range rs.Outcomes {
		if !o.Result.Ok() {
			return true
		}
	}
	return false
}

// applyOptions folds opts onto the baseline Settings, returning the
// configured Settings and the bound to explore under.
func applyOptions(base settings.Settings, opts []RunOption) (settings.Settings, bound.Func, []io.Writer) {
	var bnd bound.Func = bound.NoBound{}
	var exports []io.Writer
	s := base
	for _, opt := range opts {
		switch t := opt.(type) {
		case config.BoundOption:
			bnd = t.Bound
		case config.MemTypeOption:
			s = settings.WithMemType(s, t.MemType)
		case config.ExportOption:
			exports = append(exports, t.W)
		case config.DebugOption:
			s = settings.WithDebugShow(s, t.Show)
			s = settings.WithDebugPrint(s, t.Print)
		case config.RunsOption:
			s = withRuns(s, t.Runs)
		case config.SeedOption:
			s = withSeed(s, t.Seed)
		case config.MaxWeightOption:
			s = withMaxWeight(s, t.MaxWeight)
		case config.ReuseOption:
			s = withReuse(s, t.Reuse)
		}
	}
	return s, bnd, exports
}

func withRuns(s settings.Settings, runs int) settings.Settings {
	switch way := s.Way.(type) {
	case settings.Uniform:
		way.Runs = runs
		s.Way = way
	case settings.Weighted:
		way.Runs = runs
		s.Way = way
	}
	return s
}

func withSeed(s settings.Settings, seed int64) settings.Settings {
	switch way := s.Way.(type) {
	case settings.Uniform:
		way.Seed = seed
		s.Way = way
	case settings.Weighted:
		way.Seed = seed
		s.Way = way
	}
	return s
}

func withMaxWeight(s settings.Settings, maxWeight int) settings.Settings {
	if way, ok := s.Way.(settings.Weighted); ok {
		way.MaxWeight = maxWeight
		s.Way = way
	}
	return s
}

func withReuse(s settings.Settings, reuse int) settings.Settings {
	if way, ok := s.Way.(settings.Weighted); ok {
		way.Reuse = reuse
		s.Way = way
	}
	return s
}

// RunSCT explores program systematically under DPOR, reporting every
// distinct outcome found. program is called once per run to obtain a
// fresh instance, so its CRefs/Locks/MVars must be allocated inside it
// (an example's own New function satisfies this directly).
func RunSCT(program driver.New, opts ...RunOption) Results {
	return RunSCTWithSettings(settings.WithWay(settings.Default(), settings.Systematic{}), program, opts...)
}

// RunSCTStrict behaves like RunSCT but panics if any kept outcome
// ended in a Failure, for use in tests that assert full correctness.
func RunSCTStrict(program driver.New, opts ...RunOption) Results {
	rs := RunSCT(program, opts...)
	failIfFailed(rs)
	return rs
}

// RunSCTDiscard behaves like RunSCT but drops or trims any outcome
// discard reports a DiscardAction for from the reported Results.
func RunSCTDiscard(program driver.New, discard settings.Discard, opts ...RunOption) Results {
	s := settings.WithDiscard(settings.WithWay(settings.Default(), settings.Systematic{}), discard)
	return RunSCTWithSettings(s, program, opts...)
}

// SctBound is RunSCT with bnd applied as the systematic exploration
// bound, the common case of WithBound spelled as an entry point.
func SctBound(program driver.New, bnd bound.Func, opts ...RunOption) Results {
	return RunSCT(program, append([]RunOption{WithBound(bnd)}, opts...)...)
}

// SctUniformRandom explores program with runs independent executions,
// each picking uniformly among runnable threads, seeded from seed.
func SctUniformRandom(program driver.New, runs int, seed int64, opts ...RunOption) Results {
	s := settings.WithWay(settings.Default(), settings.Uniform{Runs: runs, Seed: seed})
	return RunSCTWithSettings(s, program, opts...)
}

// SctUniformRandomStrict behaves like SctUniformRandom but panics if
// any kept outcome ended in a Failure.
func SctUniformRandomStrict(program driver.New, runs int, seed int64, opts ...RunOption) Results {
	rs := SctUniformRandom(program, runs, seed, opts...)
	failIfFailed(rs)
	return rs
}

// SctWeightedRandom explores program with runs swarm-testing
// executions, each thread's weight drawn from [1, maxWeight] and
// shared across every reuse consecutive runs before being redrawn for
// the next batch, seeded from seed.
func SctWeightedRandom(program driver.New, runs int, seed int64, maxWeight int, reuse int, opts ...RunOption) Results {
	s := settings.WithWay(settings.Default(), settings.Weighted{Runs: runs, Seed: seed, MaxWeight: maxWeight, Reuse: reuse})
	return RunSCTWithSettings(s, program, opts...)
}

// SctWeightedRandomStrict behaves like SctWeightedRandom but panics
// if any kept outcome ended in a Failure.
func SctWeightedRandomStrict(program driver.New, runs int, seed int64, maxWeight int, reuse int, opts ...RunOption) Results {
	rs := SctWeightedRandom(program, runs, seed, maxWeight, reuse, opts...)
	failIfFailed(rs)
	return rs
}

// RunSCTWithSettings explores program under a caller-built Settings
// value, with opts layered on top of it.
func RunSCTWithSettings(base settings.Settings, program driver.New, opts ...RunOption) Results {
	s, bnd, exports := applyOptions(base, opts)

	it := driver.Explore(s, program, bnd)
	var rs Results
	for {
		outcome, ok := it.Next()
		if !ok {
			break
		}
		if outcome.Discarded {
			rs.Discarded = append(rs.Discarded, outcome.Result)
			continue
		}
		if outcome.Trace != nil {
			for _, w := range exports {
				io.WriteString(w, logging.Sdump(outcome.Trace))
			}
		}
		rs.Outcomes = append(rs.Outcomes, outcome)
	}
	return rs
}

func failIfFailed(rs Results) {
	for _, o := range rs.Outcomes {
		if !o.Result.Ok() {
			panic("sct: run failed: " + o.Result.Failure.Error())
		}
	}
}

// ResultsSet explores program like RunSCT, but forces every run's
// trace to be dropped and deduplicates the kept Results so that
// distinct interleavings producing the same outcome are reported
// once. This is runSCT composed with an always-on discard-trace
// policy, then grouped into a set keyed by Result equality, matching
// what a caller who only wants distinct outcomes (not reproductions)
// is after.
func ResultsSet(program driver.New, opts ...RunOption) []executor.Result {
	s := settings.WithDiscard(settings.WithWay(settings.Default(), settings.Systematic{}), alwaysDiscardTrace)
	rs := RunSCTWithSettings(s, program, opts...)

	seen := map[string]struct{}{}
	var out []executor.Result
	for _, o := range rs.Outcomes {
		key := resultKey(o.Result)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, o.Result)
	}
	return out
}

func alwaysDiscardTrace(executor.Result) (settings.DiscardAction, bool) {
	return settings.DiscardTrace, true
}

// resultKey renders r into a string two equal Results always share and
// two unequal ones almost never do, used to dedup ResultsSet's output.
// Results carry an any-typed Value with no Equal method of its own, so
// this reuses the same spew.Sdump rendering already wired in for debug
// output rather than reaching for reflect.DeepEqual.
func resultKey(r executor.Result) string {
	if r.Failure != nil {
		cause := ""
		if r.Failure.Cause != nil {
			cause = r.Failure.Cause.Error()
		}
		return "failure:" + r.Failure.Kind.String() + ":" + cause
	}
	return "value:" + logging.Sdump(r.Value)
}

// Replay re-executes program forcing exactly the thread choices
// recorded in trace, returning the reproduced outcome. Used to
// confirm a counterexample found during exploration is reproducible.
func Replay(program executor.Program, trace schedule.Trace, memType memmodel.Type) (executor.Result, schedule.Trace) {
	sched := scheduler.NewReplay(scheduler.ReplayOf(trace))
	return executor.Run(sched, memType, program)
}
