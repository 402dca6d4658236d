// Package settings holds the configuration record threaded through a
// single exploration run: which Way drives the scheduler, which
// memory model the executor simulates under, which results are
// discarded rather than reported, and the debug hooks used to dump
// internal state on request.
package settings

import (
	"sct/executor"
	"sct/memmodel"
)

// Way selects the exploration strategy: systematic DPOR, uniform
// random sampling, or weighted random sampling (swarm testing).
type Way interface {
	way()
}

// Systematic explores every interleaving admitted by bnd via DPOR,
// stopping once the exploration tree is exhausted.
type Systematic struct{}

func (Systematic) way() {}

// Uniform runs Runs executions, each picking uniformly among runnable
// threads at every step, seeded from Seed.
type Uniform struct {
	Runs int
	Seed int64
}

func (Uniform) way() {}

// Weighted runs Runs executions under a per-thread weight draw (see
// scheduler.WeightedRandom), seeded from Seed. The same
// weight draw is reused across a batch of Reuse consecutive runs
// before being discarded and redrawn for the next batch — swarm
// testing's "run a fixed skew for a while, then pick a new one". A
// Reuse of zero is treated as Runs, i.e. one draw for the whole call.
type Weighted struct {
	Runs      int
	Seed      int64
	MaxWeight int
	Reuse     int
}

func (Weighted) way() {}

// DiscardAction distinguishes the two ways a result can be dropped
// from the reported Results: keep the Result but omit the Trace that produced
// it, or omit both entirely.
type DiscardAction int

const (
	DiscardTrace DiscardAction = iota
	DiscardResultAndTrace
)

func (a DiscardAction) String() string {
	if a == DiscardResultAndTrace {
		return "discard-result-and-trace"
	}
	return "discard-trace"
}

// Discard inspects a run's Result (success or Failure alike) and
// reports whether and how it should be dropped. A nil Discard, or one
// that returns ok=false, keeps every outcome in full.
type Discard func(executor.Result) (action DiscardAction, ok bool)

// Settings is the full configuration for one exploration run.
type Settings struct {
	Way       Way
	MemType   memmodel.Type
	Discard   Discard
	DebugShow func(any) string
	DebugPrint func(string)
}

// Default returns the baseline Settings: systematic exploration under
// sequential consistency, nothing discarded, debug output disabled.
func Default() Settings {
	return Settings{
		Way:        Systematic{},
		MemType:    memmodel.SequentialConsistency,
		Discard:    nil,
		DebugShow:  func(v any) string { return "" },
		DebugPrint: func(string) {},
	}
}

// WithWay returns a copy of s using way.
func WithWay(s Settings, way Way) Settings {
	s.Way = way
	return s
}

// WithMemType returns a copy of s using memType.
func WithMemType(s Settings, memType memmodel.Type) Settings {
	s.MemType = memType
	return s
}

// WithDiscard returns a copy of s using discard.
func WithDiscard(s Settings, discard Discard) Settings {
	s.Discard = discard
	return s
}

// WithDebugShow returns a copy of s that renders dumped values with
// show instead of the default no-op.
func WithDebugShow(s Settings, show func(any) string) Settings {
	s.DebugShow = show
	return s
}

// WithDebugPrint returns a copy of s that sends dumped lines to print
// instead of discarding them.
func WithDebugPrint(s Settings, print func(string)) Settings {
	s.DebugPrint = print
	return s
}

// ShouldDiscard reports how result should be dropped from the result
// set under s, if at all.
func (s Settings) ShouldDiscard(result executor.Result) (DiscardAction, bool) {
	if s.Discard == nil {
		return 0, false
	}
	return s.Discard(result)
}
