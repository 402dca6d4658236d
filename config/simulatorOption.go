package config

import (
	"sct/bound"
	"sct/memmodel"
)

// BoundOption configures the bound function(s) that constrain
// systematic exploration.
type BoundOption struct{ Bound bound.Func }

func (bo BoundOption) SCTOpt() {}

// MemTypeOption configures the memory model the executor simulates
// under.
type MemTypeOption struct{ MemType memmodel.Type }

func (mto MemTypeOption) SCTOpt() {}

// RunsOption configures how many executions a random Way samples.
type RunsOption struct{ Runs int }

func (ro RunsOption) SCTOpt() {}

// SeedOption configures the seed a random Way draws from.
type SeedOption struct{ Seed int64 }

func (so SeedOption) SCTOpt() {}

// MaxWeightOption configures the upper bound on a thread's weight
// draw under weighted random exploration.
type MaxWeightOption struct{ MaxWeight int }

func (mwo MaxWeightOption) SCTOpt() {}

// ReuseOption configures how many consecutive runs share one weight
// draw under weighted random exploration before it is redrawn.
type ReuseOption struct{ Reuse int }

func (ro ReuseOption) SCTOpt() {}
