package scheduler

import (
	"math/rand"

	"sct/schedule"
	"sct/thread"
)

// UniformRandom picks uniformly among the runnable threads at every
// step. Given the same seed it reproduces the same run, which is what
// lets a failing swarm-testing run be handed to Replay afterward.
type UniformRandom struct {
	rng *rand.Rand
}

// NewUniformRandom returns a scheduler seeded deterministically from
// seed.
func NewUniformRandom(seed int64) *UniformRandom {
	return &UniformRandom{rng: rand.New(rand.NewSource(seed))}
}

func (u *UniformRandom) Next(_ schedule.Decision, runnable map[thread.ID]thread.Lookahead) thread.ID {
	ids := sortedIDs(runnable)
	return ids[u.rng.Intn(len(ids))]
}

func (u *UniformRandom) Observe(schedule.Step) {}

func (u *UniformRandom) Ignore() bool    { return false }
func (u *UniformRandom) BoundKill() bool { return false }

func (u *UniformRandom) Alternatives() []schedule.Decision { return nil }

// WeightedRandom assigns each thread id a random weight on first sight
// and reuses it for every later choice for as long as the instance is
// used, across runs too; a weight is never redrawn. This biases a run
// toward favoring (or starving) particular threads throughout, which
// uniform per-step sampling cannot do, and is the strategy swarm
// testing actually wants: batches of runs, each batch skewed a
// different way by its own instance.
type WeightedRandom struct {
	rng     *rand.Rand
	maxW    int
	weights map[thread.ID]int
}

// NewWeightedRandom returns a scheduler seeded deterministically from
// seed, drawing each thread's weight uniformly from [1, maxWeight].
func NewWeightedRandom(seed int64, maxWeight int) *WeightedRandom {
	if maxWeight < 1 {
		maxWeight = 1
	}
	return &WeightedRandom{
		rng:     rand.New(rand.NewSource(seed)),
		maxW:    maxWeight,
		weights: map[thread.ID]int{},
	}
}

func (w *WeightedRandom) Next(_ schedule.Decision, runnable map[thread.ID]thread.Lookahead) thread.ID {
	ids := sortedIDs(runnable)

	total := 0
	for _, id := range ids {
		total += w.weightOf(id)
	}

	pick := w.rng.Intn(total)
	for _, id := range ids {
		pick -= w.weightOf(id)
		if pick < 0 {
			return id
		}
	}
	return ids[len(ids)-1]
}

func (w *WeightedRandom) weightOf(id thread.ID) int {
	wt, ok := w.weights[id]
	if !ok {
		wt = 1 + w.rng.Intn(w.maxW)
		w.weights[id] = wt
	}
	return wt
}

func (w *WeightedRandom) Observe(schedule.Step) {}

func (w *WeightedRandom) Ignore() bool    { return false }
func (w *WeightedRandom) BoundKill() bool { return false }

func (w *WeightedRandom) Alternatives() []schedule.Decision { return nil }
