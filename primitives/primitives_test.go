package primitives

import (
	"sort"
	"testing"

	"sct/executor"
	"sct/memmodel"
	"sct/schedule"
	"sct/thread"
)

// fifoScheduler always runs the lowest-numbered runnable thread; used
// here only to drive the executor deterministically, not to exercise
// exploration.
type fifoScheduler struct{}

func (fifoScheduler) Next(_ schedule.Decision, runnable map[thread.ID]thread.Lookahead) thread.ID {
	ids := make([]thread.ID, 0, len(runnable))
	for id := range runnable {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids[0]
}

func (fifoScheduler) Observe(schedule.Step) {}

func (fifoScheduler) Ignore() bool                      { return false }
func (fifoScheduler) BoundKill() bool                   { return false }
func (fifoScheduler) Alternatives() []schedule.Decision { return nil }

type counterProgram struct {
	counter *CRef[int]
	lock    *Lock
	perThread int
}

func (p counterProgram) Threads() map[thread.ID]func(executor.Context) {
	worker := func(ctx executor.Context) {
		for i := 0; i < p.perThread; i++ {
			p.lock.Take(ctx)
			v := p.counter.Read(ctx)
			p.counter.Write(ctx, v+1)
			p.lock.Release(ctx)
		}
	}
	return map[thread.ID]func(executor.Context){
		thread.Initial:     worker,
		thread.Initial + 1: worker,
	}
}

func TestCRefWithLockIsMutuallyExclusive(t *testing.T) {
	prog := counterProgram{counter: NewCRef(0), lock: NewLock(), perThread: 25}

	result, _ := executor.Run(fifoScheduler{}, memmodel.SequentialConsistency, prog)
	if !result.Ok() {
		t.Fatalf("expected successful run, got failure: %v", result.Failure)
	}

	got := prog.counter.Read(&staticContext{id: thread.Initial})
	if got != 50 {
		t.Fatalf("expected counter == 50, got %d", got)
	}
}

// staticContext is a bare-bones executor.Context used only to read a
// CRef's final value after a run has completed, when no scheduling is
// actually taking place.
type staticContext struct {
	id thread.ID
}

func (c *staticContext) ID() thread.ID                         { return c.id }
func (c *staticContext) MemModel() memmodel.Type                { return memmodel.SequentialConsistency }
func (c *staticContext) Step(thread.Action)                     {}
func (c *staticContext) Block(thread.Action)                    {}
func (c *staticContext) BufferWrite(string, func())              {}
func (c *staticContext) Spawn(func(executor.Context)) thread.ID { return 0 }
func (c *staticContext) Yield()                                 {}
func (c *staticContext) Return(any)                             {}

func TestMVarHandsOffValue(t *testing.T) {
	mv := NewEmptyMVar[int]()
	done := NewCRef(false)

	prog := struct{ threads map[thread.ID]func(executor.Context) }{
		threads: map[thread.ID]func(executor.Context){
			thread.Initial: func(ctx executor.Context) {
				mv.Put(ctx, 42)
			},
			thread.Initial + 1: func(ctx executor.Context) {
				v := mv.Take(ctx)
				done.Write(ctx, v == 42)
			},
		},
	}
	program := threadMapProgram(prog.threads)

	result, _ := executor.Run(fifoScheduler{}, memmodel.SequentialConsistency, program)
	if !result.Ok() {
		t.Fatalf("expected successful run, got failure: %v", result.Failure)
	}
	if !done.Read(&staticContext{id: thread.Initial}) {
		t.Fatalf("expected consumer to observe the value put by the producer")
	}
}

type threadMapProgram map[thread.ID]func(executor.Context)

func (p threadMapProgram) Threads() map[thread.ID]func(executor.Context) { return p }
