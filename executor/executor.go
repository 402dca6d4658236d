// Package executor drives a single deterministic execution of a Program
// under the direction of a Scheduler: exactly one user thread runs
// between scheduler calls, matching the cooperative model the rest of
// the engine assumes.
package executor

import (
	"fmt"

	"golang.org/x/exp/slices"

	"sct/failure"
	"sct/memmodel"
	"sct/schedule"
	"sct/thread"
)

// slot is the pair of channels the executor and a single thread's
// goroutine use to hand control back and forth. A thread sends on offer
// to announce its next step and blocks on proceed until the executor
// has chosen it.
type slot struct {
	offer   chan thread.Action
	proceed chan struct{}
	start   chan struct{}
}

func newSlot() *slot {
	return &slot{
		offer:   make(chan thread.Action),
		proceed: make(chan struct{}),
		start:   make(chan struct{}),
	}
}

type run struct {
	mem     memmodel.Model
	memType memmodel.Type
	alloc   *thread.Allocator
	sched   Scheduler

	threads    map[thread.ID]*slot
	blocked    map[thread.ID]thread.Action
	terminated map[thread.ID]bool

	resultValue any
}

// Run drives program to completion under sched and the given memory
// model, returning the outcome and the trace of steps that produced it.
func Run(sched Scheduler, memType memmodel.Type, program Program) (Result, schedule.Trace) {
	r := &run{
		mem:        memmodel.New(memType),
		memType:    memType,
		alloc:      thread.NewAllocator(),
		sched:      sched,
		threads:    map[thread.ID]*slot{},
		blocked:    map[thread.ID]thread.Action{},
		terminated: map[thread.ID]bool{},
	}

	initial := program.Threads()
	ids := make([]thread.ID, 0, len(initial))
	for id := range initial {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		r.threads[id] = newSlot()
		r.alloc.Reserve(id)
	}
	// Threads are launched one at a time, each run up to its first
	// scheduled step before the next is started, so that no two thread
	// preludes can race on a shared primitive before the executor has
	// taken control of interleaving.
	runnable := map[thread.ID]thread.Action{}
	for _, id := range ids {
		go r.runThread(id, initial[id])
		r.threads[id].start <- struct{}{}
		r.observe(id, <-r.threads[id].offer, runnable)
	}

	var (
		prior   schedule.Decision
		started = map[thread.ID]bool{}
		trace   schedule.Trace
		outcome *failure.Failure
	)

	for {
		r.retryBlocked(runnable)

		if len(runnable) == 0 {
			if len(r.blocked) > 0 {
				outcome = failure.New(failure.Deadlock)
			}
			break
		}

		for _, ctid := range r.mem.CommitChoices() {
			if _, ok := runnable[ctid]; !ok {
				runnable[ctid] = thread.Action{Kind: thread.CommitCRef}
			}
		}

		lookahead := make(map[thread.ID]thread.Lookahead, len(runnable))
		for id, a := range runnable {
			lookahead[id] = a.Lookahead()
		}

		chosen := r.sched.Next(prior, lookahead)
		if r.sched.BoundKill() {
			// A bound exhausted every admissible choice; the user
			// goroutines left offering or blocked are abandoned, so
			// this run never reaches Terminate for them.
			outcome = failure.New(failure.Abort)
			break
		}
		action, ok := runnable[chosen]
		if !ok {
			outcome = failure.Wrap(failure.InternalError, fmt.Errorf("scheduler chose non-runnable thread %v", chosen))
			break
		}
		delete(runnable, chosen)

		// A commit thread's placeholder action carries no ref on its
		// own (runnable[ctid] is seeded blind, before any write is
		// known to be popped); r.mem.Commit names the CRef actually
		// being flushed, so the trace step records that ref instead
		// of an empty one dpor.Dependent would treat as unrelated to
		// every other step touching the same CRef.
		var apply func()
		if chosen.IsCommit() {
			if w, ok := r.mem.Commit(chosen); ok {
				action.Ref = w.Ref
				apply = w.Apply
			}
		}

		var decision schedule.Decision
		switch {
		case !started[chosen]:
			decision = schedule.Decision{Kind: schedule.Start, Thread: chosen}
		case prior.Thread == chosen:
			decision = schedule.Decision{Kind: schedule.Continue, Thread: chosen}
		default:
			decision = schedule.Decision{Kind: schedule.SwitchTo, Thread: chosen}
		}
		started[chosen] = true
		prior = decision

		step := schedule.Step{
			Decision:     decision,
			Alternatives: r.sched.Alternatives(),
			Action:       action,
			Runnable:     lookahead,
		}
		trace = append(trace, step)
		r.sched.Observe(step)

		if chosen.IsCommit() {
			if apply != nil {
				apply()
			}
			continue
		}

		if action.Kind == thread.Terminate {
			r.terminated[chosen] = true
			r.threads[chosen].proceed <- struct{}{}
			if action.Err != nil {
				outcome = failure.Wrap(failure.UncaughtException, action.Err)
				break
			}
			continue
		}

		r.threads[chosen].proceed <- struct{}{}
		r.observe(chosen, <-r.threads[chosen].offer, runnable)

		if action.Kind == thread.Fork {
			r.threads[action.Forked].start <- struct{}{}
			r.observe(action.Forked, <-r.threads[action.Forked].offer, runnable)
		}
	}

	if r.sched.Ignore() {
		return Result{Failure: failure.New(failure.Abort)}, trace
	}
	if outcome != nil {
		return Result{Failure: outcome}, trace
	}
	return Result{Value: r.resultValue}, trace
}

// observe files a just-received offer into either the blocked set or the
// runnable set.
func (r *run) observe(id thread.ID, a thread.Action, runnable map[thread.ID]thread.Action) {
	if a.Kind == thread.Block {
		r.blocked[id] = a
		return
	}
	runnable[id] = a
}

// retryBlocked gives every currently blocked thread one chance to
// re-offer, in ascending thread id order so that, given the same prior
// trace, contended resources are always retried in the same order.
func (r *run) retryBlocked(runnable map[thread.ID]thread.Action) {
	if len(r.blocked) == 0 {
		return
	}
	ids := make([]thread.ID, 0, len(r.blocked))
	for id := range r.blocked {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		delete(r.blocked, id)
		r.threads[id].proceed <- struct{}{}
		r.observe(id, <-r.threads[id].offer, runnable)
	}
}

func (r *run) runThread(id thread.ID, f func(Context)) {
	<-r.threads[id].start

	ctx := &threadCtx{id: id, r: r}
	var panicErr error
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				panicErr = toError(rec)
			}
		}()
		f(ctx)
	}()
	r.threads[id].offer <- thread.Action{Kind: thread.Terminate, Err: panicErr}
	<-r.threads[id].proceed
}

func toError(rec any) error {
	if err, ok := rec.(error); ok {
		return err
	}
	return fmt.Errorf("%v", rec)
}

// threadCtx is the Context implementation handed to a running thread.
type threadCtx struct {
	id thread.ID
	r  *run
}

func (c *threadCtx) ID() thread.ID { return c.id }

func (c *threadCtx) MemModel() memmodel.Type { return c.r.memType }

func (c *threadCtx) Step(action thread.Action) {
	slot := c.r.threads[c.id]
	slot.offer <- action
	<-slot.proceed
}

func (c *threadCtx) Block(action thread.Action) {
	slot := c.r.threads[c.id]
	slot.offer <- thread.Action{Kind: thread.Block, Ref: action.Ref}
	<-slot.proceed
}

func (c *threadCtx) BufferWrite(ref string, apply func()) {
	c.r.mem.Buffer(c.id, ref, apply, c.r.alloc.NextCommit)
}

func (c *threadCtx) Spawn(f func(Context)) thread.ID {
	id := c.r.alloc.NextUser()
	c.r.threads[id] = newSlot()
	c.Step(thread.Action{Kind: thread.Fork, Forked: id})
	go c.r.runThread(id, f)
	return id
}

func (c *threadCtx) Yield() {
	c.Step(thread.Action{Kind: thread.Yield})
}

func (c *threadCtx) Return(value any) {
	c.r.resultValue = value
}
