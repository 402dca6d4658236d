package memmodel

import "sct/thread"

// bufferKey identifies a per-thread (TSO) or per-thread-per-CRef (PSO)
// buffer queue.
type bufferKey struct {
	tid thread.ID
	ref string // empty for TSO, where the whole thread shares one queue
}

// buffered implements both TotalStoreOrder (perThread == true, one queue
// per thread) and PartialStoreOrder (perThread == false, one queue per
// thread-per-CRef) since the two differ only in how writes are grouped
// into commit queues.
type buffered struct {
	perThread bool
	queues    map[bufferKey][]Write
	owner     map[thread.ID]bufferKey
}

func newBuffered(perThread bool) *buffered {
	return &buffered{
		perThread: perThread,
		queues:    make(map[bufferKey][]Write),
		owner:     make(map[thread.ID]bufferKey),
	}
}

func (b *buffered) Type() Type {
	if b.perThread {
		return TotalStoreOrder
	}
	return PartialStoreOrder
}

func (b *buffered) keyFor(tid thread.ID, ref string) bufferKey {
	if b.perThread {
		return bufferKey{tid: tid}
	}
	return bufferKey{tid: tid, ref: ref}
}

func (b *buffered) Buffer(tid thread.ID, ref string, apply func(), alloc func() thread.ID) thread.ID {
	key := b.keyFor(tid, ref)
	b.queues[key] = append(b.queues[key], Write{Ref: ref, Apply: apply})

	for ctid, k := range b.owner {
		if k == key {
			return ctid
		}
	}
	ctid := alloc()
	b.owner[ctid] = key
	return ctid
}

func (b *buffered) CommitChoices() []thread.ID {
	out := []thread.ID{}
	for ctid, key := range b.owner {
		if len(b.queues[key]) > 0 {
			out = append(out, ctid)
		}
	}
	return out
}

func (b *buffered) Commit(ctid thread.ID) (Write, bool) {
	key, ok := b.owner[ctid]
	if !ok {
		return Write{}, false
	}
	q := b.queues[key]
	if len(q) == 0 {
		return Write{}, false
	}
	w := q[0]
	b.queues[key] = q[1:]
	if len(b.queues[key]) == 0 {
		delete(b.owner, ctid)
		delete(b.queues, key)
	}
	return w, true
}
