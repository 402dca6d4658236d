package dpor

import "sct/thread"

// Dependent reports whether two actions from different threads could
// have observed each other, and so cannot be freely reordered in the
// search: they touch the same resource and at least one of them
// mutates it, one releases a resource the other could acquire, or they
// belong to the same software-transactional-memory transaction.
func Dependent(a, b thread.Action) bool {
	if a.STMTxn != "" && a.STMTxn == b.STMTxn {
		return true
	}
	if a.Ref == "" || b.Ref == "" || a.Ref != b.Ref {
		return false
	}
	if mutates(a) || mutates(b) {
		return true
	}
	if a.WillRelease() || b.WillRelease() {
		return true
	}
	if a.Kind == thread.TakeLock && b.Kind == thread.TakeLock {
		return true
	}
	return false
}

func mutates(a thread.Action) bool {
	return a.Kind == thread.WriteCRef || a.Kind == thread.CommitCRef
}
