package thread

import "fmt"

// Kind enumerates the primitive operations a thread can perform.
type Kind int

const (
	Fork Kind = iota
	Yield
	TakeLock
	ReleaseLock
	ReadCRef
	WriteCRef
	CommitCRef
	STMRetry
	STMCommit
	Throw
	Catch
	Terminate
	Block
)

func (k Kind) String() string {
	switch k {
	case Fork:
		return "fork"
	case Yield:
		return "yield"
	case TakeLock:
		return "take-lock"
	case ReleaseLock:
		return "release-lock"
	case ReadCRef:
		return "read-cref"
	case WriteCRef:
		return "write-cref"
	case CommitCRef:
		return "commit-cref"
	case STMRetry:
		return "stm-retry"
	case STMCommit:
		return "stm-commit"
	case Throw:
		return "throw"
	case Catch:
		return "catch"
	case Terminate:
		return "terminate"
	case Block:
		return "block"
	default:
		return "unknown"
	}
}

// Action describes what a thread just did. Ref identifies the shared
// resource touched by CRef/lock/STM actions (empty when not applicable).
// Forked carries the id handed to a newly spawned thread; STMTxn groups
// actions that belong to the same transaction so the dependency relation
// can treat a whole transaction as one scheduling event (see dpor package).
type Action struct {
	Kind   Kind
	Ref    string
	Forked ID
	STMTxn string
	Err    error
}

// WillYield reports whether the action is yield-like: the scheduler may
// treat a switch away from this action as non-preemptive.
func (a Action) WillYield() bool {
	return a.Kind == Yield
}

// WillRelease reports whether the action releases a shared resource a
// blocked thread might be waiting to acquire.
func (a Action) WillRelease() bool {
	return a.Kind == ReleaseLock || a.Kind == STMCommit
}

// IsCommitRef reports whether the action is the commit of a buffered
// write performed by a commit thread.
func (a Action) IsCommitRef() bool {
	return a.Kind == CommitCRef
}

// Lookahead erases the runtime-unknown fields of the action, leaving only
// what can be known about the next step before it is executed.
func (a Action) Lookahead() Lookahead {
	return Lookahead{Kind: a.Kind, Ref: a.Ref, STMTxn: a.STMTxn}
}

func (a Action) String() string {
	switch {
	case a.Ref != "":
		return fmt.Sprintf("%v(%s)", a.Kind, a.Ref)
	case a.Kind == Fork:
		return fmt.Sprintf("fork(%v)", a.Forked)
	default:
		return a.Kind.String()
	}
}

// Lookahead is a projection of the next action a thread will perform,
// used to reason about a step before it has executed.
type Lookahead struct {
	Kind   Kind
	Ref    string
	STMTxn string
}

func (l Lookahead) String() string {
	if l.Ref != "" {
		return fmt.Sprintf("%v(%s)", l.Kind, l.Ref)
	}
	return l.Kind.String()
}

// WillRelease mirrors Action.WillRelease for the next action a thread
// is about to perform, before it has actually run.
func (l Lookahead) WillRelease() bool {
	return l.Kind == ReleaseLock || l.Kind == STMCommit
}
