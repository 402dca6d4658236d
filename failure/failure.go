// Package failure defines the outcomes the executor reports when a
// computation cannot continue normally. These are data, not engine
// errors: the driver records them inside a Result and keeps exploring.
package failure

import "fmt"

// Kind enumerates the ways a run can fail to reach a normal result.
type Kind int

const (
	Deadlock Kind = iota
	STMDeadlock
	InternalError
	Abort
	IllegalSubconcurrency
	UncaughtException
)

func (k Kind) String() string {
	switch k {
	case Deadlock:
		return "deadlock"
	case STMDeadlock:
		return "stm-deadlock"
	case InternalError:
		return "internal-error"
	case Abort:
		return "abort"
	case IllegalSubconcurrency:
		return "illegal-subconcurrency"
	case UncaughtException:
		return "uncaught-exception"
	default:
		return "unknown-failure"
	}
}

// Failure is a tagged outcome of an execution that did not terminate
// normally. It implements error so it can be carried inside a Result's
// error slot without a separate sum type.
type Failure struct {
	Kind Kind
	// Cause carries the underlying panic/error for InternalError and
	// UncaughtException; nil for the other kinds.
	Cause error
}

func (f *Failure) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%v: %v", f.Kind, f.Cause)
	}
	return f.Kind.String()
}

// Is lets errors.Is match on Kind alone, so
// errors.Is(err, failure.New(failure.Deadlock)) holds for any Deadlock
// failure, whatever its Cause.
func (f *Failure) Is(target error) bool {
	other, ok := target.(*Failure)
	if !ok {
		return false
	}
	return f.Kind == other.Kind
}

func New(kind Kind) *Failure               { return &Failure{Kind: kind} }
func Wrap(kind Kind, cause error) *Failure { return &Failure{Kind: kind, Cause: cause} }
