package journey

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a step failed.
type FailureKind int

const (
	// NoFailure is the kind carried by passing outcomes.
	NoFailure FailureKind = iota
	// FailTimeout means an expected condition never held within its bound.
	FailTimeout
	// FailNotFound means a required element was absent at lookup time.
	FailNotFound
	// FailFault is any other error or a recovered panic.
	FailFault
)

// String returns the diagnostic name of the kind.
func (k FailureKind) String() string {
	switch k {
	case NoFailure:
		return ""
	case FailTimeout:
		return "timeout"
	case FailNotFound:
		return "not-found"
	case FailFault:
		return "fault"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON reports.
func (k FailureKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Outcome is the tagged result of running one step.
type Outcome struct {
	Passed  bool
	Kind    FailureKind
	Message string
}

// Pass returns a passing outcome.
func Pass(message string) Outcome {
	return Outcome{Passed: true, Message: message}
}

// Passf returns a passing outcome with a formatted message.
func Passf(format string, args ...any) Outcome {
	return Pass(fmt.Sprintf(format, args...))
}

// Fail returns a failing outcome of the given kind.
func Fail(kind FailureKind, message string) Outcome {
	if kind == NoFailure {
		kind = FailFault
	}
	return Outcome{Kind: kind, Message: message}
}

// FromError converts err into a failing outcome, classifying it by the
// sentinel it wraps. A nil err yields a fault, since callers only reach
// for FromError on a failure path.
func FromError(err error) Outcome {
	if err == nil {
		return Fail(FailFault, "step failed without an error")
	}
	return Fail(KindOf(err), err.Error())
}

// KindOf classifies err as timeout, not-found or fault.
func KindOf(err error) FailureKind {
	switch {
	case errors.Is(err, ErrTimeout):
		return FailTimeout
	case errors.Is(err, ErrNotFound):
		return FailNotFound
	default:
		return FailFault
	}
}
