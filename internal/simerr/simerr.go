// Package simerr names the four error categories from spec.md Section 7 so
// resolvers and the orchestrator can distinguish them without ad-hoc string
// matching.
package simerr

import "fmt"

// Category classifies a failure the way spec.md Section 7 does.
type Category uint8

const (
	// Programming indicates an invariant violation or malformed input
	// (non-finite RNG bound, clamp failure). The tick is rejected whole.
	Programming Category = iota
	// Soft indicates a resolver precondition failed at resolution time
	// (actor/target unavailable). Produces attempt.aborted, no further
	// mutation.
	Soft
	// Roll indicates a resolved action rolled to fail. Still a successful
	// tick — the attempt-recorded event carries success:false.
	Roll
	// ExternalIO indicates a log/snapshot sink failure, isolated from the
	// engine.
	ExternalIO
)

func (c Category) String() string {
	switch c {
	case Programming:
		return "programming"
	case Soft:
		return "soft"
	case Roll:
		return "roll"
	case ExternalIO:
		return "external_io"
	default:
		return "unknown"
	}
}

// Error is a categorized simulation error. Soft and Roll failures are
// normally turned into events rather than propagated as Go errors; Error
// exists for the Programming and ExternalIO cases where a Go error is the
// right shape.
type Error struct {
	Category Category
	Reason   string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a categorized error.
func New(cat Category, reason string) *Error {
	return &Error{Category: cat, Reason: reason}
}

// Wrap builds a categorized error wrapping an underlying cause.
func Wrap(cat Category, reason string, err error) *Error {
	return &Error{Category: cat, Reason: reason, Err: err}
}
