package solve

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// SolveError is the single user-facing error kind a solve can return (spec
// §7): unknown root dependencies, an unsatisfiable top-level constraint, or
// a post-solve diagnostic. Every reason is accumulated during the solve and
// joined into one message so a caller sees every contributing cause at once
// rather than only the first.
type SolveError struct {
	reasons []string
	cause   error
}

func (e *SolveError) Error() string {
	return strings.Join(e.reasons, "\n")
}

func (e *SolveError) Unwrap() error { return e.cause }

// newSolveError builds the errbuilder-backed error for reasons, matching
// avular-packages's errbuilder.New().WithCode(...).WithMsg(...) idiom.
func newSolveError(reasons []string) error {
	msg := strings.Join(reasons, "\n")
	cause := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(msg)
	return &SolveError{reasons: reasons, cause: cause}
}

// errorAccumulator collects reasons across a single solve invocation and
// raises them as one SolveError, matching spec §7's throwAny behavior.
type errorAccumulator struct {
	reasons []string
}

func (a *errorAccumulator) add(reason string) {
	a.reasons = append(a.reasons, reason)
}

func (a *errorAccumulator) empty() bool { return len(a.reasons) == 0 }

func (a *errorAccumulator) throwAny() error {
	if a.empty() {
		return nil
	}
	return newSolveError(a.reasons)
}

// AssertionError signals a defect: an internal invariant that should be
// unreachable was violated (e.g. the initial clause set was unsatisfiable,
// or the explainer could not find a package's selected version). It is
// distinct from SolveError, which reports problems with the caller's input.
type AssertionError struct {
	msg string
}

func (e *AssertionError) Error() string { return "solve: internal invariant violated: " + e.msg }

// assertInvariant panics with an AssertionError if cond is false. It is used
// for conditions this package's own logic must already guarantee, so a
// violation means a defect in the solver, not bad input.
func assertInvariant(cond bool, msg string) {
	if cond {
		return
	}
	panic(&AssertionError{msg: msg})
}
