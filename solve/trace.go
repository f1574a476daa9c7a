package solve

import "github.com/rs/zerolog"

// Tracer receives progress events during a solve. It generalizes golang-dep's
// own solver.go trace* methods (gated behind a params.Trace bool, writing
// through a plain io.Writer) into a single structured-logging sink so every
// call site stays terse while the backing logger stays swappable.
type Tracer interface {
	// Step is called once a step's optimum has been locked.
	Step(name string, optimum int)
	// Candidate is called when the driver is about to pin a package to a
	// version while asserting the step-10 pin clauses.
	Candidate(pkg, version string)
	// Backtrack records that a candidate assignment was abandoned. The
	// solve driver never calls it: the satbackend backend does not report
	// its backtracks.
	Backtrack(reason string)
}

// zerologTracer is the Tracer backing every real solve, gated the same way
// golang-dep gates its own trace calls -- every call first checks whether
// tracing is enabled at all before touching the logger.
type zerologTracer struct {
	log     zerolog.Logger
	enabled bool
}

// NewTracer returns a Tracer that writes through log when enabled is true,
// and is a no-op otherwise.
func NewTracer(log zerolog.Logger, enabled bool) Tracer {
	return &zerologTracer{log: log, enabled: enabled}
}

func (t *zerologTracer) Step(name string, optimum int) {
	if !t.enabled {
		return
	}
	t.log.Debug().Str("step", name).Int("optimum", optimum).Msg("locked step optimum")
}

func (t *zerologTracer) Candidate(pkg, version string) {
	if !t.enabled {
		return
	}
	t.log.Debug().Str("package", pkg).Str("version", version).Msg("pinning candidate")
}

func (t *zerologTracer) Backtrack(reason string) {
	if !t.enabled {
		return
	}
	t.log.Debug().Str("reason", reason).Msg("backtrack")
}
