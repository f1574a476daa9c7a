package solve

import "strconv"

// Step is a named cost axis (spec §3): a set of atoms with weights, whose
// weighted sum the driver minimizes in sequence. Weights may be carried as
// a single scalar (every term shares it) or as a parallel per-term slice;
// per spec §9's design note this is purely a bookkeeping micro-optimization
// with no observable effect on the result. A scalar step stores only its
// terms and builds the per-term weight slice in termsAndWeights.
type Step struct {
	Name    string
	terms   []string
	weights []int

	scalar    int
	hasScalar bool

	optimum    int
	hasOptimum bool
}

// newStep returns an empty step named name.
func newStep(name string) *Step {
	return &Step{Name: name}
}

// newScalarStep returns an empty step whose terms will all share weight w.
func newScalarStep(name string, w int) *Step {
	return &Step{Name: name, scalar: w, hasScalar: true}
}

// addTerm adds atom t with weight w. Per spec §3: w == 0 is a no-op; on a
// scalar-weight step, any nonzero w must equal the step's scalar.
func (s *Step) addTerm(t string, w int) {
	if w == 0 {
		return
	}
	if s.hasScalar {
		if w != s.scalar {
			panic(&AssertionError{msg: "step " + s.Name + ": weight " + strconv.Itoa(w) + " does not match scalar " + strconv.Itoa(s.scalar)})
		}
		s.terms = append(s.terms, t)
		return
	}
	s.terms = append(s.terms, t)
	s.weights = append(s.weights, w)
}

// termsAndWeights returns the parallel (terms, weights) slices the backend's
// Minimize expects.
func (s *Step) termsAndWeights() ([]string, []int) {
	if s.hasScalar {
		weights := make([]int, len(s.terms))
		for i := range weights {
			weights[i] = s.scalar
		}
		return s.terms, weights
	}
	return s.terms, s.weights
}

// setOptimum records the optimum found for this step. It may only be set
// once (spec §3's lifecycle: "optimum is set exactly once by the minimizer").
func (s *Step) setOptimum(v int) {
	if s.hasOptimum {
		panic(&AssertionError{msg: "step " + s.Name + ": optimum set more than once"})
	}
	s.optimum = v
	s.hasOptimum = true
}
