package satbackend

import (
	"sort"

	"github.com/armon/go-radix"
)

// Assignment is a satisfying model returned by the backend.
type Assignment interface {
	// Evaluate reports the truth value atom holds in this assignment.
	// Atoms never mentioned in any asserted clause are false.
	Evaluate(atom string) bool
	// TrueVars returns the names of every atom assigned true, in
	// deterministic (sorted) order.
	TrueVars() []string
	// WeightedSum returns sum(weights[i] for terms[i] true in a).
	WeightedSum(terms []string, weights []int) int
	// Formula returns the conjunction-of-literals formula that describes
	// exactly this assignment over the atoms the backend currently knows
	// about -- the φ used by the all-solutions enumeration in spec §4.5.
	Formula() Formula
}

type assignment struct {
	values map[string]bool
}

func (a *assignment) Evaluate(atom string) bool { return a.values[atom] }

func (a *assignment) TrueVars() []string {
	out := make([]string, 0, len(a.values))
	for atom, v := range a.values {
		if v {
			out = append(out, atom)
		}
	}
	sort.Strings(out)
	return out
}

func (a *assignment) WeightedSum(terms []string, weights []int) int {
	sum := 0
	for i, t := range terms {
		if a.values[t] {
			sum += weights[i]
		}
	}
	return sum
}

func (a *assignment) Formula() Formula {
	names := make([]string, 0, len(a.values))
	for atom := range a.values {
		names = append(names, atom)
	}
	sort.Strings(names)

	f := Formula{}
	for _, atom := range names {
		if a.values[atom] {
			f.Clauses = append(f.Clauses, Clause{L(atom)})
		} else {
			f.Clauses = append(f.Clauses, Clause{N(atom)})
		}
	}
	return f
}

// MinimizeOptions carries the hints spec §6's backend.minimize accepts.
type MinimizeOptions struct {
	// Strategy is a search-order hint. "bottom-up" (used for the
	// conflicts step, spec §4.4) asks the backend to search for small
	// weighted sums first, which is this backend's only mode, so the
	// field is accepted but otherwise inert.
	Strategy string
	// Progress, if set, is called periodically during the search so a
	// caller (the solver driver) can relay spec §5's nudge().
	Progress func()
}

// Backend is the boolean solver backend collaborator of spec §6.
type Backend interface {
	Require(f Formula)
	Solve() (Assignment, bool)
	SolveAssuming(f Formula) (Assignment, bool)
	Forbid(f Formula)
	Minimize(current Assignment, terms []string, weights []int, opts MinimizeOptions) (Assignment, bool)
}

type boundConstraint struct {
	terms   []string
	weights []int
	max     int
}

// backend is the DPLL-style reference implementation. See the package doc
// comment for the grounding and scope of this implementation.
type backend struct {
	clauses []Clause
	bounds  []boundConstraint
	atoms   *radix.Tree
}

// New returns a fresh, empty Backend.
func New() Backend {
	return &backend{atoms: radix.New()}
}

func (b *backend) Require(f Formula) {
	for _, c := range f.Clauses {
		b.addClause(c)
	}
}

func (b *backend) Forbid(f Formula) {
	// Forbidding the exact assignment φ means asserting ¬φ, which for the
	// conjunction-of-literals shape that Assignment.Formula() produces is
	// a single blocking clause (De Morgan). Only that shape is supported:
	// any other formula panics.
	if allUnit(f) {
		b.addClause(negateAsClause(f))
		return
	}
	panic("satbackend: Forbid requires a non-empty conjunction of unit clauses")
}

func allUnit(f Formula) bool {
	for _, c := range f.Clauses {
		if len(c) != 1 {
			return false
		}
	}
	return len(f.Clauses) > 0
}

func (b *backend) addClause(c Clause) {
	b.clauses = append(b.clauses, c)
	for _, l := range c {
		b.atoms.Insert(l.Atom, struct{}{})
	}
}

func (b *backend) allAtoms() []string {
	var names []string
	b.atoms.Walk(func(k string, _ interface{}) bool {
		names = append(names, k)
		return false
	})
	return names
}

func (b *backend) Solve() (Assignment, bool) {
	return b.solveWithBound(nil, boundConstraint{})
}

func (b *backend) SolveAssuming(f Formula) (Assignment, bool) {
	return b.solveWithBound(f.Clauses, boundConstraint{})
}

// Minimize implements spec §4.4's lexicographic minimization step: find a
// satisfying assignment minimizing sum(weights[i] * [terms[i] is true]),
// subject to every clause and bound asserted so far, then lock that optimum
// in as a permanent bound so later calls to Minimize never regress it.
func (b *backend) Minimize(current Assignment, terms []string, weights []int, opts MinimizeOptions) (Assignment, bool) {
	best, ok := b.solveWithBound(nil, boundConstraint{})
	if !ok {
		return nil, false
	}
	bestSum := best.WeightedSum(terms, weights)

	// Weights are positive, so a sum of 0 cannot be improved on.
	for bestSum > 0 {
		if opts.Progress != nil {
			opts.Progress()
		}
		bound := boundConstraint{terms: terms, weights: weights, max: bestSum - 1}
		cand, ok := b.solveWithBound(nil, bound)
		if !ok {
			break
		}
		best = cand
		bestSum = best.WeightedSum(terms, weights)
	}

	// Lock the optimum: future solves/minimizations must respect it.
	b.bounds = append(b.bounds, boundConstraint{terms: terms, weights: weights, max: bestSum})
	return best, true
}

func (b *backend) solveWithBound(extra []Clause, extraBound boundConstraint) (Assignment, bool) {
	clauses := make([]Clause, 0, len(b.clauses)+len(extra))
	clauses = append(clauses, b.clauses...)
	clauses = append(clauses, extra...)

	bounds := b.bounds
	if extraBound.terms != nil {
		bounds = append(append([]boundConstraint{}, b.bounds...), extraBound)
	}

	atoms := b.allAtoms()
	for _, c := range extra {
		for _, l := range c {
			atoms = appendIfMissing(atoms, l.Atom)
		}
	}
	sort.Strings(atoms)

	values := make(map[string]bool, len(atoms))
	s := &search{clauses: clauses, bounds: bounds, values: values, order: atoms}
	if !s.solve(0) {
		return nil, false
	}
	return &assignment{values: values}, true
}

func appendIfMissing(s []string, v string) []string {
	for _, e := range s {
		if e == v {
			return s
		}
	}
	return append(s, v)
}

// search is one DPLL run: unit propagation plus chronological backtracking,
// with branch-and-bound pruning against the accumulated weight bounds.
type search struct {
	clauses []Clause
	bounds  []boundConstraint
	values  map[string]bool
	order   []string
}

// solve tries to extend the current (possibly partial) assignment,
// considering atoms from index i onward in s.order.
func (s *search) solve(i int) bool {
	// Unit propagation + conflict/satisfaction check against the current
	// partial assignment.
	switch s.propagate() {
	case conflict:
		return false
	}
	if !s.boundsFeasible() {
		return false
	}

	// advance i past anything propagation already assigned
	for i < len(s.order) {
		if _, ok := s.values[s.order[i]]; ok {
			i++
			continue
		}
		break
	}

	if i >= len(s.order) {
		return s.allClausesSatisfied() && s.boundsSatisfiedFully()
	}

	atom := s.order[i]
	// Try false first: cost terms have positive weight, so false keeps
	// the weighted sum low, which is the right default for a bottom-up
	// (smallest-cost-first) minimization search.
	for _, v := range [2]bool{false, true} {
		saved := make(map[string]struct{}, len(s.values))
		for k := range s.values {
			saved[k] = struct{}{}
		}
		s.values[atom] = v
		if s.clausesConsistent() && s.boundsFeasible() && s.solve(i+1) {
			return true
		}
		// Undo this branch: the atom itself and everything propagation
		// assigned below it.
		for k := range s.values {
			if _, ok := saved[k]; !ok {
				delete(s.values, k)
			}
		}
	}
	return false
}

type propagateResult int

const (
	propagateOK propagateResult = iota
	conflict
)

// propagate performs unit propagation to a fixed point: any clause with
// exactly one unassigned literal and all others false has that literal
// forced true.
func (s *search) propagate() propagateResult {
	for {
		changed := false
		for _, c := range s.clauses {
			unassignedCount := 0
			var unassignedLit Lit
			satisfied := false
			for _, l := range c {
				v, ok := s.values[l.Atom]
				if !ok {
					unassignedCount++
					unassignedLit = l
					continue
				}
				if v != l.Neg {
					satisfied = true
					break
				}
			}
			if satisfied {
				continue
			}
			if unassignedCount == 0 {
				return conflict
			}
			if unassignedCount == 1 {
				s.values[unassignedLit.Atom] = !unassignedLit.Neg
				changed = true
			}
		}
		if !changed {
			return propagateOK
		}
	}
}

func (s *search) clausesConsistent() bool {
	for _, c := range s.clauses {
		satisfied := false
		hasUnassigned := false
		for _, l := range c {
			v, ok := s.values[l.Atom]
			if !ok {
				hasUnassigned = true
				continue
			}
			if v != l.Neg {
				satisfied = true
				break
			}
		}
		if !satisfied && !hasUnassigned {
			return false
		}
	}
	return true
}

func (s *search) allClausesSatisfied() bool {
	for _, c := range s.clauses {
		satisfied := false
		for _, l := range c {
			v := s.values[l.Atom]
			if v != l.Neg {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}
	return true
}

// boundsFeasible prunes a partial assignment: if the weighted sum of
// already-true terms alone exceeds a bound's max, no completion can help.
func (s *search) boundsFeasible() bool {
	for _, bd := range s.bounds {
		sum := 0
		for i, t := range bd.terms {
			if v, ok := s.values[t]; ok && v {
				sum += bd.weights[i]
			}
		}
		if sum > bd.max {
			return false
		}
	}
	return true
}

func (s *search) boundsSatisfiedFully() bool {
	for _, bd := range s.bounds {
		sum := 0
		for i, t := range bd.terms {
			if s.values[t] {
				sum += bd.weights[i]
			}
		}
		if sum > bd.max {
			return false
		}
	}
	return true
}
