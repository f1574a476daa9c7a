// Package satbackend is a reference implementation of the "Boolean solver
// backend" external collaborator from spec §6: an incremental SAT solver
// capable of weighted pseudo-boolean minimization.
//
// It is not a production SAT engine (no CDCL, no clause learning, no
// watched literals) -- it is a DPLL-style search with unit propagation and
// branch-and-bound pruning, sized for the instances this solver's core
// produces during tests and small real catalogs. The control-flow shape
// (try a branch, on conflict backtrack and try the alternative, keep the
// best solution found so far as a hard bound for the next search) mirrors
// golang-dep's own solver.go backtrack()/version-queue-stack machinery,
// generalized from "one queue per project" to "one boolean per atom".
package satbackend

// Lit is a literal: an atom, optionally negated.
type Lit struct {
	Atom string
	Neg  bool
}

// L builds a positive literal for atom.
func L(atom string) Lit { return Lit{Atom: atom} }

// N builds a negated literal for atom.
func N(atom string) Lit { return Lit{Atom: atom, Neg: true} }

func (l Lit) negate() Lit { return Lit{Atom: l.Atom, Neg: !l.Neg} }

// Clause is a disjunction of literals.
type Clause []Lit

// Formula is a conjunction of clauses (CNF). The zero value is the
// tautology (vacuously true -- no clauses to satisfy).
type Formula struct {
	Clauses []Clause
}

// Tautology returns a Formula with no constraints.
func Tautology() Formula {
	return Formula{}
}

// Unit returns a Formula asserting a single literal.
func Unit(l Lit) Formula {
	return Formula{Clauses: []Clause{{l}}}
}

// Disjunction returns a Formula asserting the disjunction of lits.
func Disjunction(lits ...Lit) Formula {
	c := make(Clause, len(lits))
	copy(c, lits)
	return Formula{Clauses: []Clause{c}}
}

// Implies returns a Formula asserting from -> Disjunction(to...), i.e.
// the clause ¬from ∨ to[0] ∨ to[1] ∨ ...
func Implies(from Lit, to ...Lit) Formula {
	lits := make(Clause, 0, len(to)+1)
	lits = append(lits, from.negate())
	lits = append(lits, to...)
	return Formula{Clauses: []Clause{lits}}
}

// AtMostOne returns a Formula asserting that at most one of atoms is true,
// via pairwise mutual exclusion clauses.
func AtMostOne(atoms ...string) Formula {
	var f Formula
	for i := 0; i < len(atoms); i++ {
		for j := i + 1; j < len(atoms); j++ {
			f.Clauses = append(f.Clauses, Clause{N(atoms[i]), N(atoms[j])})
		}
	}
	return f
}

// Iff returns a Formula asserting atom <-> (at least one of disjuncts),
// i.e. spec invariant 2: P ↔ ⋁ pv(P, v).
func Iff(atom string, disjuncts ...string) Formula {
	var f Formula
	fwd := make(Clause, 0, len(disjuncts)+1)
	fwd = append(fwd, N(atom))
	for _, d := range disjuncts {
		fwd = append(fwd, L(d))
	}
	f.Clauses = append(f.Clauses, fwd)
	for _, d := range disjuncts {
		f.Clauses = append(f.Clauses, Clause{N(d), L(atom)})
	}
	return f
}

// And merges several formulas' clauses into one.
func And(fs ...Formula) Formula {
	var out Formula
	for _, f := range fs {
		out.Clauses = append(out.Clauses, f.Clauses...)
	}
	return out
}

// NegateConjunction returns ¬f as a Formula, for a pure conjunction-of-
// literals f (the shape Assignment.Formula() always produces). This is the
// φ -> ¬φ step the all-solutions enumeration (spec §4.5) needs in order to
// ask the backend for a model different from the current one.
func NegateConjunction(f Formula) Formula {
	return Formula{Clauses: []Clause{negateAsClause(f)}}
}

// negateAsClause returns the single clause equivalent to the negation of a
// pure conjunction-of-literals formula (De Morgan: ¬(L1∧...∧Ln) = ¬L1∨...∨¬Ln).
// It is only valid when every clause in f is a unit clause, which is the
// shape assignment.Formula() always produces.
func negateAsClause(f Formula) Clause {
	out := make(Clause, 0, len(f.Clauses))
	for _, c := range f.Clauses {
		if len(c) != 1 {
			panic("satbackend: negateAsClause requires a conjunction of unit clauses")
		}
		out = append(out, c[0].negate())
	}
	return out
}
