package solve

import (
	"sync"

	"github.com/depsolve/pvsolve/satbackend"
)

// Constraint is one edge the analysis pass collected (spec §4.2): either a
// top-level entry (fromVar == "") or a dependency edge from a specific
// package-version to toPackage, gated by vc. conflictVar is the atom that,
// when true, waives this constraint.
type Constraint struct {
	FromVar     string
	ToPackage   string
	VC          VersionConstraint
	ConflictVar string
}

// isTopLevel reports whether c originates from Input.Constraints rather than
// a dependency edge discovered during reachability.
func (c Constraint) isTopLevel() bool { return c.FromVar == "" }

// formulaMemo memoizes formula(P, vc) by the value key P + "@" + vc.raw
// (spec §4.3, design note in §9: by-value, not by object identity).
type formulaMemo struct {
	mu    sync.Mutex
	cache map[string]satbackend.Formula

	catalog   CatalogCache
	evaluator Evaluator
	filtered  *allowedVersions
}

func newFormulaMemo(catalog CatalogCache, evaluator Evaluator, filtered *allowedVersions) *formulaMemo {
	return &formulaMemo{
		cache:     make(map[string]satbackend.Formula),
		catalog:   catalog,
		evaluator: evaluator,
		filtered:  filtered,
	}
}

func formulaKey(pkg string, vc VersionConstraint) string {
	return pkg + "@" + vc.Raw
}

// formula computes (and memoizes) the clause set for "toPackage satisfies
// vc", per spec §4.3:
//  1. targets = versionsOf(P); ok = { pv(P,v) : v in targets, vc.satisfies(v) }
//  2. if |ok| == |targets|, the constraint is vacuously true (⊤).
//  3. else the formula is ¬P ∨ ⋁ ok.
func (m *formulaMemo) formula(pkg string, vc VersionConstraint) satbackend.Formula {
	key := formulaKey(pkg, vc)

	m.mu.Lock()
	if f, ok := m.cache[key]; ok {
		m.mu.Unlock()
		return f
	}
	m.mu.Unlock()

	targets := m.filtered.versionsOf(pkg, m.catalog)
	ok := make([]string, 0, len(targets))
	for _, v := range targets {
		if m.evaluator.Satisfies(vc.Raw, v) {
			ok = append(ok, pv(pkg, v))
		}
	}

	var f satbackend.Formula
	if len(ok) == len(targets) {
		f = satbackend.Tautology()
	} else {
		lits := make([]satbackend.Lit, 0, len(ok)+1)
		lits = append(lits, satbackend.N(pkg))
		for _, atom := range ok {
			lits = append(lits, satbackend.L(atom))
		}
		f = satbackend.Formula{Clauses: []satbackend.Clause{lits}}
	}

	m.mu.Lock()
	m.cache[key] = f
	m.mu.Unlock()
	return f
}

// clauseFor builds the clause asserted for constraint c (spec §4.4 step 4):
// conflictVar ∨ (fromVar ? ¬fromVar : absent) ∨ formula(toPackage, vc).
func (m *formulaMemo) clauseFor(c Constraint) satbackend.Formula {
	f := m.formula(c.ToPackage, c.VC)
	if len(f.Clauses) == 0 {
		// Tautology: the whole disjunction is trivially true regardless of
		// conflictVar/fromVar, so no clause is needed.
		return satbackend.Tautology()
	}

	lits := make([]satbackend.Lit, 0, 2)
	lits = append(lits, satbackend.L(c.ConflictVar))
	if !c.isTopLevel() {
		lits = append(lits, satbackend.N(c.FromVar))
	}

	// OR the base literals into every clause of formula(toPackage, vc). The
	// formula is a single clause in every case this package builds (either
	// the tautology, already handled above, or the ¬P ∨ ⋁ ok clause from
	// formula()), so this loop always runs once.
	out := satbackend.Formula{}
	for _, clause := range f.Clauses {
		merged := make(satbackend.Clause, 0, len(lits)+len(clause))
		merged = append(merged, lits...)
		merged = append(merged, clause...)
		out.Clauses = append(out.Clauses, merged)
	}
	return out
}
