package solve

import (
	"context"

	assert "github.com/ZanzyTHEbar/assert-lib"
)

// analysis is the per-solve scratch state built by the analysis pass
// (component C, spec §4.2). It, like everything else created for a solve,
// is discarded once solveWith returns.
type analysis struct {
	unknownRootDeps         []string
	previousRootDepVersions []PV
	reachablePackages       map[string]struct{}
	unknownPackages         map[string][]string // package name -> requirer pv strings
	reachableOrder          []string            // reachable known packages, first-visit order
	constraints             []Constraint
}

// runAnalysis performs root triage, reachability, and constraint collection
// in one pass, mirroring the order spec §4.2 describes them in.
func runAnalysis(ctx context.Context, in *Input, av *allowedVersions) (*analysis, error) {
	a := &analysis{
		reachablePackages: make(map[string]struct{}),
		unknownPackages:   make(map[string][]string),
	}

	// Root triage.
	for _, p := range in.Dependencies {
		assert.NotEmpty(ctx, p, "root dependency name must not be empty")
		if !in.isKnownPackage(p) {
			a.unknownRootDeps = append(a.unknownRootDeps, p)
			continue
		}
		if in.isInPreviousSolution(p) && !in.isUpgrading(p) {
			a.previousRootDepVersions = append(a.previousRootDepVersions, PV{Package: p, Version: in.PreviousSolution[p]})
		}
	}
	if len(a.unknownRootDeps) > 0 {
		reasons := make([]string, 0, len(a.unknownRootDeps))
		for _, p := range a.unknownRootDeps {
			reasons = append(reasons, "unknown root dependency: "+p)
		}
		return nil, newSolveError(reasons)
	}

	// Reachability: DFS from each root over strong dependencies.
	visited := make(map[string]struct{})
	var visit func(pkg string)
	visit = func(pkg string) {
		if _, ok := visited[pkg]; ok {
			return
		}
		visited[pkg] = struct{}{}
		a.reachablePackages[pkg] = struct{}{}
		a.reachableOrder = append(a.reachableOrder, pkg)

		for _, v := range av.versionsOf(pkg, in.Catalog) {
			for _, dep := range in.Catalog.DependenciesOf(pkg, v) {
				if !in.isKnownPackage(dep.ToPackage) {
					requirer := pv(pkg, v)
					a.unknownPackages[dep.ToPackage] = append(a.unknownPackages[dep.ToPackage], requirer)
					continue
				}
				if !dep.IsWeak {
					visit(dep.ToPackage)
				}
			}
		}
	}
	for _, p := range in.Dependencies {
		visit(p)
	}

	// Constraint collection.
	idx := 0
	nextConflictVar := func() string {
		v := conflictVarName(idx)
		idx++
		return v
	}
	for _, c := range in.Constraints {
		a.constraints = append(a.constraints, Constraint{
			ToPackage:   c.Package,
			VC:          c.Constraint,
			ConflictVar: nextConflictVar(),
		})
	}
	for _, pkg := range a.reachableOrder {
		for _, v := range av.versionsOf(pkg, in.Catalog) {
			from := pv(pkg, v)
			for _, dep := range in.Catalog.DependenciesOf(pkg, v) {
				if !in.isKnownPackage(dep.ToPackage) {
					continue
				}
				a.constraints = append(a.constraints, Constraint{
					FromVar:     from,
					ToPackage:   dep.ToPackage,
					VC:          dep.Constraint,
					ConflictVar: nextConflictVar(),
				})
			}
		}
	}

	return a, nil
}

func (a *analysis) isReachable(pkg string) bool {
	_, ok := a.reachablePackages[pkg]
	return ok
}
