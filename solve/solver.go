package solve

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/depsolve/pvsolve/satbackend"
)

// Solve is the core-exposed surface (spec §6): given input and options, it
// computes an optimal version map or returns a SolveError describing why no
// such map exists. Every backend, analysis cache, and step created here is
// private to this call and discarded when it returns (spec §5).
func Solve(in *Input, opts Options) (Result, error) {
	return solveWith(in, opts, NewTracer(zerolog.Nop(), false))
}

// SolveTraced is Solve with an explicit Tracer, for callers (e.g. cmd/pvsolve)
// that want to see each locked step optimum and each pinned version.
func SolveTraced(in *Input, opts Options, tracer Tracer) (Result, error) {
	return solveWith(in, opts, tracer)
}

func solveWith(in *Input, opts Options, tracer Tracer) (Result, error) {
	av, err := buildAllowedVersions(in.Catalog, in.Evaluator, in.Constraints)
	if err != nil {
		return Result{}, err
	}

	a, err := runAnalysis(context.Background(), in, av)
	if err != nil {
		return Result{}, err
	}

	backend := satbackend.New()
	memo := newFormulaMemo(in.Catalog, in.Evaluator, av)

	assertInitialClauses(backend, in, av, a, memo)

	current, ok := backend.Solve()
	assertInvariant(ok, "initial clause set is unsatisfiable")

	steps := make(map[string]*Step)
	minimize := func(s *Step, mopts satbackend.MinimizeOptions) {
		terms, weights := s.termsAndWeights()
		var next satbackend.Assignment
		next, ok = backend.Minimize(current, terms, weights, mopts)
		assertInvariant(ok, "minimize step "+s.Name+" found no assignment")
		current = next
		s.setOptimum(current.WeightedSum(terms, weights))
		steps[s.Name] = s
		tracer.Step(s.Name, s.optimum)
	}

	// Step 1: unknown_packages.
	minimize(buildUnknownPackagesStep(a.unknownPackages), satbackend.MinimizeOptions{Progress: opts.Nudge})

	// Step 2: conflicts, bottom-up.
	minimize(buildConflictsStep(a.constraints), satbackend.MinimizeOptions{Strategy: "bottom-up", Progress: opts.Nudge})

	// Step 3: unanticipated_prereleases.
	minimize(buildUnanticipatedPrereleasesStep(in, av, a.reachableOrder), satbackend.MinimizeOptions{Progress: opts.Nudge})

	// Step 4: previous-root incompatibility (conditional).
	toUpdate := make(map[string]struct{})
	for p := range in.Upgrade {
		if a.isReachable(p) {
			toUpdate[p] = struct{}{}
		}
	}
	prevIncompat, prevMajor, prevMinor, prevPatch, prevRest := buildPreviousSteps(in, av, "previous_root", a.previousRootDepVersions)
	if !in.AllowIncompatibleUpdate {
		buildPreviousRootIncompatGuardTerms(prevIncompat, in, av, toUpdate, in.isRootDependency)
		minimize(prevIncompat, satbackend.MinimizeOptions{Progress: opts.Nudge})
	}

	// Step 5: update_{major,minor,patch,rest} on toUpdate.
	updatePkgs := make([]string, 0, len(toUpdate))
	for p := range toUpdate {
		updatePkgs = append(updatePkgs, p)
	}
	sort.Strings(updatePkgs)
	uMajor, uMinor, uPatch, uRest := buildUpdateSteps(in, av, "update", updatePkgs, ModeUpdate)
	for _, s := range []*Step{uMajor, uMinor, uPatch, uRest} {
		minimize(s, satbackend.MinimizeOptions{Progress: opts.Nudge})
	}

	// Step 6: previous_root_incompat, deferred here when incompatible
	// updates are allowed (lower priority than the update steps above).
	if in.AllowIncompatibleUpdate {
		minimize(prevIncompat, satbackend.MinimizeOptions{Progress: opts.Nudge})
	}

	// Step 7: previous_root_{major,minor,patch,rest}.
	for _, s := range []*Step{prevMajor, prevMinor, prevPatch, prevRest} {
		minimize(s, satbackend.MinimizeOptions{Progress: opts.Nudge})
	}

	// Step 8: previous_indirect_{incompat,major,minor,patch,rest}.
	var previousIndirectPairs []PV
	for p, v := range in.PreviousSolution {
		if a.isReachable(p) && !in.isRootDependency(p) {
			previousIndirectPairs = append(previousIndirectPairs, PV{Package: p, Version: v})
		}
	}
	sort.Slice(previousIndirectPairs, func(i, j int) bool { return previousIndirectPairs[i].Package < previousIndirectPairs[j].Package })
	piIncompat, piMajor, piMinor, piPatch, piRest := buildPreviousSteps(in, av, "previous_indirect", previousIndirectPairs)
	for _, s := range []*Step{piIncompat, piMajor, piMinor, piPatch, piRest} {
		minimize(s, satbackend.MinimizeOptions{Progress: opts.Nudge})
	}

	// Step 9: new_root_{major,minor,patch,rest} on roots not previously solved.
	var newRoots []string
	for _, p := range in.Dependencies {
		if !in.isInPreviousSolution(p) {
			newRoots = append(newRoots, p)
		}
	}
	nrMajor, nrMinor, nrPatch, nrRest := buildUpdateSteps(in, av, "new_root", newRoots, ModeUpdate)
	for _, s := range []*Step{nrMajor, nrMinor, nrPatch, nrRest} {
		minimize(s, satbackend.MinimizeOptions{Progress: opts.Nudge})
	}

	// Step 10: pin currently-selected versions of root/previous/upgrading packages.
	pinned := make(map[string]struct{})
	for _, p := range in.Dependencies {
		pinned[p] = struct{}{}
	}
	for p := range in.PreviousSolution {
		pinned[p] = struct{}{}
	}
	for p := range in.Upgrade {
		pinned[p] = struct{}{}
	}
	pinNames := make([]string, 0, len(pinned))
	for p := range pinned {
		pinNames = append(pinNames, p)
	}
	sort.Strings(pinNames)
	for _, p := range pinNames {
		if !a.isReachable(p) {
			continue
		}
		v, ok := currentVersionOf(current, p, av.versionsOf(p, in.Catalog))
		if !ok {
			continue
		}
		backend.Require(satbackend.Implies(satbackend.L(p), satbackend.L(pv(p, v))))
		tracer.Candidate(p, v)
	}

	// Step 11: new_indirect_{major,minor,patch,rest} on purely-indirect reachable packages.
	var indirect []string
	for _, p := range a.reachableOrder {
		if _, isPinned := pinned[p]; isPinned {
			continue
		}
		indirect = append(indirect, p)
	}
	niMajor, niMinor, niPatch, niRest := buildUpdateSteps(in, av, "new_indirect", indirect, ModeGravityWithPatches)
	for _, s := range []*Step{niMajor, niMinor, niPatch, niRest} {
		minimize(s, satbackend.MinimizeOptions{Progress: opts.Nudge})
	}

	// Step 12: total_packages.
	minimize(buildTotalPackagesStep(a.reachableOrder), satbackend.MinimizeOptions{Progress: opts.Nudge})

	if err := postSolveError(in, a, steps, current); err != nil {
		return Result{}, err
	}

	answer := decodeAnswer(current, a.reachableOrder)
	result := Result{
		Answer:                              answer,
		NeededToUseUnanticipatedPrereleases: steps["unanticipated_prereleases"].optimum > 0,
	}

	if opts.AllAnswers {
		result.AllAnswers = enumerateAllAnswers(backend, current, a.reachableOrder)
	}
	return result, nil
}

func assertInitialClauses(backend satbackend.Backend, in *Input, av *allowedVersions, a *analysis, memo *formulaMemo) {
	// 1. roots.
	for _, p := range in.Dependencies {
		backend.Require(satbackend.Unit(satbackend.L(p)))
	}

	// 2. at-most-one + iff per reachable known package.
	for _, p := range a.reachableOrder {
		versions := av.versionsOf(p, in.Catalog)
		atoms := make([]string, len(versions))
		for i, v := range versions {
			atoms[i] = pv(p, v)
		}
		backend.Require(satbackend.AtMostOne(atoms...))
		backend.Require(satbackend.Iff(p, atoms...))
	}

	// 3. strong dependency implications. Unlike constraint collection
	// (which only emits constraints for known targets), this applies to
	// every strong dependency regardless of whether its target is known --
	// a strong dependency on an unknown package still forces that
	// package's bare atom true, which is exactly how the unknown_packages
	// step (step 1) can end up with a nonzero optimum.
	for _, p := range a.reachableOrder {
		for _, v := range av.versionsOf(p, in.Catalog) {
			for _, dep := range in.Catalog.DependenciesOf(p, v) {
				if dep.IsWeak {
					continue
				}
				backend.Require(satbackend.Implies(satbackend.L(pv(p, v)), satbackend.L(dep.ToPackage)))
			}
		}
	}

	// 4. constraint clauses.
	for _, c := range a.constraints {
		backend.Require(memo.clauseFor(c))
	}
}

func currentVersionOf(current satbackend.Assignment, pkg string, versions []string) (string, bool) {
	for _, v := range versions {
		if current.Evaluate(pv(pkg, v)) {
			return v, true
		}
	}
	return "", false
}

func decodeAnswer(current satbackend.Assignment, reachable []string) map[string]string {
	answer := make(map[string]string, len(reachable))
	for _, atom := range current.TrueVars() {
		if isPackageAtom(atom) {
			continue
		}
		p, ok := splitPV(atom)
		if !ok {
			continue
		}
		answer[p.Package] = p.Version
	}
	return answer
}

// postSolveError implements spec §4.4's post-sequence checks and §7's
// priority order: unknown-package-needed, then constraint conflict, then
// (when the guard is active) a required breaking change to a root.
func postSolveError(in *Input, a *analysis, steps map[string]*Step, current satbackend.Assignment) error {
	if s := steps["unknown_packages"]; s != nil && s.optimum > 0 {
		return unknownPackagesError(a, current)
	}
	if s := steps["conflicts"]; s != nil && s.optimum > 0 {
		return conflictError(in, a, current)
	}
	if !in.AllowIncompatibleUpdate {
		if s := steps["previous_root_incompat"]; s != nil && s.optimum > 0 {
			return breakingChangeError(in, s, current)
		}
	}
	return nil
}

func unknownPackagesError(a *analysis, current satbackend.Assignment) error {
	trueVars := trueVarSet(current)
	var reasons []string
	for name, requirers := range a.unknownPackages {
		if _, selected := trueVars[name]; !selected {
			continue
		}
		var live []string
		for _, r := range requirers {
			if _, ok := trueVars[r]; ok {
				live = append(live, r)
			}
		}
		reason := "unknown package needed: " + name
		if len(live) > 0 {
			reason += " (required by"
			for _, r := range live {
				reason += " " + r
			}
			reason += ")"
		}
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	return newSolveError(reasons)
}

func conflictError(in *Input, a *analysis, current satbackend.Assignment) error {
	e := &explainer{
		constraints: a.constraints,
		answer:      decodeAnswer(current, a.reachableOrder),
		catalog:     in.Catalog,
		isRoot:      in.isRootDependency,
	}
	reasons := e.explainConflicts(trueVarSet(current))
	return newSolveError(reasons)
}

func breakingChangeError(in *Input, step *Step, current satbackend.Assignment) error {
	terms, _ := step.termsAndWeights()
	trueVars := trueVarSet(current)
	var reasons []string
	for _, t := range terms {
		if _, ok := trueVars[t]; !ok {
			continue
		}
		target, ok := splitPV(t)
		if !ok {
			continue
		}
		prev := in.PreviousSolution[target.Package]
		reasons = append(reasons,
			"Breaking change required to top-level dependency: "+target.Package+" "+target.Version+", was "+prev+
				" (use --allow-incompatible-update to permit this)")
	}
	sort.Strings(reasons)
	return newSolveError(reasons)
}

func trueVarSet(a satbackend.Assignment) map[string]struct{} {
	out := make(map[string]struct{})
	for _, v := range a.TrueVars() {
		out[v] = struct{}{}
	}
	return out
}

// enumerateAllAnswers implements spec §4.5: repeatedly ask for a model
// different from the current one at the same locked optima, forbidding each
// found model once recorded, until the backend reports none remain.
func enumerateAllAnswers(backend satbackend.Backend, current satbackend.Assignment, reachable []string) []map[string]string {
	all := []map[string]string{decodeAnswer(current, reachable)}

	for {
		phi := current.Formula()
		alt, ok := backend.SolveAssuming(satbackend.NegateConjunction(phi))
		if !ok {
			return all
		}
		backend.Forbid(phi)
		current = alt
		all = append(all, decodeAnswer(current, reachable))
	}
}
