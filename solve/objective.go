package solve

// buildUpdateSteps returns four steps ("<prefix>_major", "<prefix>_minor",
// "<prefix>_patch", "<prefix>_rest") pricing versionsOf every package in pkgs
// under mode, per spec §4.4 steps 5 and 9.
func buildUpdateSteps(in *Input, av *allowedVersions, prefix string, pkgs []string, mode CostMode) (major, minor, patch, rest *Step) {
	major = newStep(prefix + "_major")
	minor = newStep(prefix + "_minor")
	patch = newStep(prefix + "_patch")
	rest = newStep(prefix + "_rest")

	for _, p := range pkgs {
		versions := av.versionsOf(p, in.Catalog)
		mj, mn, pa, re := in.Pricer.PriceVersions(versions, mode)
		for i, v := range versions {
			atom := pv(p, v)
			major.addTerm(atom, mj[i])
			minor.addTerm(atom, mn[i])
			patch.addTerm(atom, pa[i])
			rest.addTerm(atom, re[i])
		}
	}
	return major, minor, patch, rest
}

// buildPreviousSteps returns five steps ("<prefix>_incompat", "..._major",
// "..._minor", "..._patch", "..._rest") pricing versionsOf each package in
// pairs relative to its previous version, per spec §4.4 steps 4 and 8.
func buildPreviousSteps(in *Input, av *allowedVersions, prefix string, pairs []PV) (incompat, major, minor, patch, rest *Step) {
	incompat = newStep(prefix + "_incompat")
	major = newStep(prefix + "_major")
	minor = newStep(prefix + "_minor")
	patch = newStep(prefix + "_patch")
	rest = newStep(prefix + "_rest")

	for _, prev := range pairs {
		versions := av.versionsOf(prev.Package, in.Catalog)
		ic, mj, mn, pa, re := in.Pricer.PriceVersionsWithPrevious(versions, prev.Version)
		for i, v := range versions {
			atom := pv(prev.Package, v)
			incompat.addTerm(atom, ic[i])
			major.addTerm(atom, mj[i])
			minor.addTerm(atom, mn[i])
			patch.addTerm(atom, pa[i])
			rest.addTerm(atom, re[i])
		}
	}
	return incompat, major, minor, patch, rest
}

// buildUnknownPackagesStep adds weight 1 per unknown-package name atom that
// was actually selected is decided later by the backend; the step just
// needs every candidate atom registered (spec §4.4 step 1).
func buildUnknownPackagesStep(unknownPackages map[string][]string) *Step {
	s := newScalarStep("unknown_packages", 1)
	for name := range unknownPackages {
		s.addTerm(name, 1)
	}
	return s
}

// buildConflictsStep adds weight 1 per conflictVar across every collected
// constraint (spec §4.4 step 2).
func buildConflictsStep(constraints []Constraint) *Step {
	s := newScalarStep("conflicts", 1)
	for _, c := range constraints {
		s.addTerm(c.ConflictVar, 1)
	}
	return s
}

// buildUnanticipatedPrereleasesStep adds weight 1 per pv(P,v) where v is a
// prerelease not whitelisted in anticipatedPrereleases (spec §4.4 step 3).
func buildUnanticipatedPrereleasesStep(in *Input, av *allowedVersions, reachable []string) *Step {
	s := newScalarStep("unanticipated_prereleases", 1)
	for _, p := range reachable {
		whitelisted := in.AnticipatedPrereleases[p]
		for _, v := range av.versionsOf(p, in.Catalog) {
			if !isPrerelease(v) {
				continue
			}
			if _, ok := whitelisted[v]; ok {
				continue
			}
			s.addTerm(pv(p, v), 1)
		}
	}
	return s
}

// buildTotalPackagesStep adds weight 1 per reachable package name atom
// (spec §4.4 step 12).
func buildTotalPackagesStep(reachable []string) *Step {
	s := newScalarStep("total_packages", 1)
	for _, p := range reachable {
		s.addTerm(p, 1)
	}
	return s
}

// buildPreviousRootIncompatGuardTerms adds weight-1 terms to step for every
// version in older ∪ higherMajor of each updating root's partition relative
// to its previous version, implementing the !allowIncompatibleUpdate guard
// addition in spec §4.4 step 4.
func buildPreviousRootIncompatGuardTerms(step *Step, in *Input, av *allowedVersions, toUpdate map[string]struct{}, isRoot func(string) bool) {
	for p := range toUpdate {
		if !isRoot(p) {
			continue
		}
		prevV, ok := in.PreviousSolution[p]
		if !ok {
			continue
		}
		part := in.Pricer.PartitionVersions(av.versionsOf(p, in.Catalog), prevV)
		for _, v := range part.Older {
			step.addTerm(pv(p, v), 1)
		}
		for _, v := range part.HigherMajor {
			step.addTerm(pv(p, v), 1)
		}
	}
}

// isPrerelease reports whether v carries a hyphenated prerelease suffix
// (spec §3: "a hyphen in V marks a prerelease").
func isPrerelease(v string) bool {
	for i := 0; i < len(v); i++ {
		if v[i] == '-' {
			return true
		}
	}
	return false
}
