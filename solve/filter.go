package solve

// allowedVersions implements the allowed-version filter (spec §4.1): each
// package named in Input.Constraints has its candidate version set pruned
// to the intersection satisfying every top-level constraint on it, before
// any clause generation happens. Packages not named there are unfiltered.
type allowedVersions struct {
	filtered map[string][]string
}

// buildAllowedVersions runs the filter over every package named in
// constraints. It fails (returning a non-nil error) the first time a
// package's top-level constraints leave no candidate version, naming the
// package and every top-level constraint on it, per spec §4.1.
func buildAllowedVersions(catalog CatalogCache, evaluator Evaluator, constraints []TopConstraint) (*allowedVersions, error) {
	byPackage := make(map[string][]VersionConstraint)
	var order []string
	for _, c := range constraints {
		if _, seen := byPackage[c.Package]; !seen {
			order = append(order, c.Package)
		}
		byPackage[c.Package] = append(byPackage[c.Package], c.Constraint)
	}

	av := &allowedVersions{filtered: make(map[string][]string)}
	for _, pkg := range order {
		v0 := catalog.VersionsOf(pkg)
		if len(v0) == 0 {
			// Leave unfiltered; the SAT layer surfaces this as an
			// unknown_packages hit (spec §9 design note).
			continue
		}

		allowed := v0
		for _, vc := range byPackage[pkg] {
			allowed = intersectSatisfying(allowed, vc, evaluator)
			if len(allowed) == 0 {
				return nil, newSolveError([]string{noSatisfyingVersionReason(pkg, byPackage[pkg])})
			}
		}
		av.filtered[pkg] = allowed
	}
	return av, nil
}

func intersectSatisfying(versions []string, vc VersionConstraint, evaluator Evaluator) []string {
	out := make([]string, 0, len(versions))
	for _, v := range versions {
		if evaluator.Satisfies(vc.Raw, v) {
			out = append(out, v)
		}
	}
	return out
}

func noSatisfyingVersionReason(pkg string, constraints []VersionConstraint) string {
	reason := "no version of " + pkg + " satisfies all top-level constraints:"
	for _, vc := range constraints {
		reason += " " + pkg + " @" + vc.Raw
	}
	return reason
}

// versionsOf returns pkg's filtered version set if the filter produced one,
// otherwise falls back to the raw catalog set.
func (av *allowedVersions) versionsOf(pkg string, catalog CatalogCache) []string {
	if vs, ok := av.filtered[pkg]; ok {
		return vs
	}
	return catalog.VersionsOf(pkg)
}
