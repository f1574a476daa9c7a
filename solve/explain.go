package solve

import "sort"

// explainer builds human-readable conflict messages from a finished model
// (component H, spec §4.6). It only reads the selected assignment and the
// constraints collected during analysis; it asserts nothing back into the
// backend.
type explainer struct {
	constraints []Constraint
	answer      map[string]string
	catalog     CatalogCache
	isRoot      func(string) bool
}

// explainConflicts formats one message per constraint whose conflictVar is
// true in the model (spec §4.6).
func (e *explainer) explainConflicts(trueVars map[string]struct{}) []string {
	var out []string
	for _, c := range e.constraints {
		if _, waived := trueVars[c.ConflictVar]; !waived {
			continue
		}
		v, ok := e.answer[c.ToPackage]
		assertInvariant(ok, "conflict explainer: selected version of "+c.ToPackage+" not found in model")

		msg := "conflict: constraint " + c.ToPackage + " @" + c.VC.Raw +
			" is not satisfied by " + c.ToPackage + " " + v + "."
		out = append(out, msg)
		out = append(out, e.listConstraintsOnPackage(c.ToPackage)...)
	}
	return out
}

// listConstraintsOnPackage emits one line per constraint whose toPackage ==
// pkg (spec §4.6).
func (e *explainer) listConstraintsOnPackage(pkg string) []string {
	var lines []string
	for _, c := range e.constraints {
		if c.ToPackage != pkg {
			continue
		}
		if c.isTopLevel() {
			lines = append(lines, "* "+pkg+" @"+c.VC.Raw+" <- top level")
			continue
		}
		from, ok := splitPV(c.FromVar)
		if !ok {
			continue
		}
		paths := e.getPathsToPackageVersion(from)
		for _, path := range paths {
			lines = append(lines, "* "+pkg+" @"+c.VC.Raw+formatPath(path))
		}
	}
	return lines
}

func formatPath(path []PV) string {
	s := ""
	for _, hop := range path {
		s += " <- " + hop.String()
	}
	return s
}

// getPathsToPackageVersion performs the shortest-paths-so-far DFS of spec
// §4.6: only over the selected assignment, bounding combinatorial
// explosion by discarding any path longer than the shortest found so far
// rather than enumerating every path.
func (e *explainer) getPathsToPackageVersion(target PV) [][]PV {
	if e.answer[target.Package] != target.Version {
		return nil
	}
	if e.isRoot(target.Package) {
		return [][]PV{{target}}
	}
	return e.pathsFrom(target, make(map[string]struct{}))
}

func (e *explainer) pathsFrom(target PV, onStack map[string]struct{}) [][]PV {
	var best [][]PV
	shortest := -1

	for _, p := range e.sortedSelectedPackages() {
		if _, busy := onStack[p]; busy {
			continue
		}
		if !e.hasDep(p, target.Package) {
			continue
		}

		onStack[p] = struct{}{}
		parent := PV{Package: p, Version: e.answer[p]}
		var sub [][]PV
		if e.isRoot(p) {
			sub = [][]PV{{parent}}
		} else {
			sub = e.pathsFrom(parent, onStack)
		}
		delete(onStack, p)

		for _, path := range sub {
			full := append([]PV{target}, path...)
			if shortest < 0 || len(full) <= shortest {
				if shortest < 0 || len(full) < shortest {
					best = nil
				}
				best = append(best, full)
				shortest = len(full)
			}
		}
	}
	return best
}

func (e *explainer) hasDep(p, q string) bool {
	v, ok := e.answer[p]
	if !ok {
		return false
	}
	for _, dep := range e.catalog.DependenciesOf(p, v) {
		if dep.ToPackage == q {
			return true
		}
	}
	return false
}

func (e *explainer) sortedSelectedPackages() []string {
	names := make([]string, 0, len(e.answer))
	for p := range e.answer {
		names = append(names, p)
	}
	sort.Strings(names)
	return names
}
