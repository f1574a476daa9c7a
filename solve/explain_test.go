package solve

import (
	"strings"
	"testing"
)

func TestExplainConflictsFormatsWaivedConstraint(t *testing.T) {
	cat := newMapCatalog()
	cat.addVersions("left-pad", "1.0.0")
	e := &explainer{
		constraints: []Constraint{
			{ToPackage: "left-pad", VC: VersionConstraint{Raw: ">=2.0.0"}, ConflictVar: "conflict#0"},
		},
		answer:  map[string]string{"left-pad": "1.0.0"},
		catalog: cat,
		isRoot:  func(string) bool { return false },
	}
	lines := e.explainConflicts(map[string]struct{}{"conflict#0": {}})
	if len(lines) == 0 {
		t.Fatalf("expected at least one explanation line")
	}
	if !strings.Contains(lines[0], "left-pad") || !strings.Contains(lines[0], ">=2.0.0") {
		t.Fatalf("explanation %q missing package/constraint", lines[0])
	}
}

func TestExplainConflictsSkipsUnwaivedConstraints(t *testing.T) {
	e := &explainer{
		constraints: []Constraint{
			{ToPackage: "left-pad", VC: VersionConstraint{Raw: ">=2.0.0"}, ConflictVar: "conflict#0"},
		},
		answer:  map[string]string{"left-pad": "2.0.0"},
		catalog: newMapCatalog(),
		isRoot:  func(string) bool { return false },
	}
	lines := e.explainConflicts(map[string]struct{}{})
	if len(lines) != 0 {
		t.Fatalf("expected no lines when conflictVar is not waived, got %v", lines)
	}
}

func TestListConstraintsOnPackageTopLevel(t *testing.T) {
	e := &explainer{
		constraints: []Constraint{
			{ToPackage: "left-pad", VC: VersionConstraint{Raw: "1.0.0"}, ConflictVar: "conflict#0"},
		},
		answer:  map[string]string{"left-pad": "1.0.0"},
		catalog: newMapCatalog(),
		isRoot:  func(string) bool { return false },
	}
	lines := e.listConstraintsOnPackage("left-pad")
	if len(lines) != 1 || !strings.Contains(lines[0], "top level") {
		t.Fatalf("lines = %v, want a single top-level line", lines)
	}
}

func TestGetPathsToPackageVersionRootIsShortestPath(t *testing.T) {
	cat := newMapCatalog()
	cat.addDep("app", "1.0.0", Dependency{ToPackage: "left-pad"})
	e := &explainer{
		answer:  map[string]string{"app": "1.0.0", "left-pad": "1.0.0"},
		catalog: cat,
		isRoot:  func(p string) bool { return p == "app" },
	}
	paths := e.getPathsToPackageVersion(PV{Package: "app", Version: "1.0.0"})
	if len(paths) != 1 || len(paths[0]) != 1 {
		t.Fatalf("paths = %v, want a single 1-hop path for a root", paths)
	}
}

func TestGetPathsToPackageVersionFollowsDependerChain(t *testing.T) {
	cat := newMapCatalog()
	cat.addDep("app", "1.0.0", Dependency{ToPackage: "left-pad"})
	e := &explainer{
		answer:  map[string]string{"app": "1.0.0", "left-pad": "1.0.0"},
		catalog: cat,
		isRoot:  func(p string) bool { return p == "app" },
	}
	paths := e.getPathsToPackageVersion(PV{Package: "left-pad", Version: "1.0.0"})
	if len(paths) == 0 {
		t.Fatalf("expected at least one path from a depender")
	}
	last := paths[0][len(paths[0])-1]
	if last.Package != "app" {
		t.Fatalf("path %v should terminate at the root", paths[0])
	}
}

func TestGetPathsToPackageVersionMismatchedSelectionReturnsNil(t *testing.T) {
	e := &explainer{
		answer:  map[string]string{"left-pad": "2.0.0"},
		catalog: newMapCatalog(),
		isRoot:  func(string) bool { return false },
	}
	paths := e.getPathsToPackageVersion(PV{Package: "left-pad", Version: "1.0.0"})
	if paths != nil {
		t.Fatalf("expected nil when target version does not match the selected one, got %v", paths)
	}
}
