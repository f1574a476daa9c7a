package solve

import "testing"

func TestBuildUpdateStepsNamesAndWeights(t *testing.T) {
	cat := newMapCatalog()
	cat.addVersions("left-pad", "1.0.0", "2.0.0")
	av := &allowedVersions{filtered: map[string][]string{}}
	in := &Input{Catalog: cat, Pricer: stubPricer{}}

	major, minor, patch, rest := buildUpdateSteps(in, av, "update", []string{"left-pad"}, ModeUpdate)
	for _, s := range []*Step{major, minor, patch, rest} {
		terms, _ := s.termsAndWeights()
		if len(terms) != 0 {
			t.Fatalf("stubPricer returns all-zero weights, %s should have no terms, got %v", s.Name, terms)
		}
	}
	if major.Name != "update_major" || rest.Name != "update_rest" {
		t.Fatalf("unexpected step names: %s / %s", major.Name, rest.Name)
	}
}

func TestBuildUnknownPackagesStepOneTermPerName(t *testing.T) {
	s := buildUnknownPackagesStep(map[string][]string{"ghost": {"app 1.0.0"}, "other": {"app 1.0.0"}})
	terms, weights := s.termsAndWeights()
	if len(terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(terms))
	}
	for _, w := range weights {
		if w != 1 {
			t.Fatalf("weights = %v, want all 1", weights)
		}
	}
}

func TestBuildConflictsStepOneTermPerConstraint(t *testing.T) {
	constraints := []Constraint{
		{ToPackage: "a", ConflictVar: "conflict#0"},
		{ToPackage: "b", ConflictVar: "conflict#1"},
	}
	s := buildConflictsStep(constraints)
	terms, _ := s.termsAndWeights()
	if len(terms) != 2 {
		t.Fatalf("expected 2 terms, got %v", terms)
	}
}

func TestBuildUnanticipatedPrereleasesStepSkipsWhitelisted(t *testing.T) {
	cat := newMapCatalog()
	cat.addVersions("left-pad", "1.0.0", "2.0.0-beta.1", "3.0.0-rc.1")
	av := &allowedVersions{filtered: map[string][]string{}}
	in := &Input{
		Catalog:                cat,
		AnticipatedPrereleases: map[string]map[string]struct{}{"left-pad": {"2.0.0-beta.1": {}}},
	}

	s := buildUnanticipatedPrereleasesStep(in, av, []string{"left-pad"})
	terms, _ := s.termsAndWeights()
	if len(terms) != 1 || terms[0] != "left-pad 3.0.0-rc.1" {
		t.Fatalf("terms = %v, want only the non-whitelisted prerelease", terms)
	}
}

func TestBuildTotalPackagesStepOneTermPerReachable(t *testing.T) {
	s := buildTotalPackagesStep([]string{"a", "b", "c"})
	terms, weights := s.termsAndWeights()
	if len(terms) != 3 {
		t.Fatalf("expected 3 terms, got %v", terms)
	}
	for _, w := range weights {
		if w != 1 {
			t.Fatalf("weights = %v, want all 1", weights)
		}
	}
}

func TestIsPrerelease(t *testing.T) {
	cases := map[string]bool{
		"1.0.0":        false,
		"1.0.0-beta.1": true,
		"2.0.0-rc.1":   true,
	}
	for v, want := range cases {
		if got := isPrerelease(v); got != want {
			t.Fatalf("isPrerelease(%q) = %v, want %v", v, got, want)
		}
	}
}

func TestBuildPreviousRootIncompatGuardTermsOnlyRootsWithPrevious(t *testing.T) {
	cat := newMapCatalog()
	cat.addVersions("left-pad", "1.0.0", "2.0.0")
	av := &allowedVersions{filtered: map[string][]string{}}
	in := &Input{
		Catalog:          cat,
		Pricer:           partitionPricer{older: []string{"1.0.0"}, higherMajor: []string{"2.0.0"}},
		PreviousSolution: map[string]string{"left-pad": "1.5.0"},
	}
	step := newScalarStep("previous_root_incompat", 1)
	toUpdate := map[string]struct{}{"left-pad": {}, "not-root": {}}
	buildPreviousRootIncompatGuardTerms(step, in, av, toUpdate, func(p string) bool { return p == "left-pad" })

	terms, _ := step.termsAndWeights()
	if len(terms) != 2 {
		t.Fatalf("expected 2 terms (older + higherMajor), got %v", terms)
	}
}

// partitionPricer is a VersionPricer stub returning a fixed partition,
// letting buildPreviousRootIncompatGuardTerms be tested without a real
// pricer's classification logic.
type partitionPricer struct {
	older       []string
	higherMajor []string
}

func (p partitionPricer) PriceVersions(versions []string, mode CostMode) (major, minor, patch, rest []int) {
	n := len(versions)
	return make([]int, n), make([]int, n), make([]int, n), make([]int, n)
}

func (p partitionPricer) PriceVersionsWithPrevious(versions []string, previous string) (incompat, major, minor, patch, rest []int) {
	n := len(versions)
	return make([]int, n), make([]int, n), make([]int, n), make([]int, n), make([]int, n)
}

func (p partitionPricer) PartitionVersions(versions []string, previous string) VersionPartition {
	return VersionPartition{Older: p.older, HigherMajor: p.higherMajor}
}

var _ VersionPricer = partitionPricer{}
