package satbackend

import "testing"

func TestSolveSatisfiesUnitClauses(t *testing.T) {
	b := New()
	b.Require(Unit(L("a")))
	b.Require(Unit(N("b")))
	assignment, ok := b.Solve()
	if !ok {
		t.Fatalf("expected a satisfying assignment")
	}
	if !assignment.Evaluate("a") {
		t.Fatalf("a should be true")
	}
	if assignment.Evaluate("b") {
		t.Fatalf("b should be false")
	}
}

func TestSolveUnsatisfiable(t *testing.T) {
	b := New()
	b.Require(Unit(L("a")))
	b.Require(Unit(N("a")))
	if _, ok := b.Solve(); ok {
		t.Fatalf("a ∧ ¬a should be unsatisfiable")
	}
}

func TestAtMostOneEnforced(t *testing.T) {
	b := New()
	b.Require(AtMostOne("x", "y", "z"))
	b.Require(Unit(L("x")))
	b.Require(Unit(L("y")))
	if _, ok := b.Solve(); ok {
		t.Fatalf("x and y both true should violate AtMostOne")
	}
}

func TestIffForcesEquivalence(t *testing.T) {
	b := New()
	b.Require(Iff("P", "P 1.0.0", "P 2.0.0"))
	b.Require(AtMostOne("P 1.0.0", "P 2.0.0"))
	b.Require(Unit(N("P 1.0.0")))
	b.Require(Unit(N("P 2.0.0")))
	assignment, ok := b.Solve()
	if !ok {
		t.Fatalf("expected a satisfying assignment")
	}
	if assignment.Evaluate("P") {
		t.Fatalf("P should be false when neither version is selected")
	}
}

func TestSolveAssumingAddsTemporaryClauses(t *testing.T) {
	b := New()
	b.Require(Unit(L("a")))
	assignment, ok := b.SolveAssuming(Unit(N("a")))
	if ok {
		t.Fatalf("a ∧ ¬a (via SolveAssuming) should be unsatisfiable, got %v", assignment)
	}
	// The assumption must not persist: a plain Solve() afterward still finds a.
	again, ok := b.Solve()
	if !ok || !again.Evaluate("a") {
		t.Fatalf("SolveAssuming's clause should not leak into subsequent Solve() calls")
	}
}

func TestForbidBlocksExactAssignment(t *testing.T) {
	b := New()
	b.Require(AtMostOne("x", "y"))
	b.Require(Disjunction(L("x"), L("y")))

	first, ok := b.Solve()
	if !ok {
		t.Fatalf("expected a satisfying assignment")
	}
	b.Forbid(first.Formula())
	second, ok := b.Solve()
	if !ok {
		t.Fatalf("expected another satisfying assignment after forbidding the first")
	}
	if second.Evaluate("x") == first.Evaluate("x") {
		t.Fatalf("second solution should differ from the first on at least x/y")
	}

	b.Forbid(second.Formula())
	if _, ok := b.Solve(); ok {
		t.Fatalf("both solutions forbidden; expected unsatisfiable")
	}
}

func TestMinimizeFindsLowestWeightedSum(t *testing.T) {
	b := New()
	b.Require(AtMostOne("x", "y"))
	b.Require(Disjunction(L("x"), L("y")))

	current, ok := b.Solve()
	if !ok {
		t.Fatalf("expected a satisfying assignment")
	}
	best, ok := b.Minimize(current, []string{"x", "y"}, []int{5, 1}, MinimizeOptions{})
	if !ok {
		t.Fatalf("expected Minimize to find an assignment")
	}
	if best.Evaluate("x") {
		t.Fatalf("x has the higher weight; minimization should prefer y")
	}
	if !best.Evaluate("y") {
		t.Fatalf("expected y true")
	}
}

func TestMinimizeLocksOptimumForLaterCalls(t *testing.T) {
	b := New()
	b.Require(AtMostOne("x", "y"))
	b.Require(Disjunction(L("x"), L("y")))

	current, ok := b.Solve()
	if !ok {
		t.Fatalf("expected a satisfying assignment")
	}
	current, ok = b.Minimize(current, []string{"x", "y"}, []int{5, 1}, MinimizeOptions{})
	if !ok {
		t.Fatalf("expected Minimize to succeed")
	}
	// A later minimization over an unrelated term must not regress the
	// already-locked optimum of the first.
	final, ok := b.Minimize(current, []string{"x"}, []int{1}, MinimizeOptions{})
	if !ok {
		t.Fatalf("expected second Minimize to succeed")
	}
	if final.Evaluate("x") {
		t.Fatalf("locked optimum should keep x false")
	}
}

func TestMinimizeProgressCallback(t *testing.T) {
	b := New()
	b.Require(Unit(L("a")))
	calls := 0
	current, _ := b.Solve()
	_, ok := b.Minimize(current, []string{"a"}, []int{1}, MinimizeOptions{Progress: func() { calls++ }})
	if !ok {
		t.Fatalf("expected Minimize to succeed")
	}
	if calls == 0 {
		t.Fatalf("expected the Progress callback to be invoked at least once")
	}
}

func TestWeightedSum(t *testing.T) {
	b := New()
	b.Require(Unit(L("a")))
	b.Require(Unit(N("b")))
	assignment, _ := b.Solve()
	sum := assignment.WeightedSum([]string{"a", "b"}, []int{10, 100})
	if sum != 10 {
		t.Fatalf("WeightedSum = %d, want 10 (only a is true)", sum)
	}
}
