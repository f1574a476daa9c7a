package solve

import (
	"crypto/sha256"
	"sort"
)

// Dependency is a single edge from a (package, version) to another package,
// gated by a version constraint. A weak dependency contributes a constraint
// but never forces its target to be selected (spec §3).
type Dependency struct {
	ToPackage  string
	Constraint VersionConstraint
	IsWeak     bool
}

// VersionConstraint is opaque to the solver core; it carries a raw string
// (the basis for memoization, spec §9) and is handed to an Evaluator.
type VersionConstraint struct {
	Raw string
}

// Evaluator decides whether a version satisfies a raw constraint string.
// Implementations live in package verconstraint; the core only ever calls
// this interface (spec §6).
type Evaluator interface {
	Satisfies(raw, version string) bool
}

// CatalogCache is the read-only view of the universe of packages and
// versions the solver is allowed to pick from (spec §6).
type CatalogCache interface {
	VersionsOf(pkg string) []string
	DependenciesOf(pkg, version string) []Dependency
}

// CostMode selects the pricer's costing strategy for a batch of versions
// (spec §6).
type CostMode int

const (
	// ModeUpdate prices versions for "this package is being updated" --
	// newer, within-range versions are cheap.
	ModeUpdate CostMode = iota
	// ModeGravityWithPatches prices versions favoring the oldest version
	// that still receives patches, for indirect dependencies that were
	// never pinned or requested directly.
	ModeGravityWithPatches
)

// VersionPartition is the {older, compatible, higherMajor} split of a
// package's candidate versions relative to a previous version (spec §6).
type VersionPartition struct {
	Older       []string
	Compatible  []string
	HigherMajor []string
}

// VersionPricer computes integer cost vectors over a list of versions
// (spec §6). All returned slices are parallel to the input "versions" slice
// and of equal length to one another.
type VersionPricer interface {
	// PriceVersions returns [major, minor, patch, rest] cost vectors for
	// mode.
	PriceVersions(versions []string, mode CostMode) (major, minor, patch, rest []int)
	// PriceVersionsWithPrevious returns [incompat, major, minor, patch,
	// rest] cost vectors relative to previous.
	PriceVersionsWithPrevious(versions []string, previous string) (incompat, major, minor, patch, rest []int)
	// PartitionVersions splits versions relative to previous.
	PartitionVersions(versions []string, previous string) VersionPartition
}

// Input holds everything a single solve call needs. It is read-only for the
// duration of a solve (spec §3).
type Input struct {
	// Dependencies is the ordered sequence of root package names.
	Dependencies []string
	// Constraints is the ordered sequence of top-level (P, VC) pairs.
	Constraints []TopConstraint
	// Catalog answers VersionsOf/DependenciesOf.
	Catalog CatalogCache
	// Evaluator decides constraint satisfaction.
	Evaluator Evaluator
	// Pricer computes cost vectors for objective building.
	Pricer VersionPricer
	// PreviousSolution is the mapping P -> V from a prior solve, if any.
	PreviousSolution map[string]string
	// Upgrade is the set of packages the caller asked to upgrade.
	Upgrade map[string]struct{}
	// AnticipatedPrereleases whitelists prereleases that should not incur
	// the prerelease-avoidance cost.
	AnticipatedPrereleases map[string]map[string]struct{}
	// AllowIncompatibleUpdate disables the breaking-change guard on root
	// dependencies (spec §4.4 step 4/6/7).
	AllowIncompatibleUpdate bool
}

// TopConstraint is a top-level (package, constraint) pair supplied directly
// by the caller, as opposed to one discovered via dependency traversal.
type TopConstraint struct {
	Package    string
	Constraint VersionConstraint
}

func (in *Input) isKnownPackage(pkg string) bool {
	return len(in.Catalog.VersionsOf(pkg)) > 0
}

func (in *Input) isRootDependency(pkg string) bool {
	for _, d := range in.Dependencies {
		if d == pkg {
			return true
		}
	}
	return false
}

func (in *Input) isInPreviousSolution(pkg string) bool {
	_, ok := in.PreviousSolution[pkg]
	return ok
}

func (in *Input) isUpgrading(pkg string) bool {
	_, ok := in.Upgrade[pkg]
	return ok
}

// Digest computes a stable hash of the root dependencies, the top-level
// constraints and the upgrade set, mirroring the memoization guard
// golang-dep's hash.go provides around its own Solve(). The catalog, the
// previous solution, anticipated prereleases and AllowIncompatibleUpdate are
// not hashed. It is a convenience for callers wanting to skip a solve
// entirely; the core does not use it.
func (in *Input) Digest() []byte {
	h := sha256.New()
	for _, d := range in.Dependencies {
		h.Write([]byte(d))
		h.Write([]byte{0})
	}
	for _, c := range in.Constraints {
		h.Write([]byte(c.Package))
		h.Write([]byte(c.Constraint.Raw))
		h.Write([]byte{0})
	}
	names := make([]string, 0, len(in.Upgrade))
	for p := range in.Upgrade {
		names = append(names, p)
	}
	sort.Strings(names)
	for _, p := range names {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return h.Sum(nil)
}

// Options controls aspects of a solve invocation that are not properties of
// the input data itself (spec §6).
type Options struct {
	// AllAnswers requests enumeration of every optimum-equivalent solution.
	AllAnswers bool
	// Nudge is called between backend progress events during a long
	// minimization, solely so the caller can yield (spec §5). It must not
	// re-enter the solver or mutate Input.
	Nudge func()
}

// Result is the outcome of a successful solve (spec §6).
type Result struct {
	Answer                               map[string]string
	NeededToUseUnanticipatedPrereleases  bool
	AllAnswers                           []map[string]string
}
