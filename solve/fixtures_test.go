package solve

// mapCatalog is a minimal CatalogCache stub for package-local tests, standing
// in for catalog.MemCatalog without creating an import cycle (package catalog
// itself imports solve).
type mapCatalog struct {
	versions map[string][]string
	deps     map[string]map[string][]Dependency
}

func newMapCatalog() *mapCatalog {
	return &mapCatalog{
		versions: make(map[string][]string),
		deps:     make(map[string]map[string][]Dependency),
	}
}

func (c *mapCatalog) addVersions(pkg string, versions ...string) {
	c.versions[pkg] = versions
}

func (c *mapCatalog) addDep(pkg, version string, dep Dependency) {
	if c.deps[pkg] == nil {
		c.deps[pkg] = make(map[string][]Dependency)
	}
	c.deps[pkg][version] = append(c.deps[pkg][version], dep)
}

func (c *mapCatalog) VersionsOf(pkg string) []string {
	return c.versions[pkg]
}

func (c *mapCatalog) DependenciesOf(pkg, version string) []Dependency {
	return c.deps[pkg][version]
}

var _ CatalogCache = (*mapCatalog)(nil)

// exactEvaluator treats a raw constraint as exactly one acceptable version,
// or "*" to accept anything -- enough surface for tests that don't need a
// real semver range parser.
type exactEvaluator struct{}

func (exactEvaluator) Satisfies(raw, version string) bool {
	return raw == "*" || raw == version
}

var _ Evaluator = exactEvaluator{}

// stubPricer returns a constant cost vector regardless of input, for tests
// that only exercise the objective-assembly plumbing, not pricing itself.
type stubPricer struct{}

func (stubPricer) PriceVersions(versions []string, mode CostMode) (major, minor, patch, rest []int) {
	n := len(versions)
	return make([]int, n), make([]int, n), make([]int, n), make([]int, n)
}

func (stubPricer) PriceVersionsWithPrevious(versions []string, previous string) (incompat, major, minor, patch, rest []int) {
	n := len(versions)
	return make([]int, n), make([]int, n), make([]int, n), make([]int, n), make([]int, n)
}

func (stubPricer) PartitionVersions(versions []string, previous string) VersionPartition {
	return VersionPartition{Compatible: versions}
}

var _ VersionPricer = stubPricer{}
