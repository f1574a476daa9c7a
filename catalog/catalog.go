// Package catalog provides CatalogCache implementations: the read-only view
// of available packages, versions, and dependency edges the solver core
// consults (spec §6).
//
// MemCatalog mirrors golang-dep's bridge.go: a thin memoizing cache (there,
// bridge.vlists) layered in front of an upstream source of truth (there,
// SourceManager.ListVersions; here, a caller-supplied map), so repeated
// lookups for the same package during a single solve never re-sort or
// re-fetch the same version list twice.
package catalog

import (
	"sort"
	"sync"

	"github.com/Masterminds/semver"

	"github.com/depsolve/pvsolve/solve"
)

// PackageData is the raw catalog entry for one package: every known version
// and, for each, its outgoing dependency edges.
type PackageData struct {
	Versions     []string
	Dependencies map[string][]solve.Dependency
}

// MemCatalog is an in-memory solve.CatalogCache, grounded on golang-dep's
// bridge: packages are supplied once at construction (or via Add), and
// VersionsOf memoizes a deterministically sorted copy per package the same
// way bridge.vlists caches SourceManager.ListVersions results.
type MemCatalog struct {
	mu       sync.Mutex
	packages map[string]PackageData
	vlists   map[string][]string
}

// NewMemCatalog returns an empty MemCatalog.
func NewMemCatalog() *MemCatalog {
	return &MemCatalog{
		packages: make(map[string]PackageData),
		vlists:   make(map[string][]string),
	}
}

// Add registers or replaces the catalog entry for pkg, invalidating any
// cached version list for it.
func (c *MemCatalog) Add(pkg string, data PackageData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.packages[pkg] = data
	delete(c.vlists, pkg)
}

// VersionsOf returns pkg's known versions sorted newest-first by semver; any
// pair in which either version does not parse as semver is ordered by
// descending string comparison instead.
// The result is cached per package so a caller asking for the same package
// repeatedly within one solve only pays the sort once.
func (c *MemCatalog) VersionsOf(pkg string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if vl, ok := c.vlists[pkg]; ok {
		return vl
	}

	data, ok := c.packages[pkg]
	if !ok {
		return nil
	}

	sorted := append([]string{}, data.Versions...)
	sort.Slice(sorted, func(i, j int) bool {
		vi, erri := semver.NewVersion(sorted[i])
		vj, errj := semver.NewVersion(sorted[j])
		if erri != nil || errj != nil {
			return sorted[i] > sorted[j]
		}
		return vi.GreaterThan(vj)
	})

	c.vlists[pkg] = sorted
	return sorted
}

// DependenciesOf returns the outgoing dependency edges for (pkg, version),
// or nil if either is unknown.
func (c *MemCatalog) DependenciesOf(pkg, version string) []solve.Dependency {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.packages[pkg]
	if !ok {
		return nil
	}
	return data.Dependencies[version]
}

var _ solve.CatalogCache = (*MemCatalog)(nil)
