package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/depsolve/pvsolve/catalog"
	"github.com/depsolve/pvsolve/pricer"
	"github.com/depsolve/pvsolve/solve"
	"github.com/depsolve/pvsolve/verconstraint"
)

// document is the YAML request shape pvsolve reads: a catalog plus a solve
// request, flattened into one file since there is no VCS/network layer to
// source either from separately.
type document struct {
	Ecosystem               string                   `yaml:"ecosystem"`
	Dependencies            []string                 `yaml:"dependencies"`
	Constraints             []constraintEntry        `yaml:"constraints"`
	Catalog                 map[string]packageEntry  `yaml:"catalog"`
	PreviousSolution        map[string]string        `yaml:"previous_solution"`
	Upgrade                 []string                 `yaml:"upgrade"`
	AnticipatedPrereleases  map[string][]string      `yaml:"anticipated_prereleases"`
	AllowIncompatibleUpdate bool                     `yaml:"allow_incompatible_update"`
	AllAnswers              bool                     `yaml:"all_answers"`
}

type constraintEntry struct {
	Package    string `yaml:"package"`
	Constraint string `yaml:"constraint"`
}

type packageEntry struct {
	Versions     []string                     `yaml:"versions"`
	Dependencies map[string][]dependencyEntry `yaml:"dependencies"`
}

type dependencyEntry struct {
	To         string `yaml:"to"`
	Constraint string `yaml:"constraint"`
	Weak       bool   `yaml:"weak"`
}

func loadDocument(path string) (*document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read input file")
	}
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "parse input file")
	}
	return &doc, nil
}

// toInput builds a solve.Input, with its Evaluator and Pricer filled in, from
// the document, wiring a fresh catalog.MemCatalog from its flattened catalog
// map.
func (d *document) toInput() (*solve.Input, error) {
	evaluator, err := verconstraint.ForEcosystem(d.Ecosystem)
	if err != nil {
		return nil, errors.Wrap(err, "resolve ecosystem evaluator")
	}

	cat := catalog.NewMemCatalog()
	for pkg, entry := range d.Catalog {
		deps := make(map[string][]solve.Dependency, len(entry.Dependencies))
		for version, edges := range entry.Dependencies {
			converted := make([]solve.Dependency, len(edges))
			for i, e := range edges {
				converted[i] = solve.Dependency{
					ToPackage:  e.To,
					Constraint: solve.VersionConstraint{Raw: e.Constraint},
					IsWeak:     e.Weak,
				}
			}
			deps[version] = converted
		}
		cat.Add(pkg, catalog.PackageData{Versions: entry.Versions, Dependencies: deps})
	}

	constraints := make([]solve.TopConstraint, len(d.Constraints))
	for i, c := range d.Constraints {
		constraints[i] = solve.TopConstraint{
			Package:    c.Package,
			Constraint: solve.VersionConstraint{Raw: c.Constraint},
		}
	}

	upgrade := make(map[string]struct{}, len(d.Upgrade))
	for _, p := range d.Upgrade {
		upgrade[p] = struct{}{}
	}

	anticipated := make(map[string]map[string]struct{}, len(d.AnticipatedPrereleases))
	for pkg, versions := range d.AnticipatedPrereleases {
		set := make(map[string]struct{}, len(versions))
		for _, v := range versions {
			set[v] = struct{}{}
		}
		anticipated[pkg] = set
	}

	return &solve.Input{
		Dependencies:            d.Dependencies,
		Constraints:             constraints,
		Catalog:                 cat,
		Evaluator:               evaluator,
		Pricer:                  pricer.Default{},
		PreviousSolution:        d.PreviousSolution,
		Upgrade:                 upgrade,
		AnticipatedPrereleases:  anticipated,
		AllowIncompatibleUpdate: d.AllowIncompatibleUpdate,
	}, nil
}
