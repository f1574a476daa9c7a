// Package verconstraint provides VersionConstraint evaluators (spec §6):
// given a raw constraint string and a version string, decide whether the
// version satisfies the constraint. The solve package only ever calls the
// Evaluator interface; everything here is replaceable.
//
// One adapter exists per package ecosystem the ambient example pack
// demonstrates side by side: semver (the teacher's own comparator),
// PEP 440 (pip), Debian version ordering (apt), and multi-range set
// intersection (npm/Maven-style "1.2.3 || >=2.0.0 <3.0.0").
package verconstraint

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"
	debversion "github.com/knqyf263/go-deb-version"

	"github.com/Masterminds/semver"
	gsemver "deps.dev/util/semver"
)

// Semver evaluates raw constraints with github.com/Masterminds/semver,
// the same comparator golang-dep vendors for its own version.go.
type Semver struct{}

// Satisfies reports whether version matches the semver range raw (e.g.
// ">=1.2.0, <2.0.0").
func (Semver) Satisfies(raw, version string) bool {
	c, err := semver.NewConstraint(raw)
	if err != nil {
		return false
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return c.Check(v)
}

// PEP440 evaluates raw constraints as PEP 440 specifier sets (pip-shaped
// catalogs), grounded on avular-packages's internal/core/version.go.
type PEP440 struct{}

// Satisfies reports whether version matches the PEP 440 specifier set raw
// (e.g. ">=1.0,!=1.5.*").
func (PEP440) Satisfies(raw, version string) bool {
	spec, err := pep440.NewSpecifiers(raw)
	if err != nil {
		return false
	}
	v, err := pep440.Parse(version)
	if err != nil {
		return false
	}
	return spec.Check(v)
}

// Debian evaluates raw constraints as a single Debian-style comparison:
// raw is "<op> <version>" (e.g. ">= 1.2.3-1", "= 2.0") joining the
// operator and the version to compare against, grounded on
// avular-packages's internal/core/version.go satisfiesDeb.
type Debian struct{}

// Satisfies reports whether version compares correctly against the
// operator/version pair encoded in raw.
func (Debian) Satisfies(raw, version string) bool {
	op, rawVer, ok := splitOp(raw)
	if !ok {
		return false
	}
	v, err := debversion.NewVersion(version)
	if err != nil {
		return false
	}
	c, err := debversion.NewVersion(rawVer)
	if err != nil {
		return false
	}
	switch op {
	case "=", "==":
		return v.Equal(c)
	case ">=":
		return !v.LessThan(c)
	case "<=":
		return !v.GreaterThan(c)
	case ">":
		return v.GreaterThan(c)
	case "<":
		return v.LessThan(c)
	default:
		return false
	}
}

func splitOp(raw string) (op, version string, ok bool) {
	raw = strings.TrimSpace(raw)
	for _, candidate := range []string{">=", "<=", "==", "=", ">", "<"} {
		if strings.HasPrefix(raw, candidate) {
			return candidate, strings.TrimSpace(strings.TrimPrefix(raw, candidate)), true
		}
	}
	return "", "", false
}

// Range evaluates raw as an npm-style constraint set: comma/space-separated
// intersections, "||"-separated unions, and hyphen ranges, resolved by
// google-deps.dev/util/semver's Set/Span intersection machinery rather than
// Masterminds/semver's comma-only AND grammar, so raw can express anything
// npm's own resolver accepts (e.g. "1.2.3 || >=2.0.0 <3.0.0"), which
// Masterminds/semver.NewConstraint cannot parse at all.
type Range struct{}

// Satisfies reports whether version lies in the span set raw describes.
func (Range) Satisfies(raw, version string) bool {
	c, err := gsemver.NPM.ParseConstraint(raw)
	if err != nil {
		return false
	}
	return c.Match(version)
}

// unknownEcosystem builds the error returned when an Evaluator is
// misconfigured at startup (e.g. an unknown ecosystem name), matching
// avular-packages's errbuilder.New().WithCode(...).WithMsg(...) idiom.
func unknownEcosystem(name string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("verconstraint: unknown ecosystem " + name)
}

// Evaluator decides whether a version satisfies a raw constraint string.
// It is structurally identical to solve.Evaluator; this package does not
// import solve in order to keep the dependency direction one-way.
type Evaluator interface {
	Satisfies(raw, version string) bool
}

// ForEcosystem returns the Evaluator registered for name ("semver",
// "pep440", "debian", "range"), or an error if name is not recognized.
func ForEcosystem(name string) (Evaluator, error) {
	switch name {
	case "semver":
		return Semver{}, nil
	case "pep440":
		return PEP440{}, nil
	case "debian":
		return Debian{}, nil
	case "range":
		return Range{}, nil
	default:
		return nil, unknownEcosystem(name)
	}
}
