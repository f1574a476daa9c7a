// Package pricer implements the VersionPricer collaborator from spec §6: it
// turns a list of version strings into the integer cost vectors the
// objective builder (solve.objective.go) assembles into minimization steps.
//
// ModeUpdate pricing and PriceVersionsWithPrevious are grounded on
// deps.dev/util/semver's Difference classification (diff.go's Diff enum:
// major/minor/patch/prerelease/build), composed with
// github.com/Masterminds/semver for the actual numeric ordering within a
// bucket -- the same comparator golang-dep vendors for its own version.go.
// ModeGravityWithPatches does not use Difference; it groups versions by
// (major, minor) line with Masterminds/semver alone.
package pricer

import (
	"sort"

	"github.com/Masterminds/semver"
	gsemver "deps.dev/util/semver"

	"github.com/depsolve/pvsolve/solve"
)

// Default is the VersionPricer used when a caller does not supply one.
type Default struct{}

var _ solve.VersionPricer = Default{}

// PriceVersions returns [major, minor, patch, rest] cost vectors, parallel
// to versions, for mode.
//
// Every version is priced against the newest parseable version in the list
// (ties broken by input order). A version's entire cost lands in the single
// bucket matching its most significant difference from that newest version;
// the magnitude is its 1-based rank among versions sharing that bucket, so
// the newest version overall costs 0 everywhere, the newest version in each
// bucket costs 1, and each older sibling costs more. Versions differing from
// the newest only in prerelease or build metadata, and versions that do not
// parse, cost a flat 1 in rest. ModeGravityWithPatches instead buckets and ranks by (major, minor)
// line, favoring the oldest line that still has its newest patch applied.
func (Default) PriceVersions(versions []string, mode solve.CostMode) (major, minor, patch, rest []int) {
	n := len(versions)
	major = make([]int, n)
	minor = make([]int, n)
	patch = make([]int, n)
	rest = make([]int, n)

	parsed := parseAll(versions)
	switch mode {
	case solve.ModeGravityWithPatches:
		priceGravity(parsed, major, minor, patch)
	default:
		priceUpdate(parsed, major, minor, patch, rest)
	}
	return major, minor, patch, rest
}

// PriceVersionsWithPrevious returns [incompat, major, minor, patch, rest]
// cost vectors, parallel to versions, relative to previous.
//
// incompat is 1 for any version whose Difference from previous classifies as
// DiffMajor (a semver-breaking jump), 0 otherwise. The remaining four
// vectors carry the absolute numeric distance from previous in the
// component matching the Difference classification; a version identical to
// previous costs 0 everywhere, and a version differing only in
// prerelease/build metadata, or one that does not parse, costs 1 in rest.
func (Default) PriceVersionsWithPrevious(versions []string, previous string) (incompat, major, minor, patch, rest []int) {
	n := len(versions)
	incompat = make([]int, n)
	major = make([]int, n)
	minor = make([]int, n)
	patch = make([]int, n)
	rest = make([]int, n)

	prev, prevOK := semver.NewVersion(previous)
	for i, raw := range versions {
		v, err := semver.NewVersion(raw)
		if err != nil || !prevOK {
			rest[i] = 1
			continue
		}
		_, diff, derr := gsemver.DefaultSystem.Difference(previous, raw)
		if derr != nil {
			rest[i] = 1
			continue
		}
		switch diff {
		case gsemver.DiffMajor:
			incompat[i] = 1
			major[i] = absInt64(v.Major() - prev.Major())
		case gsemver.DiffMinor:
			minor[i] = absInt64(v.Minor() - prev.Minor())
		case gsemver.DiffPatch:
			patch[i] = absInt64(v.Patch() - prev.Patch())
		case gsemver.Same:
			// no cost anywhere
		default:
			rest[i] = 1
		}
	}
	return incompat, major, minor, patch, rest
}

// PartitionVersions splits versions into {older, compatible, higherMajor}
// relative to previous (spec §6): older precedes previous, compatible
// shares previous's major version (0.x lines are compatible only with the
// same minor, per semver's pre-1.0 convention), and higherMajor is every
// breaking jump ahead.
func (Default) PartitionVersions(versions []string, previous string) solve.VersionPartition {
	var part solve.VersionPartition
	prev, err := semver.NewVersion(previous)
	if err != nil {
		part.Compatible = append(part.Compatible, versions...)
		return part
	}
	for _, raw := range versions {
		v, err := semver.NewVersion(raw)
		if err != nil {
			part.Compatible = append(part.Compatible, raw)
			continue
		}
		switch {
		case v.LessThan(prev):
			part.Older = append(part.Older, raw)
		case v.Major() != prev.Major():
			part.HigherMajor = append(part.HigherMajor, raw)
		case prev.Major() == 0 && v.Minor() != prev.Minor():
			part.HigherMajor = append(part.HigherMajor, raw)
		default:
			part.Compatible = append(part.Compatible, raw)
		}
	}
	return part
}

type parsedVersion struct {
	raw   string
	index int
	v     *semver.Version
	ok    bool
}

func parseAll(versions []string) []parsedVersion {
	out := make([]parsedVersion, len(versions))
	for i, raw := range versions {
		v, err := semver.NewVersion(raw)
		out[i] = parsedVersion{raw: raw, index: i, v: v, ok: err == nil}
	}
	return out
}

// priceUpdate favors the single newest parseable version overall.
func priceUpdate(parsed []parsedVersion, major, minor, patch, rest []int) {
	newest, ok := newestOf(parsed)
	if !ok {
		for i := range rest {
			rest[i] = 1
		}
		return
	}

	sorted := append([]parsedVersion{}, parsed...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].ok || !sorted[j].ok {
			return sorted[i].ok
		}
		return sorted[i].v.GreaterThan(sorted[j].v)
	})

	majorRank, minorRank, patchRank := 1, 1, 1
	for _, p := range sorted {
		if !p.ok {
			rest[p.index] = 1
			continue
		}
		_, diff, err := gsemver.DefaultSystem.Difference(newest.raw, p.raw)
		if err != nil {
			rest[p.index] = 1
			continue
		}
		switch diff {
		case gsemver.DiffMajor:
			major[p.index] = majorRank
			majorRank++
		case gsemver.DiffMinor:
			minor[p.index] = minorRank
			minorRank++
		case gsemver.DiffPatch:
			patch[p.index] = patchRank
			patchRank++
		case gsemver.Same:
			// newest itself, or an exact duplicate: no cost
		default:
			rest[p.index] = 1
		}
	}
}

// priceGravity favors the oldest (major, minor) line, and within a line the
// newest patch.
func priceGravity(parsed []parsedVersion, major, minor, patch []int) {
	type line struct {
		maj, min int64
		maxPatch int64
		members  []int
	}
	lines := map[[2]int64]*line{}
	var order [][2]int64
	for _, p := range parsed {
		if !p.ok {
			continue
		}
		key := [2]int64{p.v.Major(), p.v.Minor()}
		l, ok := lines[key]
		if !ok {
			l = &line{maj: key[0], min: key[1]}
			lines[key] = l
			order = append(order, key)
		}
		if p.v.Patch() > l.maxPatch || len(l.members) == 0 {
			l.maxPatch = p.v.Patch()
		}
		l.members = append(l.members, p.index)
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i][0] != order[j][0] {
			return order[i][0] < order[j][0]
		}
		return order[i][1] < order[j][1]
	})

	majorRank, minorRank := 0, 0
	prevMajor := int64(0)
	haveMajor := false
	for _, key := range order {
		l := lines[key]
		if !haveMajor || l.maj != prevMajor {
			if haveMajor {
				majorRank++
			}
			minorRank = 0
			prevMajor = l.maj
			haveMajor = true
		}
		for _, idx := range l.members {
			major[idx] = majorRank
			minor[idx] = minorRank
			patch[idx] = absInt64(l.maxPatch - parsedAt(parsed, idx).v.Patch())
		}
		minorRank++
	}
}

func parsedAt(parsed []parsedVersion, index int) parsedVersion {
	for _, p := range parsed {
		if p.index == index {
			return p
		}
	}
	return parsedVersion{}
}

func newestOf(parsed []parsedVersion) (parsedVersion, bool) {
	var best parsedVersion
	found := false
	for _, p := range parsed {
		if !p.ok {
			continue
		}
		if !found || p.v.GreaterThan(best.v) {
			best = p
			found = true
		}
	}
	return best, found
}

func absInt64(n int64) int {
	if n < 0 {
		return int(-n)
	}
	return int(n)
}
