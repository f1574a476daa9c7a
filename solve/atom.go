package solve

import (
	"strconv"
	"strings"
)

// PV is a package-version pair: the thing a boolean atom in the model
// actually refers to once it stops being "some version of P is selected"
// and starts being "version V of P is selected".
type PV struct {
	Package string
	Version string
}

// pv builds the canonical "<P> <V>" atom string for a package-version pair.
// Exactly one space separates P and V; callers are responsible for the
// invariant that neither P nor V themselves contain a space (spec §3).
func pv(pkg, ver string) string {
	return pkg + " " + ver
}

func (p PV) String() string {
	return pv(p.Package, p.Version)
}

// splitPV recovers (P, V) from a canonical "<P> <V>" atom string. It is the
// inverse of pv, used by the enumeration/decoding paths that only have the
// string form of a true variable to work with.
func splitPV(s string) (PV, bool) {
	i := strings.IndexByte(s, ' ')
	if i < 0 {
		return PV{}, false
	}
	return PV{Package: s[:i], Version: s[i+1:]}, true
}

// isPackageAtom reports whether s names a bare package atom ("some version
// of P is selected") rather than a package-version atom. Package atoms never
// contain a space; this is the same detection spec design note 9 describes
// for recovering (P,V) from a backend's true-variable listing.
func isPackageAtom(s string) bool {
	return !strings.Contains(s, " ")
}

// conflictVarName builds the name of the conflict-waiver atom for the i'th
// constraint collected during analysis (spec §4.2/§4.4).
func conflictVarName(i int) string {
	return "conflict#" + strconv.Itoa(i)
}
