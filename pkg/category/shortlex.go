package category

import (
	"fmt"
	"sort"
)

// shortLexParents are the five parent letters used to build the optional
// ShortLex identifier space. Each parent owns four child suffixes (.1-.4),
// so 5*4 = 20 ShortLex IDs map bijectively onto the 20 flat categories.
var shortLexParents = []byte{'A', 'B', 'C', 'D', 'E'}

// childrenPerParent is the number of ShortLex children under each parent
// letter (suffixes .1 through .4).
const childrenPerParent = 4

// flatToShortLexTable and its inverse are built once from All, in the same
// canonical order, so the mapping is a bijection by construction.
var (
	flatToShortLexTable = buildFlatToShortLex()
	shortLexToFlatTable = invert(flatToShortLexTable)
)

func buildFlatToShortLex() map[Category]string {
	table := make(map[Category]string, len(All))
	for i, cat := range All {
		parent := shortLexParents[i/childrenPerParent]
		child := i%childrenPerParent + 1
		table[cat] = fmt.Sprintf("%c.%d", parent, child)
	}
	return table
}

func invert(m map[Category]string) map[string]Category {
	inv := make(map[string]Category, len(m))
	for k, v := range m {
		inv[v] = k
	}
	return inv
}

// FlatToShortLex maps a flat category identifier to its ShortLex identifier.
// The mapping is only defined over the 20 known flat categories; ok is false
// for anything else.
func FlatToShortLex(flat Category) (shortlex string, ok bool) {
	s, ok := flatToShortLexTable[flat]
	return s, ok
}

// ShortLexToFlat is the inverse of FlatToShortLex. Because both spaces are
// built from the same canonical 20-entry sequence, the two functions form a
// bijection whenever both identifier spaces are present in configuration.
func ShortLexToFlat(shortlex string) (flat Category, ok bool) {
	c, ok := shortLexToFlatTable[shortlex]
	return c, ok
}

// IsShortLexOrdered validates the ShortLex total order over an arbitrary
// sequence of identifiers: shorter strings precede longer ones, and among
// identifiers of equal length ordering is plain lexicographic. Validators
// (the step-3 presence matrix, the matrix report renderer) call this on
// whatever axis sequence they built to catch ordering bugs before they leak
// into a report.
func IsShortLexOrdered(seq []string) bool {
	for i := 1; i < len(seq); i++ {
		if !shortLexLess(seq[i-1], seq[i]) && seq[i-1] != seq[i] {
			return false
		}
	}
	return true
}

// shortLexLess reports whether a strictly precedes b under the ShortLex
// order: length first, then lexicographic.
func shortLexLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// SortShortLex sorts a copy of seq into ShortLex order and returns it.
func SortShortLex(seq []string) []string {
	out := make([]string, len(seq))
	copy(out, seq)
	sort.Slice(out, func(i, j int) bool {
		return shortLexLess(out[i], out[j])
	})
	return out
}
