package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCategories_FixedTwenty(t *testing.T) {
	cats := ListCategories()
	require.Len(t, cats, Count)

	seen := make(map[Category]bool, Count)
	for _, c := range cats {
		assert.True(t, c.IsValid())
		assert.False(t, seen[c], "duplicate category %s", c)
		seen[c] = true
	}
}

func TestIsValid_RejectsUnknown(t *testing.T) {
	assert.False(t, Category("not_a_category").IsValid())
	assert.True(t, Security.IsValid())
}

func TestFlatToShortLex_Bijection(t *testing.T) {
	seen := make(map[string]Category, Count)
	for _, c := range All {
		sl, ok := FlatToShortLex(c)
		require.True(t, ok)

		back, ok := ShortLexToFlat(sl)
		require.True(t, ok)
		assert.Equal(t, c, back)

		assert.NotContains(t, seen, sl, "ShortLex id %s reused", sl)
		seen[sl] = c
	}
	assert.Len(t, seen, Count)
}

func TestFlatToShortLex_UnknownCategory(t *testing.T) {
	_, ok := FlatToShortLex(Category("bogus"))
	assert.False(t, ok)
}

// TestIsShortLexOrdered_FullSequence is property P11: for every adjacent
// pair (a,b) in the emitted sequence, len(a) <= len(b), and if equal,
// a <= b lexicographically.
func TestIsShortLexOrdered_FullSequence(t *testing.T) {
	ids := make([]string, 0, Count)
	for _, c := range All {
		sl, ok := FlatToShortLex(c)
		require.True(t, ok)
		ids = append(ids, sl)
	}
	assert.True(t, IsShortLexOrdered(ids))
}

func TestIsShortLexOrdered_DetectsViolation(t *testing.T) {
	assert.True(t, IsShortLexOrdered([]string{"A", "A.1", "A.2", "B"}))
	assert.False(t, IsShortLexOrdered([]string{"A.2", "A.1"}))
	assert.False(t, IsShortLexOrdered([]string{"BB", "A"}))
	assert.True(t, IsShortLexOrdered(nil))
	assert.True(t, IsShortLexOrdered([]string{"only"}))
}

func TestSortShortLex(t *testing.T) {
	out := SortShortLex([]string{"B.2", "A.4", "A.1", "BB"})
	assert.Equal(t, []string{"A.1", "A.4", "B.2", "BB"}, out)
}

// TestGradeOf is S5 / P12: exact grade boundaries.
func TestGradeOf(t *testing.T) {
	cases := []struct {
		units int
		want  Grade
	}{
		{0, GradeA},
		{500, GradeA},
		{501, GradeB},
		{1500, GradeB},
		{1501, GradeC},
		{3000, GradeC},
		{3001, GradeD},
		{10000, GradeD},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, GradeOf(tc.units), "units=%d", tc.units)
	}
}

func TestUnitsToScore_ClipsToRange(t *testing.T) {
	assert.Equal(t, 1.0, UnitsToScore(-100))
	assert.Equal(t, 0.0, UnitsToScore(MaxTrustDebtUnits))
	assert.Equal(t, 0.0, UnitsToScore(MaxTrustDebtUnits*2))
	assert.InDelta(t, 0.5, UnitsToScore(MaxTrustDebtUnits/2), 1e-9)
}

func TestDefaultLexicon_CoversAllCategories(t *testing.T) {
	for _, c := range All {
		def, ok := DefaultLexicon[c]
		require.True(t, ok, "missing default lexicon for %s", c)
		assert.NotEmpty(t, def.Keywords)
		assert.Greater(t, def.Weight, 0.0)
	}
}
