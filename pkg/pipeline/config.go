package pipeline

import "github.com/intentguard/core/pkg/category"

// Config bundles the tunables §4.2 and §6 name for a pipeline run:
// sophistication discount, process health default, total unit budget,
// and the filesystem roots a default CorpusProvider reads from.
type Config struct {
	DataDir string
	UserID  string

	// SophisticationDiscount is step 4's constant discount (§9 "preserve
	// it as a configuration field" — no derivation is specified).
	SophisticationDiscount float64

	// DefaultProcessHealth seeds step 4's divisor when step 2's
	// governance report doesn't supply one.
	DefaultProcessHealth float64

	// TotalTrustDebtUnits is the budget step 2 distributes across
	// categories by weight (§4.2 step 2).
	TotalTrustDebtUnits int

	// CommitWindowDays bounds step 0's commit gather (default 30).
	CommitWindowDays int

	// OrthogonalityThreshold is the documentary Jaccard-correlation bar
	// step 2's orthogonality report is judged against.
	OrthogonalityThreshold float64

	// GiniBalanceThreshold is the bar below which step 2's balance
	// report considers the distribution balanced.
	GiniBalanceThreshold float64

	// ColdSpotThreshold is the combined grade/alignment bar under which
	// step 6 flags a category as a cold spot.
	ColdSpotThreshold float64

	// Goals drives step 5's alignment computation.
	Goals []Goal

	// CategoryWeights overrides category.DefaultLexicon's weights per
	// category (§6 "categories: <id>: {weight}"). A category absent from
	// the map falls back to its default lexicon weight; a nil map means
	// no overrides at all.
	CategoryWeights map[category.Category]float64
}

// Goal is one declared alignment target for step 5.
type Goal struct {
	Name           string
	TargetCategory string
	TargetScore    float64
}

// DefaultConfig returns the calibrated defaults named across §4.2 and §9:
// 30% sophistication discount, 0.8 process health, a 3000-unit budget
// matching category.MaxTrustDebtUnits, and a 30-day commit window.
func DefaultConfig(dataDir string) Config {
	return Config{
		DataDir:                dataDir,
		SophisticationDiscount: 0.30,
		DefaultProcessHealth:   0.8,
		TotalTrustDebtUnits:    3000,
		CommitWindowDays:       30,
		OrthogonalityThreshold: 0.01,
		GiniBalanceThreshold:   0.4,
		ColdSpotThreshold:      0.65,
	}
}
