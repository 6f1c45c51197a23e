package models

import (
	"time"

	"github.com/intentguard/core/pkg/category"
)

// IdentityVector is the sole output of the analysis pipeline consumed by the
// permission engine (§3, §4.2 "Identity projection"). It is exclusively
// owned by pipeline step 4; every other component holds only a read
// reference.
type IdentityVector struct {
	UserID      string `json:"userId"`
	LastUpdated time.Time `json:"lastUpdated"`

	// CategoryScores maps each category to a score in [0,1]. A category
	// absent from this map is treated as 0 by every consumer.
	CategoryScores map[category.Category]float64 `json:"categoryScores"`

	// SovereigntyScore is the arithmetic mean of CategoryScores at
	// construction time (property P10), later decayed by drift events
	// (§4.3) without mutating CategoryScores.
	SovereigntyScore float64 `json:"sovereigntyScore"`

	// Signature is a detached blake2b-keyed signature over the vector's
	// canonical JSON encoding (pkg/sign), present once a run has been
	// signed by step 4. Empty for vectors under construction.
	Signature string `json:"signature,omitempty"`
}

// ScoreOf returns the category score, treating a missing category as 0 per
// the §3 invariant.
func (v *IdentityVector) ScoreOf(c category.Category) float64 {
	if v == nil || v.CategoryScores == nil {
		return 0
	}
	return v.CategoryScores[c]
}

// MeanCategoryScore computes the arithmetic mean of CategoryScores over the
// full 20-category space (missing categories count as 0), the quantity
// SovereigntyScore must equal at construction time (property P10).
func MeanCategoryScore(scores map[category.Category]float64) float64 {
	if len(category.All) == 0 {
		return 0
	}
	var sum float64
	for _, c := range category.All {
		sum += scores[c]
	}
	return sum / float64(len(category.All))
}
