// Package fim implements the Geometric Permission Engine (C3, §4.3): a pure
// function from an identity vector and an action requirement to an
// allow/deny decision, plus the drift model that decays sovereignty on each
// denied event. Nothing in this package performs I/O beyond reading the
// identity snapshot it's handed — it is safe to call from any concurrency
// context.
package fim

import (
	"sort"

	"github.com/intentguard/core/pkg/models"
)

// Overlap computes the fraction of a requirement's categories that the
// identity satisfies (§4.3):
//
//	overlap(I, R) = |{ k in K : I.c[k] >= R.c[k] }| / |K|   if |K| > 0
//	              = 1                                        if |K| = 0
//
// where K is the key set of R.RequiredScores. A category missing from
// I.CategoryScores is treated as 0. This is a count of satisfied
// dimensions, not a weighted sum — every required category must
// independently be met for the action to "fit" the identity.
func Overlap(identity models.IdentityVector, requirement models.ActionRequirement) float64 {
	if len(requirement.RequiredScores) == 0 {
		return 1
	}

	satisfied := 0
	for cat, required := range requirement.RequiredScores {
		if identity.ScoreOf(cat) >= required {
			satisfied++
		}
	}
	return float64(satisfied) / float64(len(requirement.RequiredScores))
}

// failedCategories returns the requirement's categories the identity did
// not meet, in the shape CheckPermission reports them.
func failedCategories(identity models.IdentityVector, requirement models.ActionRequirement) []models.FailedCategory {
	var failed []models.FailedCategory
	for cat, required := range requirement.RequiredScores {
		actual := identity.ScoreOf(cat)
		if actual < required {
			failed = append(failed, models.FailedCategory{
				Category: cat,
				Actual:   actual,
				Required: required,
			})
		}
	}
	sort.Slice(failed, func(i, j int) bool {
		return failed[i].Category < failed[j].Category
	})
	return failed
}
