package fim

import "github.com/intentguard/core/pkg/models"

// DefaultThreshold is the overlap bar an action must clear to be allowed
// when the caller doesn't supply one explicitly (§4.3).
const DefaultThreshold = 0.8

// TrustedOverlapBar is the overlap an allowed decision must additionally
// clear to be tiered "trusted" rather than "general" (§4.3).
const TrustedOverlapBar = 0.95

// CheckPermission evaluates a single permission decision (§4.3):
//
//	failed  = { k in keys(R.c) : I.c[k] < R.c[k] }
//	allowed = overlap(I,R) >= threshold AND I.sovereignty >= R.minSovereignty
//
// threshold defaults to DefaultThreshold when no override is given; passing
// more than one override is a caller error and only the first is used.
func CheckPermission(identity models.IdentityVector, requirement models.ActionRequirement, threshold ...float64) models.PermissionDecision {
	t := DefaultThreshold
	if len(threshold) > 0 {
		t = threshold[0]
	}

	overlap := Overlap(identity, requirement)
	allowed := overlap >= t && identity.SovereigntyScore >= requirement.MinSovereignty

	return models.PermissionDecision{
		Allowed:          allowed,
		Overlap:          overlap,
		Sovereignty:      identity.SovereigntyScore,
		FailedCategories: failedCategories(identity, requirement),
		Requirement:      requirement,
	}
}

// TierOf classifies a PermissionDecision into an execution tier (§4.3):
//
//   - trusted: allowed AND overlap >= TrustedOverlapBar (auto-execute after
//     countdown)
//   - general: allowed but not trusted (requires human confirmation)
//   - blocked: not allowed
func TierOf(decision models.PermissionDecision) models.Tier {
	switch {
	case !decision.Allowed:
		return models.TierBlocked
	case decision.Overlap >= TrustedOverlapBar:
		return models.TierTrusted
	default:
		return models.TierGeneral
	}
}
