package fim

import "math"

// DefaultEntropicDecay is k_E, the per-event entropic decay rate (§4.3).
// The spec's Open Questions (§9) flag a conflicting 0.01 in a scheduler
// comment; 0.003 is canonical per the calibration invariant P6/S6
// ((1-k_E)^1000 ≈ 0.049) — see DESIGN.md.
const DefaultEntropicDecay = 0.003

// zeroEpsilon is the threshold below which sovereignty is considered
// decayed to zero, used by DriftEventsUntilZero (property P7).
const zeroEpsilon = 1e-6

// RawSovereignty computes sovereignty_raw = clip(1 - trustDebtUnits/MAX, 0, 1)
// for a category's (or the overall) Trust-Debt unit count, using the given
// MAX (normally category.MaxTrustDebtUnits, §4.3).
func RawSovereignty(trustDebtUnits, max float64) float64 {
	raw := 1 - trustDebtUnits/max
	switch {
	case raw < 0:
		return 0
	case raw > 1:
		return 1
	default:
		return raw
	}
}

// Decay applies driftEvents denials of entropic decay to a raw sovereignty
// score (§4.3):
//
//	sovereignty' = sovereignty_raw * (1 - k_E)^driftEvents
//
// driftEvents is a count, never negative; k_E <= 0 or > 1 decays unevenly
// but is accepted as-is since it's operator configuration, not user input.
func Decay(sovereigntyRaw float64, driftEvents int, k float64) float64 {
	if driftEvents <= 0 {
		return sovereigntyRaw
	}
	return sovereigntyRaw * math.Pow(1-k, float64(driftEvents))
}

// DriftEventsUntilZero returns the least n such that
// s * (1-k)^n < zeroEpsilon (property P7). Returns 0 if s is already below
// the epsilon.
func DriftEventsUntilZero(s, k float64) int {
	if s < zeroEpsilon {
		return 0
	}
	if k <= 0 || k >= 1 {
		return math.MaxInt32
	}

	// s * (1-k)^n < eps  =>  n > log(eps/s) / log(1-k)
	n := math.Log(zeroEpsilon/s) / math.Log(1-k)
	events := int(math.Ceil(n))
	if events < 0 {
		events = 0
	}
	// Guard against floating point edge cases landing exactly on the
	// boundary: verify and nudge forward if needed.
	for Decay(s, events, k) >= zeroEpsilon {
		events++
	}
	return events
}

// RecoveryStage is one point on a recovery forecast: the Trust-Debt unit
// count at that stage and the resulting effective sovereignty.
type RecoveryStage struct {
	UnitsAtStage       float64 `json:"unitsAtStage"`
	SovereigntyAtStage float64 `json:"sovereigntyAtStage"`
}

// RecoveryPath forecasts sovereignty recovery as Trust-Debt units are paid
// down from currentUnits to 0 in even steps, holding driftEvents fixed at
// its current value (§4.3 "Recovery and forecasting"). stages must be >= 1.
func RecoveryPath(currentUnits float64, driftEvents int, max float64, k float64, stages int) []RecoveryStage {
	if stages < 1 {
		stages = 1
	}

	path := make([]RecoveryStage, 0, stages+1)
	for i := 0; i <= stages; i++ {
		units := currentUnits * float64(stages-i) / float64(stages)
		raw := RawSovereignty(units, max)
		path = append(path, RecoveryStage{
			UnitsAtStage:       units,
			SovereigntyAtStage: Decay(raw, driftEvents, k),
		})
	}
	return path
}
