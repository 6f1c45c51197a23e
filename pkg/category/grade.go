package category

// Grade is a letter grade assigned to a Trust-Debt unit count.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// Calibrated grade boundaries (§3): A in [0,500], B in [501,1500],
// C in [1501,3000], D in [3001,inf).
const (
	GradeABoundary = 500
	GradeBBoundary = 1500
	GradeCBoundary = 3000
)

// MaxTrustDebtUnits is the top of grade C and the denominator used by
// unitsToScore (§4.2 "Identity projection") to project unit counts into the
// [0,1] identity score space.
const MaxTrustDebtUnits = GradeCBoundary

// GradeOf maps an integer Trust-Debt unit count to its letter grade using
// the calibrated boundaries in §3. Units are clamped at 0 from below;
// anything above GradeCBoundary is grade D.
func GradeOf(units int) Grade {
	switch {
	case units <= GradeABoundary:
		return GradeA
	case units <= GradeBBoundary:
		return GradeB
	case units <= GradeCBoundary:
		return GradeC
	default:
		return GradeD
	}
}

// UnitsToScore projects a Trust-Debt unit count onto the [0,1] identity
// score space via the monotone-decreasing function from §4.2:
// unitsToScore(u) = clip(1 - u/MAX, 0, 1), MAX = MaxTrustDebtUnits.
func UnitsToScore(units float64) float64 {
	score := 1 - units/MaxTrustDebtUnits
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}
