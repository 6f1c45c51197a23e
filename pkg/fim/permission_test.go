package fim

import (
	"testing"
	"time"

	"github.com/intentguard/core/pkg/category"
	"github.com/intentguard/core/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vector(scores map[category.Category]float64, sovereignty float64) models.IdentityVector {
	return models.IdentityVector{
		UserID:           "u1",
		LastUpdated:      time.Now(),
		CategoryScores:   scores,
		SovereigntyScore: sovereignty,
	}
}

// P1: empty requiredScores + minSovereignty=0 always allows, overlap=1.
func TestP1_EmptyRequirementAlwaysAllows(t *testing.T) {
	identities := []models.IdentityVector{
		vector(map[category.Category]float64{}, 0),
		vector(map[category.Category]float64{category.Security: 0.5}, 0.5),
		vector(map[category.Category]float64{category.Security: 1}, 1),
	}
	req := models.ActionRequirement{ToolName: "noop", RequiredScores: map[category.Category]float64{}, MinSovereignty: 0}

	for _, id := range identities {
		decision := CheckPermission(id, req)
		assert.True(t, decision.Allowed)
		assert.Equal(t, 1.0, decision.Overlap)
	}
}

// P2: perfect identity always allows, any requirement.
func TestP2_PerfectIdentityAlwaysAllows(t *testing.T) {
	scores := make(map[category.Category]float64, len(category.All))
	for _, c := range category.All {
		scores[c] = 1.0
	}
	id := vector(scores, 1.0)

	for _, req := range DefaultRequirements {
		decision := CheckPermission(id, req)
		assert.True(t, decision.Allowed, "tool=%s", req.ToolName)
	}
}

// P3: zero sovereignty denies whenever minSovereignty > 0, regardless of overlap.
func TestP3_ZeroSovereigntyDeniesRegardlessOfOverlap(t *testing.T) {
	scores := make(map[category.Category]float64, len(category.All))
	for _, c := range category.All {
		scores[c] = 1.0
	}
	id := vector(scores, 0)

	for _, req := range DefaultRequirements {
		if req.MinSovereignty <= 0 {
			continue
		}
		decision := CheckPermission(id, req)
		assert.False(t, decision.Allowed, "tool=%s", req.ToolName)
	}
}

// P4: overlap is exactly satisfied/required, or 1 when required=0.
func TestP4_OverlapIsExactFraction(t *testing.T) {
	id := vector(map[category.Category]float64{
		category.Security:      0.9,
		category.Reliability:   0.2,
		category.DataIntegrity: 0.5,
	}, 0.5)
	req := models.ActionRequirement{
		RequiredScores: map[category.Category]float64{
			category.Security:      0.7,
			category.Reliability:   0.7,
			category.DataIntegrity: 0.5,
		},
	}
	// security (0.9>=0.7) ok, reliability (0.2>=0.7) fail, dataIntegrity (0.5>=0.5) ok => 2/3
	assert.InDelta(t, 2.0/3.0, Overlap(id, req), 1e-9)

	empty := models.ActionRequirement{RequiredScores: map[category.Category]float64{}}
	assert.Equal(t, 1.0, Overlap(id, empty))
}

// P5: monotonicity in both directions.
func TestP5_Monotonicity(t *testing.T) {
	base := vector(map[category.Category]float64{
		category.Security:    0.5,
		category.Reliability: 0.5,
	}, 0.5)
	req := models.ActionRequirement{
		RequiredScores: map[category.Category]float64{
			category.Security:    0.6,
			category.Reliability: 0.6,
		},
	}
	before := Overlap(base, req)

	raised := vector(map[category.Category]float64{
		category.Security:    0.9,
		category.Reliability: 0.5,
	}, 0.5)
	assert.GreaterOrEqual(t, Overlap(raised, req), before)

	loweredReq := models.ActionRequirement{
		RequiredScores: map[category.Category]float64{
			category.Security:    0.3,
			category.Reliability: 0.6,
		},
	}
	assert.GreaterOrEqual(t, Overlap(base, loweredReq), before)
}

// P6 / S6: drift calibration at 1000 events lands in [0.048, 0.050].
func TestP6_DriftCalibration(t *testing.T) {
	effective := Decay(1.0, 1000, DefaultEntropicDecay)
	assert.GreaterOrEqual(t, effective, 0.048)
	assert.LessOrEqual(t, effective, 0.050)
}

// P7: DriftEventsUntilZero returns the least n with s*(1-k)^n < 1e-6.
func TestP7_DriftEventsUntilZero(t *testing.T) {
	s, k := 1.0, DefaultEntropicDecay
	n := DriftEventsUntilZero(s, k)

	assert.Less(t, Decay(s, n, k), zeroEpsilon)
	if n > 0 {
		assert.GreaterOrEqual(t, Decay(s, n-1, k), zeroEpsilon)
	}
}

// S1: empty requirement always allows.
func TestS1_EmptyRequirementAlwaysAllows(t *testing.T) {
	id := vector(map[category.Category]float64{
		category.Security: 0.5, category.Reliability: 0.5, category.DataIntegrity: 0.5,
	}, 0.5)
	req := models.ActionRequirement{ToolName: "noop", RequiredScores: map[category.Category]float64{}, MinSovereignty: 0}

	decision := CheckPermission(id, req)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 1.0, decision.Overlap)
	assert.Empty(t, decision.FailedCategories)
}

// S2: mixed satisfaction, default threshold 0.8.
func TestS2_MixedSatisfactionDefaultThreshold(t *testing.T) {
	id := vector(map[category.Category]float64{
		category.Security: 0.8, category.Reliability: 0.4, category.DataIntegrity: 0.7,
	}, 0.7)
	req := models.ActionRequirement{
		RequiredScores: map[category.Category]float64{
			category.Security: 0.7, category.Reliability: 0.5, category.DataIntegrity: 0.6,
		},
		MinSovereignty: 0.5,
	}

	decision := CheckPermission(id, req)
	assert.InDelta(t, 2.0/3.0, decision.Overlap, 1e-9)
	assert.False(t, decision.Allowed)
	require.Len(t, decision.FailedCategories, 1)
	assert.Equal(t, category.Reliability, decision.FailedCategories[0].Category)
	assert.Equal(t, 0.4, decision.FailedCategories[0].Actual)
	assert.Equal(t, 0.5, decision.FailedCategories[0].Required)
}

// S3: same as S2 but threshold=0.6 -> allowed.
func TestS3_MixedSatisfactionLoweredThreshold(t *testing.T) {
	id := vector(map[category.Category]float64{
		category.Security: 0.8, category.Reliability: 0.4, category.DataIntegrity: 0.7,
	}, 0.7)
	req := models.ActionRequirement{
		RequiredScores: map[category.Category]float64{
			category.Security: 0.7, category.Reliability: 0.5, category.DataIntegrity: 0.6,
		},
		MinSovereignty: 0.5,
	}

	decision := CheckPermission(id, req, 0.6)
	assert.True(t, decision.Allowed)
}

// S4: zero sovereignty, perfect categories -> denied despite overlap=1.
func TestS4_ZeroSovereigntyPerfectCategories(t *testing.T) {
	id := vector(map[category.Category]float64{
		category.Security: 0.9, category.Reliability: 0.9,
	}, 0)
	req := models.ActionRequirement{
		RequiredScores: map[category.Category]float64{
			category.Security: 0.7, category.Reliability: 0.5,
		},
		MinSovereignty: 0.5,
	}

	decision := CheckPermission(id, req)
	assert.Equal(t, 1.0, decision.Overlap)
	assert.False(t, decision.Allowed)
	assert.Equal(t, 0.0, decision.Sovereignty)
}

// S5: grade boundaries (re-verified through fim's dependency on category).
func TestS5_GradeBoundaries(t *testing.T) {
	assert.Equal(t, category.GradeA, category.GradeOf(500))
	assert.Equal(t, category.GradeB, category.GradeOf(501))
	assert.Equal(t, category.GradeB, category.GradeOf(1500))
	assert.Equal(t, category.GradeC, category.GradeOf(1501))
	assert.Equal(t, category.GradeD, category.GradeOf(3001))
}

func TestTierOf(t *testing.T) {
	blocked := models.PermissionDecision{Allowed: false, Overlap: 1}
	assert.Equal(t, models.TierBlocked, TierOf(blocked))

	general := models.PermissionDecision{Allowed: true, Overlap: 0.85}
	assert.Equal(t, models.TierGeneral, TierOf(general))

	trusted := models.PermissionDecision{Allowed: true, Overlap: 0.97}
	assert.Equal(t, models.TierTrusted, TierOf(trusted))
}

func TestDefaultRequirements_StrictlyIncreasingStringency(t *testing.T) {
	order := []string{"shell_execute", "file_write", "file_delete", "git_push", "git_force_push", "deploy"}
	var lastMinSov float64 = -1
	for _, tool := range order {
		req, err := GetRequirement(tool)
		require.NoError(t, err)
		assert.Greater(t, req.MinSovereignty, lastMinSov, "tool=%s", tool)
		lastMinSov = req.MinSovereignty
	}
}

func TestGitForcePush_MeetsStringencyFloor(t *testing.T) {
	req, err := GetRequirement("git_force_push")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, req.MinSovereignty, 0.8)
	require.GreaterOrEqual(t, len(req.RequiredScores), 3)

	hasHighBar := false
	for _, v := range req.RequiredScores {
		if v >= 0.8 {
			hasHighBar = true
		}
	}
	assert.True(t, hasHighBar)
}
