package pipeline

import (
	"context"
	"fmt"
	"sort"

	"github.com/intentguard/core/pkg/category"
	"github.com/intentguard/core/pkg/models"
)

// runStep6 derives cold spots, asymmetric patterns, and narratives from
// the prior steps' artifacts, plus a legitimacy score (§4.2 step 6).
func runStep6(ctx context.Context, runDir string, cfg Config, providers *Providers) (any, []models.Validation, error) {
	var validations []models.Validation

	var step2 Step2Artifact
	haveStep2 := readArtifact(artifactPath(runDir, 2), &step2) == nil
	var step3 Step3Artifact
	haveStep3 := readArtifact(artifactPath(runDir, 3), &step3) == nil
	var step4 Step4Artifact
	if err := readArtifact(artifactPath(runDir, 4), &step4); err != nil {
		validations = append(validations, models.Validation{
			Severity: models.SeverityError,
			Message:  "step 4 artifact unreadable: " + err.Error(),
			Field:    "categoryGrades",
		})
		artifact := Step6Artifact{}
		if werr := writeArtifact(artifactPath(runDir, 6), artifact); werr != nil {
			return nil, validations, werr
		}
		return artifact, validations, nil
	}
	var step5 Step5Artifact
	haveStep5 := readArtifact(artifactPath(runDir, 5), &step5) == nil

	alignmentByCategory := map[string]float64{}
	if haveStep5 {
		for _, g := range step5.Goals {
			alignmentByCategory[g.TargetCategory] = g.AlignmentScore
		}
	}

	var coldSpots []ColdSpot
	for _, c := range category.All {
		grade, ok := step4.CategoryGrades[c]
		if !ok {
			continue
		}
		gradeScore := category.UnitsToScore(grade.TrustDebtUnits)
		combined := gradeScore
		if alignment, ok := alignmentByCategory[string(c)]; ok {
			combined = (gradeScore + alignment) / 2
		}
		if combined >= cfg.ColdSpotThreshold {
			continue
		}
		severity := coldSpotSeverity(combined)
		coldSpots = append(coldSpots, ColdSpot{Category: c, Score: combined, Severity: severity})
	}
	sort.Slice(coldSpots, func(i, j int) bool { return coldSpots[i].Score < coldSpots[j].Score })

	var patterns []AsymmetricPattern
	totalDebt := 0.0
	debtByCategory := map[category.Category]float64{}
	if haveStep3 {
		patterns = append(patterns, diagonalFailures(step3)...)
		patterns = append(patterns, adjacencyClusters(step3)...)
		for _, cell := range step3.Cells {
			if cell.IsDiagonal {
				continue
			}
			c := catOf(cell.Row)
			debtByCategory[c] += cell.TrustDebtUnits
			totalDebt += cell.TrustDebtUnits
		}
	}
	if totalDebt > 0 {
		for c, debt := range debtByCategory {
			if debt/totalDebt > 0.2 {
				patterns = append(patterns, AsymmetricPattern{
					Kind:        PatternConcentrationRisk,
					Categories:  []category.Category{c},
					Description: fmt.Sprintf("%s accounts for more than 20%% of total trust debt", c),
				})
			}
		}
	}

	processHealth := cfg.DefaultProcessHealth
	if processHealth <= 0 {
		processHealth = 0.8
	}
	outcomeReality := step4.IntegrationScore / 100
	orthogonalityScore := 0.0
	if haveStep2 {
		orthogonalityScore = step2.Orthogonality.Score
	}
	legitimacy := processHealth * outcomeReality * orthogonalityScore * 100

	var recommendations []string
	for _, cs := range coldSpots {
		recommendations = append(recommendations, fmt.Sprintf(
			"address %s cold spot in %s (score %.2f)", cs.Severity, cs.Category, cs.Score))
	}

	narratives := buildNarratives(coldSpots, patterns)

	artifact := Step6Artifact{
		ExecutiveSummary:   buildExecutiveSummary(coldSpots, patterns, legitimacy),
		ColdSpots:          coldSpots,
		AsymmetricPatterns: patterns,
		Narratives:         narratives,
		Recommendations:    recommendations,
		LegitimacyScore:    legitimacy,
	}
	if err := writeArtifact(artifactPath(runDir, 6), artifact); err != nil {
		return nil, validations, err
	}
	return artifact, validations, nil
}

// coldSpotSeverity stratifies a combined score per §4.2 step 6:
// frozen<0.25 < arctic<0.40 < cold<0.60 < cool<0.65.
func coldSpotSeverity(score float64) ColdSpotSeverity {
	switch {
	case score < 0.25:
		return SeverityFrozen
	case score < 0.40:
		return SeverityArctic
	case score < 0.60:
		return SeverityCold
	default:
		return SeverityCool
	}
}

func diagonalFailures(step3 Step3Artifact) []AsymmetricPattern {
	var patterns []AsymmetricPattern
	for _, cell := range step3.Cells {
		if !cell.IsDiagonal || cell.TrustDebtUnits == 0 {
			continue
		}
		patterns = append(patterns, AsymmetricPattern{
			Kind:        PatternDiagonalFailure,
			Categories:  []category.Category{catOf(cell.Row)},
			Description: fmt.Sprintf("%s shows intent/reality divergence of %.1f", cell.Row, cell.TrustDebtUnits),
		})
	}
	return patterns
}

// adjacencyClusters flags runs of three or more ShortLex-adjacent axes
// all showing non-zero upper-triangle debt, per §4.2 step 6.
func adjacencyClusters(step3 Step3Artifact) []AsymmetricPattern {
	n := len(step3.Axes)
	if n == 0 {
		return nil
	}
	rowHasDebt := make([]bool, n)
	indexOf := make(map[string]int, n)
	for i, axis := range step3.Axes {
		indexOf[axis] = i
	}
	for _, cell := range step3.Cells {
		if cell.IsUpper && cell.TrustDebtUnits > 0 {
			rowHasDebt[indexOf[cell.Row]] = true
		}
	}

	var patterns []AsymmetricPattern
	run := 0
	start := 0
	for i := 0; i <= n; i++ {
		active := i < n && rowHasDebt[i]
		if active {
			if run == 0 {
				start = i
			}
			run++
			continue
		}
		if run >= 3 {
			var cats []category.Category
			for j := start; j < start+run; j++ {
				cats = append(cats, catOf(step3.Axes[j]))
			}
			patterns = append(patterns, AsymmetricPattern{
				Kind:        PatternAdjacencyCluster,
				Categories:  cats,
				Description: fmt.Sprintf("%d adjacent categories show sustained reality debt", run),
			})
		}
		run = 0
	}
	return patterns
}

func buildExecutiveSummary(coldSpots []ColdSpot, patterns []AsymmetricPattern, legitimacy float64) string {
	return fmt.Sprintf("%d cold spot(s), %d asymmetric pattern(s), legitimacy score %.1f",
		len(coldSpots), len(patterns), legitimacy)
}

func buildNarratives(coldSpots []ColdSpot, patterns []AsymmetricPattern) []string {
	var narratives []string
	for _, cs := range coldSpots {
		narratives = append(narratives, fmt.Sprintf("%s is %s (score %.2f)", cs.Category, cs.Severity, cs.Score))
	}
	for _, p := range patterns {
		narratives = append(narratives, p.Description)
	}
	return narratives
}
