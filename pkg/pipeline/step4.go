package pipeline

import (
	"context"
	"os"
	"sort"
	"time"

	"github.com/intentguard/core/pkg/category"
	"github.com/intentguard/core/pkg/models"
)

// runStep4 materializes the identity vector: per-category trust-debt
// units summed from step 3's matrix (or estimated from step 2's
// frequencies when matrix data is absent), sophistication-discounted and
// process-health-divided into a final figure, graded, and projected into
// categoryScores/sovereigntyScore (§4.2 step 4, "Identity projection").
func runStep4(ctx context.Context, runDir string, cfg Config, providers *Providers) (any, []models.Validation, error) {
	var validations []models.Validation

	integrationScore, integrationValidations := validateCrossAgentFlow(runDir)
	validations = append(validations, integrationValidations...)

	var matrix Step3Artifact
	haveMatrix := readArtifact(artifactPath(runDir, 3), &matrix) == nil && len(matrix.Cells) > 0

	var categories Step2Artifact
	haveCategories := readArtifact(artifactPath(runDir, 2), &categories) == nil

	processHealth := cfg.DefaultProcessHealth
	if processHealth <= 0 {
		processHealth = 0.8
	}
	discount := cfg.SophisticationDiscount

	rowSums := map[category.Category]float64{}
	if haveMatrix {
		for _, cell := range matrix.Cells {
			rowSums[catOf(cell.Row)] += cell.TrustDebtUnits
		}
	}

	maxStrength := 0.0
	strengthByCategory := map[category.Category]float64{}
	if haveCategories {
		for _, c := range categories.Categories {
			strengthByCategory[c.ID] = float64(c.TrustDebtUnits)
			if float64(c.TrustDebtUnits) > maxStrength {
				maxStrength = float64(c.TrustDebtUnits)
			}
		}
	}
	if maxStrength <= 0 {
		maxStrength = 1
	}

	grades := make(map[category.Category]CategoryGrade, len(category.All))
	rawUnits := make(map[category.Category]float64, len(category.All))

	for _, c := range category.All {
		var raw float64
		if haveMatrix {
			raw = rowSums[c]
		} else {
			strength := strengthByCategory[c]
			raw = (1 - strength/maxStrength) * 1000
		}
		rawUnits[c] = raw

		final := raw * (1 - discount) / processHealth
		grade := category.GradeOf(int(final))

		grades[c] = CategoryGrade{
			TrustDebtUnits: final,
			Grade:          grade,
			Trend:          TrendStable,
		}
	}

	assignPercentiles(grades)

	categoryScores := make(map[category.Category]float64, len(category.All))
	for c, g := range grades {
		categoryScores[c] = category.UnitsToScore(g.TrustDebtUnits)
	}

	identity := models.IdentityVector{
		UserID:           cfg.UserID,
		LastUpdated:      time.Now(),
		CategoryScores:   categoryScores,
		SovereigntyScore: models.MeanCategoryScore(categoryScores),
	}

	if providers.Signer != nil {
		if sig, err := providers.Signer.Sign(identity); err == nil {
			identity.Signature = sig
		}
	}

	artifact := Step4Artifact{
		CategoryGrades:   grades,
		IntegrationScore: integrationScore,
		Identity:         identity,
	}

	if err := writeArtifact(artifactPath(runDir, 4), artifact); err != nil {
		return nil, validations, err
	}
	return artifact, validations, nil
}

// catOf resolves a matrix axis label (a ShortLex string) back to its
// flat category, falling back to treating the label as already flat.
func catOf(axis string) category.Category {
	if c, ok := category.ShortLexToFlat(axis); ok {
		return c
	}
	return category.Category(axis)
}

// assignPercentiles ranks categories by ascending trust-debt units (lower
// is better) and assigns a 0-100 percentile.
func assignPercentiles(grades map[category.Category]CategoryGrade) {
	cats := make([]category.Category, 0, len(grades))
	for c := range grades {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		return grades[cats[i]].TrustDebtUnits < grades[cats[j]].TrustDebtUnits
	})

	n := len(cats)
	if n == 0 {
		return
	}
	denom := n - 1
	if denom < 1 {
		denom = 1
	}
	for rank, c := range cats {
		g := grades[c]
		g.Percentile = 100 * float64(n-1-rank) / float64(denom)
		grades[c] = g
	}
}

// validateCrossAgentFlow checks that prior steps' artifacts exist and are
// structurally readable, yielding an integrationScore in [0,100] (§4.2
// step 4, "validates cross-agent data flow").
func validateCrossAgentFlow(runDir string) (float64, []models.Validation) {
	var validations []models.Validation
	present := 0
	for step := 0; step < 4; step++ {
		if _, err := os.Stat(artifactPath(runDir, step)); err == nil {
			present++
		} else {
			validations = append(validations, models.Validation{
				Severity: models.SeverityWarning,
				Message:  "prior step artifact missing",
				Field:    stepDirNames[step],
			})
		}
	}
	return 100 * float64(present) / 4, validations
}
