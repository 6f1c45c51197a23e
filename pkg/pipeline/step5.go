package pipeline

import (
	"context"
	"fmt"
	"math"

	"github.com/intentguard/core/pkg/category"
	"github.com/intentguard/core/pkg/models"
)

// runStep5 scores each declared goal against the identity materialized by
// step 4 (§4.2 step 5): alignment is the target category's score, gap is
// the shortfall against the goal's declared target.
func runStep5(ctx context.Context, runDir string, cfg Config, providers *Providers) (any, []models.Validation, error) {
	var validations []models.Validation

	var step4 Step4Artifact
	if err := readArtifact(artifactPath(runDir, 4), &step4); err != nil {
		validations = append(validations, models.Validation{
			Severity: models.SeverityError,
			Message:  "step 4 artifact unreadable: " + err.Error(),
			Field:    "identity",
		})
		artifact := Step5Artifact{}
		if werr := writeArtifact(artifactPath(runDir, 5), artifact); werr != nil {
			return nil, validations, werr
		}
		return artifact, validations, nil
	}

	goals := cfg.Goals
	if len(goals) == 0 {
		goals = defaultGoals()
	}

	var alignments []GoalAlignment
	var recommendations []string
	totalScore := 0.0

	for _, goal := range goals {
		cat := category.Category(goal.TargetCategory)
		score, ok := step4.Identity.CategoryScores[cat]
		if !ok {
			validations = append(validations, models.Validation{
				Severity: models.SeverityWarning,
				Message:  "goal references unknown category",
				Field:    goal.Name,
			})
		}
		gap := goal.TargetScore - score
		if gap < 0 {
			gap = 0
		}
		alignments = append(alignments, GoalAlignment{
			Name:           goal.Name,
			TargetCategory: goal.TargetCategory,
			AlignmentScore: score,
			Gap:            gap,
		})
		totalScore += score
		if gap > 0.1 {
			recommendations = append(recommendations, fmt.Sprintf(
				"close the gap on %s toward %s (currently %.2f, target %.2f)",
				goal.Name, goal.TargetCategory, score, goal.TargetScore))
		}
	}

	overall := 0.0
	if len(goals) > 0 {
		overall = totalScore / float64(len(goals))
	}
	overall = math.Max(0, math.Min(1, overall))

	artifact := Step5Artifact{
		Goals:           alignments,
		OverallScore:    overall,
		Recommendations: recommendations,
	}
	if err := writeArtifact(artifactPath(runDir, 5), artifact); err != nil {
		return nil, validations, err
	}
	return artifact, validations, nil
}

// defaultGoals supplies a minimal goal set so step 5 always has something
// to score against when the caller hasn't declared any.
func defaultGoals() []Goal {
	return []Goal{
		{Name: "ship reliably", TargetCategory: string(category.Reliability), TargetScore: 0.8},
		{Name: "stay secure", TargetCategory: string(category.Security), TargetScore: 0.8},
		{Name: "keep documentation honest", TargetCategory: string(category.Documentation), TargetScore: 0.7},
	}
}
