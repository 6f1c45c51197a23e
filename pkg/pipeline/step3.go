package pipeline

import (
	"context"
	"math"

	"github.com/intentguard/core/pkg/category"
	"github.com/intentguard/core/pkg/models"
)

// runStep3 builds the asymmetric presence matrix: the upper triangle
// accumulates Reality co-occurrences, the lower triangle accumulates
// Intent co-occurrences, and the diagonal records each category's
// self-consistency (§4.2 step 3). Axes are emitted in ShortLex order and
// validated against category.IsShortLexOrdered (property P11).
func runStep3(ctx context.Context, runDir string, cfg Config, providers *Providers) (any, []models.Validation, error) {
	var validations []models.Validation

	var processed Step1Artifact
	if err := readArtifact(artifactPath(runDir, 1), &processed); err != nil {
		validations = append(validations, models.Validation{
			Severity: models.SeverityError,
			Message:  "step 1 artifact unreadable: " + err.Error(),
			Field:    "documents",
		})
		artifact := Step3Artifact{}
		if werr := writeArtifact(artifactPath(runDir, 3), artifact); werr != nil {
			return nil, validations, werr
		}
		return artifact, validations, nil
	}

	n := len(category.All)
	axisCategory := make([]category.Category, n)
	axes := make([]string, n)
	catIndex := make(map[category.Category]int, n)
	for i, c := range category.All {
		shortlex, ok := category.FlatToShortLex(c)
		if !ok {
			shortlex = string(c)
		}
		axisCategory[i] = c
		axes[i] = shortlex
	}
	// Sort axes (and the parallel category slice) into ShortLex order.
	sortAxesByShortLex(axes, axisCategory)
	for i, c := range axisCategory {
		catIndex[c] = i
	}

	shortLexValid := category.IsShortLexOrdered(axes)
	if !shortLexValid {
		validations = append(validations, models.Validation{
			Severity: models.SeverityError,
			Message:  "matrix axes are not ShortLex ordered",
			Field:    "axes",
		})
	}

	intentCounts := make([][]float64, n)
	realityCounts := make([][]float64, n)
	for i := range intentCounts {
		intentCounts[i] = make([]float64, n)
		realityCounts[i] = make([]float64, n)
	}

	for _, doc := range processed.Documents {
		present := categoriesPresent(doc.Keywords, catIndex)
		if len(present) == 0 {
			continue
		}
		isIntent := doc.Type == models.DocumentTypeDocument
		for _, i := range present {
			for _, j := range present {
				if isIntent {
					intentCounts[i][j]++
				} else {
					realityCounts[i][j]++
				}
			}
		}
	}

	var cells []MatrixCell
	var upperSum, lowerSum float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			cell := MatrixCell{
				Row:     axes[i],
				Col:     axes[j],
				Intent:  intentCounts[i][j],
				Reality: realityCounts[i][j],
			}
			switch {
			case i == j:
				cell.IsDiagonal = true
				cell.TrustDebtUnits = math.Abs(cell.Intent - cell.Reality)
			case i < j:
				cell.IsUpper = true
				cell.TrustDebtUnits = cell.Reality
				upperSum += cell.Reality
			default:
				cell.IsLower = true
				cell.TrustDebtUnits = cell.Intent
				lowerSum += cell.Intent
			}
			cells = append(cells, cell)
		}
	}

	denom := lowerSum
	if denom < 1 {
		denom = 1
	}

	artifact := Step3Artifact{
		Axes:           axes,
		Cells:          cells,
		AsymmetryRatio: upperSum / denom,
		ShortLexValid:  shortLexValid,
	}
	if err := writeArtifact(artifactPath(runDir, 3), artifact); err != nil {
		return nil, validations, err
	}
	return artifact, validations, nil
}

// categoriesPresent maps a document's extracted keywords onto categories
// whose default lexicon keywords intersect, returning their axis indices.
func categoriesPresent(keywords []string, catIndex map[category.Category]int) []int {
	kwSet := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		kwSet[k] = true
	}

	var present []int
	for c, idx := range catIndex {
		def := category.DefaultLexicon[c]
		for _, kw := range def.Keywords {
			if kwSet[kw] {
				present = append(present, idx)
				break
			}
		}
	}
	return present
}

// sortAxesByShortLex sorts axes and the parallel categories slice
// together by ShortLex order (length, then lexicographic).
func sortAxesByShortLex(axes []string, categories []category.Category) {
	n := len(axes)
	for i := 1; i < n; i++ {
		for j := i; j > 0 && shortLexLessThan(axes[j], axes[j-1]); j-- {
			axes[j], axes[j-1] = axes[j-1], axes[j]
			categories[j], categories[j-1] = categories[j-1], categories[j]
		}
	}
}

func shortLexLessThan(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
