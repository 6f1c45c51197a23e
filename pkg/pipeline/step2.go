package pipeline

import (
	"context"
	"math"
	"sort"

	"github.com/intentguard/core/pkg/category"
	"github.com/intentguard/core/pkg/models"
)

// runStep2 produces the 20 fixed categories with trust-debt unit
// allocation, plus orthogonality and balance quality reports (§4.2 step
// 2).
func runStep2(ctx context.Context, runDir string, cfg Config, providers *Providers) (any, []models.Validation, error) {
	var validations []models.Validation

	totalUnits := cfg.TotalTrustDebtUnits
	if totalUnits <= 0 {
		totalUnits = category.MaxTrustDebtUnits
	}

	categoryWeight := func(c category.Category) float64 {
		if cfg.CategoryWeights != nil {
			if w, ok := cfg.CategoryWeights[c]; ok {
				return w
			}
		}
		return category.DefaultLexicon[c].Weight
	}

	categories := make([]CategoryReport, len(category.All))
	weightSum := 0.0
	for _, c := range category.All {
		weightSum += categoryWeight(c)
	}
	if weightSum <= 0 {
		weightSum = 1
	}

	unitSum := 0
	topIdx, topUnits := 0, -1
	for i, c := range category.All {
		def := category.DefaultLexicon[c]
		weight := categoryWeight(c)
		units := int(math.Round(weight / weightSum * float64(totalUnits)))
		categories[i] = CategoryReport{
			ID:             c,
			Name:           def.Name,
			Description:    def.Description,
			Keywords:       def.Keywords,
			Weight:         weight,
			TrustDebtUnits: units,
			Color:          def.Color,
		}
		unitSum += units
		if units > topUnits {
			topIdx, topUnits = i, units
		}
	}

	// Reconcile rounding residue onto the top category so the sum is
	// exact (§4.2 step 2, property P9).
	residue := totalUnits - unitSum
	categories[topIdx].TrustDebtUnits += residue

	for i := range categories {
		categories[i].Percentage = float64(categories[i].TrustDebtUnits) / float64(totalUnits) * 100
	}

	orthogonality := computeOrthogonality(categories, cfg.OrthogonalityThreshold)
	balance := computeBalance(categories, cfg.GiniBalanceThreshold)

	pctSum := 0.0
	for _, c := range categories {
		pctSum += c.Percentage
	}
	if math.Abs(pctSum-100) > 0.1 {
		validations = append(validations, models.Validation{
			Severity: models.SeverityWarning,
			Message:  "category percentages do not sum to 100 within tolerance",
			Field:    "categories[].percentage",
		})
	}

	artifact := Step2Artifact{
		Categories:    categories,
		Orthogonality: orthogonality,
		Balance:       balance,
	}
	if err := writeArtifact(artifactPath(runDir, 2), artifact); err != nil {
		return nil, validations, err
	}
	return artifact, validations, nil
}

func computeOrthogonality(categories []CategoryReport, threshold float64) OrthogonalityReport {
	n := len(categories)
	matrix := make([][]float64, n)
	var sum, max, min float64
	min = 1
	count := 0
	for i := range matrix {
		matrix[i] = make([]float64, n)
		for j := range matrix[i] {
			if i == j {
				matrix[i][j] = 1
				continue
			}
			sim := jaccard(categories[i].Keywords, categories[j].Keywords)
			matrix[i][j] = sim
			if i < j {
				sum += sim
				count++
				if sim > max {
					max = sim
				}
				if sim < min {
					min = sim
				}
			}
		}
	}
	avg := 0.0
	if count > 0 {
		avg = sum / float64(count)
	} else {
		min = 0
	}

	return OrthogonalityReport{
		Matrix:         matrix,
		AvgCorrelation: avg,
		MaxCorrelation: max,
		MinCorrelation: min,
		Score:          1 - avg,
		Passed:         avg < threshold,
	}
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	setA := make(map[string]bool, len(a))
	for _, w := range a {
		setA[w] = true
	}
	setB := make(map[string]bool, len(b))
	for _, w := range b {
		setB[w] = true
	}

	intersection := 0
	for w := range setA {
		if setB[w] {
			intersection++
		}
	}
	union := len(setA)
	for w := range setB {
		if !setA[w] {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func computeBalance(categories []CategoryReport, giniThreshold float64) BalanceReport {
	n := len(categories)
	if n == 0 {
		return BalanceReport{}
	}

	pcts := make([]float64, n)
	minVal, maxVal, sum := math.MaxFloat64, -math.MaxFloat64, 0.0
	for i, c := range categories {
		pcts[i] = c.Percentage
		sum += c.Percentage
		if c.Percentage < minVal {
			minVal = c.Percentage
		}
		if c.Percentage > maxVal {
			maxVal = c.Percentage
		}
	}
	mean := sum / float64(n)

	variance := 0.0
	for _, p := range pcts {
		variance += (p - mean) * (p - mean)
	}
	variance /= float64(n)
	stdDev := math.Sqrt(variance)

	gini := giniCoefficient(pcts)

	return BalanceReport{
		Min:             minVal,
		Max:             maxVal,
		StdDeviation:    stdDev,
		GiniCoefficient: gini,
		Balanced:        gini < giniThreshold,
	}
}

// giniCoefficient computes the Gini coefficient of a distribution of
// non-negative values via the standard mean-absolute-difference formula.
func giniCoefficient(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	if sum == 0 {
		return 0
	}

	weightedSum := 0.0
	for i, v := range sorted {
		weightedSum += float64(i+1) * v
	}
	return (2*weightedSum)/(float64(n)*sum) - float64(n+1)/float64(n)
}
