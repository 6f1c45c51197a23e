package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/intentguard/core/pkg/models"
)

// runStep7 consolidates prior steps into the final JSON + HTML report and
// writes 7-audit-log.json, re-validating each prior step's required keys
// (§4.2 step 7).
func runStep7(ctx context.Context, runDir string, cfg Config, providers *Providers) (any, []models.Validation, error) {
	var validations []models.Validation

	var step2 Step2Artifact
	readArtifact(artifactPath(runDir, 2), &step2)
	var step4 Step4Artifact
	if err := readArtifact(artifactPath(runDir, 4), &step4); err != nil {
		validations = append(validations, models.Validation{
			Severity: models.SeverityError,
			Message:  "step 4 artifact unreadable: " + err.Error(),
			Field:    "identity",
		})
	}
	var step6 Step6Artifact
	readArtifact(artifactPath(runDir, 6), &step6)

	runID := filepath.Base(runDir)
	report := Step7Artifact{
		RunID:       runID,
		GeneratedAt: time.Now(),
		Identity:    step4.Identity,
		Categories:  step2.Categories,
		Analysis:    step6,
	}

	if err := writeArtifact(artifactPath(runDir, 7), report); err != nil {
		return nil, validations, err
	}

	if err := writeAuxFile(htmlReportPath(runDir), renderHTMLReport(report)); err != nil {
		return nil, validations, err
	}

	audit := buildAuditLog(runDir, runID)
	if err := writeAuxFile(auditLogPath(runDir), mustJSON(audit)); err != nil {
		return nil, validations, err
	}

	return report, validations, nil
}

func htmlReportPath(runDir string) string {
	return filepath.Join(StepDir(runDir, 7), "7-final-report.html")
}

func auditLogPath(runDir string) string {
	return filepath.Join(StepDir(runDir, 7), "7-audit-log.json")
}

func renderHTMLReport(report Step7Artifact) []byte {
	var b strings.Builder
	b.WriteString("<!doctype html><html><head><meta charset=\"utf-8\"><title>Trust-Debt Report</title></head><body>\n")
	fmt.Fprintf(&b, "<h1>Trust-Debt Report — %s</h1>\n", html.EscapeString(report.RunID))
	fmt.Fprintf(&b, "<p>Generated at %s</p>\n", report.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "<p>Sovereignty: %.3f</p>\n", report.Identity.SovereigntyScore)
	b.WriteString("<h2>Categories</h2><table border=\"1\"><tr><th>Category</th><th>Units</th><th>%</th></tr>\n")
	for _, c := range report.Categories {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td><td>%.2f</td></tr>\n",
			html.EscapeString(c.Name), c.TrustDebtUnits, c.Percentage)
	}
	b.WriteString("</table>\n")
	fmt.Fprintf(&b, "<h2>Executive Summary</h2><p>%s</p>\n", html.EscapeString(report.Analysis.ExecutiveSummary))
	b.WriteString("</body></html>\n")
	return []byte(b.String())
}

// requiredKeysByStep names what buildAuditLog checks for in each step's
// artifact — a structural re-validation, not a semantic one (§4.2 step 7).
var requiredKeysByStep = map[int][]string{
	0: {"documents", "stats"},
	1: {"documents", "keywordFrequency"},
	2: {"categories", "orthogonality", "balance"},
	3: {"axes", "cells", "asymmetryRatio"},
	4: {"categoryGrades", "identity"},
	5: {"goals", "overallScore"},
	6: {"cold_spots", "asymmetric_patterns", "legitimacyScore"},
}

func buildAuditLog(runDir, runID string) AuditLog {
	log := AuditLog{RunID: runID, GeneratedAt: time.Now()}
	for step := 0; step <= 6; step++ {
		path := artifactPath(runDir, step)
		_, err := os.Stat(path)
		exists := err == nil

		var validations []models.Validation
		if !exists {
			validations = append(validations, models.Validation{
				Severity: models.SeverityError,
				Message:  "artifact missing",
				Field:    stepDirNames[step],
			})
		} else {
			var raw map[string]any
			if rerr := readArtifact(path, &raw); rerr != nil {
				validations = append(validations, models.Validation{
					Severity: models.SeverityError,
					Message:  "artifact unreadable: " + rerr.Error(),
					Field:    stepDirNames[step],
				})
			} else {
				for _, key := range requiredKeysByStep[step] {
					if _, ok := raw[key]; !ok {
						validations = append(validations, models.Validation{
							Severity: models.SeverityWarning,
							Message:  "required key missing from artifact",
							Field:    key,
						})
					}
				}
			}
		}

		log.StepChecks = append(log.StepChecks, StepAuditEntry{
			StepNum:        step,
			Name:           Registry[step].Name,
			ArtifactExists: exists,
			Validations:    validations,
		})
	}
	return log
}

func mustJSON(v any) []byte {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return []byte("{}")
	}
	return data
}
