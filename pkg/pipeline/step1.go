package pipeline

import (
	"context"
	"regexp"
	"strings"

	"github.com/intentguard/core/pkg/models"
)

var wordPattern = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9_']*`)

// stopWords is trimmed deliberately small: step 1's keyword extraction is
// meant to be permissive, letting step 2's category keyword match do the
// real filtering.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"is": true, "are": true, "was": true, "were": true, "be": true, "been": true,
	"to": true, "of": true, "in": true, "on": true, "for": true, "with": true,
	"this": true, "that": true, "it": true, "as": true, "at": true, "by": true,
	"from": true, "we": true, "i": true, "you": true, "not": true,
}

// runStep1 normalizes and tokenizes step 0's documents, per §4.2 step 1.
func runStep1(ctx context.Context, runDir string, cfg Config, providers *Providers) (any, []models.Validation, error) {
	var validations []models.Validation

	var raw Step0Artifact
	if err := readArtifact(artifactPath(runDir, 0), &raw); err != nil {
		validations = append(validations, models.Validation{
			Severity: models.SeverityError,
			Message:  "step 0 artifact unreadable: " + err.Error(),
			Field:    "documents",
		})
		artifact := Step1Artifact{KeywordFrequency: map[string]int{}}
		if werr := writeArtifact(artifactPath(runDir, 1), artifact); werr != nil {
			return nil, validations, werr
		}
		return artifact, validations, nil
	}

	artifact := Step1Artifact{
		KeywordFrequency: map[string]int{},
		PartitionIndex:   map[models.Partition][]string{},
	}

	for _, doc := range raw.Documents {
		normalized := normalizeContent(doc.Content)
		keywords := extractKeywords(normalized)
		sections := extractSections(doc.Content)

		processed := models.ProcessedDocument{
			RawDocument:       doc,
			NormalizedContent: normalized,
			Sections:          sections,
			Keywords:          keywords,
			WordCount:         len(strings.Fields(normalized)),
		}
		artifact.Documents = append(artifact.Documents, processed)

		for _, kw := range keywords {
			artifact.KeywordFrequency[kw]++
		}

		partition := models.PartitionReality
		if doc.Type == models.DocumentTypeDocument {
			partition = models.PartitionIntent
		}
		artifact.PartitionIndex[partition] = append(artifact.PartitionIndex[partition], doc.ID)
	}

	if len(artifact.Documents) > 0 && len(artifact.KeywordFrequency) == 0 {
		validations = append(validations, models.Validation{
			Severity: models.SeverityWarning,
			Message:  "documents present but no keywords extracted",
			Field:    "keywordFrequency",
		})
	}

	if err := writeArtifact(artifactPath(runDir, 1), artifact); err != nil {
		return nil, validations, err
	}
	return artifact, validations, nil
}

func normalizeContent(content string) string {
	return strings.ToLower(strings.TrimSpace(content))
}

func extractKeywords(normalized string) []string {
	seen := map[string]bool{}
	var keywords []string
	for _, w := range wordPattern.FindAllString(normalized, -1) {
		if len(w) < 3 || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		keywords = append(keywords, w)
	}
	return keywords
}

func extractSections(content string) []string {
	var sections []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			sections = append(sections, strings.TrimLeft(trimmed, "# "))
		}
	}
	return sections
}
