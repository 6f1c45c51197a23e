package masking

import (
	"github.com/intentguard/core/pkg/models"
)

// Service applies data masking to every RawDocument before step 0 persists
// it to an artifact. Created once at pipeline startup; thread-safe and
// stateless aside from its compiled patterns.
type Service struct {
	patterns []*CompiledPattern
	maskers  []Masker
}

// NewService builds a Service with the fixed builtin pattern set plus the
// Kubernetes Secret code-masker.
func NewService() *Service {
	return &Service{
		patterns: compileBuiltinPatterns(),
		maskers:  []Masker{&KubernetesSecretMasker{}},
	}
}

// MaskDocument returns a copy of doc with its Content scrubbed. Title and
// Metadata pass through untouched — IDs must stay stable across runs, and
// metadata values are structured, not free text.
func (s *Service) MaskDocument(doc models.RawDocument) models.RawDocument {
	doc.Content = s.Mask(doc.Content)
	return doc
}

// Mask runs code-based maskers first (they need the original structure to
// parse), then regex patterns over whatever remains.
func (s *Service) Mask(data string) string {
	for _, m := range s.maskers {
		if m.AppliesTo(data) {
			data = m.Mask(data)
		}
	}

	for _, p := range s.patterns {
		data = p.Regex.ReplaceAllString(data, p.Replacement)
	}

	return data
}
