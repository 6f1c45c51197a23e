package models

import (
	"time"

	"github.com/intentguard/core/pkg/category"
)

// TrustSignal is produced when a keyword in a processed document is
// attributed to a category, with a confidence in [0,1] (§3).
type TrustSignal struct {
	Keyword    string            `json:"keyword"`
	Category   category.Category `json:"category"`
	Confidence float64           `json:"confidence"`
	Context    string            `json:"context,omitempty"`
	DocumentID string            `json:"documentId"`
	Timestamp  time.Time         `json:"timestamp"`
}

// CategoryFrequency summarizes how often a category's keywords occurred
// across a corpus (§3). Percentage is relative to the total occurrence
// count across all categories and must sum to 100 (±0.1, property P8).
type CategoryFrequency struct {
	Category   category.Category `json:"category"`
	Count      int               `json:"count"`
	Keywords   map[string]int    `json:"keywords"`
	Percentage float64           `json:"percentage"`
	Rank       int               `json:"rank"`
}
