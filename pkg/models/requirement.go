package models

import "github.com/intentguard/core/pkg/category"

// ActionRequirement declares the minimum identity an action needs to be
// permitted (§3). An empty RequiredScores together with MinSovereignty 0
// yields an unconditionally-allowed action (property P1).
type ActionRequirement struct {
	ToolName        string                         `json:"toolName"`
	RequiredScores  map[category.Category]float64  `json:"requiredScores"`
	MinSovereignty  float64                        `json:"minSovereignty"`
	Description     string                         `json:"description"`
}

// FailedCategory explains one category that failed to meet its
// requirement, in the "category:actual<required" shape used by the S2
// end-to-end scenario.
type FailedCategory struct {
	Category category.Category `json:"category"`
	Actual   float64           `json:"actual"`
	Required float64           `json:"required"`
}

// PermissionDecision is the result of a single checkPermission call (§3).
type PermissionDecision struct {
	Allowed          bool              `json:"allowed"`
	Overlap          float64           `json:"overlap"`
	Sovereignty      float64           `json:"sovereignty"`
	FailedCategories []FailedCategory  `json:"failedCategories"`
	Requirement      ActionRequirement `json:"requirement"`
}

// Tier classifies a PermissionDecision into an execution tier (§4.3).
type Tier string

const (
	TierTrusted Tier = "trusted"
	TierGeneral Tier = "general"
	TierBlocked Tier = "blocked"
)
