package fim

import (
	"fmt"

	"github.com/intentguard/core/pkg/category"
	"github.com/intentguard/core/pkg/models"
)

// Registry is a queryable catalog of action requirements, keyed by tool
// name. Mirrors the named-config-registry shape used elsewhere in the
// core (e.g. the pipeline's step registry) — a small map plus a typed
// accessor, not a general plugin system.
type Registry struct {
	byTool map[string]models.ActionRequirement
}

// NewRegistry builds a Registry from an explicit list of requirements.
func NewRegistry(requirements ...models.ActionRequirement) *Registry {
	r := &Registry{byTool: make(map[string]models.ActionRequirement, len(requirements))}
	for _, req := range requirements {
		r.byTool[req.ToolName] = req
	}
	return r
}

// GetRequirement looks up a tool's requirement by name.
func (r *Registry) GetRequirement(toolName string) (models.ActionRequirement, error) {
	req, ok := r.byTool[toolName]
	if !ok {
		return models.ActionRequirement{}, fmt.Errorf("fim: no requirement registered for tool %q", toolName)
	}
	return req, nil
}

// All returns every registered requirement, in no particular order.
func (r *Registry) All() []models.ActionRequirement {
	out := make([]models.ActionRequirement, 0, len(r.byTool))
	for _, req := range r.byTool {
		out = append(out, req)
	}
	return out
}

// DefaultRequirements is the built-in catalog (§3, §4.3): six tools with
// strictly-increasing stringency. git_force_push is the most demanding —
// minSovereignty >= 0.8 and at least three thresholded categories, at
// least one of them >= 0.8.
var DefaultRequirements = []models.ActionRequirement{
	{
		ToolName:       "shell_execute",
		RequiredScores: map[category.Category]float64{category.Reliability: 0.2},
		MinSovereignty: 0.1,
		Description:    "Run an arbitrary shell command.",
	},
	{
		ToolName: "file_write",
		RequiredScores: map[category.Category]float64{
			category.CodeQuality: 0.3,
			category.Reliability: 0.3,
		},
		MinSovereignty: 0.3,
		Description:    "Create or overwrite a file.",
	},
	{
		ToolName: "file_delete",
		RequiredScores: map[category.Category]float64{
			category.Reliability:    0.4,
			category.RiskAssessment: 0.4,
		},
		MinSovereignty: 0.45,
		Description:    "Delete a file or directory.",
	},
	{
		ToolName: "git_push",
		RequiredScores: map[category.Category]float64{
			category.ProcessAdherence: 0.5,
			category.CodeQuality:      0.5,
			category.Testing:          0.4,
		},
		MinSovereignty: 0.6,
		Description:    "Push committed changes to a remote branch.",
	},
	{
		ToolName: "git_force_push",
		RequiredScores: map[category.Category]float64{
			category.ProcessAdherence: 0.8,
			category.RiskAssessment:   0.7,
			category.Accountability:   0.7,
		},
		MinSovereignty: 0.8,
		Description:    "Rewrite remote history with a force push.",
	},
	{
		ToolName: "deploy",
		RequiredScores: map[category.Category]float64{
			category.Reliability:      0.85,
			category.RiskAssessment:   0.85,
			category.ProcessAdherence: 0.8,
			category.Compliance:       0.75,
		},
		MinSovereignty: 0.85,
		Description:    "Ship a build to a production environment.",
	},
}

// DefaultRegistry is the package-level registry built from
// DefaultRequirements, analogous to tarsy's built-in sub-agent registry.
var DefaultRegistry = NewRegistry(DefaultRequirements...)

// GetRequirement looks up a tool's requirement in the default catalog.
func GetRequirement(toolName string) (models.ActionRequirement, error) {
	return DefaultRegistry.GetRequirement(toolName)
}
