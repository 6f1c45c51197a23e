package pipeline

import (
	"context"

	"github.com/intentguard/core/pkg/models"
)

// StepFunc is one pipeline step: reads prior artifacts from runDir, writes
// its own primary artifact via writeArtifact, and returns that artifact
// (for step 4/7 chaining in-process) plus any validations.
type StepFunc func(ctx context.Context, runDir string, cfg Config, providers *Providers) (artifact any, validations []models.Validation, err error)

// StepDefinition is one entry of the compile-time step registry (§9
// "Dynamic dispatch of pipeline steps → a step registry" — replaces the
// source's file-name discovery with an explicit, numbered table).
type StepDefinition struct {
	Num  int
	Name string
	Run  StepFunc
}

// Registry is the ordered, compile-time table of all 8 steps. The runner
// selects by number; there are no absent or dynamically-discovered steps.
var Registry = [8]StepDefinition{
	{Num: 0, Name: "raw-materials", Run: runStep0},
	{Num: 1, Name: "document-processing", Run: runStep1},
	{Num: 2, Name: "categories-balanced", Run: runStep2},
	{Num: 3, Name: "shortlex-validation", Run: runStep3},
	{Num: 4, Name: "grades-statistics", Run: runStep4},
	{Num: 5, Name: "goal-alignment", Run: runStep5},
	{Num: 6, Name: "analysis-narratives", Run: runStep6},
	{Num: 7, Name: "final-report", Run: runStep7},
}
