package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/intentguard/core/pkg/locks"
	"github.com/intentguard/core/pkg/models"
	"github.com/intentguard/core/pkg/sign"
)

// lockStaleAfter bounds how long a run directory lock may be held by a
// dead process before a later run reclaims it (§5 "Shared mutable
// resources").
const lockStaleAfter = 10 * time.Minute

// PipelineResult is runPipeline's return value (§6 "runPipeline(...) →
// PipelineResult").
type PipelineResult struct {
	RunID   string
	RunDir  string
	Summary models.PipelineSummary
}

// StepResult is runStep's return value (§6 "runStep(stepNum, runDir) →
// StepResult").
type StepResult struct {
	StepNum     int
	Status      models.StepStatus
	DurationMS  int64
	Error       string
	Validations []models.Validation
}

// NewRunID derives a content-addressed, timestamped run identifier (§3
// "content-addressed by timestamped runId"): the timestamp makes runs
// sortable and unique in practice, the content hash ties the id to the
// seed that produced it (e.g. the corpus snapshot) so re-running against
// identical inputs is traceable back to the same family of runs.
func NewRunID(now time.Time, seed any) (string, error) {
	hash, err := sign.ContentHash(seed)
	if err != nil {
		return "", fmt.Errorf("pipeline: derive run id: %w", err)
	}
	return fmt.Sprintf("%s-%s", now.UTC().Format("20060102-150405"), hash), nil
}

// RunPipeline runs steps [from, to] in order (inclusive), writing
// pipeline-summary.json regardless of per-step outcome. The only fatal
// condition is failure to create the run directory (§4.2 "Failure
// semantics").
func RunPipeline(ctx context.Context, dataDir string, cfg Config, providers *Providers, from, to int) (*PipelineResult, error) {
	if from < 0 || to > 7 || from > to {
		return nil, fmt.Errorf("pipeline: invalid step range [%d,%d]", from, to)
	}

	now := time.Now()
	runID, err := NewRunID(now, struct {
		DataDir string
		From    int
		To      int
		At      int64
	}{dataDir, from, to, now.UnixNano()})
	if err != nil {
		return nil, err
	}

	// The corpus provider reads the same git working tree a concurrent
	// run (or a scheduler-triggered one) might also be reading from;
	// the lock serializes access to that shared resource rather than
	// to runDir itself, which is always unique per run.
	lock := locks.New(filepath.Join(dataDir, ".intentguard.lock"))
	if err := lock.Acquire(lockStaleAfter); err != nil {
		return nil, fmt.Errorf("pipeline: acquire data directory lock: %w", err)
	}
	defer lock.Release()

	runDir := RunDir(dataDir, runID)
	if err := ensureRunDir(runDir); err != nil {
		return nil, fmt.Errorf("pipeline: create run directory: %w", err)
	}

	summary := models.PipelineSummary{
		RunID:     runID,
		StartedAt: now,
		From:      from,
		To:        to,
	}

	for stepNum := from; stepNum <= to; stepNum++ {
		result, _ := RunStep(ctx, stepNum, runDir, cfg, providers)
		summary.Steps = append(summary.Steps, models.StepSummary{
			StepNum:     result.StepNum,
			Name:        Registry[stepNum].Name,
			Status:      result.Status,
			DurationMS:  result.DurationMS,
			Error:       result.Error,
			Validations: result.Validations,
		})
	}

	summary.EndedAt = time.Now()
	if err := writeArtifact(summaryPath(runDir), summary); err != nil {
		return nil, fmt.Errorf("pipeline: write summary: %w", err)
	}

	return &PipelineResult{RunID: runID, RunDir: runDir, Summary: summary}, nil
}

// RunStep executes a single step by number against an existing run
// directory. Step failures are captured as a StepResult rather than
// propagated: the pipeline continues regardless (§4.2 "Failure
// semantics").
func RunStep(ctx context.Context, stepNum int, runDir string, cfg Config, providers *Providers) (StepResult, error) {
	if stepNum < 0 || stepNum > 7 {
		return StepResult{}, fmt.Errorf("pipeline: step %d out of range", stepNum)
	}

	def := Registry[stepNum]
	start := time.Now()

	_, validations, err := def.Run(ctx, runDir, cfg, providersOrEmpty(providers))
	duration := time.Since(start).Milliseconds()

	status := models.StepStatusOK
	errMsg := ""
	if err != nil {
		status = models.StepStatusFailed
		errMsg = err.Error()
	} else if hasErrorSeverity(validations) {
		status = models.StepStatusWarning
	}

	return StepResult{
		StepNum:     stepNum,
		Status:      status,
		DurationMS:  duration,
		Error:       errMsg,
		Validations: validations,
	}, nil
}

func hasErrorSeverity(validations []models.Validation) bool {
	for _, v := range validations {
		if v.Severity == models.SeverityWarning || v.Severity == models.SeverityError {
			return true
		}
	}
	return false
}

func providersOrEmpty(p *Providers) *Providers {
	if p == nil {
		return &Providers{}
	}
	return p
}

func summaryPath(runDir string) string {
	return filepath.Join(runDir, "pipeline-summary.json")
}

// ensureRunDir creates the run directory. This is the single fatal
// condition in the pipeline (§4.2 "The only fatal condition is the
// inability to create the run directory").
func ensureRunDir(runDir string) error {
	return os.MkdirAll(runDir, 0o755)
}
