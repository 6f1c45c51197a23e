package index

import (
	"context"
	"fmt"
	"time"

	"github.com/intentguard/core/ent"
	"github.com/intentguard/core/ent/driftevent"
	"github.com/intentguard/core/ent/identitysnapshot"
	"github.com/intentguard/core/ent/run"
	"github.com/intentguard/core/pkg/models"
)

// RunSummary is the list-view shape returned by ListRuns — enough to
// render a report table without pulling every StepResult edge.
type RunSummary struct {
	ID          string
	StartedAt   string
	CompletedAt *string
	Status      string
}

// ListRuns returns the most recent runs, newest first, capped at limit.
func (c *Client) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	runs, err := c.Run.Query().
		Order(ent.Desc(run.FieldStartedAt)).
		Limit(limit).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("index: list runs: %w", err)
	}

	out := make([]RunSummary, 0, len(runs))
	for _, r := range runs {
		summary := RunSummary{
			ID:        r.ID,
			StartedAt: r.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
			Status:    r.Status,
		}
		if r.CompletedAt != nil {
			completed := r.CompletedAt.Format("2006-01-02T15:04:05Z07:00")
			summary.CompletedAt = &completed
		}
		out = append(out, summary)
	}
	return out, nil
}

// GetRun returns a single run with its step results eagerly loaded.
func (c *Client) GetRun(ctx context.Context, runID string) (*ent.Run, error) {
	r, err := c.Run.Query().
		Where(run.IDEQ(runID)).
		WithSteps().
		Only(ctx)
	if err != nil {
		return nil, fmt.Errorf("index: get run %q: %w", runID, err)
	}
	return r, nil
}

// LatestIdentity returns the most recently computed identity snapshot
// across all runs, for the /identity/latest report endpoint.
func (c *Client) LatestIdentity(ctx context.Context) (*ent.IdentitySnapshot, error) {
	snap, err := c.IdentitySnapshot.Query().
		Order(ent.Desc(identitysnapshot.FieldComputedAt)).
		First(ctx)
	if err != nil {
		return nil, fmt.Errorf("index: latest identity: %w", err)
	}
	return snap, nil
}

// DriftLog returns recorded permission denials for a tool (or every tool
// when tool is empty), newest first, capped at limit.
func (c *Client) DriftLog(ctx context.Context, tool string, limit int) ([]*ent.DriftEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	q := c.DriftEvent.Query().
		Order(ent.Desc(driftevent.FieldOccurredAt)).
		Limit(limit)
	if tool != "" {
		q = q.Where(driftevent.ToolEQ(tool))
	}

	events, err := q.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("index: drift log: %w", err)
	}
	return events, nil
}

// RecordRun persists a completed run's summary and step results. Called
// by the CLI after pipeline.RunPipeline returns, never by the pipeline
// package itself — the pipeline has no database dependency.
func (c *Client) RecordRun(ctx context.Context, summary RunSummary, steps []StepResultRecord) error {
	tx, err := c.Client.Tx(ctx)
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}

	runCreate := tx.Run.Create().
		SetID(summary.ID).
		SetStatus(summary.Status)

	r, err := runCreate.Save(ctx)
	if err != nil {
		return rollback(tx, fmt.Errorf("index: create run: %w", err))
	}

	for _, s := range steps {
		create := tx.StepResult.Create().
			SetStepNum(s.StepNum).
			SetStatus(s.Status).
			SetDurationMs(s.DurationMS).
			SetRun(r)
		if s.Error != "" {
			create = create.SetError(s.Error)
		}
		if _, err := create.Save(ctx); err != nil {
			return rollback(tx, fmt.Errorf("index: create step result: %w", err))
		}
	}

	return tx.Commit()
}

// StepResultRecord is the subset of pipeline.StepResult RecordRun persists.
type StepResultRecord struct {
	StepNum    int
	Status     string
	DurationMS int64
	Error      string
}

// RecordIdentitySnapshot persists a run's step-4 identity vector. Called
// by the CLI immediately after RecordRun for the same run, never by the
// pipeline package itself.
func (c *Client) RecordIdentitySnapshot(ctx context.Context, runID string, identity models.IdentityVector) error {
	r, err := c.Run.Get(ctx, runID)
	if err != nil {
		return fmt.Errorf("index: record identity snapshot: find run %q: %w", runID, err)
	}

	scores := make(map[string]float64, len(identity.CategoryScores))
	for cat, score := range identity.CategoryScores {
		scores[string(cat)] = score
	}

	_, err = c.IdentitySnapshot.Create().
		SetSovereigntyScore(identity.SovereigntyScore).
		SetCategoryScores(scores).
		SetSignature(identity.Signature).
		SetRun(r).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("index: record identity snapshot: %w", err)
	}
	return nil
}

// RecordDriftEvent persists one permission denial, mirroring the local
// fim.DriftLog jsonl entry into the cross-run history store. Soft-fail:
// callers log and continue rather than let an index outage affect
// CheckPermission's result.
func (c *Client) RecordDriftEvent(ctx context.Context, tool string, overlap, sovereignty float64, failedCategories []string, occurredAt time.Time) error {
	_, err := c.DriftEvent.Create().
		SetTool(tool).
		SetOverlap(overlap).
		SetSovereignty(sovereignty).
		SetFailedCategories(failedCategories).
		SetOccurredAt(occurredAt).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("index: record drift event: %w", err)
	}
	return nil
}

// RecordTaskExecution persists one scheduler emit() at the tier it ran
// (or would have run) at. Written by the scheduler itself through an
// optional Recorder, never by the execution substrate.
func (c *Client) RecordTaskExecution(ctx context.Context, taskName, room, tier string, emittedAt time.Time) error {
	_, err := c.TaskExecution.Create().
		SetTaskName(taskName).
		SetRoom(room).
		SetTier(tier).
		SetEmittedAt(emittedAt).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("index: record task execution: %w", err)
	}
	return nil
}

func rollback(tx *ent.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		return fmt.Errorf("%w (rollback also failed: %v)", err, rerr)
	}
	return err
}
