package scheduler

import (
	"context"
	"time"

	"github.com/intentguard/core/pkg/category"
)

// Risk classifies a task's blast radius (§4.4 "Classify risk ∈
// {safe,dangerous}").
type Risk string

const (
	RiskSafe      Risk = "safe"
	RiskDangerous Risk = "dangerous"
)

// Priority is a local classifier's estimate of how urgently a task should
// run, used for ordering within a tick's emission (not for reordering —
// §4.4 "Ordering guarantees" still applies).
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Task is one entry in the scheduler's registered catalog. ShouldRun
// decides eligibility for the current tick; Prompt and Categories feed
// the execution substrate's inject call.
type Task struct {
	Name       string
	Room       string
	Cooldown   time.Duration
	ShouldRun  func(ctx context.Context) bool
	Prompt     func(ctx context.Context) (string, error)
	Categories []category.Category

	lastRun time.Time
}

// cooldownElapsed reports whether t's cooldown has elapsed since its last
// emission, as of now.
func (t *Task) cooldownElapsed(now time.Time) bool {
	return t.lastRun.IsZero() || now.Sub(t.lastRun) >= t.Cooldown
}
