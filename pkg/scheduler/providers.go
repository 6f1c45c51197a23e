package scheduler

import (
	"context"
	"time"

	"github.com/intentguard/core/pkg/category"
	"github.com/intentguard/core/pkg/llmclassifier"
	"github.com/intentguard/core/pkg/models"
)

// IdlenessProvider reports how long the environment has been idle and
// what's currently running, per tick (§4.4 "Query idleness (idleMs,
// runningTasks)").
type IdlenessProvider interface {
	Idleness(ctx context.Context) (idle time.Duration, runningTasks int, err error)
}

// SovereigntyProvider supplies the current identity snapshot the
// scheduler reads sovereignty and category scores from (§4.4 "current
// sovereignty from injected providers"; §3 "the scheduler reads
// sovereignty and category scores").
type SovereigntyProvider interface {
	CurrentIdentity(ctx context.Context) (models.IdentityVector, error)
}

// ExecutionSubstrate is responsible for countdown, human confirmation,
// and the actual invocation once the scheduler emits a task (§4.4 "the
// execution substrate... is responsible for countdown, human
// confirmation, and actual invocation").
type ExecutionSubstrate interface {
	Inject(ctx context.Context, tier models.Tier, room, prompt string, categories []category.Category) error
}

// Recorder persists one successful task injection into the cross-run
// history store (§3 DATA MODEL, C5 additive scope). Optional — a nil
// Recorder simply means emitted tasks aren't indexed, never a scheduler
// error.
type Recorder interface {
	RecordTaskExecution(ctx context.Context, taskName, room, tier string, emittedAt time.Time) error
}

// Providers bundles the scheduler's injected collaborators (§9 "Global
// state → injected providers").
type Providers struct {
	Idleness    IdlenessProvider
	Sovereignty SovereigntyProvider
	Classifier  llmclassifier.Classifier
	Substrate   ExecutionSubstrate
	Recorder    Recorder
}
