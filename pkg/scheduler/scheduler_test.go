package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/intentguard/core/pkg/category"
	"github.com/intentguard/core/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdleness struct {
	idle time.Duration
}

func (f fakeIdleness) Idleness(ctx context.Context) (time.Duration, int, error) {
	return f.idle, 0, nil
}

type fakeSovereignty struct {
	score float64
}

func (f fakeSovereignty) CurrentIdentity(ctx context.Context) (models.IdentityVector, error) {
	return models.IdentityVector{SovereigntyScore: f.score}, nil
}

type recordingSubstrate struct {
	mu      sync.Mutex
	injects []string
}

func (r *recordingSubstrate) Inject(ctx context.Context, tier models.Tier, room, prompt string, categories []category.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.injects = append(r.injects, prompt)
	return nil
}

func (r *recordingSubstrate) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.injects)
}

func TestTierFor(t *testing.T) {
	assert.Equal(t, models.TierTrusted, TierFor(RiskSafe, 0.6))
	assert.Equal(t, models.TierGeneral, TierFor(RiskSafe, 0.59))
	assert.Equal(t, models.TierTrusted, TierFor(RiskDangerous, 0.9))
	assert.Equal(t, models.TierGeneral, TierFor(RiskDangerous, 0.89))
}

func TestScheduler_EmitsOnTick(t *testing.T) {
	substrate := &recordingSubstrate{}
	cfg := Config{HeartbeatInterval: 20 * time.Millisecond, MinIdle: 0, MaxTasksPerHour: 100, Enabled: true}
	sched := New(cfg, Providers{
		Idleness:    fakeIdleness{idle: time.Minute},
		Sovereignty: fakeSovereignty{score: 0.7},
		Substrate:   substrate,
	})

	var ran atomic.Bool
	sched.Bind(&Task{
		Name:     "sweep",
		Room:     "general",
		Cooldown: time.Hour,
		ShouldRun: func(ctx context.Context) bool {
			return true
		},
		Prompt: func(ctx context.Context) (string, error) {
			ran.Store(true)
			return "run the sweep", nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	sched.Start(ctx)
	require.Eventually(t, func() bool { return substrate.count() > 0 }, time.Second, 5*time.Millisecond)
	cancel()
	sched.Stop()

	assert.True(t, ran.Load())
	status := sched.GetStatus()
	assert.Equal(t, 1, status.RegisteredTasks)
	assert.GreaterOrEqual(t, status.TasksEmitted, 1)
}

func TestScheduler_RespectsCooldown(t *testing.T) {
	substrate := &recordingSubstrate{}
	cfg := Config{HeartbeatInterval: 10 * time.Millisecond, MinIdle: 0, MaxTasksPerHour: 100, Enabled: true}
	sched := New(cfg, Providers{
		Idleness:    fakeIdleness{idle: time.Minute},
		Sovereignty: fakeSovereignty{score: 0.7},
		Substrate:   substrate,
	})
	sched.Bind(&Task{
		Name:      "frequent",
		Cooldown:  time.Hour,
		ShouldRun: func(ctx context.Context) bool { return true },
	})

	ctx, cancel := context.WithCancel(context.Background())
	sched.Start(ctx)
	time.Sleep(80 * time.Millisecond)
	cancel()
	sched.Stop()

	assert.LessOrEqual(t, substrate.count(), 1)
}

func TestScheduler_SkipsWhenBelowMinIdle(t *testing.T) {
	substrate := &recordingSubstrate{}
	cfg := Config{HeartbeatInterval: 10 * time.Millisecond, MinIdle: time.Hour, MaxTasksPerHour: 100, Enabled: true}
	sched := New(cfg, Providers{
		Idleness:    fakeIdleness{idle: time.Second},
		Sovereignty: fakeSovereignty{score: 0.7},
		Substrate:   substrate,
	})
	sched.Bind(&Task{Name: "t", ShouldRun: func(ctx context.Context) bool { return true }})

	ctx, cancel := context.WithCancel(context.Background())
	sched.Start(ctx)
	time.Sleep(50 * time.Millisecond)
	cancel()
	sched.Stop()

	assert.Equal(t, 0, substrate.count())
}

func TestScheduler_DisabledNeverStarts(t *testing.T) {
	sched := New(Config{Enabled: false}, Providers{})
	sched.Start(context.Background())
	assert.False(t, sched.GetStatus().Running)
}
