// Package scheduler implements the proactive single-threaded cooperative
// scheduler (§4.4 C4): on each heartbeat tick it classifies and dispatches
// registered tasks to an execution substrate, gated by the tier the
// current identity's sovereignty affords.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/intentguard/core/pkg/models"
)

// Config tunes the scheduler's heartbeat and budget (§4.4, §6
// "scheduler: {heartbeatMs, minIdleMs, maxTasksPerHour, enabled}").
type Config struct {
	HeartbeatInterval time.Duration
	MinIdle           time.Duration
	MaxTasksPerHour   int
	Enabled           bool
}

// DefaultInteractiveConfig returns a short-heartbeat configuration
// suitable for an interactive scheduler (§4.4 "shorter for the
// interactive scheduler").
func DefaultInteractiveConfig() Config {
	return Config{HeartbeatInterval: time.Minute, MinIdle: 30 * time.Second, MaxTasksPerHour: 12, Enabled: true}
}

// DefaultAutonomousConfig returns the 15-minute heartbeat named for the
// autonomous builder (§4.4 "default 15 min for the autonomous builder").
func DefaultAutonomousConfig() Config {
	return Config{HeartbeatInterval: 15 * time.Minute, MinIdle: 5 * time.Minute, MaxTasksPerHour: 4, Enabled: true}
}

// Status is the scheduler's externally observable state (§6 "getStatus").
type Status struct {
	Running         bool
	LastTickAt      time.Time
	TasksEmitted    int
	TasksThisHour   int
	RegisteredTasks int
}

// ProactiveScheduler is the single-threaded heartbeat loop. It is never
// shared across goroutines beyond its own internal timer goroutine; all
// public methods are safe to call concurrently.
type ProactiveScheduler struct {
	cfg       Config
	providers Providers
	logger    *slog.Logger

	mu    sync.Mutex
	tasks []*Task

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	statusMu      sync.RWMutex
	running       bool
	lastTickAt    time.Time
	tasksEmitted  int
	hourWindow    time.Time
	tasksThisHour int
}

// New builds a scheduler with the given config and providers. Bind
// registers tasks before Start.
func New(cfg Config, providers Providers) *ProactiveScheduler {
	return &ProactiveScheduler{
		cfg:       cfg,
		providers: providers,
		logger:    slog.Default().With("component", "scheduler"),
		stopCh:    make(chan struct{}),
	}
}

// Bind registers a task into the catalog. Within a tick, tasks are
// considered in registration order (§4.4 "Ordering guarantees").
func (s *ProactiveScheduler) Bind(task *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, task)
}

// Start begins the heartbeat loop in a background goroutine. A no-op if
// the scheduler is disabled in config.
func (s *ProactiveScheduler) Start(ctx context.Context) {
	if !s.cfg.Enabled {
		return
	}
	s.statusMu.Lock()
	s.running = true
	s.statusMu.Unlock()

	s.wg.Add(1)
	go s.run(ctx)
}

// Stop signals the loop to stop after its in-flight tick completes, then
// clears the timer. Tasks already emitted are not recalled (§4.4
// "Cancellation").
func (s *ProactiveScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
	s.statusMu.Lock()
	s.running = false
	s.statusMu.Unlock()
}

// GetStatus returns a snapshot of the scheduler's current state.
func (s *ProactiveScheduler) GetStatus() Status {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	s.mu.Lock()
	registered := len(s.tasks)
	s.mu.Unlock()
	return Status{
		Running:         s.running,
		LastTickAt:      s.lastTickAt,
		TasksEmitted:    s.tasksEmitted,
		TasksThisHour:   s.tasksThisHour,
		RegisteredTasks: registered,
	}
}

func (s *ProactiveScheduler) run(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick runs one heartbeat: queries providers once, then walks the task
// catalog in registration order (§4.4). The scheduler never blocks on
// task completion — inject is fire-and-forget from its perspective.
func (s *ProactiveScheduler) tick(ctx context.Context) {
	now := time.Now()
	s.statusMu.Lock()
	s.lastTickAt = now
	if s.hourWindow.IsZero() || now.Sub(s.hourWindow) >= time.Hour {
		s.hourWindow = now
		s.tasksThisHour = 0
	}
	s.statusMu.Unlock()

	if s.providers.Idleness == nil || s.providers.Sovereignty == nil || s.providers.Substrate == nil {
		s.logger.Warn("scheduler tick skipped: providers not fully configured")
		return
	}

	idle, runningTasks, err := s.providers.Idleness.Idleness(ctx)
	if err != nil {
		s.logger.Warn("idleness provider failed", "error", err)
		return
	}
	if idle < s.cfg.MinIdle {
		s.logger.Debug("skipping tick: below min idle threshold", "idle", idle, "runningTasks", runningTasks)
		return
	}

	identity, err := s.providers.Sovereignty.CurrentIdentity(ctx)
	if err != nil {
		s.logger.Warn("sovereignty provider failed", "error", err)
		return
	}

	s.mu.Lock()
	tasks := append([]*Task(nil), s.tasks...)
	s.mu.Unlock()

	for _, task := range tasks {
		if !task.cooldownElapsed(now) {
			continue
		}
		if task.ShouldRun != nil && !task.ShouldRun(ctx) {
			continue
		}

		s.statusMu.Lock()
		exhausted := s.cfg.MaxTasksPerHour > 0 && s.tasksThisHour >= s.cfg.MaxTasksPerHour
		s.statusMu.Unlock()
		if exhausted {
			s.logger.Debug("hourly task budget exhausted", "task", task.Name)
			continue
		}

		s.emit(ctx, task, identity, now)
	}
}

func (s *ProactiveScheduler) emit(ctx context.Context, task *Task, identity models.IdentityVector, now time.Time) {
	risk := s.classifyRisk(ctx, task)
	tier := TierFor(risk, identity.SovereigntyScore)

	prompt := task.Name
	if task.Prompt != nil {
		p, err := task.Prompt(ctx)
		if err != nil {
			s.logger.Warn("task prompt builder failed, skipping this tick", "task", task.Name, "error", err)
			return
		}
		prompt = p
	}

	if err := s.providers.Substrate.Inject(ctx, tier, task.Room, prompt, task.Categories); err != nil {
		s.logger.Warn("substrate inject failed", "task", task.Name, "error", err)
		return
	}

	if s.providers.Recorder != nil {
		if err := s.providers.Recorder.RecordTaskExecution(ctx, task.Name, task.Room, string(tier), now); err != nil {
			s.logger.Warn("task execution recorder failed", "task", task.Name, "error", err)
		}
	}

	task.lastRun = now
	s.statusMu.Lock()
	s.tasksEmitted++
	s.tasksThisHour++
	s.statusMu.Unlock()
}

func (s *ProactiveScheduler) classifyRisk(ctx context.Context, task *Task) Risk {
	if s.providers.Classifier == nil {
		return RiskSafe
	}
	choice, err := s.providers.Classifier.Classify(ctx, task.Name, []string{string(RiskSafe), string(RiskDangerous)}, 5*time.Second)
	if err != nil || choice == "" {
		return RiskSafe
	}
	return Risk(choice)
}

// TierFor maps (risk, sovereignty) to an authorization tier (§4.4):
// safe tasks need sovereignty >= 0.6 to auto-execute as trusted; dangerous
// tasks need sovereignty >= 0.9. Everything else requires confirmation.
func TierFor(risk Risk, sovereignty float64) models.Tier {
	switch risk {
	case RiskSafe:
		if sovereignty >= 0.6 {
			return models.TierTrusted
		}
	case RiskDangerous:
		if sovereignty >= 0.9 {
			return models.TierTrusted
		}
	}
	return models.TierGeneral
}
