package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/intentguard/core/pkg/category"
	"github.com/intentguard/core/pkg/cost"
	"github.com/intentguard/core/pkg/models"
	"github.com/intentguard/core/pkg/notify"
)

// LocalSubstrate is the in-process ExecutionSubstrate: it owns countdown,
// human confirmation, and invocation directly rather than delegating to a
// remote gRPC peer (§4.4 "the execution substrate... is responsible for
// countdown, human confirmation, and actual invocation"). Trusted-tier
// tasks run immediately; general-tier tasks block on ConfirmationSource
// first. Blocked-tier tasks are never reached here — the scheduler itself
// never classifies a task as blocked without a human override, so this
// substrate treats "blocked" as a caller error.
type LocalSubstrate struct {
	Notify          notify.NotificationSink
	Confirm         notify.ConfirmationSource
	Cost            cost.Sink
	ConfirmTimeout  time.Duration
	ConfirmChannel  string
	Invoke          func(ctx context.Context, room, prompt string, categories []category.Category) error
}

// NewLocalSubstrate wires a LocalSubstrate with the deterministic
// development-mode collaborators: a logging notification sink, an
// auto-confirm source, and a no-op cost sink. Callers running a real
// deployment should override Confirm and Cost before use.
func NewLocalSubstrate(invoke func(ctx context.Context, room, prompt string, categories []category.Category) error) *LocalSubstrate {
	return &LocalSubstrate{
		Notify:         notify.NewLoggingSink(nil),
		Confirm:        notify.AutoConfirmSource{},
		Cost:           cost.NoopSink{},
		ConfirmTimeout: 5 * time.Minute,
		Invoke:         invoke,
	}
}

// Inject implements ExecutionSubstrate.
func (s *LocalSubstrate) Inject(ctx context.Context, tier models.Tier, room, prompt string, categories []category.Category) error {
	switch tier {
	case models.TierBlocked:
		return fmt.Errorf("scheduler: local substrate refuses a blocked-tier task for room %q", room)
	case models.TierGeneral:
		confirmID := uuid.NewString()
		slog.Info("scheduler: awaiting confirmation", "confirm_id", confirmID, "room", room)
		confirmation, err := s.Confirm.Confirm(ctx, confirmID, s.ConfirmTimeout)
		if err != nil {
			return fmt.Errorf("scheduler: await confirmation: %w", err)
		}
		if !confirmation.Granted {
			slog.Info("scheduler: general-tier task declined", "room", room)
			return nil
		}
	}

	if err := s.Notify.Notify(ctx, s.notifyChannel(room), "running: "+prompt); err != nil {
		slog.Warn("scheduler: notification failed", "room", room, "error", err)
	}

	if s.Invoke != nil {
		if err := s.Invoke(ctx, room, prompt, categories); err != nil {
			return fmt.Errorf("scheduler: invoke: %w", err)
		}
	}

	if s.Cost != nil {
		if _, err := s.Cost.Record(ctx, cost.Record{Task: room, InputChars: len(prompt)}); err != nil {
			slog.Warn("scheduler: cost sink failed", "room", room, "error", err)
		}
	}

	return nil
}

func (s *LocalSubstrate) notifyChannel(room string) string {
	if s.ConfirmChannel != "" {
		return s.ConfirmChannel
	}
	return room
}
