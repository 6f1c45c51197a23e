// Package notify defines the NotificationSink and ConfirmationSource
// collaborator interfaces (§6): the core never talks to a chat transport
// directly (§1 "the Discord transport... deliberately out of scope"), it
// only emits through these interfaces. A logging stub implementation is
// provided for use before a real transport is wired in.
package notify

import (
	"context"
	"log/slog"
	"time"
)

// NotificationSink delivers a message to a channel. Errors are swallowed
// and logged by the implementation (§6 "errors are swallowed and
// logged").
type NotificationSink interface {
	Notify(ctx context.Context, channel, message string) error
}

// Confirmation is the outcome of awaiting human confirmation for a
// general-tier task (§6 ConfirmationSource).
type Confirmation struct {
	Granted bool
	By      string
}

// ConfirmationSource awaits a human confirmation token for a pending
// action, used by the execution substrate for general-tier tasks.
type ConfirmationSource interface {
	Confirm(ctx context.Context, id string, timeout time.Duration) (Confirmation, error)
}

// LoggingSink is a NotificationSink that writes to a structured logger
// instead of a real transport. Swallows nothing visibly — every call
// succeeds and is logged at info level, matching the "errors are
// swallowed and logged" contract trivially since there's no transport to
// fail.
type LoggingSink struct {
	logger *slog.Logger
}

// NewLoggingSink returns a LoggingSink writing through logger, or
// slog.Default() if logger is nil.
func NewLoggingSink(logger *slog.Logger) *LoggingSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingSink{logger: logger.With("component", "notify")}
}

func (s *LoggingSink) Notify(ctx context.Context, channel, message string) error {
	s.logger.InfoContext(ctx, "notification", "channel", channel, "message", message)
	return nil
}

// AutoConfirmSource is a deterministic ConfirmationSource stub: it grants
// every request immediately, attributing the grant to "auto". Intended
// for local development and tests, never for a deployment where
// general-tier tasks must wait on a real human.
type AutoConfirmSource struct{}

func (AutoConfirmSource) Confirm(ctx context.Context, id string, timeout time.Duration) (Confirmation, error) {
	return Confirmation{Granted: true, By: "auto"}, nil
}
