package fim

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/intentguard/core/pkg/category"
)

// DriftEvent is one line of the append-only drift log (§6
// "<data>/fim-deny-log.jsonl"): recorded by the caller whenever
// CheckPermission returns a denial, never by the engine itself.
type DriftEvent struct {
	Timestamp        time.Time           `json:"ts"`
	Tool             string              `json:"tool"`
	Overlap          float64             `json:"overlap"`
	Sovereignty      float64             `json:"sovereignty"`
	FailedCategories []category.Category `json:"failedCategories"`
}

// DriftLog is a single-writer, append-only log of denial events backing the
// drift model's driftEvents counter (§4.3, §5 "the drift-event log
// (append-only, single-writer)"). Re-running the pipeline recomputes
// sovereignty_raw but never truncates this log — only an explicit reset
// action does, and that's itself a privileged requirement (§4.3).
type DriftLog struct {
	path string
}

// NewDriftLog opens (without yet creating) a DriftLog at path.
func NewDriftLog(path string) *DriftLog {
	return &DriftLog{path: path}
}

// Append records a new denial event, creating the file if it doesn't
// exist yet.
func (l *DriftLog) Append(event DriftEvent) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("fim: open drift log: %w", err)
	}
	defer f.Close()

	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("fim: marshal drift event: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("fim: append drift log: %w", err)
	}
	return nil
}

// Count returns the total number of recorded drift events — the
// driftEvents input to Decay. Returns 0, nil if the log doesn't exist yet.
func (l *DriftLog) Count() (int, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("fim: open drift log: %w", err)
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("fim: scan drift log: %w", err)
	}
	return count, nil
}

// RecordDenial appends a DriftEvent derived from a denied
// PermissionDecision. Callers invoke this exactly when CheckPermission
// returns Allowed=false (§7 "PermissionDenied").
func (l *DriftLog) RecordDenial(tool string, overlap, sovereignty float64, failed []category.Category, now time.Time) error {
	return l.Append(DriftEvent{
		Timestamp:        now,
		Tool:             tool,
		Overlap:          overlap,
		Sovereignty:      sovereignty,
		FailedCategories: failed,
	})
}

// Reset truncates the drift log. This is the explicit, privileged reset
// action referenced in §4.3 — callers must gate it behind its own
// ActionRequirement before invoking it.
func (l *DriftLog) Reset() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("fim: reset drift log: %w", err)
	}
	return nil
}
