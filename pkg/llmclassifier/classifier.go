// Package llmclassifier defines the Tier 0 LLMClassifier and Tier 1
// AgentSpawner collaborator interfaces (§6) the scheduler uses to
// classify risk/priority and to dispatch coding-agent work. A deterministic
// stub backs both when no LLM substrate is reachable, so the scheduler
// never blocks on an unavailable classifier (§6 "deterministic fallback if
// unreachable").
package llmclassifier

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// Classifier classifies free text against a fixed set of choices,
// returning one of them. Every call carries a caller-supplied timeout
// (§5 "every external provider call... must carry a caller-supplied
// timeout").
type Classifier interface {
	Classify(ctx context.Context, text string, choices []string, timeout time.Duration) (string, error)
}

// SpawnHandle identifies an in-flight Tier 1 agent spawn and the marker
// file its completion will be signaled by.
type SpawnHandle struct {
	ID               string
	CompletionMarker string
}

// AgentSpawner fire-and-forget dispatches a coding-agent objective,
// returning a handle synchronously; completion is reported out-of-band
// via CompletionMarker (§6 "reports completion via a marker file path
// returned synchronously").
type AgentSpawner interface {
	Spawn(ctx context.Context, objective string, taskContext map[string]string) (SpawnHandle, error)
}

// StubClassifier is the deterministic fallback classifier: it hashes the
// input text and picks a choice by the hash modulo len(choices), so the
// same text always yields the same choice without any model call.
type StubClassifier struct{}

func (StubClassifier) Classify(ctx context.Context, text string, choices []string, timeout time.Duration) (string, error) {
	if len(choices) == 0 {
		return "", nil
	}
	sum := sha256.Sum256([]byte(text))
	idx := binary.BigEndian.Uint64(sum[:8]) % uint64(len(choices))
	return choices[idx], nil
}

// NoopSpawner is a deterministic AgentSpawner stub used when no Tier 1
// substrate is configured: it returns a handle immediately with a marker
// path the caller must still poll for, but never actually runs anything.
type NoopSpawner struct {
	MarkerDir string
}

func (s NoopSpawner) Spawn(ctx context.Context, objective string, taskContext map[string]string) (SpawnHandle, error) {
	id := spawnID(objective)
	return SpawnHandle{
		ID:               id,
		CompletionMarker: s.MarkerDir + "/" + id + ".done",
	}, nil
}

func spawnID(objective string) string {
	sum := sha256.Sum256([]byte(objective))
	return hex.EncodeToString(sum[:8])
}
