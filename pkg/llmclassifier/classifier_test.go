package llmclassifier

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubClassifier_Deterministic(t *testing.T) {
	c := StubClassifier{}
	choices := []string{"safe", "dangerous"}

	first, err := c.Classify(context.Background(), "delete the prod database", choices, time.Second)
	require.NoError(t, err)

	second, err := c.Classify(context.Background(), "delete the prod database", choices, time.Second)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, choices, first)
}

func TestStubClassifier_DifferentTextsCanDiffer(t *testing.T) {
	c := StubClassifier{}
	choices := []string{"a", "b", "c", "d"}

	seen := make(map[string]bool)
	for _, text := range []string{"one", "two", "three", "four", "five"} {
		choice, err := c.Classify(context.Background(), text, choices, time.Second)
		require.NoError(t, err)
		seen[choice] = true
	}
	assert.Greater(t, len(seen), 1, "expected the stub to spread across more than one choice")
}

func TestStubClassifier_EmptyChoices(t *testing.T) {
	c := StubClassifier{}
	choice, err := c.Classify(context.Background(), "anything", nil, time.Second)
	require.NoError(t, err)
	assert.Empty(t, choice)
}

func TestNoopSpawner_ReturnsMarkerUnderDir(t *testing.T) {
	s := NoopSpawner{MarkerDir: "/tmp/markers"}
	handle, err := s.Spawn(context.Background(), "refactor the orthogonality calculator", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, handle.ID)
	assert.Equal(t, "/tmp/markers/"+handle.ID+".done", handle.CompletionMarker)
}

func TestNoopSpawner_DeterministicID(t *testing.T) {
	s := NoopSpawner{MarkerDir: "/tmp/markers"}
	first, err := s.Spawn(context.Background(), "same objective", nil)
	require.NoError(t, err)
	second, err := s.Spawn(context.Background(), "same objective", nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}
