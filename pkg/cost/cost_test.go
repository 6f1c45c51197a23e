package cost

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopSink_AttributesZeroCost(t *testing.T) {
	s := NoopSink{}
	outcome, err := s.Record(context.Background(), Record{
		Task:        "infra-room",
		Model:       "stub",
		Backend:     "local",
		InputChars:  100,
		OutputChars: 50,
	})
	require.NoError(t, err)
	assert.Zero(t, outcome.CostUSD)
	assert.Nil(t, outcome.ElectricityKWh)
}
