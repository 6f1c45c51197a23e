package scheduler

import (
	"testing"

	"github.com/intentguard/core/pkg/category"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGRPCSubstrate_DialIsLazy(t *testing.T) {
	// grpc.NewClient resolves but does not connect eagerly, so dialing an
	// address with nothing listening must still succeed here.
	sub, err := NewGRPCSubstrate("127.0.0.1:0")
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.NoError(t, sub.Close())
}

func TestInject_CategoryNamesFlattened(t *testing.T) {
	cats := []category.Category{category.Security, category.Testing}
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	assert.Equal(t, []string{"security", "testing"}, names)
}
