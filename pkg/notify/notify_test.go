package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSink_NeverErrors(t *testing.T) {
	sink := NewLoggingSink(nil)
	err := sink.Notify(context.Background(), "general", "hello")
	require.NoError(t, err)
}

func TestAutoConfirmSource_AlwaysGrants(t *testing.T) {
	var source ConfirmationSource = AutoConfirmSource{}
	confirmation, err := source.Confirm(context.Background(), "task-1", time.Second)
	require.NoError(t, err)
	assert.True(t, confirmation.Granted)
	assert.Equal(t, "auto", confirmation.By)
}
