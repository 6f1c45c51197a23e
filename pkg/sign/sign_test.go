package sign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigner_SignVerifyRoundTrip(t *testing.T) {
	s, err := New([]byte("test-key"))
	require.NoError(t, err)

	payload := map[string]any{"sovereignty": 0.8, "userId": "u1"}

	sig, err := s.Sign(payload)
	require.NoError(t, err)
	assert.NotEmpty(t, sig)

	ok, err := s.Verify(payload, sig)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSigner_VerifyRejectsTamperedPayload(t *testing.T) {
	s, err := New([]byte("test-key"))
	require.NoError(t, err)

	sig, err := s.Sign(map[string]any{"sovereignty": 0.8})
	require.NoError(t, err)

	ok, err := s.Verify(map[string]any{"sovereignty": 0.9}, sig)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNew_RejectsEmptyKey(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestContentHash_Deterministic(t *testing.T) {
	h1, err := ContentHash(map[string]string{"a": "b"})
	require.NoError(t, err)
	h2, err := ContentHash(map[string]string{"a": "b"})
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	h3, err := ContentHash(map[string]string{"a": "c"})
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}
