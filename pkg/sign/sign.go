// Package sign provides detached signing and content-addressing for
// pipeline artifacts: a keyed blake2b digest over an artifact's canonical
// JSON encoding. Step 4 signs the identity vector it materializes; step 0
// uses the unkeyed digest to derive deterministic document IDs and the
// pipeline run directory derives its runId from a timestamp plus a short
// content hash of the run's inputs.
package sign

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Signer produces and verifies detached signatures over arbitrary JSON-
// marshalable values using a keyed blake2b-256 hash. It is not a
// general-purpose cryptographic signer (no asymmetric keys) — the identity
// vector only needs tamper-evidence against the signing key held by the
// pipeline process, not non-repudiation against a third party.
type Signer struct {
	key []byte
}

// New creates a Signer from a secret key. The key is hashed down to
// blake2b's native key size internally, so any non-empty length is
// accepted.
func New(key []byte) (*Signer, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("sign: key must not be empty")
	}
	return &Signer{key: key}, nil
}

// Sign returns the hex-encoded keyed blake2b-256 digest of v's canonical
// JSON encoding.
func (s *Signer) Sign(v any) (string, error) {
	digest, err := s.digest(v)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(digest), nil
}

// Verify reports whether sig is the correct signature for v under this
// Signer's key.
func (s *Signer) Verify(v any, sig string) (bool, error) {
	want, err := s.Sign(v)
	if err != nil {
		return false, err
	}
	return want == sig, nil
}

func (s *Signer) digest(v any) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("sign: marshal payload: %w", err)
	}
	h, err := blake2b.New256(s.key)
	if err != nil {
		return nil, fmt.Errorf("sign: init hash: %w", err)
	}
	if _, err := h.Write(payload); err != nil {
		return nil, fmt.Errorf("sign: hash payload: %w", err)
	}
	return h.Sum(nil), nil
}

// ContentHash returns a short, unkeyed, deterministic hex digest of v's
// canonical JSON encoding — used to derive stable RawDocument IDs (§3,
// "id is deterministic") and content-addressed run identifiers (§3
// "Pipeline Run").
func ContentHash(v any) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("sign: marshal payload: %w", err)
	}
	sum := blake2b.Sum256(payload)
	return hex.EncodeToString(sum[:12]), nil
}
