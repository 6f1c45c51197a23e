// Package masking scrubs secrets out of ingested corpus content before it is
// written to any pipeline artifact. Commit diffs, design documents, and voice
// memo transcripts can carry credentials, tokens, and Kubernetes Secret
// payloads; step 0 runs every RawDocument through a Service before
// persisting it (§3 DATA MODEL "RawDocument").
package masking

// Masker is the interface for code-based maskers that need structural
// awareness beyond regex pattern matching.
type Masker interface {
	// Name returns the unique identifier for this masker.
	Name() string

	// AppliesTo performs a lightweight check on whether this masker should
	// process the data. Must be fast: string contains, not parsing.
	AppliesTo(data string) bool

	// Mask applies masking logic and returns the masked result. Must be
	// defensive: return the original data on parse/processing errors.
	Mask(data string) string
}
