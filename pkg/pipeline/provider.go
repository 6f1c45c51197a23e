package pipeline

import (
	"context"
	"time"

	"github.com/intentguard/core/pkg/models"
)

// CorpusProvider enumerates the heterogeneous sources step 0 ingests:
// commits, tracked documents, blog-style markdown, and voice-memo
// transcripts (§6 "Collaborator interfaces"). Each method fails soft: a
// provider that cannot reach its source returns a SourceError describing
// the skip reason rather than aborting the run (§4.2 step 0 "Fails soft on
// unreadable sources").
type CorpusProvider interface {
	// Commits returns commits touched within the window [since, now),
	// default "last 30 days" when since is the zero Time.
	Commits(ctx context.Context, since time.Time) ([]CommitRecord, error)

	// Blogs returns blog-style markdown documents from configured
	// content roots.
	Blogs(ctx context.Context) ([]RawTextRecord, error)

	// Documents returns tracked documentation files.
	Documents(ctx context.Context) ([]RawTextRecord, error)

	// VoiceMemos returns transcript lines from an attention-corpus
	// directory of JSONL files.
	VoiceMemos(ctx context.Context) ([]RawTextRecord, error)
}

// CommitRecord is one commit as surfaced by a CorpusProvider, in the
// `hash|iso-date|subject|body` shape §4.2 step 0 names, plus changed
// files.
type CommitRecord struct {
	Hash         string
	AuthorDate   time.Time
	Subject      string
	Body         string
	ChangedFiles []string
}

// RawTextRecord is a single blog/document/voice-memo source item before
// it's wrapped into a models.RawDocument.
type RawTextRecord struct {
	// SourcePath identifies the record for deterministic ID derivation
	// (a file path, or a "file:line" locator for JSONL transcripts).
	SourcePath string
	Title      string
	Content    string
	Timestamp  time.Time
	Metadata   map[string]any
}

// SourceError records a single source that step 0 could not read,
// without aborting the run (§4.2 "Fails soft on unreadable sources").
type SourceError struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}
