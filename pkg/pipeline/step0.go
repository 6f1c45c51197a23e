package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/intentguard/core/pkg/masking"
	"github.com/intentguard/core/pkg/models"
	"github.com/intentguard/core/pkg/sign"
)

// corpusFetch is the result of one of the four independent corpus reads
// run concurrently by runStep0.
type corpusFetch struct {
	source string
	err    error

	commits []CommitRecord
	texts   []RawTextRecord
	docType models.DocumentType
}

// runStep0 gathers the raw corpus: commits, blogs, documents, and voice
// memos (§4.2 step 0). Each source fails soft — an unreachable source is
// recorded in Skipped rather than aborting the step.
func runStep0(ctx context.Context, runDir string, cfg Config, providers *Providers) (any, []models.Validation, error) {
	var validations []models.Validation

	if providers.Corpus == nil {
		validations = append(validations, models.Validation{
			Severity: models.SeverityError,
			Message:  "no CorpusProvider configured",
			Field:    "providers.corpus",
		})
		artifact := Step0Artifact{Stats: Step0Stats{}}
		if err := writeArtifact(artifactPath(runDir, 0), artifact); err != nil {
			return nil, validations, err
		}
		return artifact, validations, nil
	}

	masker := providers.Masker
	if masker == nil {
		masker = masking.NewService()
	}

	since := time.Now().AddDate(0, 0, -cfg.CommitWindowDays)
	artifact := Step0Artifact{}

	// The four corpus sources are independent reads against potentially
	// remote or slow collaborators (git log, filesystem walks); fetch
	// them concurrently and fold the results back in a fixed order so
	// the artifact stays deterministic regardless of which goroutine
	// finishes first.
	fetches := make([]corpusFetch, 4)
	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		commits, err := providers.Corpus.Commits(gctx, since)
		fetches[0] = corpusFetch{source: "commits", err: err, commits: commits}
		return nil
	})
	group.Go(func() error {
		blogs, err := providers.Corpus.Blogs(gctx)
		fetches[1] = corpusFetch{source: "blogs", err: err, texts: blogs, docType: models.DocumentTypeBlog}
		return nil
	})
	group.Go(func() error {
		docs, err := providers.Corpus.Documents(gctx)
		fetches[2] = corpusFetch{source: "documents", err: err, texts: docs, docType: models.DocumentTypeDocument}
		return nil
	})
	group.Go(func() error {
		memos, err := providers.Corpus.VoiceMemos(gctx)
		fetches[3] = corpusFetch{source: "voiceMemos", err: err, texts: memos, docType: models.DocumentTypeVoiceMemo}
		return nil
	})
	_ = group.Wait() // each goroutine records its own error in fetches; nothing here can fail

	for _, f := range fetches {
		if f.err != nil {
			artifact.Skipped = append(artifact.Skipped, SourceError{Source: f.source, Reason: f.err.Error()})
		}
	}

	for _, c := range fetches[0].commits {
		doc, derr := commitToDocument(c)
		if derr != nil {
			artifact.Skipped = append(artifact.Skipped, SourceError{Source: "commits:" + c.Hash, Reason: derr.Error()})
			continue
		}
		doc = masker.MaskDocument(doc)
		artifact.Documents = append(artifact.Documents, doc)
		artifact.Stats.Commits++
		artifact.Stats.TotalBytes += int64(len(doc.Content))
	}

	statCounters := []*int{&artifact.Stats.Blogs, &artifact.Stats.Documents, &artifact.Stats.VoiceMemos}
	for i, f := range fetches[1:] {
		for _, r := range f.texts {
			doc, derr := textRecordToDocument(r, f.docType)
			if derr != nil {
				artifact.Skipped = append(artifact.Skipped, SourceError{Source: f.source + ":" + r.SourcePath, Reason: derr.Error()})
				continue
			}
			doc = masker.MaskDocument(doc)
			artifact.Documents = append(artifact.Documents, doc)
			*statCounters[i]++
			artifact.Stats.TotalBytes += int64(len(doc.Content))
		}
	}

	if len(artifact.Documents) == 0 {
		validations = append(validations, models.Validation{
			Severity: models.SeverityWarning,
			Message:  "no documents gathered from any source",
			Field:    "documents",
		})
	}

	if err := writeArtifact(artifactPath(runDir, 0), artifact); err != nil {
		return nil, validations, err
	}
	return artifact, validations, nil
}

// commitToDocument wraps a commit into a tagged RawDocument (§9 tagged
// variants: type is data, not a subclass).
func commitToDocument(c CommitRecord) (models.RawDocument, error) {
	id, err := sign.ContentHash(struct {
		Kind string
		Hash string
	}{"commit", c.Hash})
	if err != nil {
		return models.RawDocument{}, err
	}
	content := c.Subject
	if c.Body != "" {
		content = c.Subject + "\n\n" + c.Body
	}
	return models.RawDocument{
		ID:        id,
		Type:      models.DocumentTypeCommit,
		Title:     c.Subject,
		Content:   content,
		Timestamp: c.AuthorDate,
		Metadata: map[string]any{
			"hash":         c.Hash,
			"changedFiles": c.ChangedFiles,
		},
	}, nil
}

func textRecordToDocument(r RawTextRecord, docType models.DocumentType) (models.RawDocument, error) {
	id, err := sign.ContentHash(struct {
		Kind   string
		Source string
	}{string(docType), r.SourcePath})
	if err != nil {
		return models.RawDocument{}, err
	}
	if !docType.IsValid() {
		return models.RawDocument{}, fmt.Errorf("invalid document type %q", docType)
	}
	return models.RawDocument{
		ID:        id,
		Type:      docType,
		Title:     r.Title,
		Content:   r.Content,
		Timestamp: r.Timestamp,
		Metadata:  r.Metadata,
	}, nil
}
