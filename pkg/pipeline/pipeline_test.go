package pipeline

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/intentguard/core/pkg/models"
	"github.com/intentguard/core/pkg/sign"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCorpus struct {
	commits []CommitRecord
	docs    []RawTextRecord
	blogs   []RawTextRecord
}

func (s stubCorpus) Commits(ctx context.Context, since time.Time) ([]CommitRecord, error) {
	return s.commits, nil
}
func (s stubCorpus) Blogs(ctx context.Context) ([]RawTextRecord, error)       { return s.blogs, nil }
func (s stubCorpus) Documents(ctx context.Context) ([]RawTextRecord, error)   { return s.docs, nil }
func (s stubCorpus) VoiceMemos(ctx context.Context) ([]RawTextRecord, error)  { return nil, nil }

func testCorpus() CorpusProvider {
	return stubCorpus{
		commits: []CommitRecord{
			{Hash: "abc123", AuthorDate: time.Now(), Subject: "fix security validation bug", ChangedFiles: []string{"auth.go"}},
			{Hash: "def456", AuthorDate: time.Now(), Subject: "improve test coverage for reliability", ChangedFiles: []string{"reliability_test.go"}},
		},
		docs: []RawTextRecord{
			{SourcePath: "docs/security.md", Title: "security.md", Content: "security policy and compliance documentation", Timestamp: time.Now()},
		},
		blogs: []RawTextRecord{
			{SourcePath: "blog/post1.md", Title: "post1.md", Content: "a blog post about testing and quality", Timestamp: time.Now()},
		},
	}
}

func runFullPipeline(t *testing.T) (*PipelineResult, Config) {
	t.Helper()
	dataDir := t.TempDir()
	cfg := DefaultConfig(dataDir)
	signer, err := sign.New([]byte("test-signing-key"))
	require.NoError(t, err)
	providers := &Providers{Corpus: testCorpus(), Signer: signer}

	result, err := RunPipeline(context.Background(), dataDir, cfg, providers, 0, 7)
	require.NoError(t, err)
	return result, cfg
}

func TestRunPipeline_AllStepsSucceed(t *testing.T) {
	result, _ := runFullPipeline(t)
	require.Len(t, result.Summary.Steps, 8)
	for _, step := range result.Summary.Steps {
		assert.NotEqual(t, models.StepStatusFailed, step.Status, "step %d (%s) failed: %s", step.StepNum, step.Name, step.Error)
	}
}

// P8: category percentages sum to 100 +/- 0.1.
func TestP8_CategoryPercentagesSumTo100(t *testing.T) {
	result, _ := runFullPipeline(t)
	var step2 Step2Artifact
	require.NoError(t, readArtifact(artifactPath(result.RunDir, 2), &step2))

	sum := 0.0
	for _, c := range step2.Categories {
		sum += c.Percentage
	}
	assert.InDelta(t, 100, sum, 0.1)
}

// P9: trust-debt unit sums equal the declared total exactly.
func TestP9_TrustDebtUnitSumsExact(t *testing.T) {
	result, cfg := runFullPipeline(t)
	var step2 Step2Artifact
	require.NoError(t, readArtifact(artifactPath(result.RunDir, 2), &step2))

	sum := 0
	for _, c := range step2.Categories {
		sum += c.TrustDebtUnits
	}
	assert.Equal(t, cfg.TotalTrustDebtUnits, sum)
}

// P10: identity vector sovereignty equals mean(categoryScores).
func TestP10_SovereigntyEqualsMeanCategoryScores(t *testing.T) {
	result, _ := runFullPipeline(t)
	var step4 Step4Artifact
	require.NoError(t, readArtifact(artifactPath(result.RunDir, 4), &step4))

	mean := models.MeanCategoryScore(step4.Identity.CategoryScores)
	assert.InDelta(t, mean, step4.Identity.SovereigntyScore, 1e-9)
}

// P11: ShortLex ordering holds along the step-3 matrix axes.
func TestP11_MatrixAxesShortLexOrdered(t *testing.T) {
	result, _ := runFullPipeline(t)
	var step3 Step3Artifact
	require.NoError(t, readArtifact(artifactPath(result.RunDir, 3), &step3))

	require.True(t, step3.ShortLexValid)
	for i := 1; i < len(step3.Axes); i++ {
		a, b := step3.Axes[i-1], step3.Axes[i]
		if len(a) != len(b) {
			assert.Less(t, len(a), len(b))
		} else {
			assert.LessOrEqual(t, a, b)
		}
	}
}

func TestRunPipeline_RejectsInvalidRange(t *testing.T) {
	dataDir := t.TempDir()
	cfg := DefaultConfig(dataDir)
	_, err := RunPipeline(context.Background(), dataDir, cfg, &Providers{Corpus: testCorpus()}, 5, 2)
	assert.Error(t, err)
}

func TestRunPipeline_MissingCorpusProviderSoftFails(t *testing.T) {
	dataDir := t.TempDir()
	cfg := DefaultConfig(dataDir)
	result, err := RunPipeline(context.Background(), dataDir, cfg, &Providers{}, 0, 0)
	require.NoError(t, err)
	require.Len(t, result.Summary.Steps, 1)
	assert.NotEmpty(t, result.Summary.Steps[0].Validations)
}

func TestNewRunID_Deterministic(t *testing.T) {
	now := time.Now()
	seed := map[string]string{"a": "b"}
	id1, err := NewRunID(now, seed)
	require.NoError(t, err)
	id2, err := NewRunID(now, seed)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
}

func TestFinalReportArtifacts_Written(t *testing.T) {
	result, _ := runFullPipeline(t)

	var report Step7Artifact
	require.NoError(t, readArtifact(artifactPath(result.RunDir, 7), &report))
	assert.False(t, math.IsNaN(report.Identity.SovereigntyScore))

	var audit AuditLog
	require.NoError(t, readArtifact(auditLogPath(result.RunDir), &audit))
	require.Len(t, audit.StepChecks, 7)
}
