package pipeline

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = root
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		require.NoError(t, cmd.Run(), "git %v", args)
	}

	run("init", "-q")
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0o644))
	run("add", "a.txt")
	run("commit", "-q", "-m", "first commit")
	return root
}

func TestFSCorpusProvider_Commits(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	root := initTestRepo(t)
	p := NewFSCorpusProvider(root, nil, nil, "")

	commits, err := p.Commits(context.Background(), time.Now().AddDate(0, 0, -1))
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, "first commit", commits[0].Subject)
	assert.Contains(t, commits[0].ChangedFiles, "a.txt")
}

func TestFSCorpusProvider_Commits_NotAGitRepo(t *testing.T) {
	p := NewFSCorpusProvider(t.TempDir(), nil, nil, "")
	_, err := p.Commits(context.Background(), time.Time{})
	assert.Error(t, err)
}

func TestFSCorpusProvider_Blogs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "post.md"), []byte("# hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "ignore.txt"), []byte("nope"), 0o644))

	p := NewFSCorpusProvider("", []string{root}, nil, "")
	blogs, err := p.Blogs(context.Background())
	require.NoError(t, err)
	require.Len(t, blogs, 1)
	assert.Equal(t, "post.md", blogs[0].Title)
}

func TestFSCorpusProvider_VoiceMemos(t *testing.T) {
	root := t.TempDir()
	content := `{"title":"memo1","content":"first","timestamp":"2026-01-01T00:00:00Z"}
{"title":"memo2","content":"second","timestamp":"2026-01-02T00:00:00Z"}
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "t.jsonl"), []byte(content), 0o644))

	p := NewFSCorpusProvider("", nil, nil, root)
	memos, err := p.VoiceMemos(context.Background())
	require.NoError(t, err)
	require.Len(t, memos, 2)
	assert.Equal(t, "memo1", memos[0].Title)
	assert.Equal(t, "memo2", memos[1].Title)
}

func TestFSCorpusProvider_VoiceMemos_MissingDirIsEmpty(t *testing.T) {
	p := NewFSCorpusProvider("", nil, nil, filepath.Join(t.TempDir(), "missing"))
	memos, err := p.VoiceMemos(context.Background())
	require.NoError(t, err)
	assert.Empty(t, memos)
}
