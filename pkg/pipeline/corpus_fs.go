package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// FSCorpusProvider is the default CorpusProvider: commits read via `git
// log` against a working tree, blogs/documents read from configured
// content roots, voice memos read from JSONL transcript files. Grounded on
// the corpus' git-log-based history scanners: shells out rather than
// linking a git library, tolerating a missing/non-repo root by returning
// an empty slice (step 0's soft-fail contract does the rest).
type FSCorpusProvider struct {
	RepoRoot         string
	BlogRoots        []string
	DocumentRoots    []string
	VoiceMemoDir     string
	CommitWindowDays int
}

// NewFSCorpusProvider builds a provider with a 30-day default commit
// window (§4.2 step 0 "default last 30 days").
func NewFSCorpusProvider(repoRoot string, blogRoots, documentRoots []string, voiceMemoDir string) *FSCorpusProvider {
	return &FSCorpusProvider{
		RepoRoot:         repoRoot,
		BlogRoots:        blogRoots,
		DocumentRoots:    documentRoots,
		VoiceMemoDir:     voiceMemoDir,
		CommitWindowDays: 30,
	}
}

const commitRecordSep = "\x1f" // unit separator, unlikely in commit text

// Commits shells out to `git log` with a machine-parseable format. Returns
// an empty slice (not an error) when root isn't a git repository — step 0
// records the skip reason and continues.
func (p *FSCorpusProvider) Commits(ctx context.Context, since time.Time) ([]CommitRecord, error) {
	if since.IsZero() {
		since = time.Now().AddDate(0, 0, -p.CommitWindowDays)
	}

	if _, err := os.Stat(filepath.Join(p.RepoRoot, ".git")); err != nil {
		return nil, fmt.Errorf("corpus: %s is not a git repository: %w", p.RepoRoot, err)
	}

	format := strings.Join([]string{"%H", "%aI", "%s", "%b"}, commitRecordSep)
	cmd := exec.CommandContext(ctx, "git", "log",
		"--since", since.Format(time.RFC3339),
		"--pretty=format:"+format+"\x1e", // record separator between commits
		"--name-only",
	)
	cmd.Dir = p.RepoRoot

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = nil
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("corpus: git log: %w", err)
	}

	return parseGitLog(stdout.String()), nil
}

func parseGitLog(output string) []CommitRecord {
	var commits []CommitRecord
	for _, record := range strings.Split(output, "\x1e") {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}
		lines := strings.SplitN(record, "\n", 2)
		header := strings.Split(lines[0], commitRecordSep)
		if len(header) < 3 {
			continue
		}

		date, _ := time.Parse(time.RFC3339, header[1])
		commit := CommitRecord{
			Hash:       header[0],
			AuthorDate: date,
			Subject:    header[2],
		}
		if len(header) > 3 {
			commit.Body = header[3]
		}
		if len(lines) > 1 {
			for _, f := range strings.Split(lines[1], "\n") {
				f = strings.TrimSpace(f)
				if f != "" {
					commit.ChangedFiles = append(commit.ChangedFiles, f)
				}
			}
		}
		commits = append(commits, commit)
	}
	return commits
}

// Blogs reads every markdown file under the configured blog roots.
func (p *FSCorpusProvider) Blogs(ctx context.Context) ([]RawTextRecord, error) {
	return readMarkdownRoots(p.BlogRoots)
}

// Documents reads every markdown file under the configured document roots.
func (p *FSCorpusProvider) Documents(ctx context.Context) ([]RawTextRecord, error) {
	return readMarkdownRoots(p.DocumentRoots)
}

func readMarkdownRoots(roots []string) ([]RawTextRecord, error) {
	var records []RawTextRecord
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil // fail soft per-file; step 0 aggregates skip reasons
			}
			if d.IsDir() || !strings.HasSuffix(strings.ToLower(path), ".md") {
				return nil
			}
			content, readErr := os.ReadFile(path)
			if readErr != nil {
				return nil
			}
			info, _ := d.Info()
			ts := time.Now()
			if info != nil {
				ts = info.ModTime()
			}
			records = append(records, RawTextRecord{
				SourcePath: path,
				Title:      filepath.Base(path),
				Content:    string(content),
				Timestamp:  ts,
			})
			return nil
		})
		if err != nil {
			return records, fmt.Errorf("corpus: walk %s: %w", root, err)
		}
	}
	return records, nil
}

// voiceMemoLine is one JSONL entry in a voice-memo transcript file.
type voiceMemoLine struct {
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// VoiceMemos reads every line of every *.jsonl file in VoiceMemoDir.
func (p *FSCorpusProvider) VoiceMemos(ctx context.Context) ([]RawTextRecord, error) {
	if p.VoiceMemoDir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(p.VoiceMemoDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("corpus: read voice memo dir: %w", err)
	}

	var records []RawTextRecord
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		path := filepath.Join(p.VoiceMemoDir, entry.Name())
		f, err := os.Open(path)
		if err != nil {
			continue
		}

		lineNum := 0
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			lineNum++
			raw := strings.TrimSpace(scanner.Text())
			if raw == "" {
				continue
			}
			var line voiceMemoLine
			if err := json.Unmarshal([]byte(raw), &line); err != nil {
				continue
			}
			records = append(records, RawTextRecord{
				SourcePath: fmt.Sprintf("%s:%d", path, lineNum),
				Title:      line.Title,
				Content:    line.Content,
				Timestamp:  line.Timestamp,
				Metadata:   line.Metadata,
			})
		}
		f.Close()
	}
	return records, nil
}
