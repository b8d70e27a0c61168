package git

import (
	"context"
	"log/slog"
	"strings"

	gitbackend "github.com/thiagokokada/gitmeta/internal/git/backend"
)

// Diff returns the per-file diff between a commit and one of its parents.
// Root commits are compared with the empty tree; a parentIndex outside the
// parent list falls back to the first parent.
func (s *Service) Diff(ctx context.Context, repo, sha string, parentIndex int) ([]DiffResult, error) {
	text, err := s.DiffText(ctx, repo, sha, parentIndex)
	if err != nil {
		return nil, err
	}
	return parseUnifiedDiff(text), nil
}

// DiffText is Diff without parsing: the raw unified diff text.
func (s *Service) DiffText(ctx context.Context, repo, sha string, parentIndex int) (string, error) {
	commit, err := s.Commit(ctx, repo, sha)
	if err != nil {
		return "", err
	}
	if commit == nil {
		return "", invalidCommit(sha)
	}
	base := diffBase(*commit, parentIndex)
	slog.Debug("Diff", slog.String("sha", commit.SHA), slog.String("base", base), slog.Int("parent_index", parentIndex))
	return s.run(ctx, repo,
		"diff",
		"--no-color",
		"--no-ext-diff",
		"-M",
		"--src-prefix=a/",
		"--dst-prefix=b/",
		base,
		commit.SHA,
	)
}

func diffBase(c Commit, parentIndex int) string {
	if len(c.Parents) == 0 {
		return EmptyTreeSHA
	}
	if parentIndex < 0 || parentIndex >= len(c.Parents) {
		return c.Parents[0]
	}
	return c.Parents[parentIndex]
}

// DiffSummary totals the diff returned by Diff.
func (s *Service) DiffSummary(ctx context.Context, repo, sha string, parentIndex int) (DiffStat, error) {
	results, err := s.Diff(ctx, repo, sha, parentIndex)
	if err != nil {
		return DiffStat{}, err
	}
	return SummarizeDiff(results), nil
}

// FileContent returns a file as stored in the given commit.
func (s *Service) FileContent(ctx context.Context, repo, path, sha string) (string, error) {
	path = strings.TrimSpace(path)
	sha = strings.TrimSpace(sha)
	if sha == "" || strings.HasPrefix(sha, "-") {
		return "", invalidCommit(sha)
	}
	if path == "" {
		return "", fileNotFound(path, nil)
	}
	out, err := s.runRaw(ctx, repo, "show", "--no-color", sha+":"+path)
	if err != nil {
		if gitbackend.StderrContains(err, "does not exist", "exists on disk, but not in") {
			return "", fileNotFound(path, err)
		}
		if isUnknownRevision(err) {
			return "", &Error{Kind: ErrInvalidCommit, Subject: sha, Err: err}
		}
		return "", commandFailed(err)
	}
	return out, nil
}
