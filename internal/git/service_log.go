package git

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	gitbackend "github.com/thiagokokada/gitmeta/internal/git/backend"
)

// Commits returns up to limit commits reachable from HEAD, newest first,
// skipping the first offset.
func (s *Service) Commits(ctx context.Context, repo string, limit, offset int) ([]Commit, error) {
	return s.commits(ctx, repo, "", limit, offset)
}

// CommitsForFile is Commits restricted to the history of one path, following renames.
func (s *Service) CommitsForFile(ctx context.Context, repo, path string, limit, offset int) ([]Commit, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return s.commits(ctx, repo, "", limit, offset)
	}
	return s.commits(ctx, repo, path, limit, offset)
}

func (s *Service) commits(ctx context.Context, repo, path string, limit, offset int) ([]Commit, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	args := []string{
		"log",
		"--no-color",
		"--format=" + commitLogFormat,
		"--skip=" + strconv.Itoa(offset),
		"-n", strconv.Itoa(limit),
	}
	if path != "" {
		args = append(args, "--follow", "--", path)
	}
	slog.Debug("Commits start",
		slog.String("repo", repo),
		slog.String("path", path),
		slog.Int("limit", limit),
		slog.Int("offset", offset),
	)
	out, err := s.runRaw(ctx, repo, args...)
	if err != nil {
		// A repository without commits has nothing to list.
		if isUnbornHead(err) {
			return nil, nil
		}
		return nil, commandFailed(err)
	}
	commits := parseCommitLog(out)
	slog.Debug("Commits done", slog.String("repo", repo), slog.Int("returned", len(commits)))
	return commits, nil
}

// Commit looks up a single commit. An unknown or unreachable sha is a normal
// outcome while browsing history and yields nil without an error; any other
// failure is reported as ErrCommandFailed.
func (s *Service) Commit(ctx context.Context, repo, sha string) (*Commit, error) {
	sha = strings.TrimSpace(sha)
	if sha == "" || strings.HasPrefix(sha, "-") {
		return nil, nil
	}
	out, err := s.runRaw(ctx, repo, "log", "-1", "--no-color", "--format="+commitLogFormat, sha, "--")
	if err != nil {
		if isUnknownRevision(err) {
			slog.Debug("commit not found", slog.String("sha", sha), slog.Any("error", err))
			return nil, nil
		}
		return nil, commandFailed(err)
	}
	commits := parseCommitLog(out)
	if len(commits) == 0 {
		return nil, nil
	}
	return &commits[0], nil
}

func isUnbornHead(err error) bool {
	return gitbackend.StderrContains(err, "does not have any commits yet", "bad default revision 'HEAD'")
}

// isUnknownRevision reports whether git rejected a revision it could not resolve.
func isUnknownRevision(err error) bool {
	return gitbackend.StderrContains(err,
		"bad revision",
		"unknown revision",
		"ambiguous argument",
		"bad object",
		"invalid object name",
	)
}
