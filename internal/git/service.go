package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	gitbackend "github.com/thiagokokada/gitmeta/internal/git/backend"
)

// DefaultLimit is the page size used when a caller asks for zero commits.
const DefaultLimit = 500

// Service is the read-only facade over the git executable. It keeps no state
// besides its runner, so one Service may be shared by concurrent callers; each
// call names the repository it works on.
type Service struct {
	backend gitbackend.Runner
}

func NewWithBackend(backend gitbackend.Runner) *Service {
	return &Service{backend: backend}
}

// Open returns a Service driving the git binary at gitPath ("git" when empty)
// after checking that it is recent enough.
func Open(ctx context.Context, gitPath string) (*Service, error) {
	cli := gitbackend.NewCLI(gitPath)
	if err := cli.CheckVersion(ctx); err != nil {
		return nil, fmt.Errorf("open git: %w", err)
	}
	return NewWithBackend(cli), nil
}

// runRaw returns runner errors untouched so callers can classify them.
func (s *Service) runRaw(ctx context.Context, repo string, args ...string) (string, error) {
	if s.backend == nil {
		return "", fmt.Errorf("git runner not set")
	}
	return s.backend.Run(ctx, repo, args...)
}

func (s *Service) run(ctx context.Context, repo string, args ...string) (string, error) {
	out, err := s.runRaw(ctx, repo, args...)
	if err != nil {
		return "", commandFailed(err)
	}
	return out, nil
}

// IsGitRepository reports whether path is inside a git repository. Any
// failure, including a missing directory, counts as "no".
func (s *Service) IsGitRepository(ctx context.Context, path string) bool {
	_, err := s.runRaw(ctx, path, "rev-parse", "--git-dir")
	if err != nil {
		slog.Debug("not a git repository", slog.String("path", path), slog.Any("error", err))
		return false
	}
	return true
}

// RepositoryRoot returns the top-level directory of the work tree containing path.
func (s *Service) RepositoryRoot(ctx context.Context, path string) (string, error) {
	out, err := s.runRaw(ctx, path, "rev-parse", "--show-toplevel")
	if err != nil {
		if gitbackend.StderrContains(err, "not a git repository", "must be run in a work tree") || errors.Is(err, gitbackend.ErrWorkDir) {
			return "", notARepository(path, err)
		}
		return "", commandFailed(err)
	}
	root := strings.TrimSpace(out)
	if root == "" {
		return "", parseError("git rev-parse returned empty root for %s", path)
	}
	return root, nil
}
