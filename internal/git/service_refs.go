package git

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	gitbackend "github.com/thiagokokada/gitmeta/internal/git/backend"
)

// Branches lists local then remote branches. The local listing, the remote
// listing and the HEAD lookup run concurrently.
func (s *Service) Branches(ctx context.Context, repo string) ([]Branch, error) {
	var localOut, remoteOut, head string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := s.run(gctx, repo, "for-each-ref", "--format="+localBranchFormat, "refs/heads")
		localOut = out
		return err
	})
	g.Go(func() error {
		out, err := s.run(gctx, repo, "for-each-ref", "--format="+remoteBranchFormat, "refs/remotes")
		remoteOut = out
		return err
	})
	g.Go(func() error {
		name, err := s.headName(gctx, repo)
		head = name
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	local := parseBranches(localOut)
	for i := range local {
		local[i].IsHead = head != "" && local[i].Name == head
	}
	branches := append(local, parseBranches(remoteOut)...)
	slog.Debug("Branches done", slog.String("repo", repo), slog.Int("count", len(branches)), slog.String("head", head))
	return branches, nil
}

// CurrentBranch returns the checked out branch, or "HEAD" when detached.
func (s *Service) CurrentBranch(ctx context.Context, repo string) (string, error) {
	name, err := s.headName(ctx, repo)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "HEAD", nil
	}
	return name, nil
}

// headName returns the short symbolic name of HEAD, or "" when HEAD is detached.
func (s *Service) headName(ctx context.Context, repo string) (string, error) {
	out, err := s.runRaw(ctx, repo, "symbolic-ref", "-q", "--short", "HEAD")
	if err != nil {
		if gitbackend.AllowExit1(err) {
			return "", nil
		}
		return "", commandFailed(err)
	}
	return strings.TrimSpace(out), nil
}

// Tags lists tags, most recently created first.
func (s *Service) Tags(ctx context.Context, repo string) ([]Tag, error) {
	out, err := s.run(ctx, repo, "for-each-ref", "--sort=-creatordate", "--format="+tagFormat, "refs/tags")
	if err != nil {
		return nil, err
	}
	return parseTags(out), nil
}
