package git

import (
	"context"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ChangedFiles lists the files touched by a commit with their line counts. The
// name-status and numstat listings are fetched concurrently and merged.
// Merge commits list nothing, as with "git diff-tree" without -m.
func (s *Service) ChangedFiles(ctx context.Context, repo, sha string) ([]ChangedFile, error) {
	sha = strings.TrimSpace(sha)
	if sha == "" || strings.HasPrefix(sha, "-") {
		return nil, invalidCommit(sha)
	}
	base := []string{"diff-tree", "--no-commit-id", "--no-color", "-r", "--root", "-M"}
	var nameStatus, numstat string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := s.run(gctx, repo, slices.Concat(base, []string{"--name-status", sha})...)
		nameStatus = out
		return err
	})
	g.Go(func() error {
		out, err := s.run(gctx, repo, slices.Concat(base, []string{"--numstat", sha})...)
		numstat = out
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return parseChangedFiles(nameStatus, numstat), nil
}

// Status lists working tree changes, untracked files included.
func (s *Service) Status(ctx context.Context, repo string) ([]ChangedFile, error) {
	out, err := s.run(ctx, repo, "status", "--porcelain=v1", "--untracked-files=all")
	if err != nil {
		return nil, err
	}
	return parseStatus(out), nil
}
