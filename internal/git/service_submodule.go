package git

import (
	"context"
	"log/slog"
)

// Submodules lists the submodules registered in the index. Repositories
// without submodules, and any failure to ask, yield an empty list. URL is left
// empty; see SubmoduleURLs.
func (s *Service) Submodules(ctx context.Context, repo string) []Submodule {
	out, err := s.runRaw(ctx, repo, "submodule", "status")
	if err != nil {
		slog.Debug("submodule status failed", slog.String("repo", repo), slog.Any("error", err))
		return nil
	}
	return parseSubmodules(out)
}

// SubmoduleURLs maps submodule paths to the URLs recorded in the committed
// .gitmodules file. A missing file yields an empty map.
func (s *Service) SubmoduleURLs(ctx context.Context, repo string) (map[string]string, error) {
	out, err := s.runRaw(ctx, repo, "show", "HEAD:.gitmodules")
	if err != nil {
		slog.Debug("no .gitmodules at HEAD", slog.String("repo", repo), slog.Any("error", err))
		return map[string]string{}, nil
	}
	urls, err := parseGitmodules([]byte(out))
	if err != nil {
		return nil, &Error{Kind: ErrParse, Subject: ".gitmodules", Err: err}
	}
	return urls, nil
}

// SubmodulesWithURLs is Submodules with URL filled from SubmoduleURLs where known.
func (s *Service) SubmodulesWithURLs(ctx context.Context, repo string) []Submodule {
	subs := s.Submodules(ctx, repo)
	if len(subs) == 0 {
		return subs
	}
	urls, err := s.SubmoduleURLs(ctx, repo)
	if err != nil {
		slog.Warn("unable to read submodule URLs", slog.Any("error", err))
		return subs
	}
	for i := range subs {
		subs[i].URL = urls[subs[i].Path]
	}
	return subs
}
