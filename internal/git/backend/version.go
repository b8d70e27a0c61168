package backend

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Minimum git version for the CLI runner. Keep this aligned with the flags used
// by the Service (for-each-ref %(if) atoms, "status --porcelain=v1",
// "rev-parse --show-toplevel").
var minGitVersion = gitVersion{major: 2, minor: 23, patch: 0}

type gitVersion struct {
	major int
	minor int
	patch int
}

func MinGitVersion() string {
	return minGitVersion.String()
}

func (v gitVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}

func (v gitVersion) less(other gitVersion) bool {
	if v.major != other.major {
		return v.major < other.major
	}
	if v.minor != other.minor {
		return v.minor < other.minor
	}
	return v.patch < other.patch
}

func parseGitVersionOutput(out string) (gitVersion, bool) {
	s := strings.TrimSpace(out)
	if s == "" {
		return gitVersion{}, false
	}
	// Common formats:
	// - "git version 2.44.0"
	// - "git version 2.39.3 (Apple Git-146)"
	// - "git version 2.39.3.windows.1"
	if idx := strings.Index(s, "git version"); idx >= 0 {
		s = strings.TrimSpace(s[idx+len("git version"):])
	}
	start := strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' })
	if start < 0 {
		return gitVersion{}, false
	}
	s = s[start:]
	end := strings.IndexFunc(s, func(r rune) bool { return (r < '0' || r > '9') && r != '.' })
	if end >= 0 {
		s = s[:end]
	}
	s = strings.Trim(s, ".")

	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return gitVersion{}, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return gitVersion{}, false
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return gitVersion{}, false
	}
	patch := 0
	if len(parts) >= 3 {
		if p, err := strconv.Atoi(parts[2]); err == nil {
			patch = p
		}
	}
	return gitVersion{major: major, minor: minor, patch: patch}, true
}

func validateGitVersion(got gitVersion) error {
	if got.less(minGitVersion) {
		return fmt.Errorf("git %s is too old; gitmeta requires git >= %s", got, minGitVersion)
	}
	return nil
}

type gitVersionInfo struct {
	out    string
	parsed gitVersion
	err    error
}

// versionInfo runs "git --version" once per CLI; later calls reuse the answer.
// A probe cut short by its context is not remembered.
func (c *CLI) versionInfo(ctx context.Context) gitVersionInfo {
	c.versionMu.Lock()
	defer c.versionMu.Unlock()
	if c.versionDone {
		return c.version
	}

	var info gitVersionInfo
	out, err := c.Run(ctx, ".", "--version")
	info.out = strings.TrimSpace(out)
	switch {
	case err != nil:
		info.err = fmt.Errorf("git --version: %w", err)
		if ctx.Err() != nil {
			return info
		}
	default:
		parsed, ok := parseGitVersionOutput(out)
		if !ok {
			info.err = fmt.Errorf("unable to parse git version output: %q", info.out)
		}
		info.parsed = parsed
	}
	c.version = info
	c.versionDone = true
	return info
}

// Version returns the raw "git --version" output.
func (c *CLI) Version(ctx context.Context) (string, error) {
	info := c.versionInfo(ctx)
	return info.out, info.err
}

// CheckVersion fails when the configured git binary is missing or older than MinGitVersion.
func (c *CLI) CheckVersion(ctx context.Context) error {
	info := c.versionInfo(ctx)
	if info.err != nil {
		return info.err
	}
	return validateGitVersion(info.parsed)
}
