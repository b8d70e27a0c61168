package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

const DefaultGitPath = "git"

// ErrWorkDir reports that the working directory given to Run is unusable.
var ErrWorkDir = errors.New("working directory unavailable")

// CLI runs the git executable. Each call spawns one short-lived child process.
type CLI struct {
	gitPath string

	versionMu   sync.Mutex
	versionDone bool
	version     gitVersionInfo
}

func NewCLI(gitPath string) *CLI {
	gitPath = strings.TrimSpace(gitPath)
	if gitPath == "" {
		gitPath = DefaultGitPath
	}
	return &CLI{gitPath: gitPath}
}

func (c *CLI) GitPath() string {
	return c.gitPath
}

// CommandError reports a git invocation that could not start or exited non-zero.
type CommandError struct {
	Args     []string
	Stderr   string
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	cmdline := "git " + strings.Join(e.Args, " ")
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %s", cmdline, e.Stderr)
	}
	return fmt.Sprintf("%s: %v", cmdline, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// AllowExit1 reports whether err is a plain exit status 1 with nothing on
// stderr, which several plumbing commands (symbolic-ref -q, rev-parse -q) use to
// say "no answer" rather than "failure".
func AllowExit1(err error) bool {
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	return cmdErr.ExitCode == 1 && cmdErr.Stderr == ""
}

// StderrContains reports whether err came from git and its stderr mentions any of substrs.
func StderrContains(err error, substrs ...string) bool {
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	stderr := strings.ToLower(cmdErr.Stderr)
	for _, s := range substrs {
		if strings.Contains(stderr, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

func (c *CLI) Run(ctx context.Context, dir string, args ...string) (string, error) {
	if dir == "" {
		return "", &CommandError{Args: args, ExitCode: -1, Err: fmt.Errorf("%w: not set", ErrWorkDir)}
	}
	if info, err := os.Stat(dir); err != nil {
		return "", &CommandError{Args: args, ExitCode: -1, Err: fmt.Errorf("%w: %w", ErrWorkDir, err)}
	} else if !info.IsDir() {
		return "", &CommandError{Args: args, ExitCode: -1, Err: fmt.Errorf("%w: %s is not a directory", ErrWorkDir, dir)}
	}

	cmd := exec.CommandContext(ctx, c.gitPath, args...)
	cmd.Dir = dir
	// Keep output stable regardless of the user's pager or locale settings.
	cmd.Env = append(os.Environ(), "GIT_PAGER=cat", "LC_ALL=C", "GIT_OPTIONAL_LOCKS=0")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	slog.Debug("git command",
		slog.String("dir", dir),
		slog.String("args", strings.Join(args, " ")),
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("stdout_bytes", stdout.Len()),
	)
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return "", &CommandError{
			Args:     args,
			Stderr:   strings.TrimSpace(stderr.String()),
			ExitCode: exitCode,
			Err:      err,
		}
	}
	return strings.ToValidUTF8(stdout.String(), "�"), nil
}
