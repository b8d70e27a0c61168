package backend

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git executable not available")
	}
}

func TestCommandErrorMessage(t *testing.T) {
	t.Parallel()

	withStderr := &CommandError{
		Args:     []string{"show", "deadbeef:missing.txt"},
		Stderr:   "fatal: path 'missing.txt' does not exist in 'deadbeef'",
		ExitCode: 128,
		Err:      errors.New("exit status 128"),
	}
	want := "git show deadbeef:missing.txt: fatal: path 'missing.txt' does not exist in 'deadbeef'"
	if got := withStderr.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}

	cause := errors.New("executable file not found")
	noStderr := &CommandError{Args: []string{"status"}, ExitCode: -1, Err: cause}
	if got := noStderr.Error(); got != "git status: executable file not found" {
		t.Fatalf("Error() = %q", got)
	}
	if !errors.Is(noStderr, cause) {
		t.Fatal("expected CommandError to unwrap to its cause")
	}
}

func TestAllowExit1(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain_error", err: errors.New("boom"), want: false},
		{name: "exit1_quiet", err: &CommandError{ExitCode: 1}, want: true},
		{name: "exit1_stderr", err: &CommandError{ExitCode: 1, Stderr: "fatal: bad"}, want: false},
		{name: "exit128", err: &CommandError{ExitCode: 128}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := AllowExit1(tt.err); got != tt.want {
				t.Fatalf("AllowExit1() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStderrContains(t *testing.T) {
	t.Parallel()

	err := &CommandError{Stderr: "fatal: Not a git repository (or any of the parent directories): .git"}
	if !StderrContains(err, "not a git repository") {
		t.Fatal("expected case-insensitive match")
	}
	if StderrContains(err, "does not exist") {
		t.Fatal("unexpected match")
	}
	if StderrContains(errors.New("not a git repository"), "not a git repository") {
		t.Fatal("plain errors carry no stderr")
	}
}

func TestNewCLIDefaultsGitPath(t *testing.T) {
	t.Parallel()

	if got := NewCLI("  ").GitPath(); got != DefaultGitPath {
		t.Fatalf("GitPath() = %q, want %q", got, DefaultGitPath)
	}
	if got := NewCLI("/usr/local/bin/git").GitPath(); got != "/usr/local/bin/git" {
		t.Fatalf("GitPath() = %q", got)
	}
}

func TestCLIRun_MissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := NewCLI("").Run(context.Background(), filepath.Join(t.TempDir(), "nope"), "status")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected CommandError, got %v", err)
	}
	if cmdErr.ExitCode != -1 {
		t.Fatalf("ExitCode = %d, want -1", cmdErr.ExitCode)
	}
	if !errors.Is(err, ErrWorkDir) {
		t.Fatalf("expected ErrWorkDir, got %v", err)
	}
}

func TestCLIRun_Version(t *testing.T) {
	requireGit(t)
	t.Parallel()

	cli := NewCLI("")
	out, err := cli.Version(context.Background())
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if !strings.HasPrefix(out, "git version") {
		t.Fatalf("unexpected version output %q", out)
	}
	if err := cli.CheckVersion(context.Background()); err != nil {
		t.Fatalf("CheckVersion: %v", err)
	}
}

func TestCLIVersion_CancelledProbeIsRetried(t *testing.T) {
	requireGit(t)
	t.Parallel()

	cli := NewCLI("")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := cli.CheckVersion(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("CheckVersion with cancelled context = %v, want context.Canceled", err)
	}
	if err := cli.CheckVersion(context.Background()); err != nil {
		t.Fatalf("CheckVersion after cancellation: %v", err)
	}
}

func TestCLIRun_NonZeroExitCarriesStderr(t *testing.T) {
	requireGit(t)

	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	_, err := NewCLI("").Run(context.Background(), dir, "rev-parse", "--show-toplevel")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected CommandError, got %v", err)
	}
	if cmdErr.ExitCode == 0 {
		t.Fatal("expected non-zero exit code")
	}
	if !StderrContains(err, "not a git repository") {
		t.Fatalf("stderr = %q", cmdErr.Stderr)
	}
	if !strings.Contains(err.Error(), "git rev-parse --show-toplevel") {
		t.Fatalf("error should embed the argument list: %v", err)
	}
}

func TestCLIRun_MissingBinary(t *testing.T) {
	t.Parallel()

	_, err := NewCLI(filepath.Join(t.TempDir(), "no-such-git")).Run(context.Background(), t.TempDir(), "status")
	if err == nil {
		t.Fatal("expected error")
	}
	if AllowExit1(err) {
		t.Fatal("missing binary must not look like exit 1")
	}
}

func TestRunnerFunc(t *testing.T) {
	t.Parallel()

	var gotDir string
	var gotArgs []string
	r := RunnerFunc(func(_ context.Context, dir string, args ...string) (string, error) {
		gotDir, gotArgs = dir, args
		return "ok", nil
	})
	out, err := r.Run(context.Background(), "/repo", "log", "-1")
	if err != nil || out != "ok" {
		t.Fatalf("Run() = %q, %v", out, err)
	}
	if gotDir != "/repo" || strings.Join(gotArgs, " ") != "log -1" {
		t.Fatalf("unexpected call dir=%q args=%v", gotDir, gotArgs)
	}
}
