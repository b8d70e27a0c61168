package git

import (
	"context"
	"fmt"
	"strings"
	"sync"

	gitbackend "github.com/thiagokokada/gitmeta/internal/git/backend"
)

type fakeResponse struct {
	out string
	err error
}

// fakeRunner answers git invocations from a table keyed by the space-joined
// argument list. It is safe for the concurrent sub-fetches the Service issues.
type fakeRunner struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	runFunc   func(dir string, args []string) (string, error)
	calls     []string
	dirs      []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{responses: map[string]fakeResponse{}}
}

func (f *fakeRunner) on(out string, args ...string) *fakeRunner {
	f.responses[strings.Join(args, " ")] = fakeResponse{out: out}
	return f
}

func (f *fakeRunner) fail(err error, args ...string) *fakeRunner {
	f.responses[strings.Join(args, " ")] = fakeResponse{err: err}
	return f
}

func (f *fakeRunner) Run(_ context.Context, dir string, args ...string) (string, error) {
	key := strings.Join(args, " ")
	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.dirs = append(f.dirs, dir)
	resp, ok := f.responses[key]
	runFunc := f.runFunc
	f.mu.Unlock()
	if ok {
		return resp.out, resp.err
	}
	if runFunc != nil {
		return runFunc(dir, args)
	}
	return "", fmt.Errorf("unexpected git call: %s", key)
}

func (f *fakeRunner) called(prefix string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

func exitErr(code int, stderr string, args ...string) error {
	return &gitbackend.CommandError{
		Args:     args,
		Stderr:   stderr,
		ExitCode: code,
		Err:      fmt.Errorf("exit status %d", code),
	}
}
