package backend

import "context"

// Runner executes git with an argument vector inside a working directory.
//
// The default implementation shells out to the git executable. Tests swap in a
// fake that returns canned output so parsers and the Service can be exercised
// without a repository on disk.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// RunnerFunc adapts a plain function to the Runner interface.
type RunnerFunc func(ctx context.Context, dir string, args ...string) (string, error)

func (f RunnerFunc) Run(ctx context.Context, dir string, args ...string) (string, error) {
	return f(ctx, dir, args...)
}
