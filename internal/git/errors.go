package git

import (
	"errors"
	"fmt"
)

// Error kinds returned by the Service. Match them with errors.Is.
var (
	ErrNotARepository = errors.New("not a git repository")
	ErrInvalidCommit  = errors.New("invalid commit")
	ErrFileNotFound   = errors.New("file not found")
	ErrCommandFailed  = errors.New("git command failed")
	ErrParse          = errors.New("unable to parse git output")
)

// Error carries one of the kinds above plus the path, sha or message it is
// about. Err holds the underlying failure when there is one.
type Error struct {
	Kind    error
	Subject string
	Err     error
}

func (e *Error) Error() string {
	if e.Subject == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Subject)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func notARepository(path string, cause error) error {
	return &Error{Kind: ErrNotARepository, Subject: path, Err: cause}
}

func invalidCommit(sha string) error {
	return &Error{Kind: ErrInvalidCommit, Subject: sha}
}

func fileNotFound(path string, cause error) error {
	return &Error{Kind: ErrFileNotFound, Subject: path, Err: cause}
}

// commandFailed wraps a runner failure; the runner's message already embeds
// the argument list and stderr.
func commandFailed(err error) error {
	return &Error{Kind: ErrCommandFailed, Subject: err.Error(), Err: err}
}

func parseError(format string, args ...any) error {
	return &Error{Kind: ErrParse, Subject: fmt.Sprintf(format, args...)}
}
