package git

import (
	"fmt"
	"strings"
	"time"
)

// EmptyTreeSHA is the object id of the empty tree; root commits are diffed against it.
const EmptyTreeSHA = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

type Commit struct {
	SHA         string    `json:"sha" yaml:"sha"`
	Message     string    `json:"message" yaml:"message"`           // subject line
	FullMessage string    `json:"full_message" yaml:"full_message"` // full message, falls back to Message
	AuthorName  string    `json:"author_name" yaml:"author_name"`
	AuthorEmail string    `json:"author_email" yaml:"author_email"`
	Date        time.Time `json:"date" yaml:"date"`
	Parents     []string  `json:"parents" yaml:"parents"`

	// ChangedFiles is never filled by the log parser; callers attach the result
	// of Service.ChangedFiles when they need it.
	ChangedFiles []ChangedFile `json:"changed_files,omitempty" yaml:"changed_files,omitempty"`
}

func (c Commit) IsMerge() bool {
	return len(c.Parents) > 1
}

func (c Commit) IsRoot() bool {
	return len(c.Parents) == 0
}

func (c Commit) ShortSHA() string {
	if len(c.SHA) > 7 {
		return c.SHA[:7]
	}
	return c.SHA
}

type Branch struct {
	Name       string `json:"name" yaml:"name"`
	IsHead     bool   `json:"is_head" yaml:"is_head"`
	IsRemote   bool   `json:"is_remote" yaml:"is_remote"`
	RemoteName string `json:"remote_name,omitempty" yaml:"remote_name,omitempty"` // remote branches only
	Upstream   string `json:"upstream,omitempty" yaml:"upstream,omitempty"`       // local branches with a tracking branch only
	CommitSHA  string `json:"commit_sha" yaml:"commit_sha"`
}

type Tag struct {
	Name      string  `json:"name" yaml:"name"`
	CommitSHA string  `json:"commit_sha" yaml:"commit_sha"`
	Message   *string `json:"message,omitempty" yaml:"message,omitempty"` // nil for lightweight tags
}

func (t Tag) IsAnnotated() bool {
	return t.Message != nil
}

type ChangeStatus uint8

const (
	StatusModified ChangeStatus = iota
	StatusAdded
	StatusDeleted
	StatusRenamed
	StatusCopied
	StatusUntracked
)

func (s ChangeStatus) String() string {
	switch s {
	case StatusAdded:
		return "added"
	case StatusDeleted:
		return "deleted"
	case StatusRenamed:
		return "renamed"
	case StatusCopied:
		return "copied"
	case StatusUntracked:
		return "untracked"
	default:
		return "modified"
	}
}

// Code returns the single letter git uses for s.
func (s ChangeStatus) Code() string {
	switch s {
	case StatusAdded:
		return "A"
	case StatusDeleted:
		return "D"
	case StatusRenamed:
		return "R"
	case StatusCopied:
		return "C"
	case StatusUntracked:
		return "?"
	default:
		return "M"
	}
}

func (s ChangeStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ChangeStatus) UnmarshalText(text []byte) error {
	for c := StatusModified; c <= StatusUntracked; c++ {
		if c.String() == string(text) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("unknown change status %q", text)
}

// ParseChangeStatus decodes a git status token such as "M", "R100" or "C075".
// Only the leading letter matters; the similarity score is dropped. Type
// changes and unmerged entries decode as modified. ok is false for tokens git
// does not document, and the returned status is then StatusModified.
func ParseChangeStatus(token string) (ChangeStatus, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return StatusModified, false
	}
	switch token[0] {
	case 'A':
		return StatusAdded, true
	case 'M', 'T', 'U':
		return StatusModified, true
	case 'D':
		return StatusDeleted, true
	case 'R':
		return StatusRenamed, true
	case 'C':
		return StatusCopied, true
	case '?':
		return StatusUntracked, true
	default:
		return StatusModified, false
	}
}

type ChangedFile struct {
	Path      string       `json:"path" yaml:"path"`
	Status    ChangeStatus `json:"status" yaml:"status"`
	Additions int          `json:"additions" yaml:"additions"`
	Deletions int          `json:"deletions" yaml:"deletions"`
	OldPath   string       `json:"old_path,omitempty" yaml:"old_path,omitempty"` // renamed/copied only
}

type DiffLineType uint8

const (
	LineContext DiffLineType = iota
	LineAddition
	LineDeletion
)

func (t DiffLineType) String() string {
	switch t {
	case LineAddition:
		return "addition"
	case LineDeletion:
		return "deletion"
	default:
		return "context"
	}
}

func (t DiffLineType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *DiffLineType) UnmarshalText(text []byte) error {
	for c := LineContext; c <= LineDeletion; c++ {
		if c.String() == string(text) {
			*t = c
			return nil
		}
	}
	return fmt.Errorf("unknown diff line type %q", text)
}

type DiffLine struct {
	Content string       `json:"content" yaml:"content"`
	Type    DiffLineType `json:"type" yaml:"type"`
}

type DiffHunk struct {
	OldStart int        `json:"old_start" yaml:"old_start"`
	OldCount int        `json:"old_count" yaml:"old_count"`
	NewStart int        `json:"new_start" yaml:"new_start"`
	NewCount int        `json:"new_count" yaml:"new_count"`
	Header   string     `json:"header,omitempty" yaml:"header,omitempty"` // text after the closing "@@", usually the enclosing function
	Lines    []DiffLine `json:"lines" yaml:"lines"`
}

func (h DiffHunk) Additions() int {
	return h.count(LineAddition)
}

func (h DiffHunk) Deletions() int {
	return h.count(LineDeletion)
}

func (h DiffHunk) count(typ DiffLineType) int {
	n := 0
	for _, line := range h.Lines {
		if line.Type == typ {
			n++
		}
	}
	return n
}

type DiffResult struct {
	FilePath string     `json:"file_path" yaml:"file_path"`
	OldPath  string     `json:"old_path,omitempty" yaml:"old_path,omitempty"` // set only when it differs from FilePath
	IsBinary bool       `json:"is_binary" yaml:"is_binary"`
	Hunks    []DiffHunk `json:"hunks" yaml:"hunks"`
}

func (d DiffResult) IsRename() bool {
	return d.OldPath != "" && d.OldPath != d.FilePath
}

func (d DiffResult) Additions() int {
	n := 0
	for _, h := range d.Hunks {
		n += h.Additions()
	}
	return n
}

func (d DiffResult) Deletions() int {
	n := 0
	for _, h := range d.Hunks {
		n += h.Deletions()
	}
	return n
}

// DiffStat totals a diff across files.
type DiffStat struct {
	Files     int `json:"files" yaml:"files"`
	Additions int `json:"additions" yaml:"additions"`
	Deletions int `json:"deletions" yaml:"deletions"`
}

func SummarizeDiff(results []DiffResult) DiffStat {
	stat := DiffStat{Files: len(results)}
	for _, r := range results {
		stat.Additions += r.Additions()
		stat.Deletions += r.Deletions()
	}
	return stat
}

type SubmoduleState uint8

const (
	SubmoduleInSync SubmoduleState = iota
	SubmoduleUninitialized
	SubmoduleOutOfSync
	SubmoduleConflict
)

func (s SubmoduleState) String() string {
	switch s {
	case SubmoduleUninitialized:
		return "uninitialized"
	case SubmoduleOutOfSync:
		return "out-of-sync"
	case SubmoduleConflict:
		return "conflict"
	default:
		return "in-sync"
	}
}

func (s SubmoduleState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SubmoduleState) UnmarshalText(text []byte) error {
	for c := SubmoduleInSync; c <= SubmoduleConflict; c++ {
		if c.String() == string(text) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("unknown submodule state %q", text)
}

type Submodule struct {
	Name      string         `json:"name" yaml:"name"`
	Path      string         `json:"path" yaml:"path"`
	URL       string         `json:"url,omitempty" yaml:"url,omitempty"` // not known to "git submodule status"; see Service.SubmoduleURLs
	CommitSHA string         `json:"commit_sha" yaml:"commit_sha"`
	State     SubmoduleState `json:"state" yaml:"state"`
}
