package git

import (
	"iter"
	"log/slog"
	"strconv"
	"strings"
)

// Porcelain v1 lines are "XY <path>"; the path starts at a fixed column.
const (
	statusPathColumn = 3
	statusMinWidth   = statusPathColumn + 1
)

func parseStatus(out string) []ChangedFile {
	var files []ChangedFile
	for line := range nonEmptyLines(out) {
		if len(line) < statusMinWidth {
			slog.Warn("skipping short status line", slog.String("line", line))
			continue
		}
		// Only the worktree column (Y) is surfaced; the index column is ignored.
		code := line[1]
		status := StatusModified
		if code != ' ' {
			status, _ = ParseChangeStatus(string(code))
		}
		path := line[statusPathColumn:]
		file := ChangedFile{Status: status}
		if oldPath, newPath, ok := strings.Cut(path, " -> "); ok && (line[0] == 'R' || line[0] == 'C') {
			file.Path = unquotePath(newPath)
			// A staged rename shows up here with a clean worktree column.
			if code == ' ' {
				file.Status, _ = ParseChangeStatus(line[:1])
			}
			if file.Status == StatusRenamed || file.Status == StatusCopied {
				file.OldPath = unquotePath(oldPath)
			}
		} else {
			file.Path = unquotePath(path)
		}
		files = append(files, file)
	}
	return files
}

// unquotePath undoes the C-style quoting git applies to unusual path names.
func unquotePath(p string) string {
	if len(p) < 2 || p[0] != '"' || p[len(p)-1] != '"' {
		return p
	}
	if unquoted, err := strconv.Unquote(p); err == nil {
		return unquoted
	}
	return p
}

// nonEmptyLines yields the lines of out without trailing carriage returns,
// skipping blank ones.
func nonEmptyLines(out string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for line := range strings.SplitSeq(out, "\n") {
			line = strings.TrimRight(line, "\r")
			if strings.TrimSpace(line) == "" {
				continue
			}
			if !yield(line) {
				return
			}
		}
	}
}
