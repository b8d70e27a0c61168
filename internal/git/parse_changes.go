package git

import (
	"log/slog"
	"strconv"
	"strings"
)

type lineStat struct {
	additions int
	deletions int
}

// parseChangedFiles merges "--name-status" and "--numstat" listings of the
// same change set. Paths missing from the numstat listing get zero counts.
func parseChangedFiles(nameStatus, numstat string) []ChangedFile {
	stats := parseNumstat(numstat)
	var files []ChangedFile
	for line := range nonEmptyLines(nameStatus) {
		file, ok := parseNameStatusLine(line)
		if !ok {
			slog.Warn("skipping malformed name-status line", slog.String("line", line))
			continue
		}
		if st, ok := stats[file.Path]; ok {
			file.Additions = st.additions
			file.Deletions = st.deletions
		}
		files = append(files, file)
	}
	return files
}

func parseNameStatusLine(line string) (ChangedFile, bool) {
	fields := strings.Split(line, "\t")
	if len(fields) < 2 {
		return ChangedFile{}, false
	}
	status, known := ParseChangeStatus(fields[0])
	if !known {
		slog.Debug("unknown change status, treating as modified", slog.String("status", fields[0]))
	}
	if status == StatusRenamed || status == StatusCopied {
		if len(fields) < 3 {
			return ChangedFile{}, false
		}
		return ChangedFile{Path: unquotePath(fields[2]), OldPath: unquotePath(fields[1]), Status: status}, true
	}
	return ChangedFile{Path: unquotePath(fields[1]), Status: status}, true
}

func parseNumstat(out string) map[string]lineStat {
	stats := map[string]lineStat{}
	for line := range nonEmptyLines(out) {
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) < 3 {
			slog.Warn("skipping malformed numstat line", slog.String("line", line))
			continue
		}
		stats[numstatPath(fields[2])] = lineStat{
			additions: numstatCount(fields[0]),
			deletions: numstatCount(fields[1]),
		}
	}
	return stats
}

// numstatCount maps the "-" git prints for binary files to zero.
func numstatCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// numstatPath returns the post-image path of a numstat entry. Renames are
// printed either as "old => new" or with the changed part in braces, as in
// "src/{old => new}/file.go". Quoted paths come back unquoted.
func numstatPath(p string) string {
	const arrow = " => "
	p = unquotePath(p)
	if !strings.Contains(p, arrow) {
		return p
	}
	open := strings.Index(p, "{")
	closing := strings.LastIndex(p, "}")
	if open >= 0 && closing > open && strings.Contains(p[open:closing], arrow) {
		inner := p[open+1 : closing]
		_, newPart, _ := strings.Cut(inner, arrow)
		prefix := p[:open]
		suffix := p[closing+1:]
		if newPart == "" {
			// "dir/{old => }/file" collapses the separator too.
			suffix = strings.TrimPrefix(suffix, "/")
		}
		return prefix + newPart + suffix
	}
	_, newPath, _ := strings.Cut(p, arrow)
	return unquotePath(newPath)
}
