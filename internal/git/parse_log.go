package git

import (
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"
)

// commitLogFormat is the wire contract between Service.Commits and
// parseCommitLog. Records end with NUL because subjects and bodies may contain
// newlines; only the final field may contain '|'.
const commitLogFormat = "%H|%P|%an|%ae|%aI|%s|%B%x00"

const (
	commitFieldCount    = 7
	commitRequiredCount = 6
)

func parseCommitLog(out string) []Commit {
	var commits []Commit
	for rec := range strings.SplitSeq(out, "\x00") {
		// git separates records with a newline even when the format ends in NUL.
		rec = strings.Trim(rec, "\r\n")
		if strings.TrimSpace(rec) == "" {
			continue
		}
		commit, ok := parseCommitRecord(rec)
		if !ok {
			slog.Warn("skipping malformed git log record", slog.String("record", truncate(rec, 80)))
			continue
		}
		commits = append(commits, commit)
	}
	return commits
}

func parseCommitRecord(rec string) (Commit, bool) {
	fields := strings.SplitN(rec, "|", commitFieldCount)
	if len(fields) < commitRequiredCount {
		return Commit{}, false
	}
	sha := strings.TrimSpace(fields[0])
	if sha == "" {
		return Commit{}, false
	}
	subject := fields[5]
	body := ""
	if len(fields) == commitFieldCount {
		body = strings.TrimSpace(fields[6])
	}
	if body == "" {
		body = subject
	}
	return Commit{
		SHA:         sha,
		Message:     subject,
		FullMessage: body,
		AuthorName:  fields[2],
		AuthorEmail: fields[3],
		Date:        parseCommitDate(fields[4]),
		Parents:     strings.Fields(fields[1]),
	}, true
}

// parseCommitDate never fails: a bad timestamp degrades to the current time so
// one record cannot sink the batch.
func parseCommitDate(s string) time.Time {
	s = strings.TrimSpace(s)
	when, err := time.Parse(time.RFC3339, s)
	if err != nil {
		slog.Debug("unparsable commit date", slog.String("date", s), slog.Any("error", err))
		return time.Now()
	}
	return when
}

// encodeCommitLog renders commits in the commitLogFormat wire format.
func encodeCommitLog(commits []Commit) string {
	var b strings.Builder
	for i, c := range commits {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(c.SHA)
		b.WriteByte('|')
		b.WriteString(strings.Join(c.Parents, " "))
		b.WriteByte('|')
		b.WriteString(c.AuthorName)
		b.WriteByte('|')
		b.WriteString(c.AuthorEmail)
		b.WriteByte('|')
		b.WriteString(c.Date.Format(time.RFC3339))
		b.WriteByte('|')
		b.WriteString(c.Message)
		b.WriteByte('|')
		b.WriteString(c.FullMessage)
		b.WriteByte(0)
	}
	return b.String()
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
