package git

import (
	"slices"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"pgregory.net/rapid"
)

func TestParseCommitLog_BodyWithPipes(t *testing.T) {
	t.Parallel()

	in := "abc123||John|john@test.com|2024-01-15T10:00:00+00:00|Fix special chars|Body with | and : and more | chars\x00"
	got := parseCommitLog(in)
	if len(got) != 1 {
		t.Fatalf("expected 1 commit, got %d: %+v", len(got), got)
	}
	c := got[0]
	if c.FullMessage != "Body with | and : and more | chars" {
		t.Fatalf("FullMessage = %q", c.FullMessage)
	}
	if c.SHA != "abc123" || c.Message != "Fix special chars" {
		t.Fatalf("unexpected commit: %+v", c)
	}
	if c.AuthorName != "John" || c.AuthorEmail != "john@test.com" {
		t.Fatalf("unexpected author: %q <%q>", c.AuthorName, c.AuthorEmail)
	}
	if !c.Date.Equal(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("Date = %v", c.Date)
	}
	if len(c.Parents) != 0 || c.IsMerge() || !c.IsRoot() {
		t.Fatalf("expected root commit, parents=%v", c.Parents)
	}
	if len(c.ChangedFiles) != 0 {
		t.Fatalf("parser must not populate ChangedFiles")
	}
}

func TestParseCommitLog_SkipsMalformedRecord(t *testing.T) {
	t.Parallel()

	in := strings.Join([]string{
		"c3|c2|Ann|ann@example.com|2024-03-01T09:00:00Z|third|third body",
		"c2|c1|Ann|ann@example.com",
		"c1||Ann|ann@example.com|2024-01-01T09:00:00Z|first|",
	}, "\x00\n") + "\x00"

	got := parseCommitLog(in)
	if len(got) != 2 {
		t.Fatalf("expected 2 commits, got %d: %+v", len(got), got)
	}
	if got[0].SHA != "c3" || got[1].SHA != "c1" {
		t.Fatalf("unexpected order: %s, %s", got[0].SHA, got[1].SHA)
	}
	if got[1].FullMessage != "first" {
		t.Fatalf("empty body should fall back to subject, got %q", got[1].FullMessage)
	}
}

func TestParseCommitLog_SixFieldsIsEnough(t *testing.T) {
	t.Parallel()

	got := parseCommitLog("abc|p1 p2|Ann|a@b.c|2024-01-01T00:00:00Z|Merge branch 'x'\x00")
	if len(got) != 1 {
		t.Fatalf("expected 1 commit, got %d", len(got))
	}
	if got[0].FullMessage != "Merge branch 'x'" {
		t.Fatalf("FullMessage = %q", got[0].FullMessage)
	}
	if !slices.Equal(got[0].Parents, []string{"p1", "p2"}) || !got[0].IsMerge() {
		t.Fatalf("Parents = %v", got[0].Parents)
	}
}

func TestParseCommitLog_BadDateFallsBackToNow(t *testing.T) {
	t.Parallel()

	before := time.Now()
	got := parseCommitLog("abc||Ann|a@b.c|yesterday-ish|subject|body\x00")
	if len(got) != 1 {
		t.Fatalf("expected 1 commit, got %d", len(got))
	}
	if got[0].Date.Before(before) {
		t.Fatalf("expected a date no older than the call, got %v", got[0].Date)
	}
}

func TestParseCommitLog_EmptyInput(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "   ", "\n\n", "\x00\n\x00", " \t\r\n"} {
		if got := parseCommitLog(in); len(got) != 0 {
			t.Fatalf("parseCommitLog(%q) = %+v, want empty", in, got)
		}
	}
}

func TestParseCommitLog_MultilineBody(t *testing.T) {
	t.Parallel()

	in := "aaa|bbb|Ann|a@b.c|2024-01-01T00:00:00+02:00|Subject|Subject\n\nParagraph one.\nParagraph two.\n\x00\n" +
		"bbb||Ann|a@b.c|2023-12-31T00:00:00+02:00|Root|Root\n\x00\n"
	got := parseCommitLog(in)
	if len(got) != 2 {
		t.Fatalf("expected 2 commits, got %d", len(got))
	}
	if got[0].FullMessage != "Subject\n\nParagraph one.\nParagraph two." {
		t.Fatalf("FullMessage = %q", got[0].FullMessage)
	}
	_, offset := got[0].Date.Zone()
	if offset != 2*60*60 {
		t.Fatalf("expected +02:00 offset to be kept, got %d", offset)
	}
}

func TestCommitAccessors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		parents []string
		merge   bool
		root    bool
	}{
		{parents: []string{"p1", "p2"}, merge: true},
		{parents: []string{"p1"}, merge: false},
		{parents: nil, merge: false, root: true},
		{parents: []string{}, merge: false, root: true},
	}
	for _, tt := range tests {
		c := Commit{SHA: "1234567890", Parents: tt.parents}
		if c.IsMerge() != tt.merge {
			t.Fatalf("IsMerge(%v) = %v, want %v", tt.parents, c.IsMerge(), tt.merge)
		}
		if c.IsRoot() != tt.root {
			t.Fatalf("IsRoot(%v) = %v, want %v", tt.parents, c.IsRoot(), tt.root)
		}
	}
	if got := (Commit{SHA: "1234567890"}).ShortSHA(); got != "1234567" {
		t.Fatalf("ShortSHA = %q", got)
	}
	if got := (Commit{SHA: "abc"}).ShortSHA(); got != "abc" {
		t.Fatalf("ShortSHA = %q", got)
	}
}

func TestCommitLogRoundTrip(t *testing.T) {
	t.Parallel()

	shaGen := rapid.StringMatching(`[0-9a-f]{40}`)
	rapid.Check(t, func(t *rapid.T) {
		shas := rapid.SliceOfNDistinct(shaGen, 1, 8, func(s string) string { return s }).Draw(t, "shas")
		commits := make([]Commit, len(shas))
		for i, sha := range shas {
			offset := rapid.IntRange(-12, 14).Draw(t, "offset") * 60 * 60
			when := time.Unix(rapid.Int64Range(0, 4_000_000_000).Draw(t, "unix"), 0).In(time.FixedZone("", offset))
			subject := rapid.StringMatching(`[A-Za-z0-9][A-Za-z0-9 .,:'()-]{0,40}`).Draw(t, "subject")
			body := rapid.StringMatching(`[A-Za-z0-9][A-Za-z0-9 |.:\n]{0,80}[A-Za-z0-9.]`).Draw(t, "body")
			commits[i] = Commit{
				SHA:         sha,
				Parents:     rapid.SliceOfN(shaGen, 0, 3).Draw(t, "parents"),
				AuthorName:  rapid.StringMatching(`[A-Z][a-z]{1,10}( [A-Z][a-z]{1,10})?`).Draw(t, "name"),
				AuthorEmail: rapid.StringMatching(`[a-z]{1,8}@[a-z]{1,8}\.(com|org)`).Draw(t, "email"),
				Date:        when,
				Message:     subject,
				FullMessage: body,
			}
		}

		got := parseCommitLog(encodeCommitLog(commits))
		if len(got) != len(commits) {
			t.Fatalf("got %d commits, want %d", len(got), len(commits))
		}
		for i := range commits {
			want, have := commits[i], got[i]
			if have.SHA != want.SHA || have.Message != want.Message || have.FullMessage != want.FullMessage {
				t.Fatalf("commit %d: got %+v, want %+v", i, have, want)
			}
			if have.AuthorName != want.AuthorName || have.AuthorEmail != want.AuthorEmail {
				t.Fatalf("commit %d author: got %q <%s>, want %q <%s>", i, have.AuthorName, have.AuthorEmail, want.AuthorName, want.AuthorEmail)
			}
			if !have.Date.Equal(want.Date) {
				t.Fatalf("commit %d date: got %v, want %v", i, have.Date, want.Date)
			}
			if !slices.Equal(have.Parents, want.Parents) {
				t.Fatalf("commit %d parents: got %v, want %v", i, have.Parents, want.Parents)
			}
			if have.IsMerge() != (len(want.Parents) > 1) {
				t.Fatalf("commit %d merge detection mismatch", i)
			}
		}
	})
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"abcdef", 3, "abc..."},
		{"aéb", 2, "a..."}, // "é" is two bytes
		{"aébc", 3, "aé..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
	if got := truncate(strings.Repeat("日本", 40), 80); !utf8.ValidString(got) {
		t.Fatalf("truncate produced invalid UTF-8: %q", got)
	}
}
