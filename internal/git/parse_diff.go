package git

import (
	"cmp"
	"regexp"
	"strconv"
	"strings"
)

var hunkHeaderRE = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@ ?(.*)$`)

type diffState uint8

const (
	stateNoFile diffState = iota
	stateInFile           // file header seen, awaiting a hunk
	stateInHunk
)

type diffFile struct {
	headerOld string // paths from the "diff --git" line, used when ---/+++ are absent
	headerNew string
	movedFrom string // "rename from" / "copy from"
	movedTo   string
	oldPath   string
	newPath   string
	oldNull   bool // "--- /dev/null": file added
	newNull   bool // "+++ /dev/null": file deleted
	binary    bool
	hunks     []DiffHunk
}

// diffParser is a line-oriented state machine over unified diff text. Each
// transition has its own method; parse only dispatches.
type diffParser struct {
	state   diffState
	file    *diffFile
	hunk    *DiffHunk
	oldLeft int // old-side lines still expected by the open hunk
	newLeft int
	results []DiffResult
}

func parseUnifiedDiff(out string) []DiffResult {
	p := &diffParser{}
	for line := range strings.SplitSeq(out, "\n") {
		p.feed(strings.TrimSuffix(line, "\r"))
	}
	p.finish()
	return p.results
}

func (p *diffParser) feed(line string) {
	if p.state == stateInHunk && p.hunkLine(line) {
		return
	}
	switch {
	case strings.HasPrefix(line, "diff --git "):
		p.startFile(line)
	case p.state == stateNoFile:
		// Preamble such as a commit header; nothing to do until a file starts.
	case strings.HasPrefix(line, "--- "):
		p.setOldPath(strings.TrimPrefix(line, "--- "))
	case strings.HasPrefix(line, "+++ "):
		p.setNewPath(strings.TrimPrefix(line, "+++ "))
	case strings.HasPrefix(line, "@@"):
		p.startHunk(line)
	case strings.HasPrefix(line, "Binary files ") || strings.HasPrefix(line, "GIT binary patch"):
		p.file.binary = true
	case p.state == stateInFile && strings.HasPrefix(line, "rename from "):
		p.file.movedFrom = unquotePath(strings.TrimPrefix(line, "rename from "))
	case p.state == stateInFile && strings.HasPrefix(line, "rename to "):
		p.file.movedTo = unquotePath(strings.TrimPrefix(line, "rename to "))
	case p.state == stateInFile && strings.HasPrefix(line, "copy from "):
		p.file.movedFrom = unquotePath(strings.TrimPrefix(line, "copy from "))
	case p.state == stateInFile && strings.HasPrefix(line, "copy to "):
		p.file.movedTo = unquotePath(strings.TrimPrefix(line, "copy to "))
	}
}

// startFile closes whatever is open and begins a new file record.
func (p *diffParser) startFile(line string) {
	p.flushFile()
	f := &diffFile{}
	f.headerOld, f.headerNew = splitDiffHeader(strings.TrimPrefix(line, "diff --git "))
	p.file = f
	p.state = stateInFile
}

func (p *diffParser) setOldPath(rest string) {
	p.flushHunk()
	rest = diffHeaderPath(rest)
	if rest == "/dev/null" {
		p.file.oldNull = true
		return
	}
	p.file.oldPath = normalizeDiffPath(rest)
}

func (p *diffParser) setNewPath(rest string) {
	p.flushHunk()
	rest = diffHeaderPath(rest)
	if rest == "/dev/null" {
		p.file.newNull = true
		return
	}
	p.file.newPath = normalizeDiffPath(rest)
}

func (p *diffParser) startHunk(line string) {
	p.flushHunk()
	m := hunkHeaderRE.FindStringSubmatch(line)
	if m == nil {
		// Unparsable header: ignore lines until the next recognizable one.
		p.state = stateInFile
		return
	}
	h := &DiffHunk{
		OldStart: atoiDefault(m[1], 0),
		OldCount: atoiDefault(m[2], 1),
		NewStart: atoiDefault(m[3], 0),
		NewCount: atoiDefault(m[4], 1),
		Header:   m[5],
	}
	p.hunk = h
	p.oldLeft = h.OldCount
	p.newLeft = h.NewCount
	p.state = stateInHunk
}

// hunkLine classifies a line inside an open hunk. It reports false for lines
// that are not hunk content so the caller can treat them as headers.
func (p *diffParser) hunkLine(line string) bool {
	if p.oldLeft <= 0 && p.newLeft <= 0 {
		// Declared counts consumed; "\ No newline" may still trail the hunk.
		if strings.HasPrefix(line, `\`) {
			return true
		}
		p.state = stateInFile
		return false
	}
	if line == "" {
		p.appendLine(DiffLine{Type: LineContext})
		return true
	}
	switch line[0] {
	case '+':
		p.appendLine(DiffLine{Type: LineAddition, Content: line[1:]})
	case '-':
		p.appendLine(DiffLine{Type: LineDeletion, Content: line[1:]})
	case ' ':
		p.appendLine(DiffLine{Type: LineContext, Content: line[1:]})
	case '\\':
		// "\ No newline at end of file"
	default:
		return false
	}
	return true
}

func (p *diffParser) appendLine(l DiffLine) {
	p.hunk.Lines = append(p.hunk.Lines, l)
	switch l.Type {
	case LineAddition:
		p.newLeft--
	case LineDeletion:
		p.oldLeft--
	default:
		p.oldLeft--
		p.newLeft--
	}
}

func (p *diffParser) flushHunk() {
	if p.hunk == nil {
		return
	}
	if len(p.hunk.Lines) > 0 && p.file != nil {
		p.file.hunks = append(p.file.hunks, *p.hunk)
	}
	p.hunk = nil
	p.oldLeft, p.newLeft = 0, 0
	if p.state == stateInHunk {
		p.state = stateInFile
	}
}

// flushFile emits the current file if a destination path could be resolved.
func (p *diffParser) flushFile() {
	p.flushHunk()
	f := p.file
	p.file = nil
	p.state = stateNoFile
	if f == nil {
		return
	}
	oldPath, newPath := f.oldPath, f.newPath
	if oldPath == "" && !f.oldNull {
		oldPath = cmp.Or(f.movedFrom, f.headerOld)
	}
	if newPath == "" && !f.newNull {
		newPath = cmp.Or(f.movedTo, f.headerNew)
	}
	if f.newNull {
		// Deleted files are reported under the path they had.
		newPath = oldPath
	}
	if newPath == "" {
		return
	}
	res := DiffResult{FilePath: newPath, IsBinary: f.binary, Hunks: f.hunks}
	if oldPath != "" && oldPath != newPath {
		res.OldPath = oldPath
	}
	p.results = append(p.results, res)
}

func (p *diffParser) finish() {
	p.flushFile()
}

// diffHeaderPath strips the trailing tab git adds after paths with spaces and
// undoes C-style quoting.
func diffHeaderPath(s string) string {
	if i := strings.IndexByte(s, '\t'); i >= 0 {
		s = s[:i]
	}
	return unquotePath(s)
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// splitDiffHeader extracts both paths from the rest of a "diff --git" line.
// Unquoted paths may contain spaces, so "a/<X> b/<Y>" is split at the " b/"
// that leaves two equal halves; when the sides differ (a rename) the first
// " b/" wins and the rename lines correct it later.
func splitDiffHeader(s string) (string, string) {
	if strings.HasPrefix(s, "a/") {
		if n := (len(s) - 5) / 2; n > 0 && len(s) == 2*n+5 && s[2+n:5+n] == " b/" && s[2:2+n] == s[5+n:] {
			return s[2 : 2+n], s[5+n:]
		}
		if i := strings.Index(s, " b/"); i >= 0 {
			return s[2:i], s[i+3:]
		}
	}
	tokens := diffLineTokens(s)
	if len(tokens) < 2 {
		return "", ""
	}
	return normalizeDiffPath(tokens[0]), normalizeDiffPath(tokens[1])
}

func diffLineTokens(s string) []string {
	var tokens []string
	for {
		s = strings.TrimLeft(s, " \t")
		if s == "" {
			break
		}
		if s[0] == '"' {
			// Find the closing quote, skipping escaped characters.
			i := 1
			for i < len(s) && s[i] != '"' {
				if s[i] == '\\' {
					i++
				}
				i++
			}
			i = min(i+1, len(s))
			tokens = append(tokens, unquotePath(s[:i]))
			s = s[i:]
			continue
		}
		j := strings.IndexAny(s, " \t")
		if j < 0 {
			j = len(s)
		}
		tokens = append(tokens, s[:j])
		s = s[j:]
	}
	return tokens
}

func normalizeDiffPath(token string) string {
	if strings.HasPrefix(token, "a/") || strings.HasPrefix(token, "b/") {
		return token[2:]
	}
	return token
}
