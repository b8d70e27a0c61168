package git

import "strings"

// CommitGraph renders one lane line per commit ("*" marks the commit, "|" the
// other open lanes). commits must be in log order, newest first. maxColumns
// caps the number of lanes drawn; zero means unlimited.
func CommitGraph(commits []Commit, maxColumns int) []string {
	builder := newGraphBuilder(maxColumns)
	lines := make([]string, len(commits))
	for i, c := range commits {
		lines[i] = builder.Line(c)
	}
	return lines
}

type graphBuilder struct {
	columns    []string
	maxColumns int
}

func newGraphBuilder(maxColumns int) *graphBuilder {
	return &graphBuilder{maxColumns: maxColumns}
}

func (g *graphBuilder) Line(c Commit) string {
	idx := g.columnIndex(c.SHA)
	if idx == -1 {
		g.columns = append([]string{c.SHA}, g.columns...)
		idx = 0
	}
	var b strings.Builder
	drawn := len(g.columns)
	if g.maxColumns > 0 && drawn > g.maxColumns {
		drawn = g.maxColumns
	}
	for i := range drawn {
		if i == idx {
			b.WriteString("*")
		} else {
			b.WriteString("|")
		}
		if i != drawn-1 {
			b.WriteString(" ")
		}
	}
	if idx >= drawn {
		// The commit's lane is past the cap; still mark it.
		b.WriteString(" *")
	}
	g.advance(idx, c.Parents)
	return b.String()
}

func (g *graphBuilder) columnIndex(sha string) int {
	for i, h := range g.columns {
		if h == sha {
			return i
		}
	}
	return -1
}

func (g *graphBuilder) advance(idx int, parents []string) {
	if len(parents) == 0 {
		g.columns = append(g.columns[:idx], g.columns[idx+1:]...)
		return
	}
	primary := parents[0]
	if existing := g.columnIndex(primary); existing != -1 && existing != idx {
		// Another lane already waits for this parent; merge into it.
		g.columns = append(g.columns[:idx], g.columns[idx+1:]...)
	} else {
		g.columns[idx] = primary
	}
	for i := 1; i < len(parents); i++ {
		parent := parents[i]
		if g.columnIndex(parent) != -1 {
			continue
		}
		pos := idx + i
		if pos > len(g.columns) {
			pos = len(g.columns)
		}
		g.columns = append(g.columns[:pos], append([]string{parent}, g.columns[pos:]...)...)
	}
}
