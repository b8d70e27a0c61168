package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/thiagokokada/gitmeta/internal/config"
	"github.com/thiagokokada/gitmeta/internal/git"
)

var (
	shaColor     = lipgloss.Color("#F1FA8C")
	authorColor  = lipgloss.Color("#8BE9FD")
	dateColor    = lipgloss.Color("#6272A4")
	headColor    = lipgloss.Color("#50FA7B")
	remoteColor  = lipgloss.Color("#FF79C6")
	addedColor   = lipgloss.Color("#50FA7B")
	deletedColor = lipgloss.Color("#FF5555")
	labelColor   = lipgloss.Color("#BD93F9")
)

// palette holds the styles for one output stream. Colors are dropped
// automatically when the stream is not a terminal.
type palette struct {
	sha     lipgloss.Style
	author  lipgloss.Style
	date    lipgloss.Style
	head    lipgloss.Style
	remote  lipgloss.Style
	added   lipgloss.Style
	deleted lipgloss.Style
	label   lipgloss.Style
	dim     lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	return palette{
		sha:     r.NewStyle().Foreground(shaColor),
		author:  r.NewStyle().Foreground(authorColor),
		date:    r.NewStyle().Foreground(dateColor),
		head:    r.NewStyle().Foreground(headColor).Bold(true),
		remote:  r.NewStyle().Foreground(remoteColor),
		added:   r.NewStyle().Foreground(addedColor),
		deleted: r.NewStyle().Foreground(deletedColor),
		label:   r.NewStyle().Foreground(labelColor).Bold(true),
		dim:     r.NewStyle().Faint(true),
	}
}

// emit writes v as JSON or YAML, or calls text for the text format.
func emit(w io.Writer, format string, v any, text func(io.Writer, palette) error) error {
	switch format {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return text(w, newPalette(w))
	}
}

func statusStyle(p palette, s git.ChangeStatus) lipgloss.Style {
	switch s {
	case git.StatusAdded, git.StatusUntracked:
		return p.added
	case git.StatusDeleted:
		return p.deleted
	case git.StatusRenamed, git.StatusCopied:
		return p.label
	default:
		return p.sha
	}
}

func writeCommitLine(w io.Writer, p palette, graph string, c git.Commit) {
	if graph != "" {
		fmt.Fprintf(w, "%s ", graph)
	}
	fmt.Fprintf(w, "%s %s %s %s\n",
		p.sha.Render(c.ShortSHA()),
		p.date.Render(c.Date.Format("2006-01-02")),
		p.author.Render(c.AuthorName),
		c.Message,
	)
}

func writeChangedFiles(w io.Writer, p palette, files []git.ChangedFile, withStats bool) {
	for _, f := range files {
		path := f.Path
		if f.OldPath != "" {
			path = f.OldPath + " -> " + f.Path
		}
		if withStats {
			fmt.Fprintf(w, "%s %s %s %s\n",
				statusStyle(p, f.Status).Render(f.Status.Code()),
				p.added.Render(fmt.Sprintf("+%d", f.Additions)),
				p.deleted.Render(fmt.Sprintf("-%d", f.Deletions)),
				path,
			)
			continue
		}
		fmt.Fprintf(w, "%s %s\n", statusStyle(p, f.Status).Render(f.Status.Code()), path)
	}
}
