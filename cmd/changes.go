package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thiagokokada/gitmeta/internal/config"
	"github.com/thiagokokada/gitmeta/internal/git"
)

func newFilesCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "files SHA",
		Short: "List the files a commit changed, with line counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, root, err := o.repository(ctx)
			if err != nil {
				return err
			}
			files, err := svc.ChangedFiles(ctx, root, args[0])
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), o.cfg.Output, files, func(w io.Writer, p palette) error {
				writeChangedFiles(w, p, files, true)
				return nil
			})
		},
	}
}

func newStatusCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List working tree changes, untracked files included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, root, err := o.repository(ctx)
			if err != nil {
				return err
			}
			return printStatus(ctx, svc, root, cmd.OutOrStdout(), o.cfg.Output)
		},
	}
}

// diffStatEntry is one line of "diff --stat".
type diffStatEntry struct {
	Path      string `json:"path" yaml:"path"`
	OldPath   string `json:"old_path,omitempty" yaml:"old_path,omitempty"`
	Binary    bool   `json:"binary,omitempty" yaml:"binary,omitempty"`
	Additions int    `json:"additions" yaml:"additions"`
	Deletions int    `json:"deletions" yaml:"deletions"`
}

type diffStatReport struct {
	Files []diffStatEntry `json:"files" yaml:"files"`
	Total git.DiffStat    `json:"total" yaml:"total"`
}

func newDiffCommand(o *options) *cobra.Command {
	var (
		parent int
		stat   bool
		color  bool
	)
	cmd := &cobra.Command{
		Use:   "diff SHA",
		Short: "Show the changes a commit introduced",
		Long: `Show the unified diff between a commit and one of its parents. Root
commits are compared with the empty tree; a --parent outside the commit's
parent list falls back to the first parent.

With --output json or yaml the diff is emitted parsed into files, hunks
and lines.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, root, err := o.repository(ctx)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if stat {
				results, err := svc.Diff(ctx, root, args[0], parent)
				if err != nil {
					return err
				}
				report := newDiffStatReport(results)
				return emit(w, o.cfg.Output, report, func(w io.Writer, p palette) error {
					writeDiffStat(w, p, report)
					return nil
				})
			}
			if o.cfg.Output != config.OutputText {
				results, err := svc.Diff(ctx, root, args[0], parent)
				if err != nil {
					return err
				}
				return emit(w, o.cfg.Output, results, nil)
			}
			text, err := svc.DiffText(ctx, root, args[0], parent)
			if err != nil {
				return err
			}
			if color {
				return highlight(w, text, "diff", "")
			}
			_, err = io.WriteString(w, text)
			return err
		},
	}
	cmd.Flags().IntVarP(&parent, "parent", "p", 0, "parent to compare against (0-based)")
	cmd.Flags().BoolVar(&stat, "stat", false, "print per-file line counts instead of the diff")
	cmd.Flags().BoolVar(&color, "color", false, "colorize the diff")
	return cmd
}

func newDiffStatReport(results []git.DiffResult) diffStatReport {
	report := diffStatReport{Files: make([]diffStatEntry, 0, len(results)), Total: git.SummarizeDiff(results)}
	for _, r := range results {
		report.Files = append(report.Files, diffStatEntry{
			Path:      r.FilePath,
			OldPath:   r.OldPath,
			Binary:    r.IsBinary,
			Additions: r.Additions(),
			Deletions: r.Deletions(),
		})
	}
	return report
}

func writeDiffStat(w io.Writer, p palette, report diffStatReport) {
	for _, f := range report.Files {
		path := f.Path
		if f.OldPath != "" {
			path = f.OldPath + " => " + f.Path
		}
		if f.Binary {
			fmt.Fprintf(w, " %s | %s\n", path, p.dim.Render("binary"))
			continue
		}
		fmt.Fprintf(w, " %s | %s %s\n", path,
			p.added.Render(fmt.Sprintf("+%d", f.Additions)),
			p.deleted.Render(fmt.Sprintf("-%d", f.Deletions)),
		)
	}
	fmt.Fprintf(w, " %d files changed, %d insertions(+), %d deletions(-)\n",
		report.Total.Files, report.Total.Additions, report.Total.Deletions)
}

func newCatCommand(o *options) *cobra.Command {
	var color bool
	cmd := &cobra.Command{
		Use:   "cat SHA PATH",
		Short: "Print a file as stored in a commit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, root, err := o.repository(ctx)
			if err != nil {
				return err
			}
			sha, path := args[0], args[1]
			content, err := svc.FileContent(ctx, root, path, sha)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if o.cfg.Output != config.OutputText {
				return emit(w, o.cfg.Output, map[string]string{"sha": sha, "path": path, "content": content}, nil)
			}
			if color {
				return highlight(w, content, "", path)
			}
			_, err = io.WriteString(w, content)
			return err
		},
	}
	cmd.Flags().BoolVar(&color, "color", false, "syntax highlight by file type")
	return cmd
}
