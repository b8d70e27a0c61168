package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thiagokokada/gitmeta/internal/git"
)

func newLogCommand(o *options) *cobra.Command {
	var (
		file  string
		limit int
		skip  int
		graph bool
	)
	cmd := &cobra.Command{
		Use:   "log",
		Short: "List commits reachable from HEAD, newest first",
		Example: `  gitmeta log --limit 20
  gitmeta log --skip 20 --limit 20
  gitmeta log --file README.md --graph`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, root, err := o.repository(ctx)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("limit") {
				limit = o.cfg.Limit
			}
			commits, err := svc.CommitsForFile(ctx, root, file, limit, skip)
			if err != nil {
				return err
			}
			var lanes []string
			if graph {
				lanes = git.CommitGraph(commits, o.cfg.GraphMaxColumns)
			}
			return emit(cmd.OutOrStdout(), o.cfg.Output, commits, func(w io.Writer, p palette) error {
				for i, c := range commits {
					lane := ""
					if lanes != nil {
						lane = lanes[i]
					}
					writeCommitLine(w, p, lane, c)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "only commits touching this path (follows renames)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of commits (default from config)")
	cmd.Flags().IntVar(&skip, "skip", 0, "number of commits to skip")
	cmd.Flags().BoolVar(&graph, "graph", false, "draw commit lanes")
	return cmd
}

func newShowCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show SHA",
		Short: "Show one commit with the files it changed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, root, err := o.repository(ctx)
			if err != nil {
				return err
			}
			commit, err := svc.Commit(ctx, root, args[0])
			if err != nil {
				return err
			}
			if commit == nil {
				return fmt.Errorf("%w: %s", git.ErrInvalidCommit, args[0])
			}
			files, err := svc.ChangedFiles(ctx, root, commit.SHA)
			if err != nil {
				return err
			}
			commit.ChangedFiles = files
			return emit(cmd.OutOrStdout(), o.cfg.Output, commit, func(w io.Writer, p palette) error {
				writeCommitDetail(w, p, *commit)
				return nil
			})
		},
	}
}

func writeCommitDetail(w io.Writer, p palette, c git.Commit) {
	fmt.Fprintf(w, "%s %s\n", p.label.Render("commit"), p.sha.Render(c.SHA))
	if c.IsMerge() {
		fmt.Fprintf(w, "%s %s\n", p.label.Render("Merge:"), strings.Join(c.Parents, " "))
	}
	fmt.Fprintf(w, "%s %s <%s>\n", p.label.Render("Author:"), p.author.Render(c.AuthorName), c.AuthorEmail)
	fmt.Fprintf(w, "%s %s\n\n", p.label.Render("Date:"), p.date.Render(c.Date.Format("Mon Jan 2 15:04:05 2006 -0700")))
	for line := range strings.SplitSeq(c.FullMessage, "\n") {
		fmt.Fprintf(w, "    %s\n", line)
	}
	if len(c.ChangedFiles) > 0 {
		fmt.Fprintln(w)
		writeChangedFiles(w, p, c.ChangedFiles, true)
	}
}
