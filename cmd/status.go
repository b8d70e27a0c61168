package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thiagokokada/gitmeta/internal/git"
	"github.com/thiagokokada/gitmeta/internal/watch"
)

func printStatus(ctx context.Context, svc *git.Service, root string, w io.Writer, format string) error {
	files, err := svc.Status(ctx, root)
	if err != nil {
		return err
	}
	return emit(w, format, files, func(w io.Writer, p palette) error {
		if len(files) == 0 {
			fmt.Fprintln(w, p.dim.Render("nothing to commit, working tree clean"))
			return nil
		}
		writeChangedFiles(w, p, files, false)
		return nil
	})
}

func newWatchCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the working tree status again whenever the repository changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, root, err := o.repository(ctx)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if err := printStatus(ctx, svc, root, w, o.cfg.Output); err != nil {
				return err
			}
			reprint := make(chan struct{}, 1)
			watcher, err := watch.New(root, o.cfg.WatchDelay, func() {
				select {
				case reprint <- struct{}{}:
				default:
				}
			})
			if err != nil {
				return err
			}
			defer watcher.Close()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-reprint:
					fmt.Fprintln(w)
					if err := printStatus(ctx, svc, root, w, o.cfg.Output); err != nil {
						return err
					}
				}
			}
		},
	}
}

func newSubmodulesCommand(o *options) *cobra.Command {
	var urls bool
	cmd := &cobra.Command{
		Use:   "submodules",
		Short: "List submodules and their checkout state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, root, err := o.repository(ctx)
			if err != nil {
				return err
			}
			var subs []git.Submodule
			if urls {
				subs = svc.SubmodulesWithURLs(ctx, root)
			} else {
				subs = svc.Submodules(ctx, root)
			}
			if subs == nil {
				subs = []git.Submodule{}
			}
			return emit(cmd.OutOrStdout(), o.cfg.Output, subs, func(w io.Writer, p palette) error {
				for _, s := range subs {
					fmt.Fprintf(w, "%s %s %s", p.sha.Render(s.CommitSHA), p.label.Render(s.Path), p.dim.Render("("+s.State.String()+")"))
					if s.URL != "" {
						fmt.Fprintf(w, " %s", s.URL)
					}
					fmt.Fprintln(w)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&urls, "urls", false, "read remote URLs from the committed .gitmodules")
	return cmd
}
