package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newRootPathCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "root",
		Short: "Print the top-level directory of the repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, root, err := o.repository(cmd.Context())
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), o.cfg.Output, map[string]string{"root": root}, func(w io.Writer, _ palette) error {
				_, err := fmt.Fprintln(w, root)
				return err
			})
		},
	}
}

func newBranchesCommand(o *options) *cobra.Command {
	var current bool
	cmd := &cobra.Command{
		Use:   "branches",
		Short: "List local and remote branches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, root, err := o.repository(ctx)
			if err != nil {
				return err
			}
			if current {
				name, err := svc.CurrentBranch(ctx, root)
				if err != nil {
					return err
				}
				return emit(cmd.OutOrStdout(), o.cfg.Output, map[string]string{"branch": name}, func(w io.Writer, _ palette) error {
					_, err := fmt.Fprintln(w, name)
					return err
				})
			}
			branches, err := svc.Branches(ctx, root)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), o.cfg.Output, branches, func(w io.Writer, p palette) error {
				for _, b := range branches {
					marker, name := " ", b.Name
					switch {
					case b.IsHead:
						marker, name = "*", p.head.Render(b.Name)
					case b.IsRemote:
						name = p.remote.Render(b.Name)
					}
					fmt.Fprintf(w, "%s %s %s", marker, name, p.sha.Render(b.CommitSHA))
					if b.Upstream != "" {
						fmt.Fprintf(w, " %s", p.dim.Render("["+b.Upstream+"]"))
					}
					fmt.Fprintln(w)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&current, "current", false, `print only the checked out branch ("HEAD" when detached)`)
	return cmd
}

func newTagsCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List tags, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, root, err := o.repository(ctx)
			if err != nil {
				return err
			}
			tags, err := svc.Tags(ctx, root)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), o.cfg.Output, tags, func(w io.Writer, p palette) error {
				for _, t := range tags {
					fmt.Fprintf(w, "%s %s", p.label.Render(t.Name), p.sha.Render(t.CommitSHA))
					if t.IsAnnotated() {
						fmt.Fprintf(w, " %s", *t.Message)
					}
					fmt.Fprintln(w)
				}
				return nil
			})
		},
	}
}
