package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thiagokokada/gitmeta/internal/buildinfo"
	gitbackend "github.com/thiagokokada/gitmeta/internal/git/backend"
)

func newVersionCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information and the git version in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cli := gitbackend.NewCLI(o.cfg.GitPath)
			var runner gitbackend.Runner = cli
			if o.runner != nil {
				runner = o.runner
			}
			gitVersion, err := runner.Run(cmd.Context(), ".", "--version")
			if err != nil {
				slog.Warn("unable to query git version", slog.Any("error", err))
				gitVersion = ""
			}
			w := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(w, buildinfo.Summary(gitVersion)); err != nil {
				return err
			}
			_, err = fmt.Fprintf(w, "git executable: %s (requires >= %s)\n", cli.GitPath(), gitbackend.MinGitVersion())
			return err
		},
	}
}
