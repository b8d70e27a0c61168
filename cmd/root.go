// Package cmd implements the gitmeta command line.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thiagokokada/gitmeta/internal/config"
	"github.com/thiagokokada/gitmeta/internal/git"
	gitbackend "github.com/thiagokokada/gitmeta/internal/git/backend"
)

// options is shared by every subcommand of one command tree.
type options struct {
	configPath string
	v          *viper.Viper
	cfg        config.Config

	// runner replaces the git executable; tests set it.
	runner gitbackend.Runner
	svc    *git.Service
}

// Execute runs the root command.
func Execute() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(nil).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "gitmeta:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand(runner gitbackend.Runner) *cobra.Command {
	o := &options{v: viper.New(), runner: runner}
	root := &cobra.Command{
		Use:   "gitmeta",
		Short: "Inspect git history, refs, changes and diffs",
		Long: `gitmeta drives the git executable and prints repository metadata:
commits, branches, tags, changed files, unified diffs, working tree
status and submodules, as styled text, JSON or YAML.

Configuration is read from $XDG_CONFIG_HOME/gitmeta/config.yaml (or --config)
and GITMETA_* environment variables; flags win over both.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: o.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&o.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/gitmeta/config.yaml)")
	flags.StringP("repo", "C", ".", "repository path")
	flags.String("git", "git", "git executable")
	flags.StringP("output", "o", config.OutputText, "output format: text, json or yaml")
	flags.BoolP("verbose", "v", false, "enable verbose logging")
	for key, flag := range map[string]string{
		"repo":     "repo",
		"git_path": "git",
		"output":   "output",
		"verbose":  "verbose",
	} {
		// Lookup cannot fail for flags registered just above.
		_ = o.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		newRootPathCommand(o),
		newLogCommand(o),
		newShowCommand(o),
		newBranchesCommand(o),
		newTagsCommand(o),
		newFilesCommand(o),
		newDiffCommand(o),
		newCatCommand(o),
		newStatusCommand(o),
		newSubmodulesCommand(o),
		newWatchCommand(o),
		newConfigCommand(o),
		newVersionCommand(o),
	)
	return root
}

func (o *options) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(o.v, o.configPath)
	if err != nil {
		return err
	}
	o.cfg = cfg
	setupLogging(cfg.Verbose)
	slog.Debug("configuration loaded",
		slog.String("repo", cfg.Repo),
		slog.String("git_path", cfg.GitPath),
		slog.String("output", cfg.Output),
	)
	return nil
}

func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// service returns the Service, checking the git version on first use.
func (o *options) service(ctx context.Context) (*git.Service, error) {
	if o.svc != nil {
		return o.svc, nil
	}
	if o.runner != nil {
		o.svc = git.NewWithBackend(o.runner)
		return o.svc, nil
	}
	svc, err := git.Open(ctx, o.cfg.GitPath)
	if err != nil {
		return nil, err
	}
	o.svc = svc
	return svc, nil
}

// repository returns the Service and the top-level directory of the
// configured repository.
func (o *options) repository(ctx context.Context) (*git.Service, string, error) {
	svc, err := o.service(ctx)
	if err != nil {
		return nil, "", err
	}
	root, err := svc.RepositoryRoot(ctx, o.cfg.Repo)
	if err != nil {
		return nil, "", err
	}
	return svc, root, nil
}
