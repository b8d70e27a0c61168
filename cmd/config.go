package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thiagokokada/gitmeta/internal/config"
)

func newConfigCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the gitmeta configuration file",
		// The file may be missing or broken here, so it is not loaded.
		PersistentPreRunE: func(*cobra.Command, []string) error {
			setupLogging(o.v.GetBool("verbose"))
			return nil
		},
	}
	cmd.AddCommand(newConfigPathCommand(o), newConfigInitCommand(o))
	return cmd
}

func (o *options) configFile() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	if path := config.DefaultPath(); path != "" {
		return path, nil
	}
	return "", errors.New("no config directory available; pass --config")
}

func newConfigPathCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := o.configFile()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
}

func newConfigInitCommand(o *options) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := o.configFile()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("create config dir: %w", err)
			}
			if err := os.WriteFile(path, []byte(config.DefaultConfigTemplate()), 0o644); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			slog.Debug("config written", slog.String("path", path))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}
