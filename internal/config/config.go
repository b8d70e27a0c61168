// Package config provides configuration types and defaults for gitmeta.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. GITMETA_GIT_PATH.
const EnvPrefix = "GITMETA"

// Output formats accepted by the CLI.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

var outputFormats = []string{OutputText, OutputJSON, OutputYAML}

// Config holds all configuration options for gitmeta.
type Config struct {
	GitPath         string        `mapstructure:"git_path"`
	Repo            string        `mapstructure:"repo"`
	Limit           int           `mapstructure:"limit"`
	Output          string        `mapstructure:"output"`
	Verbose         bool          `mapstructure:"verbose"`
	WatchDelay      time.Duration `mapstructure:"watch_delay"`
	GraphMaxColumns int           `mapstructure:"graph_max_columns"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		GitPath:         "git",
		Repo:            ".",
		Limit:           500,
		Output:          OutputText,
		WatchDelay:      350 * time.Millisecond,
		GraphMaxColumns: 8,
	}
}

// SetDefaults registers Defaults on v so unset keys unmarshal to them.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("git_path", d.GitPath)
	v.SetDefault("repo", d.Repo)
	v.SetDefault("limit", d.Limit)
	v.SetDefault("output", d.Output)
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("watch_delay", d.WatchDelay)
	v.SetDefault("graph_max_columns", d.GraphMaxColumns)
}

// DefaultPath returns $XDG_CONFIG_HOME/gitmeta/config.yaml, falling back to
// the OS user config directory.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		dir, err = os.UserConfigDir()
		if err != nil {
			return ""
		}
	}
	return filepath.Join(dir, "gitmeta", "config.yaml")
}

// Load reads configuration into a Config. An explicit path must exist; the
// default path is optional. Environment variables override the file.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
			if explicit || !missing {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks configuration values for errors.
func (c Config) Validate() error {
	if !slices.Contains(outputFormats, c.Output) {
		return fmt.Errorf("output: unknown format %q (want one of %s)", c.Output, strings.Join(outputFormats, ", "))
	}
	if c.Limit < 0 {
		return fmt.Errorf("limit: must not be negative, got %d", c.Limit)
	}
	if c.WatchDelay < 0 {
		return fmt.Errorf("watch_delay: must not be negative, got %s", c.WatchDelay)
	}
	if c.GraphMaxColumns < 0 {
		return fmt.Errorf("graph_max_columns: must not be negative, got %d", c.GraphMaxColumns)
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# gitmeta configuration

# git executable to run (default: "git" from PATH)
git_path: git

# repository to inspect when --repo is not given
repo: .

# commits per page for "gitmeta log"
limit: 500

# text, json or yaml
output: text

verbose: false

# quiet period before "gitmeta watch" reprints
watch_delay: 350ms

# lanes drawn by "gitmeta log --graph"
graph_max_columns: 8
`
}
