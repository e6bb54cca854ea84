// Package cliconfig loads the optional YAML configuration file for the
// ldapfilter CLI.
package cliconfig

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the CLI's tunable defaults.
type Config struct {
	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{LogLevel: "info", LogFormat: "text"}
}

// DefaultPath returns $HOME/.ldapfilter.yaml, or "" if $HOME cannot be
// determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ldapfilter.yaml")
}

// Load reads and parses the YAML file at path. A missing file is not an
// error, whether path is the default or was given explicitly: Load returns
// Default() unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config file %s", path)
	}
	return cfg, nil
}
