// Package config loads the YAML configuration file.
//
// A configuration file looks like this:
//
//	# Give up after this many rewrite steps; 0 means no limit.
//	max-steps: 100000
//	# Log every rewrite step.
//	trace: false
//	# Debug log destination.
//	log: /tmp/rho.log
//	# History database of the interactive mode.
//	history-db: ~/.local/state/rho/history.db
//
// Values given on the command line take precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds configuration values. The zero value is the default
// configuration.
type Config struct {
	MaxSteps  int    `yaml:"max-steps"`
	Trace     bool   `yaml:"trace"`
	Log       string `yaml:"log"`
	HistoryDB string `yaml:"history-db"`
}

// DefaultPath returns the path of the configuration file used when none is
// given explicitly.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "rho", "config.yaml"), nil
}

// Load reads the configuration file at path. If path is empty, the file at
// DefaultPath is read if it exists; its absence is not an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return &Config{}, nil
		}
	}
	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("cannot read config: %w", err)
	}
	defer f.Close()
	return Decode(f, path)
}

// Decode decodes a configuration from r. The name is used in error messages.
func Decode(r io.Reader, name string) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if cfg.MaxSteps < 0 {
		return nil, fmt.Errorf("%s: max-steps must not be negative", name)
	}
	cfg.Log = expandHome(cfg.Log)
	cfg.HistoryDB = expandHome(cfg.HistoryDB)
	return &cfg, nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
