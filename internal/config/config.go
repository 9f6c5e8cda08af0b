package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the optional configuration file read from the repository root.
const FileName = ".workflowgen.yml"

// Config captures CLI options sourced from config files or flags.
type Config struct {
	Workflows []string `yaml:"workflows"`
	Jobs      []string `yaml:"jobs"`
	OutputDir string   `yaml:"output_dir"`

	DryRun  bool   `yaml:"dry_run"`
	Verbose bool   `yaml:"verbose"`
	Format  string `yaml:"format"`

	Serve ServeConfig `yaml:"serve"`
	Warn  WarnConfig  `yaml:"warn"`
}

// ServeConfig controls the preview server.
type ServeConfig struct {
	Addr string `yaml:"addr"`
}

// WarnConfig controls additional warning behaviour.
type WarnConfig struct {
	ActionVersions bool `yaml:"action_versions"`
}

const (
	// FormatPretty renders human readable output.
	FormatPretty = "pretty"
	// FormatJSON renders machine readable output.
	FormatJSON = "json"

	// DefaultAddr is where the preview server listens by default.
	DefaultAddr = "127.0.0.1:8787"
)

// Default returns the baseline configuration used when no flags or config file specify values.
func Default() Config {
	return Config{
		Format: FormatPretty,
		Serve:  ServeConfig{Addr: DefaultAddr},
		Warn: WarnConfig{
			ActionVersions: true,
		},
	}
}

// Load reads FileName from root when present. Missing files are ignored.
func Load(root string) (Config, error) {
	cfg := Default()
	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}

	var fileCfg fileConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}

	cfg = merge(cfg, fileCfg)
	return cfg, nil
}

// fileConfig mirrors Config with pointers where an explicit false must be
// distinguishable from an absent key.
type fileConfig struct {
	Workflows []string `yaml:"workflows"`
	Jobs      []string `yaml:"jobs"`
	OutputDir string   `yaml:"output_dir"`
	DryRun    bool     `yaml:"dry_run"`
	Verbose   bool     `yaml:"verbose"`
	Format    string   `yaml:"format"`
	Serve     struct {
		Addr string `yaml:"addr"`
	} `yaml:"serve"`
	Warn struct {
		ActionVersions *bool `yaml:"action_versions"`
	} `yaml:"warn"`
}

func merge(base Config, override fileConfig) Config {
	out := base

	if len(override.Workflows) > 0 {
		out.Workflows = append([]string{}, override.Workflows...)
	}
	if len(override.Jobs) > 0 {
		out.Jobs = append([]string{}, override.Jobs...)
	}
	if override.OutputDir != "" {
		out.OutputDir = override.OutputDir
	}
	if override.Format != "" {
		out.Format = override.Format
	}
	if override.DryRun {
		out.DryRun = true
	}
	if override.Verbose {
		out.Verbose = true
	}
	if override.Serve.Addr != "" {
		out.Serve.Addr = override.Serve.Addr
	}
	if override.Warn.ActionVersions != nil {
		out.Warn.ActionVersions = *override.Warn.ActionVersions
	}

	return out
}

// ApplyFlags mutates cfg by applying values from CLI flags when they are present.
func ApplyFlags(cfg *Config, flags FlagValues) {
	if len(flags.Workflows.Values) > 0 {
		cfg.Workflows = append([]string{}, flags.Workflows.Values...)
	}
	if len(flags.Jobs.Values) > 0 {
		cfg.Jobs = append([]string{}, flags.Jobs.Values...)
	}
	if flags.OutputDir.Set {
		cfg.OutputDir = flags.OutputDir.Value
	}
	if flags.Format.Set {
		cfg.Format = flags.Format.Value
	}
	if flags.DryRun.Set {
		cfg.DryRun = flags.DryRun.Value
	}
	if flags.Verbose.Set {
		cfg.Verbose = flags.Verbose.Value
	}
	if flags.Addr.Set {
		cfg.Serve.Addr = flags.Addr.Value
	}
}

// FlagValues captures CLI flag state with knowledge of whether each flag was set explicitly.
type FlagValues struct {
	Workflows SliceFlag
	Jobs      SliceFlag
	OutputDir StringFlag
	Format    StringFlag
	DryRun    BoolFlag
	Verbose   BoolFlag
	Addr      StringFlag
}

// StringFlag represents a string flag and whether it was set.
type StringFlag struct {
	Value string
	Set   bool
}

// SliceFlag represents a slice flag and whether it captured values via CLI.
type SliceFlag struct {
	Values []string
}

// BoolFlag represents a bool flag and whether it was set.
type BoolFlag struct {
	Value bool
	Set   bool
}
