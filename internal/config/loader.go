package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// configFileNames is the ordered list of config file names to search for.
var configFileNames = []string{
	"opp.yml",
	"opp.yaml",
	".opp.yml",
	".opp.yaml",
}

// Discover returns the path of the first config file found in dir,
// following the standard search order. It returns an empty string if
// no config file is found.
func Discover(dir string) string {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load reads and parses an opp config file. If configPath is non-empty,
// that file is loaded directly. Otherwise, Load searches the current working
// directory using Discover. If no config file is found, DefaultConfig is
// returned.
//
// Partial YAML files are supported: any fields not specified in the YAML
// retain their default values.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		configPath = Discover(wd)
	}

	if configPath == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
	}

	// Start from defaults so missing YAML fields retain non-zero defaults.
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", configPath, err)
	}
	cfg.resolvePaths(filepath.Dir(configPath))

	return cfg, nil
}

// resolvePaths makes relative paths in the file relative to the directory
// holding it, so a config works from any working directory.
func (c *Config) resolvePaths(base string) {
	if c.Engine.IncludeDir != "" && !filepath.IsAbs(c.Engine.IncludeDir) {
		c.Engine.IncludeDir = filepath.Join(base, c.Engine.IncludeDir)
	}
	for i, f := range c.Env.Files {
		if !filepath.IsAbs(f) {
			c.Env.Files[i] = filepath.Join(base, f)
		}
	}
}

// Validate rejects limits that would make every run fail.
func (c *Config) Validate() error {
	if c.Engine.MaxLineLength <= 0 {
		return fmt.Errorf("engine.max_line_length must be positive, got %d", c.Engine.MaxLineLength)
	}
	if c.Engine.MaxIncludeDepth < 0 {
		return fmt.Errorf("engine.max_include_depth must not be negative, got %d", c.Engine.MaxIncludeDepth)
	}
	if c.Engine.MaxPasses <= 0 {
		return fmt.Errorf("engine.max_passes must be positive, got %d", c.Engine.MaxPasses)
	}
	for name := range c.Env.Defines {
		if name == "" {
			return errors.New("env.defines contains an empty name")
		}
	}
	return nil
}
