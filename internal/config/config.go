// Package config defines the configuration types and defaults for opp.
package config

// Config is the top-level configuration.
type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Env    EnvConfig    `yaml:"env"`
	Output OutputConfig `yaml:"output"`
}

// EngineConfig holds the rewriter limits and compatibility switches.
type EngineConfig struct {
	MaxLineLength   int    `yaml:"max_line_length"`
	MaxIncludeDepth int    `yaml:"max_include_depth"`
	MaxPasses       int    `yaml:"max_passes"`
	BraceCompat     bool   `yaml:"brace_compat"`
	Seed            uint64 `yaml:"seed"`
	IncludeDir      string `yaml:"include_dir"`
}

// EnvConfig lists extra sources for conditional variables.
type EnvConfig struct {
	Files   []string          `yaml:"files"`
	Defines map[string]string `yaml:"defines"`
}

// OutputConfig controls what happens to the destination file.
type OutputConfig struct {
	// KeepPartial leaves a partially written destination in place when
	// processing fails. By default it is removed.
	KeepPartial bool `yaml:"keep_partial"`
}

// DefaultConfig returns a Config with all default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxLineLength:   10240,
			MaxIncludeDepth: 64,
			MaxPasses:       1000,
			BraceCompat:     true,
		},
	}
}
