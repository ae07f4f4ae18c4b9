package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	e := cfg.Engine
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"MaxLineLength", e.MaxLineLength, 10240},
		{"MaxIncludeDepth", e.MaxIncludeDepth, 64},
		{"MaxPasses", e.MaxPasses, 1000},
		{"BraceCompat", e.BraceCompat, true},
		{"Seed", e.Seed, uint64(0)},
		{"IncludeDir", e.IncludeDir, ""},
		{"KeepPartial", cfg.Output.KeepPartial, false},
	}

	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, c.got, c.want)
		}
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yml")

	yaml := `engine:
  max_include_depth: 3
  brace_compat: false
  seed: 42
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Engine.MaxIncludeDepth != 3 {
		t.Errorf("MaxIncludeDepth: got %d, want 3", cfg.Engine.MaxIncludeDepth)
	}
	if cfg.Engine.BraceCompat {
		t.Error("BraceCompat: got true, want false")
	}
	if cfg.Engine.Seed != 42 {
		t.Errorf("Seed: got %d, want 42", cfg.Engine.Seed)
	}

	// Unspecified fields retain defaults.
	if cfg.Engine.MaxLineLength != 10240 {
		t.Errorf("MaxLineLength: got %d, want 10240 (default)", cfg.Engine.MaxLineLength)
	}
	if cfg.Engine.MaxPasses != 1000 {
		t.Errorf("MaxPasses: got %d, want 1000 (default)", cfg.Engine.MaxPasses)
	}
}

func TestLoadNoConfigReturnsDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	want := DefaultConfig()
	if cfg.Engine != want.Engine {
		t.Errorf("expected default config, got %+v", cfg.Engine)
	}
}

func TestDiscoverPriority(t *testing.T) {
	dir := t.TempDir()

	content := []byte("engine:\n  max_passes: 10\n")

	for _, name := range []string{"opp.yml", "opp.yaml", ".opp.yml", ".opp.yaml"} {
		if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	for _, next := range []string{"opp.yml", "opp.yaml", ".opp.yml", ".opp.yaml"} {
		want := filepath.Join(dir, next)
		if got := Discover(dir); got != want {
			t.Errorf("Discover = %q, want %q", got, want)
		}
		if err := os.Remove(want); err != nil {
			t.Fatal(err)
		}
	}

	if got := Discover(dir); got != "" {
		t.Errorf("Discover in emptied dir: got %q, want empty string", got)
	}
}

func TestLoadDiscovery(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "opp.yml")

	yaml := `engine:
  max_line_length: 80
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Engine.MaxLineLength != 80 {
		t.Errorf("MaxLineLength: got %d, want 80", cfg.Engine.MaxLineLength)
	}
	if !cfg.Engine.BraceCompat {
		t.Error("BraceCompat: got false, want true (default)")
	}
}

func TestLoadEnvSection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "env.yml")

	yaml := `env:
  files:
    - build.env
    - /etc/opp/global.env
  defines:
    DEBUG: "1"
    TARGET: linux
engine:
  include_dir: include
output:
  keep_partial: true
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	wantFiles := []string{filepath.Join(dir, "build.env"), "/etc/opp/global.env"}
	if diff := cmp.Diff(wantFiles, cfg.Env.Files); diff != "" {
		t.Errorf("Env.Files mismatch (-want +got):\n%s", diff)
	}
	wantDefines := map[string]string{"DEBUG": "1", "TARGET": "linux"}
	if diff := cmp.Diff(wantDefines, cfg.Env.Defines); diff != "" {
		t.Errorf("Env.Defines mismatch (-want +got):\n%s", diff)
	}
	if cfg.Engine.IncludeDir != filepath.Join(dir, "include") {
		t.Errorf("IncludeDir: got %q, want %q", cfg.Engine.IncludeDir, filepath.Join(dir, "include"))
	}
	if !cfg.Output.KeepPartial {
		t.Error("KeepPartial: got false, want true")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yml")

	if err := os.WriteFile(path, []byte("{{{{not valid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML, got nil")
	}
}

func TestLoadInvalidLimits(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero line length", "engine:\n  max_line_length: 0\n"},
		{"negative include depth", "engine:\n  max_include_depth: -1\n"},
		{"zero passes", "engine:\n  max_passes: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "opp.yml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	if _, err := Load("/nonexistent/path/opp.yml"); err == nil {
		t.Error("expected error for missing explicit path, got nil")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yml")

	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	want := DefaultConfig()
	if cfg.Engine != want.Engine {
		t.Errorf("expected default config for empty file, got %+v", cfg.Engine)
	}
}
