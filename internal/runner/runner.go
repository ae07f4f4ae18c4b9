// Package runner orchestrates the load -> expand -> output pipeline.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/donaldgifford/opp/internal/config"
	"github.com/donaldgifford/opp/internal/engine"
	"github.com/donaldgifford/opp/internal/env"
	"github.com/donaldgifford/opp/pkg/diff"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitDiff  = 1
	ExitError = 2
)

// Options configures the runner behavior.
type Options struct {
	Source      string
	Destination string
	Check       bool
	Diff        bool
	ConfigPath  string
	Defines     []string // NAME[=VALUE], applied after the config's defines.
	EnvFiles    []string
	Seed        uint64 // Overrides engine.seed when non-zero.
	KeepPartial bool
	Quiet       bool
	Verbose     bool
	Stdout      io.Writer
	Stderr      io.Writer
}

// Run executes the pipeline and returns an exit code.
//
// On failure the destination is removed unless partial output was asked
// for, in which case it holds everything written before the error.
func Run(ctx context.Context, opts *Options) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	setupLogging(opts.Stderr, opts.Verbose, opts.Quiet)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		writeErr(opts.Stderr, "opp: %v\n", err)
		return ExitError
	}

	d, err := newDriver(cfg, opts)
	if err != nil {
		writeErr(opts.Stderr, "opp: %v\n", err)
		return ExitError
	}

	if opts.Check || opts.Diff {
		return runCompare(ctx, opts, d)
	}

	keep := opts.KeepPartial || cfg.Output.KeepPartial
	if err := writeDestination(ctx, d, opts.Source, opts.Destination, keep); err != nil {
		writeErr(opts.Stderr, "opp: %v\n", err)
		return ExitError
	}
	if opts.Verbose {
		writeErr(opts.Stderr, "%s -> %s\n", opts.Source, opts.Destination)
	}
	return ExitOK
}

func newDriver(cfg *config.Config, opts *Options) (*Driver, error) {
	vars := env.New()
	files := append(append([]string{}, cfg.Env.Files...), opts.EnvFiles...)
	if err := vars.LoadFiles(files...); err != nil {
		return nil, err
	}
	for name, value := range cfg.Env.Defines {
		vars.Define(name, value)
	}
	for _, def := range opts.Defines {
		name, value, err := env.ParseDefine(def)
		if err != nil {
			return nil, err
		}
		vars.Define(name, value)
	}

	seed := cfg.Engine.Seed
	if opts.Seed != 0 {
		seed = opts.Seed
	}

	session := engine.NewSession(engine.Options{
		MaxLineLength: cfg.Engine.MaxLineLength,
		MaxPasses:     cfg.Engine.MaxPasses,
		BraceCompat:   cfg.Engine.BraceCompat,
		Lookup:        vars.Lookup,
		Seed:          seed,
	})
	return &Driver{
		Session:         session,
		MaxIncludeDepth: cfg.Engine.MaxIncludeDepth,
		IncludeDir:      cfg.Engine.IncludeDir,
	}, nil
}

// writeDestination expands source into dest. The destination is always
// closed; on failure it is removed unless keepPartial is set.
func writeDestination(ctx context.Context, d *Driver, source, dest string, keepPartial bool) error {
	if sameFile(source, dest) {
		return fmt.Errorf("destination %s is the source file", dest)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("unable to open %s for writing: %w", dest, err)
	}

	perr := d.Process(ctx, source, f)
	if cerr := f.Close(); perr == nil && cerr != nil {
		perr = fmt.Errorf("closing %s: %w", dest, cerr)
	}
	if perr != nil && !keepPartial {
		if rerr := os.Remove(dest); rerr != nil {
			log.Warningf("removing partial output %s: %v", dest, rerr)
		}
	}
	return perr
}

// runCompare expands into memory and compares against the existing
// destination instead of writing it.
func runCompare(ctx context.Context, opts *Options, d *Driver) int {
	var out bytes.Buffer
	if err := d.Process(ctx, opts.Source, &out); err != nil {
		writeErr(opts.Stderr, "opp: %v\n", err)
		return ExitError
	}

	existing, err := os.ReadFile(opts.Destination)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		writeErr(opts.Stderr, "opp: %v\n", err)
		return ExitError
	}

	current, expanded := string(existing), out.String()
	if current == expanded {
		return ExitOK
	}

	if opts.Diff {
		writeOut(opts.Stdout, diff.Unified(opts.Destination, current, expanded))
	} else if !opts.Quiet {
		writeErr(opts.Stderr, "%s\n", opts.Destination)
	}
	return ExitDiff
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// writeOut writes to stdout.
func writeOut(w io.Writer, s string) {
	fmt.Fprint(w, s)
}

// writeErr formats and writes to stderr.
func writeErr(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}
