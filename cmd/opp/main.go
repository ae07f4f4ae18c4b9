// Package main is the entry point for opp.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/donaldgifford/opp/internal/runner"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// listFlag collects every occurrence of a repeatable flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func main() {
	var defines, envFiles listFlag
	flag.Var(&defines, "D", "define condition variable `NAME[=VALUE]` (repeatable)")
	flag.Var(&envFiles, "env", "load condition variables from dotenv `file` (repeatable)")
	check := flag.Bool("check", false, "exit 1 if destination is not up to date")
	diffFlag := flag.Bool("diff", false, "print unified diff against destination")
	configPath := flag.String("config", "", "path to config file")
	seed := flag.Uint64("seed", 0, "seed for ##$ (0 uses the clock)")
	keepPartial := flag.Bool("keep-partial", false, "keep partial output on failure")
	quiet := flag.Bool("q", false, "suppress informational output")
	verbose := flag.Bool("v", false, "log directives and includes as they are processed")
	showVersion := flag.Bool("version", false, "print version and exit")

	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("opp %s (%s) %s\n", version, commit, date)
		return
	}

	if flag.NArg() != 2 {
		usage()
		os.Exit(runner.ExitError)
	}

	opts := &runner.Options{
		Source:      flag.Arg(0),
		Destination: flag.Arg(1),
		Check:       *check,
		Diff:        *diffFlag,
		ConfigPath:  *configPath,
		Defines:     defines,
		EnvFiles:    envFiles,
		Seed:        *seed,
		KeepPartial: *keepPartial,
		Quiet:       *quiet,
		Verbose:     *verbose,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := runner.Run(ctx, opts)
	stop()
	os.Exit(code)
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: opp [flags] <source> <destination>

Expand macros, conditional blocks and includes in source and write the
result to destination.

Flags:
`)
	flag.PrintDefaults()
}
