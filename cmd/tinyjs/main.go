package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/ast"
	"github.com/jackie-gan/tiny-js-interpreter/pkg/driver"
	"github.com/jackie-gan/tiny-js-interpreter/pkg/interpreter"
	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
)

const cliToolVersion = "tinyjs 0.0.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(args[1:])
	case "parse":
		return runParse(args[1:])
	default:
		return runEntry(args)
	}
}

// globalFlags collects repeated --global name=value overrides.
type globalFlags []string

func (g *globalFlags) String() string { return strings.Join(*g, ",") }

func (g *globalFlags) Set(value string) error {
	if _, _, err := driver.ParseGlobalAssignment(value); err != nil {
		return err
	}
	*g = append(*g, value)
	return nil
}

type entryOptions struct {
	configPath string
	format     string
	rev        string
	timeout    time.Duration
	globals    globalFlags
	exports    bool
}

func newFlagSet(name string, opts *entryOptions, withRunFlags bool) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.StringVar(&opts.configPath, "config", "", "path to "+driver.ConfigFileName+" (default: search upwards from the program)")
	fs.StringVar(&opts.format, "format", "", "input format: js or estree (default: by file extension)")
	fs.StringVar(&opts.rev, "rev", "", "read the program from this git revision instead of the working tree")
	if withRunFlags {
		fs.DurationVar(&opts.timeout, "timeout", 0, "abort evaluation after this wall-clock duration")
		fs.Var(&opts.globals, "global", "bind an external global as name=value (repeatable)")
		fs.BoolVar(&opts.exports, "exports", false, "print module.exports as JSON after the program finishes")
	}
	return fs
}

func runEntry(args []string) int {
	var opts entryOptions
	fs := newFlagSet("run", &opts, true)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(fs.Args()[1:], " "))
		return 2
	}

	cfg, entry, err := resolveEntry(&opts, fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	if opts.timeout > 0 {
		cfg.Limits.Timeout = opts.timeout
	}
	for _, assignment := range opts.globals {
		name, value, err := driver.ParseGlobalAssignment(assignment)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 2
		}
		cfg.SetGlobal(name, value)
	}

	program, err := loadProgram(entry, cfg.Format, opts.rev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load program: %v\n", err)
		return 1
	}

	result, err := driver.Run(context.Background(), program, cfg, os.Stdout, os.Stderr)
	if err != nil {
		reportRunError(err)
		return 1
	}
	if opts.exports {
		data, err := json.MarshalIndent(runtime.ToGo(result), "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode exports: %v\n", err)
			return 1
		}
		fmt.Fprintln(os.Stdout, string(data))
	}
	return 0
}

func runParse(args []string) int {
	var opts entryOptions
	fs := newFlagSet("parse", &opts, false)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(fs.Args()[1:], " "))
		return 2
	}
	cfg, entry, err := resolveEntry(&opts, fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	program, err := loadProgram(entry, cfg.Format, opts.rev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load program: %v\n", err)
		return 1
	}
	data, err := json.MarshalIndent(program, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode program: %v\n", err)
		return 1
	}
	fmt.Fprintln(os.Stdout, string(data))
	return 0
}

// resolveEntry loads the applicable configuration and picks the program
// path: the positional argument wins over the configured entry.
func resolveEntry(opts *entryOptions, candidate string) (*driver.Config, string, error) {
	cfg, err := loadConfig(opts.configPath, candidate)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}
	if opts.format != "" {
		format, err := driver.ParseFormat(opts.format)
		if err != nil {
			return nil, "", err
		}
		cfg.Format = format
	}
	entry := strings.TrimSpace(candidate)
	if entry == "" {
		entry = cfg.EntryPath()
	}
	if entry == "" {
		return nil, "", fmt.Errorf("tinyjs requires a source file or an entry in %s", driver.ConfigFileName)
	}
	return cfg, entry, nil
}

func loadConfig(explicit, candidate string) (*driver.Config, error) {
	if explicit != "" {
		return driver.LoadConfig(explicit)
	}
	start := "."
	if candidate != "" {
		start = filepath.Dir(candidate)
	}
	path, err := driver.FindConfig(start)
	if err != nil {
		if errors.Is(err, driver.ErrConfigNotFound) {
			return &driver.Config{}, nil
		}
		return nil, err
	}
	return driver.LoadConfig(path)
}

func loadProgram(entry string, format driver.Format, rev string) (*ast.Program, error) {
	var (
		src *driver.Source
		err error
	)
	if rev != "" {
		src, err = driver.ReadRevision(entry, rev)
	} else {
		src, err = driver.ReadFile(entry)
	}
	if err != nil {
		return nil, err
	}
	return driver.Parse(src, format)
}

func reportRunError(err error) {
	var thrown *runtime.ThrowError
	var fatal *interpreter.FatalError
	switch {
	case errors.As(err, &thrown):
		fmt.Fprintf(os.Stderr, "Uncaught %s\n", runtime.Inspect(thrown.Value))
	case errors.As(err, &fatal):
		fmt.Fprintf(os.Stderr, "runtime error: %v\n", fatal)
	default:
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  tinyjs run [flags] [file.js|file.json]")
	fmt.Fprintln(os.Stderr, "  tinyjs <file.js>")
	fmt.Fprintln(os.Stderr, "  tinyjs parse [flags] <file.js>")
	fmt.Fprintln(os.Stderr, "  tinyjs version")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  --config path       use this "+driver.ConfigFileName+" instead of searching for one")
	fmt.Fprintln(os.Stderr, "  --format js|estree  choose the front-end")
	fmt.Fprintln(os.Stderr, "  --rev revision      read the program from a git revision")
	fmt.Fprintln(os.Stderr, "  --timeout duration  abort long-running programs (run only)")
	fmt.Fprintln(os.Stderr, "  --global name=value bind an external global (run only, repeatable)")
	fmt.Fprintln(os.Stderr, "  --exports           print module.exports as JSON (run only)")
}
