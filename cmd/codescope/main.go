package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/docopt/docopt-go"
	"github.com/fatih/color"

	"github.com/TFMV/codescope/config"
)

const version = "0.1.0"

const usage = `CodeScope: complexity and maintainability metrics for JavaScript, TypeScript and Python.

Usage:
  codescope analyze <path>... [--format=<fmt>] [--store] [--no-color] [--config=<file>]
  codescope serve [--addr=<addr>] [--config=<file>]
  codescope history [--limit=<n>] [--format=<fmt>] [--no-color] [--config=<file>]
  codescope watch <dir> [--store] [--no-color] [--config=<file>]
  codescope mcp [--config=<file>]
  codescope demo [--format=<fmt>] [--no-color]
  codescope -h | --help
  codescope --version

Options:
  -h --help        Show this screen.
  --version        Show version.
  --format=<fmt>   Output format: text, json or markdown [default: text].
  --store          Record each analysis in the configured history backend.
  --no-color       Disable colored output.
  --config=<file>  Config file (default: first of codescope.{toml,yaml,yml,json} in . or .codescope).
  --addr=<addr>    Listen address, overrides server.addr.
  --limit=<n>      Number of history records to show, overrides storage.history_limit.

Environment variables prefixed with CODESCOPE_ override config keys, using a
double underscore between sections (CODESCOPE_STORAGE__BACKEND=sqlite).
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(argv []string, stdout, stderr io.Writer) int {
	var printed bool
	parser := &docopt.Parser{
		HelpHandler: func(err error, usage string) {
			printed = true
			if err != nil {
				fmt.Fprintln(stderr, usage)
				return
			}
			fmt.Fprintln(stdout, usage)
		},
	}
	opts, err := parser.ParseArgs(usage, argv, version)
	if err != nil {
		return 2
	}
	if printed {
		// --help or --version
		return 0
	}

	var cfg *config.Config
	if cfgPath, _ := opts.String("--config"); cfgPath != "" {
		cfg, err = config.Load(cfgPath)
	} else {
		cfg, err = config.LoadOrDefault()
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	setupLogger(cfg.Log, stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	noColor, _ := opts.Bool("--no-color")
	cli := &app{
		cfg:     cfg,
		stdout:  stdout,
		stderr:  stderr,
		colored: !noColor && !color.NoColor,
	}

	if err := cli.dispatch(ctx, opts); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func setupLogger(cfg config.LogConfig, w io.Writer) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	slog.SetDefault(slog.New(handler))
}
