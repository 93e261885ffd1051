package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/docopt/docopt-go"
	"github.com/mark3labs/mcp-go/server"
	"github.com/schollz/progressbar/v3"

	"github.com/TFMV/codescope/analysis"
	"github.com/TFMV/codescope/cache"
	"github.com/TFMV/codescope/config"
	"github.com/TFMV/codescope/db"
	"github.com/TFMV/codescope/demo"
	"github.com/TFMV/codescope/mcptool"
	"github.com/TFMV/codescope/report"
	apiserver "github.com/TFMV/codescope/server"
	"github.com/TFMV/codescope/types"
	"github.com/TFMV/codescope/watch"
)

type app struct {
	cfg     *config.Config
	stdout  io.Writer
	stderr  io.Writer
	colored bool
}

func (a *app) dispatch(ctx context.Context, opts docopt.Opts) error {
	switch {
	case isSet(opts, "analyze"):
		return a.analyze(ctx, opts)
	case isSet(opts, "serve"):
		return a.serve(ctx, opts)
	case isSet(opts, "history"):
		return a.history(ctx, opts)
	case isSet(opts, "watch"):
		return a.watch(ctx, opts)
	case isSet(opts, "mcp"):
		return server.ServeStdio(mcptool.NewServer(a.analyzer(), version))
	case isSet(opts, "demo"):
		return a.demo(opts)
	}
	return errors.New("no command given")
}

func isSet(opts docopt.Opts, name string) bool {
	v, _ := opts.Bool(name)
	return v
}

func (a *app) analyzer(extra ...analysis.Option) *analysis.Analyzer {
	opts := []analysis.Option{
		analysis.WithThresholds(a.cfg.Thresholds),
		analysis.WithExclude(a.cfg.Scan.Exclude...),
		analysis.WithWorkers(a.cfg.Scan.Workers),
	}
	if a.cfg.Cache.Size > 0 {
		opts = append(opts, analysis.WithCache(cache.NewResultCache(a.cfg.Cache.Size)))
	}
	return analysis.NewAnalyzer(append(opts, extra...)...)
}

func (a *app) formatter(opts docopt.Opts) (*report.Formatter, error) {
	name, _ := opts.String("--format")
	format, err := report.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	return report.NewFormatter(format, a.stdout, a.colored), nil
}

func (a *app) openStore(ctx context.Context) (db.DB, error) {
	store, err := db.Open(ctx, a.cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open %s history: %w", a.cfg.Storage.Backend, err)
	}
	return store, nil
}

func (a *app) analyze(ctx context.Context, opts docopt.Opts) error {
	f, err := a.formatter(opts)
	if err != nil {
		return err
	}
	paths, _ := opts["<path>"].([]string)

	var store db.DB
	if isSet(opts, "--store") {
		if store, err = a.openStore(ctx); err != nil {
			return err
		}
		defer store.Close()
	}

	if len(paths) == 1 {
		if info, statErr := os.Stat(paths[0]); statErr == nil && !info.IsDir() {
			result, err := a.analyzeFile(a.analyzer(), paths[0])
			if err != nil {
				return err
			}
			a.record(ctx, store, result)
			return f.Output(report.Result{AnalysisResult: result})
		}
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(a.stderr),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription("Analyzing"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	start := time.Now()
	batch, err := a.analyzer(analysis.WithProgress(func(string) { _ = bar.Add(1) })).AnalyzePaths(ctx, paths...)
	_ = bar.Finish()
	_ = bar.Clear()
	if err != nil {
		return err
	}
	slog.Debug("batch analyzed", "files", len(batch.Files), "skipped", len(batch.Skipped), "elapsed", time.Since(start))

	for _, file := range batch.Files {
		a.record(ctx, store, file.Result)
	}
	if len(batch.Skipped) > 0 {
		f.Warning("%d unsupported file(s) skipped", len(batch.Skipped))
	}
	return f.Output(report.Batch{BatchReport: batch})
}

func (a *app) analyzeFile(analyzer *analysis.Analyzer, path string) (*types.AnalysisResult, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return analyzer.Analyze(string(code), path)
}

// record stores a history row; failures are logged and never fail the command.
func (a *app) record(ctx context.Context, store db.DB, result *types.AnalysisResult) {
	if store == nil {
		return
	}
	if err := store.StoreAnalysis(ctx, types.NewAnalysisRecord(result, time.Now())); err != nil {
		slog.Warn("failed to store analysis", "file", result.Filename, "error", err)
	}
}

func (a *app) serve(ctx context.Context, opts docopt.Opts) error {
	if addr, _ := opts.String("--addr"); addr != "" {
		a.cfg.Server.Addr = addr
	}
	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := apiserver.New(a.cfg.Server, a.analyzer(), store, a.cfg.Storage.HistoryLimit)
	return srv.Run(ctx)
}

func (a *app) history(ctx context.Context, opts docopt.Opts) error {
	f, err := a.formatter(opts)
	if err != nil {
		return err
	}
	limit := a.cfg.Storage.HistoryLimit
	if raw, _ := opts.String("--limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			return fmt.Errorf("invalid --limit %q", raw)
		}
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.ListRecent(ctx, limit)
	if err != nil {
		return err
	}
	return f.Output(report.History(records))
}

func (a *app) watch(ctx context.Context, opts docopt.Opts) error {
	dir, _ := opts.String("<dir>")
	w, err := watch.NewWatcher(dir, a.cfg.Scan.Exclude, watch.DefaultDebounce)
	if err != nil {
		return err
	}
	defer w.Stop()

	var store db.DB
	if isSet(opts, "--store") {
		if store, err = a.openStore(ctx); err != nil {
			return err
		}
		defer store.Close()
	}

	analyzer := a.analyzer()
	f := report.NewFormatter(report.FormatText, a.stdout, a.colored)
	w.SetCallback(func(path string) {
		result, err := a.analyzeFile(analyzer, path)
		if err != nil {
			slog.Warn("analysis failed", "file", path, "error", err)
			return
		}
		a.record(ctx, store, result)
		if err := f.Output(report.Result{AnalysisResult: result}); err != nil {
			slog.Warn("render failed", "file", path, "error", err)
		}
	})

	return w.Start(ctx)
}

func (a *app) demo(opts docopt.Opts) error {
	f, err := a.formatter(opts)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(demo.Samples))
	for name := range demo.Samples {
		names = append(names, name)
	}
	slices.Sort(names)

	analyzer := a.analyzer()
	for _, name := range names {
		result, err := analyzer.Analyze(demo.Samples[name], name)
		if err != nil {
			return err
		}
		if err := f.Output(report.Result{AnalysisResult: result}); err != nil {
			return err
		}
	}
	return nil
}
