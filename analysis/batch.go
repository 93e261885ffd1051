package analysis

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/TFMV/codescope/parser"
	"github.com/TFMV/codescope/types"
)

// DefaultExclude lists the directories and generated files skipped when
// walking a tree.
var DefaultExclude = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/dist/**",
	"**/build/**",
	"**/__pycache__/**",
	"**/.venv/**",
	"**/*.min.js",
}

// Excluded reports whether the slash-separated path matches any pattern.
// Malformed patterns never match.
func Excluded(patterns []string, path string) bool {
	path = filepath.ToSlash(path)
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, path); err == nil && matched {
			return true
		}
	}
	return false
}

// CollectFiles expands paths into the supported source files they contain.
// Directories are walked recursively and unsupported files inside them are
// ignored; explicitly named files that are unsupported or excluded are
// returned in skipped. Both lists are sorted.
func CollectFiles(paths []string, exclude []string) (files, skipped []string, err error) {
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to stat %s: %w", root, err)
		}
		if !info.IsDir() {
			if parser.IsSupported(root) && !Excluded(exclude, root) {
				add(root)
			} else {
				skipped = append(skipped, root)
			}
			continue
		}

		if err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("failed to walk directory: %w", err)
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			if d.IsDir() {
				if path != root && Excluded(exclude, rel+"/") {
					return filepath.SkipDir
				}
				return nil
			}
			if parser.IsSupported(path) && !Excluded(exclude, rel) {
				add(path)
			}
			return nil
		}); err != nil {
			return nil, nil, fmt.Errorf("failed to scan directory %s: %w", root, err)
		}
	}

	sort.Strings(files)
	sort.Strings(skipped)
	return files, skipped, nil
}

// AnalyzePaths analyzes every supported file under paths concurrently. The
// report lists files sorted by path.
func (a *Analyzer) AnalyzePaths(ctx context.Context, paths ...string) (*types.BatchReport, error) {
	files, skipped, err := CollectFiles(paths, a.Exclude)
	if err != nil {
		return nil, err
	}

	g, ctx := errgroup.WithContext(ctx)
	if a.Workers > 0 {
		g.SetLimit(a.Workers)
	}
	resultCh := make(chan types.FileReport, len(files))

	for _, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			code, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			result, err := a.Analyze(string(code), path)
			if err != nil {
				return fmt.Errorf("error analyzing %s: %w", path, err)
			}
			if a.OnFile != nil {
				a.OnFile(path)
			}
			resultCh <- types.FileReport{Path: path, Result: result}
			return nil
		})
	}

	err = g.Wait()
	close(resultCh)
	if err != nil {
		return nil, err
	}

	report := &types.BatchReport{
		Files:   make([]types.FileReport, 0, len(files)),
		Skipped: skipped,
	}
	if report.Skipped == nil {
		report.Skipped = []string{}
	}
	for res := range resultCh {
		report.Files = append(report.Files, res)
	}
	slices.SortFunc(report.Files, func(x, y types.FileReport) int {
		return strings.Compare(x.Path, y.Path)
	})
	report.Stats = Summarize(report.Files)
	return report, nil
}

// Summarize aggregates file-level metrics over a batch. Quantiles use the
// empirical distribution of file complexity.
func Summarize(files []types.FileReport) types.BatchStats {
	stats := types.BatchStats{Files: len(files)}
	if len(files) == 0 {
		return stats
	}

	complexity := make([]float64, len(files))
	maintainability := make([]float64, len(files))
	for i, f := range files {
		s := f.Result.Summary
		complexity[i] = float64(s.CyclomaticComplexity)
		maintainability[i] = s.MaintainabilityIndex
		stats.Functions += s.FunctionCount
		stats.Issues += len(f.Result.LinterIssues)
		if s.CyclomaticComplexity > stats.MaxComplexity {
			stats.MaxComplexity = s.CyclomaticComplexity
			stats.MaxComplexityFile = f.Path
		}
	}

	stats.MeanComplexity = round(stat.Mean(complexity, nil), 2)
	stats.MeanMaintainability = round(stat.Mean(maintainability, nil), 2)
	sort.Float64s(complexity)
	stats.P50Complexity = stat.Quantile(0.5, stat.Empirical, complexity, nil)
	stats.P90Complexity = stat.Quantile(0.9, stat.Empirical, complexity, nil)
	return stats
}
