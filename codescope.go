// Package codescope measures the complexity and maintainability of
// JavaScript, TypeScript and Python source without a language toolchain.
//
// Most callers only need Analyze. Long-lived callers that want caching,
// custom thresholds or directory scans should build an analysis.Analyzer.
package codescope

import (
	"context"

	"github.com/TFMV/codescope/analysis"
	"github.com/TFMV/codescope/parser"
	"github.com/TFMV/codescope/types"
)

// Analyze runs the full pipeline on one piece of source code. The filename
// only selects the language. Unsupported extensions return an error that
// matches analysis.ErrUnsupportedLanguage.
func Analyze(code, filename string) (*types.AnalysisResult, error) {
	return analysis.Analyze(code, filename)
}

// AnalyzePaths analyzes files and directory trees with default settings.
func AnalyzePaths(ctx context.Context, paths ...string) (*types.BatchReport, error) {
	return analysis.NewAnalyzer(analysis.WithExclude(analysis.DefaultExclude...)).AnalyzePaths(ctx, paths...)
}

// Detect reports the language name for filename, or "unknown" if it is
// unsupported.
func Detect(filename string) string {
	lang, _ := parser.DetectLanguage(filename)
	return lang.Name
}
