package analysis

import (
	"errors"
	"fmt"

	"github.com/TFMV/codescope/cache"
	"github.com/TFMV/codescope/parser"
	"github.com/TFMV/codescope/types"
)

// ErrUnsupportedLanguage is returned when a filename does not map to a
// supported language.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// UnsupportedLanguageError carries the filename that failed detection.
type UnsupportedLanguageError struct {
	Filename string
}

func (e *UnsupportedLanguageError) Error() string {
	if e.Filename == "" {
		return ErrUnsupportedLanguage.Error()
	}
	return fmt.Sprintf("%s: %q", ErrUnsupportedLanguage, e.Filename)
}

func (e *UnsupportedLanguageError) Unwrap() error {
	return ErrUnsupportedLanguage
}

// Analyzer runs the analysis pipeline. The zero value is not usable; create
// one with NewAnalyzer.
type Analyzer struct {
	Thresholds Thresholds
	Cache      *cache.ResultCache
	Workers    int
	Exclude    []string
	// OnFile, if set, is called after each file of a batch is analyzed. It
	// may be called from several goroutines at once.
	OnFile func(path string)
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithThresholds overrides the lint and suggestion limits.
func WithThresholds(th Thresholds) Option {
	return func(a *Analyzer) { a.Thresholds = th }
}

// WithCache enables result caching.
func WithCache(c *cache.ResultCache) Option {
	return func(a *Analyzer) { a.Cache = c }
}

// WithWorkers bounds the number of files analyzed concurrently by AnalyzePaths.
func WithWorkers(n int) Option {
	return func(a *Analyzer) { a.Workers = n }
}

// WithExclude sets the doublestar patterns skipped by AnalyzePaths.
func WithExclude(patterns ...string) Option {
	return func(a *Analyzer) { a.Exclude = patterns }
}

// WithProgress registers a callback run after each file of a batch.
func WithProgress(fn func(path string)) Option {
	return func(a *Analyzer) { a.OnFile = fn }
}

// NewAnalyzer creates an Analyzer with default thresholds and no cache.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		Thresholds: DefaultThresholds(),
		Workers:    8,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze analyzes one source file. An unrecognized filename yields an
// *UnsupportedLanguageError. Returned results may be shared through the
// cache and must not be modified.
func (a *Analyzer) Analyze(code, filename string) (*types.AnalysisResult, error) {
	lang, ok := parser.DetectLanguage(filename)
	if !ok {
		return nil, &UnsupportedLanguageError{Filename: filename}
	}

	if a.Cache == nil {
		return compose(lang, code, filename, a.Thresholds), nil
	}
	key := cache.KeyFor(filename, code)
	if result, ok := a.Cache.Get(key); ok {
		return result, nil
	}
	result := compose(lang, code, filename, a.Thresholds)
	a.Cache.Put(key, result)
	return result, nil
}

// Analyze analyzes one source file with default thresholds.
func Analyze(code, filename string) (*types.AnalysisResult, error) {
	return NewAnalyzer().Analyze(code, filename)
}

func compose(lang parser.Language, code, filename string, th Thresholds) *types.AnalysisResult {
	family := lang.Family
	summary := countLines(family, code)

	normalized := family.Normalize(code)
	units := family.ExtractFunctions(normalized)

	fileHalstead := ComputeHalsteadMetrics(family.Tokenize(normalized))
	summary.FunctionCount = len(units)
	summary.CyclomaticComplexity = CyclomaticComplexity(family, normalized)
	summary.ComplexityLevel = ComplexityLevel(summary.CyclomaticComplexity)
	summary.MaintainabilityIndex = MaintainabilityIndex(fileHalstead.Volume, summary.CyclomaticComplexity, summary.LOC)
	summary.MaintainabilityLevel = MaintainabilityLevel(summary.MaintainabilityIndex)
	summary.Halstead = RoundHalstead(fileHalstead)

	recursive := DetectRecursion(CallGraph(units))
	functions := make([]types.FunctionMetric, len(units))
	maxCC := 1
	for i, u := range units {
		functions[i] = measure(family, u)
		functions[i].IsRecursive = recursive[u.Name]
		maxCC = max(maxCC, functions[i].CyclomaticComplexity)
	}

	heatmap := make([]types.HeatmapEntry, len(functions))
	for i := range functions {
		fm := &functions[i]
		fm.HeatIntensity = float64(fm.CyclomaticComplexity) / float64(maxCC)
		heatmap[i] = types.HeatmapEntry{
			Name:       fm.Name,
			StartLine:  fm.StartLine,
			EndLine:    fm.EndLine,
			Intensity:  fm.HeatIntensity,
			Complexity: fm.CyclomaticComplexity,
			Color:      fm.ComplexityLevel.Color,
		}
	}

	return &types.AnalysisResult{
		Language:            lang.Name,
		Filename:            filename,
		Summary:             summary,
		Functions:           functions,
		LinterIssues:        Linter{Thresholds: th}.Lint(family, normalized, units, functions),
		RefactorSuggestions: Suggest(family, th, functions),
		Heatmap:             heatmap,
	}
}

// measure computes the metrics of one extracted function, treating its body
// as a file of its own.
func measure(family parser.Family, u types.SourceUnit) types.FunctionMetric {
	cc := CyclomaticComplexity(family, u.Body)
	h := ComputeHalsteadMetrics(family.Tokenize(u.Body))
	mi := MaintainabilityIndex(h.Volume, cc, u.LOC())
	params := u.Params
	if params == nil {
		params = []string{}
	}
	return types.FunctionMetric{
		Name:                 u.Name,
		StartLine:            u.StartLine,
		EndLine:              u.EndLine,
		LOC:                  u.LOC(),
		Params:               params,
		ParamCount:           len(params),
		CyclomaticComplexity: cc,
		ComplexityLevel:      ComplexityLevel(cc),
		Halstead:             RoundHalstead(h),
		MaintainabilityIndex: mi,
		MaintainabilityLevel: MaintainabilityLevel(mi),
		MaxNestingDepth:      MaxNestingDepth(family, u.Body),
	}
}

// countLines fills the raw line counts of a summary. Comment detection is
// per line and does not track block comment state.
func countLines(family parser.Family, code string) types.Summary {
	lines := parser.SplitLines(code)
	s := types.Summary{LOC: len(lines)}
	for _, line := range lines {
		switch {
		case parser.IsBlank(line):
			s.BlankLines++
		case family.IsComment(line):
			s.CommentLines++
		default:
			s.SLOC++
		}
	}
	return s
}
