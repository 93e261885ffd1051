package analysis

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/TFMV/codescope/parser"
	"github.com/TFMV/codescope/types"
)

const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
)

var returnPattern = regexp.MustCompile(`\breturn\b`)

var switchPatterns = map[parser.Family]struct{ block, cases *regexp.Regexp }{
	parser.Brace: {
		block: regexp.MustCompile(`switch\s*\([^)]*\)\s*\{`),
		cases: regexp.MustCompile(`\bcase\b`),
	},
	parser.Indent: {
		block: regexp.MustCompile(`match\s+\w+\s*:`),
		cases: regexp.MustCompile(`(?m)^\s*case\s+`),
	},
}

// Linter evaluates the rule set against measured functions.
type Linter struct {
	Thresholds Thresholds
}

// Lint checks every function independently, then runs the file-wide
// large-switch and duplicate-logic rules. metrics[i] must describe units[i].
func (l Linter) Lint(f parser.Family, normalized string, units []types.SourceUnit, metrics []types.FunctionMetric) []types.Issue {
	th := l.Thresholds
	issues := []types.Issue{}

	for i, fm := range metrics {
		if fm.LOC > th.MaxFunctionLength {
			endLine := fm.EndLine
			issues = append(issues, types.Issue{
				Type:     SeverityWarning,
				Rule:     "max-function-length",
				Message:  fmt.Sprintf("Function '%s' is %d lines long (max %d)", fm.Name, fm.LOC, th.MaxFunctionLength),
				Line:     fm.StartLine,
				EndLine:  &endLine,
				Severity: escalate(fm.LOC, th.CriticalFunctionLength),
			})
		}
		if fm.MaxNestingDepth > th.MaxNestingDepth {
			issues = append(issues, warning("max-nesting-depth", fm.StartLine,
				escalate(fm.MaxNestingDepth, th.CriticalNestingDepth),
				"Function '%s' has nesting depth of %d (max %d)", fm.Name, fm.MaxNestingDepth, th.MaxNestingDepth))
		}
		if fm.ParamCount > th.MaxParams {
			issues = append(issues, warning("max-params", fm.StartLine, SeverityWarning,
				"Function '%s' has %d parameters (max %d)", fm.Name, fm.ParamCount, th.MaxParams))
		}
		if n := len(returnPattern.FindAllStringIndex(units[i].Body, -1)); n > th.MaxReturns {
			issues = append(issues, types.Issue{
				Type:     SeverityInfo,
				Rule:     "multiple-returns",
				Message:  fmt.Sprintf("Function '%s' has %d return statements", fm.Name, n),
				Line:     fm.StartLine,
				Severity: SeverityInfo,
			})
		}
		if fm.CyclomaticComplexity > th.MaxComplexity {
			issues = append(issues, warning("high-complexity", fm.StartLine,
				escalate(fm.CyclomaticComplexity, th.CriticalComplexity),
				"Function '%s' has cyclomatic complexity of %d (threshold: %d)", fm.Name, fm.CyclomaticComplexity, th.MaxComplexity))
		}
	}

	if issue, ok := l.largeSwitch(f, normalized); ok {
		issues = append(issues, issue)
	}
	return append(issues, l.duplicates(units)...)
}

func warning(rule string, line int, severity, format string, args ...any) types.Issue {
	return types.Issue{
		Type:     SeverityWarning,
		Rule:     rule,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Severity: severity,
	}
}

func escalate(v, critical int) string {
	if v > critical {
		return SeverityCritical
	}
	return SeverityWarning
}

// largeSwitch reports a file with at least one switch/match block whose
// file-wide case count exceeds the limit. The issue points at the first block.
func (l Linter) largeSwitch(f parser.Family, normalized string) (types.Issue, bool) {
	p, ok := switchPatterns[f]
	if !ok {
		return types.Issue{}, false
	}
	loc := p.block.FindStringIndex(normalized)
	if loc == nil {
		return types.Issue{}, false
	}
	cases := len(p.cases.FindAllStringIndex(normalized, -1))
	if cases <= l.Thresholds.MaxSwitchCases {
		return types.Issue{}, false
	}
	line := strings.Count(normalized[:loc[0]], "\n") + 1
	return warning("large-switch", line, SeverityWarning,
		"Large switch/match block with %d cases, consider a lookup table or strategy pattern", cases), true
}

// duplicates compares every pair of functions by the Jaccard similarity of
// their whitespace-separated token sets.
func (l Linter) duplicates(units []types.SourceUnit) []types.Issue {
	var issues []types.Issue
	sets := make([]map[string]struct{}, len(units))
	for i, u := range units {
		sets[i] = tokenSet(u.Body)
	}
	for i := range units {
		if units[i].LOC() <= l.Thresholds.DuplicateMinLength {
			continue
		}
		for j := i + 1; j < len(units); j++ {
			sim := Jaccard(sets[i], sets[j])
			if sim <= l.Thresholds.DuplicateSimilarity {
				continue
			}
			issues = append(issues, types.Issue{
				Type: SeverityInfo,
				Rule: "duplicate-logic",
				Message: fmt.Sprintf("Functions '%s' and '%s' share %d%% similar structure, consider extracting common logic",
					units[i].Name, units[j].Name, int(math.Round(sim*100))),
				Line:     units[i].StartLine,
				Severity: SeverityInfo,
			})
		}
	}
	return issues
}

func tokenSet(body string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(body) {
		set[tok] = struct{}{}
	}
	return set
}

// Jaccard returns |a ∩ b| / |a ∪ b|, or 0 when either set is empty.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(a)+len(b)-shared)
}
