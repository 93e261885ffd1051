package analysis

import (
	"fmt"

	"github.com/TFMV/codescope/parser"
	"github.com/TFMV/codescope/types"
)

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
)

// Suggest produces refactoring recommendations for measured functions. At
// most one suggestion of each type is kept per function name.
func Suggest(f parser.Family, th Thresholds, metrics []types.FunctionMetric) []types.Suggestion {
	var all []types.Suggestion
	for _, fm := range metrics {
		add := func(kind, priority, title, pattern, format string, args ...any) {
			all = append(all, types.Suggestion{
				Function:    fm.Name,
				Line:        fm.StartLine,
				Type:        kind,
				Priority:    priority,
				Title:       title,
				Description: fmt.Sprintf(format, args...),
				Pattern:     pattern,
			})
		}

		if fm.CyclomaticComplexity > th.DecomposeComplexity {
			add("decompose", PriorityHigh, "Decompose Complex Function", "Extract Method",
				"Split '%s' into smaller sub-functions. CC=%d.", fm.Name, fm.CyclomaticComplexity)
		}
		if fm.ParamCount > th.ParameterObject {
			add("parameter-object", PriorityMedium, "Use Parameter Object", parameterObjectPattern(f),
				"Replace %d parameters with a config object.", fm.ParamCount)
		}
		if fm.LOC > th.ExtractMethodLength {
			add("extract-method", PriorityHigh, "Extract Methods", "Extract Method + Single Responsibility",
				"%d LOC: extract logical blocks into named functions.", fm.LOC)
		}
		if fm.MaxNestingDepth > th.FlattenNesting {
			add("flatten", PriorityMedium, "Reduce Nesting", "Guard Clause + Early Return",
				"Nesting depth of %d. Use early returns, guard clauses, or extract nested blocks.", fm.MaxNestingDepth)
		}
	}

	seen := make(map[string]bool, len(all))
	suggestions := []types.Suggestion{}
	for _, s := range all {
		key := s.Function + ":" + s.Type
		if seen[key] {
			continue
		}
		seen[key] = true
		suggestions = append(suggestions, s)
	}
	return suggestions
}

func parameterObjectPattern(f parser.Family) string {
	if f == parser.Indent {
		return "Use @dataclass"
	}
	return "Use Options Object"
}
