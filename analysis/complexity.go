package analysis

import (
	"regexp"

	"github.com/TFMV/codescope/parser"
)

// Decision points per family. The lists are intentionally asymmetric: the
// ternary and null-coalescing operators only exist in the brace family, and
// the indent family spells its boolean operators as keywords. An "else if"
// counts twice, once for the else-if pattern and once for its "if".
var decisionPatterns = map[parser.Family][]*regexp.Regexp{
	parser.Brace: compileAll(
		`\bif\b`, `\belse\s+if\b`, `\bfor\b`, `\bwhile\b`,
		`\bcase\b`, `\bcatch\b`, `\?\s*[^:]`, `&&`, `\|\|`, `\?\?`,
	),
	parser.Indent: compileAll(
		`\bif\b`, `\belif\b`, `\bfor\b`, `\bwhile\b`,
		`\bexcept\b`, `\band\b`, `\bor\b`,
	),
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// CyclomaticComplexity returns 1 plus the number of decision points found in
// normalized text. Every match of every pattern counts.
func CyclomaticComplexity(f parser.Family, normalized string) int {
	cc := 1
	for _, p := range decisionPatterns[f] {
		cc += len(p.FindAllStringIndex(normalized, -1))
	}
	return cc
}
