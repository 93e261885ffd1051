package parser

import (
	"regexp"
	"strings"
)

// Placeholder replaces the content of every string, char and template literal.
const Placeholder = `""`

// stripRule removes or replaces every match of pattern. Newlines inside a
// match are always kept so line numbers stay valid after normalization.
type stripRule struct {
	pattern     *regexp.Regexp
	replacement string
}

func (r stripRule) apply(code string) string {
	return r.pattern.ReplaceAllStringFunc(code, func(m string) string {
		n := strings.Count(m, "\n")
		if n == 0 {
			return r.replacement
		}
		return r.replacement + strings.Repeat("\n", n)
	})
}

// Quoted literals never span lines in either family, which keeps a stray
// apostrophe inside a comment from swallowing the code that follows it.
var (
	singleQuoted = regexp.MustCompile(`'[^'\n]*'`)
	doubleQuoted = regexp.MustCompile(`"[^"\n]*"`)
)

// Order matters. Block comments go before line comments so "//" inside a
// block comment is harmless; a "//" inside a string literal still truncates
// the line, which is an accepted approximation.
var braceStripRules = []stripRule{
	{pattern: regexp.MustCompile(`/\*[\s\S]*?\*/`)},
	{pattern: regexp.MustCompile(`//.*`)},
	{pattern: regexp.MustCompile("`[^`]*`"), replacement: Placeholder},
	{pattern: singleQuoted, replacement: Placeholder},
	{pattern: doubleQuoted, replacement: Placeholder},
}

// Triple-quoted blocks go first so a "#" inside a docstring does not cut the
// line, then quoted literals, then "#" comments.
var indentStripRules = []stripRule{
	{pattern: regexp.MustCompile(`'''[\s\S]*?'''`)},
	{pattern: regexp.MustCompile(`"""[\s\S]*?"""`)},
	{pattern: singleQuoted, replacement: Placeholder},
	{pattern: doubleQuoted, replacement: Placeholder},
	{pattern: regexp.MustCompile(`#.*`)},
}

// Normalize strips comments and literal bodies from code. The result has
// exactly as many lines as the input.
func (f Family) Normalize(code string) string {
	for _, rule := range f.spec().strip {
		code = rule.apply(code)
	}
	return code
}
