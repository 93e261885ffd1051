package parser

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/TFMV/codescope/types"
)

const (
	// MaxUnitLines is the length a brace-delimited unit is truncated to when
	// its closing brace cannot be found.
	MaxUnitLines = 50
	// MaxScanLines bounds the forward scan for a closing brace.
	MaxScanLines = 10000
)

const ident = `[A-Za-z_$][\w$]*`

// Group 1 is always the name; the first participating group after it holds
// the parameter list.
var bracePatterns = []*regexp.Regexp{
	// function name(params) / async function* name(params)
	regexp.MustCompile(`(?:async\s+)?\bfunction(?:\s*\*\s*|\s+)(` + ident + `)\s*\(([^)]*)\)`),
	// const name = [async] function(params) | (params) => | param =>
	regexp.MustCompile(`\b(?:const|let|var)\s+(` + ident + `)\s*=\s*(?:async\s+)?(?:function\b\s*\*?\s*(?:` + ident + `)?\s*\(([^)]*)\)|\(([^)]*)\)(?:\s*:[^=;{}]*)?\s*=>|(` + ident + `)\s*=>)`),
	// name(params) {
	regexp.MustCompile(`\b(` + ident + `)\s*\(([^)]*)\)\s*\{`),
	// name = [async] (params) =>
	regexp.MustCompile(`(?:async\s+)?\b(` + ident + `)\s*=\s*(?:async\s+)?\(([^)]*)\)\s*=>`),
}

var defPattern = regexp.MustCompile(`(?m)^([ \t]*)(?:async[ \t]+)?def[ \t]+(\w+)[ \t]*\(([^)]*)\)`)

// ExtractFunctions locates function-like units in normalized source. Units
// are ordered by start line; their bodies are the normalized lines they span.
func (f Family) ExtractFunctions(normalized string) []types.SourceUnit {
	lines := SplitLines(normalized)
	var units []types.SourceUnit
	switch f {
	case Brace:
		units = extractBraceUnits(normalized, lines)
	case Indent:
		units = extractIndentUnits(normalized, lines)
	}
	sort.SliceStable(units, func(i, j int) bool {
		return units[i].StartLine < units[j].StartLine
	})
	return units
}

func extractBraceUnits(text string, lines []string) []types.SourceUnit {
	idx := newLineIndex(text)
	seen := make(map[string]bool)
	var units []types.SourceUnit

	for _, pattern := range bracePatterns {
		for _, m := range pattern.FindAllStringSubmatchIndex(text, -1) {
			name := text[m[2]:m[3]]
			if Brace.IsKeyword(name) {
				continue
			}

			startLine := idx.lineAt(m[0])
			key := name + ":" + strconv.Itoa(startLine)
			if seen[key] {
				continue
			}
			seen[key] = true

			endLine := findBraceEnd(lines, startLine-1)
			units = append(units, types.SourceUnit{
				Name:      name,
				StartLine: startLine,
				EndLine:   endLine,
				Body:      strings.Join(lines[startLine-1:endLine], "\n"),
				Params:    splitParams(firstGroup(text, m, 2)),
			})
		}
	}
	return units
}

// firstGroup returns the first participating capture group at or after group.
func firstGroup(text string, m []int, group int) string {
	for g := group; 2*g+1 < len(m); g++ {
		if m[2*g] >= 0 {
			return text[m[2*g]:m[2*g+1]]
		}
	}
	return ""
}

// findBraceEnd returns the 1-based line on which the brace depth, counted
// from startIdx, first returns to zero after opening. When no such line is
// found within MaxScanLines the unit is truncated to MaxUnitLines.
func findBraceEnd(lines []string, startIdx int) int {
	limit := min(len(lines), startIdx+MaxScanLines)
	depth := 0
	opened := false
	for i := startIdx; i < limit; i++ {
		for _, ch := range lines[i] {
			switch ch {
			case '{':
				depth++
				opened = true
			case '}':
				depth--
			}
			if opened && depth == 0 {
				return i + 1
			}
		}
	}
	return min(startIdx+MaxUnitLines, len(lines))
}

func extractIndentUnits(text string, lines []string) []types.SourceUnit {
	idx := newLineIndex(text)
	var units []types.SourceUnit

	for _, m := range defPattern.FindAllStringSubmatchIndex(text, -1) {
		indent := m[3] - m[2]
		startLine := idx.lineAt(m[0])
		endLine := findIndentEnd(lines, startLine-1, indent)

		params := []string{}
		for _, p := range splitParams(text[m[6]:m[7]]) {
			p, _, _ = strings.Cut(p, ":")
			p, _, _ = strings.Cut(p, "=")
			p = strings.TrimSpace(p)
			if p == "" || p == "self" || p == "cls" {
				continue
			}
			params = append(params, p)
		}

		units = append(units, types.SourceUnit{
			Name:      text[m[4]:m[5]],
			StartLine: startLine,
			EndLine:   endLine,
			Body:      strings.Join(lines[startLine-1:endLine], "\n"),
			Params:    params,
		})
	}
	return units
}

// findIndentEnd returns the 1-based last line of a definition at column
// base: the line before the first later non-blank line indented at or left
// of base, or the last line of the file.
func findIndentEnd(lines []string, startIdx, base int) int {
	for i := startIdx + 1; i < len(lines); i++ {
		if IsBlank(lines[i]) {
			continue
		}
		if Indentation(lines[i]) <= base {
			return i
		}
	}
	return len(lines)
}

func splitParams(raw string) []string {
	params := []string{}
	if strings.TrimSpace(raw) == "" {
		return params
	}
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			params = append(params, p)
		}
	}
	return params
}
