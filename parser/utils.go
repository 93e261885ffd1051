package parser

import (
	"sort"
	"strings"
	"unicode"

	"github.com/TFMV/codescope/types"
)

// SplitLines splits source on "\n"; a trailing newline yields a final empty line.
func SplitLines(code string) []string {
	return strings.Split(code, "\n")
}

// IsBlank reports whether line holds only whitespace.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// Indentation returns the number of leading whitespace characters of line.
func Indentation(line string) int {
	return len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))
}

// FindUnit returns the first unit with the given name, or nil.
func FindUnit(units []types.SourceUnit, name string) *types.SourceUnit {
	for i := range units {
		if units[i].Name == name {
			return &units[i]
		}
	}
	return nil
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex []int

func newLineIndex(text string) lineIndex {
	idx := lineIndex{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

// lineAt returns the 1-based line containing offset.
func (l lineIndex) lineAt(offset int) int {
	return sort.Search(len(l), func(i int) bool { return l[i] > offset })
}
