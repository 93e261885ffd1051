package parser

import (
	"regexp"

	"github.com/TFMV/codescope/types"
)

// tokenPattern matches, leftmost-first: identifiers, operator runs, numbers.
var tokenPattern = regexp.MustCompile(`[a-zA-Z_$]\w*|[+\-*/%=!<>&|^~?:]+|\d+\.?\d*`)

// Tokenize scans normalized text and counts operators and operands. Keywords
// and listed operators are operators; other identifiers and numbers are
// operands; unlisted operator runs are dropped.
func (f Family) Tokenize(normalized string) types.TokenTable {
	table := types.NewTokenTable()
	for _, tok := range tokenPattern.FindAllString(normalized, -1) {
		switch {
		case f.IsOperator(tok):
			table.Operators[tok]++
		case isOperandStart(tok[0]):
			table.Operands[tok]++
		}
	}
	return table
}

func isOperandStart(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
