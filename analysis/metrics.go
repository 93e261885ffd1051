package analysis

import (
	"math"

	"github.com/TFMV/codescope/parser"
	"github.com/TFMV/codescope/types"
)

// ComputeHalsteadMetrics derives the Halstead measures from a token table.
// Values are kept at full precision; use RoundHalstead before reporting.
func ComputeHalsteadMetrics(t types.TokenTable) types.HalsteadMetrics {
	n1 := len(t.Operators)
	n2 := len(t.Operands)
	N1, N2 := t.Totals()

	vocabulary := n1 + n2
	length := N1 + N2

	var volume, difficulty float64
	if length > 0 && vocabulary > 0 {
		volume = float64(length) * math.Log2(float64(vocabulary))
	}
	if n2 > 0 {
		difficulty = (float64(n1) / 2.0) * (float64(N2) / float64(n2))
	}
	effort := volume * difficulty

	return types.HalsteadMetrics{
		UniqueOperators: n1,
		UniqueOperands:  n2,
		TotalOperators:  N1,
		TotalOperands:   N2,
		Vocabulary:      vocabulary,
		Length:          length,
		Volume:          volume,
		Difficulty:      difficulty,
		Effort:          effort,
		Time:            effort / 18,
		Bugs:            volume / 3000,
	}
}

// RoundHalstead rounds the derived measures for output: two decimals, three
// for bugs.
func RoundHalstead(h types.HalsteadMetrics) types.HalsteadMetrics {
	h.Volume = round(h.Volume, 2)
	h.Difficulty = round(h.Difficulty, 2)
	h.Effort = round(h.Effort, 2)
	h.Time = round(h.Time, 2)
	h.Bugs = round(h.Bugs, 3)
	return h
}

// MaintainabilityIndex computes the maintainability score in [0, 100] from
// Halstead volume, cyclomatic complexity and line count. Degenerate inputs
// score 100.
func MaintainabilityIndex(volume float64, complexity, loc int) float64 {
	if loc <= 0 || volume <= 0 {
		return 100
	}
	mi := 171 -
		5.2*math.Log(volume) -
		0.23*float64(complexity) -
		16.2*math.Log(float64(loc))
	mi = mi * 100 / 171
	return round(max(0, min(100, mi)), 2)
}

// MaxNestingDepth returns the deepest structural nesting inside body. Brace
// bodies count raw brace depth across the whole text; indent bodies measure
// four-column steps relative to the first non-blank line.
func MaxNestingDepth(f parser.Family, body string) int {
	maxDepth := 0
	switch f {
	case parser.Brace:
		depth := 0
		for _, ch := range body {
			switch ch {
			case '{':
				depth++
			case '}':
				depth--
			}
			maxDepth = max(maxDepth, depth)
		}
	case parser.Indent:
		base := -1
		for _, line := range parser.SplitLines(body) {
			if parser.IsBlank(line) {
				continue
			}
			indent := parser.Indentation(line)
			if base < 0 {
				base = indent
			}
			maxDepth = max(maxDepth, (indent-base)/4)
		}
	}
	return maxDepth
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
