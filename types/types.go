package types

// SourceUnit is the unit every metric is computed over: either a whole file
// or one extracted function. Body holds normalized source lines.
type SourceUnit struct {
	Name      string
	StartLine int
	EndLine   int
	Body      string
	Params    []string
}

// LOC returns the number of lines spanned by the unit.
func (u SourceUnit) LOC() int {
	return u.EndLine - u.StartLine + 1
}

// TokenTable counts operator and operand occurrences for a single unit.
type TokenTable struct {
	Operators map[string]int
	Operands  map[string]int
}

// NewTokenTable returns an empty table.
func NewTokenTable() TokenTable {
	return TokenTable{
		Operators: make(map[string]int),
		Operands:  make(map[string]int),
	}
}

// Totals returns the total occurrence counts (N1, N2).
func (t TokenTable) Totals() (operators, operands int) {
	for _, n := range t.Operators {
		operators += n
	}
	for _, n := range t.Operands {
		operands += n
	}
	return operators, operands
}
