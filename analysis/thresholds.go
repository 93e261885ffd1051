package analysis

// Thresholds configures the rule engine and the suggestion generator. A rule
// fires when a value is strictly greater than its limit.
type Thresholds struct {
	MaxFunctionLength      int     `koanf:"max_function_length"`
	CriticalFunctionLength int     `koanf:"critical_function_length"`
	MaxNestingDepth        int     `koanf:"max_nesting_depth"`
	CriticalNestingDepth   int     `koanf:"critical_nesting_depth"`
	MaxParams              int     `koanf:"max_params"`
	MaxReturns             int     `koanf:"max_returns"`
	MaxComplexity          int     `koanf:"max_complexity"`
	CriticalComplexity     int     `koanf:"critical_complexity"`
	MaxSwitchCases         int     `koanf:"max_switch_cases"`
	DuplicateSimilarity    float64 `koanf:"duplicate_similarity"`
	DuplicateMinLength     int     `koanf:"duplicate_min_length"`

	DecomposeComplexity int `koanf:"decompose_complexity"`
	ParameterObject     int `koanf:"parameter_object"`
	ExtractMethodLength int `koanf:"extract_method_length"`
	FlattenNesting      int `koanf:"flatten_nesting"`
}

// DefaultThresholds returns the stock limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxFunctionLength:      50,
		CriticalFunctionLength: 100,
		MaxNestingDepth:        3,
		CriticalNestingDepth:   5,
		MaxParams:              5,
		MaxReturns:             3,
		MaxComplexity:          10,
		CriticalComplexity:     20,
		MaxSwitchCases:         10,
		DuplicateSimilarity:    0.8,
		DuplicateMinLength:     5,

		DecomposeComplexity: 15,
		ParameterObject:     5,
		ExtractMethodLength: 50,
		FlattenNesting:      3,
	}
}
