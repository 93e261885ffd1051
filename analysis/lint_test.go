package analysis_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/codescope/analysis"
	"github.com/TFMV/codescope/types"
)

func findIssue(issues []types.Issue, rule string) *types.Issue {
	for i := range issues {
		if issues[i].Rule == rule {
			return &issues[i]
		}
	}
	return nil
}

func TestLint_LongFunctionWithManyParams(t *testing.T) {
	var b strings.Builder
	b.WriteString("function big(a, b, c, d, e, f) {\n")
	b.WriteString("  if (a) { return 1; }\n")
	b.WriteString("  if (b) { return 2; }\n")
	b.WriteString("  if (c) { return 3; }\n")
	for i := 0; i < 55; i++ {
		b.WriteString("  x++;\n")
	}
	b.WriteString("  return 4;\n}")

	result, err := analysis.Analyze(b.String(), "big.js")
	require.NoError(t, err)
	require.Len(t, result.Functions, 1)
	assert.Equal(t, 61, result.Functions[0].LOC)

	var rules []string
	for _, issue := range result.LinterIssues {
		rules = append(rules, issue.Rule)
	}
	assert.Equal(t, []string{"max-function-length", "max-params", "multiple-returns"}, rules)

	length := result.LinterIssues[0]
	assert.Equal(t, "warning", length.Severity)
	assert.Equal(t, "Function 'big' is 61 lines long (max 50)", length.Message)
	require.NotNil(t, length.EndLine)
	assert.Equal(t, 61, *length.EndLine)

	params := result.LinterIssues[1]
	assert.Equal(t, "Function 'big' has 6 parameters (max 5)", params.Message)
	assert.Nil(t, params.EndLine)

	returns := result.LinterIssues[2]
	assert.Equal(t, "info", returns.Type)
	assert.Equal(t, "info", returns.Severity)
	assert.Equal(t, "Function 'big' has 4 return statements", returns.Message)

	var kinds []string
	for _, s := range result.RefactorSuggestions {
		kinds = append(kinds, s.Type+"/"+s.Pattern)
	}
	assert.Equal(t, []string{
		"parameter-object/Use Options Object",
		"extract-method/Extract Method + Single Responsibility",
	}, kinds)
}

func TestLint_CriticalLength(t *testing.T) {
	code := "function huge() {\n" + strings.Repeat("  x++;\n", 120) + "}"
	result, err := analysis.Analyze(code, "huge.js")
	require.NoError(t, err)

	issue := findIssue(result.LinterIssues, "max-function-length")
	require.NotNil(t, issue)
	assert.Equal(t, "critical", issue.Severity)
}

func TestLint_HighComplexity(t *testing.T) {
	tests := []struct {
		branches     int
		wantSeverity string
	}{
		{9, ""},
		{10, "warning"},
		{19, "warning"},
		{20, "critical"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.branches), func(t *testing.T) {
			code := "function branchy(x) {\n" + strings.Repeat("  if (x) x++;\n", tt.branches) + "}"
			result, err := analysis.Analyze(code, "branchy.js")
			require.NoError(t, err)

			issue := findIssue(result.LinterIssues, "high-complexity")
			if tt.wantSeverity == "" {
				assert.Nil(t, issue)
				return
			}
			require.NotNil(t, issue)
			assert.Equal(t, tt.wantSeverity, issue.Severity)
			assert.Equal(t,
				fmt.Sprintf("Function 'branchy' has cyclomatic complexity of %d (threshold: 10)", tt.branches+1),
				issue.Message)
		})
	}
}

func TestLint_LargeSwitch(t *testing.T) {
	var b strings.Builder
	b.WriteString("function pick(k) {\n  switch (k) {\n")
	for i := 0; i < 11; i++ {
		fmt.Fprintf(&b, "    case %d: return %d;\n", i, i)
	}
	b.WriteString("  }\n}")

	result, err := analysis.Analyze(b.String(), "pick.js")
	require.NoError(t, err)

	issue := findIssue(result.LinterIssues, "large-switch")
	require.NotNil(t, issue)
	assert.Equal(t, 2, issue.Line)
	assert.Contains(t, issue.Message, "11 cases")
}

func TestLint_LargeMatch(t *testing.T) {
	var b strings.Builder
	b.WriteString("match command:\n")
	for i := 0; i < 11; i++ {
		fmt.Fprintf(&b, "    case %d:\n        pass\n", i)
	}

	result, err := analysis.Analyze(b.String(), "cmd.py")
	require.NoError(t, err)
	issue := findIssue(result.LinterIssues, "large-switch")
	require.NotNil(t, issue)
	assert.Equal(t, 1, issue.Line)

	small, err := analysis.Analyze("match command:\n    case 1:\n        pass\n", "cmd.py")
	require.NoError(t, err)
	assert.Nil(t, findIssue(small.LinterIssues, "large-switch"))
}

func TestLint_DuplicateLogic(t *testing.T) {
	fn := `function %s(x) {
  let total = 0;
  for (let i = 0; i < x; i++) {
    total += i;
  }
  return total;
}
`
	code := fmt.Sprintf(fn, "alpha") + fmt.Sprintf(fn, "beta")
	result, err := analysis.Analyze(code, "dup.js")
	require.NoError(t, err)
	require.Len(t, result.Functions, 2)

	issue := findIssue(result.LinterIssues, "duplicate-logic")
	require.NotNil(t, issue)
	assert.Equal(t, 1, issue.Line)
	assert.Equal(t, "info", issue.Severity)
	assert.Contains(t, issue.Message, "'alpha' and 'beta' share 89%")
}

func TestSuggest_DataclassPattern(t *testing.T) {
	code := "class Job:\n    def run(self, a, b, c, d, e, f):\n        pass\n"
	result, err := analysis.Analyze(code, "job.py")
	require.NoError(t, err)
	require.Len(t, result.Functions, 1)
	assert.Equal(t, 6, result.Functions[0].ParamCount)

	require.Len(t, result.RefactorSuggestions, 1)
	s := result.RefactorSuggestions[0]
	assert.Equal(t, "parameter-object", s.Type)
	assert.Equal(t, "medium", s.Priority)
	assert.Equal(t, "Use @dataclass", s.Pattern)
	assert.Equal(t, "Replace 6 parameters with a config object.", s.Description)
}

func TestSuggest_DedupeByFunctionAndType(t *testing.T) {
	metrics := []types.FunctionMetric{
		{Name: "twin", StartLine: 1, CyclomaticComplexity: 30},
		{Name: "twin", StartLine: 40, CyclomaticComplexity: 25},
		{Name: "other", StartLine: 80, CyclomaticComplexity: 16},
	}
	suggestions := analysis.Suggest(0, analysis.DefaultThresholds(), metrics)
	require.Len(t, suggestions, 2)
	assert.Equal(t, 1, suggestions[0].Line)
	assert.Contains(t, suggestions[0].Description, "CC=30.")
	assert.Equal(t, "other", suggestions[1].Function)
}
