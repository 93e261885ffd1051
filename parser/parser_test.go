package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/codescope/demo"
	"github.com/TFMV/codescope/parser"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		filename string
		want     string
		wantOK   bool
	}{
		{"a.js", "javascript", true},
		{"a.jsx", "javascript", true},
		{"a.mjs", "javascript", true},
		{"a.cjs", "javascript", true},
		{"a.ts", "typescript", true},
		{"a.tsx", "typescript", true},
		{"a.py", "python", true},
		{"a.pyw", "python", true},
		{"SRC/App.JS", "javascript", true},
		{"archive.tar.py", "python", true},
		{"query.sql", "unknown", false},
		{"Makefile", "unknown", false},
		{"", "unknown", false},
		{".js", "javascript", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			lang, ok := parser.DetectLanguage(tt.filename)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, lang.Name)
			assert.Equal(t, tt.wantOK, parser.IsSupported(tt.filename))
		})
	}
}

func TestDetectLanguage_Family(t *testing.T) {
	js, _ := parser.DetectLanguage("a.ts")
	py, _ := parser.DetectLanguage("a.py")
	assert.Equal(t, parser.Brace, js.Family)
	assert.Equal(t, parser.Indent, py.Family)
	assert.Equal(t, "brace", js.Family.String())
	assert.Equal(t, "indent", py.Family.String())
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		family parser.Family
		input  string
		want   string
	}{
		{
			name:   "line comment and string",
			family: parser.Brace,
			input:  `const s = "if (x) {"; // if comment`,
			want:   `const s = ""; `,
		},
		{
			name:   "block comment keeps lines",
			family: parser.Brace,
			input:  "a /* if\nwhile */ b",
			want:   "a \n b",
		},
		{
			name:   "template literal",
			family: parser.Brace,
			input:  "let t = `for ${x}\nwhile`;",
			want:   "let t = \"\"\n;",
		},
		{
			name:   "single quotes",
			family: parser.Brace,
			input:  `x = 'case' + "catch"`,
			want:   `x = "" + ""`,
		},
		{
			name:   "hash inside string",
			family: parser.Indent,
			input:  `x = '#'  # comment`,
			want:   `x = ""  `,
		},
		{
			name:   "docstring with comment marker",
			family: parser.Indent,
			input:  "def f():\n    \"\"\"doc\n    # if\n    \"\"\"\n    return 1",
			want:   "def f():\n    \n\n\n    return 1",
		},
		{
			name:   "apostrophe in comment stays on its line",
			family: parser.Indent,
			input:  "# don't\nif x:\n    y = 'a'",
			want:   "\nif x:\n    y = \"\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.family.Normalize(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, strings.Count(tt.input, "\n"), strings.Count(got, "\n"))
		})
	}
}

func TestNormalize_PreservesLineCount(t *testing.T) {
	for name, code := range demo.Samples {
		lang, ok := parser.DetectLanguage(name)
		require.True(t, ok)
		normalized := lang.Family.Normalize(code)
		assert.Equal(t, len(parser.SplitLines(code)), len(parser.SplitLines(normalized)), name)
	}
}

func TestTokenize(t *testing.T) {
	table := parser.Brace.Tokenize("let x = a + 1;")
	assert.Equal(t, map[string]int{"let": 1, "=": 1, "+": 1}, table.Operators)
	assert.Equal(t, map[string]int{"x": 1, "a": 1, "1": 1}, table.Operands)

	n1, n2 := table.Totals()
	assert.Equal(t, 3, n1)
	assert.Equal(t, 3, n2)
}

func TestTokenize_DropsUnlistedOperators(t *testing.T) {
	table := parser.Brace.Tokenize("a <=> b")
	assert.Empty(t, table.Operators)
	assert.Equal(t, map[string]int{"a": 1, "b": 1}, table.Operands)
}

func TestTokenize_PythonKeywordOperators(t *testing.T) {
	table := parser.Indent.Tokenize("if a and not b:\n    return 3.5")
	assert.Equal(t, map[string]int{"if": 1, "and": 1, "not": 1, ":": 1, "return": 1}, table.Operators)
	assert.Equal(t, map[string]int{"a": 1, "b": 1, "3.5": 1}, table.Operands)
}

func TestExtractFunctions_JavaScriptSample(t *testing.T) {
	units := parser.Brace.ExtractFunctions(parser.Brace.Normalize(demo.JavaScript))
	require.Len(t, units, 2)

	assert.Equal(t, "processOrder", units[0].Name)
	assert.Equal(t, 1, units[0].StartLine)
	assert.Equal(t, 27, units[0].EndLine)
	assert.Equal(t, []string{"items", "user", "config", "discountRules"}, units[0].Params)

	assert.Equal(t, "validateItem", units[1].Name)
	assert.Equal(t, 29, units[1].StartLine)
	assert.Equal(t, 33, units[1].EndLine)
	assert.Equal(t, 5, units[1].LOC())
	assert.Equal(t, []string{"item"}, units[1].Params)
	assert.True(t, strings.HasPrefix(units[1].Body, "function validateItem(item) {"))
}

func TestExtractFunctions_PythonSample(t *testing.T) {
	units := parser.Indent.ExtractFunctions(parser.Indent.Normalize(demo.Python))
	require.Len(t, units, 2)

	assert.Equal(t, "process_data_pipeline", units[0].Name)
	assert.Equal(t, 1, units[0].StartLine)
	assert.Equal(t, 44, units[0].EndLine)
	assert.Equal(t, []string{"raw_data", "config", "validators", "transformers"}, units[0].Params)

	assert.Equal(t, "validate_config", units[1].Name)
	assert.Equal(t, 45, units[1].StartLine)
	assert.Equal(t, 50, units[1].EndLine)
	assert.Equal(t, []string{"config"}, units[1].Params)
}

func TestExtractFunctions_BraceForms(t *testing.T) {
	code := `const add = (a, b) => a + b;
const square = x => x * x;
handler = async (req, res) => {
  return res;
};
async function* gen(n) {
  yield n;
}
let legacy = function (p) {
  return p;
};`

	units := parser.Brace.ExtractFunctions(parser.Brace.Normalize(code))

	type fn struct {
		name   string
		line   int
		params []string
	}
	var got []fn
	for _, u := range units {
		got = append(got, fn{u.Name, u.StartLine, u.Params})
	}
	assert.Equal(t, []fn{
		{"add", 1, []string{"a", "b"}},
		{"square", 2, []string{"x"}},
		{"handler", 3, []string{"req", "res"}},
		{"gen", 6, []string{"n"}},
		{"legacy", 9, []string{"p"}},
	}, got)
}

func TestExtractFunctions_KeywordsAreNotFunctions(t *testing.T) {
	code := "if (x) {\n}\nwhile (y) {\n}\nswitch (z) {\n}\ncatch (e) {\n}"
	assert.Empty(t, parser.Brace.ExtractFunctions(code))
}

func TestExtractFunctions_UnclosedBraceIsTruncated(t *testing.T) {
	code := "function broken() {" + strings.Repeat("\nx++;", 60)
	units := parser.Brace.ExtractFunctions(code)
	require.Len(t, units, 1)
	assert.Equal(t, 1, units[0].StartLine)
	assert.Equal(t, parser.MaxUnitLines, units[0].EndLine)
}

func TestExtractFunctions_PythonMethods(t *testing.T) {
	code := "class A:\n    def run(self, a: int, b=2, *args, **kwargs):\n        return a\n\n    @classmethod\n    def make(cls):\n        pass\n\nasync def fetch(url):\n    pass"
	units := parser.Indent.ExtractFunctions(code)
	require.Len(t, units, 3)

	assert.Equal(t, "run", units[0].Name)
	assert.Equal(t, 2, units[0].StartLine)
	assert.Equal(t, 4, units[0].EndLine)
	assert.Equal(t, []string{"a", "b", "*args", "**kwargs"}, units[0].Params)

	assert.Equal(t, "make", units[1].Name)
	assert.Equal(t, 6, units[1].StartLine)
	assert.Equal(t, 8, units[1].EndLine)
	assert.Empty(t, units[1].Params)

	assert.Equal(t, "fetch", units[2].Name)
	assert.Equal(t, 9, units[2].StartLine)
	assert.Equal(t, 10, units[2].EndLine)
	assert.Equal(t, []string{"url"}, units[2].Params)
}

func TestIsComment(t *testing.T) {
	assert.True(t, parser.Brace.IsComment("  // note"))
	assert.True(t, parser.Brace.IsComment(" * doc"))
	assert.True(t, parser.Brace.IsComment("/* block"))
	assert.False(t, parser.Brace.IsComment("# not js"))
	assert.True(t, parser.Indent.IsComment("    # note"))
	assert.False(t, parser.Indent.IsComment("x = 1  # trailing"))
}

func TestFindUnit(t *testing.T) {
	units := parser.Brace.ExtractFunctions(parser.Brace.Normalize(demo.JavaScript))
	require.NotNil(t, parser.FindUnit(units, "validateItem"))
	assert.Nil(t, parser.FindUnit(units, "missing"))
}
