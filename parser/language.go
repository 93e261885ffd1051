package parser

import (
	"path/filepath"
	"strings"
)

// Family is a structural language family. Every family carries its own
// keyword and operator tables, literal/comment stripping rules and function
// boundary strategy.
type Family int

const (
	// Brace covers C-like languages where blocks are delimited by { and }.
	Brace Family = iota + 1
	// Indent covers languages where blocks are delimited by indentation.
	Indent
)

func (f Family) String() string {
	switch f {
	case Brace:
		return "brace"
	case Indent:
		return "indent"
	default:
		return "unknown"
	}
}

// Language is a detected language: a user-facing label plus its family.
type Language struct {
	Name   string
	Family Family
}

// Supported languages.
var (
	JavaScript = Language{Name: "javascript", Family: Brace}
	TypeScript = Language{Name: "typescript", Family: Brace}
	Python     = Language{Name: "python", Family: Indent}
	Unknown    = Language{Name: "unknown"}
)

var extensions = map[string]Language{
	".js":  JavaScript,
	".jsx": JavaScript,
	".mjs": JavaScript,
	".cjs": JavaScript,
	".ts":  TypeScript,
	".tsx": TypeScript,
	".py":  Python,
	".pyw": Python,
}

// DetectLanguage maps the lowercased final extension of filename to a
// language. The boolean is false for empty names and unknown extensions.
func DetectLanguage(filename string) (Language, bool) {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	if ext == "" {
		return Unknown, false
	}
	lang, ok := extensions[ext]
	if !ok {
		return Unknown, false
	}
	return lang, true
}

// IsSupported reports whether filename maps to a supported language.
func IsSupported(filename string) bool {
	_, ok := DetectLanguage(filename)
	return ok
}

type tokenSet map[string]struct{}

func newTokenSet(tokens ...string) tokenSet {
	s := make(tokenSet, len(tokens))
	for _, t := range tokens {
		s[t] = struct{}{}
	}
	return s
}

func (s tokenSet) has(tok string) bool {
	_, ok := s[tok]
	return ok
}

type familySpec struct {
	keywords        tokenSet
	operators       tokenSet
	commentPrefixes []string
	strip           []stripRule
}

var specs = map[Family]*familySpec{
	Brace: {
		keywords: newTokenSet(
			"break", "case", "catch", "continue", "debugger", "default", "delete",
			"do", "else", "finally", "for", "function", "if", "in", "instanceof",
			"new", "return", "switch", "this", "throw", "try", "typeof", "var",
			"void", "while", "with", "class", "const", "enum", "export", "extends",
			"import", "super", "implements", "interface", "let", "package", "private",
			"protected", "public", "static", "yield", "async", "await", "of",
		),
		operators: newTokenSet(
			"+", "-", "*", "/", "%", "**", "=", "+=", "-=", "*=", "/=", "%=",
			"**=", "==", "!=", "===", "!==", "<", ">", "<=", ">=", "&&", "||",
			"!", "&", "|", "^", "~", "<<", ">>", ">>>", "?", ":", "??", "?.",
			"++", "--", "=>", "...", "&&=", "||=", "??=",
		),
		commentPrefixes: []string{"//", "/*", "*"},
		strip:           braceStripRules,
	},
	Indent: {
		keywords: newTokenSet(
			"False", "None", "True", "and", "as", "assert", "async", "await",
			"break", "class", "continue", "def", "del", "elif", "else", "except",
			"finally", "for", "from", "global", "if", "import", "in", "is",
			"lambda", "nonlocal", "not", "or", "pass", "raise", "return", "try",
			"while", "with", "yield",
		),
		operators: newTokenSet(
			"+", "-", "*", "/", "//", "%", "**", "=", "+=", "-=", "*=", "/=",
			"//=", "%=", "**=", "==", "!=", "<", ">", "<=", ">=", "and", "or",
			"not", "in", "is", "&", "|", "^", "~", "<<", ">>", ":=", "->", ":",
		),
		commentPrefixes: []string{"#"},
		strip:           indentStripRules,
	},
}

func (f Family) spec() *familySpec {
	if s, ok := specs[f]; ok {
		return s
	}
	return &familySpec{keywords: tokenSet{}, operators: tokenSet{}}
}

// IsKeyword reports whether tok is a reserved word of the family.
func (f Family) IsKeyword(tok string) bool {
	return f.spec().keywords.has(tok)
}

// IsOperator reports whether tok is a keyword or listed operator, i.e. counts
// as a Halstead operator.
func (f Family) IsOperator(tok string) bool {
	s := f.spec()
	return s.operators.has(tok) || s.keywords.has(tok)
}

// IsComment reports whether a raw source line is a comment line.
func (f Family) IsComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, prefix := range f.spec().commentPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}
