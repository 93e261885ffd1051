package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/TFMV/codescope/types"
)

// Result renders one file analysis.
type Result struct {
	*types.AnalysisResult
}

func (r Result) RenderData() any {
	return r.AnalysisResult
}

func (r Result) RenderText(w io.Writer, colored bool) error {
	s := r.Summary
	title := fmt.Sprintf("%s (%s)", r.Filename, r.Language)
	if colored {
		color.New(color.Bold, color.FgCyan).Fprintln(w, title)
	} else {
		fmt.Fprintln(w, title)
	}
	fmt.Fprintln(w, strings.Repeat("=", len(title)))

	fmt.Fprintf(w, "Lines:           %d total, %d code, %d comment, %d blank\n", s.LOC, s.SLOC, s.CommentLines, s.BlankLines)
	fmt.Fprintf(w, "Functions:       %d\n", s.FunctionCount)
	fmt.Fprintf(w, "Complexity:      %s\n", levelText(colored, s.ComplexityLevel.Level,
		fmt.Sprintf("%d (%s)", s.CyclomaticComplexity, s.ComplexityLevel.Label)))
	fmt.Fprintf(w, "Maintainability: %s\n", miText(colored, s.MaintainabilityLevel.Level,
		fmt.Sprintf("%.2f (%s)", s.MaintainabilityIndex, s.MaintainabilityLevel.Label)))
	h := s.Halstead
	fmt.Fprintf(w, "Halstead:        volume %.2f, difficulty %.2f, effort %.2f, bugs %.3f\n",
		h.Volume, h.Difficulty, h.Effort, h.Bugs)

	for _, t := range r.tables(colored) {
		fmt.Fprintln(w)
		if err := t.RenderText(w, colored); err != nil {
			return err
		}
	}
	return nil
}

func (r Result) RenderMarkdown(w io.Writer) error {
	s := r.Summary
	fmt.Fprintf(w, "## %s\n\n", r.Filename)
	fmt.Fprintf(w, "| Metric | Value |\n| --- | --- |\n")
	fmt.Fprintf(w, "| Language | %s |\n", r.Language)
	fmt.Fprintf(w, "| Lines | %d (%d code, %d comment, %d blank) |\n", s.LOC, s.SLOC, s.CommentLines, s.BlankLines)
	fmt.Fprintf(w, "| Functions | %d |\n", s.FunctionCount)
	fmt.Fprintf(w, "| Cyclomatic complexity | %d (%s) |\n", s.CyclomaticComplexity, s.ComplexityLevel.Label)
	fmt.Fprintf(w, "| Maintainability index | %.2f (%s) |\n", s.MaintainabilityIndex, s.MaintainabilityLevel.Label)
	fmt.Fprintf(w, "| Halstead volume | %.2f |\n", s.Halstead.Volume)
	fmt.Fprintf(w, "| Estimated bugs | %.3f |\n\n", s.Halstead.Bugs)

	for _, t := range r.tables(false) {
		if err := t.RenderMarkdown(w); err != nil {
			return err
		}
	}
	return nil
}

func (r Result) tables(colored bool) []*Table {
	functions := &Table{
		Title:   "Functions",
		Headers: []string{"Name", "Lines", "Params", "CC", "MI", "Nesting", "Recursive"},
		Empty:   "No functions found.",
	}
	for _, fn := range r.Functions {
		recursive := ""
		if fn.IsRecursive {
			recursive = "yes"
		}
		functions.Rows = append(functions.Rows, []string{
			fn.Name,
			fmt.Sprintf("%d-%d", fn.StartLine, fn.EndLine),
			strconv.Itoa(fn.ParamCount),
			levelText(colored, fn.ComplexityLevel.Level, strconv.Itoa(fn.CyclomaticComplexity)),
			miText(colored, fn.MaintainabilityLevel.Level, fmt.Sprintf("%.2f", fn.MaintainabilityIndex)),
			strconv.Itoa(fn.MaxNestingDepth),
			recursive,
		})
	}

	issues := &Table{
		Title:   "Issues",
		Headers: []string{"Line", "Severity", "Rule", "Message"},
		Empty:   "No issues found.",
	}
	for _, issue := range r.LinterIssues {
		issues.Rows = append(issues.Rows, []string{
			strconv.Itoa(issue.Line),
			severityText(colored, issue.Severity),
			issue.Rule,
			issue.Message,
		})
	}

	suggestions := &Table{
		Title:   "Refactoring suggestions",
		Headers: []string{"Line", "Priority", "Function", "Suggestion", "Pattern"},
		Empty:   "No suggestions.",
	}
	for _, s := range r.RefactorSuggestions {
		suggestions.Rows = append(suggestions.Rows, []string{
			strconv.Itoa(s.Line),
			severityText(colored, s.Priority),
			s.Function,
			s.Description,
			s.Pattern,
		})
	}

	return []*Table{functions, issues, suggestions}
}

// Batch renders a multi-file analysis: a per-file overview followed by
// aggregate statistics.
type Batch struct {
	*types.BatchReport
}

func (b Batch) RenderData() any {
	return b.BatchReport
}

func (b Batch) overview(colored bool) *Table {
	t := &Table{
		Title:   "Files",
		Headers: []string{"Path", "Language", "LOC", "Functions", "CC", "MI", "Issues"},
		Empty:   "No source files found.",
	}
	for _, f := range b.Files {
		s := f.Result.Summary
		t.Rows = append(t.Rows, []string{
			f.Path,
			f.Result.Language,
			strconv.Itoa(s.LOC),
			strconv.Itoa(s.FunctionCount),
			levelText(colored, s.ComplexityLevel.Level, strconv.Itoa(s.CyclomaticComplexity)),
			miText(colored, s.MaintainabilityLevel.Level, fmt.Sprintf("%.2f", s.MaintainabilityIndex)),
			strconv.Itoa(len(f.Result.LinterIssues)),
		})
	}
	return t
}

func (b Batch) statsLines() []string {
	st := b.Stats
	lines := []string{
		fmt.Sprintf("Files: %d, functions: %d, issues: %d", st.Files, st.Functions, st.Issues),
		fmt.Sprintf("Complexity: mean %.2f, p50 %.0f, p90 %.0f", st.MeanComplexity, st.P50Complexity, st.P90Complexity),
		fmt.Sprintf("Mean maintainability: %.2f", st.MeanMaintainability),
	}
	if st.MaxComplexityFile != "" {
		lines = append(lines, fmt.Sprintf("Most complex: %s (%d)", st.MaxComplexityFile, st.MaxComplexity))
	}
	if len(b.Skipped) > 0 {
		lines = append(lines, fmt.Sprintf("Skipped: %s", strings.Join(b.Skipped, ", ")))
	}
	return lines
}

func (b Batch) RenderText(w io.Writer, colored bool) error {
	if err := b.overview(colored).RenderText(w, colored); err != nil {
		return err
	}
	fmt.Fprintln(w)
	for _, line := range b.statsLines() {
		fmt.Fprintln(w, line)
	}
	return nil
}

func (b Batch) RenderMarkdown(w io.Writer) error {
	fmt.Fprintf(w, "# CodeScope report\n\n")
	if err := b.overview(false).RenderMarkdown(w); err != nil {
		return err
	}
	for _, line := range b.statsLines() {
		fmt.Fprintf(w, "- %s\n", line)
	}
	fmt.Fprintln(w)
	return nil
}

// History renders stored analysis records, most recent first.
type History []types.AnalysisRecord

func (h History) RenderData() any {
	if h == nil {
		return []types.AnalysisRecord{}
	}
	return []types.AnalysisRecord(h)
}

func (h History) table() *Table {
	t := &Table{
		Headers: []string{"Timestamp", "File", "Language", "LOC", "CC", "MI", "Functions", "Issues"},
		Empty:   "No analyses recorded.",
	}
	for _, r := range h {
		t.Rows = append(t.Rows, []string{
			r.Timestamp,
			r.Filename,
			r.Language,
			strconv.Itoa(r.LOC),
			strconv.Itoa(r.Complexity),
			fmt.Sprintf("%.2f", r.Maintainability),
			strconv.Itoa(r.FunctionCount),
			strconv.Itoa(r.IssueCount),
		})
	}
	return t
}

func (h History) RenderText(w io.Writer, colored bool) error {
	return h.table().RenderText(w, colored)
}

func (h History) RenderMarkdown(w io.Writer) error {
	return h.table().RenderMarkdown(w)
}
