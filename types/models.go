package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// HalsteadMetrics holds the software-science measures for a unit.
type HalsteadMetrics struct {
	UniqueOperators int     `json:"uniqueOperators"` // n1
	UniqueOperands  int     `json:"uniqueOperands"`  // n2
	TotalOperators  int     `json:"totalOperators"`  // N1
	TotalOperands   int     `json:"totalOperands"`   // N2
	Vocabulary      int     `json:"vocabulary"`      // n1 + n2
	Length          int     `json:"length"`          // N1 + N2
	Volume          float64 `json:"volume"`          // N * log2(n)
	Difficulty      float64 `json:"difficulty"`      // (n1/2) * (N2/n2)
	Effort          float64 `json:"effort"`          // D * V
	Time            float64 `json:"time"`            // E / 18
	Bugs            float64 `json:"bugs"`            // V / 3000
}

// Level is a severity bucket for a complexity or maintainability score.
type Level struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Level int    `json:"level"`
}

// FunctionMetric contains the metrics computed for one extracted function.
type FunctionMetric struct {
	Name                 string          `json:"name"`
	StartLine            int             `json:"startLine"`
	EndLine              int             `json:"endLine"`
	LOC                  int             `json:"loc"`
	Params               []string        `json:"params"`
	ParamCount           int             `json:"paramCount"`
	CyclomaticComplexity int             `json:"cyclomaticComplexity"`
	ComplexityLevel      Level           `json:"complexityLevel"`
	Halstead             HalsteadMetrics `json:"halstead"`
	MaintainabilityIndex float64         `json:"maintainabilityIndex"`
	MaintainabilityLevel Level           `json:"maintainabilityLevel"`
	MaxNestingDepth      int             `json:"maxNestingDepth"`
	HeatIntensity        float64         `json:"heatIntensity"`
	IsRecursive          bool            `json:"isRecursive"`
}

// Issue is a single linter finding.
type Issue struct {
	Type     string `json:"type"`
	Rule     string `json:"rule"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Severity string `json:"severity"`
	EndLine  *int   `json:"endLine,omitempty"`
}

// Suggestion is a refactoring recommendation for a function.
type Suggestion struct {
	Function    string `json:"function"`
	Line        int    `json:"line"`
	Type        string `json:"type"`
	Priority    string `json:"priority"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Pattern     string `json:"pattern"`
}

// HeatmapEntry ranks a function against the most complex function in its file.
type HeatmapEntry struct {
	Name       string  `json:"name"`
	StartLine  int     `json:"startLine"`
	EndLine    int     `json:"endLine"`
	Intensity  float64 `json:"intensity"`
	Complexity int     `json:"complexity"`
	Color      string  `json:"color"`
}

// Summary holds the file-level metrics.
type Summary struct {
	LOC                  int             `json:"loc"`
	SLOC                 int             `json:"sloc"`
	BlankLines           int             `json:"blankLines"`
	CommentLines         int             `json:"commentLines"`
	FunctionCount        int             `json:"functionCount"`
	CyclomaticComplexity int             `json:"cyclomaticComplexity"`
	ComplexityLevel      Level           `json:"complexityLevel"`
	MaintainabilityIndex float64         `json:"maintainabilityIndex"`
	MaintainabilityLevel Level           `json:"maintainabilityLevel"`
	Halstead             HalsteadMetrics `json:"halstead"`
}

// AnalysisResult is the complete analysis of one source file. It is built once
// and must not be mutated afterwards; cached results are shared between callers.
type AnalysisResult struct {
	Language            string           `json:"language"`
	Filename            string           `json:"filename"`
	Summary             Summary          `json:"summary"`
	Functions           []FunctionMetric `json:"functions"`
	LinterIssues        []Issue          `json:"linterIssues"`
	RefactorSuggestions []Suggestion     `json:"refactorSuggestions"`
	Heatmap             []HeatmapEntry   `json:"heatmap"`
}

// UnsupportedResult is the error-shaped response for files whose language
// cannot be detected.
type UnsupportedResult struct {
	Error    string `json:"error"`
	Language string `json:"language"`
}

// NewUnsupportedResult builds the unsupported response from the detection error.
func NewUnsupportedResult(err error) UnsupportedResult {
	return UnsupportedResult{Error: err.Error(), Language: "unknown"}
}

// TimestampLayout is the fixed-width UTC layout of AnalysisRecord.Timestamp.
// Every value has nine fractional digits, so timestamps order correctly as
// plain strings.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SortableTimestamp rewrites an RFC 3339 timestamp into TimestampLayout in
// UTC. Values that do not parse are returned unchanged.
func SortableTimestamp(s string) string {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return s
	}
	return t.UTC().Format(TimestampLayout)
}

// AnalysisRecord is the flat history entry persisted after a successful analysis.
type AnalysisRecord struct {
	ID              string  `json:"id"`
	Filename        string  `json:"filename"`
	Language        string  `json:"language"`
	LOC             int     `json:"loc"`
	Complexity      int     `json:"complexity"`
	Maintainability float64 `json:"maintainability"`
	FunctionCount   int     `json:"functionCount"`
	IssueCount      int     `json:"issueCount"`
	Timestamp       string  `json:"timestamp"`
}

// NewAnalysisRecord derives a history record from a result.
func NewAnalysisRecord(r *AnalysisResult, now time.Time) AnalysisRecord {
	return AnalysisRecord{
		ID:              uuid.NewString(),
		Filename:        r.Filename,
		Language:        r.Language,
		LOC:             r.Summary.LOC,
		Complexity:      r.Summary.CyclomaticComplexity,
		Maintainability: r.Summary.MaintainabilityIndex,
		FunctionCount:   r.Summary.FunctionCount,
		IssueCount:      len(r.LinterIssues),
		Timestamp:       now.UTC().Format(TimestampLayout),
	}
}

// FileReport is one entry of a batch analysis.
type FileReport struct {
	Path   string          `json:"path"`
	Result *AnalysisResult `json:"result"`
}

// BatchStats aggregates file-level complexity over a batch.
type BatchStats struct {
	Files               int     `json:"files"`
	Functions           int     `json:"functions"`
	Issues              int     `json:"issues"`
	MeanComplexity      float64 `json:"meanComplexity"`
	P50Complexity       float64 `json:"p50Complexity"`
	P90Complexity       float64 `json:"p90Complexity"`
	MeanMaintainability float64 `json:"meanMaintainability"`
	MaxComplexity       int     `json:"maxComplexity"`
	MaxComplexityFile   string  `json:"maxComplexityFile,omitempty"`
}

// BatchReport contains the analyses of several files.
type BatchReport struct {
	Files   []FileReport `json:"files"`
	Skipped []string     `json:"skipped"`
	Stats   BatchStats   `json:"stats"`
}

// PrettyPrint returns an indented JSON rendering of the result.
func (r *AnalysisResult) PrettyPrint() string {
	jsonBytes, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error generating summary: %v", err)
	}

	return string(jsonBytes)
}
