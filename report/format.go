package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Format represents an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat converts a string to Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Renderable defines data that can render itself in multiple formats.
type Renderable interface {
	RenderText(w io.Writer, colored bool) error
	RenderMarkdown(w io.Writer) error
	// RenderData returns the underlying data for JSON serialization.
	RenderData() any
}

// Formatter writes Renderables in one format.
type Formatter struct {
	format  Format
	writer  io.Writer
	colored bool
}

func NewFormatter(format Format, w io.Writer, colored bool) *Formatter {
	return &Formatter{format: format, writer: w, colored: colored}
}

func (f *Formatter) Output(r Renderable) error {
	switch f.format {
	case FormatJSON:
		encoder := json.NewEncoder(f.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(r.RenderData())
	case FormatMarkdown:
		return r.RenderMarkdown(f.writer)
	default:
		return r.RenderText(f.writer, f.colored)
	}
}

// Warning prints a diagnostic line that is not part of the report data.
func (f *Formatter) Warning(format string, args ...any) {
	if f.format == FormatJSON {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if f.colored {
		msg = color.YellowString(msg)
	} else {
		msg = "WARNING: " + msg
	}
	fmt.Fprintln(f.writer, msg)
}

// levelText colors text by a severity bucket: green for the best bucket,
// yellow for the next, red for everything worse.
func levelText(colored bool, level int, text string) string {
	if !colored {
		return text
	}
	switch {
	case level <= 0:
		return color.GreenString(text)
	case level == 1:
		return color.YellowString(text)
	default:
		return color.RedString(text)
	}
}

// miText colors a maintainability bucket. Excellent and Good both render green.
func miText(colored bool, level int, text string) string {
	return levelText(colored, level-1, text)
}

func severityText(colored bool, severity string) string {
	if !colored {
		return severity
	}
	switch severity {
	case "critical":
		return color.New(color.FgRed, color.Bold).Sprint(severity)
	case "warning", "high":
		return color.YellowString(severity)
	default:
		return color.CyanString(severity)
	}
}
