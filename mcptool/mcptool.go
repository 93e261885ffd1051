// Package mcptool exposes the analyzer as Model Context Protocol tools.
package mcptool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/TFMV/codescope/analysis"
	"github.com/TFMV/codescope/types"
)

const defaultFilename = "untitled.js"

// Tools holds the handlers and the analyzer they share.
type Tools struct {
	analyzer *analysis.Analyzer
}

func NewTools(analyzer *analysis.Analyzer) *Tools {
	return &Tools{analyzer: analyzer}
}

// NewServer builds an MCP server with every tool registered.
func NewServer(analyzer *analysis.Analyzer, version string) *server.MCPServer {
	mcpServer := server.NewMCPServer(
		"CodeScope",
		version,
		server.WithToolCapabilities(true),
		server.WithLogging(),
	)
	NewTools(analyzer).Register(mcpServer)
	return mcpServer
}

func (t *Tools) Register(mcpServer *server.MCPServer) {
	analyzeCode := mcp.NewTool("analyze_code",
		mcp.WithDescription("Computes cyclomatic complexity, Halstead metrics, maintainability index, lint issues and refactoring suggestions for JavaScript, TypeScript or Python source"),
		mcp.WithString("code",
			mcp.Description("Source code to analyze"),
			mcp.Required(),
		),
		mcp.WithString("filename",
			mcp.Description("File name used for language detection, e.g. 'app.ts' (default 'untitled.js')"),
		),
	)
	mcpServer.AddTool(analyzeCode, t.HandleAnalyzeCode)

	analyzePaths := mcp.NewTool("analyze_paths",
		mcp.WithDescription("Analyzes source files and directories on disk and returns per-file results with aggregate statistics"),
		mcp.WithArray("paths",
			mcp.Description("Files or directories to analyze"),
			mcp.Required(),
		),
	)
	mcpServer.AddTool(analyzePaths, t.HandleAnalyzePaths)
}

// HandleAnalyzeCode analyzes one snippet. Unsupported languages produce the
// {error, language: "unknown"} shape rather than a tool error.
func (t *Tools) HandleAnalyzeCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments

	code, ok := arguments["code"].(string)
	if !ok {
		return errorResult("code must be a string"), nil
	}
	filename := defaultFilename
	if name, ok := arguments["filename"].(string); ok {
		filename = name
	}

	result, err := t.analyzer.Analyze(code, filename)
	if errors.Is(err, analysis.ErrUnsupportedLanguage) {
		return jsonResult(types.NewUnsupportedResult(err))
	}
	if err != nil {
		return errorResult(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (t *Tools) HandleAnalyzePaths(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, ok := request.Params.Arguments["paths"].([]interface{})
	if !ok || len(raw) == 0 {
		return errorResult("paths must be a non-empty array of strings"), nil
	}
	paths := make([]string, 0, len(raw))
	for _, p := range raw {
		s, ok := p.(string)
		if !ok {
			return errorResult("paths must be a non-empty array of strings"), nil
		}
		paths = append(paths, s)
	}

	report, err := t.analyzer.AnalyzePaths(ctx, paths...)
	if err != nil {
		return errorResult(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return jsonResult(report)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: string(data),
			},
		},
	}, nil
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: msg,
			},
		},
		IsError: true,
	}
}
