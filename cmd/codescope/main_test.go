package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/codescope/demo"
	"github.com/TFMV/codescope/types"
)

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "codescope.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := execute(t, "--version")
	assert.Equal(t, 0, code)
	assert.Equal(t, version+"\n", stdout)
}

func TestRun_Help(t *testing.T) {
	code, stdout, _ := execute(t, "--help")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "codescope analyze <path>...")
}

func TestRun_BadArgs(t *testing.T) {
	code, _, stderr := execute(t, "frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Usage:")
}

func TestRun_AnalyzeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order.js")
	require.NoError(t, os.WriteFile(path, []byte(demo.JavaScript), 0o644))

	code, stdout, stderr := execute(t, "analyze", path, "--format=json", "--no-color")
	require.Equal(t, 0, code, stderr)

	var result types.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, "javascript", result.Language)
	assert.Equal(t, 12, result.Summary.CyclomaticComplexity)
}

func TestRun_AnalyzeDirectory(t *testing.T) {
	dir := t.TempDir()
	for name, src := range demo.Samples {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
	}

	code, stdout, stderr := execute(t, "analyze", dir, "--format=json")
	require.Equal(t, 0, code, stderr)

	var batch types.BatchReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &batch))
	assert.Len(t, batch.Files, 2)
	assert.Equal(t, 4, batch.Stats.Functions)
}

func TestRun_AnalyzeUnsupportedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.sql")
	require.NoError(t, os.WriteFile(path, []byte("SELECT 1;"), 0o644))

	code, _, stderr := execute(t, "analyze", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unsupported language")
}

func TestRun_StoreAndHistory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	cfg := writeConfig(t, "[storage]\nbackend = \"sqlite\"\n\n[storage.sqlite]\npath = \""+filepath.ToSlash(dbPath)+"\"\n")

	src := filepath.Join(t.TempDir(), "pipeline.py")
	require.NoError(t, os.WriteFile(src, []byte(demo.Python), 0o644))

	code, _, stderr := execute(t, "analyze", src, "--store", "--format=json", "--config="+cfg)
	require.Equal(t, 0, code, stderr)

	code, stdout, stderr := execute(t, "history", "--format=json", "--limit=5", "--config="+cfg)
	require.Equal(t, 0, code, stderr)

	var records []types.AnalysisRecord
	require.NoError(t, json.Unmarshal([]byte(stdout), &records))
	require.Len(t, records, 1)
	assert.Equal(t, src, records[0].Filename)
	assert.Equal(t, "python", records[0].Language)
	assert.Equal(t, 19, records[0].Complexity)
}

func TestRun_HistoryMemoryEmpty(t *testing.T) {
	cfg := writeConfig(t, "[storage]\nbackend = \"memory\"\n")
	code, stdout, stderr := execute(t, "history", "--format=json", "--config="+cfg)
	require.Equal(t, 0, code, stderr)
	assert.JSONEq(t, "[]", stdout)
}

func TestRun_HistoryBadLimit(t *testing.T) {
	cfg := writeConfig(t, "[storage]\nbackend = \"memory\"\n")
	code, _, stderr := execute(t, "history", "--limit=abc", "--config="+cfg)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid --limit")
}

func TestRun_BadFormat(t *testing.T) {
	code, _, stderr := execute(t, "demo", "--format=xml")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown output format")
}

func TestRun_BadConfig(t *testing.T) {
	cfg := writeConfig(t, "[storage]\nbackend = \"redis\"\n")
	code, _, stderr := execute(t, "history", "--config="+cfg)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "redis")
}

func TestRun_Demo(t *testing.T) {
	code, stdout, stderr := execute(t, "demo", "--no-color")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "processOrder")
	assert.Contains(t, stdout, "process_data_pipeline")
}
