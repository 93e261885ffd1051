package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/codescope/analysis"
	"github.com/TFMV/codescope/db"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":8001", cfg.Server.Addr)
	assert.Equal(t, db.BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, 50, cfg.Storage.HistoryLimit)
	assert.Equal(t, analysis.DefaultThresholds(), cfg.Thresholds)
	assert.Equal(t, analysis.DefaultExclude, cfg.Scan.Exclude)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"codescope.toml", `
[server]
addr = ":9090"
cors_origins = ["http://a.test", "http://b.test"]
read_timeout = "30s"

[storage]
backend = "sqlite"

[storage.sqlite]
path = "/tmp/h.db"

[thresholds]
max_complexity = 12
`},
		{"codescope.yaml", `
server:
  addr: ":9090"
  cors_origins: ["http://a.test", "http://b.test"]
  read_timeout: 30s
storage:
  backend: sqlite
  sqlite:
    path: /tmp/h.db
thresholds:
  max_complexity: 12
`},
		{"codescope.json", `{
  "server": {"addr": ":9090", "cors_origins": ["http://a.test", "http://b.test"], "read_timeout": "30s"},
  "storage": {"backend": "sqlite", "sqlite": {"path": "/tmp/h.db"}},
  "thresholds": {"max_complexity": 12}
}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.name)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			cfg, err := Load(path)
			require.NoError(t, err)

			assert.Equal(t, ":9090", cfg.Server.Addr)
			assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
			assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
			assert.Equal(t, db.BackendSQLite, cfg.Storage.Backend)
			assert.Equal(t, "/tmp/h.db", cfg.Storage.SQLite.Path)
			assert.Equal(t, 12, cfg.Thresholds.MaxComplexity)

			// untouched keys keep their defaults
			assert.Equal(t, 20, cfg.Thresholds.CriticalComplexity)
			assert.Equal(t, 256, cfg.Cache.Size)
			assert.Equal(t, "codescope", cfg.Storage.Surreal.Namespace)
		})
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("CODESCOPE_STORAGE__BACKEND", "surreal")
	t.Setenv("CODESCOPE_STORAGE__HISTORY_LIMIT", "10")
	t.Setenv("CODESCOPE_STORAGE__SURREAL__URL", "ws://db:8000")
	t.Setenv("CODESCOPE_LOG__LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, db.BackendSurreal, cfg.Storage.Backend)
	assert.Equal(t, 10, cfg.Storage.HistoryLimit)
	assert.Equal(t, "ws://db:8000", cfg.Storage.Surreal.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codescope.toml")
	require.NoError(t, os.WriteFile(path, []byte("[cache]\nsize = 10\n"), 0o644))
	t.Setenv("CODESCOPE_CACHE__SIZE", "99")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 99, cfg.Cache.Size)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "codescope.toml")
	require.NoError(t, os.WriteFile(path, []byte("[storage]\nbackend = \"mongo\"\n"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, `unknown backend "mongo"`)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"history limit", func(c *Config) { c.Storage.HistoryLimit = 0 }},
		{"sqlite path", func(c *Config) { c.Storage.Backend = db.BackendSQLite; c.Storage.SQLite.Path = " " }},
		{"surreal url", func(c *Config) { c.Storage.Backend = db.BackendSurreal; c.Storage.Surreal.URL = "" }},
		{"cache size", func(c *Config) { c.Cache.Size = -1 }},
		{"rate limit", func(c *Config) { c.Server.RateLimit = -1 }},
		{"body size", func(c *Config) { c.Server.MaxBodyBytes = 0 }},
		{"workers", func(c *Config) { c.Scan.Workers = 0 }},
		{"log level", func(c *Config) { c.Log.Level = "trace" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	assert.Equal(t, "", Find())

	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".codescope"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".codescope", "codescope.yaml"), []byte("log:\n  level: warn\n"), 0o644))
	assert.Equal(t, filepath.Join(".codescope", "codescope.yaml"), Find())

	cfg, err := LoadOrDefault()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}
