package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/TFMV/codescope/analysis"
	"github.com/TFMV/codescope/db"
)

// EnvPrefix marks environment variables that override file settings.
// Sections are separated by a double underscore, e.g.
// CODESCOPE_STORAGE__BACKEND=sqlite.
const EnvPrefix = "CODESCOPE_"

// Config represents the complete codescope configuration.
type Config struct {
	Server     ServerConfig        `koanf:"server"`
	Storage    db.Config           `koanf:"storage"`
	Cache      CacheConfig         `koanf:"cache"`
	Thresholds analysis.Thresholds `koanf:"thresholds"`
	Scan       ScanConfig          `koanf:"scan"`
	Log        LogConfig           `koanf:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `koanf:"addr"`
	CORSOrigins  []string      `koanf:"cors_origins"`
	RateLimit    float64       `koanf:"rate_limit"` // analyze requests per second
	RateBurst    int           `koanf:"rate_burst"`
	MaxBodyBytes int64         `koanf:"max_body_bytes"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
}

type CacheConfig struct {
	Size int `koanf:"size"` // 0 disables the cache
}

type ScanConfig struct {
	Exclude []string `koanf:"exclude"`
	Workers int      `koanf:"workers"`
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // text, json
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8001",
			CORSOrigins:  []string{"*"},
			RateLimit:    20,
			RateBurst:    40,
			MaxBodyBytes: 2 << 20,
			ReadTimeout:  15 * time.Second,
		},
		Storage: db.Config{
			Backend:      db.BackendMemory,
			HistoryLimit: db.DefaultHistoryLimit,
			SQLite: db.SQLiteConfig{
				Path: ".codescope/history.db",
			},
			Surreal: db.SurrealConfig{
				URL:       "ws://localhost:8000",
				Namespace: "codescope",
				Database:  "codescope",
				Username:  "root",
				Password:  "root",
			},
		},
		Cache: CacheConfig{
			Size: 256,
		},
		Thresholds: analysis.DefaultThresholds(),
		Scan: ScanConfig{
			Exclude: append([]string(nil), analysis.DefaultExclude...),
			Workers: 8,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load layers path (if non-empty) and the environment over the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, fmt.Errorf("load config %q: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads the first config file found in the standard locations,
// falling back to defaults plus environment overrides.
func LoadOrDefault() (*Config, error) {
	return Load(Find())
}

// Find returns the first standard config file that exists, or "".
func Find() string {
	configNames := []string{
		"codescope.toml",
		"codescope.yaml",
		"codescope.yml",
		"codescope.json",
	}
	searchDirs := []string{".", ".codescope"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	case ".json":
		return json.Parser()
	default:
		return toml.Parser()
	}
}

// envKey maps CODESCOPE_STORAGE__SQLITE__PATH to storage.sqlite.path.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate checks the values that would otherwise fail late at startup.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case db.BackendMemory, db.BackendSQLite, db.BackendSurreal:
	default:
		return fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend)
	}
	if c.Storage.HistoryLimit <= 0 {
		return fmt.Errorf("storage.history_limit: %w", db.ErrInvalidLimit)
	}
	if c.Storage.Backend == db.BackendSQLite && strings.TrimSpace(c.Storage.SQLite.Path) == "" {
		return fmt.Errorf("storage.sqlite.path must not be empty")
	}
	if c.Storage.Backend == db.BackendSurreal && c.Storage.Surreal.URL == "" {
		return fmt.Errorf("storage.surreal.url must not be empty")
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("cache.size must not be negative")
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		return fmt.Errorf("server rate limit must not be negative")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive")
	}
	if c.Scan.Workers <= 0 {
		return fmt.Errorf("scan.workers must be positive")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	return nil
}
