package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/TFMV/codescope/types"
)

// DefaultHistoryLimit is the number of records returned when no limit is given.
const DefaultHistoryLimit = 50

var ErrInvalidLimit = errors.New("history limit must be positive")

// DB is the history sink. Records are appended after every successful
// analysis and listed most recent first.
type DB interface {
	Initialize(ctx context.Context) error
	StoreAnalysis(ctx context.Context, record types.AnalysisRecord) error
	ListRecent(ctx context.Context, limit int) ([]types.AnalysisRecord, error)
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory  = "memory"
	BackendSQLite  = "sqlite"
	BackendSurreal = "surreal"
)

type SQLiteConfig struct {
	Path string `koanf:"path"`
}

type SurrealConfig struct {
	URL       string `koanf:"url"`
	Namespace string `koanf:"namespace"`
	Database  string `koanf:"database"`
	Username  string `koanf:"username"`
	Password  string `koanf:"password"`
}

// Config selects and configures a history backend.
type Config struct {
	Backend      string        `koanf:"backend"`
	HistoryLimit int           `koanf:"history_limit"`
	SQLite       SQLiteConfig  `koanf:"sqlite"`
	Surreal      SurrealConfig `koanf:"surreal"`
}

// Open builds the configured backend and initializes it.
func Open(ctx context.Context, cfg Config) (DB, error) {
	var (
		store DB
		err   error
	)
	switch cfg.Backend {
	case BackendMemory, "":
		store = NewMemoryDB(cfg.HistoryLimit)
	case BackendSQLite:
		store, err = NewSQLiteDB(cfg.SQLite.Path)
	case BackendSurreal:
		store, err = NewSurrealDB(cfg.Surreal)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	if err := store.Initialize(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize %s storage: %w", cfg.Backend, err)
	}
	return store, nil
}

func checkLimit(limit int) error {
	if limit <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidLimit, limit)
	}
	return nil
}
