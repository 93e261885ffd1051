package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/TFMV/codescope/schema"
	"github.com/TFMV/codescope/types"
	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

// SQLiteDB stores history in a local SQLite file.
type SQLiteDB struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("sqlite path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("sqlite path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	return &SQLiteDB{path: cleanPath, db: db}, nil
}

func (s *SQLiteDB) Initialize(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping sqlite history %q: %w", s.path, err)
	}
	if err := schema.EnsureSQLite(s.db); err != nil {
		return fmt.Errorf("initialize sqlite schema %q: %w", s.path, err)
	}
	return nil
}

func (s *SQLiteDB) StoreAnalysis(ctx context.Context, record types.AnalysisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
INSERT INTO analysis_history (
  id, filename, language, loc, complexity, maintainability, function_count, issue_count, ts_utc
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	return s.withRetry(ctx, "store analysis", func() error {
		_, err := s.db.ExecContext(ctx, query,
			record.ID,
			record.Filename,
			record.Language,
			record.LOC,
			record.Complexity,
			record.Maintainability,
			record.FunctionCount,
			record.IssueCount,
			types.SortableTimestamp(record.Timestamp),
		)
		return err
	})
}

func (s *SQLiteDB) ListRecent(ctx context.Context, limit int) ([]types.AnalysisRecord, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
SELECT id, filename, language, loc, complexity, maintainability, function_count, issue_count, ts_utc
FROM analysis_history
ORDER BY ts_utc DESC, rowid DESC
LIMIT ?
`
	var rows *sql.Rows
	err := s.withRetry(ctx, "list history", func() error {
		var qErr error
		rows, qErr = s.db.QueryContext(ctx, query, limit)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]types.AnalysisRecord, 0)
	for rows.Next() {
		var r types.AnalysisRecord
		if err := rows.Scan(
			&r.ID,
			&r.Filename,
			&r.Language,
			&r.LOC,
			&r.Complexity,
			&r.Maintainability,
			&r.FunctionCount,
			&r.IssueCount,
			&r.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return records, nil
}

func (s *SQLiteDB) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteDB) withRetry(ctx context.Context, op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		slog.Debug("sqlite busy, retrying", "op", op, "attempt", attempt)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(time.Duration(attempt*25) * time.Millisecond):
		}
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}
