package schema

import (
	"database/sql"
	"fmt"

	surrealdb "github.com/surrealdb/surrealdb.go"
)

// HistoryTable is the table both backends store analysis records in.
const HistoryTable = "analysis_history"

// SurrealStatements define the history table and its timestamp index.
var SurrealStatements = []string{
	`DEFINE TABLE analysis_history SCHEMAFULL;
	 DEFINE FIELD key ON analysis_history TYPE string;
	 DEFINE FIELD filename ON analysis_history TYPE string;
	 DEFINE FIELD language ON analysis_history TYPE string;
	 DEFINE FIELD loc ON analysis_history TYPE int;
	 DEFINE FIELD complexity ON analysis_history TYPE int;
	 DEFINE FIELD maintainability ON analysis_history TYPE float;
	 DEFINE FIELD function_count ON analysis_history TYPE int;
	 DEFINE FIELD issue_count ON analysis_history TYPE int;
	 DEFINE FIELD timestamp ON analysis_history TYPE string;
	 DEFINE FIELD created_at ON analysis_history TYPE datetime DEFAULT time::now();`,

	`DEFINE INDEX history_key ON analysis_history FIELDS key UNIQUE;
	 DEFINE INDEX history_timestamp ON analysis_history FIELDS timestamp;`,
}

// InitializeSurreal applies SurrealStatements.
func InitializeSurreal(db *surrealdb.DB) error {
	for _, stmt := range SurrealStatements {
		if _, err := surrealdb.Query[any](db, stmt, map[string]interface{}{}); err != nil {
			return fmt.Errorf("schema initialization error: %w", err)
		}
	}

	return nil
}

type migration struct {
	version int
	sql     string
}

var sqliteMigrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS analysis_history (
  id TEXT PRIMARY KEY,
  filename TEXT NOT NULL,
  language TEXT NOT NULL,
  loc INTEGER NOT NULL,
  complexity INTEGER NOT NULL,
  maintainability REAL NOT NULL,
  function_count INTEGER NOT NULL,
  issue_count INTEGER NOT NULL,
  ts_utc TEXT NOT NULL,
  created_at_utc TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP)
);
CREATE INDEX IF NOT EXISTS idx_analysis_history_ts ON analysis_history(ts_utc);
`,
	},
}

// SQLiteVersion is the newest migration known to this build.
var SQLiteVersion = sqliteMigrations[len(sqliteMigrations)-1].version

// EnsureSQLite brings db up to SQLiteVersion, one transaction per migration.
func EnsureSQLite(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  applied_at_utc TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP)
);
`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("read schema_migrations version: %w", err)
	}
	if current > SQLiteVersion {
		return fmt.Errorf("schema version %d is newer than supported version %d", current, SQLiteVersion)
	}

	for _, m := range sqliteMigrations {
		if m.version <= current {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version) VALUES (?)`, m.version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.version, err)
		}
	}

	return nil
}
