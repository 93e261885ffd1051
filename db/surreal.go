package db

import (
	"context"
	"fmt"

	"github.com/TFMV/codescope/schema"
	"github.com/TFMV/codescope/types"
	surrealdb "github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

/*
Start SurrealDB:
surreal start --user root --pass root --bind 0.0.0.0:8000 memory
*/

// historyRow is the stored shape of an AnalysisRecord. The record's own id is
// kept in Key so it never collides with the SurrealDB record id.
type historyRow struct {
	ID              *models.RecordID `json:"id,omitempty"`
	Key             string           `json:"key"`
	Filename        string           `json:"filename"`
	Language        string           `json:"language"`
	LOC             int              `json:"loc"`
	Complexity      int              `json:"complexity"`
	Maintainability float64          `json:"maintainability"`
	FunctionCount   int              `json:"function_count"`
	IssueCount      int              `json:"issue_count"`
	Timestamp       string           `json:"timestamp"`
}

func toRow(r types.AnalysisRecord) historyRow {
	return historyRow{
		Key:             r.ID,
		Filename:        r.Filename,
		Language:        r.Language,
		LOC:             r.LOC,
		Complexity:      r.Complexity,
		Maintainability: r.Maintainability,
		FunctionCount:   r.FunctionCount,
		IssueCount:      r.IssueCount,
		Timestamp:       types.SortableTimestamp(r.Timestamp),
	}
}

func (h historyRow) record() types.AnalysisRecord {
	return types.AnalysisRecord{
		ID:              h.Key,
		Filename:        h.Filename,
		Language:        h.Language,
		LOC:             h.LOC,
		Complexity:      h.Complexity,
		Maintainability: h.Maintainability,
		FunctionCount:   h.FunctionCount,
		IssueCount:      h.IssueCount,
		Timestamp:       h.Timestamp,
	}
}

type SurrealDB struct {
	db     *surrealdb.DB
	config SurrealConfig
}

func NewSurrealDB(config SurrealConfig) (*SurrealDB, error) {
	db, err := surrealdb.New(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &SurrealDB{
		db:     db,
		config: config,
	}, nil
}

func (s *SurrealDB) Initialize(ctx context.Context) error {
	if err := s.db.Use(s.config.Namespace, s.config.Database); err != nil {
		return fmt.Errorf("failed to set namespace/database: %w", err)
	}

	authData := &surrealdb.Auth{
		Username: s.config.Username,
		Password: s.config.Password,
	}
	token, err := s.db.SignIn(authData)
	if err != nil {
		return fmt.Errorf("failed to sign in: %w", err)
	}

	if err := s.db.Authenticate(token); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}

	if err := schema.InitializeSurreal(s.db); err != nil {
		return err
	}

	return nil
}

func (s *SurrealDB) StoreAnalysis(ctx context.Context, record types.AnalysisRecord) error {
	if _, err := surrealdb.Create[historyRow](s.db, models.Table(schema.HistoryTable), toRow(record)); err != nil {
		return fmt.Errorf("error storing analysis of %s: %w", record.Filename, err)
	}
	return nil
}

func (s *SurrealDB) ListRecent(ctx context.Context, limit int) ([]types.AnalysisRecord, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}

	results, err := surrealdb.Query[[]historyRow](s.db,
		"SELECT * FROM analysis_history ORDER BY timestamp DESC LIMIT $limit",
		map[string]interface{}{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("error listing history: %w", err)
	}

	records := make([]types.AnalysisRecord, 0, limit)
	if results == nil || len(*results) == 0 {
		return records, nil
	}
	for _, row := range (*results)[0].Result {
		records = append(records, row.record())
	}
	return records, nil
}

func (s *SurrealDB) Close() error {
	return s.db.Close()
}
