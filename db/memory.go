package db

import (
	"context"
	"sync"

	"github.com/TFMV/codescope/types"
)

// MemoryDB keeps the most recent records in process memory. It is the
// default backend and loses its contents on restart.
type MemoryDB struct {
	mu       sync.RWMutex
	records  []types.AnalysisRecord
	capacity int
}

// NewMemoryDB keeps at most capacity records; a non-positive capacity means
// DefaultHistoryLimit.
func NewMemoryDB(capacity int) *MemoryDB {
	if capacity <= 0 {
		capacity = DefaultHistoryLimit
	}
	return &MemoryDB{capacity: capacity}
}

func (m *MemoryDB) Initialize(ctx context.Context) error {
	return nil
}

func (m *MemoryDB) StoreAnalysis(ctx context.Context, record types.AnalysisRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, record)
	if over := len(m.records) - m.capacity; over > 0 {
		m.records = append(m.records[:0:0], m.records[over:]...)
	}
	return nil
}

func (m *MemoryDB) ListRecent(ctx context.Context, limit int) ([]types.AnalysisRecord, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.AnalysisRecord, 0, min(limit, len(m.records)))
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.records[i])
	}
	return out, nil
}

func (m *MemoryDB) Close() error {
	return nil
}
