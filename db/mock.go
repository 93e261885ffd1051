package db

import (
	"context"

	"github.com/TFMV/codescope/types"
)

type MockDB struct {
	InitializeFunc    func(ctx context.Context) error
	StoreAnalysisFunc func(ctx context.Context, record types.AnalysisRecord) error
	ListRecentFunc    func(ctx context.Context, limit int) ([]types.AnalysisRecord, error)
}

func NewMockDB() *MockDB {
	return &MockDB{
		InitializeFunc: func(ctx context.Context) error {
			return nil
		},
	}
}

func (m *MockDB) Initialize(ctx context.Context) error {
	return m.InitializeFunc(ctx)
}

func (m *MockDB) StoreAnalysis(ctx context.Context, record types.AnalysisRecord) error {
	if m.StoreAnalysisFunc != nil {
		return m.StoreAnalysisFunc(ctx, record)
	}
	return nil
}

func (m *MockDB) ListRecent(ctx context.Context, limit int) ([]types.AnalysisRecord, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, limit)
	}
	return []types.AnalysisRecord{}, nil
}

func (m *MockDB) Close() error {
	return nil
}
