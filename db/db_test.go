package db_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/codescope/db"
	"github.com/TFMV/codescope/types"
)

func record(i int) types.AnalysisRecord {
	ts := time.Date(2024, 5, 1, 12, 0, i, 0, time.UTC)
	return types.AnalysisRecord{
		ID:              fmt.Sprintf("rec-%02d", i),
		Filename:        fmt.Sprintf("file%d.js", i),
		Language:        "javascript",
		LOC:             10 + i,
		Complexity:      i + 1,
		Maintainability: 50.5,
		FunctionCount:   i,
		IssueCount:      1,
		Timestamp:       ts.Format(types.TimestampLayout),
	}
}

func stores(t *testing.T) map[string]db.DB {
	t.Helper()
	ctx := context.Background()

	sqlite, err := db.Open(ctx, db.Config{
		Backend: db.BackendSQLite,
		SQLite:  db.SQLiteConfig{Path: filepath.Join(t.TempDir(), "nested", "history.db")},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	memory, err := db.Open(ctx, db.Config{Backend: db.BackendMemory})
	require.NoError(t, err)

	return map[string]db.DB{"sqlite": sqlite, "memory": memory}
}

func TestStore_ListRecent(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 0; i < 5; i++ {
				require.NoError(t, store.StoreAnalysis(ctx, record(i)))
			}

			got, err := store.ListRecent(ctx, 3)
			require.NoError(t, err)
			require.Len(t, got, 3)
			assert.Equal(t, record(4), got[0])
			assert.Equal(t, "rec-03", got[1].ID)
			assert.Equal(t, "rec-02", got[2].ID)

			all, err := store.ListRecent(ctx, 100)
			require.NoError(t, err)
			assert.Len(t, all, 5)
		})
	}
}

func TestStore_ListRecentSubSecond(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	offsets := []time.Duration{
		0,
		100 * time.Millisecond,
		150 * time.Millisecond,
		500 * time.Millisecond,
		time.Second,
	}

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i, off := range offsets {
				rec := record(i)
				// RFC3339Nano trims trailing zeros, so these stamps differ in width.
				rec.Timestamp = base.Add(off).Format(time.RFC3339Nano)
				require.NoError(t, store.StoreAnalysis(ctx, rec))
			}

			got, err := store.ListRecent(ctx, len(offsets))
			require.NoError(t, err)

			var ids []string
			for _, r := range got {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, []string{"rec-04", "rec-03", "rec-02", "rec-01", "rec-00"}, ids)
		})
	}
}

func TestStore_InvalidLimit(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, limit := range []int{0, -1} {
				_, err := store.ListRecent(context.Background(), limit)
				assert.ErrorIs(t, err, db.ErrInvalidLimit)
			}
		})
	}
}

func TestStore_Empty(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			got, err := store.ListRecent(context.Background(), db.DefaultHistoryLimit)
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestSQLite_Reopen(t *testing.T) {
	ctx := context.Background()
	cfg := db.Config{Backend: db.BackendSQLite, SQLite: db.SQLiteConfig{Path: filepath.Join(t.TempDir(), "h.db")}}

	first, err := db.Open(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, first.StoreAnalysis(ctx, record(1)))
	require.NoError(t, first.Close())

	second, err := db.Open(ctx, cfg)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []types.AnalysisRecord{record(1)}, got)
}

func TestSQLite_BadPath(t *testing.T) {
	_, err := db.NewSQLiteDB("  ")
	assert.Error(t, err)

	_, err = db.NewSQLiteDB(t.TempDir())
	assert.ErrorContains(t, err, "is a directory")
}

func TestMemory_Capacity(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryDB(3)
	for i := 0; i < 10; i++ {
		require.NoError(t, store.StoreAnalysis(ctx, record(i)))
	}

	got, err := store.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "rec-09", got[0].ID)
	assert.Equal(t, "rec-07", got[2].ID)
}

func TestMemory_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryDB(1000)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.StoreAnalysis(ctx, record(i)))
			_, err := store.ListRecent(ctx, 5)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := store.ListRecent(ctx, 1000)
	require.NoError(t, err)
	assert.Len(t, got, 50)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := db.Open(context.Background(), db.Config{Backend: "mongo"})
	assert.ErrorContains(t, err, `unknown storage backend "mongo"`)
}

func TestMockDB(t *testing.T) {
	mock := db.NewMockDB()
	var stored []types.AnalysisRecord
	mock.StoreAnalysisFunc = func(ctx context.Context, r types.AnalysisRecord) error {
		stored = append(stored, r)
		return nil
	}

	var store db.DB = mock
	require.NoError(t, store.Initialize(context.Background()))
	require.NoError(t, store.StoreAnalysis(context.Background(), record(1)))
	assert.Len(t, stored, 1)

	got, err := store.ListRecent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}
