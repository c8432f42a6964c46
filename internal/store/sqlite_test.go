package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/jobsweep/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func strPtr(s string) *string { return &s }

func testSnapshot(runID string, finished time.Time, jobs ...model.Job) model.Snapshot {
	return model.Snapshot{RunID: runID, FinishedAt: finished, Output: model.NewOutput(jobs)}
}

func TestSQLiteStore_LastRunEmpty(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LastRun(context.Background())
	assert.ErrorIs(t, err, model.ErrNoRun)
}

func TestSQLiteStore_SaveThenRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	finished := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)

	jobs := []model.Job{
		{Title: "Engineer", Company: "Acme", URL: "https://x/1", Location: strPtr("Remote"), Source: "greenhouse"},
		{Title: "Analyst", Company: "Beta", URL: "https://x/2", Source: "lever", Snippet: strPtr("DeFi research")},
	}
	require.NoError(t, s.Save(ctx, testSnapshot("run-1", finished, jobs...)))

	last, err := s.LastRun(ctx)
	require.NoError(t, err)
	assert.True(t, last.Equal(finished))

	got, err := s.Jobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, jobs, got)
}

func TestSQLiteStore_SaveReplacesSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := model.Job{Title: "Old", Company: "A", URL: "u1", Source: "feeds"}
	second := model.Job{Title: "New", Company: "B", URL: "u2", Source: "feeds"}
	require.NoError(t, s.Save(ctx, testSnapshot("run-1", time.Now(), first)))
	require.NoError(t, s.Save(ctx, testSnapshot("run-2", time.Now(), second)))

	got, err := s.Jobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Job{second}, got)

	var runID, count string
	require.NoError(t, s.db.QueryRow("SELECT value FROM meta WHERE key = 'last_run_id'").Scan(&runID))
	require.NoError(t, s.db.QueryRow("SELECT value FROM meta WHERE key = 'last_count'").Scan(&count))
	assert.Equal(t, "run-2", runID)
	assert.Equal(t, "1", count)
}
