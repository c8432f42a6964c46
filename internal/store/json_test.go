package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/jobsweep/internal/model"
)

func TestJSONStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s := NewJSONStore(dir)
	finished := time.Date(2026, 2, 13, 10, 0, 0, 0, time.FixedZone("EST", -5*3600))

	jobs := []model.Job{{Title: "R&D <Engineer>", Company: "Acme", URL: "https://x/1?a=1&b=2", Source: "greenhouse"}}
	require.NoError(t, s.Save(context.Background(), testSnapshot("run-1", finished, jobs...)))

	data, err := os.ReadFile(filepath.Join(dir, "jobs.json"))
	require.NoError(t, err)
	want := `{
  "jobs": [
    {
      "title": "R&D <Engineer>",
      "company": "Acme",
      "url": "https://x/1?a=1&b=2",
      "location": null,
      "posted_date": null,
      "source": "greenhouse",
      "snippet": null
    }
  ],
  "count": 1
}
`
	assert.Equal(t, want, string(data))

	marker, err := os.ReadFile(filepath.Join(dir, "last_run.txt"))
	require.NoError(t, err)
	assert.Equal(t, "2026-02-13T15:00:00Z", string(marker))

	last, err := s.LastRun(context.Background())
	require.NoError(t, err)
	assert.True(t, last.Equal(finished))

	out, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, jobs, out.Jobs)
}

func TestJSONStore_EmptyRun(t *testing.T) {
	dir := t.TempDir()
	s := NewJSONStore(dir)

	require.NoError(t, s.Save(context.Background(), testSnapshot("run-1", time.Now())))

	data, err := os.ReadFile(filepath.Join(dir, "jobs.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"jobs": [], "count": 0}`, string(data))
}

func TestJSONStore_NoRun(t *testing.T) {
	s := NewJSONStore(t.TempDir())

	_, err := s.LastRun(context.Background())
	assert.ErrorIs(t, err, model.ErrNoRun)
	_, err = s.Load()
	assert.ErrorIs(t, err, model.ErrNoRun)
}

func TestJSONStore_Locked(t *testing.T) {
	dir := t.TempDir()
	held := flock.New(filepath.Join(dir, lockFile))
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer held.Unlock()

	err = NewJSONStore(dir).Save(context.Background(), testSnapshot("run-1", time.Now()))
	assert.ErrorIs(t, err, ErrLocked)
	_, statErr := os.Stat(filepath.Join(dir, "jobs.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestMultiStore(t *testing.T) {
	ctx := context.Background()
	jsonStore := NewJSONStore(t.TempDir())
	sqliteStore := newTestStore(t)
	m := Multi(jsonStore, sqliteStore)

	finished := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	job := model.Job{Title: "Engineer", Company: "Acme", URL: "u1", Source: "ashby"}
	require.NoError(t, m.Save(ctx, testSnapshot("run-1", finished, job)))

	last, err := m.LastRun(ctx)
	require.NoError(t, err)
	assert.True(t, last.Equal(finished))

	got, err := sqliteStore.Jobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Job{job}, got)
}

func TestNopStore(t *testing.T) {
	s := NewNopStore()
	require.NoError(t, s.Save(context.Background(), testSnapshot("run-1", time.Now())))
	_, err := s.LastRun(context.Background())
	assert.ErrorIs(t, err, model.ErrNoRun)
}
