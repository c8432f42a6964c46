package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/amishk599/jobsweep/internal/model"
)

const (
	jobsFile    = "jobs.json"
	lastRunFile = "last_run.txt"
	lockFile    = ".jobsweep.lock"
)

// ErrLocked is returned by Save when another process is writing the same
// output directory.
var ErrLocked = errors.New("output directory is locked by another run")

// JSONStore writes the consolidated dataset and the last-run marker to a
// directory.
type JSONStore struct {
	dir string
}

var _ model.ResultStore = (*JSONStore)(nil)

func NewJSONStore(dir string) *JSONStore {
	return &JSONStore{dir: dir}
}

// JobsPath is the path of the dataset file.
func (s *JSONStore) JobsPath() string { return filepath.Join(s.dir, jobsFile) }

// Save writes jobs.json and then last_run.txt. Each file is replaced
// atomically.
func (s *JSONStore) Save(ctx context.Context, snap model.Snapshot) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	lock := flock.New(filepath.Join(s.dir, lockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock output dir: %w", err)
	}
	if !locked {
		return ErrLocked
	}
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap.Output); err != nil {
		return fmt.Errorf("encode jobs: %w", err)
	}
	if err := writeAtomic(s.JobsPath(), buf.Bytes()); err != nil {
		return err
	}

	stamp := snap.FinishedAt.UTC().Format(time.RFC3339)
	return writeAtomic(filepath.Join(s.dir, lastRunFile), []byte(stamp))
}

// LastRun reads the last-run marker.
func (s *JSONStore) LastRun(context.Context) (time.Time, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, lastRunFile))
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, model.ErrNoRun
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read last run: %w", err)
	}
	raw := strings.TrimSpace(string(data))
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse last run %q: %w", raw, err)
	}
	return t, nil
}

// Load reads the dataset written by the last Save.
func (s *JSONStore) Load() (model.Output, error) {
	data, err := os.ReadFile(s.JobsPath())
	if errors.Is(err, fs.ErrNotExist) {
		return model.Output{}, model.ErrNoRun
	}
	if err != nil {
		return model.Output{}, fmt.Errorf("read jobs: %w", err)
	}
	var out model.Output
	if err := json.Unmarshal(data, &out); err != nil {
		return model.Output{}, fmt.Errorf("decode jobs: %w", err)
	}
	return out, nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
