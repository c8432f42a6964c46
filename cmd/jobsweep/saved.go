package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amishk599/jobsweep/internal/config"
	"github.com/amishk599/jobsweep/internal/model"
	"github.com/amishk599/jobsweep/internal/store"
)

// savedRun is the dataset of the last run as read back from the output.
type savedRun struct {
	Jobs    []model.Job
	LastRun time.Time // zero when no marker exists
}

// loadSaved reads the last run from jobs.json, or from the snapshot
// database when fromSQLite is set.
func loadSaved(ctx context.Context, cfg *config.Config, fromSQLite bool) (savedRun, error) {
	if fromSQLite {
		return loadSavedSQLite(ctx, cfg.Output.SQLitePath)
	}

	js := store.NewJSONStore(cfg.Output.Dir)
	out, err := js.Load()
	if err != nil {
		return savedRun{}, err
	}
	last, err := js.LastRun(ctx)
	if err != nil && !errors.Is(err, model.ErrNoRun) {
		return savedRun{}, err
	}
	return savedRun{Jobs: out.Jobs, LastRun: last}, nil
}

func loadSavedSQLite(ctx context.Context, path string) (savedRun, error) {
	if path == "" {
		return savedRun{}, errors.New("output.sqlite_path is not configured")
	}
	s, err := store.NewSQLiteStore(path)
	if err != nil {
		return savedRun{}, fmt.Errorf("open snapshot db: %w", err)
	}
	defer s.Close()

	last, err := s.LastRun(ctx)
	if err != nil {
		return savedRun{}, err
	}
	jobs, err := s.Jobs(ctx)
	if err != nil {
		return savedRun{}, err
	}
	return savedRun{Jobs: jobs, LastRun: last}, nil
}
