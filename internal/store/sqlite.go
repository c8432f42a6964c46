package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/jobsweep/internal/model"
)

// SQLiteStore keeps a queryable snapshot of the latest run. Each Save
// replaces the jobs table; it is not a history.
type SQLiteStore struct {
	db *sql.DB
}

var _ model.ResultStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the jobs and meta tables exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			position    INTEGER PRIMARY KEY,
			title       TEXT NOT NULL,
			company     TEXT NOT NULL,
			url         TEXT NOT NULL,
			location    TEXT,
			posted_date TEXT,
			source      TEXT NOT NULL,
			snippet     TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// Save replaces the stored snapshot with snap in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, snap model.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM jobs"); err != nil {
		return fmt.Errorf("clearing jobs: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO jobs
		(position, title, company, url, location, posted_date, source, snippet)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, j := range snap.Output.Jobs {
		if _, err := stmt.ExecContext(ctx, i, j.Title, j.Company, j.URL,
			nullable(j.Location), nullable(j.PostedDate), j.Source, nullable(j.Snippet)); err != nil {
			return fmt.Errorf("inserting job %d: %w", i, err)
		}
	}

	meta := map[string]string{
		"last_run":    snap.FinishedAt.UTC().Format(time.RFC3339),
		"last_run_id": snap.RunID,
		"last_count":  strconv.Itoa(snap.Output.Count),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
			k, v); err != nil {
			return fmt.Errorf("updating meta %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// LastRun returns the finish time of the stored snapshot, or model.ErrNoRun.
func (s *SQLiteStore) LastRun(ctx context.Context) (time.Time, error) {
	var v string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = 'last_run'").Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, model.ErrNoRun
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("reading last run: %w", err)
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing last run %q: %w", v, err)
	}
	return t, nil
}

// Jobs returns the stored snapshot in run order.
func (s *SQLiteStore) Jobs(ctx context.Context) ([]model.Job, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT title, company, url, location, posted_date, source, snippet
		FROM jobs ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		var (
			j                         model.Job
			location, posted, snippet sql.NullString
		)
		if err := rows.Scan(&j.Title, &j.Company, &j.URL, &location, &posted, &j.Source, &snippet); err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		j.Location = fromNullable(location)
		j.PostedDate = fromNullable(posted)
		j.Snippet = fromNullable(snippet)
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
