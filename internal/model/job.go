package model

import (
	"context"
	"strings"
	"time"
)

// Job is the canonical job record every source is reduced to.
// Optional fields are nil when the source had nothing for them.
type Job struct {
	Title      string  `json:"title"`
	Company    string  `json:"company"`
	URL        string  `json:"url"`
	Location   *string `json:"location"`
	PostedDate *string `json:"posted_date"` // free text, format differs per source
	Source     string  `json:"source"`
	Snippet    *string `json:"snippet"`
}

// Identity is the (company, title, url) triple used to detect duplicates.
type Identity struct {
	Company string
	Title   string
	URL     string
}

// Complete reports whether all three parts of the identity are non-empty.
func (id Identity) Complete() bool {
	return id.Company != "" && id.Title != "" && id.URL != ""
}

// Identity returns the job's dedup identity built from trimmed values.
func (j Job) Identity() Identity {
	return Identity{
		Company: strings.TrimSpace(j.Company),
		Title:   strings.TrimSpace(j.Title),
		URL:     strings.TrimSpace(j.URL),
	}
}

// Output is the object handed to the output boundary at the end of a run.
type Output struct {
	Jobs  []Job `json:"jobs"`
	Count int   `json:"count"`
}

// NewOutput wraps jobs so that Count always equals len(Jobs).
func NewOutput(jobs []Job) Output {
	if jobs == nil {
		jobs = []Job{}
	}
	return Output{Jobs: jobs, Count: len(jobs)}
}

// Snapshot is one finished run as persisted by a ResultStore.
type Snapshot struct {
	RunID      string
	FinishedAt time.Time
	Output     Output
}

// Source produces canonical records for one kind of external job board.
// Fetch never fails as a whole: per-item failures are logged and skipped
// inside the source, so the worst case is an empty slice.
type Source interface {
	Name() string
	// Available reports whether the source can run at all. When it cannot,
	// reason says why (missing endpoint, nothing configured).
	Available() (ok bool, reason string)
	Fetch(ctx context.Context) []Job
}

// JobFilter decides whether a job matches the user's criteria.
// Apply returns the matching jobs in input order.
type JobFilter interface {
	Match(job Job) bool
	Apply(jobs []Job) []Job
}

// Notifier sends the final job list of a run somewhere a human will see it.
type Notifier interface {
	Notify(jobs []Job) error
}

// ResultStore persists the output of a run and the last-run marker.
type ResultStore interface {
	Save(ctx context.Context, snap Snapshot) error
	LastRun(ctx context.Context) (time.Time, error)
}
