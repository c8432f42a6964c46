package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/amishk599/jobsweep/internal/dedup"
	"github.com/amishk599/jobsweep/internal/model"
	"github.com/amishk599/jobsweep/internal/normalize"
)

// JobSpyOptions configures the JobSpy-compatible scraping service.
type JobSpyOptions struct {
	Endpoint      string
	SearchTerms   []string
	Sites         []string
	ResultsWanted int
	HoursOld      int
}

// JobSpySource queries a JobSpy-compatible HTTP service once per search
// term and reads its loosely shaped rows.
type JobSpySource struct {
	opts    JobSpyOptions
	client  *http.Client
	limiter Waiter
	logger  *slog.Logger
}

var _ model.Source = (*JobSpySource)(nil)

func NewJobSpySource(opts JobSpyOptions, client *http.Client, limiter Waiter, logger *slog.Logger) *JobSpySource {
	opts.Endpoint = strings.TrimSpace(opts.Endpoint)
	opts.SearchTerms = trimAll(opts.SearchTerms)
	opts.Sites = trimAll(opts.Sites)
	return &JobSpySource{
		opts:    opts,
		client:  client,
		limiter: limiter,
		logger:  logger,
	}
}

func (s *JobSpySource) Name() string { return "jobspy" }

func (s *JobSpySource) Available() (bool, string) {
	if s.opts.Endpoint == "" {
		return false, "no endpoint configured"
	}
	if len(s.opts.SearchTerms) == 0 {
		return false, "no search terms configured"
	}
	return true, ""
}

// Fetch runs every search term and returns the batch deduplicated by URL.
func (s *JobSpySource) Fetch(ctx context.Context) []model.Job {
	identity := func(term string) string { return term }
	jobs := collect(ctx, s.Name(), s.opts.SearchTerms, identity, s.limiter, s.logger, s.fetchTerm)
	return dedup.ByURL(jobs)
}

func (s *JobSpySource) fetchTerm(ctx context.Context, term string) ([]model.Job, error) {
	endpoint, err := s.searchURL(term)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := getJSON(ctx, s.client, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("jobspy search for %q: %w", term, err)
	}
	rows, err := decodeRows(raw)
	if err != nil {
		return nil, fmt.Errorf("jobspy search for %q: %w", term, err)
	}

	jobs := make([]model.Job, 0, len(rows))
	for _, row := range rows {
		if job, ok := rowToJob(row); ok {
			jobs = append(jobs, job)
		}
	}
	s.logger.Info("jobspy search", "item", term, "jobs", len(jobs))
	return jobs, nil
}

func (s *JobSpySource) searchURL(term string) (string, error) {
	u, err := url.Parse(s.opts.Endpoint)
	if err != nil {
		return "", fmt.Errorf("parse jobspy endpoint: %w", err)
	}
	q := u.Query()
	q.Set("search_term", term)
	for _, site := range s.opts.Sites {
		q.Add("site_name", site)
	}
	if s.opts.ResultsWanted > 0 {
		q.Set("results_wanted", strconv.Itoa(s.opts.ResultsWanted))
	}
	if s.opts.HoursOld > 0 {
		q.Set("hours_old", strconv.Itoa(s.opts.HoursOld))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// decodeRows accepts either a bare array of rows or an object with a
// "jobs" array.
func decodeRows(raw json.RawMessage) ([]normalize.Row, error) {
	var rows []normalize.Row
	if err := json.Unmarshal(raw, &rows); err == nil {
		return rows, nil
	}
	var wrapped struct {
		Jobs []normalize.Row `json:"jobs"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return wrapped.Jobs, nil
}

func rowToJob(row normalize.Row) (model.Job, bool) {
	title := normalize.Lookup(row, "", "title")
	jobURL := normalize.Lookup(row, "", "job_url")
	if title == "" || jobURL == "" {
		return model.Job{}, false
	}

	var parts []string
	for _, key := range []string{"city", "state"} {
		if v := normalize.Lookup(row, "", key); v != "" {
			parts = append(parts, v)
		}
	}

	return normalize.Job(normalize.Fields{
		Title:      title,
		Company:    normalize.Lookup(row, "Unknown", "company"),
		URL:        jobURL,
		Source:     strings.ToLower(normalize.Lookup(row, "jobspy", "site")),
		Location:   strings.Join(parts, ", "),
		PostedDate: normalize.Lookup(row, "", "date_posted"),
		Snippet:    normalize.Truncate(normalize.Lookup(row, "", "description"), normalize.SnippetLimit),
	}), true
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
