package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amishk599/jobsweep/internal/model"
	"github.com/amishk599/jobsweep/internal/normalize"
)

const leverBaseURL = "https://api.lever.co/v0/postings"

// leverCategories represents the categories object in a Lever job.
type leverCategories struct {
	Team         string   `json:"team"`
	Location     string   `json:"location"`
	Commitment   string   `json:"commitment"`
	AllLocations []string `json:"allLocations"`
}

// leverJob represents a single job in the Lever API response.
type leverJob struct {
	ID               string          `json:"id"`
	Text             string          `json:"text"`
	DescriptionPlain string          `json:"descriptionPlain"`
	OpeningPlain     string          `json:"openingPlain"`
	Categories       leverCategories `json:"categories"`
	CreatedAt        int64           `json:"createdAt"`
	HostedURL        string          `json:"hostedUrl"`
}

// LeverSource fetches jobs from the Lever public postings API for every
// configured site.
type LeverSource struct {
	sites   []Board
	client  *http.Client
	limiter Waiter
	logger  *slog.Logger
}

var _ model.Source = (*LeverSource)(nil)

// NewLeverSource creates a source over the given Lever site ids.
func NewLeverSource(sites []Board, client *http.Client, limiter Waiter, logger *slog.Logger) *LeverSource {
	return &LeverSource{
		sites:   cleanBoards(sites),
		client:  client,
		limiter: limiter,
		logger:  logger,
	}
}

func (s *LeverSource) Name() string { return "lever" }

func (s *LeverSource) Available() (bool, string) {
	if len(s.sites) == 0 {
		return false, "no sites configured"
	}
	return true, ""
}

// Fetch retrieves the postings of every site, skipping sites that fail.
func (s *LeverSource) Fetch(ctx context.Context) []model.Job {
	return collect(ctx, s.Name(), s.sites, Board.label, s.limiter, s.logger, s.fetchSite)
}

func (s *LeverSource) fetchSite(ctx context.Context, b Board) ([]model.Job, error) {
	endpoint := fmt.Sprintf("%s/%s?mode=json", leverBaseURL, url.PathEscape(b.ID))

	var leverJobs []leverJob
	if err := getJSON(ctx, s.client, endpoint, &leverJobs); err != nil {
		return nil, fmt.Errorf("lever fetch for %s: %w", b.ID, err)
	}

	jobs := make([]model.Job, 0, len(leverJobs))
	for _, lj := range leverJobs {
		description := lj.DescriptionPlain
		if strings.TrimSpace(description) == "" {
			description = lj.OpeningPlain
		}

		var posted string
		if lj.CreatedAt > 0 {
			posted = time.UnixMilli(lj.CreatedAt).UTC().Format(time.RFC3339)
		}

		job := normalize.Job(normalize.Fields{
			Title:      lj.Text,
			Company:    b.Name,
			URL:        lj.HostedURL,
			Source:     "lever",
			Location:   leverLocation(lj.Categories),
			PostedDate: posted,
			Snippet:    normalize.Truncate(description, normalize.SnippetLimit),
		})
		if job.Title == "" || job.URL == "" {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// leverLocation prefers the primary location and falls back to the first
// three entries of allLocations.
func leverLocation(c leverCategories) string {
	if loc := strings.TrimSpace(c.Location); loc != "" {
		return loc
	}
	all := c.AllLocations
	if len(all) > 3 {
		all = all[:3]
	}
	return strings.Join(all, ", ")
}

// ProbeLever reports whether site is a Lever site with at least one posting.
func ProbeLever(ctx context.Context, client *http.Client, site string) (bool, error) {
	endpoint := fmt.Sprintf("%s/%s?mode=json", leverBaseURL, url.PathEscape(site))

	var postings []json.RawMessage
	if err := getJSON(ctx, client, endpoint, &postings); err != nil {
		var httpErr *model.HTTPError
		if errors.As(err, &httpErr) {
			return false, nil
		}
		return false, fmt.Errorf("lever probe for %s: %w", site, err)
	}
	return len(postings) > 0, nil
}
