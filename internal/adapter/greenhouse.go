package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/amishk599/jobsweep/internal/model"
	"github.com/amishk599/jobsweep/internal/normalize"
)

const greenhouseBaseURL = "https://boards-api.greenhouse.io/v1/boards"

// greenhouseJob represents a single job in the Greenhouse API response.
type greenhouseJob struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Location    greenhouseLocation `json:"location"`
	AbsoluteURL string             `json:"absolute_url"`
	UpdatedAt   string             `json:"updated_at"`
}

type greenhouseLocation struct {
	Name string `json:"name"`
}

// greenhouseResponse is the top-level Greenhouse jobs API response.
type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

// GreenhouseSource fetches jobs from the Greenhouse public boards API for
// every configured board token.
type GreenhouseSource struct {
	boards  []Board
	client  *http.Client
	limiter Waiter
	logger  *slog.Logger
}

var _ model.Source = (*GreenhouseSource)(nil)

// NewGreenhouseSource creates a source over the given board tokens.
func NewGreenhouseSource(boards []Board, client *http.Client, limiter Waiter, logger *slog.Logger) *GreenhouseSource {
	return &GreenhouseSource{
		boards:  cleanBoards(boards),
		client:  client,
		limiter: limiter,
		logger:  logger,
	}
}

func (s *GreenhouseSource) Name() string { return "greenhouse" }

func (s *GreenhouseSource) Available() (bool, string) {
	if len(s.boards) == 0 {
		return false, "no boards configured"
	}
	return true, ""
}

// Fetch retrieves the jobs of every board, skipping boards that fail.
func (s *GreenhouseSource) Fetch(ctx context.Context) []model.Job {
	return collect(ctx, s.Name(), s.boards, Board.label, s.limiter, s.logger, s.fetchBoard)
}

func (s *GreenhouseSource) fetchBoard(ctx context.Context, b Board) ([]model.Job, error) {
	endpoint := fmt.Sprintf("%s/%s/jobs", greenhouseBaseURL, url.PathEscape(b.ID))

	var ghResp greenhouseResponse
	if err := getJSON(ctx, s.client, endpoint, &ghResp); err != nil {
		return nil, fmt.Errorf("greenhouse fetch for %s: %w", b.ID, err)
	}

	jobs := make([]model.Job, 0, len(ghResp.Jobs))
	for _, gj := range ghResp.Jobs {
		job := normalize.Job(normalize.Fields{
			Title:      gj.Title,
			Company:    b.Name,
			URL:        gj.AbsoluteURL,
			Source:     "greenhouse",
			Location:   gj.Location.Name,
			PostedDate: gj.UpdatedAt,
		})
		if job.Title == "" || job.URL == "" {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// ProbeGreenhouse reports whether token names a live Greenhouse board:
// the jobs endpoint answers 200 with a jobs list. Non-200 answers are a
// plain "no"; transport failures are returned as errors.
func ProbeGreenhouse(ctx context.Context, client *http.Client, token string) (bool, error) {
	endpoint := fmt.Sprintf("%s/%s/jobs", greenhouseBaseURL, url.PathEscape(token))

	var body map[string]json.RawMessage
	if err := getJSON(ctx, client, endpoint, &body); err != nil {
		var httpErr *model.HTTPError
		if errors.As(err, &httpErr) {
			return false, nil
		}
		return false, fmt.Errorf("greenhouse probe for %s: %w", token, err)
	}
	jobs, ok := body["jobs"]
	return ok && string(jobs) != "null", nil
}
