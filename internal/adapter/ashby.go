package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/amishk599/jobsweep/internal/model"
	"github.com/amishk599/jobsweep/internal/normalize"
)

const ashbyBaseURL = "https://api.ashbyhq.com/posting-api/job-board"

// ashbyJob represents a single job in the Ashby API response.
type ashbyJob struct {
	Title            string `json:"title"`
	Location         string `json:"location"`
	JobURL           string `json:"jobUrl"`
	PublishedAt      string `json:"publishedAt"`
	IsListed         bool   `json:"isListed"`
	DescriptionPlain string `json:"descriptionPlain"`
}

// ashbyResponse is the top-level Ashby job board API response.
type ashbyResponse struct {
	Jobs []ashbyJob `json:"jobs"`
}

// AshbySource fetches jobs from the Ashby public job board API.
type AshbySource struct {
	boards  []Board
	client  *http.Client
	limiter Waiter
	logger  *slog.Logger
}

var _ model.Source = (*AshbySource)(nil)

// NewAshbySource creates a source over the given Ashby board names.
func NewAshbySource(boards []Board, client *http.Client, limiter Waiter, logger *slog.Logger) *AshbySource {
	return &AshbySource{
		boards:  cleanBoards(boards),
		client:  client,
		limiter: limiter,
		logger:  logger,
	}
}

func (s *AshbySource) Name() string { return "ashby" }

func (s *AshbySource) Available() (bool, string) {
	if len(s.boards) == 0 {
		return false, "no boards configured"
	}
	return true, ""
}

func (s *AshbySource) Fetch(ctx context.Context) []model.Job {
	return collect(ctx, s.Name(), s.boards, Board.label, s.limiter, s.logger, s.fetchBoard)
}

func (s *AshbySource) fetchBoard(ctx context.Context, b Board) ([]model.Job, error) {
	endpoint := fmt.Sprintf("%s/%s", ashbyBaseURL, url.PathEscape(b.ID))

	var ashbyResp ashbyResponse
	if err := getJSON(ctx, s.client, endpoint, &ashbyResp); err != nil {
		return nil, fmt.Errorf("ashby fetch for %s: %w", b.ID, err)
	}

	jobs := make([]model.Job, 0, len(ashbyResp.Jobs))
	for _, aj := range ashbyResp.Jobs {
		if !aj.IsListed {
			continue
		}
		job := normalize.Job(normalize.Fields{
			Title:      aj.Title,
			Company:    b.Name,
			URL:        aj.JobURL,
			Source:     "ashby",
			Location:   aj.Location,
			PostedDate: aj.PublishedAt,
			Snippet:    normalize.Truncate(aj.DescriptionPlain, normalize.SnippetLimit),
		})
		if job.Title == "" || job.URL == "" {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
