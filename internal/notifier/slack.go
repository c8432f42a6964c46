package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/amishk599/jobsweep/internal/model"
)

// maxListed is how many jobs one Slack summary shows before "and N more".
const maxListed = 10

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// SlackNotifier posts one run summary to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
	sleep      func(time.Duration)
}

// NewSlackNotifier returns a notifier that posts run summaries to Slack via webhook.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
		sleep:      time.Sleep,
	}
}

// Notify sends a single Block Kit message listing the run's jobs. An empty
// run sends nothing. A 429 answer is retried once after Retry-After.
func (s *SlackNotifier) Notify(jobs []model.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	body, err := json.Marshal(buildPayload(jobs))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	status, retryAfter, err := s.post(body)
	if err != nil {
		return err
	}
	if status == http.StatusTooManyRequests {
		s.logger.Warn("slack rate limited, retrying", "retry_after", retryAfter)
		s.sleep(retryAfter)

		status, _, err = s.post(body)
		if err != nil {
			return fmt.Errorf("retry: %w", err)
		}
		if status != http.StatusOK {
			return fmt.Errorf("slack returned %d on retry", status)
		}
		s.logger.Info("slack summary sent", "jobs", len(jobs), "retried", true)
		return nil
	}

	if status != http.StatusOK {
		return fmt.Errorf("slack returned %d", status)
	}
	s.logger.Info("slack summary sent", "jobs", len(jobs))
	return nil
}

func (s *SlackNotifier) post(body []byte) (int, time.Duration, error) {
	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, 0, fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	secs, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
	if secs <= 0 {
		secs = 1
	}
	return resp.StatusCode, time.Duration(secs) * time.Second, nil
}

// Block Kit payload types.

type slackPayload struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string      `json:"type"`
	Text     *slackText  `json:"text,omitempty"`
	Elements []slackText `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SendTestMessage sends a synthetic job to verify the integration works.
func SendTestMessage(n model.Notifier) error {
	location := "Everywhere"
	testJob := model.Job{
		Title:    "Test Notification: Integration Verified",
		Company:  "jobsweep",
		URL:      "https://github.com/amishk599/jobsweep",
		Location: &location,
		Source:   "test",
	}
	return n.Notify([]model.Job{testJob})
}

func buildPayload(jobs []model.Job) slackPayload {
	noun := "jobs"
	if len(jobs) == 1 {
		noun = "job"
	}
	headline := fmt.Sprintf("%d matching %s", len(jobs), noun)

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: "🚀 " + headline},
		},
	}

	listed := jobs
	if len(listed) > maxListed {
		listed = listed[:maxListed]
	}
	for _, j := range listed {
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: jobLine(j)},
		})
	}

	if rest := len(jobs) - len(listed); rest > 0 {
		blocks = append(blocks, slackBlock{
			Type:     "context",
			Elements: []slackText{{Type: "mrkdwn", Text: fmt.Sprintf("and %d more", rest)}},
		})
	}
	blocks = append(blocks, slackBlock{Type: "divider"})

	return slackPayload{Text: headline, Blocks: blocks}
}

func jobLine(j model.Job) string {
	details := []string{j.Company}
	if j.Location != nil {
		details = append(details, *j.Location)
	}
	details = append(details, j.Source)
	if j.PostedDate != nil {
		details = append(details, *j.PostedDate)
	}
	return fmt.Sprintf("*<%s|%s>*\n%s", j.URL, escape(j.Title), escape(strings.Join(details, " · ")))
}

// escape encodes the characters Slack mrkdwn reserves.
func escape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}
