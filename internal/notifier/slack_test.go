package notifier

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amishk599/jobsweep/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

func sampleJob(title, company string) model.Job {
	return model.Job{
		Company:    company,
		Title:      title,
		Location:   strPtr("Remote, US"),
		URL:        "https://example.com/apply",
		PostedDate: strPtr("2026-01-15"),
		Source:     "greenhouse",
	}
}

func newTestNotifier(srv *httptest.Server) *SlackNotifier {
	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	n.sleep = func(time.Duration) {}
	return n
}

func TestSlackNotifier_EmptyJobs(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := newTestNotifier(srv)

	if err := n.Notify(nil); err != nil {
		t.Errorf("Notify(nil) = %v, want nil", err)
	}
	if err := n.Notify([]model.Job{}); err != nil {
		t.Errorf("Notify([]) = %v, want nil", err)
	}
	if c := calls.Load(); c != 0 {
		t.Errorf("expected 0 HTTP calls, got %d", c)
	}
}

func TestSlackNotifier_OneMessagePerRun(t *testing.T) {
	var calls atomic.Int32
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	jobs := []model.Job{sampleJob("Engineer", "Acme"), sampleJob("Analyst", "Beta")}
	if err := newTestNotifier(srv).Notify(jobs); err != nil {
		t.Fatalf("Notify() = %v", err)
	}
	if c := calls.Load(); c != 1 {
		t.Errorf("expected 1 HTTP call, got %d", c)
	}

	var payload slackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Text != "2 matching jobs" {
		t.Errorf("fallback text = %q", payload.Text)
	}
	// header, two sections, divider
	if len(payload.Blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(payload.Blocks))
	}
	first := payload.Blocks[1].Text.Text
	want := "*<https://example.com/apply|Engineer>*\nAcme · Remote, US · greenhouse · 2026-01-15"
	if first != want {
		t.Errorf("job line = %q, want %q", first, want)
	}
}

func TestSlackNotifier_Truncated(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var jobs []model.Job
	for i := 0; i < 13; i++ {
		jobs = append(jobs, sampleJob(fmt.Sprintf("Role %d", i), "Acme"))
	}
	if err := newTestNotifier(srv).Notify(jobs); err != nil {
		t.Fatalf("Notify() = %v", err)
	}

	var payload slackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// header, 10 sections, context, divider
	if len(payload.Blocks) != 13 {
		t.Fatalf("expected 13 blocks, got %d", len(payload.Blocks))
	}
	ctxBlock := payload.Blocks[11]
	if ctxBlock.Type != "context" || ctxBlock.Elements[0].Text != "and 3 more" {
		t.Errorf("unexpected context block %+v", ctxBlock)
	}
}

func TestSlackNotifier_SlackReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if err := newTestNotifier(srv).Notify([]model.Job{sampleJob("Engineer", "Acme")}); err == nil {
		t.Fatal("expected error for HTTP 500")
	}
}

func TestSlackNotifier_RateLimited(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := calls.Add(1)
		if c == 1 {
			w.Header().Set("Retry-After", "3")
			w.WriteHeader(http.StatusTooManyRequests)
		} else {
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	n := newTestNotifier(srv)
	var slept time.Duration
	n.sleep = func(d time.Duration) { slept = d }

	if err := n.Notify([]model.Job{sampleJob("Rate Limited Job", "Test")}); err != nil {
		t.Fatalf("expected nil after retry, got %v", err)
	}
	if c := calls.Load(); c != 2 {
		t.Errorf("expected 2 HTTP calls (initial + retry), got %d", c)
	}
	if slept != 3*time.Second {
		t.Errorf("expected to wait Retry-After 3s, waited %v", slept)
	}
}

func TestEscape(t *testing.T) {
	got := escape("R&D <Lead>")
	if got != "R&amp;D &lt;Lead&gt;" {
		t.Errorf("escape = %q", got)
	}
	if strings.Contains(jobLine(model.Job{Title: "a<b", Company: "C", URL: "u", Source: "s"}), "a<b") {
		t.Error("expected title to be escaped")
	}
}
