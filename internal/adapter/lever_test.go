package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestLeverFetch_Success(t *testing.T) {
	payload := `[
		{
			"id": "ff7ef527-b0d3-4c44-836a-8d6b58ac321e",
			"text": "Protocol Engineer",
			"descriptionPlain": "Plain text job description",
			"openingPlain": "Opening text",
			"categories": {
				"team": "Engineering",
				"location": "San Francisco, CA",
				"commitment": "Full-time",
				"allLocations": ["San Francisco, CA", "Remote"]
			},
			"createdAt": 1769784074110,
			"hostedUrl": "https://jobs.lever.co/acme/ff7ef527-b0d3-4c44-836a-8d6b58ac321e"
		},
		{
			"id": "a1b2c3d4-e5f6-7890-abcd-ef1234567890",
			"text": "Backend Engineer",
			"descriptionPlain": "",
			"openingPlain": "We build wallets.",
			"categories": {
				"location": "",
				"allLocations": ["Berlin", "Lisbon", "London", "Remote"]
			},
			"createdAt": 0,
			"hostedUrl": "https://jobs.lever.co/acme/a1b2c3d4-e5f6-7890-abcd-ef1234567890"
		}
	]`
	var gotMode string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMode = r.URL.Query().Get("mode")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	src := NewLeverSource([]Board{{ID: "acme", Name: "Acme Corp"}}, testClient(srv), nil, discardLogger())
	jobs := src.Fetch(context.Background())

	if gotMode != "json" {
		t.Errorf("expected mode=json, got %q", gotMode)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}

	j := jobs[0]
	if j.Title != "Protocol Engineer" || j.Company != "Acme Corp" || j.Source != "lever" {
		t.Errorf("unexpected job %+v", j)
	}
	if j.Location == nil || *j.Location != "San Francisco, CA" {
		t.Errorf("expected primary location, got %v", j.Location)
	}
	if j.Snippet == nil || *j.Snippet != "Plain text job description" {
		t.Errorf("expected snippet from descriptionPlain, got %v", j.Snippet)
	}
	want := time.UnixMilli(1769784074110).UTC().Format(time.RFC3339)
	if j.PostedDate == nil || *j.PostedDate != want {
		t.Errorf("expected posted date %s, got %v", want, j.PostedDate)
	}

	j2 := jobs[1]
	if j2.Location == nil || *j2.Location != "Berlin, Lisbon, London" {
		t.Errorf("expected first three locations, got %v", j2.Location)
	}
	if j2.Snippet == nil || *j2.Snippet != "We build wallets." {
		t.Errorf("expected snippet from openingPlain, got %v", j2.Snippet)
	}
	if j2.PostedDate != nil {
		t.Errorf("expected nil posted date for zero createdAt, got %q", *j2.PostedDate)
	}
}

func TestLeverFetch_SnippetTruncated(t *testing.T) {
	payload := `[{"text":"Engineer","hostedUrl":"https://jobs.lever.co/acme/1","descriptionPlain":"` + strings.Repeat("a", 900) + `"}]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	src := NewLeverSource([]Board{{ID: "acme"}}, testClient(srv), nil, discardLogger())
	jobs := src.Fetch(context.Background())
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	if got := len(*jobs[0].Snippet); got != 500 {
		t.Errorf("expected snippet of 500 runes, got %d", got)
	}
}

func TestLeverFetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := NewLeverSource([]Board{{ID: "acme"}}, testClient(srv), nil, discardLogger())
	if _, err := src.fetchSite(context.Background(), Board{ID: "acme", Name: "acme"}); err == nil {
		t.Fatal("expected error for HTTP 500, got nil")
	}
	if jobs := src.Fetch(context.Background()); len(jobs) != 0 {
		t.Errorf("expected no jobs, got %d", len(jobs))
	}
}

func TestProbeLever(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v0/postings/live":
			w.Write([]byte(`[{"id":"1"}]`))
		case "/v0/postings/empty":
			w.Write([]byte(`[]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	tests := []struct {
		site string
		want bool
	}{
		{"live", true},
		{"empty", false},
		{"missing", false},
	}
	for _, tc := range tests {
		t.Run(tc.site, func(t *testing.T) {
			got, err := ProbeLever(context.Background(), testClient(srv), tc.site)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("ProbeLever(%q) = %v, want %v", tc.site, got, tc.want)
			}
		})
	}
}
