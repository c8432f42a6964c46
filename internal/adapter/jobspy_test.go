package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJobSpyAvailable(t *testing.T) {
	tests := []struct {
		name string
		opts JobSpyOptions
		want bool
	}{
		{"no endpoint", JobSpyOptions{SearchTerms: []string{"web3"}}, false},
		{"no terms", JobSpyOptions{Endpoint: "http://jobspy.local/search", SearchTerms: []string{" "}}, false},
		{"configured", JobSpyOptions{Endpoint: "http://jobspy.local/search", SearchTerms: []string{"web3"}}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := NewJobSpySource(tc.opts, http.DefaultClient, nil, discardLogger())
			ok, reason := src.Available()
			if ok != tc.want {
				t.Errorf("Available() = %v, want %v", ok, tc.want)
			}
			if !ok && reason == "" {
				t.Error("expected a skip reason")
			}
		})
	}
}

func TestJobSpyFetch_RowsAndBatchDedup(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		queries = append(queries, q.Get("search_term"))
		if got := q["site_name"]; len(got) != 2 || got[0] != "linkedin" || got[1] != "indeed" {
			t.Errorf("unexpected site_name %v", got)
		}
		if q.Get("results_wanted") != "40" {
			t.Errorf("expected results_wanted=40, got %q", q.Get("results_wanted"))
		}
		if q.Has("hours_old") {
			t.Errorf("expected no hours_old, got %q", q.Get("hours_old"))
		}

		switch q.Get("search_term") {
		case "crypto":
			w.Write([]byte(`[
				{"TITLE": "Crypto Analyst", "COMPANY": "Coinco", "JOB_URL": "https://li.example/1",
				 "CITY": "Austin", "STATE": "TX", "SITE": "LinkedIn", "DATE_POSTED": "2026-02-01"},
				{"title": "No URL", "company": "X"},
				{"title": "Anon Role", "job_url": "https://in.example/9", "company": null, "state": "NY"}
			]`))
		case "web3":
			w.Write([]byte(`{"jobs": [
				{"title": "Crypto Analyst", "company": "Coinco", "job_url": "https://li.example/1", "site": "linkedin"},
				{"title": "Web3 Dev", "company": "Chain", "job_url": "https://in.example/2",
				 "description": "Build dapps", "site": "indeed"}
			]}`))
		}
	}))
	defer srv.Close()

	opts := JobSpyOptions{
		Endpoint:      "http://jobspy.local/search",
		SearchTerms:   []string{"crypto", "web3"},
		Sites:         []string{"linkedin", "indeed"},
		ResultsWanted: 40,
	}
	src := NewJobSpySource(opts, testClient(srv), nil, discardLogger())
	jobs := src.Fetch(context.Background())

	if len(queries) != 2 || queries[0] != "crypto" || queries[1] != "web3" {
		t.Errorf("expected searches in term order, got %v", queries)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs after URL dedup, got %d", len(jobs))
	}

	first := jobs[0]
	if first.Title != "Crypto Analyst" || first.Company != "Coinco" || first.Source != "linkedin" {
		t.Errorf("unexpected first job %+v", first)
	}
	if first.Location == nil || *first.Location != "Austin, TX" {
		t.Errorf("expected location Austin, TX, got %v", first.Location)
	}
	if first.PostedDate == nil || *first.PostedDate != "2026-02-01" {
		t.Errorf("expected posted date, got %v", first.PostedDate)
	}

	anon := jobs[1]
	if anon.Company != "Unknown" {
		t.Errorf("expected default company Unknown, got %q", anon.Company)
	}
	if anon.Source != "jobspy" {
		t.Errorf("expected default source jobspy, got %q", anon.Source)
	}
	if anon.Location == nil || *anon.Location != "NY" {
		t.Errorf("expected location NY, got %v", anon.Location)
	}

	if jobs[2].Snippet == nil || *jobs[2].Snippet != "Build dapps" {
		t.Errorf("expected snippet, got %v", jobs[2].Snippet)
	}
}

func TestJobSpySearchURL_HoursOld(t *testing.T) {
	src := NewJobSpySource(JobSpyOptions{
		Endpoint:    "http://jobspy.local/search?token=abc",
		SearchTerms: []string{"defi"},
		HoursOld:    24,
	}, http.DefaultClient, nil, discardLogger())

	got, err := src.searchURL("defi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "http://jobspy.local/search?hours_old=24&search_term=defi&token=abc"
	if got != want {
		t.Errorf("searchURL = %q, want %q", got, want)
	}
}
