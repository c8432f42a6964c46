package browse

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/jobsweep/internal/model"
)

func savedTestJobs() []model.Job {
	return []model.Job{
		{Title: "Rust Engineer", Company: "Chainlabs", URL: "https://x/1", Source: "greenhouse", PostedDate: strPtr("2026-01-05")},
		{Title: "Designer", Company: "Acme", URL: "https://x/2", Source: "lever", PostedDate: strPtr("2026-02-01")},
		{Title: "Go Developer", Company: "Rustworks", URL: "https://x/3", Source: "cryptojobs"},
	}
}

func newSavedTestModel() savedModel {
	m := newSavedModel(savedTestJobs(), time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC))
	m.opener = nil
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return next.(savedModel)
}

func pressSaved(m savedModel, keys ...string) savedModel {
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(savedModel)
	}
	return m
}

func shownURLs(m savedModel) []string {
	out := make([]string, len(m.list.jobs))
	for i, j := range m.list.jobs {
		out[i] = j.URL
	}
	return out
}

func TestSaved_HeaderAndSources(t *testing.T) {
	m := newSavedTestModel()
	view := m.View()
	if !strings.Contains(view, "• 3 jobs") || !strings.Contains(view, "showing 3") {
		t.Errorf("expected header with totals:\n%s", view)
	}
	if got := strings.Join(m.sources, ","); got != "cryptojobs,greenhouse,lever" {
		t.Errorf("sources = %s", got)
	}
}

func TestSaved_SearchIsLive(t *testing.T) {
	m := pressSaved(newSavedTestModel(), "/", "RUST")
	if !m.search.Focused() {
		t.Fatal("expected search to take focus after /")
	}
	if got := strings.Join(shownURLs(m), ","); got != "https://x/1,https://x/3" {
		t.Errorf("after search got %s, want title and company matches", got)
	}

	// q is typed into the search box, not treated as quit.
	m = pressSaved(m, "q")
	if len(m.list.jobs) != 0 {
		t.Errorf("expected no match for %q, got %d jobs", m.search.Value(), len(m.list.jobs))
	}

	m = pressSaved(m, "esc", "x")
	if m.search.Focused() || len(m.list.jobs) != 3 {
		t.Errorf("expected esc to leave search and x to clear it, got %d jobs", len(m.list.jobs))
	}
}

func TestSaved_SourceToggle(t *testing.T) {
	m := pressSaved(newSavedTestModel(), "2")
	if got := strings.Join(shownURLs(m), ","); got != "https://x/2,https://x/3" {
		t.Errorf("after toggling greenhouse off got %s", got)
	}
	m = pressSaved(m, "2")
	if len(m.list.jobs) != 3 {
		t.Errorf("expected greenhouse back on, got %d jobs", len(m.list.jobs))
	}
	m = pressSaved(m, "9")
	if len(m.list.jobs) != 3 {
		t.Errorf("expected unused number key to be ignored, got %d jobs", len(m.list.jobs))
	}
}

func TestSaved_SortCycles(t *testing.T) {
	m := pressSaved(newSavedTestModel(), "s")
	if got := strings.Join(shownURLs(m), ","); got != "https://x/2,https://x/1,https://x/3" {
		t.Errorf("posted_date sort got %s", got)
	}
	if !strings.Contains(m.View(), "sort: posted_date") {
		t.Error("expected sort key in view")
	}

	m = pressSaved(m, "s")
	if got := strings.Join(shownURLs(m), ","); got != "https://x/2,https://x/1,https://x/3" {
		t.Errorf("company sort got %s", got)
	}

	m = pressSaved(m, "s")
	if got := strings.Join(shownURLs(m), ","); got != "https://x/2,https://x/3,https://x/1" {
		t.Errorf("title sort got %s", got)
	}
}

func TestSaved_DetailAndBack(t *testing.T) {
	var opened string
	m := newSavedTestModel()
	m.opener = func(url string) { opened = url }

	m = pressSaved(m, "j", "enter")
	if m.detail == nil || m.detail.job.URL != "https://x/2" {
		t.Fatal("expected detail of the second job")
	}
	m = pressSaved(m, "o", "esc")
	if opened != "https://x/2" {
		t.Errorf("opened %q", opened)
	}
	if m.detail != nil {
		t.Error("expected esc to return to the list")
	}
}
