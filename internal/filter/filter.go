package filter

import (
	"strings"

	"github.com/amishk599/jobsweep/internal/model"
)

// KeywordFilter keeps jobs whose title or snippet contains any configured
// keyword. Matching is case-insensitive plain substring containment, so "go"
// also matches "embargo". With no usable keywords every job passes.
type KeywordFilter struct {
	keywords []string
}

var _ model.JobFilter = (*KeywordFilter)(nil)

// NewKeywordFilter normalizes raw keywords once and returns the filter.
func NewKeywordFilter(raw []string) *KeywordFilter {
	return &KeywordFilter{keywords: NormalizeKeywords(raw)}
}

// NormalizeKeywords trims and lower-cases each keyword and drops blanks.
func NormalizeKeywords(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, kw := range raw {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// Keywords returns the normalized keyword list.
func (f *KeywordFilter) Keywords() []string {
	return f.keywords
}

// Active reports whether the filter can reject anything.
func (f *KeywordFilter) Active() bool {
	return len(f.keywords) > 0
}

// Match returns true if any keyword occurs in the job's match text.
func (f *KeywordFilter) Match(job model.Job) bool {
	if !f.Active() {
		return true
	}
	text := MatchText(job)
	for _, kw := range f.keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Apply returns the jobs that match, in input order.
func (f *KeywordFilter) Apply(jobs []model.Job) []model.Job {
	if !f.Active() {
		return jobs
	}
	out := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		if f.Match(j) {
			out = append(out, j)
		}
	}
	return out
}

// MatchText is the lower-cased text keywords are searched in: the title and
// the snippet joined by a single space. An absent snippet contributes "".
func MatchText(job model.Job) string {
	snippet := ""
	if job.Snippet != nil {
		snippet = *job.Snippet
	}
	return strings.ToLower(job.Title + " " + snippet)
}
