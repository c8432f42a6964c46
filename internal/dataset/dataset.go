// Package dataset queries a saved run: search over title and company,
// per-source selection and sorting.
package dataset

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/amishk599/jobsweep/internal/model"
)

// SortKey orders a query's result. The zero value keeps saved order.
type SortKey string

const (
	SortNone    SortKey = ""
	SortPosted  SortKey = "posted_date" // newest first, unreadable dates last
	SortCompany SortKey = "company"
	SortTitle   SortKey = "title"
)

var sortCycle = []SortKey{SortNone, SortPosted, SortCompany, SortTitle}

// ParseSort reads a sort key as given on the command line.
func ParseSort(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, nil
	case "posted", "posted_date", "date":
		return SortPosted, nil
	case "company":
		return SortCompany, nil
	case "title":
		return SortTitle, nil
	}
	return SortNone, fmt.Errorf("unknown sort %q (want posted_date, company or title)", s)
}

// Next returns the key after k in the order none, posted_date, company, title.
func (k SortKey) Next() SortKey {
	for i, key := range sortCycle {
		if key == k {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return SortNone
}

func (k SortKey) String() string {
	if k == SortNone {
		return "none"
	}
	return string(k)
}

// Query selects and orders jobs of a saved run.
type Query struct {
	// Search is matched case-insensitively against title and company.
	Search string
	// Sources keeps only jobs from these sources. Empty keeps every source.
	Sources []string
	Sort    SortKey
}

// Apply returns the jobs selected by q. The input is not modified and
// sorting is stable, so ties keep saved order.
func Apply(jobs []model.Job, q Query) []model.Job {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	allowed := make(map[string]bool, len(q.Sources))
	for _, s := range q.Sources {
		allowed[s] = true
	}

	out := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		if needle != "" &&
			!strings.Contains(strings.ToLower(j.Title), needle) &&
			!strings.Contains(strings.ToLower(j.Company), needle) {
			continue
		}
		if len(allowed) > 0 && !allowed[j.Source] {
			continue
		}
		out = append(out, j)
	}

	switch q.Sort {
	case SortPosted:
		sortByPosted(out)
	case SortCompany:
		sort.SliceStable(out, func(a, b int) bool {
			return strings.ToLower(out[a].Company) < strings.ToLower(out[b].Company)
		})
	case SortTitle:
		sort.SliceStable(out, func(a, b int) bool {
			return strings.ToLower(out[a].Title) < strings.ToLower(out[b].Title)
		})
	}
	return out
}

func sortByPosted(jobs []model.Job) {
	keyed := make([]struct {
		job model.Job
		at  int64
	}, len(jobs))
	for i, j := range jobs {
		keyed[i].job = j
		if t, ok := PostedTime(j); ok {
			keyed[i].at = t.Unix()
		}
	}
	sort.SliceStable(keyed, func(a, b int) bool { return keyed[a].at > keyed[b].at })
	for i := range keyed {
		jobs[i] = keyed[i].job
	}
}

// Sources returns the distinct non-empty sources of jobs, sorted.
func Sources(jobs []model.Job) []string {
	seen := make(map[string]bool)
	var out []string
	for _, j := range jobs {
		if j.Source == "" || seen[j.Source] {
			continue
		}
		seen[j.Source] = true
		out = append(out, j.Source)
	}
	sort.Strings(out)
	return out
}

// PostedTime parses the free-text posted date of j.
func PostedTime(j model.Job) (time.Time, bool) {
	if j.PostedDate == nil {
		return time.Time{}, false
	}
	t, err := dateparse.ParseAny(strings.TrimSpace(*j.PostedDate))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatPosted renders the posted date as "Jan 2, 2006", the raw text when
// it cannot be parsed, or "-" when absent.
func FormatPosted(j model.Job) string {
	if t, ok := PostedTime(j); ok {
		return t.Format("Jan 2, 2006")
	}
	if j.PostedDate == nil {
		return "-"
	}
	return *j.PostedDate
}

// Header summarizes a saved run: "Last updated: <time> • N jobs", or just
// the count when no run marker exists.
func Header(lastRun time.Time, total int) string {
	if lastRun.IsZero() {
		return fmt.Sprintf("%d jobs", total)
	}
	return fmt.Sprintf("Last updated: %s • %d jobs", lastRun.Local().Format("Jan 2, 2006 15:04"), total)
}
