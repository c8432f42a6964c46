// Package dedup collapses duplicate job records within a single run.
package dedup

import (
	"strings"

	"github.com/amishk599/jobsweep/internal/model"
)

// Deduplicate keeps the first record for each (company, title, url) identity
// and drops every record whose identity has an empty part. Input order is
// preserved, so the result depends only on the order of jobs.
func Deduplicate(jobs []model.Job) []model.Job {
	seen := make(map[model.Identity]struct{}, len(jobs))
	out := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		id := j.Identity()
		if !id.Complete() {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, j)
	}
	return out
}

// ByURL keeps the first record per trimmed, non-empty URL.
func ByURL(jobs []model.Job) []model.Job {
	seen := make(map[string]struct{}, len(jobs))
	out := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		u := strings.TrimSpace(j.URL)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, j)
	}
	return out
}
