// Package normalize maps source-specific values onto the canonical job record.
package normalize

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/amishk599/jobsweep/internal/model"
)

// SnippetLimit is the maximum snippet length, in runes, adapters keep.
const SnippetLimit = 500

// Fields holds the raw values an adapter extracted for one posting.
// An empty string means the source did not provide the value.
type Fields struct {
	Title   string
	Company string
	URL     string
	Source  string

	Location   string
	PostedDate string
	Snippet    string
}

// Job builds a canonical record from f. Every value is trimmed and optional
// values that end up empty are left nil. It never fails: required fields
// are enforced later, when duplicates are collapsed.
func Job(f Fields) model.Job {
	return model.Job{
		Title:      strings.TrimSpace(f.Title),
		Company:    strings.TrimSpace(f.Company),
		URL:        strings.TrimSpace(f.URL),
		Location:   optional(f.Location),
		PostedDate: optional(f.PostedDate),
		Source:     strings.TrimSpace(f.Source),
		Snippet:    optional(f.Snippet),
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// Value dereferences an optional field, returning "" when it is absent.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Row is a dynamically shaped record from a third-party scraper, decoded
// from JSON without a fixed schema.
type Row map[string]any

// Lookup returns the first non-empty value among keys, trying each key as
// given, lower-cased and upper-cased. Non-string values are formatted with
// fmt.Sprint. def is returned when nothing matches.
func Lookup(row Row, def string, keys ...string) string {
	for _, key := range keys {
		for _, k := range [...]string{key, strings.ToLower(key), strings.ToUpper(key)} {
			v, ok := row[k]
			if !ok || v == nil {
				continue
			}
			var s string
			switch tv := v.(type) {
			case string:
				s = tv
			default:
				s = fmt.Sprint(tv)
			}
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return def
}
