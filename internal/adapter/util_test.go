package adapter

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "double-encoded HTML",
			input: "This is the job description. &lt;p&gt;Any HTML included.&lt;/p&gt;",
			want:  "This is the job description. Any HTML included.",
		},
		{
			name:  "nested tags and whitespace",
			input: "&lt;p&gt;We are hiring.&lt;/p&gt;\n&lt;ul&gt;\n  &lt;li&gt;Write code&lt;/li&gt;\n  &lt;li&gt;Review PRs&lt;/li&gt;\n&lt;/ul&gt;",
			want:  "We are hiring. Write code Review PRs",
		},
		{
			name:  "literal angle brackets in text",
			input: "Fully remote &lt;remote&gt; role, a &amp; b",
			want:  "Fully remote <remote> role, a & b",
		},
		{
			name:  "unencoded HTML",
			input: "<p>Ship <b>fast</b></p>",
			want:  "Ship fast",
		},
		{
			name:  "plain text",
			input: "No tags here.",
			want:  "No tags here.",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := extractText(tc.input)
			if got != tc.want {
				t.Errorf("extractText(%q)\n got  %q\n want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSnippet_Bounded(t *testing.T) {
	long := "<p>" + strings.Repeat("é", 800) + "</p>"
	got := snippet(long)
	if n := utf8.RuneCountInString(got); n != 500 {
		t.Errorf("expected 500 runes, got %d", n)
	}
}

func TestCleanBoards(t *testing.T) {
	got := cleanBoards([]Board{{ID: " acme ", Name: ""}, {ID: ""}, {ID: "beta", Name: " Beta Inc "}})
	if len(got) != 2 {
		t.Fatalf("expected 2 boards, got %d", len(got))
	}
	if got[0].ID != "acme" || got[0].Name != "acme" {
		t.Errorf("unexpected first board %+v", got[0])
	}
	if got[1].Name != "Beta Inc" {
		t.Errorf("expected trimmed name, got %q", got[1].Name)
	}
}
