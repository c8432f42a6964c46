package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestJobIdentity_TrimsParts(t *testing.T) {
	j := Job{Company: " Acme ", Title: "\tEngineer", URL: "u1 \n"}
	got := j.Identity()
	want := Identity{Company: "Acme", Title: "Engineer", URL: "u1"}
	if got != want {
		t.Errorf("Identity() = %+v, want %+v", got, want)
	}
}

func TestIdentityComplete(t *testing.T) {
	tests := []struct {
		name string
		job  Job
		want bool
	}{
		{"complete", Job{Company: "Acme", Title: "Dev", URL: "http://x"}, true},
		{"empty title", Job{Company: "Acme", Title: "", URL: "http://x"}, false},
		{"blank company", Job{Company: "   ", Title: "Dev", URL: "http://x"}, false},
		{"empty url", Job{Company: "Acme", Title: "Dev"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.job.Identity().Complete(); got != tt.want {
				t.Errorf("Complete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewOutput_CountMatchesJobs(t *testing.T) {
	out := NewOutput(nil)
	if out.Count != 0 || out.Jobs == nil {
		t.Fatalf("NewOutput(nil) = %+v, want empty non-nil jobs", out)
	}

	data, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"jobs":[],"count":0}` {
		t.Errorf("json = %s", data)
	}
}

func TestJobJSON_AbsentFieldsAreNull(t *testing.T) {
	data, err := json.Marshal(Job{Title: "Dev", Company: "X", URL: "u", Source: "lever"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"location":null`, `"posted_date":null`, `"snippet":null`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("json %s missing %s", data, key)
		}
	}
}
