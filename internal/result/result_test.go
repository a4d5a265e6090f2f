package result

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestResult_IsAbortion(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   bool
	}{
		{name: "successful", result: Successful(DirectoryCreated("/tmp/a")), want: false},
		{name: "successful without changes", result: Successful(), want: false},
		{name: "partial", result: Partial(DirectoryCreated("/tmp/a")), want: false},
		{name: "skipped", result: Skipped("exists"), want: false},
		{name: "aborted", result: Aborted("halt"), want: true},
		{name: "failed", result: Failed("boom", errors.New("io")), want: true},
		{name: "failed without cause", result: Failed("boom", nil), want: true},
		{name: "zero value", result: Result{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.IsAbortion(); got != tt.want {
				t.Errorf("IsAbortion() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResult_ChangesAreImmutable(t *testing.T) {
	changes := []Change{DirectoryCreated("/a")}
	r := Successful(changes...)

	changes[0].Path = "/mutated"
	if got := r.Changes()[0].Path; got != "/a" {
		t.Errorf("constructor did not copy changes, got %q", got)
	}

	out := r.Changes()
	out[0].Path = "/mutated"
	if got := r.Changes()[0].Path; got != "/a" {
		t.Errorf("Changes() exposed internal slice, got %q", got)
	}
}

func TestResult_WithTask(t *testing.T) {
	r := Skipped("exists")
	named := r.WithTask("app-dir")

	if named.Task() != "app-dir" {
		t.Errorf("Task() = %q, want %q", named.Task(), "app-dir")
	}
	if r.Task() != "" {
		t.Errorf("WithTask mutated the receiver: %q", r.Task())
	}
	if named.Status() != StatusSkipped || named.Reason() != "exists" {
		t.Errorf("WithTask lost fields: %v", named)
	}
}

func TestResult_String(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{name: "successful", result: Successful(DirectoryCreated("/a")), want: "successful: directory_created /a"},
		{name: "partial two changes", result: Partial(DirectoryCreated("/a"), SymlinkCreated("/b", "/c")), want: "partial: directory_created /a, symlink_created /b -> /c"},
		{name: "partial with reason", result: Partial(DirectoryCreated("/a")).WithReason("Writing file failed", errors.New("disk full")), want: "partial: directory_created /a [Writing file failed: disk full]"},
		{name: "skipped", result: Skipped("already there"), want: "skipped: already there"},
		{name: "failed with cause", result: Failed("write", errors.New("disk full")), want: "failed: write (disk full)"},
		{name: "zero", result: Result{}, want: "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResult_MarshalJSON(t *testing.T) {
	r := Failed("cannot write", errors.New("permission denied")).WithTask("config")

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	want := map[string]string{
		"task":   "config",
		"status": "failed",
		"reason": "cannot write",
		"cause":  "permission denied",
	}
	for k, v := range want {
		if parsed[k] != v {
			t.Errorf("JSON %s = %v, want %q", k, parsed[k], v)
		}
	}
	if strings.Contains(string(data), "changes") {
		t.Errorf("failed result should omit changes: %s", data)
	}
}
