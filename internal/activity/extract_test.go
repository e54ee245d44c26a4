package activity

import (
	"reflect"
	"strings"
	"testing"

	"build-in-public/internal/transcript"
)

func extractLines(lines ...string) Summary {
	return ExtractRecords(transcript.ParseBytes([]byte(strings.Join(lines, "\n"))))
}

func TestExtract_LoginSession(t *testing.T) {
	s := extractLines(
		`{"type":"user","timestamp":"2026-01-15T10:00:00Z","content":"add a login page"}`,
		`{"type":"tool_use","tool_name":"Write","tool_input":{"file_path":"/Users/alice/app/src/main.py"}}`,
		`{"type":"tool_use","tool_name":"Bash","tool_input":{"command":"git add -A && git commit -m \"add login\""}}`,
		`{"type":"assistant","timestamp":"2026-01-15T10:12:00Z","content":"Committed."}`,
	)

	if want := []string{"main.py"}; !reflect.DeepEqual(s.FilesCreated, want) {
		t.Errorf("files created=%v, want %v", s.FilesCreated, want)
	}
	if want := []string{"Python"}; !reflect.DeepEqual(s.LanguagesUsed, want) {
		t.Errorf("languages=%v, want %v", s.LanguagesUsed, want)
	}
	if want := []string{"add login"}; !reflect.DeepEqual(s.GitCommits, want) {
		t.Errorf("commits=%v, want %v", s.GitCommits, want)
	}
	if s.DurationMinutes != 12 {
		t.Errorf("duration=%d, want 12", s.DurationMinutes)
	}
	if s.TotalToolCalls != 2 {
		t.Errorf("tool calls=%d, want 2", s.TotalToolCalls)
	}
}

func TestExtract_AllMalformed(t *testing.T) {
	s := extractLines("nope", "{{", "[]", "")
	if s.DurationMinutes != 0 || s.TotalToolCalls != 0 || s.ErrorsFixed != 0 || s.TestsRun {
		t.Fatalf("expected zero summary, got %#v", s)
	}
	if len(s.FilesCreated) != 0 || len(s.FilesModified) != 0 || len(s.GitCommits) != 0 ||
		len(s.LanguagesUsed) != 0 || len(s.Highlights) != 0 {
		t.Fatalf("expected empty collections, got %#v", s)
	}
}

func TestExtract_FileClassification(t *testing.T) {
	s := extractLines(
		`{"tool_name":"Write","tool_input":{"file_path":"/a/b/app.ts"}}`,
		`{"name":"create_file","input":{"path":"/a/b/App.tsx"}}`,
		`{"tool_name":"Edit","tool_input":{"file_path":"/a/b/app.ts"}}`,
		`{"tool_name":"MultiEdit","tool_input":{"file_path":"/x/Dockerfile"}}`,
		`{"tool_name":"str_replace","tool_input":{"path":"C:\\repo\\styles.SCSS"}}`,
		`{"tool_name":"Write","tool_input":{"file_path":"/other/app.ts"}}`,
		`{"tool_name":"Read","tool_input":{"file_path":"/a/b/ignored.rb"}}`,
		`{"tool_name":"Write","tool_input":{"content":"no path"}}`,
	)

	if want := []string{"app.ts", "App.tsx"}; !reflect.DeepEqual(s.FilesCreated, want) {
		t.Errorf("created=%v, want %v", s.FilesCreated, want)
	}
	if want := []string{"app.ts", "Dockerfile", "styles.SCSS"}; !reflect.DeepEqual(s.FilesModified, want) {
		t.Errorf("modified=%v, want %v", s.FilesModified, want)
	}
	if want := []string{"Docker", "React/TypeScript", "SCSS", "TypeScript"}; !reflect.DeepEqual(s.LanguagesUsed, want) {
		t.Errorf("languages=%v, want %v", s.LanguagesUsed, want)
	}
	if s.TotalToolCalls != 8 {
		t.Errorf("tool calls=%d, want 8", s.TotalToolCalls)
	}
}

func TestExtract_Commands(t *testing.T) {
	s := extractLines(
		`{"tool_name":"Bash","tool_input":{"command":"git commit -m 'first'"}}`,
		`{"tool_name":"Bash","tool_input":{"command":"git commit --amend --no-edit"}}`,
		`{"tool_name":"Bash","tool_input":{"command":"echo -m \"not a commit\""}}`,
		`{"tool_name":"Bash","tool_input":{"command":"go test ./..."}}`,
		`{"tool_name":"Bash","tool_input":{"command":"ls"}}`,
		`{"tool_name":"Bash","tool_input":{"command":"git commit -m \"second\" && git push"}}`,
	)
	if want := []string{"first", "second"}; !reflect.DeepEqual(s.GitCommits, want) {
		t.Errorf("commits=%v, want %v", s.GitCommits, want)
	}
	if !s.TestsRun {
		t.Error("expected tests to be recorded")
	}
}

func TestExtract_TestsRunIsMonotonic(t *testing.T) {
	s := extractLines(
		`{"tool_name":"Bash","tool_input":{"command":"pytest -q"}}`,
		`{"tool_name":"Bash","tool_input":{"command":"ls"}}`,
		`{"tool_name":"Bash","tool_input":{"command":"cat README.md"}}`,
	)
	if !s.TestsRun {
		t.Fatal("tests_run reverted to false")
	}
}

func TestExtract_ErrorsFixedHeuristic(t *testing.T) {
	s := extractLines(
		`{"type":"assistant","content":"The error is now fixed."}`,
		`{"role":"assistant","content":[{"type":"text","text":"Resolved the ERROR"},{"type":"text","text":"ok"}]}`,
		`{"type":"assistant","content":"There is an error here."}`,
		`{"type":"user","content":"error fixed"}`,
		`{"type":"assistant","message":{"content":[{"type":"text","text":"That error should be resolved now"}]}}`,
	)
	if s.ErrorsFixed != 3 {
		t.Fatalf("errors fixed=%d, want 3", s.ErrorsFixed)
	}
}

func TestExtract_NestedToolUse(t *testing.T) {
	s := extractLines(
		`{"type":"assistant","timestamp":"2026-01-15T10:00:00Z","message":{"role":"assistant","content":[{"type":"tool_use","name":"Write","input":{"file_path":"/Users/x/proj/server.go"}},{"type":"tool_use","name":"Bash","input":{"command":"go test ./..."}}]}}`,
	)
	if want := []string{"server.go"}; !reflect.DeepEqual(s.FilesCreated, want) {
		t.Errorf("created=%v, want %v", s.FilesCreated, want)
	}
	if s.TotalToolCalls != 2 || !s.TestsRun {
		t.Errorf("unexpected summary: %#v", s)
	}
}

func TestDurationMinutes(t *testing.T) {
	tests := []struct {
		first, last string
		want        int
	}{
		{"2026-01-15T10:00:00Z", "2026-01-15T11:35:59Z", 95},
		{"2026-01-15T10:00:00.123Z", "2026-01-15T10:30:00.500+00:00", 30},
		{"2026-01-15T10:00:00+02:00", "2026-01-15T09:10:00Z", 70},
		{"2026-01-15 10:00:00", "2026-01-15 10:45:00", 45},
		{"1736935200", "1736938800", 60},
		{"1736935200000", "1736935500000", 5},
		{"2026-01-15T10:00:00Z", "garbage", 0},
		{"2026-01-15T10:00:00Z", "2026-01-15T10:00:00Z", 0},
		{"2026-01-15T11:00:00Z", "2026-01-15T10:00:00Z", 0},
		{"", "2026-01-15T10:00:00Z", 0},
		{"2026-01-15T10:00:00Z", "2026-01-15T10:30:00", 0},
		{"2026-01-15 10:00:00", "2026-01-15T10:30:00+00:00", 0},
		{"1736935200", "2026-01-15 10:30:00", 0},
	}
	for _, tt := range tests {
		if got := durationMinutes(tt.first, tt.last); got != tt.want {
			t.Errorf("durationMinutes(%q, %q)=%d, want %d", tt.first, tt.last, got, tt.want)
		}
	}
}

func TestExtract_HighlightOrder(t *testing.T) {
	lines := []string{
		`{"type":"assistant","content":"error fixed"}`,
		`{"tool_name":"Bash","tool_input":{"command":"npm test"}}`,
	}
	for _, msg := range []string{"one", "two", "three", "four"} {
		lines = append(lines, `{"tool_name":"Bash","tool_input":{"command":"git commit -m \"`+msg+`\""}}`)
	}
	for _, f := range []string{"a.go", "b.go", "c.go", "d.go", "e.go", "f.go"} {
		lines = append(lines, `{"tool_name":"Write","tool_input":{"file_path":"/p/`+f+`"}}`)
	}
	s := extractLines(lines...)

	var cats []string
	for _, h := range s.Highlights {
		cats = append(cats, h.Category)
	}
	want := []string{"feature", "milestone", "milestone", "milestone", "test", "fix"}
	if !reflect.DeepEqual(cats, want) {
		t.Fatalf("highlight order=%v, want %v", cats, want)
	}
	if s.Highlights[0].Description != "Created 6 new file(s)" || len(s.Highlights[0].Files) != 5 {
		t.Errorf("feature highlight=%#v", s.Highlights[0])
	}
	if s.Highlights[1].Description != "one" || s.Highlights[3].Description != "three" {
		t.Errorf("milestones out of commit order: %#v", s.Highlights[1:4])
	}
	if s.Highlights[5].Description != "Fixed 1 error(s)" {
		t.Errorf("fix highlight=%#v", s.Highlights[5])
	}
}

func TestClassify(t *testing.T) {
	tests := map[string]ToolKind{
		"Write":       ToolWrite,
		"create_file": ToolWrite,
		"Edit":        ToolEdit,
		"MultiEdit":   ToolEdit,
		"str_replace": ToolEdit,
		"Bash":        ToolCommand,
		"Read":        ToolOther,
		"write":       ToolOther,
	}
	for name, want := range tests {
		if got := Classify(name); got != want {
			t.Errorf("Classify(%q)=%d, want %d", name, got, want)
		}
	}
	if !IsCommitCommand("git commit --amend") || IsCommitCommand("git status") {
		t.Error("IsCommitCommand misclassified a command")
	}
}

func TestExtract_OversizedLineIsSkipped(t *testing.T) {
	huge := `{"type":"user","content":"` + strings.Repeat("x", 9*1024*1024) + `"}`
	s := extractLines(
		`{"type":"user","timestamp":"2026-01-15T10:00:00Z","content":"start"}`,
		huge,
		`{"type":"tool_use","tool_name":"Write","tool_input":{"file_path":"/Users/alice/app/main.py"}}`,
		`{"type":"tool_use","tool_name":"Bash","tool_input":{"command":"git commit -m \"add login\""}}`,
		`{"type":"assistant","timestamp":"2026-01-15T10:12:00Z","content":"Done."}`,
	)
	if !reflect.DeepEqual(s.FilesCreated, []string{"main.py"}) {
		t.Errorf("files created=%v", s.FilesCreated)
	}
	if !reflect.DeepEqual(s.GitCommits, []string{"add login"}) {
		t.Errorf("commits=%v", s.GitCommits)
	}
	if s.DurationMinutes != 12 || s.TotalToolCalls != 2 {
		t.Errorf("duration=%d tool calls=%d, want 12 and 2", s.DurationMinutes, s.TotalToolCalls)
	}
}
