// Package activity folds a transcript into a Summary of what happened
// during a coding session.
package activity

// Highlight categories.
const (
	CategoryFeature   = "feature"
	CategoryFix       = "fix"
	CategoryRefactor  = "refactor"
	CategoryTest      = "test"
	CategoryDocs      = "docs"
	CategoryMilestone = "milestone"
)

type Highlight struct {
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Files       []string `json:"files_involved,omitempty"`
}

// Summary is the aggregate extracted from one transcript. All paths are
// already redacted to basenames. SessionID and ProjectName are left for the
// caller to fill in.
type Summary struct {
	SessionID       string      `json:"session_id"`
	ProjectName     string      `json:"project_name"`
	DurationMinutes int         `json:"duration_minutes"`
	FilesCreated    []string    `json:"files_created"`
	FilesModified   []string    `json:"files_modified"`
	GitCommits      []string    `json:"git_commits"`
	ErrorsFixed     int         `json:"errors_fixed"`
	TestsRun        bool        `json:"tests_run"`
	TotalToolCalls  int         `json:"total_tool_calls"`
	LanguagesUsed   []string    `json:"languages_used"`
	Highlights      []Highlight `json:"highlights"`
}
