package posts

import (
	"fmt"

	"build-in-public/internal/activity"
)

const shortCommitRunes = 80

// shortTemplate holds one wording per short-post signal.
type shortTemplate struct {
	commit   func(msg string) string
	files    func(n int) string
	bugs     func(n int) string
	duration func(phrase string, toolCalls int) string
}

var shortTemplates = map[TwitterStyle]shortTemplate{
	TwitterShip: {
		commit: func(msg string) string {
			return "✅ Just shipped: " + msg
		},
		files: func(n int) string {
			return fmt.Sprintf("🛠️ Coding session complete!\n\nCreated %d new %s today.", n, plural(n, "file", "files"))
		},
		bugs: func(n int) string {
			return fmt.Sprintf("🐛➡️✅ Squashed %d %s today!\n\nThe best feeling in coding.", n, plural(n, "bug", "bugs"))
		},
		duration: func(phrase string, calls int) string {
			return fmt.Sprintf("⏱️ %s of focused coding\n\n%d operations later... progress!", phrase, calls)
		},
	},
	TwitterDevlog: {
		commit: func(msg string) string {
			return fmt.Sprintf("📓 Devlog: today's commit was %q", msg)
		},
		files: func(n int) string {
			return fmt.Sprintf("📓 Devlog: %d new %s added to the codebase.", n, plural(n, "file", "files"))
		},
		bugs: func(n int) string {
			return fmt.Sprintf("📓 Devlog: tracked down and fixed %d %s.", n, plural(n, "bug", "bugs"))
		},
		duration: func(phrase string, calls int) string {
			return fmt.Sprintf("📓 Devlog: %s heads-down, %d tool calls.", phrase, calls)
		},
	},
	TwitterMinimal: {
		commit: func(msg string) string {
			return "shipped: " + msg
		},
		files: func(n int) string {
			return fmt.Sprintf("+%d %s", n, plural(n, "file", "files"))
		},
		bugs: func(n int) string {
			return fmt.Sprintf("%d %s fixed", n, plural(n, "bug", "bugs"))
		},
		duration: func(phrase string, calls int) string {
			return fmt.Sprintf("%s · %d ops", phrase, calls)
		},
	},
}

// shortPosts emits one post per non-zero signal. Short posts carry no
// hashtags.
func shortPosts(s activity.Summary, tpl shortTemplate) []string {
	out := []string{}
	if commit := latestCommit(s); commit != "" {
		out = append(out, tpl.commit(truncate(commit, shortCommitRunes)))
	}
	if n := len(s.FilesCreated); n > 0 {
		out = append(out, tpl.files(n))
	}
	if s.ErrorsFixed > 0 {
		out = append(out, tpl.bugs(s.ErrorsFixed))
	}
	if s.DurationMinutes > 0 {
		out = append(out, tpl.duration(durationPhrase(s.DurationMinutes), s.TotalToolCalls))
	}
	return out
}
