package posts

import (
	"fmt"
	"strings"

	"build-in-public/internal/activity"
)

const (
	threadHookTags     = 4
	threadLanguages    = 4
	threadFiles        = 5
	threadCommits      = 3
	threadCommitRunes  = 60
	hookCommitRunes    = 80
	hookMinFiles       = 3
	hookMinBugs        = 2
	hookMinDuration    = 15
	threadClosing      = "What are you building today? 👇"
	threadFallbackHook = "🧵 Today's coding session recap:"
)

// threadPosts returns an empty thread when nothing worth posting happened.
func threadPosts(s activity.Summary, tags []string) []string {
	if !hasThreadContent(s) {
		return []string{}
	}

	thread := []string{threadHook(s) + "\n\n" + joinTags(tags, threadHookTags)}

	if len(s.LanguagesUsed) > 0 {
		langs := sortedLanguages(s)
		thread = append(thread, "💻 Tech stack: "+strings.Join(langs[:min(len(langs), threadLanguages)], ", "))
	}
	if len(s.FilesCreated) > 0 {
		var b strings.Builder
		b.WriteString("📝 New files:")
		for _, f := range s.FilesCreated[:min(len(s.FilesCreated), threadFiles)] {
			b.WriteString("\n  • " + f)
		}
		thread = append(thread, b.String())
	}
	if len(s.GitCommits) > 0 {
		var b strings.Builder
		b.WriteString("📦 Commits:")
		for _, c := range s.GitCommits[:min(len(s.GitCommits), threadCommits)] {
			b.WriteString("\n  ✅ " + truncate(c, threadCommitRunes))
		}
		thread = append(thread, b.String())
	}
	if s.TestsRun {
		thread = append(thread, "🧪 Tests: Passing ✅")
	}
	if s.ErrorsFixed > 0 {
		thread = append(thread, fmt.Sprintf("🐛 Bugs fixed: %d", s.ErrorsFixed))
	}
	return append(thread, threadClosing)
}

func hasThreadContent(s activity.Summary) bool {
	return len(s.GitCommits) > 0 ||
		len(s.FilesCreated) > 0 ||
		s.ErrorsFixed > 0 ||
		s.TestsRun ||
		len(s.LanguagesUsed) > 0
}

// threadHook picks the opener from the strongest available signal.
func threadHook(s activity.Summary) string {
	candidates := []string{
		commitHook(s),
		filesHook(s),
		bugsHook(s),
		stackHook(s),
	}
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return threadFallbackHook
}

func commitHook(s activity.Summary) string {
	commit := latestCommit(s)
	if commit == "" {
		return ""
	}
	return fmt.Sprintf("🧵 Just shipped: %s\n\nHere's how the session went 👇", truncate(commit, hookCommitRunes))
}

func filesHook(s activity.Summary) string {
	if len(s.FilesCreated) < hookMinFiles {
		return ""
	}
	return fmt.Sprintf("🧵 Spun up %d new files in one session.\n\nHere's what went into it 👇", len(s.FilesCreated))
}

func bugsHook(s activity.Summary) string {
	if s.ErrorsFixed < hookMinBugs {
		return ""
	}
	return fmt.Sprintf("🧵 Squashed %d bugs in one session.\n\nQuick recap 👇", s.ErrorsFixed)
}

func stackHook(s activity.Summary) string {
	if len(s.LanguagesUsed) == 0 || s.DurationMinutes <= hookMinDuration {
		return ""
	}
	return fmt.Sprintf("🧵 %s of %s today.\n\nHere's the recap 👇", durationPhrase(s.DurationMinutes), sortedLanguages(s)[0])
}
