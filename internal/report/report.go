// Package report assembles generated posts into the markdown document and
// JSON record handed to the user.
package report

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"build-in-public/internal/activity"
	"build-in-public/internal/posts"
)

const (
	generatedLayout = "2006-01-02 15:04"
	maxListedFiles  = 10
)

// Build renders the composite markdown report. generatedAt is the only
// input that varies between runs.
func Build(s activity.Summary, set posts.PostSet, generatedAt time.Time) string {
	var b strings.Builder

	b.WriteString("# Build in Public - Session Posts\n\n")
	b.WriteString("Generated: " + generatedAt.Format(generatedLayout) + "\n")
	b.WriteString("Session: " + safeValue(s.SessionID) + "\n")
	b.WriteString("Project: " + safeValue(s.ProjectName) + "\n")
	fmt.Fprintf(&b, "Duration: %d minutes\n", s.DurationMinutes)
	b.WriteString("Languages: " + safeValue(strings.Join(s.LanguagesUsed, ", ")) + "\n\n")

	b.WriteString("---\n\n## 📱 Short Posts (Twitter/X, BlueSky - 280 chars)\n\n")
	for i, p := range set.Short {
		fmt.Fprintf(&b, "### Option %d (%d chars)\n\n", i+1, utf8.RuneCountInString(p))
		writeBlock(&b, p)
	}

	b.WriteString("---\n\n## 🧵 Thread (Twitter/X)\n\n")
	for i, seg := range set.Thread {
		fmt.Fprintf(&b, "**%d/%d** (%d chars)\n\n", i+1, len(set.Thread), utf8.RuneCountInString(seg))
		writeBlock(&b, seg)
	}

	b.WriteString("---\n\n## 💼 Medium Posts (LinkedIn, Mastodon)\n\n")
	writeOptions(&b, set.Medium)

	b.WriteString("---\n\n## 📸 Long Form (Instagram, Blog)\n\n")
	writeOptions(&b, set.Long)

	b.WriteString("---\n\n## #️⃣ Hashtags\n\n")
	b.WriteString("Copy these: `" + strings.Join(set.Hashtags, " ") + "`\n\n")

	b.WriteString("---\n\n## 📊 Session Stats\n\n")
	b.WriteString("| Metric | Value |\n|--------|-------|\n")
	fmt.Fprintf(&b, "| Files Created | %d |\n", len(s.FilesCreated))
	fmt.Fprintf(&b, "| Files Modified | %d |\n", len(s.FilesModified))
	fmt.Fprintf(&b, "| Git Commits | %d |\n", len(s.GitCommits))
	fmt.Fprintf(&b, "| Bugs Fixed | %d |\n", s.ErrorsFixed)
	fmt.Fprintf(&b, "| Tests Run | %s |\n", yesNo(s.TestsRun))
	fmt.Fprintf(&b, "| Total Operations | %d |\n", s.TotalToolCalls)

	if len(s.FilesCreated) > 0 {
		b.WriteString("\n### Files Created\n\n")
		for _, f := range s.FilesCreated[:min(len(s.FilesCreated), maxListedFiles)] {
			b.WriteString("- `" + f + "`\n")
		}
	}
	if len(s.GitCommits) > 0 {
		b.WriteString("\n### Commits\n\n")
		for _, c := range s.GitCommits {
			b.WriteString("- " + c + "\n")
		}
	}
	return b.String()
}

func writeOptions(b *strings.Builder, items []string) {
	for i, p := range items {
		fmt.Fprintf(b, "### Option %d\n\n", i+1)
		writeBlock(b, p)
	}
}

func writeBlock(b *strings.Builder, text string) {
	b.WriteString("```\n")
	b.WriteString(text)
	b.WriteString("\n```\n\n")
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func safeValue(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "N/A"
	}
	return s
}
