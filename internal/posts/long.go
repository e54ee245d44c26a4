package posts

import (
	"fmt"
	"strings"

	"build-in-public/internal/activity"
)

const longHighlights = 5

var categoryEmoji = map[string]string{
	activity.CategoryFeature:   "✨",
	activity.CategoryFix:       "🐛",
	activity.CategoryTest:      "🧪",
	activity.CategoryMilestone: "🎯",
	activity.CategoryRefactor:  "♻️",
	activity.CategoryDocs:      "📚",
}

func highlightEmoji(category string) string {
	if e, ok := categoryEmoji[category]; ok {
		return e
	}
	return "•"
}

func longPost(s activity.Summary, tags []string) string {
	var b strings.Builder
	b.WriteString("Today's build session 🛠️\n\n")
	fmt.Fprintf(&b, "%d minutes of focused coding on %s.\n\n", s.DurationMinutes, projectRef(s))
	b.WriteString("The journey:\n")
	for _, h := range s.Highlights[:min(len(s.Highlights), longHighlights)] {
		fmt.Fprintf(&b, "%s %s\n", highlightEmoji(h.Category), h.Description)
	}
	if len(s.LanguagesUsed) > 0 {
		fmt.Fprintf(&b, "\nTech: %s\n", strings.Join(sortedLanguages(s), ", "))
	}
	b.WriteString("\nBuilding in public means sharing the journey - the wins, the bugs, and everything in between.\n\n")
	b.WriteString("What's your current project? Drop a comment! 👇\n\n")
	b.WriteString(strings.Join(tags, " ") + "\n")
	return b.String()
}
