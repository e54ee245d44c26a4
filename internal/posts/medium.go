package posts

import (
	"fmt"
	"strings"

	"build-in-public/internal/activity"
)

const (
	maxMediumVariants = 3
	mediumHashtags    = 6
	mediumCommitRunes = 100
	mediumLanguages   = 3
)

// mediumTemplate is the wording pool for one LinkedIn style. The styles
// consume the same signals and differ only in wording and bullet framing.
type mediumTemplate struct {
	headlines   []string
	intros      func(s activity.Summary, project string) []string
	bulletTitle string
	bullet      string
}

var mediumTemplates = map[LinkedInStyle]mediumTemplate{
	LinkedInProfessional: {
		headlines: []string{
			"Coding session complete! 🚀",
			"Progress update from today's build 🛠️",
			"Another productive session in the books 📈",
		},
		intros: func(s activity.Summary, project string) []string {
			var out []string
			if c := latestCommit(s); c != "" {
				out = append(out, fmt.Sprintf("Today I shipped %q on %s.", truncate(c, mediumCommitRunes), project))
			}
			if n := len(s.FilesCreated); n > 0 {
				out = append(out, fmt.Sprintf("Today I added %d new %s to %s.", n, plural(n, "file", "files"), project))
			}
			if langs := mediumLanguageList(s); langs != "" {
				out = append(out, fmt.Sprintf("Today I worked on %s using %s.", project, langs))
			}
			return append(out, fmt.Sprintf("Today I made steady progress on %s.", project))
		},
		bulletTitle: "Key accomplishments:",
		bullet:      "• ",
	},
	LinkedInStory: {
		headlines: []string{
			"Here's how today's build session went 👇",
			"A quick story from today's coding session 📖",
			"What I learned building today ✍️",
		},
		intros: func(s activity.Summary, project string) []string {
			var out []string
			if s.ErrorsFixed > 0 {
				out = append(out, fmt.Sprintf("Today's session on %s turned into a bug hunt, and %d %s didn't make it out.",
					project, s.ErrorsFixed, plural(s.ErrorsFixed, "bug", "bugs")))
			}
			if c := latestCommit(s); c != "" {
				out = append(out, fmt.Sprintf("I sat down to work on %s and walked away having shipped %q.", project, truncate(c, mediumCommitRunes)))
			}
			if s.DurationMinutes > 0 {
				out = append(out, fmt.Sprintf("I spent %s heads-down on %s.", durationPhrase(s.DurationMinutes), project))
			}
			return append(out, fmt.Sprintf("I spent today chipping away at %s.", project))
		},
		bulletTitle: "How it went:",
		bullet:      "→ ",
	},
	LinkedInWins: {
		headlines: []string{
			"Today's wins 🏆",
			"Small wins add up 💪",
			"Celebrating today's progress 🎉",
		},
		intros: func(s activity.Summary, project string) []string {
			var out []string
			if c := latestCommit(s); c != "" {
				out = append(out, fmt.Sprintf("Big win today: shipped %q on %s.", truncate(c, mediumCommitRunes), project))
			}
			if s.TestsRun {
				out = append(out, fmt.Sprintf("Tests are green on %s ✅", project))
			}
			if n := len(s.FilesCreated); n > 0 {
				out = append(out, fmt.Sprintf("%d new %s landed in %s today.", n, plural(n, "file", "files"), project))
			}
			return append(out, fmt.Sprintf("Every session on %s is a step forward.", project))
		},
		bulletTitle: "The wins:",
		bullet:      "✅ ",
	},
}

// mediumPosts renders up to three variants. Variant i pairs headline i with
// intro candidate i; the bullet block and hashtags are shared.
func mediumPosts(s activity.Summary, tpl mediumTemplate, tags []string) []string {
	project := projectRef(s)
	intros := dedupe(tpl.intros(s, project))
	bullets := mediumBullets(s, tpl.bullet, project)
	hashtagLine := joinTags(tags, mediumHashtags)

	n := min(len(intros), maxMediumVariants)
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		var b strings.Builder
		b.WriteString(tpl.headlines[i%len(tpl.headlines)] + "\n\n")
		b.WriteString(intros[i] + "\n\n")
		b.WriteString(tpl.bulletTitle + "\n")
		b.WriteString(bullets + "\n\n")
		b.WriteString(hashtagLine)
		out = append(out, b.String())
	}
	return out
}

func mediumBullets(s activity.Summary, prefix, project string) string {
	var lines []string
	if c := latestCommit(s); c != "" {
		lines = append(lines, "Shipped: "+truncate(c, mediumCommitRunes))
	}
	if n := len(s.FilesCreated); n > 0 {
		lines = append(lines, fmt.Sprintf("Created %d new %s", n, plural(n, "file", "files")))
	}
	if n := len(s.FilesModified); n > 0 {
		lines = append(lines, fmt.Sprintf("Modified %d existing %s", n, plural(n, "file", "files")))
	}
	if s.ErrorsFixed > 0 {
		lines = append(lines, fmt.Sprintf("Fixed %d %s", s.ErrorsFixed, plural(s.ErrorsFixed, "bug", "bugs")))
	}
	if s.TestsRun {
		lines = append(lines, "All tests passing")
	}
	if len(lines) == 0 {
		lines = append(lines, "Made progress on "+project)
	}
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func mediumLanguageList(s activity.Summary) string {
	langs := sortedLanguages(s)
	return strings.Join(langs[:min(len(langs), mediumLanguages)], ", ")
}

func dedupe(items []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
