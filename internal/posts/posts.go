// Package posts renders a session Summary into social media drafts. Every
// function here is pure: the same Summary and styles always produce the
// same bytes.
package posts

import (
	"fmt"
	"sort"
	"strings"

	"build-in-public/internal/activity"
)

// PostSet groups the generated drafts by content class.
type PostSet struct {
	Short    []string `json:"short"`
	Thread   []string `json:"thread"`
	Medium   []string `json:"medium"`
	Long     []string `json:"long"`
	Hashtags []string `json:"hashtags"`
}

var baseHashtags = []string{"#BuildingInPublic", "#CodingInPublic"}

const (
	maxLanguageTags   = 3
	defaultProjectRef = "my project"
)

// Generate renders every content class for s.
func Generate(s activity.Summary, twitter TwitterStyle, linkedin LinkedInStyle) PostSet {
	tags := Hashtags(s)
	return PostSet{
		Short:    shortPosts(s, shortTemplates[ParseTwitterStyle(string(twitter))]),
		Thread:   threadPosts(s, tags),
		Medium:   mediumPosts(s, mediumTemplates[ParseLinkedInStyle(string(linkedin))], tags),
		Long:     []string{longPost(s, tags)},
		Hashtags: tags,
	}
}

// Hashtags returns the platform tags, one tag per language (sorted, at most
// three) and #TDD when tests ran.
func Hashtags(s activity.Summary) []string {
	tags := append([]string{}, baseHashtags...)
	for _, lang := range sortedLanguages(s)[:min(len(s.LanguagesUsed), maxLanguageTags)] {
		tag := strings.NewReplacer("/", "", " ", "").Replace(lang)
		if tag == "" {
			continue
		}
		tags = append(tags, "#"+tag)
	}
	if s.TestsRun {
		tags = append(tags, "#TDD")
	}
	return tags
}

func sortedLanguages(s activity.Summary) []string {
	langs := append([]string{}, s.LanguagesUsed...)
	sort.Strings(langs)
	return langs
}

func projectRef(s activity.Summary) string {
	if p := strings.TrimSpace(s.ProjectName); p != "" {
		return p
	}
	return defaultProjectRef
}

func latestCommit(s activity.Summary) string {
	if len(s.GitCommits) == 0 {
		return ""
	}
	return s.GitCommits[len(s.GitCommits)-1]
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}

// durationPhrase renders minutes as "Xh Ym" or "N minutes".
func durationPhrase(minutes int) string {
	hours, mins := minutes/60, minutes%60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%d %s", mins, plural(mins, "minute", "minutes"))
}

func joinTags(tags []string, n int) string {
	return strings.Join(tags[:min(len(tags), n)], " ")
}
