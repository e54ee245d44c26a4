package activity

import (
	"fmt"
	"iter"
	"sort"
	"strconv"
	"strings"
	"time"

	"build-in-public/internal/privacy"
	"build-in-public/internal/transcript"
)

const (
	maxFeatureFiles    = 5
	maxCommitHighlight = 3
)

// Extract walks records once, in order, and returns the session Summary.
func Extract(records iter.Seq[transcript.Record]) Summary {
	acc := newAccumulator()
	for rec := range records {
		acc.add(rec)
	}
	return acc.summary()
}

// ExtractRecords is Extract over an in-memory slice.
func ExtractRecords(records []transcript.Record) Summary {
	return Extract(func(yield func(transcript.Record) bool) {
		for _, rec := range records {
			if !yield(rec) {
				return
			}
		}
	})
}

// orderedSet keeps first-seen order.
type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

func (s *orderedSet) add(v string) {
	if s.seen == nil {
		s.seen = map[string]struct{}{}
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

func (s *orderedSet) values() []string {
	return append([]string{}, s.items...)
}

type accumulator struct {
	created   orderedSet
	modified  orderedSet
	languages map[string]struct{}
	commits   []string
	errors    int
	tests     bool
	toolCalls int

	firstTS string
	lastTS  string
}

func newAccumulator() *accumulator {
	return &accumulator{languages: map[string]struct{}{}}
}

func (a *accumulator) add(rec transcript.Record) {
	if rec.Timestamp != "" {
		if a.firstTS == "" {
			a.firstTS = rec.Timestamp
		}
		a.lastTS = rec.Timestamp
	}

	if rec.IsToolUse() {
		a.toolCalls++
		switch {
		case isWriteTool(rec.ToolName) || isEditTool(rec.ToolName):
			a.addFileOp(rec)
		case isCommandTool(rec.ToolName):
			a.addCommand(rec.InputString("command"))
		}
	}

	if rec.IsAssistant() {
		text := strings.ToLower(rec.Text())
		if strings.Contains(text, "error") &&
			(strings.Contains(text, "fixed") || strings.Contains(text, "resolved")) {
			a.errors++
		}
	}
}

func (a *accumulator) addFileOp(rec transcript.Record) {
	name := privacy.RedactPath(rec.InputString("file_path", "path"))
	if name == "" {
		return
	}
	if lang, ok := languageFor(name); ok {
		a.languages[lang] = struct{}{}
	}
	if isWriteTool(rec.ToolName) {
		a.created.add(name)
	} else {
		a.modified.add(name)
	}
}

func (a *accumulator) addCommand(command string) {
	if msg, ok := commitMessage(command); ok {
		a.commits = append(a.commits, msg)
	}
	if runsTests(command) {
		a.tests = true
	}
}

func (a *accumulator) summary() Summary {
	s := Summary{
		DurationMinutes: durationMinutes(a.firstTS, a.lastTS),
		FilesCreated:    a.created.values(),
		FilesModified:   a.modified.values(),
		GitCommits:      append([]string{}, a.commits...),
		ErrorsFixed:     a.errors,
		TestsRun:        a.tests,
		TotalToolCalls:  a.toolCalls,
		LanguagesUsed:   make([]string, 0, len(a.languages)),
	}
	for lang := range a.languages {
		s.LanguagesUsed = append(s.LanguagesUsed, lang)
	}
	sort.Strings(s.LanguagesUsed)
	s.Highlights = deriveHighlights(s)
	return s
}

// deriveHighlights builds highlights in a fixed order: created files,
// commits, tests, fixes.
func deriveHighlights(s Summary) []Highlight {
	out := []Highlight{}
	if n := len(s.FilesCreated); n > 0 {
		out = append(out, Highlight{
			Category:    CategoryFeature,
			Description: fmt.Sprintf("Created %d new file(s)", n),
			Files:       append([]string{}, s.FilesCreated[:min(n, maxFeatureFiles)]...),
		})
	}
	for _, commit := range s.GitCommits[:min(len(s.GitCommits), maxCommitHighlight)] {
		out = append(out, Highlight{Category: CategoryMilestone, Description: commit})
	}
	if s.TestsRun {
		out = append(out, Highlight{Category: CategoryTest, Description: "Ran test suite"})
	}
	if s.ErrorsFixed > 0 {
		out = append(out, Highlight{
			Category:    CategoryFix,
			Description: fmt.Sprintf("Fixed %d error(s)", s.ErrorsFixed),
		})
	}
	return out
}

// timestampLayouts lists the zoned layout first; the rest are naive.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// durationMinutes returns whole minutes between two timestamps, or 0 when
// either fails to parse, only one carries a zone, or they run backwards.
func durationMinutes(first, last string) int {
	if first == "" || last == "" {
		return 0
	}
	start, startZoned, ok := parseTimestamp(first)
	if !ok {
		return 0
	}
	end, endZoned, ok := parseTimestamp(last)
	if !ok || startZoned != endZoned {
		return 0
	}
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}

// parseTimestamp reports whether raw names an absolute instant (an offset or
// an epoch) as opposed to a naive wall-clock time.
func parseTimestamp(raw string) (ts time.Time, zoned, ok bool) {
	raw = strings.TrimSpace(raw)
	if strings.HasSuffix(raw, "Z") {
		raw = strings.TrimSuffix(raw, "Z") + "+00:00"
	}
	for i, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, i == 0, true
		}
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1_000_000_000_000 {
			return time.UnixMilli(n), true, true
		}
		return time.Unix(n, 0), true, true
	}
	return time.Time{}, false, false
}
