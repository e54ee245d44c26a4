package privacy

import (
	"regexp"
	"sort"
	"strings"
)

var ansiCSI = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]`)

// AuditResult reports where sensitive terms survived into generated text.
type AuditResult struct {
	Text      string
	Count     int
	Terms     []string
	LineIndex []int
}

// Leaked reports whether any term was found.
func (r AuditResult) Leaked() bool {
	return r.Count > 0
}

// Audit scans text for each term, case-insensitively, and wraps every
// occurrence with wrap. ANSI escape sequences are preserved and never match.
// Terms shorter than three characters are ignored.
func Audit(text string, terms []string, wrap func(string) string) AuditResult {
	if wrap == nil {
		wrap = func(s string) string { return s }
	}
	terms = usableTerms(terms)
	if len(terms) == 0 {
		return AuditResult{Text: text}
	}

	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = regexp.QuoteMeta(t)
	}
	re := regexp.MustCompile(`(?i)(?:` + strings.Join(parts, "|") + `)`)

	lines := strings.SplitAfter(text, "\n")
	var out strings.Builder
	var lineMatches []int
	found := map[string]struct{}{}
	total := 0

	for lineNo, line := range lines {
		core := strings.TrimSuffix(line, "\n")
		rendered, count := auditANSIText(core, re, func(match string) string {
			for _, t := range terms {
				if strings.EqualFold(t, match) {
					found[t] = struct{}{}
					break
				}
			}
			return wrap(match)
		})
		out.WriteString(rendered)
		if strings.HasSuffix(line, "\n") {
			out.WriteByte('\n')
		}
		if count > 0 {
			lineMatches = append(lineMatches, lineNo)
			total += count
		}
	}

	res := AuditResult{Text: out.String(), Count: total, LineIndex: lineMatches}
	for term := range found {
		res.Terms = append(res.Terms, term)
	}
	sort.Strings(res.Terms)
	return res
}

// usableTerms drops short and duplicate terms and orders the rest longest
// first, so a home directory is matched before the user name inside it.
func usableTerms(terms []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if len(t) < 3 {
			continue
		}
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

func auditANSIText(s string, re *regexp.Regexp, wrap func(string) string) (string, int) {
	indices := ansiCSI.FindAllStringIndex(s, -1)
	if len(indices) == 0 {
		return auditPlain(s, re, wrap)
	}

	var out strings.Builder
	total := 0
	pos := 0
	for _, idx := range indices {
		if idx[0] > pos {
			plain, count := auditPlain(s[pos:idx[0]], re, wrap)
			out.WriteString(plain)
			total += count
		}
		out.WriteString(s[idx[0]:idx[1]])
		pos = idx[1]
	}
	if pos < len(s) {
		plain, count := auditPlain(s[pos:], re, wrap)
		out.WriteString(plain)
		total += count
	}
	return out.String(), total
}

func auditPlain(s string, re *regexp.Regexp, wrap func(string) string) (string, int) {
	if s == "" {
		return s, 0
	}
	count := 0
	out := re.ReplaceAllStringFunc(s, func(m string) string {
		count++
		return wrap(m)
	})
	return out, count
}
