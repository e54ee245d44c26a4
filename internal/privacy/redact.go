// Package privacy turns raw paths and project identifiers into forms that
// are safe to publish.
package privacy

import "strings"

// genericDirs are directory names that carry no project identity.
var genericDirs = map[string]struct{}{
	"dev":       {},
	"projects":  {},
	"src":       {},
	"code":      {},
	"repos":     {},
	"work":      {},
	"workspace": {},
	"documents": {},
	"desktop":   {},
	"github":    {},
	"git":       {},
	"sites":     {},
}

// homeRoots are followed by a user name, which is stripped along with them.
var homeRoots = map[string]struct{}{
	"users": {},
	"home":  {},
}

// RedactPath reduces a file path to its final segment. Empty or root-only
// input yields "". Redacting a basename returns it unchanged.
func RedactPath(raw string) string {
	p := strings.TrimSpace(raw)
	p = strings.Trim(p, "\"'`")
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.TrimRight(p, "/")
	if p == "" {
		return ""
	}
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	return p
}

// RedactProject derives a shareable project name. A non-empty fallback (the
// caller's own working directory name) always wins. Otherwise raw is read as
// a dash-encoded absolute path, e.g. "-Users-alice-dev-myapp": with four or
// more tokens, the last four are kept and leading generic or home-directory
// tokens are stripped. Shorter names are returned as-is.
//
// This is best effort: project names that themselves contain dashes can lose
// or keep tokens they should not.
func RedactProject(raw, fallback string) string {
	if fb := strings.TrimSpace(fallback); fb != "" {
		return fb
	}

	var tokens []string
	for _, tok := range strings.Split(raw, "-") {
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) < 4 {
		return raw
	}

	tail := tokens[len(tokens)-4:]
	last := tail[len(tail)-1]
	for len(tail) > 0 {
		lower := strings.ToLower(tail[0])
		if _, ok := homeRoots[lower]; ok {
			tail = tail[min(2, len(tail)):]
			continue
		}
		if _, ok := genericDirs[lower]; ok {
			tail = tail[1:]
			continue
		}
		break
	}
	if len(tail) == 0 {
		return last
	}
	return strings.Join(tail, "-")
}
