package activity

import (
	"path"
	"regexp"
	"strings"
)

var (
	writeTools = map[string]struct{}{
		"Write":       {},
		"create_file": {},
	}
	editTools = map[string]struct{}{
		"Edit":        {},
		"MultiEdit":   {},
		"str_replace": {},
	}
	commandTools = map[string]struct{}{
		"Bash": {},
	}
)

// testKeywords mark a shell command as a test run.
var testKeywords = []string{
	"pytest",
	"jest",
	"npm test",
	"cargo test",
	"go test",
	"rspec",
	"vitest",
	"yarn test",
	"pnpm test",
}

var languageByExt = map[string]string{
	".py":         "Python",
	".js":         "JavaScript",
	".ts":         "TypeScript",
	".jsx":        "React",
	".tsx":        "React/TypeScript",
	".go":         "Go",
	".rs":         "Rust",
	".rb":         "Ruby",
	".java":       "Java",
	".cpp":        "C++",
	".c":          "C",
	".swift":      "Swift",
	".kt":         "Kotlin",
	".sql":        "SQL",
	".html":       "HTML",
	".css":        "CSS",
	".scss":       "SCSS",
	".vue":        "Vue",
	".svelte":     "Svelte",
	".md":         "Markdown",
	".json":       "JSON",
	".yaml":       "YAML",
	".yml":        "YAML",
	".sh":         "Bash",
	".dockerfile": "Docker",
}

// languageByName covers files identified by name rather than extension.
var languageByName = map[string]string{
	"dockerfile": "Docker",
}

var commitMessageRe = regexp.MustCompile(`-m ["'](.+?)["']`)

const commitMarker = "git commit"

func isWriteTool(name string) bool {
	_, ok := writeTools[name]
	return ok
}

func isEditTool(name string) bool {
	_, ok := editTools[name]
	return ok
}

func isCommandTool(name string) bool {
	_, ok := commandTools[name]
	return ok
}

// languageFor maps a redacted file name to a language label.
func languageFor(name string) (string, bool) {
	if lang, ok := languageByName[strings.ToLower(name)]; ok {
		return lang, true
	}
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return "", false
	}
	lang, ok := languageByExt[ext]
	return lang, ok
}

func commitMessage(command string) (string, bool) {
	if !IsCommitCommand(command) {
		return "", false
	}
	m := commitMessageRe.FindStringSubmatch(command)
	if len(m) != 2 {
		return "", false
	}
	return m[1], true
}

func runsTests(command string) bool {
	for _, kw := range testKeywords {
		if strings.Contains(command, kw) {
			return true
		}
	}
	return false
}

// ToolKind is the coarse class of a tool invocation.
type ToolKind int

const (
	ToolOther ToolKind = iota
	ToolWrite
	ToolEdit
	ToolCommand
)

// Classify maps a tool name onto its ToolKind.
func Classify(toolName string) ToolKind {
	switch {
	case isWriteTool(toolName):
		return ToolWrite
	case isEditTool(toolName):
		return ToolEdit
	case isCommandTool(toolName):
		return ToolCommand
	default:
		return ToolOther
	}
}

// IsCommitCommand reports whether a shell command runs git commit, with or
// without an inline message.
func IsCommitCommand(command string) bool {
	return strings.Contains(command, commitMarker)
}
