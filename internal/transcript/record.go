package transcript

import "strings"

// Record is one parsed transcript line. Every field is optional; a zero
// value means the line did not carry it.
type Record struct {
	Type         string
	Role         string
	Timestamp    string
	ToolName     string
	ToolInput    map[string]any
	HasToolInput bool
	// Content is either a string or a []any of content fragments.
	Content any
}

// IsToolUse reports whether the record describes a tool invocation.
func (r Record) IsToolUse() bool {
	return r.Type == "tool_use" || r.HasToolInput
}

// IsAssistant reports whether the record was authored by the assistant.
func (r Record) IsAssistant() bool {
	return r.Type == "assistant" || r.Role == "assistant"
}

// InputString returns the first non-empty string stored under one of keys
// in the tool input.
func (r Record) InputString(keys ...string) string {
	for _, key := range keys {
		if s, ok := r.ToolInput[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Text flattens the record content into a single string. List content keeps
// only the text of object fragments.
func (r Record) Text() string {
	switch c := r.Content.(type) {
	case string:
		return c
	case []any:
		parts := make([]string, 0, len(c))
		for _, item := range c {
			frag, ok := item.(map[string]any)
			if !ok {
				continue
			}
			parts = append(parts, asString(frag["text"]))
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}
