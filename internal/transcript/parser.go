package transcript

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
)

// MaxLineSize caps a single transcript line. Claude transcripts embed whole
// file contents in tool inputs, so the default scanner buffer is too small.
const MaxLineSize = 8 * 1024 * 1024

var (
	errNotObject    = errors.New("transcript line is not a JSON object")
	errTrailingData = errors.New("trailing data after transcript record")
)

// Records lazily parses newline-delimited JSON from r. Blank, malformed and
// oversized lines are skipped.
func Records(r io.Reader) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for line := range Lines(r) {
			recs, err := ParseLine(line)
			if err != nil {
				continue
			}
			for _, rec := range recs {
				if !yield(rec) {
					return
				}
			}
		}
	}
}

// Lines yields the trimmed, non-blank lines of r. A line longer than
// MaxLineSize is discarded up to its newline and reading continues. The
// yielded slice is only valid until the next iteration.
func Lines(r io.Reader) iter.Seq[[]byte] {
	return linesWithLimit(r, MaxLineSize)
}

func linesWithLimit(r io.Reader, limit int) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		br := bufio.NewReaderSize(r, 64*1024)
		var buf []byte
		oversized := false
		for {
			chunk, err := br.ReadSlice('\n')
			if !oversized {
				n := len(chunk)
				if n > 0 && chunk[n-1] == '\n' {
					n--
				}
				if len(buf)+n > limit {
					oversized = true
					buf = buf[:0]
				} else {
					buf = append(buf, chunk...)
				}
			}
			if errors.Is(err, bufio.ErrBufferFull) {
				continue
			}
			if !oversized {
				if line := bytes.TrimSpace(buf); len(line) > 0 && !yield(line) {
					return
				}
			}
			buf = buf[:0]
			oversized = false
			if err != nil {
				return
			}
		}
	}
}

// ParseBytes parses a whole transcript held in memory.
func ParseBytes(data []byte) []Record {
	var out []Record
	for rec := range Records(bytes.NewReader(data)) {
		out = append(out, rec)
	}
	return out
}

// ParseLine parses one transcript line. Most lines produce a single record;
// an assistant message whose content carries tool_use blocks also produces
// one tool_use record per block, after the message itself.
func ParseLine(line []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode transcript line: %w", err)
	}
	if dec.More() {
		return nil, errTrailingData
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errNotObject
	}

	rec := Record{
		Type:      asString(firstByPath(obj, []string{"type"})),
		Role:      asString(firstByPath(obj, []string{"role"}, []string{"message", "role"})),
		Timestamp: asString(firstByPath(obj, []string{"timestamp"})),
		ToolName:  asString(firstByPath(obj, []string{"name"}, []string{"tool_name"})),
		Content:   firstByPath(obj, []string{"content"}, []string{"message", "content"}),
	}
	if input, ok := firstByPath(obj, []string{"tool_input"}, []string{"input"}).(map[string]any); ok {
		rec.ToolInput = input
		rec.HasToolInput = true
	}

	out := []Record{rec}
	if rec.Type == "assistant" {
		out = append(out, nestedToolUses(rec)...)
	}
	return out, nil
}

func nestedToolUses(parent Record) []Record {
	blocks, ok := parent.Content.([]any)
	if !ok {
		return nil
	}
	var out []Record
	for _, item := range blocks {
		block, ok := item.(map[string]any)
		if !ok || asString(block["type"]) != "tool_use" {
			continue
		}
		rec := Record{
			Type:      "tool_use",
			Role:      parent.Role,
			Timestamp: parent.Timestamp,
			ToolName:  asString(block["name"]),
		}
		if input, ok := block["input"].(map[string]any); ok {
			rec.ToolInput = input
			rec.HasToolInput = true
		}
		out = append(out, rec)
	}
	return out
}

func firstByPath(obj map[string]any, path ...[]string) any {
	for _, p := range path {
		var cur any = obj
		ok := true
		for _, seg := range p {
			m, isMap := cur.(map[string]any)
			if !isMap {
				ok = false
				break
			}
			var exists bool
			cur, exists = m[seg]
			if !exists || cur == nil {
				ok = false
				break
			}
		}
		if ok {
			return cur
		}
	}
	return nil
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case map[string]any, []any:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
