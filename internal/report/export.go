package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"build-in-public/internal/activity"
	"build-in-public/internal/posts"
)

const fileStampLayout = "20060102_150405"

// Record is the machine-readable form of one run.
type Record struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Summary     activity.Summary `json:"summary"`
	Posts       posts.PostSet    `json:"posts"`
}

func NewRecord(s activity.Summary, set posts.PostSet, generatedAt time.Time) Record {
	return Record{GeneratedAt: generatedAt.UTC(), Summary: s, Posts: set}
}

// MarshalRecord renders r as indented JSON.
func MarshalRecord(r Record) ([]byte, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report record: %w", err)
	}
	return append(b, '\n'), nil
}

// Paths lists what an export wrote. JSON is empty unless requested.
type Paths struct {
	Markdown string
	JSON     string
}

type Exporter struct {
	dir string
	cwd string
}

// NewExporter writes into dir; a relative dir resolves against the current
// working directory and an empty one means the working directory itself.
func NewExporter(dir string) (*Exporter, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve cwd: %w", err)
	}
	return &Exporter{dir: strings.TrimSpace(dir), cwd: cwd}, nil
}

// Dir returns the absolute output directory.
func (e *Exporter) Dir() string {
	if e.dir == "" {
		return e.cwd
	}
	if filepath.IsAbs(e.dir) {
		return e.dir
	}
	return filepath.Join(e.cwd, e.dir)
}

// Export writes the markdown report, and the JSON record when withJSON is
// set, stamped with now.
func (e *Exporter) Export(s activity.Summary, set posts.PostSet, now time.Time, withJSON bool) (Paths, error) {
	dir := e.Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("create output directory: %w", err)
	}

	base := "build-in-public_" + now.Format(fileStampLayout)
	paths := Paths{Markdown: filepath.Join(dir, base+".md")}
	if err := os.WriteFile(paths.Markdown, []byte(Build(s, set, now)), 0o644); err != nil {
		return Paths{}, fmt.Errorf("write report: %w", err)
	}

	if withJSON {
		data, err := MarshalRecord(NewRecord(s, set, now))
		if err != nil {
			return Paths{}, err
		}
		paths.JSON = filepath.Join(dir, base+".json")
		if err := os.WriteFile(paths.JSON, data, 0o644); err != nil {
			return Paths{}, fmt.Errorf("write report record: %w", err)
		}
	}
	return paths, nil
}
