// Package hook keeps a per-session activity tally for the host's Stop and
// SessionEnd hooks, and decides whether a session deserves a reminder.
package hook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"build-in-public/internal/activity"
	"build-in-public/internal/transcript"
)

const (
	LogFileName = ".session_activity.json"
	// PluginRootEnv names the directory the host gives the plugin.
	PluginRootEnv = "CLAUDE_PLUGIN_ROOT"

	recentLines = 20
)

var ErrNoPluginRoot = errors.New("plugin root not set")

// Activity is the running tally persisted between Stop events.
type Activity struct {
	FilesModified int `json:"files_modified"`
	FilesCreated  int `json:"files_created"`
	GitCommits    int `json:"git_commits"`
	CommandsRun   int `json:"commands_run"`
	Responses     int `json:"responses"`
}

// Substantial reports whether the session touched files or made commits.
func (a Activity) Substantial() bool {
	return a.FilesModified > 0 || a.FilesCreated > 0 || a.GitCommits > 0
}

// Payload is the subset of the hook input we read.
type Payload struct {
	SessionID      string `json:"session_id"`
	TranscriptPath string `json:"transcript_path"`
}

// ReadPayload decodes hook input. Empty or malformed input yields a zero
// Payload.
func ReadPayload(r io.Reader) Payload {
	var p Payload
	if r == nil {
		return p
	}
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Payload{}
	}
	return p
}

// LogPath returns the activity log location under root.
func LogPath(root string) (string, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return "", ErrNoPluginRoot
	}
	return filepath.Join(root, LogFileName), nil
}

// Load reads the activity log. A missing or unreadable log is an empty tally.
func Load(root string) (Activity, error) {
	path, err := LogPath(root)
	if err != nil {
		return Activity{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Activity{}, nil
		}
		return Activity{}, fmt.Errorf("read activity log: %w", err)
	}
	var a Activity
	if err := json.Unmarshal(data, &a); err != nil {
		return Activity{}, nil
	}
	return a, nil
}

func save(path string, a Activity) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode activity log: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write activity log: %w", err)
	}
	return nil
}

// RecordStop counts one response and tallies tool use in the last lines of
// the payload's transcript, then persists the log.
func RecordStop(root string, p Payload) (Activity, error) {
	path, err := LogPath(root)
	if err != nil {
		return Activity{}, err
	}
	a, err := Load(root)
	if err != nil {
		return Activity{}, err
	}
	a.Responses++

	if p.TranscriptPath != "" {
		lines, err := tailLines(p.TranscriptPath, recentLines)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Activity{}, err
		}
		for _, line := range lines {
			tally(&a, line)
		}
	}

	if err := save(path, a); err != nil {
		return Activity{}, err
	}
	return a, nil
}

// SessionEnd reports whether the finished session was substantial and
// removes the activity log either way.
func SessionEnd(root string, _ Payload) (bool, error) {
	path, err := LogPath(root)
	if err != nil {
		return false, err
	}
	a, loadErr := Load(root)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("remove activity log: %w", err)
	}
	if loadErr != nil {
		return false, loadErr
	}
	return a.Substantial(), nil
}

func tally(a *Activity, line []byte) {
	records, err := transcript.ParseLine(line)
	if err != nil {
		return
	}
	for _, rec := range records {
		switch activity.Classify(rec.ToolName) {
		case activity.ToolWrite:
			a.FilesCreated++
		case activity.ToolEdit:
			a.FilesModified++
		case activity.ToolCommand:
			a.CommandsRun++
			if activity.IsCommitCommand(rec.InputString("command")) {
				a.GitCommits++
			}
		}
	}
}

// tailLines returns up to n trailing non-blank lines of the file at path.
// Oversized lines are skipped the same way the extractor skips them.
func tailLines(path string, n int) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	ring := make([][]byte, 0, n)
	for line := range transcript.Lines(f) {
		if len(ring) == n {
			ring = append(ring[:0], ring[1:]...)
		}
		ring = append(ring, append([]byte(nil), line...))
	}
	return ring, nil
}

// Reminder is printed after a substantial session.
const Reminder = `
==================================================
📱 BUILD IN PUBLIC REMINDER
==================================================

You had a productive session! Consider sharing your progress.

Run build-in-public generate to create social media posts
for Twitter/X, BlueSky, LinkedIn, and more.

==================================================
`
