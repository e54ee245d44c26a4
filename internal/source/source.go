// Package source locates Claude Code session transcripts on disk.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

var (
	ErrNoSessions      = errors.New("no session transcripts found")
	ErrSessionNotFound = errors.New("session not found")
)

// Session points at one transcript file.
type Session struct {
	ID string
	// Path is the absolute path of the .jsonl transcript.
	Path string
	// ProjectDir is the raw, dash-encoded project directory name, e.g.
	// "-Users-alice-dev-myapp". It is not safe to publish as-is.
	ProjectDir string
	ModTime    time.Time
}

// ProjectsDir returns the directory holding per-project transcript folders.
func ProjectsDir(claudeHome string) string {
	return filepath.Join(claudeHome, "projects")
}

// List returns every top-level transcript under claudeHome, most recently
// modified first. Subagent directories inside a project are not descended.
func List(claudeHome string) ([]Session, error) {
	root := ProjectsDir(claudeHome)
	projects, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrNoSessions, root)
		}
		return nil, fmt.Errorf("read projects dir: %w", err)
	}

	var sessions []Session
	for _, proj := range projects {
		if !proj.IsDir() {
			continue
		}
		dir := filepath.Join(root, proj.Name())
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !strings.HasSuffix(strings.ToLower(name), ".jsonl") {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			sessions = append(sessions, Session{
				ID:         strings.TrimSuffix(name, filepath.Ext(name)),
				Path:       filepath.Join(dir, name),
				ProjectDir: proj.Name(),
				ModTime:    info.ModTime(),
			})
		}
	}

	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].ModTime.Equal(sessions[j].ModTime) {
			return sessions[i].ModTime.After(sessions[j].ModTime)
		}
		return sessions[i].Path < sessions[j].Path
	})
	return sessions, nil
}

// Latest returns the most recently modified transcript.
func Latest(claudeHome string) (Session, error) {
	sessions, err := List(claudeHome)
	if err != nil {
		return Session{}, err
	}
	if len(sessions) == 0 {
		return Session{}, ErrNoSessions
	}
	return sessions[0], nil
}

// Find resolves idOrPath, either an existing transcript file or a session
// id looked up as <id>.jsonl in every project directory.
func Find(claudeHome, idOrPath string) (Session, error) {
	idOrPath = strings.TrimSpace(idOrPath)
	if idOrPath == "" {
		return Session{}, fmt.Errorf("%w: empty session id", ErrSessionNotFound)
	}

	if info, err := os.Stat(idOrPath); err == nil && !info.IsDir() {
		abs, err := filepath.Abs(idOrPath)
		if err != nil {
			return Session{}, fmt.Errorf("resolve %s: %w", idOrPath, err)
		}
		base := filepath.Base(abs)
		return Session{
			ID:         strings.TrimSuffix(base, filepath.Ext(base)),
			Path:       abs,
			ProjectDir: filepath.Base(filepath.Dir(abs)),
			ModTime:    info.ModTime(),
		}, nil
	}

	pattern := filepath.Join(ProjectsDir(claudeHome), "*", idOrPath+".jsonl")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return Session{}, fmt.Errorf("glob sessions: %w", err)
	}
	sort.Strings(matches)
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		return Session{
			ID:         idOrPath,
			Path:       m,
			ProjectDir: filepath.Base(filepath.Dir(m)),
			ModTime:    info.ModTime(),
		}, nil
	}
	return Session{}, fmt.Errorf("%w: %q", ErrSessionNotFound, idOrPath)
}

// Open opens the transcript for reading.
func (s Session) Open() (*os.File, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open transcript %s: %w", s.ID, err)
	}
	return f, nil
}
