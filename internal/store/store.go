// Package store keeps a local SQLite history of generated post sets.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"build-in-public/internal/report"
)

var ErrRunNotFound = errors.New("run not found")

// Run is one stored generation.
type Run struct {
	ID              string
	SessionID       string
	Project         string
	GeneratedAt     time.Time
	DurationMinutes int
	FilesCreated    int
	FilesModified   int
	Commits         int
	ErrorsFixed     int
	TestsRun        bool
	ToolCalls       int
	MarkdownPath    string
	// Record is the JSON report record.
	Record []byte
}

// NewRun builds a Run from a report record with a fresh id.
func NewRun(rec report.Record, markdownPath string) (Run, error) {
	data, err := report.MarshalRecord(rec)
	if err != nil {
		return Run{}, err
	}
	s := rec.Summary
	return Run{
		ID:              uuid.NewString(),
		SessionID:       s.SessionID,
		Project:         s.ProjectName,
		GeneratedAt:     rec.GeneratedAt,
		DurationMinutes: s.DurationMinutes,
		FilesCreated:    len(s.FilesCreated),
		FilesModified:   len(s.FilesModified),
		Commits:         len(s.GitCommits),
		ErrorsFixed:     s.ErrorsFixed,
		TestsRun:        s.TestsRun,
		ToolCalls:       s.TotalToolCalls,
		MarkdownPath:    markdownPath,
		Record:          data,
	}, nil
}

type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	stmts := []string{
		`PRAGMA journal_mode = WAL;`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			session_id TEXT,
			project TEXT,
			generated_at INTEGER,
			duration_minutes INTEGER,
			files_created INTEGER,
			files_modified INTEGER,
			commits INTEGER,
			errors_fixed INTEGER,
			tests_run INTEGER,
			tool_calls INTEGER,
			markdown_path TEXT,
			record TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_generated_at ON runs(generated_at);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_session_id ON runs(session_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Save inserts run, replacing any row with the same id.
func (s *Store) Save(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs(id, session_id, project, generated_at, duration_minutes, files_created,
			files_modified, commits, errors_fixed, tests_run, tool_calls, markdown_path, record)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			session_id=excluded.session_id,
			project=excluded.project,
			generated_at=excluded.generated_at,
			duration_minutes=excluded.duration_minutes,
			files_created=excluded.files_created,
			files_modified=excluded.files_modified,
			commits=excluded.commits,
			errors_fixed=excluded.errors_fixed,
			tests_run=excluded.tests_run,
			tool_calls=excluded.tool_calls,
			markdown_path=excluded.markdown_path,
			record=excluded.record
	`, run.ID, run.SessionID, run.Project, run.GeneratedAt.UnixMilli(), run.DurationMinutes,
		run.FilesCreated, run.FilesModified, run.Commits, run.ErrorsFixed, boolInt(run.TestsRun),
		run.ToolCalls, run.MarkdownPath, string(run.Record))
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	return nil
}

const runColumns = `id, COALESCE(session_id, ''), COALESCE(project, ''), COALESCE(generated_at, 0),
	COALESCE(duration_minutes, 0), COALESCE(files_created, 0), COALESCE(files_modified, 0),
	COALESCE(commits, 0), COALESCE(errors_fixed, 0), COALESCE(tests_run, 0), COALESCE(tool_calls, 0),
	COALESCE(markdown_path, ''), COALESCE(record, '')`

// List returns the most recent runs first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY generated_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

// Get loads one run by id.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run       Run
		generated int64
		tests     int
		record    string
	)
	err := row.Scan(&run.ID, &run.SessionID, &run.Project, &generated, &run.DurationMinutes,
		&run.FilesCreated, &run.FilesModified, &run.Commits, &run.ErrorsFixed, &tests,
		&run.ToolCalls, &run.MarkdownPath, &record)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.GeneratedAt = time.UnixMilli(generated).UTC()
	run.TestsRun = tests != 0
	run.Record = []byte(record)
	return run, nil
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
