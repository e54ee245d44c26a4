package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"build-in-public/internal/hook"
	"build-in-public/internal/source"
)

type testEnv struct {
	claudeHome string
	outDir     string
	dbPath     string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("CLAUDE_HOME", "")
	return testEnv{
		claudeHome: filepath.Join(home, ".claude"),
		outDir:     filepath.Join(home, "out"),
		dbPath:     filepath.Join(home, "history.sqlite"),
	}
}

func (e testEnv) writeSession(t *testing.T, projectDir, id string, lines ...string) string {
	t.Helper()
	dir := filepath.Join(e.claudeHome, "projects", projectDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, id+".jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write session: %v", err)
	}
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd("test")
	var stdout, stderr bytes.Buffer
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

var loginSession = []string{
	`{"type":"user","timestamp":"2026-01-15T10:00:00Z","content":"add a login page"}`,
	`{"type":"tool_use","tool_name":"Write","tool_input":{"file_path":"/Users/alice/dev/myapp/main.py"}}`,
	`{"type":"tool_use","tool_name":"Bash","tool_input":{"command":"pytest -q"}}`,
	`{"type":"tool_use","tool_name":"Bash","tool_input":{"command":"git commit -m \"add login\""}}`,
	`{"type":"assistant","timestamp":"2026-01-15T10:12:00Z","content":"Done."}`,
}

func TestGenerateWritesReportAndHistory(t *testing.T) {
	env := newTestEnv(t)
	env.writeSession(t, "-Users-alice-dev-myapp", "sess-1", loginSession...)

	stdout, _, err := run(t, "",
		"generate", "--claude-home", env.claudeHome, "--output", env.outDir,
		"--db-path", env.dbPath, "--json", "--twitter-style", "minimal")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, want := range []string{
		"# Build in Public - Session Posts",
		"Session: sess-1\nProject: myapp\nDuration: 12 minutes",
		"shipped: add login",
		"main.py",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "/Users/alice") {
		t.Error("report leaked a raw path")
	}

	md, _ := filepath.Glob(filepath.Join(env.outDir, "build-in-public_*.md"))
	js, _ := filepath.Glob(filepath.Join(env.outDir, "build-in-public_*.json"))
	if len(md) != 1 || len(js) != 1 {
		t.Fatalf("expected one markdown and one json file, got %v %v", md, js)
	}

	hist, _, err := run(t, "", "history", "--db-path", env.dbPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(hist, "myapp") || !strings.Contains(hist, "session sess-1") {
		t.Fatalf("history missing run:\n%s", hist)
	}
}

func TestGenerateNoHistory(t *testing.T) {
	env := newTestEnv(t)
	env.writeSession(t, "-Users-alice-dev-myapp", "sess-1", loginSession...)

	_, _, err := run(t, "",
		"generate", "--claude-home", env.claudeHome, "--output", env.outDir,
		"--db-path", env.dbPath, "--no-history", "--project", "public-name")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := os.Stat(env.dbPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("history db should not exist, stat err=%v", err)
	}

	hist, _, err := run(t, "", "history", "--db-path", env.dbPath)
	if err != nil || !strings.Contains(hist, "No history recorded yet.") {
		t.Fatalf("history=%q err=%v", hist, err)
	}
}

func TestGenerateProjectOverride(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeSession(t, "-Users-alice-dev-myapp", "sess-1", loginSession...)

	stdout, _, err := run(t, "",
		"generate", "--session", path, "--output", env.outDir, "--no-history", "--project", "public-name")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(stdout, "Project: public-name") {
		t.Fatalf("override ignored:\n%s", stdout)
	}
}

func TestGenerateMissingSession(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := run(t, "", "generate", "--claude-home", env.claudeHome, "--no-history")
	if !errors.Is(err, source.ErrNoSessions) {
		t.Fatalf("expected ErrNoSessions, got %v", err)
	}

	env.writeSession(t, "-tmp-demo", "other", `{"type":"user"}`)
	_, _, err = run(t, "", "generate", "--claude-home", env.claudeHome, "--session", "nope", "--no-history")
	if !errors.Is(err, source.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestHooksRemindAfterProductiveSession(t *testing.T) {
	env := newTestEnv(t)
	transcriptPath := env.writeSession(t, "-tmp-demo", "s", loginSession...)
	root := t.TempDir()
	t.Setenv(hook.PluginRootEnv, root)

	payload := `{"session_id":"s","transcript_path":"` + transcriptPath + `"}`
	if _, _, err := run(t, payload, "hook", "stop"); err != nil {
		t.Fatalf("stop hook: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, hook.LogFileName)); err != nil {
		t.Fatalf("activity log not written: %v", err)
	}

	stdout, _, err := run(t, payload, "hook", "session-end")
	if err != nil {
		t.Fatalf("session-end hook: %v", err)
	}
	if !strings.Contains(stdout, "BUILD IN PUBLIC REMINDER") {
		t.Fatalf("expected reminder, got %q", stdout)
	}
	if _, err := os.Stat(filepath.Join(root, hook.LogFileName)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("activity log should be removed, stat err=%v", err)
	}
}

func TestHooksNeverFail(t *testing.T) {
	newTestEnv(t)
	t.Setenv(hook.PluginRootEnv, "")
	for _, sub := range []string{"stop", "session-end"} {
		stdout, _, err := run(t, "not json", "hook", sub)
		if err != nil {
			t.Fatalf("hook %s: %v", sub, err)
		}
		if stdout != "" {
			t.Fatalf("hook %s printed %q", sub, stdout)
		}
	}
}

func TestConfigShowHonorsEnv(t *testing.T) {
	newTestEnv(t)
	t.Setenv("BUILD_IN_PUBLIC_TWITTER_STYLE", "minimal")

	stdout, _, err := run(t, "", "config", "show", "--claude-home", "/tmp/claude")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{"twitter_style: minimal", "claude_home: /tmp/claude", "history: true"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("config show missing %q:\n%s", want, stdout)
		}
	}
}

func TestConfigPath(t *testing.T) {
	newTestEnv(t)
	stdout, _, err := run(t, "", "config", "path", "--config", "/etc/bip.yaml")
	if err == nil {
		t.Fatalf("missing explicit config should fail, printed %q", stdout)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("twitter_style: devlog\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	stdout, _, err = run(t, "", "config", "path", "--config", path)
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(stdout) != path {
		t.Fatalf("config path=%q, want %q", stdout, path)
	}
}

func TestEncodeProjectDir(t *testing.T) {
	tests := map[string]string{
		"/Users/alice/dev/myapp":     "-Users-alice-dev-myapp",
		"/home/bob/src/site.example": "-home-bob-src-site-example",
	}
	for in, want := range tests {
		if got := encodeProjectDir(in); got != want {
			t.Errorf("encodeProjectDir(%q)=%q, want %q", in, got, want)
		}
	}
}
