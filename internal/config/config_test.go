package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestResolveDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("CLAUDE_HOME", "")

	v, err := New("")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	cfg, err := Resolve(v)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.ClaudeHome != filepath.Join(home, ".claude") {
		t.Errorf("claude home=%q", cfg.ClaudeHome)
	}
	if cfg.DBPath != filepath.Join(home, ".local", "share", "build-in-public", "history.sqlite") {
		t.Errorf("db path=%q", cfg.DBPath)
	}
	if cfg.TwitterStyle != "ship" || cfg.LinkedInStyle != "professional" || !cfg.History {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.GlamourStyle != DefaultGlamourStyle {
		t.Errorf("glamour style=%q", cfg.GlamourStyle)
	}
}

func TestFileThenEnvThenOverride(t *testing.T) {
	path := writeConfig(t, "twitter_style: devlog\nlinkedin_style: story\noutput_dir: posts\nhistory: false\n")
	t.Setenv("BUILD_IN_PUBLIC_LINKEDIN_STYLE", "wins")
	t.Setenv("CLAUDE_HOME", "")

	v, err := New(path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	v.Set(KeyOutputDir, "elsewhere")
	v.Set(KeyClaudeHome, "/tmp/claude/")

	cfg, err := Resolve(v)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.TwitterStyle != "devlog" {
		t.Errorf("file value lost: twitter_style=%q", cfg.TwitterStyle)
	}
	if cfg.LinkedInStyle != "wins" {
		t.Errorf("env should beat file: linkedin_style=%q", cfg.LinkedInStyle)
	}
	if cfg.OutputDir != "elsewhere" {
		t.Errorf("override should beat file: output_dir=%q", cfg.OutputDir)
	}
	if cfg.History {
		t.Error("history should be disabled by the file")
	}
	if cfg.ClaudeHome != "/tmp/claude" {
		t.Errorf("claude home=%q", cfg.ClaudeHome)
	}
}

func TestNewExplicitMissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestNewRejectsBrokenFile(t *testing.T) {
	if _, err := New(writeConfig(t, "twitter_style: [unclosed\n")); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestDetectClaudeHome(t *testing.T) {
	t.Setenv("CLAUDE_HOME", "/env/claude")
	got, err := DetectClaudeHome("/explicit/claude/")
	if err != nil || got != "/explicit/claude" {
		t.Fatalf("explicit: got %q err=%v", got, err)
	}
	got, err = DetectClaudeHome("")
	if err != nil || got != "/env/claude" {
		t.Fatalf("env: got %q err=%v", got, err)
	}
}

func TestYAML(t *testing.T) {
	out, err := AppConfig{ClaudeHome: "/c", TwitterStyle: "minimal", History: true}.YAML()
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	for _, want := range []string{"claude_home: /c\n", "twitter_style: minimal\n", "history: true\n"} {
		if !strings.Contains(string(out), want) {
			t.Errorf("yaml missing %q:\n%s", want, out)
		}
	}
}
