package privacy

import "testing"

func TestRedactPath(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"/Users/alice/app/src/main.py", "main.py"},
		{`C:\Users\bob\proj\index.ts`, "index.ts"},
		{`  "/tmp/quoted file.go"  `, "quoted file.go"},
		{"/home/carol/app/", "app"},
		{"relative/dir/notes.md", "notes.md"},
		{"main.py", "main.py"},
		{"", ""},
		{"   ", ""},
		{"/", ""},
		{`""`, ""},
	}
	for _, tt := range tests {
		if got := RedactPath(tt.raw); got != tt.want {
			t.Errorf("RedactPath(%q)=%q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestRedactPathIdempotent(t *testing.T) {
	for _, raw := range []string{"/Users/alice/app/src/main.py", `C:\x\y.rs`, "/srv/www/", "Makefile"} {
		once := RedactPath(raw)
		if twice := RedactPath(once); twice != once {
			t.Fatalf("RedactPath not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestRedactProject(t *testing.T) {
	tests := []struct {
		raw      string
		fallback string
		want     string
	}{
		{"Users-alice-dev-myapp", "", "myapp"},
		{"Users-alice-dev-myapp", "local-repo", "local-repo"},
		{"anything/at/all", "local-repo", "local-repo"},
		{"-Users-alice-dev-my-cool-app", "", "my-cool-app"},
		{"-home-bob-projects-api", "", "api"},
		{"-x-dev-src-code-work", "", "work"},
		{"Users-alice-Documents-site", "", "site"},
		{"my-app", "", "my-app"},
		{"-tmp-demo", "", "-tmp-demo"},
		{"", "", ""},
		{"a-b-c-d-e", "", "b-c-d-e"},
	}
	for _, tt := range tests {
		if got := RedactProject(tt.raw, tt.fallback); got != tt.want {
			t.Errorf("RedactProject(%q, %q)=%q, want %q", tt.raw, tt.fallback, got, tt.want)
		}
	}
}
