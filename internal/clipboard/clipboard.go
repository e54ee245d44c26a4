package clipboard

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"build-in-public/internal/posts"
)

var (
	ErrToolNotFound  = errors.New("clipboard tool not found")
	ErrUnknownTarget = errors.New("unknown copy target")
	ErrEmptyTarget   = errors.New("copy target has no content")
)

// Targets lists the accepted copy target names. short and medium take an
// optional 1-based ":n" suffix.
var Targets = []string{"short", "thread", "medium", "long", "hashtags"}

// Pick returns the text for target from set, e.g. "short", "short:2",
// "thread" or "hashtags".
func Pick(set posts.PostSet, target string) (string, error) {
	name, index, err := parseTarget(target)
	if err != nil {
		return "", err
	}

	var variants []string
	switch name {
	case "short":
		variants = set.Short
	case "medium":
		variants = set.Medium
	case "long":
		variants = set.Long
	case "thread":
		if index != 0 {
			return "", fmt.Errorf("%w: thread takes no index", ErrUnknownTarget)
		}
		if len(set.Thread) == 0 {
			return "", fmt.Errorf("%w: thread", ErrEmptyTarget)
		}
		return strings.Join(set.Thread, "\n\n"), nil
	case "hashtags":
		if index != 0 {
			return "", fmt.Errorf("%w: hashtags takes no index", ErrUnknownTarget)
		}
		if len(set.Hashtags) == 0 {
			return "", fmt.Errorf("%w: hashtags", ErrEmptyTarget)
		}
		return strings.Join(set.Hashtags, " "), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}

	if index == 0 {
		index = 1
	}
	if index > len(variants) {
		return "", fmt.Errorf("%w: %s has %d option(s)", ErrEmptyTarget, target, len(variants))
	}
	return variants[index-1], nil
}

func parseTarget(target string) (string, int, error) {
	target = strings.ToLower(strings.TrimSpace(target))
	name, rawIndex, hasIndex := strings.Cut(target, ":")
	if !hasIndex {
		return name, 0, nil
	}
	n, err := strconv.Atoi(rawIndex)
	if err != nil || n < 1 {
		return "", 0, fmt.Errorf("%w: bad index in %q", ErrUnknownTarget, target)
	}
	return name, n, nil
}

type Command struct {
	Path string
	Args []string
}

func SelectCommand(goos string, lookPath func(string) (string, error)) (Command, error) {
	switch goos {
	case "darwin":
		path, err := lookPath("pbcopy")
		if err != nil {
			return Command{}, ErrToolNotFound
		}
		return Command{Path: path}, nil
	case "windows":
		path, err := lookPath("clip")
		if err != nil {
			return Command{}, ErrToolNotFound
		}
		return Command{Path: path}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		candidates := []Command{
			{Path: "wl-copy"},
			{Path: "xclip", Args: []string{"-selection", "clipboard"}},
			{Path: "xsel", Args: []string{"--clipboard", "--input"}},
		}
		for _, c := range candidates {
			if path, err := lookPath(c.Path); err == nil {
				return Command{Path: path, Args: c.Args}, nil
			}
		}
		return Command{}, ErrToolNotFound
	default:
		return Command{}, ErrToolNotFound
	}
}

func Copy(ctx context.Context, text string) error {
	cmdDef, err := SelectCommand(runtime.GOOS, exec.LookPath)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, cmdDef.Path, cmdDef.Args...)
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("clipboard command failed: %w: %s", err, msg)
		}
		return fmt.Errorf("clipboard command failed: %w", err)
	}
	return nil
}
