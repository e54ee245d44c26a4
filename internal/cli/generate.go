package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"build-in-public/internal/activity"
	"build-in-public/internal/clipboard"
	"build-in-public/internal/posts"
	"build-in-public/internal/privacy"
	"build-in-public/internal/report"
	"build-in-public/internal/source"
	"build-in-public/internal/store"
	"build-in-public/internal/transcript"
	"build-in-public/internal/ui"
)

type generateOptions struct {
	session    string
	project    string
	json       bool
	copyTarget string
	render     bool
	browse     bool
}

func (a *app) generateCmd() *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate posts from the latest (or a given) session",
		Long: `Parse a session transcript and write a markdown report of post drafts to the
output directory. The report is also printed to stdout for piping.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runGenerate(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.session, "session", "s", "", "session id or path to a .jsonl transcript")
	f.StringP("output", "o", "", "output directory (default: current directory)")
	f.BoolVar(&opts.json, "json", false, "also write the raw JSON record")
	f.String("twitter-style", "", "short post style: "+styleList(posts.TwitterStyles))
	f.String("linkedin-style", "", "medium post style: "+styleList(posts.LinkedInStyles))
	f.StringVar(&opts.project, "project", "", "project name to publish instead of the derived one")
	f.Bool("no-history", false, "do not record this run in the history database")
	f.StringVar(&opts.copyTarget, "copy", "", "copy one variant to the clipboard: "+strings.Join(clipboard.Targets, ", ")+" (short:2 picks the second)")
	f.BoolVar(&opts.render, "render", false, "print the report rendered for the terminal")
	f.BoolVar(&opts.browse, "browse", false, "open the interactive post browser")
	return cmd
}

func styleList[S ~string](styles []S) string {
	names := make([]string, 0, len(styles))
	for _, s := range styles {
		names = append(names, string(s))
	}
	return strings.Join(names, "|")
}

func (a *app) locate(id string) (source.Session, error) {
	if strings.TrimSpace(id) != "" {
		return source.Find(a.cfg.ClaudeHome, id)
	}
	return source.Latest(a.cfg.ClaudeHome)
}

func (a *app) runGenerate(ctx context.Context, stdout io.Writer, opts generateOptions) error {
	sess, err := a.locate(opts.session)
	if err != nil {
		return err
	}

	f, err := sess.Open()
	if err != nil {
		return err
	}
	summary := activity.Extract(transcript.Records(f))
	_ = f.Close()

	summary.SessionID = sess.ID
	summary.ProjectName = privacy.RedactProject(sess.ProjectDir, projectFallback(opts.project, sess.ProjectDir))
	a.logger.Info("📖 Parsing session", "id", sess.ID)
	a.logger.Info("📁 Project", "name", summary.ProjectName)

	set := posts.Generate(summary, posts.TwitterStyle(a.cfg.TwitterStyle), posts.LinkedInStyle(a.cfg.LinkedInStyle))
	now := a.now()

	exp, err := report.NewExporter(a.cfg.OutputDir)
	if err != nil {
		return err
	}
	paths, err := exp.Export(summary, set, now, opts.json)
	if err != nil {
		return err
	}
	a.logger.Info("✅ Posts generated", "path", paths.Markdown)
	if paths.JSON != "" {
		a.logger.Info("📄 JSON output", "path", paths.JSON)
	}

	md := report.Build(summary, set, now)
	terms := auditTerms(sess.ProjectDir)
	if res := privacy.Audit(md, terms, nil); res.Leaked() {
		a.logger.Warn("report mentions private terms, review before posting", "matches", res.Count, "lines", len(res.LineIndex))
	}

	if a.cfg.History {
		if err := a.saveRun(ctx, report.NewRecord(summary, set, now), paths.Markdown); err != nil {
			a.logger.Warn("could not record history", "err", err)
		}
	}

	if opts.copyTarget != "" {
		text, err := clipboard.Pick(set, opts.copyTarget)
		if err != nil {
			return err
		}
		if err := clipboard.Copy(ctx, text); err != nil {
			return fmt.Errorf("copy %s: %w", opts.copyTarget, err)
		}
		a.logger.Info("📋 Copied to clipboard", "target", opts.copyTarget)
	}

	if opts.browse {
		model := ui.New(summary, set, ui.Options{
			Report:       md,
			GlamourStyle: a.cfg.GlamourStyle,
			AuditTerms:   terms,
		})
		_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		return err
	}

	out := md
	if opts.render {
		out, err = renderMarkdown(md, a.cfg.GlamourStyle)
		if err != nil {
			a.logger.Warn("render failed, printing plain markdown", "err", err)
			out = md
		}
	}
	_, err = io.WriteString(stdout, out)
	return err
}

func (a *app) saveRun(ctx context.Context, rec report.Record, markdownPath string) error {
	st, err := store.Open(a.cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := store.NewRun(rec, markdownPath)
	if err != nil {
		return err
	}
	if err := st.Save(ctx, run); err != nil {
		return err
	}
	a.logger.Debug("run recorded", "id", run.ID, "db", a.cfg.DBPath)
	return nil
}

// projectFallback picks the trusted project name: the explicit override,
// else the working directory's name when the session belongs to it.
func projectFallback(override, projectDir string) string {
	if p := strings.TrimSpace(override); p != "" {
		return p
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	if encodeProjectDir(cwd) == projectDir {
		return filepath.Base(cwd)
	}
	return ""
}

// encodeProjectDir mirrors how Claude Code names per-project transcript
// directories: path separators and dots become dashes.
func encodeProjectDir(path string) string {
	return strings.NewReplacer("/", "-", `\`, "-", ".", "-", ":", "-").Replace(filepath.ToSlash(path))
}

// auditTerms lists strings that should never appear in a shareable post.
func auditTerms(projectDir string) []string {
	var terms []string
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		terms = append(terms, home, filepath.Base(home))
	}
	if projectDir != "" {
		terms = append(terms, projectDir)
	}
	return terms
}

func renderMarkdown(md, style string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return out, nil
}
