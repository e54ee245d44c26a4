package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"build-in-public/internal/activity"
	"build-in-public/internal/clipboard"
	"build-in-public/internal/config"
	"build-in-public/internal/posts"
	"build-in-public/internal/privacy"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// shortPostLimit is the character budget of the short-form platforms.
const shortPostLimit = 280

// Options tune the browser. Zero values are usable.
type Options struct {
	// Report is the markdown report, shown rendered as the last entry.
	Report       string
	GlamourStyle string
	// AuditTerms are highlighted wherever they appear in a post.
	AuditTerms []string
	// Copy defaults to clipboard.Copy.
	Copy func(ctx context.Context, text string) error
}

type Model struct {
	summary activity.Summary
	set     posts.PostSet
	opts    Options

	list     list.Model
	viewport viewport.Model
	help     help.Model
	keys     keyMap

	width  int
	height int

	focusOnList bool
	renderNonce int
	rendering   bool

	selected variant
	rendered map[int]string
	leaks    int

	status string
	err    error
}

type copyMsg struct {
	target string
	err    error
}

type renderMsg struct {
	width    int
	rendered string
	nonce    int
	err      error
}

// variant is one copyable draft in the list.
type variant struct {
	kind   string
	index  int
	total  int
	target string
	text   string
	// segments is set for threads only.
	segments []string
	limit    int
}

func (v variant) Title() string {
	if v.total > 1 {
		return fmt.Sprintf("%s %d/%d", v.kind, v.index, v.total)
	}
	return v.kind
}

func (v variant) Description() string {
	if v.kind == reportKind {
		return "full markdown report"
	}
	if len(v.segments) > 0 {
		return fmt.Sprintf("%d posts | %s", len(v.segments), firstLine(v.segments[0]))
	}
	return fmt.Sprintf("%d chars | %s", utf8.RuneCountInString(v.text), firstLine(v.text))
}

func (v variant) FilterValue() string {
	return strings.ToLower(v.kind + " " + v.text)
}

func (v variant) overLimit() bool {
	if v.limit <= 0 {
		return false
	}
	if len(v.segments) > 0 {
		for _, seg := range v.segments {
			if utf8.RuneCountInString(seg) > v.limit {
				return true
			}
		}
		return false
	}
	return utf8.RuneCountInString(v.text) > v.limit
}

const reportKind = "Report"

// variants flattens set into list order: short, thread, medium, long,
// hashtags, then the report when there is one.
func variants(set posts.PostSet, report string) []variant {
	var out []variant
	for i, text := range set.Short {
		out = append(out, variant{
			kind: "Short", index: i + 1, total: len(set.Short),
			target: fmt.Sprintf("short:%d", i+1), text: text, limit: shortPostLimit,
		})
	}
	if len(set.Thread) > 0 {
		out = append(out, variant{
			kind: "Thread", index: 1, total: 1, target: "thread",
			text: strings.Join(set.Thread, "\n\n"), segments: set.Thread, limit: shortPostLimit,
		})
	}
	for i, text := range set.Medium {
		out = append(out, variant{
			kind: "Medium", index: i + 1, total: len(set.Medium),
			target: fmt.Sprintf("medium:%d", i+1), text: text,
		})
	}
	for i, text := range set.Long {
		out = append(out, variant{
			kind: "Long", index: i + 1, total: len(set.Long),
			target: fmt.Sprintf("long:%d", i+1), text: text,
		})
	}
	if len(set.Hashtags) > 0 {
		out = append(out, variant{
			kind: "Hashtags", index: 1, total: 1, target: "hashtags",
			text: strings.Join(set.Hashtags, " "),
		})
	}
	if strings.TrimSpace(report) != "" {
		out = append(out, variant{kind: reportKind, index: 1, total: 1, text: report})
	}
	return out
}

// New builds the post browser for one generated set.
func New(s activity.Summary, set posts.PostSet, opts Options) Model {
	if opts.Copy == nil {
		opts.Copy = clipboard.Copy
	}
	if opts.GlamourStyle == "" {
		opts.GlamourStyle = config.DefaultGlamourStyle
	}

	all := variants(set, opts.Report)
	items := make([]list.Item, 0, len(all))
	for _, v := range all {
		items = append(items, v)
	}

	l := list.New(items, list.NewDefaultDelegate(), 40, 20)
	l.Title = "Posts"
	l.SetShowFilter(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	vp := viewport.New(60, 20)

	h := help.New()
	h.ShowAll = false

	m := Model{
		summary:     s,
		set:         set,
		opts:        opts,
		list:        l,
		viewport:    vp,
		help:        h,
		keys:        defaultKeys(),
		focusOnList: true,
		rendered:    make(map[int]string),
	}
	if len(all) == 0 {
		m.viewport.SetContent("Nothing to share yet: the session produced no posts.")
		return m
	}
	m.selected = all[0]
	m.showSelected()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) copyCmd() tea.Cmd {
	v := m.selected
	if v.kind == "" {
		return nil
	}
	set := m.set
	copyFn := m.opts.Copy
	return func() tea.Msg {
		text := v.text
		if v.target != "" {
			picked, err := clipboard.Pick(set, v.target)
			if err != nil {
				return copyMsg{target: v.Title(), err: err}
			}
			text = picked
		}
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return copyMsg{target: v.Title(), err: copyFn(ctx, text)}
	}
}

func (m Model) renderReportCmd(wrap, nonce int) tea.Cmd {
	md := m.opts.Report
	style := m.opts.GlamourStyle
	return func() tea.Msg {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			return renderMsg{width: wrap, rendered: md, nonce: nonce, err: err}
		}
		out, err := r.Render(md)
		if err != nil {
			return renderMsg{width: wrap, rendered: md, nonce: nonce, err: err}
		}
		return renderMsg{width: wrap, rendered: out, nonce: nonce}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		cmds = append(cmds, m.showSelected())

	case copyMsg:
		m.err = msg.err
		switch {
		case msg.err == nil:
			m.status = "Copied " + msg.target + " to clipboard"
		case errors.Is(msg.err, clipboard.ErrToolNotFound):
			m.status = "Could not copy: clipboard tool not found"
		default:
			m.status = "Could not copy: " + msg.err.Error()
		}

	case renderMsg:
		if msg.nonce != m.renderNonce {
			break
		}
		m.rendering = false
		if msg.err != nil {
			m.err = msg.err
			m.status = "Render failed: " + msg.err.Error()
		}
		m.rendered[msg.width] = msg.rendered
		if m.selected.kind == reportKind {
			m.viewport.SetContent(msg.rendered)
			m.viewport.GotoTop()
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.focusOnList = !m.focusOnList
			return m, nil
		case key.Matches(msg, m.keys.FocusLeft):
			m.focusOnList = true
			return m, nil
		case key.Matches(msg, m.keys.FocusRight):
			m.focusOnList = false
			return m, nil
		case key.Matches(msg, m.keys.PageUp):
			if !m.focusOnList {
				m.viewport.HalfViewUp()
			}
			return m, nil
		case key.Matches(msg, m.keys.PageDown):
			if !m.focusOnList {
				m.viewport.HalfViewDown()
			}
			return m, nil
		case key.Matches(msg, m.keys.Copy):
			m.status = "Copying " + m.selected.Title() + "..."
			return m, m.copyCmd()
		}

		if m.focusOnList {
			prev := m.list.Index()
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			cmds = append(cmds, cmd)
			if m.list.Index() != prev {
				if v, ok := m.list.SelectedItem().(variant); ok {
					m.selected = v
				}
				m.status = ""
				m.err = nil
				cmds = append(cmds, m.showSelected())
			}
		} else {
			switch msg.String() {
			case "up", "k":
				m.viewport.LineUp(1)
			case "down", "j":
				m.viewport.LineDown(1)
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// showSelected fills the viewport for the selected variant. The report is
// rendered asynchronously; every other variant is shown as plain text with
// private terms highlighted.
func (m *Model) showSelected() tea.Cmd {
	v := m.selected
	if v.kind == "" {
		return nil
	}
	if v.kind == reportKind {
		m.leaks = 0
		wrap := m.viewport.Width
		if rendered, ok := m.rendered[wrap]; ok {
			m.viewport.SetContent(rendered)
			m.viewport.GotoTop()
			return nil
		}
		m.viewport.SetContent("Rendering report...")
		m.renderNonce++
		m.rendering = true
		return m.renderReportCmd(wrap, m.renderNonce)
	}

	res := privacy.Audit(variantBody(v), m.opts.AuditTerms, func(s string) string {
		return leakStyle.Render(s)
	})
	m.leaks = res.Count
	m.viewport.SetContent(res.Text)
	m.viewport.GotoTop()
	return nil
}

func variantBody(v variant) string {
	if len(v.segments) == 0 {
		return v.text
	}
	var b strings.Builder
	for i, seg := range v.segments {
		if i > 0 {
			b.WriteString("\n\n")
		}
		header := fmt.Sprintf("── %d/%d · %d chars ──", i+1, len(v.segments), utf8.RuneCountInString(seg))
		b.WriteString(segmentStyle.Render(header))
		b.WriteString("\n")
		b.WriteString(seg)
	}
	return b.String()
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	left, right := m.paneWidths()

	bodyHeight := m.height - 2
	if bodyHeight < 8 {
		bodyHeight = 8
	}

	m.list.SetSize(left-2, bodyHeight-2)
	m.viewport.Width = right - 2
	m.viewport.Height = bodyHeight - 2
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Starting..."
	}

	status := m.statusLine()
	left, right := m.paneWidths()
	leftPane := panelStyle(m.focusOnList).Width(left).Height(m.height - 2).Render(m.list.View())
	rightPane := panelStyle(!m.focusOnList).Width(right).Height(m.height - 2).Render(m.viewport.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)

	return lipgloss.JoinVertical(lipgloss.Left,
		status,
		body,
		m.help.View(m.keys),
	)
}

func (m Model) statusLine() string {
	project := strings.TrimSpace(m.summary.ProjectName)
	if project == "" {
		project = "n/a"
	}
	status := fmt.Sprintf("project=%s  session=%s  ops=%d",
		shorten(project, 24),
		shorten(m.summary.SessionID, 12),
		m.summary.TotalToolCalls,
	)
	if v := m.selected; v.kind != "" && v.kind != reportKind {
		if len(v.segments) == 0 {
			status += fmt.Sprintf("  [%d chars]", utf8.RuneCountInString(v.text))
		}
		if v.overLimit() {
			status += fmt.Sprintf("  [over %d]", v.limit)
		}
	}
	if m.leaks > 0 {
		status += fmt.Sprintf("  [private terms: %d]", m.leaks)
	}
	if m.rendering {
		status += "  [rendering]"
	}
	if strings.TrimSpace(m.status) != "" {
		status += "  " + shorten(strings.TrimSpace(m.status), 80)
	}
	if m.err != nil {
		status += "  err=" + m.err.Error()
	}
	return statusStyle.Render(status)
}

func (m *Model) paneWidths() (int, int) {
	left := m.width / 3
	if left < 32 {
		left = 32
	}
	if left > m.width-32 {
		left = m.width - 32
	}
	if left < 20 {
		left = 20
	}
	right := m.width - left - 1
	if right < 20 {
		right = 20
	}
	return left, right
}

// shorten truncates s to n cells, keeping escape sequences intact.
func shorten(s string, n int) string {
	s = strings.TrimSpace(s)
	if ansi.StringWidth(s) <= n {
		return s
	}
	if n <= 3 {
		return ansi.Truncate(s, n, "")
	}
	return ansi.Truncate(s, n, "...")
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return shorten(line, 60)
}

var (
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("24")).
			Padding(0, 1)
	leakStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("16")).
			Background(lipgloss.Color("203"))
	segmentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

func panelStyle(active bool) lipgloss.Style {
	border := lipgloss.NormalBorder()
	if active {
		return lipgloss.NewStyle().
			Border(border, true).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)
	}
	return lipgloss.NewStyle().
		Border(border, true).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
}

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	FocusLeft  key.Binding
	FocusRight key.Binding
	Tab        key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Copy       key.Binding
	Quit       key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		FocusLeft: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "focus list"),
		),
		FocusRight: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "focus post"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "toggle focus"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "b"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "f"),
			key.WithHelp("pgdn", "page down"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy post"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Tab, k.PageDown, k.PageUp, k.Copy, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.FocusLeft, k.FocusRight, k.Tab},
		{k.PageDown, k.PageUp, k.Copy, k.Quit},
	}
}
