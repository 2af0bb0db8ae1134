// Package tui renders a VersionsView in the terminal: one versions listing
// with expand/collapse rows, a demote overlay, and a toggleable log panel.
package tui

import (
	"fmt"
	"strings"

	bubbles_viewport "github.com/charmbracelet/bubbles/viewport"
	bubble_tea "github.com/charmbracelet/bubbletea"
	lipgloss "github.com/charmbracelet/lipgloss"

	"github.com/pkgdepot/depot-tui/depot"
	"github.com/pkgdepot/depot-tui/view"
)

const (
	logPanelLines       = 6
	logPanelOuterHeight = logPanelLines + 4 // border(2) + title(1) + divider(1)
	maxLayoutWidth      = 160
)

// layoutWidth returns the effective width for the content area, capped so the
// listing stays readable on ultra-wide terminals.
func (m *Model) layoutWidth() int {
	const minLayoutWidth = 80
	if m.width < minLayoutWidth {
		return minLayoutWidth
	}
	if m.width > maxLayoutWidth {
		return maxLayoutWidth
	}
	return m.width
}

// Messages delivered from outside the event loop.

// LogLineMsg appends one line to the log panel.
type LogLineMsg struct {
	Line string
}

// TitleMsg carries a page title from the view's TitleSetter.
type TitleMsg struct {
	Title string
}

// RouteMsg carries a navigation issued through the view's Router.
type RouteMsg struct {
	Path []string
}

// StoreChangedMsg signals that the store state moved and the listing should
// be rebuilt.
type StoreChangedMsg struct{}

// row is one rendered line target: either a version row or an expanded
// release row beneath the selected version.
type row struct {
	version *depot.Version
	pkg     *depot.Package
}

type demotePrompt struct {
	active   bool
	pkg      *depot.Package
	channels []string
	cursor   int
}

func (d *demotePrompt) selectedChannel() string {
	if d.cursor < len(d.channels) {
		return d.channels[d.cursor]
	}
	return ""
}

type Model struct {
	width  int
	height int

	view  *view.VersionsView
	title string

	rows   []row
	cursor int
	offset int

	demote demotePrompt

	logLines []string
	logView  bubbles_viewport.Model
	showLogs bool

	statusLine  string
	statusIsErr bool
}

func NewModel(v *view.VersionsView, initialTitle string, initialLogLines []string) Model {
	lv := bubbles_viewport.New(80, logPanelLines)
	m := Model{
		view:     v,
		title:    initialTitle,
		logLines: initialLogLines,
		logView:  lv,
	}
	m.rebuildRows()
	return m
}

func (m Model) Init() bubble_tea.Cmd {
	if m.title != "" {
		return bubble_tea.SetWindowTitle(m.title)
	}
	return nil
}

// rebuildRows projects the view into renderable rows: every version, plus the
// releases of the expanded version directly beneath it.
func (m *Model) rebuildRows() {
	m.rows = m.rows[:0]
	for _, ver := range m.view.Versions() {
		m.rows = append(m.rows, row{version: ver})
		if ver == m.view.Selected() {
			for _, pkg := range m.view.PackagesFor(ver) {
				m.rows = append(m.rows, row{pkg: pkg})
			}
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.clampOffset()
}

func (m *Model) listHeight() int {
	h := m.height - 6 // header + footer + panel chrome
	if m.showLogs {
		h -= logPanelOuterHeight
	}
	if h < 3 {
		h = 3
	}
	return h
}

func (m *Model) clampOffset() {
	visible := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m Model) Update(msg bubble_tea.Msg) (bubble_tea.Model, bubble_tea.Cmd) {
	var cmds []bubble_tea.Cmd

	switch msg := msg.(type) {

	case bubble_tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logView.Width = m.layoutWidth() - 6
		m.logView.Height = logPanelLines
		m.clampOffset()

	case TitleMsg:
		m.title = msg.Title
		cmds = append(cmds, bubble_tea.SetWindowTitle(msg.Title))

	case RouteMsg:
		m.setStatus("→ /"+strings.Join(msg.Path, "/"), false)

	case StoreChangedMsg:
		m.rebuildRows()

	case LogLineMsg:
		m.logLines = append(m.logLines, msg.Line)
		m.updateLogView()

	case bubble_tea.KeyMsg:
		if m.demote.active {
			m.handleDemoteKey(msg)
			return m, bubble_tea.Batch(cmds...)
		}
		cmds = append(cmds, m.handleKey(msg))
	}

	return m, bubble_tea.Batch(cmds...)
}

func (m *Model) setStatus(text string, isErr bool) {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	maxW := m.layoutWidth() - 6
	if lipgloss.Width(text) > maxW && maxW > 3 {
		text = cutRunes(text, maxW-3) + "..."
	}
	m.statusLine = text
	m.statusIsErr = isErr
}

func (m *Model) currentRow() *row {
	if m.cursor < len(m.rows) {
		return &m.rows[m.cursor]
	}
	return nil
}

func (m *Model) handleKey(msg bubble_tea.KeyMsg) bubble_tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return bubble_tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.clampOffset()
		}

	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.clampOffset()
		}

	case "g":
		m.cursor = 0
		m.clampOffset()

	case "G":
		if len(m.rows) > 0 {
			m.cursor = len(m.rows) - 1
			m.clampOffset()
		}

	case "enter", " ":
		if r := m.currentRow(); r != nil {
			if r.version != nil {
				m.view.Toggle(r.version)
				m.rebuildRows()
			} else if r.pkg != nil {
				m.view.NavigateTo(r.pkg)
			}
		}

	case "d":
		if r := m.currentRow(); r != nil && r.pkg != nil {
			if len(r.pkg.Channels) == 0 {
				m.setStatus("▲ Release is not in any channel", true)
				break
			}
			if !m.view.MemberOfOrigin() {
				m.setStatus("▲ Not a member of origin "+r.pkg.Origin, true)
				break
			}
			channels := make([]string, len(r.pkg.Channels))
			copy(channels, r.pkg.Channels)
			m.demote = demotePrompt{active: true, pkg: r.pkg, channels: channels}
			m.statusLine = ""
		}

	case "o":
		if r := m.currentRow(); r != nil && r.pkg != nil {
			m.view.NavigateTo(r.pkg)
		}

	case "l":
		m.showLogs = !m.showLogs
		if m.showLogs {
			m.updateLogView()
		}
		m.clampOffset()
	}
	return nil
}

func (m *Model) handleDemoteKey(msg bubble_tea.KeyMsg) {
	switch msg.String() {
	case "esc", "n", "q":
		m.demote = demotePrompt{}
	case "up", "k":
		if m.demote.cursor > 0 {
			m.demote.cursor--
		}
	case "down", "j":
		if m.demote.cursor < len(m.demote.channels)-1 {
			m.demote.cursor++
		}
	case "enter", "y":
		pkg := m.demote.pkg
		channel := m.demote.selectedChannel()
		m.demote = demotePrompt{}
		if pkg != nil && channel != "" {
			m.view.HandleDemote(pkg, channel)
			m.rebuildRows()
			m.setStatus(fmt.Sprintf("✓ Demoted %s from %s", m.view.PackageString(pkg), channel), false)
		}
	}
}

// toggleGlyph maps the view's indicator names onto listing glyphs.
func toggleGlyph(name string) string {
	if name == view.IconExpanded {
		return "▾"
	}
	return "▸"
}

// cutRunes keeps at most n leading runes, never splitting a multibyte
// sequence. Wide runes mean n runes may still exceed n cells; callers here
// only need an upper bound, not exact cell fitting.
func cutRunes(s string, n int) string {
	r := []rune(s)
	if n > len(r) {
		n = len(r)
	}
	if n < 0 {
		n = 0
	}
	return string(r[:n])
}

func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= w {
		return s
	}
	if w <= 1 {
		return "…"
	}
	return cutRunes(s, w-1) + "…"
}

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	footer := m.renderFooter()

	if m.demote.active {
		overlay := m.renderDemoteOverlay()
		overlayLines := strings.Split(overlay, "\n")
		// The footer can be taller than the whole terminal; never trim to a
		// negative count.
		maxLines := m.height - lipgloss.Height(footer)
		if maxLines < 0 {
			maxLines = 0
		}
		if len(overlayLines) > maxLines {
			overlayLines = overlayLines[:maxLines]
		}
		return strings.Join(overlayLines, "\n") + "\n" + footer
	}

	parts := []string{m.renderHeader(), m.renderVersionsPanel()}
	if m.showLogs {
		parts = append(parts, m.renderLogPanel())
	}
	parts = append(parts, footer)
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	if m.width > m.layoutWidth() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Top, content)
	}
	return content
}

func (m Model) renderHeader() string {
	title := styleHeaderTitle.Render("◈ Depot Console")
	ident := m.view.Ident()
	subtitle := styleSubtle.Render(depot.PackageString(&depot.Package{Origin: ident.Origin, Name: ident.Name}))

	return styleHeaderBar.
		Width(m.layoutWidth()).
		Render(lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", subtitle))
}

func (m Model) renderVersionsPanel() string {
	w := m.layoutWidth()
	innerW := w - 4 // border + padding
	visibleH := m.listHeight()

	var lines []string
	lines = append(lines, styleAccentBold.Render("Versions"))
	lines = append(lines, styleBorder.Render(strings.Repeat("─", innerW)))

	if len(m.rows) == 0 {
		lines = append(lines, styleMuted.Render("No versions for this package."))
	}

	end := m.offset + visibleH
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderRow(m.rows[i], i == m.cursor, innerW))
	}

	return stylePanel.Width(w).Render(strings.Join(lines, "\n"))
}

func (m Model) renderRow(r row, selected bool, innerW int) string {
	if r.version != nil {
		glyph := toggleGlyph(m.view.ToggleFor(r.version))
		label := fmt.Sprintf("%s %-16s", glyph, r.version.Version)
		rest := truncate(strings.Join(m.view.PlatformsFor(r.version), ", "), innerW-lipgloss.Width(label))

		if selected {
			return styleAccentBold.Render(label) + styleSubtle.Render(rest)
		}
		return styleText.Render(label) + styleMuted.Render(rest)
	}

	pkg := r.pkg
	label := fmt.Sprintf("   %-16s", pkg.Release)
	date := m.view.ReleaseToDate(pkg.Release)
	osIcon := m.view.OSIconFor(pkg)

	used := lipgloss.Width(label) + lipgloss.Width(date) + lipgloss.Width(osIcon) + 8
	channels := make([]string, 0, len(pkg.Channels))
	for _, c := range pkg.Channels {
		if used+lipgloss.Width(c)+1 > innerW {
			break
		}
		used += lipgloss.Width(c) + 1
		if c == "stable" {
			channels = append(channels, styleGreen.Render(c))
		} else {
			channels = append(channels, styleYellow.Render(c))
		}
	}

	mark := " "
	if m.view.Promotable(pkg) {
		mark = styleGreen.Render("⬆")
	}

	labelStyle := styleText
	if selected {
		labelStyle = styleTextBold
	}
	return labelStyle.Render(label) + styleSubtle.Render(date) + "  " +
		styleCyan.Render(osIcon) + "  " + strings.Join(channels, " ") + " " + mark
}

func (m Model) renderDemoteOverlay() string {
	pkg := m.demote.pkg

	var lines []string
	lines = append(lines, styleTextBold.Render("Demote "+m.view.PackageString(pkg)))
	lines = append(lines, styleBorder.Render(strings.Repeat("─", 40)))
	lines = append(lines, styleSubtle.Render("Remove this release from which channel?"))
	lines = append(lines, "")
	for i, c := range m.demote.channels {
		cursor := "  "
		s := styleText
		if i == m.demote.cursor {
			cursor = "> "
			s = styleRed
		}
		lines = append(lines, cursor+s.Render(c))
	}
	lines = append(lines, "")
	lines = append(lines, styleMuted.Render("enter demote · esc cancel"))

	box := styleOverlay.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.layoutWidth(), m.height-3, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) updateLogView() {
	m.logView.SetContent(strings.Join(m.logLines, "\n"))
	m.logView.GotoBottom()
}

func (m Model) renderLogPanel() string {
	title := styleAccentBold.Render("Logs")
	div := styleBorder.Render(strings.Repeat("─", m.layoutWidth()-6))
	content := lipgloss.JoinVertical(lipgloss.Left, title, div, m.logView.View())
	return stylePanel.Width(m.layoutWidth()).Render(content)
}

func (m Model) renderFooter() string {
	type pair struct{ k, v string }
	keys := []pair{
		{"↑/↓", "move"},
		{"enter", "expand/open"},
		{"d", "demote"},
		{"o", "open"},
		{"l", "logs"},
		{"q", "quit"},
	}

	entries := make([]string, 0, len(keys))
	for _, p := range keys {
		entries = append(entries, styleAccentBold.Render(p.k)+" "+styleSubtle.Render(p.v))
	}
	keybinds := strings.Join(entries, "  ·  ")

	statusStr := " "
	if m.statusLine != "" {
		s := styleGreen
		if m.statusIsErr {
			s = styleRed
		}
		statusStr = s.Render(m.statusLine)
	}

	return styleFooterBar.
		Width(m.layoutWidth()).
		Render(keybinds + "\n" + statusStr)
}
