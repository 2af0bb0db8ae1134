package tui

import lipgloss "github.com/charmbracelet/lipgloss"

var (
	colorBorder lipgloss.TerminalColor = lipgloss.Color("#30363d")
	colorMuted  lipgloss.TerminalColor = lipgloss.Color("#484f58")
	colorText   lipgloss.TerminalColor = lipgloss.Color("#e6edf3")
	colorSubtle lipgloss.TerminalColor = lipgloss.Color("#8b949e")
	colorAccent lipgloss.TerminalColor = lipgloss.Color("#58a6ff")
	colorGreen  lipgloss.TerminalColor = lipgloss.Color("#3fb950")
	colorYellow lipgloss.TerminalColor = lipgloss.Color("#d29922")
	colorRed    lipgloss.TerminalColor = lipgloss.Color("#f85149")
	colorCyan   lipgloss.TerminalColor = lipgloss.Color("#56d7c2")
)

var (
	// text styles
	styleMuted      = lipgloss.NewStyle().Foreground(colorMuted)
	styleSubtle     = lipgloss.NewStyle().Foreground(colorSubtle)
	styleText       = lipgloss.NewStyle().Foreground(colorText)
	styleTextBold   = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	styleAccent     = lipgloss.NewStyle().Foreground(colorAccent)
	styleAccentBold = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleGreen      = lipgloss.NewStyle().Foreground(colorGreen)
	styleYellow     = lipgloss.NewStyle().Foreground(colorYellow)
	styleRed        = lipgloss.NewStyle().Foreground(colorRed)
	styleCyan       = lipgloss.NewStyle().Foreground(colorCyan)
	styleBorder     = lipgloss.NewStyle().Foreground(colorBorder)

	// layout styles
	styleHeaderTitle = styleAccentBold.Padding(0, 2)
	styleHeaderBar   = lipgloss.NewStyle().BorderBottom(true).BorderStyle(lipgloss.NormalBorder()).BorderBottomForeground(colorBorder)
	styleFooterBar   = lipgloss.NewStyle().BorderTop(true).BorderStyle(lipgloss.NormalBorder()).BorderTopForeground(colorBorder).Padding(0, 2)
	styleOverlay     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorRed).Padding(1, 2)
	stylePanel       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1)
)
