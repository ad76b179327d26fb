package tui

import "github.com/charmbracelet/lipgloss"

var (
	cyan  = lipgloss.Color("#22d3ee")
	slate = lipgloss.Color("#64748b")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#f1f5f9")).
			Padding(0, 1)

	onlineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10b981"))

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cyan).
			Underline(true).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(slate).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#1d4ed8")).
			Padding(0, 1)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(cyan).
				Bold(true)

	chartLabelStyle = lipgloss.NewStyle().Foreground(slate)
	chartBarStyle   = lipgloss.NewStyle().Foreground(cyan)
	footerStyle     = lipgloss.NewStyle().Foreground(slate).Italic(true)

	chipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cbd5e1")).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#334155")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().Foreground(slate)
)
