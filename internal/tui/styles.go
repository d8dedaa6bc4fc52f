package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the rendered styles for the active theme.
type Styles struct {
	Title    lipgloss.Style
	Help     lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Label    lipgloss.Style
	Selected lipgloss.Style
	Tag      lipgloss.Style
	Pane     lipgloss.Style
}

// NewStyles builds the style set for the given theme name ("light" or
// "dark"). Anything else falls back to dark.
func NewStyles(theme string) Styles {
	if theme == "light" {
		return Styles{
			Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("18")),
			Help:     lipgloss.NewStyle().Faint(true),
			Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
			Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
			Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("18")),
			Tag:      lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
			Pane:     lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("250")).Padding(0, 1),
		}
	}
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Help:     lipgloss.NewStyle().Faint(true),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Tag:      lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		Pane:     lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
	}
}
