package app

import "github.com/charmbracelet/lipgloss"

// Styles controls the application chrome rendering. Syntax colors live in
// the highlight package.
type Styles struct {
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	Gutter        lipgloss.Style
	LineNumActive lipgloss.Style

	Text      lipgloss.Style
	Selection lipgloss.Style
	Cursor    lipgloss.Style
	Ghost     lipgloss.Style

	StatusBar lipgloss.Style
	Status    lipgloss.Style

	PaneTitle lipgloss.Style
	Prompt    lipgloss.Style
}

func DefaultStyles() Styles {
	gutter := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	return Styles{
		TabActive:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("237")).Padding(0, 1),
		TabInactive: lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1),

		Gutter:        gutter,
		LineNumActive: lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Bold(true),

		Text:      lipgloss.NewStyle(),
		Selection: lipgloss.NewStyle().Background(lipgloss.Color("237")),
		Cursor:    lipgloss.NewStyle().Reverse(true),
		Ghost:     lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("245")),

		StatusBar: lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("250")),
		Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),

		PaneTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Prompt:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	}
}
