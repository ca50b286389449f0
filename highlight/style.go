package highlight

import "github.com/charmbracelet/lipgloss"

// Styles maps categories to terminal styles.
type Styles map[Category]lipgloss.Style

// DefaultStyles returns the editor's stock color scheme.
func DefaultStyles() Styles {
	return Styles{
		Comment:  lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Italic(true),
		String:   lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		Keyword:  lipgloss.NewStyle().Foreground(lipgloss.Color("176")).Bold(true),
		Number:   lipgloss.NewStyle().Foreground(lipgloss.Color("173")),
		FuncName: lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
	}
}

// For returns the style for cat, or the zero style when unset.
func (s Styles) For(cat Category) lipgloss.Style {
	if st, ok := s[cat]; ok {
		return st
	}
	return lipgloss.NewStyle()
}
