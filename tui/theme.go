package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds the semantic color palette of the dashboard.
type Theme struct {
	Base   lipgloss.Color
	Bar    lipgloss.Color
	Border lipgloss.Color
	Muted  lipgloss.Color
	Text   lipgloss.Color
	Header lipgloss.Color
	Gain   lipgloss.Color
	Loss   lipgloss.Color
}

var themes = map[string]Theme{
	"dark": {
		Base:   lipgloss.Color("#0F172A"), // slate-900
		Bar:    lipgloss.Color("#1E293B"), // slate-800
		Border: lipgloss.Color("#334155"), // slate-700
		Muted:  lipgloss.Color("#94A3B8"), // slate-400
		Text:   lipgloss.Color("#F1F5F9"), // slate-100
		Header: lipgloss.Color("#BFDBFE"), // blue-200
		Gain:   lipgloss.Color("#10B981"), // emerald-500
		Loss:   lipgloss.Color("#F87171"), // red-400
	},
	"light": {
		Base:   lipgloss.Color("#FFFFFF"),
		Bar:    lipgloss.Color("#F9FAFB"), // gray-50
		Border: lipgloss.Color("#E5E7EB"), // gray-200
		Muted:  lipgloss.Color("#6B7280"), // gray-500
		Text:   lipgloss.Color("#0F172A"), // slate-900
		Header: lipgloss.Color("#1E3A8A"), // blue-900
		Gain:   lipgloss.Color("#059669"), // emerald-600
		Loss:   lipgloss.Color("#DC2626"), // red-600
	},
}

// themeOf returns the palette of a theme name, dark when unknown.
func themeOf(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["dark"]
}

// toggleTheme returns the other theme.
func toggleTheme(name string) string {
	if name == "light" {
		return "dark"
	}
	return "light"
}

// signStyle colors a gain/loss amount: zero and gains are positive.
func (t Theme) signStyle(v float64) lipgloss.Style {
	if v < 0 {
		return lipgloss.NewStyle().Foreground(t.Loss)
	}
	return lipgloss.NewStyle().Foreground(t.Gain)
}
