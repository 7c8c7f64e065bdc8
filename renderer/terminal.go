package renderer

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/glamour"
)

// Themes lists the terminal and page themes.
var Themes = []string{"dark", "light"}

// RenderTerminal renders markdown for a terminal with the dark or light
// glamour style, wrapping at width columns. A width of 0 disables wrapping.
func RenderTerminal(md, theme string, width int) (string, error) {
	if !slices.Contains(Themes, theme) {
		return "", fmt.Errorf("unknown theme %q, want one of %v", theme, Themes)
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(theme),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}
	return r.Render(md)
}
