package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BgStyle paints every segment of a line, spaces included, on one
// background. Without it the ANSI resets between lipgloss segments leave gaps.
type BgStyle struct {
	fill  lipgloss.Style
	space string
}

// NewBgStyle returns a BgStyle for the hex color bgColor.
func NewBgStyle(bgColor string) BgStyle {
	fill := lipgloss.NewStyle().Background(lipgloss.Color(bgColor))
	return BgStyle{fill: fill, space: fill.Render(" ")}
}

// Render draws text in style on the background. Each word is rendered
// separately so the spaces between them keep the fill.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	painted := style.Background(b.fill.GetBackground())
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" {
			words[i] = painted.Render(w)
		}
	}
	return strings.Join(words, b.space)
}

// Space returns one filled space.
func (b BgStyle) Space() string { return b.space }

// Spaces returns n filled spaces.
func (b BgStyle) Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return b.fill.Render(strings.Repeat(" ", n))
}

// Join joins parts with a filled separator.
func (b BgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, b.fill.Render(sep))
}
