package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// rowFunc renders row i. selected rows must use SelectionText for contrast.
type rowFunc func(i int, selected bool, bg BgStyle) string

// renderRows renders up to height rows, scrolled so the selection stays in
// view.
func (m Model) renderRows(count, selected, width, height int, bgColor string, row rowFunc) string {
	if count == 0 || height <= 0 {
		return ""
	}
	start := 0
	if selected >= height {
		start = selected - height + 1
	}
	end := min(start+height, count)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		isSel := i == selected
		rowBg := bgColor
		if isSel {
			rowBg = m.theme.SelectionBg
		}
		content := row(i, isSel, NewBgStyle(rowBg))
		lines = append(lines, lipgloss.NewStyle().
			Background(lipgloss.Color(rowBg)).
			Width(width).
			MaxWidth(width).
			Render(content))
	}
	return strings.Join(lines, "\n")
}

// rowStyles returns the text styles for a row, flattened to the selection
// color when selected.
func (m Model) rowStyles(selected bool) (text, muted, faint lipgloss.Style) {
	if selected {
		sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		return sel, sel, sel
	}
	styles := m.theme.Styles()
	return styles.Text, styles.MutedText, styles.FaintText
}

// renderEmpty centers a muted message in the content area.
func (m Model) renderEmpty(message string) string {
	styles := m.theme.Styles()
	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center,
		styles.MutedText.Render(message))
}

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐. Focused boxes use the focus colors.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColorStr, bgColorStr := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColorStr, bgColorStr = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 1))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColorStr))
	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	padded := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		padded = append(padded,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(padded, "\n") + "\n" + bottomBorder
}

// splitWidths divides the terminal between a list and a detail pane.
func (m Model) splitWidths() (list, detail int) {
	if m.width >= LayoutExtraWideWidth {
		list = m.width * 45 / 100
	} else {
		list = m.width * 55 / 100
	}
	return list, m.width - list
}
