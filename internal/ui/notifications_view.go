package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// renderNotifications renders the event list, newest first.
func (m Model) renderNotifications() string {
	if m.events == nil {
		return m.renderEmpty("Notificaciones no disponibles")
	}
	if len(m.inbox) == 0 {
		return m.renderEmpty("Sin notificaciones")
	}

	height := m.contentHeight()
	width := m.width
	content := m.renderRows(len(m.inbox), m.selected[ViewNotifications], width-2, height-2, m.theme.FocusBg,
		func(i int, selected bool, bg BgStyle) string {
			ev := m.inbox[i]
			text, muted, faint := m.rowStyles(selected)

			dot := bg.Render("○", faint)
			if !ev.Read {
				dotStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Warning))
				if selected {
					dotStyle = text
				}
				dot = bg.Render("●", dotStyle)
			}
			summaryStyle := text
			if ev.Read && !selected {
				summaryStyle = muted
			}
			when := ev.OccurredAt.Local().Format("15:04:05")
			return dot + bg.Space() +
				bg.Render(when, faint) + bg.Space() +
				bg.Render(truncate(ev.Summary(), max(width-len(when)-len(ev.Actor)-12, 10)), summaryStyle) +
				bg.Render(" · ", faint) +
				bg.Render(ev.Actor, muted)
		})

	title := fmt.Sprintf("Notificaciones (%d sin leer de %d)", m.unread, len(m.inbox))
	return m.renderTitledBox(title, content, width, height, true)
}
