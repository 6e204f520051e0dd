package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/reclamos/internal/logtail"
)

var logLevels = []string{"debug", "info", "warning", "error"}

type logsMsg struct {
	entries []logtail.Entry
	err     error
}

// loadLogsCmd reads the tail of the log file off the event loop.
func loadLogsCmd(path, level string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logsMsg{}
		}
		lines, err := logtail.Read(path, LogBufferLimit)
		if err != nil {
			return logsMsg{err: err}
		}
		return logsMsg{entries: logtail.AtLeast(logtail.ParseLines(lines), level)}
	}
}

func nextLogLevel(current string) string {
	for i, l := range logLevels {
		if l == current {
			return logLevels[(i+1)%len(logLevels)]
		}
	}
	return logLevels[0]
}

func (m *Model) handleLogs(msg logsMsg) {
	m.logErr = msg.err
	if msg.err != nil {
		return
	}
	follow := m.logViewport.AtBottom() || m.logEntries == 0
	m.logEntries = len(msg.entries)

	lines := make([]string, len(msg.entries))
	for i, e := range msg.entries {
		lines[i] = m.formatLogEntry(e)
	}
	m.logViewport.SetContent(strings.Join(lines, "\n"))
	if follow {
		m.logViewport.GotoBottom()
	}
}

func (m Model) formatLogEntry(e logtail.Entry) string {
	styles := m.theme.Styles()
	if e.Level == "" {
		return styles.FaintText.Render(e.Raw)
	}

	levelStyle := styles.MutedText
	switch e.Level {
	case "warning", "warn":
		levelStyle = styles.WarningText
	case "error", "fatal", "panic":
		levelStyle = styles.DangerText
	case "info":
		levelStyle = styles.InfoText
	}

	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(styles.FaintText.Render(e.Time.Format("15:04:05")))
		b.WriteString(" ")
	}
	b.WriteString(levelStyle.Render(fmt.Sprintf("%-7s", strings.ToUpper(e.Level))))
	b.WriteString(" ")
	b.WriteString(styles.Text.Render(e.Message))
	if fields := e.FieldSummary(); fields != "" {
		b.WriteString(" ")
		b.WriteString(styles.MutedText.Render(fields))
	}
	if e.Error != "" {
		b.WriteString(" ")
		b.WriteString(styles.DangerText.Render("error=" + e.Error))
	}
	return b.String()
}

// renderLogs renders the log viewport.
func (m Model) renderLogs() string {
	if m.logPath == "" {
		return m.renderEmpty("Registro desactivado (log_file vacío)")
	}
	height := m.contentHeight()

	content := m.logViewport.View()
	switch {
	case m.logErr != nil:
		content = m.theme.Styles().DangerText.Render("No se pudo leer el registro: " + m.logErr.Error())
	case m.logEntries == 0:
		content = m.theme.Styles().MutedText.Render("Sin entradas")
	}

	title := fmt.Sprintf("Registro %s (≥ %s, %d)", truncateMiddle(m.logPath, 40), m.logLevel, m.logEntries)
	box := m.renderTitledBox(title, content, m.width, height, true)
	return lipgloss.NewStyle().MaxWidth(m.width).Render(box)
}
