package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/reclamos/internal/status"
)

// renderHeader renders the status bar: logo, operator, counters, bell and
// either the latest notice or the sync state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	sep := bg.Spaces(2)

	parts := []string{bg.Render("reclamos", styles.Logo)}
	if m.operator != "" && !compact {
		parts = append(parts, bg.Render(m.operator, styles.MutedText))
	}

	if m.complaints != nil {
		stats := m.complaints.Stats()
		parts = append(parts, bg.Render("Total:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", stats.Total), styles.Text))
		counts := []struct {
			st status.Status
			n  int
		}{
			{status.Urgent, stats.Urgent},
			{status.Waiting, stats.Waiting},
			{status.InProgress, stats.InProgress},
			{status.Done, stats.Done},
		}
		for _, c := range counts {
			if c.n == 0 && compact {
				continue
			}
			label := c.st.Label()
			if compact {
				label = shortLabel(c.st)
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(c.st)))
			parts = append(parts, bg.Render(fmt.Sprintf("%s %d", label, c.n), style))
		}
	}

	bell := fmt.Sprintf("🔔 %d", m.unread)
	if m.unread > 0 {
		parts = append(parts, bg.Render(bell, styles.WarningText.Bold(true)))
	} else {
		parts = append(parts, bg.Render(bell, styles.FaintText))
	}

	if state := m.syncState(styles, bg); state != "" {
		parts = append(parts, state)
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
}

// syncState describes the active screen's poll state, or the pending notice.
func (m Model) syncState(styles Styles, bg BgStyle) string {
	if m.notice.text != "" {
		if m.notice.err {
			return bg.Render(truncate(m.notice.text, 60), styles.DangerText)
		}
		return bg.Render(truncate(m.notice.text, 60), styles.SuccessText)
	}

	var (
		loading  bool
		lastErr  error
		offline  bool
		updated  time.Time
		hasState bool
	)
	switch m.view {
	case ViewComplaints, ViewNotifications:
		if m.complaints != nil {
			snap := m.complaints.Snapshot()
			loading, lastErr, offline, updated, hasState = snap.Loading, snap.LastError, snap.IsOffline(), snap.LastSyncedAt, true
		}
	case ViewDrivers:
		if m.drivers != nil {
			snap := m.drivers.Snapshot()
			loading, lastErr, offline, updated, hasState = snap.Loading, snap.LastError, snap.IsOffline(), snap.LastSyncedAt, true
		}
	case ViewVehicles:
		if m.vehicles != nil {
			snap := m.vehicles.Snapshot()
			loading, lastErr, offline, updated, hasState = snap.Loading, snap.LastError, snap.IsOffline(), snap.LastSyncedAt, true
		}
	}
	if !hasState {
		return ""
	}

	switch {
	case loading:
		return bg.Render("Cargando...", styles.WarningText.Bold(true))
	case offline:
		return bg.Render("SIN CONEXIÓN", styles.DangerText) + bg.Space() +
			bg.Render(classifyConnectionError(lastErr), styles.MutedText)
	case lastErr != nil:
		return bg.Render(classifyConnectionError(lastErr), styles.WarningText)
	case !updated.IsZero():
		return bg.Render("Actualizado "+updated.Format("15:04:05"), styles.FaintText)
	}
	return ""
}

func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "SERVIDOR CAÍDO"
	case strings.Contains(msg, "no such host"):
		return "HOST DESCONOCIDO"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIEMPO AGOTADO"
	case strings.Contains(msg, "401"), strings.Contains(msg, "unauthorized"):
		return "SESIÓN VENCIDA"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.view {
	case ViewComplaints:
		commands = []cmd{
			{"1-4", "Estado"},
			{"f", "Estado " + m.filterLabel()},
			{"s", "Sector"},
			{"t", "Tipo"},
			{"D", "Hoy"},
			{"r", "Actualizar"},
		}
	case ViewNotifications:
		commands = []cmd{{"m", "Leída"}, {"M", "Todas"}, {"x", "Borrar"}}
	case ViewLogs:
		commands = []cmd{{"L", "Nivel " + m.logLevel}, {"j/k", "Desplazar"}, {"r", "Recargar"}}
	default:
		commands = []cmd{{"r", "Actualizar"}}
	}
	commands = append(commands,
		cmd{"tab", m.view.Title()},
		cmd{"n", "Notif."},
		cmd{"T", "Tema"},
		cmd{"?", "Ayuda"},
		cmd{"q", "Salir"},
	)

	parts := make([]string, 0, len(commands))
	for _, c := range commands {
		parts = append(parts, bg.Render(c.key, styles.AccentText)+bg.Space()+bg.Render(c.desc, styles.MutedText))
	}
	return styles.Footer.Width(m.width).Render(bg.Join(parts, "  "))
}

func (m Model) filterLabel() string {
	if m.complaints == nil {
		return "todos"
	}
	if st := m.complaints.Filter().Status; st != "" {
		return st.Label()
	}
	return "todos"
}

func shortLabel(st status.Status) string {
	switch st {
	case status.Urgent:
		return "URG"
	case status.Waiting:
		return "ESP"
	case status.InProgress:
		return "PRO"
	case status.Done:
		return "LIS"
	default:
		return truncate(string(st), 3)
	}
}
