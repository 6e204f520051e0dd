package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/reclamos/internal/backend"
)

// renderComplaints renders the complaints list and the selected complaint.
func (m Model) renderComplaints() string {
	if m.complaints == nil {
		return m.renderEmpty("Reclamos no disponibles")
	}
	snap := m.complaints.Snapshot()
	if !snap.HasData() {
		if snap.LastError != nil {
			return m.renderEmpty("No se pudieron cargar los reclamos: " + classifyConnectionError(snap.LastError))
		}
		return m.renderEmpty("Cargando reclamos...")
	}

	height := m.contentHeight()
	listWidth, detailWidth := m.splitWidths()
	rows := m.complaintRows()

	listContent := m.renderRows(len(rows), m.selected[ViewComplaints], listWidth-2, height-2, m.theme.FocusBg,
		func(i int, selected bool, bg BgStyle) string {
			return m.formatComplaintRow(rows[i], listWidth-2, selected, bg)
		})
	if len(rows) == 0 {
		listContent = m.theme.Styles().MutedText.Background(lipgloss.Color(m.theme.FocusBg)).Render("Ningún reclamo coincide con los filtros")
	}
	listPane := m.renderTitledBox(m.complaintsTitle(len(rows), len(snap.Items)), listContent, listWidth, height, true)

	detailBg := m.theme.SurfaceAlt
	var detailContent string
	if c, ok := m.selectedComplaint(); ok {
		if m.detail.ID == c.ID {
			c.Observations = m.detail.Observations
			if c.Task == nil {
				c.Task = m.detail.Task
			}
		}
		detailContent = m.renderComplaintDetail(c, detailWidth-4, detailBg)
	} else {
		detailContent = m.theme.Styles().MutedText.Background(lipgloss.Color(detailBg)).Render("Seleccioná un reclamo")
	}
	detailPane := m.renderTitledBox("Detalle", detailContent, detailWidth, height, false)

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// formatComplaintRow renders "16/10 Address · Sector  STATUS".
func (m Model) formatComplaintRow(c backend.Complaint, width int, selected bool, bg BgStyle) string {
	text, muted, faint := m.rowStyles(selected)

	day := "--/--"
	if t := c.ParsedCreatedAt(); !t.IsZero() {
		day = t.Local().Format("02/01")
	}
	badge := c.Status.Label()
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(c.Status)))
	if selected {
		statusStyle = text
	}
	marker := " "
	if c.AssignedDriverID != "" {
		marker = "⛟"
	}

	sector := truncate(c.Sector, 12)
	titleWidth := max(width-len(day)-lipgloss.Width(badge)-len([]rune(sector))-9, 8)

	return bg.Render(day, faint) + bg.Space() +
		bg.Render(truncate(c.Label(), titleWidth), text) +
		bg.Render(" · ", faint) +
		bg.Render(orDash(sector), muted) + bg.Space() +
		bg.Render(marker, muted) + bg.Space() +
		bg.Render(badge, statusStyle)
}

func (m Model) complaintsTitle(visible, total int) string {
	f := m.complaints.Filter()
	if f.IsZero() {
		return fmt.Sprintf("Reclamos (%d)", total)
	}
	var parts []string
	if f.Status != "" {
		parts = append(parts, f.Status.Label())
	}
	if f.Sector != "" {
		parts = append(parts, f.Sector)
	}
	if f.TaskType != "" {
		parts = append(parts, f.TaskType)
	}
	if !f.Day.IsZero() {
		parts = append(parts, f.Day.Format("02/01"))
	}
	return fmt.Sprintf("Reclamos (%d/%d) %s", visible, total, strings.Join(parts, ", "))
}

// renderComplaintDetail renders the labeled fields of one complaint.
func (m Model) renderComplaintDetail(c backend.Complaint, width int, bgColor string) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)

	field := func(label, value string) string {
		return bg.Render(padRight(label, 12), styles.MutedText) + bg.Render(truncate(orDash(value), max(width-12, 8)), styles.Text)
	}

	driver := c.AssignedDriverID
	if c.AssignedDriver != nil && c.AssignedDriver.FirstName != "" {
		driver = c.AssignedDriver.FirstName
	}
	task := ""
	if c.Task != nil {
		task = c.Task.Status
	}
	created := ""
	if t := c.ParsedCreatedAt(); !t.IsZero() {
		created = t.Local().Format("02/01/2006 15:04")
	}

	lines := []string{
		bg.Render(c.Status.Label(), m.theme.Styles().StatusStyle(c.Status)) + bg.Space() +
			bg.Render(c.ID, styles.FaintText),
		"",
		field("Dirección", c.Address),
		field("Vecino", c.CitizenName),
		field("DNI", c.CitizenDNI),
		field("Contacto", c.ContactInfo),
		field("Sector", c.Sector),
		field("Tipo", c.TaskType),
		field("Área", c.Area),
		field("Chofer", driver),
		field("Tarea", task),
		field("Creado", created),
		"",
		bg.Render("Descripción", styles.AccentText),
	}
	for _, line := range wrap(c.Description, width) {
		lines = append(lines, bg.Render(line, styles.Text))
	}

	if len(c.Observations) > 0 {
		lines = append(lines, "", bg.Render(fmt.Sprintf("Observaciones (%d)", len(c.Observations)), styles.AccentText))
		start := max(len(c.Observations)-3, 0)
		for _, o := range c.Observations[start:] {
			lines = append(lines, bg.Render("• "+truncate(o.Observation, width-2), styles.Text))
		}
	}
	return strings.Join(lines, "\n")
}

// wrap breaks text into lines of at most width runes on word boundaries.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 || width <= 0 {
		return nil
	}
	var (
		lines []string
		line  string
	)
	for _, w := range words {
		switch {
		case line == "":
			line = w
		case len([]rune(line))+1+len([]rune(w)) <= width:
			line += " " + w
		default:
			lines = append(lines, line)
			line = w
		}
	}
	return append(lines, line)
}
