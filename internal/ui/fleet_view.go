package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/reclamos/internal/backend"
	"github.com/five82/reclamos/internal/dashboard"
)

// renderDrivers renders the drivers board and the unassigned complaints.
func (m Model) renderDrivers() string {
	if m.drivers == nil {
		return m.renderEmpty("Choferes no disponibles")
	}
	snap := m.drivers.Snapshot()
	if !snap.HasData() {
		if snap.LastError != nil {
			return m.renderEmpty("No se pudo cargar el tablero: " + classifyConnectionError(snap.LastError))
		}
		return m.renderEmpty("Cargando choferes...")
	}

	height := m.contentHeight()
	listWidth, sideWidth := m.splitWidths()
	rows := snap.Items

	listContent := m.renderRows(len(rows), m.selected[ViewDrivers], listWidth-2, height-2, m.theme.FocusBg,
		func(i int, selected bool, bg BgStyle) string {
			return m.formatDriverRow(rows[i], selected, bg)
		})
	listPane := m.renderTitledBox(fmt.Sprintf("Choferes (%d)", len(rows)), listContent, listWidth, height, true)

	pending := m.drivers.Unassigned()
	sideBg := m.theme.SurfaceAlt
	styles := m.theme.Styles().WithBackground(sideBg)
	bg := NewBgStyle(sideBg)
	lines := make([]string, 0, len(pending))
	for _, c := range pending {
		st := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(c.Status)))
		lines = append(lines, bg.Render(c.Status.Label(), st)+bg.Space()+
			bg.Render(truncate(c.Label(), sideWidth-16), styles.Text))
	}
	if len(lines) == 0 {
		lines = append(lines, bg.Render("Todo asignado", styles.MutedText))
	}
	sidePane := m.renderTitledBox(fmt.Sprintf("Sin asignar (%d)", len(pending)), strings.Join(lines, "\n"), sideWidth, height, false)

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, sidePane)
}

func (m Model) formatDriverRow(r dashboard.DriverRow, selected bool, bg BgStyle) string {
	text, muted, faint := m.rowStyles(selected)

	tracking := bg.Render("○ sin señal", faint)
	if r.Tracked() {
		style := m.theme.Styles().SuccessText
		if selected {
			style = text
		}
		tracking = bg.Render("● en ruta", style)
	}
	vehicle := ""
	if r.Status != nil && r.Status.Vehicle != nil {
		vehicle = r.Status.Vehicle.LicensePlate
	}
	return bg.Render(padRight(truncate(r.Name(), 24), 24), text) + bg.Space() +
		tracking + bg.Render(" · ", faint) +
		bg.Render(orDash(vehicle), muted) + bg.Render(" · ", faint) +
		bg.Render(fmt.Sprintf("%d asignados", len(r.Assigned)), muted)
}

// renderVehicles renders the fleet table.
func (m Model) renderVehicles() string {
	if m.vehicles == nil {
		return m.renderEmpty("Vehículos no disponibles")
	}
	snap := m.vehicles.Snapshot()
	if !snap.HasData() {
		if snap.LastError != nil {
			return m.renderEmpty("No se pudo cargar la flota: " + classifyConnectionError(snap.LastError))
		}
		return m.renderEmpty("Cargando vehículos...")
	}

	height := m.contentHeight()
	items := snap.Items
	content := m.renderRows(len(items), m.selected[ViewVehicles], m.width-2, height-2, m.theme.FocusBg,
		func(i int, selected bool, bg BgStyle) string {
			return m.formatVehicleRow(items[i], selected, bg)
		})
	return m.renderTitledBox(fmt.Sprintf("Vehículos (%d)", len(items)), content, m.width, height, true)
}

func (m Model) formatVehicleRow(v backend.Vehicle, selected bool, bg BgStyle) string {
	text, muted, faint := m.rowStyles(selected)
	model := strings.TrimSpace(v.Brand + " " + v.Model)
	if v.Year > 0 {
		model = fmt.Sprintf("%s %d", model, v.Year)
	}
	return bg.Render(padRight(v.LicensePlate, 10), text) + bg.Space() +
		bg.Render(padRight(truncate(model, 28), 28), text) + bg.Render(" · ", faint) +
		bg.Render(orDash(v.Type), muted) + bg.Render(" · ", faint) +
		bg.Render(orDash(v.FuelType), muted) + bg.Render(" · ", faint) +
		bg.Render(orDash(v.Status), muted)
}
