package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Escape     key.Binding
	Refresh    key.Binding

	// View switching
	ViewComplaints    key.Binding
	ViewNotifications key.Binding
	ViewDrivers       key.Binding
	ViewVehicles      key.Binding
	ViewLogs          key.Binding

	// Complaint actions
	Open          key.Binding
	SetUrgent     key.Binding
	SetWaiting    key.Binding
	SetInProgress key.Binding
	SetDone       key.Binding
	CycleStatus   key.Binding
	CycleSector   key.Binding
	CycleTaskType key.Binding
	ToggleToday   key.Binding
	ClearFilters  key.Binding

	// Notifications
	MarkRead    key.Binding
	MarkAllRead key.Binding
	ClearAll    key.Binding

	// Logs
	CycleLevel key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Salir"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Ayuda"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cambiar tema"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Siguiente vista"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Vista anterior"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Volver a reclamos"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Actualizar ahora"),
		),

		ViewComplaints: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Reclamos"),
		),
		ViewNotifications: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Notificaciones"),
		),
		ViewDrivers: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Choferes"),
		),
		ViewVehicles: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "Vehículos"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Registro"),
		),

		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Ver detalle"),
		),
		SetUrgent: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Urgente"),
		),
		SetWaiting: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "En espera"),
		),
		SetInProgress: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "En proceso"),
		),
		SetDone: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Listo"),
		),
		CycleStatus: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Filtrar estado"),
		),
		CycleSector: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Filtrar sector"),
		),
		CycleTaskType: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Filtrar tipo"),
		),
		ToggleToday: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "Solo hoy"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "Quitar filtros"),
		),

		MarkRead: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Marcar leída"),
		),
		MarkAllRead: key.NewBinding(
			key.WithKeys("M"),
			key.WithHelp("M", "Marcar todas"),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Borrar todas"),
		),

		CycleLevel: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Nivel mínimo"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "Subir"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "Bajar"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Inicio"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Final"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings grouped for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ViewComplaints, k.ViewNotifications, k.ViewDrivers, k.ViewVehicles, k.ViewLogs, k.Escape},
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Open, k.SetUrgent, k.SetWaiting, k.SetInProgress, k.SetDone, k.Refresh},
		{k.CycleStatus, k.CycleSector, k.CycleTaskType, k.ToggleToday, k.ClearFilters},
		{k.MarkRead, k.MarkAllRead, k.ClearAll},
		{k.CycleLevel},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
