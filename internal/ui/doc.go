// Package ui provides the terminal dashboard for municipal complaint
// operators.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program styled with lipgloss. Model holds only view
// state; list data lives in the dashboard screens, which poll the backend on
// their own goroutines. View reads screen snapshots on every render, so a
// redraw is all that is needed when a poll lands.
//
// # Package Structure
//
//   - app.go: Model, Update, key handling, commands, Waker and Run
//   - header.go: status bar (counters, bell, sync state) and command bar
//   - complaints_view.go: complaints list and detail pane
//   - notifications_view.go: notification list
//   - fleet_view.go: drivers board and vehicle table
//   - logs_view.go: tail of the application log file via logtail
//   - panes.go, style_helpers.go: titled boxes, row lists, background painting
//   - theme.go, keys.go, help.go: themes, key bindings, help overlay
//
// # Views
//
//   - Complaints: filtered list grouped by day, newest first, with details
//   - Notifications: status changes recorded by this operator, unread first marker
//   - Drivers: tracking status, vehicle and open assignments per driver
//   - Vehicles: fleet table
//   - Logs: application log filtered by minimum level
//
// # Event Flow
//
//  1. Run creates the program, attaches the Waker and subscribes to the
//     notification store.
//  2. Screen callbacks call Waker.Wake, which sends a redraw message.
//  3. Store listeners forward each notification snapshot with Program.Send.
//  4. Actions (status changes, refresh, mark read) run as tea.Cmd so that
//     store listeners never send into a busy event loop.
//  5. Context cancellation or q stops the program; Run unsubscribes and
//     detaches before returning.
//
// # Key Bindings
//
//   - 1-4: set the selected complaint to Urgente/En espera/En proceso/Listo
//   - f/s/t: cycle status, sector and task type filters; D: today only; 0: clear
//   - r: refresh the current view now
//   - c/n/d/v/l, tab: switch views; esc: back to complaints
//   - m/M/x: mark read, mark all read, clear notifications
//   - L: cycle minimum log level
//   - T: cycle theme; h/?: help; q or Ctrl+C: quit
//
// Theme, status filter and sector filter are saved to the prefs file.
package ui
