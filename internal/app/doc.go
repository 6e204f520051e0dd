// Package app is the composition root for reclamos.
//
// # Overview
//
// Setup reads the config, opens the log file and builds the backend client.
// Both the TUI and the one-shot subcommands start from the returned Env so
// they share the same logger and API address.
//
// # Startup
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> Setup()              config, logging, backend client
//	       ├─────> Authenticate()       stored session -> bearer token
//	       ├─────> metrics.Serve()      optional /metrics listener
//	       ├─────> notify.NewStore()    in-memory notification inbox
//	       ├─────> dashboard screens    complaints, drivers, vehicles
//	       └─────> ui.Run()             blocks until the user quits
//
// The first load of every screen runs concurrently. A failed first load is
// logged and shown in the header; it does not stop the dashboard, because the
// pollers keep retrying on their own schedule.
//
// # Sessions
//
// Login posts the credentials, keeps only ADMIN and CALL_CENTER users, and
// writes the token to the session file. Run refuses to start without one.
// Logout deletes the file.
//
// # Errors
//
// Fatal (returned from Run):
//   - unreadable or invalid config
//   - missing or expired session
//
// Recoverable (logged, polling continues):
//   - failed loads of any screen
//   - an unreadable prefs file, which falls back to defaults
package app
