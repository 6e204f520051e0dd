// Package config loads the console's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/reclamos/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//  5. RECLAMOS_API_URL and RECLAMOS_ORGANIZATION_ID override whatever was read
//
// # Default Values
//
//   - API URL: http://localhost:3001
//   - Poll interval: 5s
//   - Notification dedup window: 2s
//   - Log file: ~/.local/state/reclamos/reclamos.log
//   - Log level: info
//   - Metrics listener: disabled
//
// # TOML Format
//
//	api_url = "http://localhost:3001"
//	organization_id = "cm4zzqvvs0000zzqvvs0000zz"
//	poll_interval = "5s"
//	dedup_window = "2s"
//	log_file = "~/.local/state/reclamos/reclamos.log"
//	log_level = "info"
//	metrics_addr = "127.0.0.1:9102"
//
// Durations use time.ParseDuration syntax. A dedup_window of "0s" disables
// notification deduplication; poll_interval must be positive.
//
// # Error Handling
//
// A missing file is not an error. Unreadable files, malformed TOML and bad
// durations are returned wrapped ("parse config: ...") so the command can
// print them before the TUI starts.
//
// # Path Expansion
//
// ExpandPath turns "~/..." into a path under the home directory and makes
// relative paths absolute. The prefs and session packages reuse it.
package config
