// Package logtail reads and parses the tail of the console's own log file.
//
// # Overview
//
// The TUI owns the terminal, so every log line goes to a file. The Logs view
// uses this package to show the most recent lines without leaving the
// program.
//
// # Reading Log Files
//
// Read uses a ring buffer of size maxLines, so it scans the file once and
// holds only O(maxLines) lines in memory regardless of file size. A
// non-positive maxLines returns every line. A missing file returns nil, nil;
// other I/O errors are returned wrapped.
//
//	lines, err := logtail.Read(cfg.LogFile, 400)
//
// # Parsing
//
// Parse understands the key=value layout of the logrus text formatter:
//
//	time="2025-10-08 21:01:05" level=warning msg="load failed" screen=complaints
//
// time, level, msg and error map to Entry fields; everything else lands in
// Fields. Lines without a level (stack traces, panics) are kept as raw
// messages. AtLeast filters by minimum level and always keeps those raw
// lines.
//
// Colouring is left to the UI, which maps levels to theme colours.
package logtail
