// Package logtail reads the tail of gazer's own log file for the TUI log view.
//
// # Reading Log Files
//
// Read walks the file backwards in 32KB chunks, stopping once it has seen
// enough newlines to produce the requested number of lines. Large log files
// therefore cost roughly maxLines × line length, not the file size. Passing
// zero or a negative maxLines reads the whole file.
//
//	lines, err := logtail.Read("~/.local/state/gazer/gazer.log", 400)
//
// Windows line endings are stripped, and a final line without a trailing
// newline is still returned.
//
// # Levels
//
// Level recognises the three-letter level tokens written by zerolog's
// console writer (INF, WRN, ERR, ...) so the UI can color lines without
// re-parsing them.
//
// # Error Handling
//
// Read returns nil, nil for non-existent files; the log view simply shows
// nothing until the first line is written. Other errors are wrapped.
package logtail
