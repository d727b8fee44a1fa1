// Package ui provides the Bubble Tea terminal interface for gazer.
//
// # Layout
//
// Every screen is a header line, a command bar and one content area:
//
//   - header.go: device name, online/offline badge, recording badge with
//     elapsed time, battery and sensor counts, last update time
//   - dashboard.go: device, recording, sensor and last-command panels
//   - logs.go: a follow-mode tail of gazer's own log file
//   - help.go: the keyboard shortcut overlay, built from keys.go
//
// # Data Flow
//
// The UI never talks to the headset for status. A tick every PollTick reads
// a copy of state.Store, which the poller and the status watcher keep
// current. Recording commands go through the Recorder interface as tea.Cmds
// so the event loop never blocks on the network; only one command may be in
// flight at a time, and the result is flashed in the command bar.
//
// Cancel discards data on the device, so it asks for y/n confirmation unless
// the confirm_cancel preference is off.
//
// # Themes
//
// T cycles the built-in themes and writes the choice to the preferences file.
package ui
