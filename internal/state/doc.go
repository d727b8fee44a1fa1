// Package state holds the latest known headset status shared between the
// poller, the status stream, the integrations and the UI.
//
// # Overview
//
// Store is a small RWMutex-guarded container. Writers are:
//
//   - the poller, via Update, after every GetStatus call (success or failure)
//   - the status watcher, via Apply, for each component the device pushes
//   - the recorder, via RecordAction, after start/stop/cancel commands
//
// Readers call Snapshot, which returns a deep copy so the UI can render
// without holding the lock and without sharing pointers with writers.
//
// # Failure Tracking
//
// A failed poll keeps the last good status but records the error and bumps
// ConsecutiveFailures; any successful poll resets the counter. IsOffline
// reports true after two failures in a row, which the UI uses to switch the
// header into its "offline" state.
//
// # Pushed Components
//
// Components that arrive before the first successful poll are dropped: a
// partial Status (say, battery only) would render as a half-empty dashboard,
// and the next poll fills everything in anyway.
package state
