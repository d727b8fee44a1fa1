// Package app provides the orchestration layer for gazer.
//
// # Overview
//
// This package wires together configuration, logging, the device client,
// polling, state management, the optional MQTT bridge and InfluxDB sink, and
// the UI. It is the composition root where all dependencies are initialized
// and connected.
//
// # Components
//
//   - app.go: Run, config overrides and integration wiring
//   - poller.go: Poller, which fetches the status periodically with backoff
//   - watcher.go: StartStatusWatcher, which follows the pushed status stream
//   - recorder.go: Recorder, which runs recording commands and records outcomes
//   - command.go: RunCommand, the one-shot CLI path
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read gazer config
//	       ├─────> logging.New()        Open the log file
//	       ├─────> control.NewClient()  HTTP session to the headset
//	       ├─────> Poller.Start()       First refresh, then background updates
//	       ├─────> mqttbridge.Connect() Optional
//	       ├─────> telemetry.Connect()  Optional
//	       ├─────> StartStatusWatcher() Optional websocket updates
//	       └─────> ui.Run()             Start TUI (blocks)
//
// Every fresh status, polled or pushed, goes to the store and then to the
// registered listeners (MQTT publish, InfluxDB point).
//
// # Polling Behavior
//
// The poller refreshes every PollInterval (default 2 seconds). After a failed
// poll it waits base × 2^failures, capped at 30 seconds, so an unplugged
// headset is not hammered. Recorder calls Poller.Refresh after each command so
// the UI reflects the new recording state without waiting for the next tick.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Invalid configuration file
//   - Log file cannot be opened
//   - Invalid device address or port
//
// Recoverable errors (logged, gazer keeps running):
//   - Status poll failures and dropped status streams
//   - MQTT broker or InfluxDB unreachable at startup (integration disabled)
//   - Recording command failures (shown in the UI and published over MQTT)
package app
