// Package control provides a client for the REST control API of a wearable
// eye-tracking headset.
//
// # Overview
//
// A Client is bound to one device address and port and owns a single HTTP
// session for its lifetime. It maps one method to each fixed API path:
//
//   - GET  /api/status                  → GetStatus
//   - POST /api/recording:start         → StartRecording
//   - POST /api/recording:stop_and_save → StopAndSaveRecording
//   - POST /api/recording:cancel        → CancelRecording
//
// The same /api/status path also serves a websocket that pushes individual
// status components; WatchStatus consumes it and Status.Apply folds each
// component into a Status value.
//
// # Client Usage
//
//	client, err := control.NewClient("pi.local", 8080)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	status, err := client.GetStatus(ctx)
//
// For scoped use, WithClient closes the session on every exit path:
//
//	err := control.WithClient(ctx, "pi.local", 8080, func(ctx context.Context, c *control.Client) error {
//		_, err := c.StartRecording(ctx)
//		return err
//	})
//
// A descriptor produced by device discovery can be used directly with
// ForDiscoveredDevice; only its first address is used.
//
// # Error Handling
//
// Any response other than 200 yields a *Error carrying the status code and the
// device's "message" field (or the HTTP status text when there is none). This
// applies to GetStatus as well as the recording calls. Network failures are
// wrapped with %w and not translated. Operations after Close return ErrClosed.
//
//	var apiErr *control.Error
//	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable {
//		// device busy
//	}
//
// # Concurrency
//
// A Client is safe for concurrent use. It performs no retries and sets no
// request timeout unless WithTimeout is given; callers bound calls with their
// context.
package control
