package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/gazer/internal/control"
	"github.com/five82/gazer/internal/state"
)

type statusStreamer interface {
	WatchStatus(ctx context.Context, fn func(control.Component)) error
}

// StartStatusWatcher follows the device's status stream in the background,
// folding every pushed component into the store. Dropped streams are
// reconnected with the poller's backoff. Listeners receive the merged status
// after each component.
func StartStatusWatcher(ctx context.Context, store *state.Store, streamer statusStreamer, base time.Duration, logger zerolog.Logger, listeners ...StatusListener) {
	if base <= 0 {
		base = defaultPollInterval
	}
	go func() {
		failures := 0
		for {
			received := false
			err := streamer.WatchStatus(ctx, func(c control.Component) {
				received = true
				if err := store.Apply(c); err != nil {
					logger.Warn().Err(err).Str("model", c.Model).Msg("ignoring status component")
					return
				}
				snap := store.Snapshot()
				if !snap.HasStatus {
					return
				}
				for _, l := range listeners {
					l(snap.Status)
				}
			})
			if ctx.Err() != nil || errors.Is(err, control.ErrClosed) {
				return
			}

			if received {
				failures = 0
			}
			failures++
			wait := calculateBackoff(failures, base)
			logger.Warn().Err(err).Dur("retry_in", wait).Msg("status stream dropped")

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}
