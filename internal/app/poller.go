package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/gazer/internal/control"
	"github.com/five82/gazer/internal/state"
)

const (
	defaultPollInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
)

// StatusListener receives every fresh status the poller or the status stream
// produces.
type StatusListener func(control.Status)

type statusSource interface {
	GetStatus(ctx context.Context) (control.Status, error)
}

// Poller refreshes the store from the device at a fixed cadence, backing off
// while the device is unreachable.
type Poller struct {
	store    *state.Store
	source   statusSource
	interval time.Duration
	logger   zerolog.Logger
	trigger  chan struct{}

	mu        sync.Mutex
	listeners []StatusListener
}

// NewPoller builds a poller without starting it.
func NewPoller(store *state.Store, source statusSource, interval time.Duration, logger zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{
		store:    store,
		source:   source,
		interval: interval,
		logger:   logger,
		trigger:  make(chan struct{}, 1),
	}
}

// StartPoller builds a poller and starts it. See Poller.Start.
func StartPoller(ctx context.Context, store *state.Store, source statusSource, interval time.Duration, logger zerolog.Logger) *Poller {
	p := NewPoller(store, source, interval, logger)
	p.Start(ctx)
	return p
}

// AddListener registers a listener for fresh statuses. Safe to call while the
// poller runs.
func (p *Poller) AddListener(l StatusListener) {
	if l == nil {
		return
	}
	p.mu.Lock()
	p.listeners = append(p.listeners, l)
	p.mu.Unlock()
}

// Refresh asks the poller to fetch the status now instead of waiting for the
// next tick. It never blocks.
func (p *Poller) Refresh() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Start performs one refresh synchronously so the store is populated before
// the UI draws, then keeps refreshing in a background goroutine until ctx is
// cancelled.
func (p *Poller) Start(ctx context.Context) {
	failures := 0
	if err := p.refresh(ctx); err != nil {
		failures++
	}

	go func() {
		for {
			wait := p.interval
			if failures > 0 {
				wait = calculateBackoff(failures, p.interval)
			}
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-p.trigger:
				timer.Stop()
			case <-timer.C:
			}

			if err := p.refresh(ctx); err != nil {
				failures++
			} else {
				failures = 0
			}
		}
	}()
}

func (p *Poller) refresh(ctx context.Context) error {
	status, err := p.source.GetStatus(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		p.store.Update(nil, err)
		p.logger.Warn().Err(err).Msg("status poll failed")
		return err
	}
	p.store.Update(&status, nil)
	p.logger.Debug().
		Bool("recording", status.IsRecording()).
		Int("sensors_connected", status.ConnectedSensors()).
		Msg("status refreshed")
	p.publish(status)
	return nil
}

func (p *Poller) publish(status control.Status) {
	p.mu.Lock()
	listeners := append([]StatusListener(nil), p.listeners...)
	p.mu.Unlock()

	for _, l := range listeners {
		l(status.Clone())
	}
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
