package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/gazer/internal/config"
	"github.com/five82/gazer/internal/control"
	"github.com/five82/gazer/internal/logging"
	"github.com/five82/gazer/internal/mqttbridge"
	"github.com/five82/gazer/internal/prefs"
	"github.com/five82/gazer/internal/state"
	"github.com/five82/gazer/internal/telemetry"
	"github.com/five82/gazer/internal/ui"
)

// Options configure the gazer application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/gazer/prefs.toml
	PollEvery  int    // seconds; zero uses the config value
	Address    string // overrides device.address when set
	Port       int    // overrides device.port when set
}

// Run boots the gazer TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	logger, logCloser, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = logCloser.Close() }()
	logger.Info().
		Str("address", cfg.Device.Address).
		Int("port", cfg.Device.Port).
		Msg("gazer starting")

	client, err := control.NewClient(cfg.Device.Address, cfg.Device.Port, clientOptions(cfg, logger)...)
	if err != nil {
		return fmt.Errorf("init control client: %w", err)
	}
	defer func() { _ = client.Close() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store := &state.Store{}

	interval := cfg.Device.PollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	poller := NewPoller(store, client, interval, logging.Component(logger, "poller"))
	recorder := NewRecorder(client, store, logging.Component(logger, "recorder"), poller.Refresh)

	// Populates the store before integrations and the UI start.
	poller.Start(ctx)

	if cfg.MQTT.Enabled {
		bridge, err := connectBridge(ctx, cfg, store, recorder, logger)
		if err != nil {
			logger.Error().Err(err).Str("broker", cfg.MQTT.Broker).Msg("mqtt bridge disabled")
		} else {
			defer func() { _ = bridge.Close() }()
			logger.Info().Str("topic", bridge.Topics().Status()).Msg("mqtt bridge connected")
			poller.AddListener(func(status control.Status) {
				if err := bridge.PublishStatus(status); err != nil {
					logger.Warn().Err(err).Msg("publish status failed")
				}
			})
		}
	}

	sink, err := telemetry.Connect(ctx, cfg.InfluxDB, logging.Component(logger, "telemetry"))
	switch {
	case errors.Is(err, telemetry.ErrDisabled):
	case err != nil:
		logger.Error().Err(err).Str("url", cfg.InfluxDB.URL).Msg("telemetry disabled")
	default:
		defer sink.Close()
		poller.AddListener(sink.Record)
	}

	if cfg.Device.StreamStatus {
		StartStatusWatcher(ctx, store, client, interval, logging.Component(logger, "stream"), poller.publish)
	}

	uiOpts := ui.Options{
		Context:       ctx,
		Recorder:      recorder,
		Store:         store,
		Config:        &cfg,
		PollTick:      interval,
		ThemeName:     userPrefs.Theme,
		ConfirmCancel: userPrefs.ConfirmCancel,
		PrefsPath:     opts.PrefsPath,
		LogPath:       cfg.Log.File,
	}
	err = ui.Run(uiOpts)
	// Stop the poller and watcher before the deferred integration closes run.
	cancel()
	logger.Info().Msg("gazer stopped")
	return err
}

func connectBridge(ctx context.Context, cfg config.Config, store *state.Store, recorder *Recorder, logger zerolog.Logger) (*mqttbridge.Bridge, error) {
	snap := store.Snapshot()
	name := ""
	if snap.HasStatus && snap.Status.Phone != nil {
		name = snap.Status.Phone.DeviceName
	}
	device := mqttbridge.DeviceSegment(name, cfg.Device.Address)

	bridge, err := mqttbridge.Connect(ctx, cfg.MQTT, device, recorder, logging.Component(logger, "mqtt"))
	if err != nil {
		return nil, err
	}
	if snap.HasStatus {
		if err := bridge.PublishStatus(snap.Status); err != nil {
			logger.Warn().Err(err).Msg("publish initial status failed")
		}
	}
	return bridge, nil
}

func loadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load gazer config: %w", err)
	}
	if addr := strings.TrimSpace(opts.Address); addr != "" {
		cfg.Device.Address = addr
	}
	if opts.Port > 0 {
		cfg.Device.Port = opts.Port
	}
	return cfg, nil
}

func clientOptions(cfg config.Config, logger zerolog.Logger) []control.Option {
	opts := []control.Option{control.WithLogger(logging.Component(logger, "control"))}
	if cfg.Device.RequestTimeout > 0 {
		opts = append(opts, control.WithTimeout(cfg.Device.RequestTimeout))
	}
	return opts
}
