package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"

	"github.com/five82/gazer/internal/config"
	"github.com/five82/gazer/internal/control"
)

// Measurement is the InfluxDB measurement every status point is written to.
const Measurement = "headset"

const (
	defaultConnectTimeout = 10 * time.Second
	defaultBatchSize      = 100
	defaultFlushInterval  = 10 * time.Second
)

// pointWriter is the part of the non-blocking WriteAPI the sink uses.
type pointWriter interface {
	WritePoint(point *write.Point)
	Flush()
}

// Sink turns headset statuses into InfluxDB points.
type Sink struct {
	writer pointWriter
	close  func()
	logger zerolog.Logger
	now    func() time.Time

	mu     sync.Mutex
	closed bool
}

// Connect pings the server and returns a sink backed by a batching,
// non-blocking write API. Asynchronous write errors are logged.
func Connect(ctx context.Context, cfg config.InfluxDBConfig, logger zerolog.Logger) (*Sink, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	flushInterval := cfg.FlushInterval
	if flushInterval <= 0 {
		flushInterval = defaultFlushInterval
	}

	client := influxdb2.NewClientWithOptions(
		cfg.URL,
		cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(uint(batchSize)).
			SetFlushInterval(uint(flushInterval.Milliseconds())),
	)

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer cancel()

	healthy, err := client.Ping(pingCtx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping failed: %w", ErrConnectionFailed, err)
	}
	if !healthy {
		client.Close()
		return nil, fmt.Errorf("%w: server not healthy", ErrConnectionFailed)
	}

	writeAPI := client.WriteAPI(cfg.Org, cfg.Bucket)
	go func() {
		for err := range writeAPI.Errors() {
			logger.Warn().Err(err).Msg("influxdb write failed")
		}
	}()

	logger.Info().
		Str("url", cfg.URL).
		Str("bucket", cfg.Bucket).
		Msg("influxdb sink connected")

	s := newSink(writeAPI, logger)
	s.close = client.Close
	return s, nil
}

func newSink(writer pointWriter, logger zerolog.Logger) *Sink {
	return &Sink{writer: writer, logger: logger, now: time.Now}
}

// Record queues one point for status. It never blocks on the network and
// drops the status once the sink is closed.
func (s *Sink) Record(status control.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.writer.WritePoint(statusPoint(status, s.now()))
}

// Close flushes pending points and closes the client. Calling it again is a
// no-op.
func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.writer.Flush()
	if s.close != nil {
		s.close()
	}
}

// statusPoint maps a status onto the headset measurement. Tags and fields the
// status does not carry are left out.
func statusPoint(status control.Status, ts time.Time) *write.Point {
	tags := map[string]string{}
	fields := map[string]any{
		"recording":         status.IsRecording(),
		"sensors_connected": status.ConnectedSensors(),
	}

	if phone := status.Phone; phone != nil {
		if phone.DeviceID != "" {
			tags["device_id"] = phone.DeviceID
		}
		if phone.DeviceName != "" {
			tags["device_name"] = phone.DeviceName
		}
		fields["memory_bytes"] = phone.Memory
	}
	if status.Battery != nil {
		fields["battery_level"] = status.Battery.Level
	}
	if status.IsRecording() {
		fields["recording_duration_s"] = status.Recording.Duration().Seconds()
	}

	return write.NewPoint(Measurement, tags, fields, ts)
}
