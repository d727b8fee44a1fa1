package mqttbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/five82/gazer/internal/control"
)

const commandTimeout = 15 * time.Second

// Recorder runs recording commands against the headset.
type Recorder interface {
	StartRecording(ctx context.Context) (string, error)
	StopAndSaveRecording(ctx context.Context) error
	CancelRecording(ctx context.Context) error
}

// transport is the slice of an MQTT client the bridge needs.
type transport interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
	Subscribe(topic string, qos byte, handler func(topic string, payload []byte)) error
	Connected() bool
	Disconnect()
}

// Bridge mirrors one headset onto MQTT: it publishes availability and status
// and turns messages on the command topic into recorder calls.
type Bridge struct {
	ctx      context.Context
	topics   Topics
	qos      byte
	recorder Recorder
	logger   zerolog.Logger
	conn     transport

	closeOnce sync.Once
}

func newBridge(ctx context.Context, topics Topics, qos byte, recorder Recorder, logger zerolog.Logger) *Bridge {
	return &Bridge{
		ctx:      ctx,
		topics:   topics,
		qos:      qos,
		recorder: recorder,
		logger:   logger,
	}
}

// Topics returns the topic tree the bridge publishes under.
func (b *Bridge) Topics() Topics { return b.topics }

// start announces the bridge and (re)subscribes to the command topic. It runs
// after every successful connect.
func (b *Bridge) start() error {
	if err := b.conn.Publish(b.topics.Availability(), b.qos, true, []byte(PayloadOnline)); err != nil {
		return err
	}
	if err := b.conn.Subscribe(b.topics.Command(), b.qos, b.handleCommand); err != nil {
		return err
	}
	b.logger.Info().Str("topic", b.topics.Command()).Msg("listening for commands")
	return nil
}

// PublishStatus publishes status as retained JSON on the status topic.
func (b *Bridge) PublishStatus(status control.Status) error {
	if !b.conn.Connected() {
		return ErrNotConnected
	}
	payload, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("encode status: %w", err)
	}
	return b.conn.Publish(b.topics.Status(), b.qos, true, payload)
}

func (b *Bridge) handleCommand(topic string, payload []byte) {
	cmd, req, err := parseCommand(payload)

	result := CommandResult{ID: req.ID, Command: string(cmd)}
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if err != nil {
		result.Command = req.Command
		b.logger.Warn().Err(err).Str("topic", topic).Msg("rejecting command")
	} else {
		b.logger.Info().Str("command", string(cmd)).Str("id", result.ID).Msg("running command")
		ctx, cancel := context.WithTimeout(b.ctx, commandTimeout)
		result.RecordingID, err = b.run(ctx, cmd)
		cancel()
	}

	result.OK = err == nil
	if err != nil {
		result.Error = err.Error()
		var apiErr *control.Error
		if errors.As(err, &apiErr) {
			result.StatusCode = apiErr.StatusCode
			result.Error = apiErr.Message
		}
	}
	result.Timestamp = time.Now().UTC()

	data, err := json.Marshal(result)
	if err != nil {
		b.logger.Error().Err(err).Msg("encode command result")
		return
	}
	if err := b.conn.Publish(b.topics.CommandResult(), b.qos, false, data); err != nil {
		b.logger.Warn().Err(err).Msg("publish command result failed")
	}
}

func (b *Bridge) run(ctx context.Context, cmd Command) (string, error) {
	switch cmd {
	case CommandStart:
		return b.recorder.StartRecording(ctx)
	case CommandStopAndSave:
		return "", b.recorder.StopAndSaveRecording(ctx)
	case CommandCancel:
		return "", b.recorder.CancelRecording(ctx)
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownCommand, cmd)
	}
}

// Close publishes the offline marker and disconnects. Calling it again is a
// no-op.
func (b *Bridge) Close() error {
	var err error
	b.closeOnce.Do(func() {
		if b.conn.Connected() {
			err = b.conn.Publish(b.topics.Availability(), b.qos, true, []byte(PayloadOffline))
		}
		b.conn.Disconnect()
		b.logger.Info().Msg("mqtt bridge closed")
	})
	return err
}
