package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/five82/gazer/internal/state"
)

// Recording command names as recorded in the store.
const (
	ActionStart       = "start"
	ActionStopAndSave = "stop_and_save"
	ActionCancel      = "cancel"
)

type recordingController interface {
	StartRecording(ctx context.Context) (string, error)
	StopAndSaveRecording(ctx context.Context) error
	CancelRecording(ctx context.Context) error
}

// Recorder runs recording commands for the UI and the MQTT bridge, recording
// each outcome in the store and asking for a status refresh afterwards.
type Recorder struct {
	device  recordingController
	store   *state.Store
	logger  zerolog.Logger
	refresh func()
}

// NewRecorder wires a recorder. refresh may be nil.
func NewRecorder(device recordingController, store *state.Store, logger zerolog.Logger, refresh func()) *Recorder {
	return &Recorder{device: device, store: store, logger: logger, refresh: refresh}
}

// StartRecording starts a recording and returns the id reported by the device.
func (r *Recorder) StartRecording(ctx context.Context) (string, error) {
	id, err := r.device.StartRecording(ctx)
	r.finish(ActionStart, err, func(e *zerolog.Event) *zerolog.Event {
		return e.Str("recording_id", id)
	})
	return id, err
}

// StopAndSaveRecording stops the running recording and keeps it.
func (r *Recorder) StopAndSaveRecording(ctx context.Context) error {
	err := r.device.StopAndSaveRecording(ctx)
	r.finish(ActionStopAndSave, err, nil)
	return err
}

// CancelRecording stops the running recording and discards it.
func (r *Recorder) CancelRecording(ctx context.Context) error {
	err := r.device.CancelRecording(ctx)
	r.finish(ActionCancel, err, nil)
	return err
}

func (r *Recorder) finish(action string, err error, fields func(*zerolog.Event) *zerolog.Event) {
	if r.store != nil {
		r.store.RecordAction(action, err)
	}

	var event *zerolog.Event
	if err != nil {
		event = r.logger.Error().Err(err)
	} else {
		event = r.logger.Info()
		if fields != nil {
			event = fields(event)
		}
	}
	event.Str("action", action).Msg("recording command finished")

	if r.refresh != nil {
		r.refresh()
	}
}
