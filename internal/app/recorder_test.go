package app

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/five82/gazer/internal/control"
	"github.com/five82/gazer/internal/state"
)

type fakeController struct {
	id     string
	err    error
	called []string
}

func (f *fakeController) StartRecording(context.Context) (string, error) {
	f.called = append(f.called, ActionStart)
	return f.id, f.err
}

func (f *fakeController) StopAndSaveRecording(context.Context) error {
	f.called = append(f.called, ActionStopAndSave)
	return f.err
}

func (f *fakeController) CancelRecording(context.Context) error {
	f.called = append(f.called, ActionCancel)
	return f.err
}

func TestRecorder_RecordsOutcomeAndRefreshes(t *testing.T) {
	device := &fakeController{id: "rec-7"}
	store := &state.Store{}
	refreshes := 0
	rec := NewRecorder(device, store, zerolog.Nop(), func() { refreshes++ })

	id, err := rec.StartRecording(context.Background())
	if err != nil || id != "rec-7" {
		t.Fatalf("StartRecording = %q, %v; want rec-7", id, err)
	}
	if action := store.Snapshot().LastAction; action == nil || action.Name != ActionStart || action.Err != nil {
		t.Fatalf("LastAction = %#v, want successful start", action)
	}

	if err := rec.StopAndSaveRecording(context.Background()); err != nil {
		t.Fatalf("StopAndSaveRecording returned error: %v", err)
	}
	if err := rec.CancelRecording(context.Background()); err != nil {
		t.Fatalf("CancelRecording returned error: %v", err)
	}

	if refreshes != 3 {
		t.Fatalf("refreshes = %d, want 3", refreshes)
	}
	want := []string{ActionStart, ActionStopAndSave, ActionCancel}
	for i, name := range want {
		if device.called[i] != name {
			t.Fatalf("call %d = %q, want %q", i, device.called[i], name)
		}
	}
	if action := store.Snapshot().LastAction; action.Name != ActionCancel {
		t.Fatalf("LastAction = %q, want cancel", action.Name)
	}
}

func TestRecorder_PropagatesDeviceErrors(t *testing.T) {
	busy := &control.Error{Op: "/api/recording:start", StatusCode: 503, Message: "device busy"}
	store := &state.Store{}
	rec := NewRecorder(&fakeController{err: busy}, store, zerolog.Nop(), nil)

	_, err := rec.StartRecording(context.Background())
	var apiErr *control.Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 503 {
		t.Fatalf("StartRecording error = %v, want 503 control.Error", err)
	}

	action := store.Snapshot().LastAction
	if action == nil || !errors.As(action.Err, &apiErr) || apiErr.Message != "device busy" {
		t.Fatalf("LastAction = %#v, want device busy error", action)
	}
}
