package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	actionStart       = "start"
	actionStopAndSave = "stop_and_save"
	actionCancel      = "cancel"

	actionTimeout = 15 * time.Second
)

var errNoRecorder = errors.New("recording commands unavailable")

// actionResultMsg carries the outcome of a recording command.
type actionResultMsg struct {
	action      string
	recordingID string
	err         error
	at          time.Time
}

// runAction dispatches a recording command unless one is already in flight.
func (m Model) runAction(action string) (tea.Model, tea.Cmd) {
	if m.pending != "" {
		return m, nil
	}
	if m.recorder == nil {
		m.flash = &actionResultMsg{action: action, err: errNoRecorder, at: time.Now()}
		return m, nil
	}
	m.pending = action
	m.flash = nil
	return m, recordingCmd(m.ctx, m.recorder, action)
}

// handleConfirmKey answers the cancel confirmation prompt. Other keys are
// swallowed until the prompt is resolved.
func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.confirmingCancel = false
		return m.runAction(actionCancel)
	case key.Matches(msg, m.keys.Deny):
		m.confirmingCancel = false
	}
	return m, nil
}

func (m Model) handleActionResult(msg actionResultMsg) (tea.Model, tea.Cmd) {
	m.pending = ""
	m.flash = &msg
	if m.store == nil {
		return m, nil
	}
	return m, fetchSnapshotCmd(m.store)
}

func recordingCmd(ctx context.Context, recorder Recorder, action string) tea.Cmd {
	return func() tea.Msg {
		callCtx, cancel := context.WithTimeout(ctx, actionTimeout)
		defer cancel()

		result := actionResultMsg{action: action}
		switch action {
		case actionStart:
			result.recordingID, result.err = recorder.StartRecording(callCtx)
		case actionStopAndSave:
			result.err = recorder.StopAndSaveRecording(callCtx)
		case actionCancel:
			result.err = recorder.CancelRecording(callCtx)
		}
		result.at = time.Now()
		return result
	}
}

// actionLabel returns the progressive form shown while a command runs.
func actionLabel(action string) string {
	switch action {
	case actionStart:
		return "Starting recording..."
	case actionStopAndSave:
		return "Saving recording..."
	case actionCancel:
		return "Cancelling recording..."
	default:
		return action
	}
}

// actionOutcome describes a finished command.
func actionOutcome(action, recordingID string) string {
	switch action {
	case actionStart:
		if recordingID == "" {
			return "Recording started"
		}
		return "Recording started: " + recordingID
	case actionStopAndSave:
		return "Recording saved"
	case actionCancel:
		return "Recording cancelled"
	default:
		return action
	}
}
