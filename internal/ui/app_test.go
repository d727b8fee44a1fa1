package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/gazer/internal/config"
	"github.com/five82/gazer/internal/control"
	"github.com/five82/gazer/internal/prefs"
	"github.com/five82/gazer/internal/state"
)

type fakeRecorder struct {
	mu      sync.Mutex
	calls   []string
	startID string
	err     error
}

func (f *fakeRecorder) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeRecorder) StartRecording(context.Context) (string, error) {
	f.record(actionStart)
	return f.startID, f.err
}

func (f *fakeRecorder) StopAndSaveRecording(context.Context) error {
	f.record(actionStopAndSave)
	return f.err
}

func (f *fakeRecorder) CancelRecording(context.Context) error {
	f.record(actionCancel)
	return f.err
}

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	if opts.PrefsPath == "" {
		opts.PrefsPath = filepath.Join(t.TempDir(), "prefs.toml")
	}
	m := New(opts)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func press(m Model, keys string) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
	return next.(Model), cmd
}

func deliver(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestStartRecordingRoundTrip(t *testing.T) {
	rec := &fakeRecorder{startID: "rec-42"}
	m := newTestModel(t, Options{Recorder: rec, Store: &state.Store{}})

	m, cmd := press(m, "r")
	if m.pending != actionStart {
		t.Fatalf("pending = %q, want %q", m.pending, actionStart)
	}
	if cmd == nil {
		t.Fatalf("expected a command to run")
	}

	// A second command is ignored while the first is in flight.
	m, again := press(m, "s")
	if again != nil || m.pending != actionStart {
		t.Fatalf("second command dispatched while pending: pending=%q", m.pending)
	}

	msg, ok := cmd().(actionResultMsg)
	if !ok {
		t.Fatalf("command returned %T, want actionResultMsg", cmd())
	}
	if msg.recordingID != "rec-42" || msg.err != nil {
		t.Fatalf("result = %+v", msg)
	}

	m, refresh := deliver(m, msg)
	if m.pending != "" {
		t.Fatalf("pending = %q after result, want empty", m.pending)
	}
	if m.flash == nil || m.flash.recordingID != "rec-42" {
		t.Fatalf("flash = %+v, want recording id", m.flash)
	}
	if refresh == nil {
		t.Fatalf("expected a snapshot refresh after the result")
	}
	if len(rec.calls) != 1 || rec.calls[0] != actionStart {
		t.Fatalf("calls = %v, want [start]", rec.calls)
	}
}

func TestStopAndSaveFailureIsShown(t *testing.T) {
	rec := &fakeRecorder{err: &control.Error{Op: control.PathRecordingStopAndSave.Full(), StatusCode: 400, Message: "not recording"}}
	m := newTestModel(t, Options{Recorder: rec})

	m, cmd := press(m, "s")
	m, _ = deliver(m, cmd())

	if m.flash == nil || m.flash.err == nil {
		t.Fatalf("expected a failed flash, got %+v", m.flash)
	}
	if !strings.Contains(m.renderCommandBar(), "not recording") {
		t.Fatalf("command bar does not show the device message")
	}
}

func TestCancelAsksForConfirmation(t *testing.T) {
	rec := &fakeRecorder{}
	m := newTestModel(t, Options{Recorder: rec, ConfirmCancel: true})

	m, cmd := press(m, "c")
	if !m.confirmingCancel || cmd != nil {
		t.Fatalf("expected confirmation prompt, confirming=%v cmd=%v", m.confirmingCancel, cmd != nil)
	}

	// Other keys are swallowed while the prompt is up.
	m, cmd = press(m, "r")
	if cmd != nil || !m.confirmingCancel {
		t.Fatalf("prompt did not swallow other keys")
	}

	m, cmd = press(m, "n")
	if m.confirmingCancel || cmd != nil {
		t.Fatalf("deny should close the prompt without a command")
	}

	m, _ = press(m, "c")
	m, cmd = press(m, "y")
	if m.confirmingCancel || cmd == nil || m.pending != actionCancel {
		t.Fatalf("confirm should dispatch cancel, pending=%q", m.pending)
	}
	cmd()
	if len(rec.calls) != 1 || rec.calls[0] != actionCancel {
		t.Fatalf("calls = %v, want [cancel]", rec.calls)
	}
}

func TestCancelWithoutConfirmation(t *testing.T) {
	rec := &fakeRecorder{}
	m := newTestModel(t, Options{Recorder: rec, ConfirmCancel: false})

	m, cmd := press(m, "c")
	if m.confirmingCancel || cmd == nil || m.pending != actionCancel {
		t.Fatalf("cancel should dispatch immediately")
	}
}

func TestCommandsWithoutRecorder(t *testing.T) {
	m := newTestModel(t, Options{})

	m, cmd := press(m, "r")
	if cmd != nil || m.pending != "" {
		t.Fatalf("no command should run without a recorder")
	}
	if m.flash == nil || !errors.Is(m.flash.err, errNoRecorder) {
		t.Fatalf("flash = %+v, want errNoRecorder", m.flash)
	}
}

func TestCycleThemeSavesPrefs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m := newTestModel(t, Options{PrefsPath: path, ThemeName: "Nightfox", ConfirmCancel: true})

	m, _ = press(m, "T")
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}

	saved := prefs.Load(path)
	if saved.Theme != "Kanagawa" || !saved.ConfirmCancel {
		t.Fatalf("saved prefs = %+v", saved)
	}
}

func TestHelpOverlay(t *testing.T) {
	m := newTestModel(t, Options{})

	m, _ = press(m, "?")
	if !m.showHelp {
		t.Fatalf("help should be visible")
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help view missing title")
	}
	m, _ = press(m, "x")
	if m.showHelp {
		t.Fatalf("any key should close help")
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, Options{})
	_, cmd := deliver(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("ctrl+c should quit")
	}
}

func TestLogsViewReadsTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gazer.log")
	content := "2026-01-02T15:04:05Z INF poll ok\n2026-01-02T15:04:07Z ERR poll failed\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	m := newTestModel(t, Options{LogPath: path})

	m, cmd := press(m, "l")
	if m.currentView != ViewLogs {
		t.Fatalf("view = %v, want logs", m.currentView)
	}
	if cmd == nil {
		t.Fatalf("expected a log refresh")
	}
	m, _ = deliver(m, cmd())
	if len(m.logState.lines) != 2 {
		t.Fatalf("lines = %v, want 2", m.logState.lines)
	}
	if !strings.Contains(m.View(), "poll failed") {
		t.Fatalf("log view missing content")
	}

	m, _ = deliver(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.logState.follow {
		t.Fatalf("space should pause follow")
	}

	m, _ = press(m, "d")
	if m.currentView != ViewDashboard {
		t.Fatalf("d should return to the dashboard")
	}
}

func TestDashboardRendersStatus(t *testing.T) {
	store := &state.Store{}
	store.Update(&control.Status{
		Phone:     &control.Phone{DeviceName: "Neon Companion", DeviceID: "abc", Memory: 52 << 30},
		Battery:   &control.Battery{Level: 87, State: "OK"},
		Sensors:   []control.Sensor{{Sensor: "world", ConnType: "DIRECT", Connected: true}},
		Recording: &control.Recording{ID: "rec-1", Action: control.RecordingActionStart, RecDurationNS: 61e9},
	}, nil)
	cfg := config.Default()
	m := newTestModel(t, Options{Store: store, Config: &cfg})
	m, _ = deliver(m, fetchSnapshotCmd(store)())

	view := m.View()
	for _, want := range []string{"Neon Companion", "RECORDING", "87%", "01:01", "52.00 GiB"} {
		if !strings.Contains(view, want) {
			t.Fatalf("dashboard missing %q", want)
		}
	}
}

func TestDashboardBeforeFirstStatus(t *testing.T) {
	cfg := config.Default()
	m := newTestModel(t, Options{Config: &cfg})

	view := m.View()
	if !strings.Contains(view, "Connecting") {
		t.Fatalf("header should show the connecting state")
	}
}
