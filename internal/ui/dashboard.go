package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/gazer/internal/control"
)

// renderDashboard lays out the device panels in two columns, or stacked when
// the terminal is narrow.
func (m Model) renderDashboard() string {
	height := m.height - 2
	if !m.snapshot.HasStatus {
		styles := m.theme.Styles()
		msg := styles.MutedText.Render("Waiting for the first status from " + m.deviceAddress() + "...")
		if m.snapshot.LastError != nil {
			msg = styles.DangerText.Render(m.snapshot.LastError.Error())
		}
		return m.renderBox("Headset", msg, m.width, height, false)
	}

	if m.width < 80 {
		return m.renderBox("Headset", strings.Join([]string{
			m.deviceSection(),
			m.recordingSection(),
			m.sensorSection(),
			m.lastCommandSection(),
		}, "\n\n"), m.width, height, true)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth
	topHeight := height / 2
	bottomHeight := height - topHeight

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.renderBox("Device", m.deviceSection(), leftWidth, topHeight, false),
		m.renderBox("Sensors", m.sensorSection(), leftWidth, bottomHeight, false),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.renderBox("Recording", m.recordingSection(), rightWidth, topHeight, m.snapshot.Status.IsRecording()),
		m.renderBox("Last Command", m.lastCommandSection(), rightWidth, bottomHeight, false),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

type field struct{ label, value string }

func (m Model) renderFields(fields []field) string {
	styles := m.theme.Styles()
	labelStyle := styles.MutedText.Width(12)
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString("\n")
		}
		value := f.value
		if value == "" {
			value = styles.FaintText.Render("-")
		}
		b.WriteString(labelStyle.Render(f.label))
		b.WriteString(value)
	}
	return b.String()
}

func (m Model) deviceSection() string {
	styles := m.theme.Styles()
	status := m.snapshot.Status
	var fields []field

	if p := status.Phone; p != nil {
		fields = append(fields,
			field{"Name", styles.Text.Bold(true).Render(p.DeviceName)},
			field{"Device ID", styles.Text.Render(p.DeviceID)},
			field{"IP", styles.Text.Render(p.IP)},
		)
		memory := ""
		if p.Memory > 0 {
			memory = styles.Text.Render(formatBytes(p.Memory) + " free")
			if p.MemoryState != "" && !strings.EqualFold(p.MemoryState, "OK") {
				memory += " " + styles.StatusStyle(statusDiscarded).Render(p.MemoryState)
			}
		}
		fields = append(fields, field{"Storage", memory})
	}

	if b := status.Battery; b != nil {
		battery := styles.batteryStyle(b.Level).Render(fmt.Sprintf("%d%%", b.Level))
		if b.State != "" {
			battery += " " + styles.MutedText.Render(b.State)
		}
		fields = append(fields, field{"Battery", battery})
	}

	if h := status.Hardware; h != nil {
		fields = append(fields,
			field{"Hardware", styles.Text.Render(h.Version)},
			field{"Glasses", styles.Text.Render(h.GlassesSerial)},
			field{"Module", styles.Text.Render(h.ModuleSerial)},
		)
	}

	if len(fields) == 0 {
		return styles.MutedText.Render("No device details reported.")
	}
	return m.renderFields(fields)
}

func (m Model) recordingSection() string {
	styles := m.theme.Styles()
	rec := m.snapshot.Status.Recording
	if rec == nil {
		return styles.StatusStyle(statusIdle).Render("IDLE") + "\n\n" +
			styles.MutedText.Render("Press r to start a recording.")
	}

	fields := []field{
		{"State", recordingBadge(styles, rec)},
		{"ID", styles.Text.Render(rec.ID)},
	}
	if rec.RecDurationNS > 0 {
		fields = append(fields, field{"Duration", styles.Text.Render(formatRecordingDuration(rec.Duration()))})
	}
	if rec.Message != "" {
		fields = append(fields, field{"Message", styles.WarningText.Render(rec.Message)})
	}
	return m.renderFields(fields)
}

func recordingBadge(styles Styles, rec *control.Recording) string {
	switch strings.ToUpper(rec.Action) {
	case control.RecordingActionStart:
		return styles.StatusStyle(statusRecording).Bold(true).Render("● RECORDING")
	case control.RecordingActionSave:
		return styles.StatusStyle(statusSaved).Render("SAVED")
	case control.RecordingActionDiscard:
		return styles.StatusStyle(statusDiscarded).Render("DISCARDED")
	case control.RecordingActionError:
		return styles.StatusStyle(statusError).Render("ERROR")
	case control.RecordingActionStop:
		return styles.StatusStyle(statusIdle).Render("STOPPED")
	default:
		return styles.StatusStyle(statusIdle).Render(strings.ToUpper(rec.Action))
	}
}

func (m Model) sensorSection() string {
	styles := m.theme.Styles()
	sensors := m.snapshot.Status.Sensors
	if len(sensors) == 0 {
		return styles.MutedText.Render("No sensors reported.")
	}

	var b strings.Builder
	for i, s := range sensors {
		if i > 0 {
			b.WriteString("\n")
		}
		mark := styles.DangerText.Render("○")
		if s.Connected {
			mark = styles.SuccessText.Render("●")
		}
		b.WriteString(mark)
		b.WriteString(" ")
		b.WriteString(styles.Text.Width(10).Render(s.Sensor))
		b.WriteString(styles.MutedText.Width(8).Render(s.ConnType))
		switch {
		case s.StreamError:
			b.WriteString(styles.DangerText.Render("stream error"))
		case s.URL() != "":
			b.WriteString(styles.FaintText.Render(s.URL()))
		}
	}
	return b.String()
}

func (m Model) lastCommandSection() string {
	styles := m.theme.Styles()
	action := m.snapshot.LastAction
	if action == nil {
		return styles.MutedText.Render("No commands sent yet.")
	}

	ago := humanizeDuration(time.Since(action.At))
	if ago != "now" {
		ago += " ago"
	}
	result := styles.SuccessText.Render("OK")
	if action.Err != nil {
		result = styles.DangerText.Render(action.Err.Error())
	}
	return m.renderFields([]field{
		{"Command", styles.Text.Render(action.Name)},
		{"When", styles.MutedText.Render(ago)},
		{"Result", result},
	})
}
