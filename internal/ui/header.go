package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/gazer/internal/control"
)

// renderHeader renders the status bar with all information.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if !m.snapshot.HasStatus {
		return m.renderConnectingHeader(styles, bg)
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(m.buildStatusContent(styles, bg))
}

// renderConnectingHeader shows the state before the first successful poll.
func (m Model) renderConnectingHeader(styles Styles, bg BgStyle) string {
	sep := bg.Spaces(2)

	if m.snapshot.LastError != nil {
		last := "soon"
		if !m.lastUpdated.IsZero() {
			last = m.lastUpdated.Format("15:04:05")
		}
		parts := []string{
			bg.Render("gazer", styles.Logo),
			bg.Render("HEADSET "+classifyConnectionError(m.snapshot.LastError), styles.DangerText.Bold(true)),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
			bg.Render(last, styles.MutedText),
		}
		if m.logPath != "" {
			parts = append(parts,
				bg.Render("logs", styles.FaintText)+bg.Space()+
					bg.Render(truncateMiddle(m.logPath, 50), styles.MutedText))
		}
		return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
	}

	return styles.Header.Width(m.width).Render(
		bg.Render("gazer", styles.Logo) + sep +
			bg.Render("Connecting to "+m.deviceAddress()+"...", styles.WarningText.Bold(true)),
	)
}

// buildStatusContent builds the status bar content string.
func (m Model) buildStatusContent(styles Styles, bg BgStyle) string {
	compact := m.width < 100
	status := m.snapshot.Status

	var parts []string
	parts = append(parts, bg.Render("gazer", styles.Logo))

	name := m.deviceAddress()
	if status.Phone != nil && status.Phone.DeviceName != "" {
		name = status.Phone.DeviceName
	}
	if compact {
		name = truncate(name, 16)
	}
	parts = append(parts, bg.Render(name, styles.Text.Bold(true)))

	if m.snapshot.IsOffline() {
		parts = append(parts, styles.StatusStyle(statusOffline).Render("OFFLINE"))
	} else {
		parts = append(parts, bg.Render("● ON", styles.SuccessText))
	}

	if status.IsRecording() {
		label := "● REC"
		if d := status.Recording.Duration(); d > 0 {
			label += " " + formatRecordingDuration(d)
		}
		parts = append(parts, styles.StatusStyle(statusRecording).Bold(true).Render(label))
	} else {
		parts = append(parts, styles.StatusStyle(statusIdle).Render("IDLE"))
	}

	if status.Battery != nil {
		label := "Batt"
		if compact {
			label = "B"
		}
		parts = append(parts, bg.Render(label, styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d%%", status.Battery.Level), styles.batteryStyle(status.Battery.Level)))
	}

	if len(status.Sensors) > 0 {
		sensorStyle := styles.SuccessText
		if status.ConnectedSensors() < len(status.Sensors) {
			sensorStyle = styles.WarningText
		}
		parts = append(parts, bg.Render("Sensors", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d/%d", status.ConnectedSensors(), len(status.Sensors)), sensorStyle))
	}

	if !compact {
		if ts := m.formatTimestamp(); ts != "" {
			parts = append(parts, bg.Render(ts, styles.FaintText))
		}
	}

	if m.snapshot.LastError != nil {
		msg := classifyConnectionError(m.snapshot.LastError)
		parts = append(parts, bg.Render("STALE", styles.DangerText.Bold(true))+bg.Space()+
			bg.Render(msg, styles.DangerText))
	}

	return bg.Join(parts, "  ")
}

// deviceAddress returns host:port of the configured device.
func (m Model) deviceAddress() string {
	if m.config == nil || m.config.Device.Address == "" {
		return "headset"
	}
	if m.config.Device.Port == 0 {
		return m.config.Device.Address
	}
	return fmt.Sprintf("%s:%d", m.config.Device.Address, m.config.Device.Port)
}

func (m Model) formatTimestamp() string {
	if m.snapshot.LastUpdated.IsZero() {
		return ""
	}

	timeSince := time.Since(m.snapshot.LastUpdated)
	timeStr := m.snapshot.LastUpdated.Format("15:04:05")

	if timeSince < time.Minute {
		timeStr += " (now)"
	} else if timeSince < time.Hour {
		timeStr += fmt.Sprintf(" (%dm ago)", int(timeSince.Minutes()))
	} else if timeSince < 24*time.Hour {
		timeStr += fmt.Sprintf(" (%dh ago)", int(timeSince.Hours()))
	}

	return timeStr
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	case strings.Contains(msg, "returned status"):
		return "API ERROR"
	default:
		return "ERROR"
	}
}

// errorSummary prefers the device's own message over the full error chain.
func errorSummary(err error) string {
	var apiErr *control.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return fmt.Sprintf("%d: %s", apiErr.StatusCode, apiErr.Message)
	}
	return err.Error()
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	if m.confirmingCancel {
		prompt := bg.Render("Discard the current recording?", styles.DangerText) + sep +
			bg.Render("y", styles.AccentText) + bg.Sep(":") + bg.Render("Discard", styles.MutedText) + sep +
			bg.Render("n", styles.AccentText) + bg.Sep(":") + bg.Render("Keep", styles.MutedText)
		return styles.Header.Width(m.width).Render(prompt)
	}

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewLogs:
		followLabel := "Pause"
		if !m.logState.follow {
			followLabel = "Follow"
		}
		commands = []cmd{
			{"Space", followLabel},
			{"j/k", "Scroll"},
			{"d", "Dashboard"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"r", "Record"},
			{"s", "Save"},
			{"c", "Cancel"},
			{"l", "Logs"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	switch {
	case m.pending != "":
		segments = append(segments, bg.Render(actionLabel(m.pending), styles.WarningText))
	case m.flash != nil && m.flash.err != nil:
		segments = append(segments, bg.Render(truncate(errorSummary(m.flash.err), 60), styles.DangerText))
	case m.flash != nil:
		segments = append(segments, bg.Render(actionOutcome(m.flash.action, m.flash.recordingID), styles.SuccessText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}
