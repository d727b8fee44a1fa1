package mqttbridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Command is a recording command accepted on the command topic.
type Command string

const (
	CommandStart       Command = "start"
	CommandStopAndSave Command = "stop_and_save"
	CommandCancel      Command = "cancel"
)

// request is the JSON form of a command payload. The plain-text form is just
// the command name.
type request struct {
	ID      string `json:"id"`
	Command string `json:"command"`
}

// CommandResult is published on the command result topic after every command.
type CommandResult struct {
	ID          string    `json:"id"`
	Command     string    `json:"command"`
	OK          bool      `json:"ok"`
	Error       string    `json:"error,omitempty"`
	StatusCode  int       `json:"status_code,omitempty"`
	RecordingID string    `json:"recording_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// parseCommand accepts "start", "stop_and_save" (or "stop"), "cancel", or the
// same names wrapped as {"command": "...", "id": "..."}. It returns the raw
// name alongside so failures can echo it back.
func parseCommand(payload []byte) (Command, request, error) {
	var req request
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &req); err != nil {
			return "", req, fmt.Errorf("%w: decode payload: %v", ErrUnknownCommand, err)
		}
	} else {
		req.Command = string(trimmed)
	}

	name := strings.ToLower(strings.TrimSpace(req.Command))
	switch name {
	case string(CommandStart):
		return CommandStart, req, nil
	case string(CommandStopAndSave), "stop":
		return CommandStopAndSave, req, nil
	case string(CommandCancel):
		return CommandCancel, req, nil
	default:
		return "", req, fmt.Errorf("%w %q", ErrUnknownCommand, req.Command)
	}
}
