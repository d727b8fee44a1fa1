package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/five82/gazer/internal/control"
	"github.com/five82/gazer/internal/logging"
)

// ErrUnknownCommand is returned by RunCommand for names it does not handle.
var ErrUnknownCommand = errors.New("unknown command")

// Commands lists the one-shot commands accepted by RunCommand.
var Commands = []string{"status", "start", "stop", "cancel"}

type commandClient interface {
	statusSource
	recordingController
}

// RunCommand opens a session, runs a single command against the device and
// closes the session again.
func RunCommand(ctx context.Context, opts Options, name string, w io.Writer) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if !isCommand(name) {
		return fmt.Errorf("%w %q (want one of %s)", ErrUnknownCommand, name, strings.Join(Commands, ", "))
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, logCloser, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = logCloser.Close() }()
	logger = logging.Component(logger, "cli")

	return control.WithClient(ctx, cfg.Device.Address, cfg.Device.Port, func(ctx context.Context, c *control.Client) error {
		logger.Info().Str("command", name).Stringer("client", c).Msg("running command")
		return runCommand(ctx, c, name, w)
	}, clientOptions(cfg, logger)...)
}

func isCommand(name string) bool {
	if name == "stop_and_save" {
		return true
	}
	for _, c := range Commands {
		if c == name {
			return true
		}
	}
	return false
}

func runCommand(ctx context.Context, c commandClient, name string, w io.Writer) error {
	switch name {
	case "status":
		status, err := c.GetStatus(ctx)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("encode status: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case "start":
		id, err := c.StartRecording(ctx)
		if err != nil {
			return err
		}
		if id == "" {
			_, err = fmt.Fprintln(w, "recording started")
		} else {
			_, err = fmt.Fprintf(w, "recording started: %s\n", id)
		}
		return err
	case "stop", "stop_and_save":
		if err := c.StopAndSaveRecording(ctx); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w, "recording stopped and saved")
		return err
	case "cancel":
		if err := c.CancelRecording(ctx); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w, "recording cancelled")
		return err
	default:
		return fmt.Errorf("%w %q", ErrUnknownCommand, name)
	}
}
