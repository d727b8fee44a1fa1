package control

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by every operation issued after Close.
	ErrClosed = errors.New("control: client is closed")

	// ErrNoAddress is returned when a discovered device carries no addresses.
	ErrNoAddress = errors.New("control: discovered device has no address")

	// ErrMissingResult is returned when a status response has no result field.
	ErrMissingResult = errors.New("control: response has no result")

	// ErrUnknownComponent is returned when a status update names an unknown model.
	ErrUnknownComponent = errors.New("control: unknown status component")
)

// Error reports a request the device answered with a status other than 200.
type Error struct {
	Op         string // API path, e.g. /api/recording:start
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api %s returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("api %s returned status %d: %s", e.Op, e.StatusCode, e.Message)
}
