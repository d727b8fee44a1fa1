package control

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	defaultUserAgent = "gazer/0.1"
	maxBodyBytes     = 1 << 20
)

// Client talks to the REST control API of a single headset.
type Client struct {
	address   string
	port      int
	baseURL   string
	http      *http.Client
	transport *http.Transport
	userAgent string
	logger    zerolog.Logger
	closed    atomic.Bool

	streamsMu sync.Mutex
	streams   map[*websocket.Conn]struct{} // live WatchStatus connections
}

// Option customises a Client.
type Option func(*Client)

// WithTimeout sets an overall per-request timeout. Zero leaves requests bounded
// only by their context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger attaches a logger used for per-response debug lines.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient opens a session against the device at address:port.
func NewClient(address string, port int, opts ...Option) (*Client, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("device address is empty")
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("device port %d out of range", port)
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	c := &Client{
		address:   address,
		port:      port,
		baseURL:   "http://" + net.JoinHostPort(address, strconv.Itoa(port)),
		http:      &http.Client{Transport: transport},
		transport: transport,
		userAgent: defaultUserAgent,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ForDiscoveredDevice opens a session against the first address of a
// discovered device.
func ForDiscoveredDevice(device DiscoveredDevice, opts ...Option) (*Client, error) {
	if len(device.Addresses) == 0 {
		return nil, ErrNoAddress
	}
	return NewClient(device.Addresses[0], device.Port, opts...)
}

// WithClient runs fn with a fresh client and always closes it afterwards, even
// when fn returns an error or panics.
func WithClient(ctx context.Context, address string, port int, fn func(context.Context, *Client) error, opts ...Option) (err error) {
	c, err := NewClient(address, port, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(ctx, c)
}

// Address returns the device host the client is bound to.
func (c *Client) Address() string { return c.address }

// Port returns the device port the client is bound to.
func (c *Client) Port() int { return c.port }

// String identifies the client in logs.
func (c *Client) String() string {
	return fmt.Sprintf("control.Client(%s, %d)", c.address, c.port)
}

// GetStatus retrieves the current device status.
func (c *Client) GetStatus(ctx context.Context) (Status, error) {
	var envelope struct {
		Result *Status `json:"result"`
	}
	if err := c.do(ctx, http.MethodGet, PathStatus, &envelope); err != nil {
		return Status{}, err
	}
	if envelope.Result == nil {
		return Status{}, ErrMissingResult
	}
	return *envelope.Result, nil
}

// StartRecording asks the device to start a recording and returns its id when
// the device reports one. Any 200 is success, whatever the body holds.
func (c *Client) StartRecording(ctx context.Context) (string, error) {
	body, err := c.send(ctx, http.MethodPost, PathRecordingStart)
	if err != nil {
		return "", err
	}
	return recordingID(body), nil
}

// recordingID extracts result.id, returning "" when the body has no usable id.
func recordingID(body []byte) string {
	var confirmation struct {
		Result struct {
			ID string `json:"id"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &confirmation); err != nil {
		return ""
	}
	return confirmation.Result.ID
}

// StopAndSaveRecording stops the running recording and keeps it.
func (c *Client) StopAndSaveRecording(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, PathRecordingStopAndSave, nil)
}

// CancelRecording stops the running recording and discards it.
func (c *Client) CancelRecording(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, PathRecordingCancel, nil)
}

// Close releases the HTTP session. Calling it again is a no-op.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.transport.CloseIdleConnections()

	c.streamsMu.Lock()
	defer c.streamsMu.Unlock()
	for conn := range c.streams {
		_ = conn.Close()
	}
	c.streams = nil
	return nil
}

// trackStream registers a status stream so Close can tear it down. It fails
// with ErrClosed when the client was closed while the stream was dialling.
func (c *Client) trackStream(conn *websocket.Conn) error {
	c.streamsMu.Lock()
	defer c.streamsMu.Unlock()
	if c.closed.Load() {
		return ErrClosed
	}
	if c.streams == nil {
		c.streams = make(map[*websocket.Conn]struct{})
	}
	c.streams[conn] = struct{}{}
	return nil
}

func (c *Client) untrackStream(conn *websocket.Conn) {
	c.streamsMu.Lock()
	defer c.streamsMu.Unlock()
	delete(c.streams, conn)
}

// Closed reports whether Close has been called.
func (c *Client) Closed() bool {
	return c.closed.Load()
}

func (c *Client) do(ctx context.Context, method string, path APIPath, dest any) error {
	body, err := c.send(ctx, method, path)
	if err != nil {
		return err
	}
	if dest == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// send issues the request and returns the body of a 200 response. Any other
// status becomes an *Error.
func (c *Client) send(ctx context.Context, method string, path APIPath) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	op := path.Full()
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+op, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug().
		Str("op", op).
		Int("status", resp.StatusCode).
		RawJSON("body", jsonOrNull(body)).
		Msg("received response")

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, body)}
	}
	return body, nil
}

// errorMessage prefers the JSON message field and falls back to the raw body
// or the status text.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	if text := strings.TrimSpace(string(body)); text != "" && !json.Valid(body) {
		return text
	}
	return http.StatusText(status)
}

func jsonOrNull(body []byte) []byte {
	if len(bytes.TrimSpace(body)) == 0 || !json.Valid(body) {
		return []byte("null")
	}
	return body
}
