package control

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
)

const closeGrace = time.Second

// WatchStatus subscribes to pushed status updates and calls fn for each
// component until ctx is cancelled (nil is returned), the client is closed
// (ErrClosed) or the connection fails. fn runs on the reading goroutine and
// should not block.
func (c *Client) WatchStatus(ctx context.Context, fn func(Component)) error {
	if c.closed.Load() {
		return ErrClosed
	}
	wsURL := "ws://" + net.JoinHostPort(c.address, strconv.Itoa(c.port)) + PathStatus.Full()
	header := http.Header{}
	header.Set("User-Agent", c.userAgent)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("dial status stream: %w (status %d)", err, resp.StatusCode)
		}
		return fmt.Errorf("dial status stream: %w", err)
	}
	defer conn.Close()
	if err := c.trackStream(conn); err != nil {
		return err
	}
	defer c.untrackStream(conn)
	c.logger.Debug().Str("url", wsURL).Msg("status stream connected")

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(closeGrace))
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			switch {
			case c.closed.Load():
				return ErrClosed
			case ctx.Err() != nil:
				return nil
			}
			return fmt.Errorf("read status stream: %w", err)
		}
		if c.closed.Load() {
			return ErrClosed
		}
		var component Component
		if err := json.Unmarshal(data, &component); err != nil {
			c.logger.Warn().Err(err).Msg("skipping undecodable status update")
			continue
		}
		fn(component)
	}
}
