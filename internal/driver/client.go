// Package driver connects to a running truck simulator and steers it: it
// polls the truck pose over the wire protocol, runs the fuzzy controller,
// and writes steering commands until the simulator ends the session.
package driver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"

	"github.com/vk/fuzztruck/internal/wire"
)

// ErrSessionDone reports that the simulator closed the connection after a
// pose request, which is the protocol's normal end-of-session signal.
var ErrSessionDone = errors.New("simulator ended the session")

// Client is one driver-side protocol connection.
type Client struct {
	conn   net.Conn
	reader *bufio.Reader
}

// Dial connects to the simulator. A refused connection gets a hint,
// because the most common mistake is starting the driver first.
func Dial(ctx context.Context, host string, port int) (*Client, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return nil, fmt.Errorf("connecting to simulator at %s: %w (is the simulator running?)", addr, err)
		}
		return nil, fmt.Errorf("connecting to simulator at %s: %w", addr, err)
	}
	return &Client{conn: conn, reader: bufio.NewReader(conn)}, nil
}

// Poll requests the truck pose. It returns ErrSessionDone when the
// simulator closes the connection instead of answering.
func (c *Client) Poll() (wire.State, error) {
	if _, err := c.conn.Write([]byte(wire.StateRequest + wire.LineEnding)); err != nil {
		return wire.State{}, fmt.Errorf("sending state request: %w", err)
	}
	line, err := c.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return wire.State{}, ErrSessionDone
		}
		return wire.State{}, fmt.Errorf("reading state: %w", err)
	}
	return wire.ParseState(line)
}

// Steer validates and sends one steering command.
func (c *Client) Steer(v float64) error {
	if err := wire.ValidateSteering(v); err != nil {
		return err
	}
	if _, err := c.conn.Write([]byte(wire.EncodeSteering(v))); err != nil {
		return fmt.Errorf("sending steering command: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
