// Package piservod implements the line-oriented text protocol spoken by the
// piservod PWM servo daemon over its unix domain socket.
package piservod

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultSocketPath is where the daemon listens unless configured otherwise.
	DefaultSocketPath = "/tmp/piservod.sock"

	// DefaultTimeout bounds each command round trip.
	DefaultTimeout = time.Second

	// NumChannels is the number of PWM slots the daemon manages.
	NumChannels = 8

	// readBufferSize matches the daemon's single-line response budget. A
	// longer response is truncated; growing this would diverge from the wire
	// contract.
	readBufferSize = 1024
)

// State is one channel's daemon-side configuration snapshot.
type State struct {
	GPIO    int
	Enabled bool
}

// Client speaks the piservod protocol over one unix-socket connection.
// One command is in flight at a time; concurrent callers are serialized
// around the write+read pair because the protocol has no request IDs.
type Client struct {
	path    string
	timeout time.Duration

	mu   sync.Mutex
	conn net.Conn
}

// New builds a client for the daemon socket at path. Zero values select
// DefaultSocketPath and DefaultTimeout. No connection is opened until
// Connect.
func New(path string, timeout time.Duration) *Client {
	if strings.TrimSpace(path) == "" {
		path = DefaultSocketPath
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{path: path, timeout: timeout}
}

// Connect opens the connection to the daemon. Calling it while already
// connected is a no-op.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	conn, err := net.DialTimeout("unix", c.path, c.timeout)
	if err != nil {
		return fmt.Errorf("cannot connect to piservod at %s (is the daemon running?): %w", c.path, err)
	}
	c.conn = conn
	return nil
}

// Connected reports whether a connection is open. It does not probe the
// peer for liveness.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Disconnect closes the connection. Safe to call repeatedly and from error
// paths; disconnecting an unconnected client is a no-op.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// SocketPath returns the daemon socket path this client targets.
func (c *Client) SocketPath() string { return c.path }

// Setup assigns a GPIO pin to a servo channel. Channel and pin validity are
// the daemon's call; the client forwards values as-is.
func (c *Client) Setup(channel, gpio int) error {
	return c.expectOK(fmt.Sprintf("SETUP %d GPIO %d", channel, gpio))
}

// Enable turns on PWM output for a channel.
func (c *Client) Enable(channel int) error {
	return c.expectOK(fmt.Sprintf("ENABLE %d", channel))
}

// Disable turns off PWM output for a channel.
func (c *Client) Disable(channel int) error {
	return c.expectOK(fmt.Sprintf("DISABLE %d", channel))
}

// SetRange sets the allowed pulse width bounds for a channel, in
// microseconds. The daemon rejects min >= max.
func (c *Client) SetRange(channel, minPulse, maxPulse int) error {
	return c.expectOK(fmt.Sprintf("SET %d RANGE %d %d", channel, minPulse, maxPulse))
}

// SetPulse sets the pulse width for a channel, in microseconds. The daemon
// rejects pulses outside the configured range.
func (c *Client) SetPulse(channel, pulse int) error {
	return c.expectOK(fmt.Sprintf("SET %d PULSE %d", channel, pulse))
}

// Range returns the configured pulse width bounds for a channel.
func (c *Client) Range(channel int) (minPulse, maxPulse int, err error) {
	line, err := c.roundTrip(fmt.Sprintf("GET %d RANGE", channel))
	if err != nil {
		return 0, 0, err
	}

	fields := strings.Fields(line)
	if len(fields) != 3 || fields[0] != "RANGE" {
		return 0, 0, malformedResponse(line)
	}
	minPulse, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, malformedResponse(line)
	}
	maxPulse, err = strconv.Atoi(fields[2])
	if err != nil {
		return 0, 0, malformedResponse(line)
	}
	return minPulse, maxPulse, nil
}

// Pulse returns the current pulse width for a channel, in microseconds.
func (c *Client) Pulse(channel int) (int, error) {
	line, err := c.roundTrip(fmt.Sprintf("GET %d PULSE", channel))
	if err != nil {
		return 0, err
	}

	fields := strings.Fields(line)
	if len(fields) != 2 || fields[0] != "PULSE" {
		return 0, malformedResponse(line)
	}
	pulse, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, malformedResponse(line)
	}
	return pulse, nil
}

// State returns the GPIO assignment and enable flag for a channel.
func (c *Client) State(channel int) (State, error) {
	line, err := c.roundTrip(fmt.Sprintf("GET %d STATE", channel))
	if err != nil {
		return State{}, err
	}

	fields := strings.Fields(line)
	if len(fields) != 4 || fields[0] != "GPIO" || fields[2] != "ENABLE" {
		return State{}, malformedResponse(line)
	}
	gpio, err := strconv.Atoi(fields[1])
	if err != nil {
		return State{}, malformedResponse(line)
	}
	enabled, err := strconv.Atoi(fields[3])
	if err != nil {
		return State{}, malformedResponse(line)
	}
	return State{GPIO: gpio, Enabled: enabled != 0}, nil
}

// With connects to the daemon, runs fn against the client, and disconnects
// on every exit path. The fn error wins over the disconnect error.
func With(path string, timeout time.Duration, fn func(*Client) error) error {
	client := New(path, timeout)
	if err := client.Connect(); err != nil {
		return err
	}
	defer client.Disconnect()
	return fn(client)
}

// expectOK runs a write command whose only success response is the literal
// OK line.
func (c *Client) expectOK(command string) error {
	line, err := c.roundTrip(command)
	if err != nil {
		return err
	}
	if line != "OK" {
		return malformedResponse(line)
	}
	return nil
}

const errorPrefix = "ERROR "

// roundTrip sends one newline-terminated command and reads the single
// response line. The protocol pairs exactly one response to one command, so
// the whole exchange holds the client lock.
func (c *Client) roundTrip(command string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return "", fmt.Errorf("%w: call Connect first", ErrNotConnected)
	}

	if err := c.conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return "", fmt.Errorf("communication error: %w", err)
	}

	if _, err := c.conn.Write([]byte(command + "\n")); err != nil {
		return "", c.transportError(err)
	}

	buf := make([]byte, readBufferSize)
	n, err := c.conn.Read(buf)
	if err != nil {
		return "", c.transportError(err)
	}

	line := strings.TrimSpace(string(buf[:n]))
	if rest, ok := strings.CutPrefix(line, errorPrefix); ok {
		return "", classifyError(strings.TrimSpace(rest))
	}
	return line, nil
}

// transportError separates an unresponsive daemon from other socket faults.
func (c *Client) transportError(err error) error {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return fmt.Errorf("%w: piservod did not respond within %s", ErrTimeout, c.timeout)
	}
	return fmt.Errorf("communication error: %w", err)
}

func malformedResponse(line string) error {
	return fmt.Errorf("malformed response from piservod: %q", line)
}
