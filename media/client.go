// Package media hosts the external media collaborators: mpv-backed
// presenter slots for playback and an ffprobe-backed resolver that turns
// file references into playable handles with known durations.
package media

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
)

const (
	// Slot0SocketPath and Slot1SocketPath are the default Unix socket
	// paths for the two presenter slots' mpv instances.
	Slot0SocketPath = "/tmp/caption-studio-slot0.sock"
	Slot1SocketPath = "/tmp/caption-studio-slot1.sock"
)

var (
	// ErrNotConnected is returned for operations on a disconnected client.
	ErrNotConnected = errors.New("media: not connected")
	// ErrSocketNotFound is returned when the mpv socket doesn't exist.
	ErrSocketNotFound = errors.New("media: socket not found - is mpv running with --input-ipc-server?")
	// requestID generates unique IPC request ids across all clients.
	requestID uint64
)

// ipcRequest is a JSON IPC request to mpv.
type ipcRequest struct {
	Command   []interface{} `json:"command"`
	RequestID uint64        `json:"request_id"`
}

// ipcResponse is a JSON IPC response from mpv.
type ipcResponse struct {
	Data      interface{} `json:"data"`
	RequestID uint64      `json:"request_id"`
	Error     string      `json:"error"`
}

// Client is an mpv JSON IPC client over a Unix socket. One client drives
// one presenter slot.
type Client struct {
	socketPath string
	conn       net.Conn
	reader     *bufio.Reader
	mu         sync.Mutex
}

// NewClient creates a client for the given socket path.
func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

// Connect establishes the connection to the mpv IPC socket.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return nil
	}
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return ErrSocketNotFound
	}
	c.conn = conn
	c.reader = bufio.NewReader(conn)
	return nil
}

// Close closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.reader = nil
	return err
}

// IsConnected reports whether the client has a live connection.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// SocketPath returns the configured socket path.
func (c *Client) SocketPath() string {
	return c.socketPath
}

// LoadFile replaces the playing file, seeking to startSec and leaving the
// player paused until an explicit play.
func (c *Client) LoadFile(path string, startSec float64) error {
	if err := c.SetProperty("pause", true); err != nil {
		return err
	}
	_, err := c.sendCommand("loadfile", path, "replace", fmt.Sprintf("start=%.3f", startSec))
	return err
}

// GetProperty retrieves an mpv property value.
func (c *Client) GetProperty(name string) (interface{}, error) {
	return c.sendCommand("get_property", name)
}

// SetProperty sets an mpv property value.
func (c *Client) SetProperty(name string, value interface{}) error {
	_, err := c.sendCommand("set_property", name, value)
	return err
}

// SeekTo seeks to an absolute position in seconds.
func (c *Client) SeekTo(sec float64) error {
	_, err := c.sendCommand("seek", sec, "absolute+exact")
	return err
}

// GetTimePos returns the current playback position in seconds.
func (c *Client) GetTimePos() (float64, error) {
	result, err := c.GetProperty("time-pos")
	if err != nil {
		return 0, err
	}
	return toFloat64(result)
}

// GetDuration returns the loaded file's duration in seconds.
func (c *Client) GetDuration() (float64, error) {
	result, err := c.GetProperty("duration")
	if err != nil {
		return 0, err
	}
	return toFloat64(result)
}

// GetBool retrieves a boolean property.
func (c *Client) GetBool(name string) (bool, error) {
	result, err := c.GetProperty(name)
	if err != nil {
		return false, err
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("media: unexpected %s value type: %T", name, result)
	}
	return b, nil
}

// toFloat64 converts an IPC result to float64. JSON numbers from mpv
// decode as float64.
func toFloat64(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("media: unexpected numeric value type: %T", v)
	}
}

// sendCommand sends one newline-terminated JSON IPC command and reads
// responses until the matching request id arrives. Event lines in between
// are skipped.
func (c *Client) sendCommand(command string, args ...interface{}) (interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil, ErrNotConnected
	}

	cmdArray := make([]interface{}, 0, len(args)+1)
	cmdArray = append(cmdArray, command)
	cmdArray = append(cmdArray, args...)

	reqID := atomic.AddUint64(&requestID, 1)
	data, err := json.Marshal(ipcRequest{Command: cmdArray, RequestID: reqID})
	if err != nil {
		return nil, fmt.Errorf("media: failed to marshal command: %w", err)
	}
	data = append(data, '\n')
	if _, err := c.conn.Write(data); err != nil {
		return nil, fmt.Errorf("media: failed to send command: %w", err)
	}

	for {
		line, err := c.reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("media: failed to read response: %w", err)
		}
		var resp ipcResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			// Malformed lines are usually events; skip them.
			continue
		}
		if resp.RequestID != reqID {
			continue
		}
		if resp.Error != "" && resp.Error != "success" {
			return nil, fmt.Errorf("media: %s", resp.Error)
		}
		return resp.Data, nil
	}
}
