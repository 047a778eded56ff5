package backend

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync/atomic"
	"time"
)

// ipcCommand is the JSON structure sent to the player's IPC socket.
type ipcCommand struct {
	Command   []interface{} `json:"command"`
	RequestID int64         `json:"request_id"`
}

// ipcResponse is one newline-delimited JSON object read back from the
// socket. The player broadcasts asynchronous events to every client on the
// same stream, so replies carry the request id and events carry an event
// name instead.
type ipcResponse struct {
	Data      interface{} `json:"data"`
	Error     string      `json:"error"`
	Event     string      `json:"event"`
	RequestID int64       `json:"request_id"`
}

const (
	ipcMaxRetries   = 3
	ipcRetryDelay   = 100 * time.Millisecond
	ipcReadDeadline = 1 * time.Second
	ipcReadBufSize  = 64 * 1024
)

// ipcRequestID hands out process-unique request ids for reply correlation.
var ipcRequestID atomic.Int64

// sendCommand sends a JSON-IPC command over the unix socket, retrying
// transient connection errors. Callers must hold e.mu.
func (e *Embedded) sendCommand(command []interface{}) (interface{}, error) {
	var lastErr error

	for attempt := 0; attempt < ipcMaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(ipcRetryDelay)
		}

		result, err := doSendCommand(e.socketPath, command)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("ipc command failed after %d attempts: %w", ipcMaxRetries, lastErr)
}

// doSendCommand performs a single IPC command attempt. Lines that are not
// the reply to this request — event broadcasts, or replies to requests from
// another connection the player interleaved — are skipped.
func doSendCommand(socketPath string, command []interface{}) (interface{}, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	id := ipcRequestID.Add(1)
	payload, err := json.Marshal(ipcCommand{Command: command, RequestID: id})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	// The protocol is newline-delimited JSON.
	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(ipcReadDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), ipcReadBufSize)
	for scanner.Scan() {
		var resp ipcResponse
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}

		if resp.Event != "" || resp.RequestID != id {
			continue
		}

		if resp.Error != "" && resp.Error != "success" {
			return nil, fmt.Errorf("player error: %s", resp.Error)
		}
		return resp.Data, nil
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return nil, fmt.Errorf("connection closed before reply")
}
