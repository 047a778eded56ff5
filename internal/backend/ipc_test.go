//go:build !windows

package backend

import (
	"bufio"
	"encoding/json"
	"net"
	"path/filepath"
	"testing"
)

// serveIPC accepts one connection and answers each command with the lines
// the replies callback builds from the client's request id.
func serveIPC(t *testing.T, socketPath string, replies func(id int64) []string) {
	t.Helper()

	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			var cmd ipcCommand
			if err := json.Unmarshal(scanner.Bytes(), &cmd); err != nil {
				return
			}
			for _, line := range replies(cmd.RequestID) {
				if _, err := conn.Write([]byte(line + "\n")); err != nil {
					return
				}
			}
		}
	}()
}

func TestDoSendCommand_SkipsEventBroadcasts(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "player.sock")
	serveIPC(t, socketPath, func(id int64) []string {
		return []string{
			`{"event":"property-change","id":1,"name":"playback-time","data":12.5}`,
			`{"event":"playback-restart"}`,
			jsonReply(id, `"data":42.0,"error":"success"`),
		}
	})

	data, err := doSendCommand(socketPath, []interface{}{"get_property", "duration"})
	if err != nil {
		t.Fatalf("doSendCommand: %v", err)
	}
	if got, ok := data.(float64); !ok || got != 42.0 {
		t.Errorf("data = %v, want 42.0", data)
	}
}

func TestDoSendCommand_IgnoresForeignReplies(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "player.sock")
	serveIPC(t, socketPath, func(id int64) []string {
		return []string{
			jsonReply(id+1000, `"data":"wrong","error":"success"`),
			jsonReply(id, `"data":"right","error":"success"`),
		}
	})

	data, err := doSendCommand(socketPath, []interface{}{"get_property", "pause"})
	if err != nil {
		t.Fatalf("doSendCommand: %v", err)
	}
	if data != "right" {
		t.Errorf("data = %v, want %q", data, "right")
	}
}

func TestDoSendCommand_PlayerError(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "player.sock")
	serveIPC(t, socketPath, func(id int64) []string {
		return []string{jsonReply(id, `"error":"property not found"`)}
	})

	_, err := doSendCommand(socketPath, []interface{}{"get_property", "nope"})
	if err == nil {
		t.Fatal("expected player error")
	}
}

func jsonReply(id int64, fields string) string {
	return `{"request_id":` + jsonInt(id) + `,` + fields + `}`
}

func jsonInt(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
