package media

import (
	"os/exec"
	"time"

	"github.com/user/caption-studio-cli/deps"
)

// connectAttempts bounds how long LaunchSlot waits for the IPC socket.
const connectAttempts = 50

// LaunchSlot starts one idle mpv instance for a presenter slot with its
// IPC socket enabled and waits for the socket to accept a connection.
// Returns the running process and a connected client.
func LaunchSlot(socketPath string) (*exec.Cmd, *Client, error) {
	if err := deps.CheckMpv(); err != nil {
		return nil, nil, err
	}

	// Idle with no file: the scheduler attaches media later. Keep the
	// window hidden until the slot is presented.
	cmd := exec.Command("mpv",
		"--input-ipc-server="+socketPath,
		"--idle=yes",
		"--force-window=yes",
		"--keep-open=yes",
		"--mute=yes",
		"--pause",
	)
	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}

	client := NewClient(socketPath)
	var connectErr error
	for i := 0; i < connectAttempts; i++ {
		time.Sleep(100 * time.Millisecond)
		connectErr = client.Connect()
		if connectErr == nil {
			return cmd, client, nil
		}
	}

	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
	return nil, nil, connectErr
}
