//go:build windows

package tactile

import "os/exec"

// setupProcessGroup is a no-op on Windows.
func setupProcessGroup(cmd *exec.Cmd) {}

// killProcessGroup kills the direct child only.
func killProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
