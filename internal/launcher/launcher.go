// Package launcher opens paths in the system file manager. Launches are
// fire-and-forget; callers discard errors.
package launcher

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Opener reveals a path in an external file manager.
type Opener interface {
	Open(path string) error
}

// System shells out to the platform opener.
type System struct{}

// Open starts the platform file manager on path without waiting for it.
func (System) Open(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("explorer", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open file manager for %q: %w", path, err)
	}
	// Reap the child once it exits; the caller never waits on it.
	go func() { _ = cmd.Wait() }()
	return nil
}
