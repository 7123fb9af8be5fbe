package command

import (
	"fmt"
	"os/exec"
	"runtime"
)

// PlatformActions is the side-effecting surface commands run against.
// Injecting it keeps the router's matching logic pure and testable.
type PlatformActions interface {
	OpenURL(url string) error
	OpenFolder(path string) error
}

// OSActions opens URLs and folders through the platform opener.
type OSActions struct{}

func (OSActions) OpenURL(url string) error { return open(url) }

func (OSActions) OpenFolder(path string) error { return open(path) }

func open(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch opener for %s: %w", target, err)
	}
	// The opener is fire-and-forget; reap it in the background.
	go func() { _ = cmd.Wait() }()
	return nil
}

// NopActions performs no side effects. Used in tests and when the process
// runs headless.
type NopActions struct{}

func (NopActions) OpenURL(string) error { return nil }

func (NopActions) OpenFolder(string) error { return nil }
