//go:build windows

// File: internal/trampoline/signal_windows.go
// Purpose: Forwards Ctrl-C to the spawned child via the Windows console control handler
// Problem: os/signal alone cannot distinguish Ctrl-C delivery semantics the way the
//          Win32 console API does, and a child with its own console needs CTRL_BREAK, not CTRL_C
// Role: forwardSignals registers a console control handler that relays the event to the child
// Usage: stop := forwardSignals(cmd); defer stop()
// Design choices: golang.org/x/sys/windows (the cross-platform stack's Windows-specific half)

package trampoline

import (
	"os/exec"

	"golang.org/x/sys/windows"
)

func forwardSignals(cmd *exec.Cmd) func() {
	handler := func(ctrlType uint32) bool {
		if cmd.Process != nil {
			windows.GenerateConsoleCtrlEvent(windows.CTRL_BREAK_EVENT, uint32(cmd.Process.Pid))
		}
		return true
	}

	windows.SetConsoleCtrlHandler(handler, true)

	return func() {
		windows.SetConsoleCtrlHandler(handler, false)
	}
}

func signalExitStatus(exitErr *exec.ExitError) (int, bool) {
	return 0, false
}
