// File: internal/ui/progress.go
// Purpose: Provides colored, task-oriented terminal output for the installer
// Problem: Plain text output doesn't show installation progress clearly; developers want visual feedback
// Role: Handles all terminal output with colors and structured formatting
// Usage: Create ProgressUI instance, call StartTask/CompleteTask/FailTask/Success/Error methods
// Design choices: Uses ANSI colors for compatibility; supports both interactive and non-interactive terminals
// Assumptions: Terminal supports ANSI escape codes (standard on macOS); UTF-8 encoding

package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Color codes for terminal output
const (
	// colorReset resets all attributes
	colorReset = "\033[0m"
	// colorBold makes text bold
	colorBold = "\033[1m"
	// colorDim makes text dimmed
	colorDim = "\033[2m"

	// Foreground colors
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
	colorWhite   = "\033[37m"

	// Background colors
	bgGreen = "\033[42m"
	bgRed   = "\033[41m"
)

// ProgressUI provides methods for rich terminal output
// What: Manages all user-facing terminal output with colors and formatting
// Why: Provides clear visual feedback during long-running installation processes
type ProgressUI struct {
	writer        io.Writer
	mu            sync.Mutex
	isInteractive bool
	noColor       bool
}

// NewProgressUI creates a new ProgressUI instance
// What: Constructor for ProgressUI with stdout as default writer
// Why: Centralizes UI creation and configuration
// Returns: Configured ProgressUI instance
// Example: ui := NewProgressUI()
func NewProgressUI() *ProgressUI {
	return &ProgressUI{
		writer:        os.Stdout,
		isInteractive: isTerminal(os.Stdout),
		noColor:       os.Getenv("NO_COLOR") != "",
	}
}

// color returns code unless NO_COLOR is set, per spec.md §6.
func (p *ProgressUI) color(code string) string {
	if p.noColor {
		return ""
	}
	return code
}

// PrintBanner prints the foreman welcome banner.
func (p *ProgressUI) PrintBanner() {
	p.mu.Lock()
	defer p.mu.Unlock()

	banner := `
┏━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┓
┃                                                    ┃
┃   ███████╗ ██████╗ ██████╗ ███████╗███╗   ███╗ █████╗ ███╗   ██╗ ┃
┃   ██╔════╝██╔═══██╗██╔══██╗██╔════╝████╗ ████║██╔══██╗████╗  ██║ ┃
┃   █████╗  ██║   ██║██████╔╝█████╗  ██╔████╔██║███████║██╔██╗ ██║ ┃
┃   ██╔══╝  ██║   ██║██╔══██╗██╔══╝  ██║╚██╔╝██║██╔══██║██║╚██╗██║ ┃
┃   ██║     ╚██████╔╝██║  ██║███████╗██║ ╚═╝ ██║██║  ██║██║ ╚████║ ┃
┃   ╚═╝      ╚═════╝ ╚═╝  ╚═╝╚══════╝╚═╝     ╚═╝╚═╝  ╚═╝╚═╝  ╚═══╝ ┃
┃                                                    ┃
┃   A multi-tool version manager for toolchains      ┃
┃   github.com/rkinnovate/foreman                    ┃
┃                                                    ┃
┗━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┛
`
	fmt.Fprint(p.writer, p.color(colorCyan)+banner+p.color(colorReset)+"\n")
}

// StartTask indicates a task is starting
// What: Prints task name with spinner/indicator
// Why: Shows which specific operation is currently running
// Params: taskName - human readable task description
// Example: ui.StartTask("Downloading rojo 7.3.0")
func (p *ProgressUI) StartTask(taskName string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.writer, "  %s⚡%s %s...\n", p.color(colorYellow), p.color(colorReset), taskName)
}

// CompleteTask marks a task as successfully completed
// What: Prints green checkmark with task name
// Why: Visual confirmation of successful completion
// Params: taskName - task that completed
// Example: ui.CompleteTask("Downloading rojo 7.3.0")
func (p *ProgressUI) CompleteTask(taskName string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.writer, "  %s✓%s %s\n", p.color(colorGreen), p.color(colorReset), taskName)
}

// FailTask marks a task as failed
// What: Prints red X with task name and error
// Why: Clear indication of failure for debugging
// Params: taskName - task that failed, err - error that occurred
// Example: ui.FailTask("Downloading rojo 7.3.0", err)
func (p *ProgressUI) FailTask(taskName string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.writer, "  %s✗%s %s: %v\n", p.color(colorRed), p.color(colorReset), taskName, err)
}

// Success prints a success message in green
// What: Prints formatted success message with checkmark
// Why: Highlights successful operations
// Params: format - printf-style format string, args - format arguments
// Example: ui.Success("Installation complete!")
func (p *ProgressUI) Success(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()

	message := fmt.Sprintf(format, args...)
	fmt.Fprintf(p.writer, "%s%s%s\n", p.color(colorGreen), message, p.color(colorReset))
}

// Error prints an error message in red
// What: Prints formatted error message with X symbol
// Why: Highlights errors for immediate attention
// Params: format - printf-style format string, args - format arguments
// Example: ui.Error("Installation failed: %v", err)
func (p *ProgressUI) Error(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()

	message := fmt.Sprintf(format, args...)
	fmt.Fprintf(p.writer, "%s%s%s\n", p.color(colorRed), message, p.color(colorReset))
}

// Warning prints a warning message in yellow
// What: Prints formatted warning message with warning symbol
// Why: Highlights non-critical issues that need attention
// Params: format - printf-style format string, args - format arguments
// Example: ui.Warning("Optional tool not available: %s", tool)
func (p *ProgressUI) Warning(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()

	message := fmt.Sprintf(format, args...)
	fmt.Fprintf(p.writer, "%s%s%s\n", p.color(colorYellow), message, p.color(colorReset))
}

// Info prints an informational message in default color
// What: Prints formatted info message
// Why: Provides context and instructions to user
// Params: format - printf-style format string, args - format arguments
// Example: ui.Info("Run 'foreman list' to check installation")
func (p *ProgressUI) Info(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()

	message := fmt.Sprintf(format, args...)
	fmt.Fprintf(p.writer, "%s\n", message)
}

// isTerminal checks if output is an interactive terminal
// What: Determines if stdout is connected to a terminal (not redirected)
// Why: Records whether output is piped (ProgressUI.isInteractive); only NO_COLOR turns colors off
// Params: w - writer to check (usually os.Stdout)
// Returns: true if interactive terminal, false if piped/redirected
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		fileInfo, err := f.Stat()
		if err != nil {
			return false
		}
		// Check if it's a character device (terminal)
		return (fileInfo.Mode() & os.ModeCharDevice) != 0
	}
	return false
}
