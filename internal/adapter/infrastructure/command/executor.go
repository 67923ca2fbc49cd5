// Package command provides the system command executor adapter implementation.
package command

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"netprofiler/internal/port"
)

// ExecutorAdapter is an adapter that implements the CommandExecutor port using os/exec.
type ExecutorAdapter struct{}

// Ensure ExecutorAdapter implements the CommandExecutor port
var _ port.CommandExecutor = (*ExecutorAdapter)(nil)

// NewExecutorAdapter creates a new command executor adapter.
func NewExecutorAdapter() *ExecutorAdapter {
	return &ExecutorAdapter{}
}

// Execute runs command and returns its standard output. On failure the
// error carries both output streams, since tools like netsh report errors on stdout.
func (e *ExecutorAdapter) Execute(ctx context.Context, command string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		output := strings.TrimSpace(stdout.String() + " " + stderr.String())
		if isElevationMessage(output) {
			err = fmt.Errorf("%w: %w", port.ErrAccessDenied, err)
		}
		return stdout.Bytes(), fmt.Errorf("command execution failed: %s %s: %w, output: %s",
			command, strings.Join(args, " "), err, output)
	}

	return stdout.Bytes(), nil
}

func isElevationMessage(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "requires elevation") ||
		strings.Contains(lower, "access is denied") ||
		strings.Contains(lower, "operation not permitted")
}
