//go:build unit && !windows

package command

import (
	"context"
	"testing"

	"netprofiler/internal/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutorAdapter_Execute(t *testing.T) {
	executor := NewExecutorAdapter()

	t.Run("Success", func(t *testing.T) {
		out, err := executor.Execute(context.Background(), "echo", "hello")
		require.NoError(t, err)
		assert.Equal(t, "hello\n", string(out))
	})

	t.Run("FailureCarriesOutput", func(t *testing.T) {
		_, err := executor.Execute(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "command execution failed")
		assert.Contains(t, err.Error(), "boom")
		assert.NotErrorIs(t, err, port.ErrAccessDenied)
	})

	t.Run("ElevationMessage", func(t *testing.T) {
		_, err := executor.Execute(context.Background(), "sh", "-c",
			"echo 'The requested operation requires elevation (Run as administrator).'; exit 1")
		require.Error(t, err)
		assert.ErrorIs(t, err, port.ErrAccessDenied)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := executor.Execute(ctx, "sleep", "1")
		assert.Error(t, err)
	})
}
