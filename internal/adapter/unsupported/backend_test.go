//go:build unit

package unsupported

import (
	"context"
	"testing"

	"netprofiler/internal/types"

	"github.com/stretchr/testify/assert"
)

func TestBackend(t *testing.T) {
	b := NewBackend("plan9")
	assert.Equal(t, "unsupported", b.Name())

	_, err := b.ReadState(context.Background(), "eth0")
	assert.True(t, types.IsUnsupportedPlatformError(err))
	assert.Contains(t, err.Error(), "plan9")

	err = b.ApplyState(context.Background(), "eth0", types.DHCPState())
	assert.True(t, types.IsUnsupportedPlatformError(err))
	assert.False(t, types.IsApplyError(err))
}
