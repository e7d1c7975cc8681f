package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-worker/pkg/config"
)

func TestInstallRuntimeRunsOnce(t *testing.T) {
	resetRuntime()
	t.Cleanup(resetRuntime)

	assert.False(t, RuntimeInstalled())

	require.NoError(t, InstallRuntime(config.RuntimeConfig{}, zap.NewNop()))
	assert.True(t, RuntimeInstalled())

	// Second install in the same process is a guarded no-op.
	require.NoError(t, InstallRuntime(config.RuntimeConfig{}, zap.NewNop()))
	assert.True(t, RuntimeInstalled())
}
