package cli

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ccv-cli/internal/logger"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	logger.SetOutput(buf)
	t.Cleanup(func() {
		logger.SetOutput(os.Stderr)
		logger.SetVerbose(false)
		startupLogs = nil
	})
	return buf
}

func TestStartupLogs_ShownWithVerbose(t *testing.T) {
	setupTestServices(t)
	logs := captureLogs(t)

	StartupWarn("Config directory unavailable, settings will not persist: %s", "read-only")
	StartupDebug("Pruned %d expired embeddings", 3)

	_, err := executeCommand(t, "", "version", "--verbose")

	require.NoError(t, err)
	assert.Contains(t, logs.String(), "Config directory unavailable, settings will not persist: read-only")
	assert.Contains(t, logs.String(), "Pruned 3 expired embeddings")
	assert.Empty(t, startupLogs)
}

func TestStartupLogs_SilentWithoutVerbose(t *testing.T) {
	setupTestServices(t)
	logs := captureLogs(t)

	StartupWarn("Analysis disabled: %s", "no backend")

	_, err := executeCommand(t, "", "version")

	require.NoError(t, err)
	assert.NotContains(t, logs.String(), "Analysis disabled")
	assert.Empty(t, startupLogs)
}
