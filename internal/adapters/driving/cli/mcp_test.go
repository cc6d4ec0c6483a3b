package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPCmd_Registered(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"mcp", "serve"})

	require.NoError(t, err)
	assert.Equal(t, "serve", cmd.Name())
	flag := cmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "0", flag.DefValue)
}

func TestMCPCmd_NoService(t *testing.T) {
	setupTestServices(t)
	SetServices(nil, nil, nil)

	_, err := executeCommand(t, "", "mcp", "serve")

	assert.Error(t, err)
}
