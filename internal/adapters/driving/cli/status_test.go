package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCmd_ShowsIndexedDocuments(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	indexStats = &mockIndex{
		count:    9,
		bySource: map[string]int{"guide.md": 5, "api.txt": 4},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Indexed chunks: 9")
	assert.Contains(t, buf.String(), "api.txt (4 chunks)")
	assert.Contains(t, buf.String(), "guide.md (5 chunks)")
}

func TestStatusCmd_EmptyIndex(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	indexStats = &mockIndex{}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No documents indexed")
}

func TestStatusCmd_PingOK(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status", "--ping"})
	defer func() {
		rootCmd.SetArgs(nil)
		statusPing = false // Reset flag
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "OK")
}

func TestStatusCmd_PingFailure(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	assistant = &mockAssistant{pingErr: errProviderDown}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"status", "--ping"})
	defer func() {
		rootCmd.SetArgs(nil)
		statusPing = false // Reset flag
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, buf.String(), "FAILED")
}
