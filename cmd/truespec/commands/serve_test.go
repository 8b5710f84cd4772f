package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupServeFlags(t *testing.T) {
	fs, flags := SetupServeFlags()

	require.NoError(t, fs.Parse([]string{"--listen", ":9090", "--log-level", "debug", "--log-format", "json"}))
	assert.Equal(t, ":9090", flags.Listen)
	assert.Equal(t, "debug", flags.LogLevel)
	assert.Equal(t, "json", flags.LogFormat)
}

func TestSetupServeFlagsDefaults(t *testing.T) {
	fs, flags := SetupServeFlags()
	require.NoError(t, fs.Parse(nil))
	assert.Empty(t, flags.Listen)
	assert.Equal(t, "info", flags.LogLevel)
	assert.Equal(t, "text", flags.LogFormat)
}

func TestHandleServeInvalidLogConfig(t *testing.T) {
	err := HandleServe(context.Background(), []string{"--log-level", "verbose"})
	assert.Error(t, err)
}

func TestHandleServeBadStoreConfig(t *testing.T) {
	// An empty connection string cannot construct the table stores.
	t.Setenv("REPORTS_STORAGE_CONNECTION_STRING", "")
	t.Setenv("AzureWebJobsStorage", "")

	err := HandleServe(context.Background(), nil)
	assert.Error(t, err)
}
