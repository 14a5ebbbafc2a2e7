package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_StderrOnly(t *testing.T) {
	require.NoError(t, Init(Config{Level: "debug", Prefix: "test"}))
	require.NotNil(t, Logger)
	assert.Equal(t, log.DebugLevel, Logger.GetLevel())

	Debug("debug message", "key", "value")
	Info("info message")
}

func TestInit_WritesToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "vitema.log")

	require.NoError(t, Init(Config{Level: "info", File: logFile, Quiet: true}))
	Info("written to file", "account", "acc-1")
	Debug("filtered out")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
	assert.Contains(t, string(data), "acc-1")
	assert.NotContains(t, string(data), "filtered out")
}

func TestInit_InvalidLevel(t *testing.T) {
	assert.Error(t, Init(Config{Level: "loud"}))
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
	assert.Nil(t, With("key", "value"))
}
