package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(0))
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(-1))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(1))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(2))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(5))
}

func TestInitializeJSON(t *testing.T) {
	err := Initialize(1, true)
	require.NoError(t, err)
	require.NotNil(t, Logger)

	// Wrappers must not panic after initialization.
	Infow("initialized", "mode", "json")
	Cleanup()
}

func TestInitializeConsole(t *testing.T) {
	err := Initialize(2, false)
	require.NoError(t, err)
	require.NotNil(t, Logger)

	Debugf("debug enabled at verbosity %d", 2)
	Cleanup()
}

func TestNamedLogger(t *testing.T) {
	require.NoError(t, Initialize(0, true))
	sub := Named("pipeline")
	require.NotNil(t, sub)
	sub.Debugw("named logger works")
}

func TestWrappersBeforeInitialize(t *testing.T) {
	// The package installs a nop logger in init; calling wrappers without
	// Initialize must be safe.
	Debug("nop")
	Info("nop")
	Warn("nop")
	Error("nop")
}
