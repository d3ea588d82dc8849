package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDevelopmentEnablesDebug(t *testing.T) {
	flush := Init(Options{Development: true})
	require.NotNil(t, flush)
	flush()

	require.NotNil(t, Log)
	assert.Same(t, Log, slog.Default())
	assert.True(t, Log.Enabled(t.Context(), slog.LevelDebug))
}

func TestInitProductionIsInfo(t *testing.T) {
	Init(Options{Environment: "production"})

	assert.False(t, Log.Enabled(t.Context(), slog.LevelDebug))
	assert.True(t, Log.Enabled(t.Context(), slog.LevelInfo))
}
