package log

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/tiddly/internal/pubsub"
)

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", Level(99).String())
}

// The logger is a process-wide singleton behind sync.Once, so the whole
// lifecycle is exercised in one ordered test.
func TestLoggerLifecycle(t *testing.T) {
	require.Nil(t, NewListener(context.Background()), "no listener before Init")

	// Logging before Init is a silent no-op
	Info(CatUI, "dropped")

	path := filepath.Join(t.TempDir(), "debug.log")
	cleanup, err := Init(path)
	require.NoError(t, err)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	listener := NewListener(ctx)
	require.NotNil(t, listener)

	Info(CatUI, "pane focused", "pane", "sidebar")
	ErrorErr(CatDB, "query failed", assert.AnError, "op", "list")
	Warn(CatWatcher, "odd field count", "orphan")

	SetMinLevel(LevelWarn)
	Debug(CatCache, "filtered out")
	SetMinLevel(LevelDebug)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "[INFO] [ui] pane focused pane=sidebar")
	assert.Contains(t, out, "[ERROR] [db] query failed op=list error=")
	assert.Contains(t, out, "orphan=<missing>")
	assert.NotContains(t, out, "filtered out")

	// Entries also arrive on the broker for the log overlay
	msg := listener.Listen()()
	event, ok := msg.(pubsub.Event[string])
	require.True(t, ok)
	assert.Contains(t, event.Payload, "pane focused")
}
