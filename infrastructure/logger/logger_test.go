package logger

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.log")
	l, err := New(Config{Level: "info", Outputs: []string{"file"}, OutputFile: path, Format: "json"})
	require.NoError(t, err)
	l.LogRun("run_done", map[string]interface{}{"steps": 3})
	assert.NoError(t, l.Close())
	assert.FileExists(t, path)
}

func TestLogTradeOnlyAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := Wrap(zap.New(core))
	l.LogTrade("buy", map[string]interface{}{"pair": 1})
	assert.Equal(t, 0, logs.Len(), "trade events are debug only")

	core, logs = observer.New(zapcore.DebugLevel)
	l = Wrap(zap.New(core))
	l.LogTrade("buy", map[string]interface{}{"pair": 1})
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "trade_event", entry.Message)
	assert.Equal(t, "buy", entry.ContextMap()["event"])
}

func TestLogErrorAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := Wrap(zap.New(core)).WithFields(map[string]interface{}{"strategy": "sequential"})
	l.LogError(errors.New("boom"), nil)
	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "boom", ctx["error"])
	assert.Equal(t, "sequential", ctx["strategy"])
}

func TestNop(t *testing.T) {
	l := Nop()
	l.LogRun("run_start", nil)
	l.LogTrade("sell", nil)
}
