package logger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBufferedManager(t *testing.T, cfg ManagerConfig) (*Manager, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	m := NewManager(cfg, WithConsoleWriter(buf))
	t.Cleanup(func() { _ = m.Shutdown() })
	return m, buf
}

// TestManager_GetLogger_Cached returns the same instance per module
func TestManager_GetLogger_Cached(t *testing.T) {
	m, _ := newBufferedManager(t, DefaultManagerConfig())

	a := m.GetLogger("container")
	b := m.GetLogger("container")
	c := m.GetLogger("dao")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, "container", a.Module())
}

// TestManager_ConsoleOutput enriches entries with module, app_name and trace_id
func TestManager_ConsoleOutput(t *testing.T) {
	cfg := DefaultManagerConfig()
	cfg.Encoding = "json"
	cfg.AppName = "calcul-test"
	m, buf := newBufferedManager(t, cfg)

	ctx := WithTraceID(context.Background(), "run-123")
	m.InfoCtx(ctx, "presentation", "result printed", zap.Float64("value", 1.5))

	out := buf.String()
	assert.Contains(t, out, `"module":"presentation"`)
	assert.Contains(t, out, `"app_name":"calcul-test"`)
	assert.Contains(t, out, `"trace_id":"run-123"`)
	assert.Contains(t, out, `"value":1.5`)
}

// TestManager_LevelFilter drops entries below the configured level
func TestManager_LevelFilter(t *testing.T) {
	cfg := DefaultManagerConfig()
	cfg.Level = "warn"
	m, buf := newBufferedManager(t, cfg)

	l := m.GetLogger("container")
	l.InfoCtx(context.Background(), "hidden")
	l.WarnCtx(context.Background(), "visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
}

// TestManager_ConsoleDisabled writes nothing
func TestManager_ConsoleDisabled(t *testing.T) {
	cfg := DefaultManagerConfig()
	cfg.EnableConsole = false
	m, buf := newBufferedManager(t, cfg)

	m.InfoCtx(context.Background(), "dao", "nothing")
	assert.Zero(t, buf.Len())
}

// TestManager_FileOutput splits info and error files
func TestManager_FileOutput(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultManagerConfig()
	cfg.EnableConsole = false
	cfg.EnableFile = true
	cfg.EnableDateInFilename = false
	cfg.BaseLogDir = dir
	cfg.Encoding = "json"

	m := NewManager(cfg)
	ctx := context.Background()
	m.InfoCtx(ctx, "dao", "value loaded")
	m.ErrorCtx(ctx, "dao", "value missing")
	require.NoError(t, m.Shutdown())

	info, err := os.ReadFile(filepath.Join(dir, "dao", "dao-info.log"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "value loaded")
	assert.NotContains(t, string(info), "value missing")

	errLog, err := os.ReadFile(filepath.Join(dir, "dao", "dao-error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(errLog), "value missing")
	assert.Contains(t, string(errLog), `"stack"`)
}

// TestManager_Shutdown_Idempotent can be called twice
func TestManager_Shutdown_Idempotent(t *testing.T) {
	m := NewManager(DefaultManagerConfig(), WithConsoleWriter(&bytes.Buffer{}))
	m.GetLogger("container")

	assert.NoError(t, m.Shutdown())
	assert.NoError(t, m.Shutdown())
}
