package application

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KOMKZ/go-yogan-calcul/container"
	"github.com/KOMKZ/go-yogan-calcul/errcode"
	"github.com/KOMKZ/go-yogan-calcul/logger"
	"github.com/KOMKZ/go-yogan-calcul/validator"
	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configDir(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if content != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	}
	return dir
}

// TestNewBase test creating a base application instance
func TestNewBase(t *testing.T) {
	app, err := NewBase(Options{ConfigDir: configDir(t, ""), LogOutput: io.Discard})
	require.NoError(t, err)
	defer app.Shutdown(time.Second)

	assert.Equal(t, StateInit, app.GetState())
	assert.NotNil(t, app.GetInjector())
	assert.NotNil(t, app.MustGetLogger())
	assert.NotNil(t, app.GetConfigLoader())
	assert.NotEmpty(t, app.TraceID())
	assert.Equal(t, app.TraceID(), logger.TraceIDFromContext(app.Context()))
}

// TestNewBase_TraceIDPerRun 每次运行一个 trace id
func TestNewBase_TraceIDPerRun(t *testing.T) {
	first, err := NewBase(Options{LogOutput: io.Discard})
	require.NoError(t, err)
	second, err := NewBase(Options{LogOutput: io.Discard})
	require.NoError(t, err)

	assert.NotEqual(t, first.TraceID(), second.TraceID())
	_ = first.Shutdown(time.Second)
	_ = second.Shutdown(time.Second)
}

// TestNewBase_InvalidLoggerConfig 非法日志配置 -> 退出码 5
func TestNewBase_InvalidLoggerConfig(t *testing.T) {
	_, err := NewBase(Options{ConfigDir: configDir(t, "logger:\n  encoding: xml\n"), LogOutput: io.Discard})
	require.Error(t, err)
	assert.ErrorIs(t, err, validator.ErrInvalidConfig)
	assert.Equal(t, 5, errcode.ExitCode(err))
}

// TestBaseApplication_WithVersion test version settings
func TestBaseApplication_WithVersion(t *testing.T) {
	app, err := NewBase(Options{LogOutput: io.Discard})
	require.NoError(t, err)
	defer app.Shutdown(time.Second)

	app.WithVersion("v1.2.3")
	assert.Equal(t, "v1.2.3", app.GetVersion())
}

// TestBaseApplication_Lifecycle Init -> Setup -> Stopped
func TestBaseApplication_Lifecycle(t *testing.T) {
	app, err := NewBase(Options{LogOutput: io.Discard})
	require.NoError(t, err)

	setupCalled := false
	app.OnSetup(func(b *BaseApplication) error {
		setupCalled = true
		assert.Equal(t, StateSetup, b.GetState())
		return nil
	})

	var shutdownCalled bool
	app.OnShutdown(func(ctx context.Context) error {
		shutdownCalled = true
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return errors.New("logged, not returned")
	})

	require.NoError(t, app.Setup())
	assert.True(t, setupCalled)
	assert.True(t, app.Container().Sealed())
	assert.Equal(t, container.Resolved, app.Container().State("metier"))

	require.NoError(t, app.Shutdown(time.Second))
	assert.True(t, shutdownCalled)
	assert.Equal(t, StateStopped, app.GetState())
	assert.Error(t, app.Context().Err())
}

// TestBaseApplication_SetupFailure 装配失败在 Setup 暴露
func TestBaseApplication_SetupFailure(t *testing.T) {
	app, err := NewBase(Options{ConfigDir: configDir(t, "dao:\n  driver: file\n"), LogOutput: io.Discard})
	require.NoError(t, err)
	defer app.Shutdown(time.Second)

	err = app.Setup()
	require.Error(t, err)
	assert.True(t, container.IsResolutionError(err))
	assert.Equal(t, 5, errcode.ExitCode(err))
	assert.Panics(t, func() { app.Container() })
}

// TestBaseApplication_OnSetupError 回调错误
func TestBaseApplication_OnSetupError(t *testing.T) {
	app, err := NewBase(Options{LogOutput: io.Discard})
	require.NoError(t, err)
	defer app.Shutdown(time.Second)

	app.OnSetup(func(*BaseApplication) error { return errors.New("boom") })
	assert.ErrorContains(t, app.Setup(), "onSetup failed")
}

// TestBaseApplication_LogsCarryTraceID 日志携带 trace id
func TestBaseApplication_LogsCarryTraceID(t *testing.T) {
	var logs bytes.Buffer
	dir := configDir(t, "logger:\n  level: debug\n  encoding: json\n")

	app, err := NewBase(Options{ConfigDir: dir, LogOutput: &logs})
	require.NoError(t, err)
	require.NoError(t, app.Setup())
	require.NoError(t, app.Shutdown(time.Second))

	assert.Contains(t, logs.String(), app.TraceID())
	assert.Contains(t, logs.String(), "container bootstrapped")
}

// TestBaseApplication_ShutdownTimeout 关闭超时
func TestBaseApplication_ShutdownTimeout(t *testing.T) {
	app, err := NewBase(Options{LogOutput: io.Discard})
	require.NoError(t, err)

	block := make(chan struct{})
	t.Cleanup(func() { close(block) })
	app.OnShutdown(func(context.Context) error {
		<-block
		return nil
	})

	err = app.Shutdown(20 * time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StateStopping, app.GetState())
}

// failingCloser 关闭时返回错误的注入器服务
type failingCloser struct{}

func (failingCloser) Shutdown() error {
	return errors.New("close failed")
}

// TestBaseApplication_ShutdownClean 正常关闭不记录错误日志
func TestBaseApplication_ShutdownClean(t *testing.T) {
	var logs bytes.Buffer
	app, err := NewBase(Options{ConfigDir: t.TempDir(), LogOutput: &logs})
	require.NoError(t, err)
	require.NoError(t, app.Setup())

	require.NoError(t, app.Shutdown(time.Second))
	assert.Equal(t, StateStopped, app.GetState())
	assert.NotContains(t, logs.String(), "DI container shutdown failed")
}

// TestBaseApplication_ShutdownError 组件关闭失败时返回错误
func TestBaseApplication_ShutdownError(t *testing.T) {
	var logs bytes.Buffer
	app, err := NewBase(Options{ConfigDir: t.TempDir(), LogOutput: &logs})
	require.NoError(t, err)
	require.NoError(t, app.Setup())
	do.ProvideValue(app.GetInjector(), failingCloser{})

	err = app.Shutdown(time.Second)
	require.Error(t, err)
	assert.ErrorContains(t, err, "close failed")
	assert.Equal(t, StateStopped, app.GetState())
	assert.Contains(t, logs.String(), "DI container shutdown failed")
}

// TestAppState_String 状态字符串
func TestAppState_String(t *testing.T) {
	tests := []struct {
		state AppState
		want  string
	}{
		{StateInit, "Init"},
		{StateSetup, "Setup"},
		{StateRunning, "Running"},
		{StateStopping, "Stopping"},
		{StateStopped, "Stopped"},
		{AppState(99), "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}

func writeFile(dir, name, content string) error {
	return os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)
}
