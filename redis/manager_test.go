package redis

import (
	"context"
	"testing"

	"github.com/KOMKZ/go-yogan-calcul/logger"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewManager_Standalone connects to miniredis
func TestNewManager_Standalone(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	rec := logger.NewTestCtxLogger()

	m, err := NewManager(ctx, map[string]Config{"main": {Addr: mr.Addr()}}, rec)
	require.NoError(t, err)
	defer m.Shutdown()

	client, err := m.Client("main")
	require.NoError(t, err)
	require.NoError(t, client.Set(ctx, "sensor:t", "2.5", 0).Err())

	got, err := mr.Get("sensor:t")
	require.NoError(t, err)
	assert.Equal(t, "2.5", got)

	assert.Equal(t, []string{"main"}, m.Names())
	assert.NoError(t, m.Ping(ctx))
	assert.True(t, rec.HasLogWithField("DEBUG", "Redis connection successful", "name", "main"))
}

// TestNewManager_Unreachable fails on ping
func TestNewManager_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewManager(context.Background(), map[string]Config{"main": {Addr: addr, MaxRetries: -1}}, logger.NewTestCtxLogger())
	assert.ErrorIs(t, err, ErrConnectionFailed)
}

// TestNewManager_InvalidConfig rejects bad modes and missing addresses
func TestNewManager_InvalidConfig(t *testing.T) {
	ctx := context.Background()

	_, err := NewManager(ctx, map[string]Config{"main": {Mode: "sentinel", Addr: "x:1"}}, logger.NewTestCtxLogger())
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewManager(ctx, map[string]Config{"main": {}}, logger.NewTestCtxLogger())
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewManager(ctx, map[string]Config{"main": {Addr: "x:1", DB: 16}}, logger.NewTestCtxLogger())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

// TestManager_Client_NotFound unknown instance
func TestManager_Client_NotFound(t *testing.T) {
	m, err := NewManager(context.Background(), nil, logger.NewTestCtxLogger())
	require.NoError(t, err)

	_, err = m.Client("main")
	assert.ErrorIs(t, err, ErrInstanceNotFound)
	assert.NoError(t, m.Shutdown())
}

// TestConfig_ApplyDefaults addr shorthand and pool defaults
func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{Addr: "127.0.0.1:6379"}
	cfg.ApplyDefaults()

	assert.Equal(t, "standalone", cfg.Mode)
	assert.Equal(t, []string{"127.0.0.1:6379"}, cfg.Addrs)
	assert.Equal(t, 4, cfg.PoolSize)
	assert.NoError(t, cfg.Validate())
}
