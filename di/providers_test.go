package di

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/KOMKZ/go-yogan-calcul/config"
	"github.com/KOMKZ/go-yogan-calcul/container"
	"github.com/KOMKZ/go-yogan-calcul/dao"
	"github.com/KOMKZ/go-yogan-calcul/errcode"
	"github.com/KOMKZ/go-yogan-calcul/logger"
	"github.com/KOMKZ/go-yogan-calcul/metier"
	"github.com/KOMKZ/go-yogan-calcul/redis"
	"github.com/KOMKZ/go-yogan-calcul/telemetry"
	"github.com/KOMKZ/go-yogan-calcul/validator"
	"github.com/alicebob/miniredis/v2"
	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	return dir
}

func newInjector(t *testing.T, opts ConfigOptions) *do.RootScope {
	t.Helper()
	if opts.LogOutput == nil {
		opts.LogOutput = io.Discard
	}
	injector := do.New()
	RegisterCoreProviders(injector, opts)
	t.Cleanup(func() { injector.Shutdown() })
	return injector
}

func bootstrap(t *testing.T, injector *do.RootScope) (*container.Container, error) {
	t.Helper()
	c, err := do.Invoke[*container.Container](injector)
	require.NoError(t, err)
	return c, c.Bootstrap(context.Background())
}

func compute(t *testing.T, c *container.Container) float64 {
	t.Helper()
	calc, err := container.Resolve[metier.Calculator](context.Background(), c, CapabilityCalculator)
	require.NoError(t, err)
	v, err := calc.Compute(context.Background())
	require.NoError(t, err)
	return v
}

// TestProvideConfigLoader_Defaults 无配置文件时使用内置默认值
func TestProvideConfigLoader_Defaults(t *testing.T) {
	injector := newInjector(t, ConfigOptions{ConfigPath: t.TempDir()})

	loader, err := do.Invoke[*config.Loader](injector)
	require.NoError(t, err)
	assert.Equal(t, "static", loader.GetString("dao.driver"))
	assert.Equal(t, 2.0, loader.GetFloat64("dao.value"))
	assert.True(t, loader.GetBool("logger.enable_console"))
}

// TestProvideConfigLoader_Priority flag > env > file > defaults
func TestProvideConfigLoader_Priority(t *testing.T) {
	dir := writeConfig(t, "dao:\n  value: 3\n")

	t.Run("file", func(t *testing.T) {
		loader, err := do.Invoke[*config.Loader](newInjector(t, ConfigOptions{ConfigPath: dir}))
		require.NoError(t, err)
		assert.Equal(t, 3.0, loader.GetFloat64("dao.value"))
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("CALCUL_DAO_VALUE", "4")
		loader, err := do.Invoke[*config.Loader](newInjector(t, ConfigOptions{ConfigPath: dir}))
		require.NoError(t, err)
		assert.Equal(t, 4.0, loader.GetFloat64("dao.value"))
	})

	t.Run("flag over env", func(t *testing.T) {
		t.Setenv("CALCUL_DAO_VALUE", "4")
		zero := 0.0
		flags := &struct {
			Value *float64 `config:"dao.value"`
		}{Value: &zero}

		loader, err := do.Invoke[*config.Loader](newInjector(t, ConfigOptions{ConfigPath: dir, Flags: flags}))
		require.NoError(t, err)
		assert.Equal(t, 0.0, loader.GetFloat64("dao.value"))
	})
}

// TestProvideLoggerManager_InvalidLevel 非法日志级别 -> 配置错误
func TestProvideLoggerManager_InvalidLevel(t *testing.T) {
	injector := newInjector(t, ConfigOptions{ConfigPath: writeConfig(t, "logger:\n  level: verbose\n")})

	_, err := do.Invoke[*logger.Manager](injector)
	require.Error(t, err)
	assert.ErrorIs(t, err, validator.ErrInvalidConfig)
	assert.Equal(t, 5, errcode.ExitCode(err))
}

// TestProvideCtxLogger 命名 logger
func TestProvideCtxLogger(t *testing.T) {
	injector := newInjector(t, ConfigOptions{})

	log, err := do.Invoke[*logger.CtxZapLogger](injector)
	require.NoError(t, err)
	assert.Equal(t, "calcul", log.Module())
}

// TestWiring_Static 默认装配：static 2.0
func TestWiring_Static(t *testing.T) {
	c, err := bootstrap(t, newInjector(t, ConfigOptions{}))
	require.NoError(t, err)

	assert.Equal(t, []string{CapabilityDataSource, CapabilityCalculator}, c.Capabilities())
	assert.Equal(t, container.Resolved, c.State(CapabilityDataSource))
	assert.Equal(t, metier.Formula(2.0), compute(t, c))
}

// TestWiring_SameInstance 单例
func TestWiring_SameInstance(t *testing.T) {
	c, err := bootstrap(t, newInjector(t, ConfigOptions{}))
	require.NoError(t, err)

	first, err := c.Resolve(context.Background(), CapabilityCalculator)
	require.NoError(t, err)
	second, err := c.Resolve(context.Background(), CapabilityCalculator)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

// TestWiring_File file 驱动
func TestWiring_File(t *testing.T) {
	valueFile := filepath.Join(t.TempDir(), "t.txt")
	require.NoError(t, os.WriteFile(valueFile, []byte("1.5\n"), 0o644))
	dir := writeConfig(t, fmt.Sprintf("dao:\n  driver: file\n  path: %q\n", valueFile))

	c, err := bootstrap(t, newInjector(t, ConfigOptions{ConfigPath: dir}))
	require.NoError(t, err)
	assert.Equal(t, metier.Formula(1.5), compute(t, c))
}

// TestWiring_Redis redis 驱动，连接按需创建
func TestWiring_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("sensor:t", "0.5"))

	dir := writeConfig(t, fmt.Sprintf(`
dao:
  driver: redis
  key: "sensor:t"
  connection: main
redis:
  instances:
    main:
      addr: %q
`, mr.Addr()))

	injector := newInjector(t, ConfigOptions{ConfigPath: dir})
	c, err := bootstrap(t, injector)
	require.NoError(t, err)
	assert.Equal(t, metier.Formula(0.5), compute(t, c))

	mgr, err := do.Invoke[*redis.Manager](injector)
	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, mgr.Names())

	// 数据在运行时读取：key 删除后 Compute 返回 DataUnavailable
	mr.Del("sensor:t")
	calc, err := container.Resolve[metier.Calculator](context.Background(), c, CapabilityCalculator)
	require.NoError(t, err)
	_, err = calc.Compute(context.Background())
	assert.ErrorIs(t, err, dao.ErrDataUnavailable)
	assert.Equal(t, dao.ExitDataUnavailable, errcode.ExitCode(err))
}

// TestWiring_RedisUnknownConnection dao.connection 指向未配置的实例
func TestWiring_RedisUnknownConnection(t *testing.T) {
	dir := writeConfig(t, "dao:\n  driver: redis\n  key: t\n  connection: missing\n")

	_, err := bootstrap(t, newInjector(t, ConfigOptions{ConfigPath: dir}))
	require.Error(t, err)
	assert.True(t, container.IsResolutionError(err))
	assert.ErrorIs(t, err, redis.ErrInstanceNotFound)
	assert.Equal(t, 5, errcode.ExitCode(err))
}

// TestWiring_Database database 驱动（sqlite 文件）
func TestWiring_Database(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "calcul.db")
	seed, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, seed.AutoMigrate(&dao.Measurement{}))
	require.NoError(t, seed.Create(&dao.Measurement{Key: "t", Value: 0.25}).Error)
	sqlDB, _ := seed.DB()
	require.NoError(t, sqlDB.Close())

	dir := writeConfig(t, fmt.Sprintf(`
dao:
  driver: database
  key: t
database:
  connections:
    default:
      driver: sqlite
      dsn: %q
`, dbPath))

	c, err := bootstrap(t, newInjector(t, ConfigOptions{ConfigPath: dir}))
	require.NoError(t, err)
	assert.Equal(t, metier.Formula(0.25), compute(t, c))
}

// TestWiring_InvalidDataSourceConfig 非法 dao 配置 -> 退出码 5
func TestWiring_InvalidDataSourceConfig(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{"unknown driver", "dao:\n  driver: http\n"},
		{"file without path", "dao:\n  driver: file\n"},
		{"redis without key", "dao:\n  driver: redis\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := bootstrap(t, newInjector(t, ConfigOptions{ConfigPath: writeConfig(t, tt.config)}))
			require.Error(t, err)
			assert.True(t, container.IsResolutionError(err))
			assert.ErrorIs(t, err, validator.ErrInvalidConfig)
			assert.Equal(t, 5, errcode.ExitCode(err))
			assert.Equal(t, container.Unresolved, c.State(CapabilityDataSource))
		})
	}
}

// TestProvideTelemetryManager 默认关闭；开启时 span 写入 LogOutput
func TestProvideTelemetryManager(t *testing.T) {
	t.Run("disabled by default", func(t *testing.T) {
		injector := newInjector(t, ConfigOptions{ConfigPath: t.TempDir()})

		m, err := do.Invoke[*telemetry.Manager](injector)
		require.NoError(t, err)
		assert.False(t, m.IsEnabled())
	})

	t.Run("invalid exporter", func(t *testing.T) {
		dir := writeConfig(t, "telemetry:\n  enabled: true\n  exporter:\n    type: zipkin\n")
		injector := newInjector(t, ConfigOptions{ConfigPath: dir})

		_, err := do.Invoke[*telemetry.Manager](injector)
		require.Error(t, err)
		assert.ErrorIs(t, err, validator.ErrInvalidConfig)
		assert.Equal(t, 5, errcode.ExitCode(err))
	})

	t.Run("stdout exporter", func(t *testing.T) {
		var buf bytes.Buffer
		dir := writeConfig(t, "telemetry:\n  enabled: true\n  service_name: calcul-di\n")
		injector := newInjector(t, ConfigOptions{ConfigPath: dir, LogOutput: &buf})

		m, err := do.Invoke[*telemetry.Manager](injector)
		require.NoError(t, err)
		assert.True(t, m.IsEnabled())

		_, span := m.Tracer("di-test").Start(context.Background(), "di.span")
		span.End()
		require.NoError(t, m.Shutdown())
		assert.Contains(t, buf.String(), "di.span")
	})
}
