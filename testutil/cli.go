// Package testutil 测试辅助：临时配置目录、SQLite 测试库、内存 Logger
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/KOMKZ/go-yogan-calcul/database"
	"github.com/KOMKZ/go-yogan-calcul/logger"
	"gopkg.in/yaml.v3"
)

// CLITestContext CLI 测试上下文
// 封装 CLI 测试需要的基础组件
type CLITestContext struct {
	Logger    *logger.TestCtxLogger
	DBManager *database.Manager
	// Measurements 已迁移的 measurements 表
	Measurements *MeasurementStore

	// ConfigDir 临时配置目录（config.yaml 已写入）
	ConfigDir string
	// DBPath 默认 SQLite 文件路径
	DBPath string
}

// CLITestOptions CLI 测试选项
type CLITestOptions struct {
	// Config 写入 config.yaml 的配置（database.connections 会自动补充 default）
	Config map[string]interface{}

	// SetupFunc 基础初始化完成后调用
	SetupFunc func(*CLITestContext) error
}

// NewCLITestContext 一站式创建 CLI 测试上下文
//
//	tc, cleanup := testutil.NewCLITestContext(t, testutil.CLITestOptions{
//	    Config: map[string]interface{}{"dao": map[string]interface{}{"driver": "database", "key": "t"}},
//	})
//	defer cleanup()
//	require.NoError(t, tc.Measurements.Put(ctx, "t", 2))
//
// 默认数据库是临时目录下的 SQLite 文件，被测应用通过同一 DSN 访问
func NewCLITestContext(t *testing.T, opts CLITestOptions) (*CLITestContext, func()) {
	t.Helper()

	tc := &CLITestContext{
		Logger:    logger.NewTestCtxLogger(),
		ConfigDir: t.TempDir(),
	}
	tc.DBPath = filepath.Join(tc.ConfigDir, "calcul.db")
	dbConfig := database.Config{Driver: "sqlite", DSN: tc.DBPath}

	mgr, err := database.NewManager(context.Background(), map[string]database.Config{"default": dbConfig}, tc.Logger)
	if err != nil {
		t.Fatalf("failed to create database manager: %v", err)
	}
	tc.DBManager = mgr

	db, err := mgr.DB("default")
	if err != nil {
		t.Fatalf("failed to get database: %v", err)
	}
	tc.Measurements, err = NewMeasurementStore(context.Background(), db)
	if err != nil {
		t.Fatalf("failed to migrate measurements: %v", err)
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = map[string]interface{}{}
	}
	if _, ok := cfg["database"]; !ok {
		cfg["database"] = map[string]interface{}{
			"connections": map[string]interface{}{
				"default": map[string]interface{}{"driver": dbConfig.Driver, "dsn": dbConfig.DSN},
			},
		}
	}
	if err := WriteConfig(tc.ConfigDir, "config.yaml", cfg); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if opts.SetupFunc != nil {
		if err := opts.SetupFunc(tc); err != nil {
			t.Fatalf("setup func failed: %v", err)
		}
	}

	cleanup := func() {
		_ = mgr.Close()
	}
	return tc, cleanup
}

// WriteConfig 以 YAML 写入配置文件
func WriteConfig(dir, name string, values map[string]interface{}) error {
	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	return os.WriteFile(filepath.Join(dir, name), data, 0o644)
}

// TempConfigDir 创建临时配置目录并写入 name -> YAML 文本
func TempConfigDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}
