package di

import (
	"context"
	"io"

	"github.com/KOMKZ/go-yogan-calcul/config"
	"github.com/KOMKZ/go-yogan-calcul/container"
	"github.com/KOMKZ/go-yogan-calcul/dao"
	"github.com/KOMKZ/go-yogan-calcul/database"
	"github.com/KOMKZ/go-yogan-calcul/logger"
	"github.com/KOMKZ/go-yogan-calcul/redis"
	"github.com/KOMKZ/go-yogan-calcul/telemetry"
	"github.com/KOMKZ/go-yogan-calcul/validator"
	"github.com/samber/do/v2"
)

// ============================================
// 基础组件 Provider（Config, Logger）
// ============================================

// ConfigOptions 配置组件选项
type ConfigOptions struct {
	ConfigPath   string      // 配置目录路径
	ConfigPrefix string      // 环境变量前缀
	Env          string      // 运行环境，空则读取 APP_ENV / ENV
	Flags        interface{} // 命令行参数（config 标签）

	// LogOutput console 日志输出，默认 stderr
	LogOutput io.Writer
}

// DefaultConfigValues built-in configuration, overridden by every other source
func DefaultConfigValues() map[string]interface{} {
	lc := logger.DefaultManagerConfig()
	dc := dao.DefaultConfig()
	return map[string]interface{}{
		"logger": map[string]interface{}{
			"level":             lc.Level,
			"app_name":          lc.AppName,
			"encoding":          lc.Encoding,
			"enable_console":    lc.EnableConsole,
			"enable_file":       lc.EnableFile,
			"enable_caller":     lc.EnableCaller,
			"enable_stacktrace": lc.EnableStacktrace,
			"enable_trace_id":   lc.EnableTraceID,
		},
		"dao": map[string]interface{}{
			"driver":     dc.Driver,
			"value":      dc.Value,
			"connection": dc.Connection,
		},
	}
}

// ProvideConfigLoader 创建 config.Loader 的 Provider（无依赖）
func ProvideConfigLoader(opts ConfigOptions) func(do.Injector) (*config.Loader, error) {
	return func(i do.Injector) (*config.Loader, error) {
		if opts.ConfigPrefix == "" {
			opts.ConfigPrefix = "CALCUL"
		}

		return config.NewLoaderBuilder().
			WithDefaults(DefaultConfigValues()).
			WithConfigPath(opts.ConfigPath).
			WithEnv(opts.Env).
			WithEnvPrefix(opts.ConfigPrefix).
			WithFlags(opts.Flags).
			Build()
	}
}

// ProvideLoggerManager 创建 logger.Manager 的 Provider
// 依赖：config.Loader（配置键 logger）；配置非法时返回 ErrInvalidConfig
func ProvideLoggerManager(opts ...logger.ManagerOption) func(do.Injector) (*logger.Manager, error) {
	return func(i do.Injector) (*logger.Manager, error) {
		loader, err := do.Invoke[*config.Loader](i)
		if err != nil {
			// 无配置时使用默认配置
			return logger.NewManager(logger.DefaultManagerConfig(), opts...), nil
		}

		var cfg logger.ManagerConfig
		if err := loader.UnmarshalKey("logger", &cfg); err != nil {
			return nil, validator.ErrInvalidConfig.Wrapf(err, "解析 logger 配置失败").WithData("section", "logger")
		}
		cfg.ApplyDefaults()
		if err := validator.ValidateSection("logger", cfg); err != nil {
			return nil, err
		}

		return logger.NewManager(cfg, opts...), nil
	}
}

// ProvideCtxLogger 创建命名 CtxZapLogger 的 Provider 工厂
func ProvideCtxLogger(moduleName string) func(do.Injector) (*logger.CtxZapLogger, error) {
	return func(i do.Injector) (*logger.CtxZapLogger, error) {
		mgr, err := do.Invoke[*logger.Manager](i)
		if err != nil {
			return nil, err
		}
		return mgr.GetLogger(moduleName), nil
	}
}

// ============================================
// 基础设施 Provider（Database, Redis）
// 懒加载：只有 dao 选中对应驱动时才会被调用
// ============================================

// ProvideDatabaseManager 创建 database.Manager 的 Provider
// 依赖：config.Loader（database.connections）、logger.Manager
func ProvideDatabaseManager(i do.Injector) (*database.Manager, error) {
	loader, err := do.Invoke[*config.Loader](i)
	if err != nil {
		return nil, err
	}
	mgr, err := do.Invoke[*logger.Manager](i)
	if err != nil {
		return nil, err
	}

	var configs map[string]database.Config
	if err := loader.UnmarshalKey("database.connections", &configs); err != nil {
		return nil, database.ErrInvalidConfig.Wrapf(err, "解析 database 配置失败")
	}

	return database.NewManager(context.Background(), configs, mgr.GetLogger("database"))
}

// ProvideRedisManager 创建 redis.Manager 的 Provider
// 依赖：config.Loader（redis.instances）、logger.Manager
func ProvideRedisManager(i do.Injector) (*redis.Manager, error) {
	loader, err := do.Invoke[*config.Loader](i)
	if err != nil {
		return nil, err
	}
	mgr, err := do.Invoke[*logger.Manager](i)
	if err != nil {
		return nil, err
	}

	var configs map[string]redis.Config
	if err := loader.UnmarshalKey("redis.instances", &configs); err != nil {
		return nil, redis.ErrInvalidConfig.Wrapf(err, "解析 redis 配置失败")
	}

	return redis.NewManager(context.Background(), configs, mgr.GetLogger("redis"))
}

// ProvideTelemetryManager 创建 telemetry.Manager 的 Provider（配置键 telemetry，默认关闭）
// output 为 stdout 类型 exporter 的输出，nil 时为 stderr
func ProvideTelemetryManager(output io.Writer) func(do.Injector) (*telemetry.Manager, error) {
	return func(i do.Injector) (*telemetry.Manager, error) {
		loader, err := do.Invoke[*config.Loader](i)
		if err != nil {
			return nil, err
		}
		mgr, err := do.Invoke[*logger.Manager](i)
		if err != nil {
			return nil, err
		}

		var cfg telemetry.Config
		if err := loader.UnmarshalKey("telemetry", &cfg); err != nil {
			return nil, validator.ErrInvalidConfig.Wrapf(err, "解析 telemetry 配置失败").WithData("section", "telemetry")
		}
		cfg.ApplyDefaults()
		if err := validator.ValidateSection("telemetry", cfg); err != nil {
			return nil, err
		}

		var opts []telemetry.Option
		if output != nil {
			opts = append(opts, telemetry.WithOutput(output))
		}
		return telemetry.NewManager(context.Background(), cfg, mgr.GetLogger("telemetry"), opts...)
	}
}

// ProvideDataSourceConfig 读取并校验 dao 配置
func ProvideDataSourceConfig(i do.Injector) (dao.Config, error) {
	loader, err := do.Invoke[*config.Loader](i)
	if err != nil {
		return dao.Config{}, err
	}

	var cfg dao.Config
	if err := loader.UnmarshalKey("dao", &cfg); err != nil {
		return dao.Config{}, validator.ErrInvalidConfig.Wrapf(err, "解析 dao 配置失败").WithData("section", "dao")
	}
	cfg.ApplyDefaults()
	if err := validator.ValidateSection("dao", cfg); err != nil {
		return dao.Config{}, err
	}
	return cfg, nil
}

// ============================================
// 能力容器 Provider
// ============================================

// ProvideContainer 创建能力容器并绑定固定装配表（不启动，由应用 Setup 调用 Bootstrap）
func ProvideContainer(i do.Injector) (*container.Container, error) {
	mgr, err := do.Invoke[*logger.Manager](i)
	if err != nil {
		return nil, err
	}

	c := container.New(container.WithLogger(mgr.GetLogger("container")))
	if err := c.BindAll(Wiring(i)...); err != nil {
		return nil, err
	}
	return c, nil
}
