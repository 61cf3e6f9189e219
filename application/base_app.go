// Package application 提供通用的应用启动框架
// BaseApplication 持有注入器、配置、日志与生命周期；CLIApplication 在其上组合 cobra
package application

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/KOMKZ/go-yogan-calcul/config"
	"github.com/KOMKZ/go-yogan-calcul/container"
	"github.com/KOMKZ/go-yogan-calcul/di"
	"github.com/KOMKZ/go-yogan-calcul/logger"
	"github.com/KOMKZ/go-yogan-calcul/telemetry"
	"github.com/google/uuid"
	"github.com/samber/do/v2"
	"go.uber.org/zap"
)

// DefaultShutdownTimeout CLI 应用一般很快结束
const DefaultShutdownTimeout = 5 * time.Second

// Options 应用构建选项
type Options struct {
	ConfigDir    string      // 配置目录（config.yaml、<env>.yaml）
	ConfigPrefix string      // 环境变量前缀，默认 CALCUL
	Env          string      // 运行环境，空则读取 APP_ENV / ENV
	Flags        interface{} // 命令行参数（config 标签映射到配置键）
	LogOutput    io.Writer   // console 日志输出，默认 stderr
}

// BaseApplication 应用核心框架
// samber/do 管理基础设施的创建与关闭；能力容器在 Setup 阶段急切启动
type BaseApplication struct {
	injector *do.RootScope

	// 核心组件缓存（快速访问）
	logger       *logger.CtxZapLogger
	configLoader *config.Loader
	container    *container.Container

	// 生命周期
	ctx       context.Context
	cancel    context.CancelFunc
	traceID   string
	state     AppState
	startTime time.Time
	mu        sync.RWMutex

	version string

	// 回调函数
	onSetup    func(*BaseApplication) error
	onShutdown func(context.Context) error
}

// AppState 应用状态
type AppState int

const (
	StateInit AppState = iota
	StateSetup
	StateRunning
	StateStopping
	StateStopped
)

// String 状态字符串表示
func (s AppState) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateSetup:
		return "Setup"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// NewBase 创建基础应用实例：注册 Provider，立即加载 Config 与 Logger
// 每次运行生成一个 trace id，放入应用上下文
func NewBase(opts Options) (*BaseApplication, error) {
	startTime := time.Now()
	injector := do.New()

	di.RegisterCoreProviders(injector, di.ConfigOptions{
		ConfigPath:   opts.ConfigDir,
		ConfigPrefix: opts.ConfigPrefix,
		Env:          opts.Env,
		Flags:        opts.Flags,
		LogOutput:    opts.LogOutput,
	})

	configLoader, err := do.Invoke[*config.Loader](injector)
	if err != nil {
		injector.Shutdown()
		return nil, err
	}
	coreLogger, err := do.Invoke[*logger.CtxZapLogger](injector)
	if err != nil {
		injector.Shutdown()
		return nil, err
	}

	traceID := uuid.NewString()
	ctx, cancel := context.WithCancel(logger.WithTraceID(context.Background(), traceID))

	coreLogger.DebugCtx(ctx, "✅ 基础应用初始化完成",
		zap.String("configDir", opts.ConfigDir),
		zap.Strings("loadedFiles", configLoader.GetLoadedFiles()))

	return &BaseApplication{
		injector:     injector,
		logger:       coreLogger,
		configLoader: configLoader,
		ctx:          ctx,
		cancel:       cancel,
		traceID:      traceID,
		state:        StateInit,
		startTime:    startTime,
	}, nil
}

// WithVersion 设置应用版本号（链式调用）
func (b *BaseApplication) WithVersion(version string) *BaseApplication {
	b.version = version
	return b
}

// GetVersion 获取应用版本号
func (b *BaseApplication) GetVersion() string {
	return b.version
}

// Setup 构建能力容器并急切解析全部能力，任何装配错误在这里暴露
func (b *BaseApplication) Setup() error {
	b.setState(StateSetup)

	// telemetry 先于能力容器启动，全局 Provider 在 Run 之前就位
	if _, err := do.Invoke[*telemetry.Manager](b.injector); err != nil {
		return err
	}

	c, err := do.Invoke[*container.Container](b.injector)
	if err != nil {
		return err
	}
	if err := c.Bootstrap(b.ctx); err != nil {
		return err
	}
	b.container = c

	if b.onSetup != nil {
		if err := b.onSetup(b); err != nil {
			return fmt.Errorf("onSetup failed: %w", err)
		}
	}

	b.logger.DebugCtx(b.ctx, "✅ Setup completed",
		zap.String("version", b.version),
		zap.Int64("startup_ms", b.GetStartupTimeMs()))
	return nil
}

// Shutdown 优雅关闭：OnShutdown 回调，然后关闭注入器（连接、日志文件）
// 超时后不再等待，返回 context.DeadlineExceeded
func (b *BaseApplication) Shutdown(timeout time.Duration) error {
	b.setState(StateStopping)
	b.logger.DebugCtx(b.ctx, "🔻 Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(logger.WithTraceID(context.Background(), b.traceID), timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		// 1. 业务层清理
		if b.onShutdown != nil {
			if err := b.onShutdown(ctx); err != nil {
				b.logger.ErrorCtx(ctx, "OnShutdown callback failed", zap.Error(err))
			}
		}

		// 2. 关闭注入器（自动关闭实现 Shutdown() error 的组件）
		// ShutdownReport 永远非 nil，以 Succeed 判断
		var shutdownErr error
		if report := b.injector.Shutdown(); !report.Succeed {
			b.logger.ErrorCtx(ctx, "DI container shutdown failed", zap.Error(report))
			shutdownErr = report
		}
		done <- shutdownErr
	}()

	var shutdownErr error
	select {
	case shutdownErr = <-done:
	case <-ctx.Done():
		b.logger.WarnCtx(ctx, "⚠️  Shutdown timed out", zap.Duration("timeout", timeout))
		b.cancel()
		return ctx.Err()
	}

	b.cancel()
	b.setState(StateStopped)
	if shutdownErr != nil {
		return shutdownErr
	}
	b.logger.DebugCtx(ctx, "✅ 所有组件已关闭")
	return nil
}

// OnSetup 注册 Setup 阶段回调
func (b *BaseApplication) OnSetup(fn func(*BaseApplication) error) *BaseApplication {
	b.onSetup = fn
	return b
}

// OnShutdown 注册关闭前回调
func (b *BaseApplication) OnShutdown(fn func(context.Context) error) *BaseApplication {
	b.onShutdown = fn
	return b
}

// MustGetLogger 获取日志实例
func (b *BaseApplication) MustGetLogger() *logger.CtxZapLogger {
	if b.logger == nil {
		panic("logger not initialized")
	}
	return b.logger
}

// GetConfigLoader 获取配置加载器
func (b *BaseApplication) GetConfigLoader() *config.Loader {
	return b.configLoader
}

// GetInjector 获取 samber/do 注入器
func (b *BaseApplication) GetInjector() *do.RootScope {
	return b.injector
}

// Container 能力容器，Setup 成功后可用
func (b *BaseApplication) Container() *container.Container {
	if b.container == nil {
		panic("container not bootstrapped, please call Setup() first")
	}
	return b.container
}

// TraceID 本次运行的 trace id
func (b *BaseApplication) TraceID() string {
	return b.traceID
}

// GetState 获取当前状态（线程安全）
func (b *BaseApplication) GetState() AppState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Context 获取应用上下文（带 trace id）
func (b *BaseApplication) Context() context.Context {
	return b.ctx
}

// GetStartupTimeMs 自 NewBase 起经过的毫秒数
func (b *BaseApplication) GetStartupTimeMs() int64 {
	return time.Since(b.startTime).Milliseconds()
}

// setState 设置状态（线程安全）
func (b *BaseApplication) setState(state AppState) {
	b.mu.Lock()
	oldState := b.state
	b.state = state
	b.mu.Unlock()

	b.logger.DebugCtx(b.ctx, "State changed",
		zap.String("from", oldState.String()),
		zap.String("to", state.String()))
}
