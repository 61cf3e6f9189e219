package application

import (
	"context"
	"io"
	"time"

	"github.com/KOMKZ/go-yogan-calcul/flagx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RunFunc 命令主体，在 Setup 之后、Shutdown 之前执行
type RunFunc func(ctx context.Context, app *BaseApplication) error

// CLIApplication CLI 应用（cobra 根命令 + BaseApplication）
// BaseApplication 在 cobra 解析参数之后才创建，命令行参数因此能参与配置加载
type CLIApplication struct {
	name            string
	rootCmd         *cobra.Command
	flags           *AppFlags
	logOutput       io.Writer
	version         string
	shutdownTimeout time.Duration

	base *BaseApplication
	run  RunFunc
}

// NewCLI 创建 CLI 应用，并把 AppFlags 绑定到根命令
// name: 应用名，决定环境变量前缀（calcul -> CALCUL）
func NewCLI(name string, rootCmd *cobra.Command) (*CLIApplication, error) {
	flags := &AppFlags{}
	if err := flagx.BindFlags(rootCmd, flags); err != nil {
		return nil, err
	}

	c := &CLIApplication{
		name:            name,
		rootCmd:         rootCmd,
		flags:           flags,
		shutdownTimeout: DefaultShutdownTimeout,
	}
	rootCmd.RunE = c.runE
	return c, nil
}

// OnRun 设置命令主体（链式调用）
func (c *CLIApplication) OnRun(fn RunFunc) *CLIApplication {
	c.run = fn
	return c
}

// WithLogOutput console 日志输出（链式调用）
func (c *CLIApplication) WithLogOutput(w io.Writer) *CLIApplication {
	c.logOutput = w
	return c
}

// WithVersion 设置版本号（链式调用）
func (c *CLIApplication) WithVersion(version string) *CLIApplication {
	c.version = version
	c.rootCmd.Version = version
	return c
}

// WithShutdownTimeout 设置关闭超时（链式调用）
func (c *CLIApplication) WithShutdownTimeout(timeout time.Duration) *CLIApplication {
	c.shutdownTimeout = timeout
	return c
}

// Execute 执行根命令：解析参数 -> NewBase -> Setup -> OnRun -> Shutdown
// 返回命令错误（优先）或关闭错误
func (c *CLIApplication) Execute() error {
	return c.rootCmd.Execute()
}

// SetArgs 设置命令行参数（测试及 main 使用）
func (c *CLIApplication) SetArgs(args []string) *CLIApplication {
	c.rootCmd.SetArgs(args)
	return c
}

// GetRootCmd 获取根命令
func (c *CLIApplication) GetRootCmd() *cobra.Command {
	return c.rootCmd
}

// Flags 解析后的启动标志
func (c *CLIApplication) Flags() *AppFlags {
	return c.flags
}

// Base 当前运行的 BaseApplication，Execute 之前为 nil
func (c *CLIApplication) Base() *BaseApplication {
	return c.base
}

func (c *CLIApplication) runE(cmd *cobra.Command, _ []string) error {
	if err := flagx.ParseFlags(cmd, c.flags); err != nil {
		return err
	}

	prefix := EnvPrefix(c.name)
	base, err := NewBase(Options{
		ConfigDir:    resolveConfigDir(c.flags.ConfigDir, cmd.Flags().Changed("config-dir"), prefix),
		ConfigPrefix: prefix,
		Env:          c.flags.Env,
		Flags:        c.flags,
		LogOutput:    c.logOutput,
	})
	if err != nil {
		return err
	}
	base.WithVersion(c.version)
	c.base = base

	if err := base.Setup(); err != nil {
		base.MustGetLogger().ErrorCtx(base.Context(), "setup failed", zap.Error(err))
		_ = base.Shutdown(c.shutdownTimeout)
		return err
	}

	base.setState(StateRunning)

	var runErr error
	if c.run != nil {
		runErr = c.run(base.Context(), base)
		if runErr != nil {
			base.MustGetLogger().ErrorCtx(base.Context(), "command failed", zap.Error(runErr))
		}
	}

	// 无论成功失败都清理资源
	shutdownErr := base.Shutdown(c.shutdownTimeout)
	if runErr != nil {
		return runErr
	}
	return shutdownErr
}
