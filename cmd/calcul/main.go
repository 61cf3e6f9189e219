// calcul 解析 metier 能力，计算一次并输出 "Resultat : <v>"
//
//	calcul                          # 默认数据源 static 2.0
//	calcul --value 0                # 覆盖 dao.value
//	calcul -c configs/calcul -e prod
//	CALCUL_DAO_DRIVER=redis CALCUL_DAO_KEY=sensor:t calcul
//
// 退出码：0 成功；2 解析失败；3 循环依赖；4 数据不可用；5 配置无效；1 其他
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/KOMKZ/go-yogan-calcul/application"
	"github.com/KOMKZ/go-yogan-calcul/errcode"
	"github.com/KOMKZ/go-yogan-calcul/presentation"
	"github.com/spf13/cobra"
)

// version 构建时注入：-ldflags "-X main.version=v1.0.0"
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run 执行一次计算并返回进程退出码；stdout 只输出结果行
func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := &cobra.Command{
		Use:           "calcul",
		Short:         "Compute t * 12 * π / 2 * cos(t) from the configured data source",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stderr)
	rootCmd.SetErr(stderr)

	app, err := application.NewCLI("calcul", rootCmd)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return errcode.ExitFailure
	}

	app.WithVersion(version).
		WithLogOutput(stderr).
		SetArgs(args).
		OnRun(func(ctx context.Context, base *application.BaseApplication) error {
			return presentation.Run(ctx, base.Container(), stdout, presentation.WithLogger(base.MustGetLogger()))
		})

	if err := app.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return errcode.ExitCode(err)
	}
	return errcode.ExitOK
}
