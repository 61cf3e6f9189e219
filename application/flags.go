package application

import (
	"os"
	"strings"
)

// AppFlags 应用启动标志
// flag 标签由 flagx 注册到 cobra；config 标签将非空值写入对应配置键（最高优先级）
type AppFlags struct {
	ConfigDir string   `flag:"config-dir,c" usage:"配置目录路径（也可用 {PREFIX}_CONFIG_DIR 环境变量）" default:"configs/calcul"`
	Env       string   `flag:"env,e" usage:"运行环境（dev/test/prod，默认读取 APP_ENV）"`
	Value     *float64 `flag:"value" usage:"覆盖数据源的值（dao.value）" config:"dao.value"`
	Driver    string   `flag:"driver" usage:"数据源驱动：static/file/redis/database（dao.driver）" config:"dao.driver"`
	LogLevel  string   `flag:"log-level" usage:"日志级别（logger.level）" config:"logger.level"`
}

// EnvPrefix 由应用名构造环境变量前缀（转大写，- 替换为 _）
func EnvPrefix(appName string) string {
	return strings.ToUpper(strings.ReplaceAll(appName, "-", "_"))
}

// resolveConfigDir 优先级：命令行参数 > {PREFIX}_CONFIG_DIR > 默认值
func resolveConfigDir(flagValue string, changed bool, prefix string) string {
	if changed {
		return flagValue
	}
	if dir := os.Getenv(prefix + "_CONFIG_DIR"); dir != "" {
		return dir
	}
	return flagValue
}
