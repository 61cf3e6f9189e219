package config

import "github.com/KOMKZ/go-yogan-calcul/errcode"

// ModuleCode config error module code
const ModuleCode = 30

// ExitInvalidConfig process exit code for unreadable or invalid configuration
const ExitInvalidConfig = 5

// ErrConfigLoad a source could not be read or parsed
var ErrConfigLoad = errcode.Register(errcode.New(ModuleCode, 1, "config", "error.config.load", "配置加载失败", ExitInvalidConfig))
