package redis

import "github.com/KOMKZ/go-yogan-calcul/errcode"

// ModuleCode redis error module code
const ModuleCode = 41

var (
	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errcode.Register(errcode.New(ModuleCode, 1, "redis",
		"error.redis.invalid_config", "invalid redis config", 5))

	// ErrConnectionFailed 连接失败
	ErrConnectionFailed = errcode.Register(errcode.New(ModuleCode, 2, "redis",
		"error.redis.connection_failed", "redis connection failed", 4))

	// ErrInstanceNotFound 未配置的实例名
	ErrInstanceNotFound = errcode.Register(errcode.New(ModuleCode, 3, "redis",
		"error.redis.instance_not_found", "redis instance not configured", 5))
)
