package database

import "github.com/KOMKZ/go-yogan-calcul/errcode"

// ModuleCode database error module code
const ModuleCode = 40

var (
	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errcode.Register(errcode.New(ModuleCode, 1, "database",
		"error.database.invalid_config", "invalid database config", 5))

	// ErrConnectionFailed 连接失败
	ErrConnectionFailed = errcode.Register(errcode.New(ModuleCode, 2, "database",
		"error.database.connection_failed", "database connection failed", 4))

	// ErrInstanceNotFound 未配置的连接名
	ErrInstanceNotFound = errcode.Register(errcode.New(ModuleCode, 3, "database",
		"error.database.instance_not_found", "database instance not configured", 5))

	// ErrRecordNotFound 记录不存在
	ErrRecordNotFound = errcode.Register(errcode.New(ModuleCode, 4, "database",
		"error.database.record_not_found", "record not found"))

	// ErrQuery 查询失败
	ErrQuery = errcode.Register(errcode.New(ModuleCode, 5, "database",
		"error.database.query", "database query failed"))
)
