package dao

import "github.com/KOMKZ/go-yogan-calcul/errcode"

// ModuleCode dao error module code
const ModuleCode = 20

// ExitDataUnavailable process exit code when the input value cannot be read
const ExitDataUnavailable = 4

var (
	// ErrDataUnavailable 外部数据源读取失败
	ErrDataUnavailable = errcode.Register(errcode.New(ModuleCode, 1, "dao",
		"error.dao.data_unavailable", "data unavailable", ExitDataUnavailable))

	// ErrUnknownDriver 未知的数据源驱动
	ErrUnknownDriver = errcode.Register(errcode.New(ModuleCode, 2, "dao",
		"error.dao.unknown_driver", "unknown data source driver", 5))
)

func unavailable(source, key string, cause error) error {
	return ErrDataUnavailable.Wrapf(cause, "%s source %q unavailable", source, key).
		WithFields(map[string]interface{}{
			"source": source,
			"key":    key,
		})
}
