package dao

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Drivers
const (
	DriverStatic   = "static"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverDatabase = "database"
)

// DefaultValue 内置默认输入值
const DefaultValue = 2.0

// Config 数据源配置（配置键 dao）
type Config struct {
	// Driver static | file | redis | database
	Driver string `mapstructure:"driver"`

	// Value static 驱动的值
	Value float64 `mapstructure:"value"`

	// Path file 驱动的文件路径
	Path string `mapstructure:"path"`

	// Key redis 的 key 或 measurements.key
	Key string `mapstructure:"key"`

	// Connection redis/database 实例名
	Connection string `mapstructure:"connection"`
}

// DefaultConfig static 2.0
func DefaultConfig() Config {
	return Config{Driver: DriverStatic, Value: DefaultValue, Connection: "default"}
}

// ApplyDefaults fills zero values
func (c *Config) ApplyDefaults() {
	if c.Driver == "" {
		c.Driver = DriverStatic
	}
	if c.Connection == "" {
		c.Connection = "default"
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	external := c.Driver == DriverRedis || c.Driver == DriverDatabase
	return validation.ValidateStruct(&c,
		validation.Field(&c.Driver, validation.Required,
			validation.In(DriverStatic, DriverFile, DriverRedis, DriverDatabase)),
		validation.Field(&c.Path, validation.When(c.Driver == DriverFile, validation.Required)),
		validation.Field(&c.Key, validation.When(external, validation.Required)),
		validation.Field(&c.Connection, validation.When(external, validation.Required)),
	)
}
