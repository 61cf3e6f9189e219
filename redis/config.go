// Package redis go-redis 连接管理（单机与集群，多实例）
package redis

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config one named instance, read from redis.<name>
type Config struct {
	// Mode standalone or cluster
	Mode string `mapstructure:"mode"`

	// Addrs standalone uses the first address, cluster uses all
	Addrs []string `mapstructure:"addrs"`

	// Addr single address shorthand
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`

	// DB 0-15, standalone only
	DB int `mapstructure:"db"`

	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	MaxRetries   int           `mapstructure:"max_retries"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// ApplyDefaults fills zero values
func (c *Config) ApplyDefaults() {
	if c.Mode == "" {
		c.Mode = "standalone"
	}
	if c.Addr != "" && len(c.Addrs) == 0 {
		c.Addrs = []string{c.Addr}
	}
	if c.PoolSize == 0 {
		c.PoolSize = 4
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 3 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 3 * time.Second
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Mode, validation.Required, validation.In("standalone", "cluster")),
		validation.Field(&c.Addrs, validation.Required),
		validation.Field(&c.DB, validation.When(c.Mode == "standalone", validation.Min(0), validation.Max(15))),
		validation.Field(&c.PoolSize, validation.Min(0)),
		validation.Field(&c.MinIdleConns, validation.Min(0)),
	)
}
